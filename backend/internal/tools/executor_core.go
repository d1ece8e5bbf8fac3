package tools

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"go.uber.org/zap"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/webclient"
	"research-tools/backend/pkg/config"
	apperrors "research-tools/backend/pkg/errors"
	"research-tools/backend/pkg/logger"
)

// ToolResult represents the result of a tool execution
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`

	// Err is the typed cause behind Error, used to pick an HTTP status.
	Err error `json:"-"`
}

func failure(err error) *ToolResult {
	return &ToolResult{Success: false, Error: err.Error(), Err: err}
}

// Executor handles tool execution
type Executor struct {
	web          *webclient.Client
	github       *gh.Client
	youtube      youtubeClient
	endpoints    Endpoints
	maxContent   int
	maxItems     int
	contactEmail string
	logger       *zap.Logger
}

// NewExecutor creates a new tool executor. A nil httpClient gets one with
// the configured timeout.
func NewExecutor(cfg *config.Config, httpClient *http.Client) *Executor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	e := &Executor{
		web:          webclient.New(httpClient, cfg.UserAgent, cfg.MaxFetchBytes),
		maxContent:   cfg.MaxContentLength,
		maxItems:     cfg.MaxItems,
		contactEmail: cfg.ContactEmail,
		logger:       logger.Named("tools"),
	}
	e.SetEndpoints(DefaultEndpoints())
	return e
}

// SetEndpoints replaces the upstream base URLs
func (e *Executor) SetEndpoints(ep Endpoints) {
	e.endpoints = ep

	client := gh.NewClient(e.web.HTTPClient())
	client.UserAgent = e.web.UserAgent()
	base := ep.GitHubAPI
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if u, err := url.Parse(base); err == nil {
		client.BaseURL = u
	} else {
		e.logger.Warn("Invalid GitHub API endpoint, keeping default", zap.String("endpoint", ep.GitHubAPI), zap.Error(err))
	}
	e.github = client
	e.youtube = newYouTubeClient(e.web.HTTPClient(), ep.YouTube)
}

// Endpoints returns the upstream base URLs in use
func (e *Executor) Endpoints() Endpoints {
	return e.endpoints
}

// Execute runs a tool call and returns the result
func (e *Executor) Execute(ctx context.Context, toolCall adapter.ToolCall) *ToolResult {
	start := time.Now()
	e.logger.Debug("Executing tool",
		zap.String("tool", toolCall.Name),
		zap.Any("arguments", toolCall.Arguments),
	)

	args := toolCall.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}

	result := e.dispatch(ctx, toolCall.Name, args)

	fields := []zap.Field{
		zap.String("tool", toolCall.Name),
		zap.Bool("success", result.Success),
		zap.Duration("duration", time.Since(start)),
	}
	if result.Success {
		e.logger.Debug("Tool finished", fields...)
	} else {
		e.logger.Warn("Tool failed", append(fields, zap.String("error", result.Error))...)
	}
	return result
}

func (e *Executor) dispatch(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	switch name {
	// Research Tools
	case ToolDuckDuckGoInstant:
		return e.executeDuckDuckGoInstant(ctx, args)
	case ToolWikipediaSearch:
		return e.executeWikipediaSearch(ctx, args)
	case ToolWikipediaArticle:
		return e.executeWikipediaArticle(ctx, args)
	case ToolHackerNewsSearch:
		return e.executeHackerNewsSearch(ctx, args)
	case ToolOpenLibrarySearch:
		return e.executeOpenLibrarySearch(ctx, args)
	case ToolWikidataSearch:
		return e.executeWikidataSearch(ctx, args)

	// Scholarly Tools
	case ToolOpenAlexSearch:
		return e.executeOpenAlexSearch(ctx, args)
	case ToolArxivSearch:
		return e.executeArxivSearch(ctx, args)
	case ToolPubMedSearch:
		return e.executePubMedSearch(ctx, args)
	case ToolCrossrefSearch:
		return e.executeCrossrefSearch(ctx, args)

	// Web Tools
	case ToolWebSearch:
		return e.executeWebSearch(ctx, args)
	case ToolFetchURL:
		return e.executeFetchURL(ctx, args)

	// GitHub Tools
	case ToolGitHubSearch:
		return e.executeGitHubSearch(ctx, args)
	case ToolGitHubRepo:
		return e.executeGitHubRepo(ctx, args)
	case ToolGitHubListOrgRepos:
		return e.executeGitHubListOrgRepos(ctx, args)
	case ToolGitHubReadFile:
		return e.executeGitHubReadFile(ctx, args)

	// Reddit Tools
	case ToolRedditSearch:
		return e.executeRedditSearch(ctx, args)
	case ToolRedditList:
		return e.executeRedditList(ctx, args)
	case ToolRedditComments:
		return e.executeRedditComments(ctx, args)

	// Steam Tools
	case ToolSteamSearch:
		return e.executeSteamSearch(ctx, args)
	case ToolSteamAppDetails:
		return e.executeSteamAppDetails(ctx, args)
	case ToolSteamReviews:
		return e.executeSteamReviews(ctx, args)

	// YouTube Tools
	case ToolYouTubeFeedXML:
		return e.executeYouTubeFeedXML(ctx, args)
	case ToolYouTubeOEmbed:
		return e.executeYouTubeOEmbed(ctx, args)
	case ToolYouTubeMetadata:
		return e.executeYouTubeMetadata(ctx, args)
	case ToolYouTubeTranscript:
		return e.executeYouTubeTranscript(ctx, args)
	case ToolYouTubeChannelVideos:
		return e.executeYouTubeChannelVideos(ctx, args)

	// Domain Tools
	case ToolRDAPDomain:
		return e.executeRDAPDomain(ctx, args)

	default:
		return failure(apperrors.NewToolNotFound(name))
	}
}
