package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// GitHub Tool Implementations
// ============================================================================

const (
	readmeLength   = 4000
	repoFileLength = 10000
)

// RepoSummary is one repository in a search or listing
type RepoSummary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	Updated     string `json:"updated"`
	Pushed      string `json:"pushed,omitempty"`
}

func (e *Executor) executeGitHubSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}
	limit, err := intArg(args, "limit", e.maxItems)
	if err != nil {
		return failure(err)
	}

	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: clamp(limit, 1, 100)}}
	found, _, err := e.github.Search.Repositories(ctx, query, opts)
	if err != nil {
		return failure(e.wrapGitHubError(ctx, err, "search repositories"))
	}

	repos := []RepoSummary{}
	for _, r := range found.Repositories {
		repos = append(repos, RepoSummary{
			Name:        r.GetFullName(),
			Description: prefix(r.GetDescription(), 200),
			URL:         r.GetHTMLURL(),
			Stars:       r.GetStargazersCount(),
			Language:    r.GetLanguage(),
			Updated:     githubDate(r.GetUpdatedAt()),
		})
	}

	total := int64(found.GetTotal())
	return &ToolResult{
		Success: true,
		Data:    SearchResults{Query: query, TotalCount: &total, Results: repos},
		Message: fmt.Sprintf("Found %d repositories", total),
	}
}

// RepoDetails is the result of github_repo
type RepoDetails struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
	License     string   `json:"license"`
	Readme      string   `json:"readme,omitempty"`
}

func (e *Executor) executeGitHubRepo(ctx context.Context, args map[string]interface{}) *ToolResult {
	owner, err := requireString(args, "owner")
	if err != nil {
		return failure(err)
	}
	repo, err := requireString(args, "repo")
	if err != nil {
		return failure(err)
	}

	var (
		info   *gh.Repository
		readme string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, _, err := e.github.Repositories.Get(gctx, owner, repo)
		if err != nil {
			return e.wrapGitHubError(gctx, err, "get repository")
		}
		info = r
		return nil
	})
	g.Go(func() error {
		content, _, err := e.github.Repositories.GetReadme(gctx, owner, repo, nil)
		if err != nil {
			e.logger.Debug("No README", zap.String("repo", owner+"/"+repo), zap.Error(err))
			return nil
		}
		decoded, err := content.GetContent()
		if err != nil {
			e.logger.Debug("Undecodable README", zap.String("repo", owner+"/"+repo), zap.Error(err))
			return nil
		}
		readme = decoded
		return nil
	})
	if err := g.Wait(); err != nil {
		return failure(err)
	}

	topics := info.Topics
	if topics == nil {
		topics = []string{}
	}
	details := RepoDetails{
		Name:        info.GetFullName(),
		Description: info.GetDescription(),
		URL:         info.GetHTMLURL(),
		Stars:       info.GetStargazersCount(),
		Forks:       info.GetForksCount(),
		Language:    info.GetLanguage(),
		Topics:      topics,
		Created:     githubDate(info.GetCreatedAt()),
		Updated:     githubDate(info.GetUpdatedAt()),
		License:     info.GetLicense().GetName(),
	}
	if readme != "" {
		details.Readme = truncate(readme, readmeLength)
	}

	return &ToolResult{Success: true, Data: details}
}

func (e *Executor) executeGitHubListOrgRepos(ctx context.Context, args map[string]interface{}) *ToolResult {
	org, err := requireString(args, "org")
	if err != nil {
		return failure(err)
	}
	limit, err := intArg(args, "limit", 5)
	if err != nil {
		return failure(err)
	}

	opts := &gh.RepositoryListByOrgOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: clamp(limit, 1, 100)},
	}
	list, _, err := e.github.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return failure(e.wrapGitHubError(ctx, err, "list organization repositories"))
	}

	if len(list) == 0 {
		return &ToolResult{
			Success: true,
			Data:    []RepoSummary{},
			Message: fmt.Sprintf("No public repositories found for organization '%s'", org),
		}
	}

	repos := make([]RepoSummary, 0, len(list))
	for _, r := range list {
		repos = append(repos, RepoSummary{
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Description: r.GetDescription(),
			URL:         r.GetHTMLURL(),
			Stars:       r.GetStargazersCount(),
			Language:    r.GetLanguage(),
			Updated:     githubDate(r.GetUpdatedAt()),
			Pushed:      githubDate(r.GetPushedAt()),
		})
	}

	return &ToolResult{
		Success: true,
		Data:    repos,
		Message: fmt.Sprintf("Found %d repos. Most recently updated: %s (updated: %s)",
			len(repos), repos[0].Name, repos[0].Updated),
	}
}

// RepoFile is the result of github_read_file
type RepoFile struct {
	Path    string `json:"path"`
	Branch  string `json:"branch"`
	Content string `json:"content"`
}

func (e *Executor) executeGitHubReadFile(ctx context.Context, args map[string]interface{}) *ToolResult {
	owner, err := requireString(args, "owner")
	if err != nil {
		return failure(err)
	}
	repo, err := requireString(args, "repo")
	if err != nil {
		return failure(err)
	}
	path, err := requireString(args, "path")
	if err != nil {
		return failure(err)
	}

	branches := []string{"main", "master"}
	if branch := stringArg(args, "branch"); branch != "" && branch != "main" {
		branches = []string{branch}
	}

	for _, branch := range branches {
		rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", e.endpoints.GitHubRaw,
			url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch), strings.TrimPrefix(path, "/"))

		resp, err := e.web.GetBytes(ctx, rawURL, nil)
		if err != nil {
			var statusErr *apperrors.ErrHTTPStatus
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				continue
			}
			return failure(err)
		}

		return &ToolResult{
			Success: true,
			Data: RepoFile{
				Path:    path,
				Branch:  branch,
				Content: truncate(strings.ToValidUTF8(string(resp.Body), "\uFFFD"), repoFileLength),
			},
		}
	}

	return failure(apperrors.NewToolExecutionFailed(ToolGitHubReadFile,
		fmt.Sprintf("file not found: %s/%s/%s", owner, repo, path), nil))
}

// wrapGitHubError maps go-github errors onto the shared error types.
func (e *Executor) wrapGitHubError(ctx context.Context, err error, operation string) error {
	if ctxErr := apperrors.FromContext(ctx, operation); ctxErr != nil {
		return ctxErr
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		target := operation
		if ghErr.Response.Request != nil {
			target = ghErr.Response.Request.URL.String()
		}
		return apperrors.NewHTTPStatus(target, ghErr.Response.StatusCode)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewToolExecutionFailed("github", "rate limit exceeded", err)
	}

	return apperrors.NewRequestFailed(operation, err)
}

func githubDate(ts gh.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02")
}
