package tools

import (
	"research-tools/backend/internal/adapter"
)

// Tool names - Research Tools
const (
	ToolDuckDuckGoInstant = "duckduckgo_instant"
	ToolWikipediaSearch   = "wikipedia_search"
	ToolWikipediaArticle  = "wikipedia_article"
	ToolHackerNewsSearch  = "hackernews_search"
	ToolOpenLibrarySearch = "open_library_search"
	ToolWikidataSearch    = "wikidata_search"
)

// Tool names - Scholarly Tools
const (
	ToolOpenAlexSearch = "openalex_search"
	ToolArxivSearch    = "arxiv_search"
	ToolPubMedSearch   = "pubmed_search"
	ToolCrossrefSearch = "crossref_search"
)

// Tool names - Web Tools
const (
	ToolWebSearch = "web_search"
	ToolFetchURL  = "fetch_url"
)

// Tool names - GitHub Tools
const (
	ToolGitHubSearch       = "github_search"
	ToolGitHubRepo         = "github_repo"
	ToolGitHubListOrgRepos = "github_list_org_repos"
	ToolGitHubReadFile     = "github_read_file"
)

// Tool names - Reddit Tools
const (
	ToolRedditSearch   = "reddit_search"
	ToolRedditList     = "reddit_list"
	ToolRedditComments = "reddit_comments"
)

// Tool names - Steam Tools
const (
	ToolSteamSearch     = "steam_search"
	ToolSteamAppDetails = "steam_app_details"
	ToolSteamReviews    = "steam_reviews"
)

// Tool names - YouTube Tools
const (
	ToolYouTubeFeedXML       = "youtube_feed_xml"
	ToolYouTubeOEmbed        = "youtube_oembed"
	ToolYouTubeMetadata      = "youtube_metadata"
	ToolYouTubeTranscript    = "youtube_transcript"
	ToolYouTubeChannelVideos = "youtube_channel_videos"
)

// Tool names - Domain Tools
const (
	ToolRDAPDomain = "rdap_domain"
)

// GetAllTools returns every tool definition
func GetAllTools() []adapter.Tool {
	tools := []adapter.Tool{}

	// Research Tools
	tools = append(tools, GetResearchTools()...)

	// Scholarly Tools
	tools = append(tools, GetScholarTools()...)

	// Web Tools
	tools = append(tools, GetWebTools()...)

	// GitHub Tools
	tools = append(tools, GetGitHubTools()...)

	// Reddit Tools
	tools = append(tools, GetRedditTools()...)

	// Steam Tools
	tools = append(tools, GetSteamTools()...)

	// YouTube Tools
	tools = append(tools, GetYouTubeTools()...)

	// Domain Tools
	tools = append(tools, GetDomainTools()...)

	return tools
}

// LookupTool finds a tool definition by name
func LookupTool(name string) (adapter.Tool, bool) {
	for _, t := range GetAllTools() {
		if t.Function.Name == name {
			return t, true
		}
	}
	return adapter.Tool{}, false
}

// function builds a tool definition from a parameter map and the names of
// its required parameters.
func function(name, description string, properties map[string]interface{}, required ...string) adapter.Tool {
	if required == nil {
		required = []string{}
	}
	return adapter.Tool{
		Type: "function",
		Function: adapter.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

func stringParam(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func enumParam(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        values,
		"description": description,
	}
}

func integerParam(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}
