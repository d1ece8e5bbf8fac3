package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetGitHubTools returns GitHub-related tools
func GetGitHubTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolGitHubSearch,
			"Search GitHub repositories. Use 'org:orgname' in the query to search within an organization. Returns names, descriptions, stars and languages.",
			map[string]interface{}{
				"query": stringParam("Search query, e.g. 'html parser language:go'"),
				"limit": integerParam("Number of results (default: 10, max 100)"),
			}, "query"),
		function(ToolGitHubRepo,
			"Get details about a GitHub repository including stars, forks, topics, license and the README.",
			map[string]interface{}{
				"owner": stringParam("Repository owner (username or organization)"),
				"repo":  stringParam("Repository name"),
			}, "owner", "repo"),
		function(ToolGitHubListOrgRepos,
			"List an organization's public repositories, most recently updated first.",
			map[string]interface{}{
				"org":   stringParam("Organization login"),
				"limit": integerParam("Number of repositories (default: 5, max 100)"),
			}, "org"),
		function(ToolGitHubReadFile,
			"Read a file from a GitHub repository. Falls back from 'main' to 'master' when no branch is given.",
			map[string]interface{}{
				"owner":  stringParam("Repository owner"),
				"repo":   stringParam("Repository name"),
				"path":   stringParam("File path within the repository, e.g. 'README.md'"),
				"branch": stringParam("Branch name (default: main)"),
			}, "owner", "repo", "path"),
	}
}
