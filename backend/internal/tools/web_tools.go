package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetWebTools returns web browsing/search tools
func GetWebTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolWebSearch,
			"Search the web with DuckDuckGo. Returns the top results with title, URL and snippet. Rewrite the user's question into a keyword query first.",
			map[string]interface{}{
				"query": stringParam("An optimized keyword query, not the user's exact question"),
			}, "query"),
		function(ToolFetchURL,
			"Fetch any URL and return its content. HTML pages are converted to plain text (default) or Markdown. Content is truncated to avoid filling context.",
			map[string]interface{}{
				"url":    stringParam("The URL to fetch; https:// is assumed when no scheme is given"),
				"format": enumParam("Output format for HTML pages (default: text)", "text", "markdown"),
			}, "url"),
	}
}
