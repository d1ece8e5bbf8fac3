package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetRedditTools returns Reddit search and listing tools
func GetRedditTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolRedditSearch,
			"Search Reddit for posts and discussions, optionally within one subreddit. Returns titles, scores and comment counts.",
			map[string]interface{}{
				"query":     stringParam("Search terms"),
				"subreddit": stringParam("Restrict the search to this subreddit (optional)"),
			}, "query"),
		function(ToolRedditList,
			"List posts in a subreddit by sort order and, for 'top', a time window.",
			map[string]interface{}{
				"subreddit": stringParam("Subreddit name, with or without the r/ prefix"),
				"sort":      enumParam("Sort order (default: hot)", "hot", "new", "top", "rising"),
				"t":         enumParam("Time window for 'top' (default: day)", "hour", "day", "week", "month", "year", "all"),
				"limit":     integerParam("Number of posts (default: 25, max 100)"),
			}, "subreddit"),
		function(ToolRedditComments,
			"Read a Reddit post and its top-level comments, given a permalink or post id.",
			map[string]interface{}{
				"post":  stringParam("Post permalink (https://www.reddit.com/r/.../comments/...) or post id"),
				"limit": integerParam("Number of comments (default: 25, max 100)"),
			}, "post"),
	}
}
