package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetResearchTools returns general reference lookups
func GetResearchTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolDuckDuckGoInstant,
			"Search DuckDuckGo Instant Answers for quick facts. Returns abstracts, answers, definitions and related topics. Good for quick factual lookups and definitions.",
			map[string]interface{}{
				"query": stringParam("What to look up"),
			}, "query"),
		function(ToolWikipediaSearch,
			"Search Wikipedia for articles matching a query. Returns titles, snippets and URLs. Use wikipedia_article to read one.",
			map[string]interface{}{
				"query": stringParam("Search terms"),
			}, "query"),
		function(ToolWikipediaArticle,
			"Get the summary and plain-text content of a Wikipedia article by exact title. Use wikipedia_search first to find the title.",
			map[string]interface{}{
				"title": stringParam("Exact article title, e.g. 'Go (programming language)'"),
			}, "title"),
		function(ToolHackerNewsSearch,
			"Search Hacker News for stories and discussions. Returns titles, points and comment counts.",
			map[string]interface{}{
				"query": stringParam("Search terms"),
			}, "query"),
		function(ToolOpenLibrarySearch,
			"Search Open Library for books. Returns titles, authors, first publication year and subjects.",
			map[string]interface{}{
				"query": stringParam("Title, author or subject"),
			}, "query"),
		function(ToolWikidataSearch,
			"Search Wikidata for entities. Returns identifiers, labels and descriptions.",
			map[string]interface{}{
				"query": stringParam("Entity name"),
			}, "query"),
	}
}
