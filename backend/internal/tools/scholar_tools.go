package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetScholarTools returns academic literature search tools
func GetScholarTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolOpenAlexSearch,
			"Search OpenAlex for academic papers and scholarly works. Returns titles, authors, year, citation counts, journal, open-access PDF links and abstracts.",
			map[string]interface{}{
				"query": stringParam("Search terms"),
			}, "query"),
		function(ToolArxivSearch,
			"Search arXiv for preprints in physics, mathematics, computer science and related fields. Returns titles, authors, abstracts, categories and PDF links.",
			map[string]interface{}{
				"query": stringParam("Search terms"),
			}, "query"),
		function(ToolPubMedSearch,
			"Search PubMed for biomedical and life sciences literature. Returns titles, authors, abstracts, journal, year, PubMed links and DOIs.",
			map[string]interface{}{
				"query": stringParam("Search terms"),
			}, "query"),
		function(ToolCrossrefSearch,
			"Search Crossref for DOI metadata. Returns titles, authors, journal, year, DOI links, publication type and citation counts.",
			map[string]interface{}{
				"query": stringParam("Title, author or keywords"),
			}, "query"),
	}
}
