package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// Web Tool Implementations
// ============================================================================

const webSearchResults = 5

// browserUserAgent is sent to the DuckDuckGo HTML endpoint, which rejects
// obvious bots.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// SearchResult represents a single search result
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func (e *Executor) executeWebSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	searchURL := fmt.Sprintf("%s/html/?q=%s", e.endpoints.DuckDuckGoHTML, url.QueryEscape(query))
	resp, err := e.web.GetBytes(ctx, searchURL, map[string]string{
		"User-Agent": browserUserAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return failure(err)
	}

	results, err := parseSearchResults(resp.Body)
	if err != nil {
		return failure(apperrors.NewParseFailed("search results HTML", err))
	}

	if len(results) == 0 {
		return &ToolResult{
			Success: true,
			Data:    SearchResults{Query: query, Results: []SearchResult{}},
			Message: fmt.Sprintf("No results found for: %s", query),
		}
	}

	return &ToolResult{
		Success: true,
		Data:    SearchResults{Query: query, Results: results},
		Message: fmt.Sprintf("Found %d results for: %s", len(results), query),
	}
}

// parseSearchResults extracts search results from DuckDuckGo HTML
func parseSearchResults(body []byte) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		title := squash(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		results = append(results, SearchResult{
			Title:   title,
			URL:     unwrapRedirect(href),
			Snippet: clip(squash(s.Find(".result__snippet").First().Text()), 200),
		})
		return len(results) < webSearchResults
	})
	return results, nil
}

// unwrapRedirect returns the target of a DuckDuckGo /l/?uddg= link. Other
// relative links are dropped.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if strings.HasPrefix(href, "/") {
		return ""
	}
	return href
}

// Document is the result of fetch_url
type Document struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

func (e *Executor) executeFetchURL(ctx context.Context, args map[string]interface{}) *ToolResult {
	urlStr, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	format, err := oneOf("format", stringArg(args, "format"), "text", "text", "markdown")
	if err != nil {
		return failure(err)
	}

	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		urlStr = "https://" + urlStr
	}

	page, err := e.web.GetText(ctx, urlStr)
	if err != nil {
		return failure(err)
	}

	result := Document{URL: urlStr, Format: format, Content: page.Text}
	if page.HTML {
		result.Title = pageTitle(page.Raw)
		if format == "markdown" {
			converted, err := md.NewConverter("", true, nil).ConvertString(page.Raw)
			if err != nil {
				e.logger.Warn("Markdown conversion failed, using plain text", zap.String("url", urlStr), zap.Error(err))
				result.Format = "text"
			} else {
				result.Content = strings.TrimSpace(converted)
			}
		}
	} else {
		result.Format = "text"
	}
	result.Content = truncate(result.Content, e.maxContent)

	return &ToolResult{Success: true, Data: result}
}

func pageTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return squash(doc.Find("title").First().Text())
}
