package tools

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgResults = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=abc">The Go
     Programming Language</a>
  <a class="result__snippet">Go is an open source   language.</a>
</div>
<div class="result"><a class="result__a" href="https://pkg.go.dev/">Packages</a></div>
<div class="result"><a class="result__a" href="/relative">Ad</a></div>
<div class="result"><span>no link</span></div>
</body></html>`

func TestWebSearch(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/html/": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, browserUserAgent, r.Header.Get("User-Agent"))
			assert.Equal(t, "golang", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(ddgResults))
		},
	})

	result := run(e, ToolWebSearch, map[string]interface{}{"query": "golang"})
	require.True(t, result.Success, result.Error)
	hits := result.Data.(SearchResults).Results.([]SearchResult)
	require.Len(t, hits, 3)
	assert.Equal(t, "The Go Programming Language", hits[0].Title)
	assert.Equal(t, "https://go.dev/", hits[0].URL)
	assert.Equal(t, "Go is an open source language.", hits[0].Snippet)
	assert.Equal(t, "https://pkg.go.dev/", hits[1].URL)
	assert.Equal(t, "", hits[2].URL)
	assert.Equal(t, "Found 3 results for: golang", result.Message)
}

func TestParseSearchResults_CapsAtFive(t *testing.T) {
	page := "<html><body>" + strings.Repeat(`<div class="result"><a class="result__a" href="https://a">A</a></div>`, 8) + "</body></html>"
	results, err := parseSearchResults([]byte(page))
	require.NoError(t, err)
	assert.Len(t, results, webSearchResults)
}

func TestWebSearch_NoResults(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/html/": respond("text/html", "<html><body>No results.</body></html>"),
	})
	result := run(e, ToolWebSearch, map[string]interface{}{"query": "zzzz"})
	require.True(t, result.Success)
	assert.Equal(t, "No results found for: zzzz", result.Message)
}

const articlePage = `<!DOCTYPE html>
<html><head><title> Example  Article </title><script>var x = 1;</script></head>
<body><h1>Heading</h1><p>First <b>bold</b> paragraph.</p><ul><li>one</li><li>two</li></ul></body></html>`

func TestFetchURL_Text(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/article": respond("text/html; charset=utf-8", articlePage),
	})
	e.maxContent = 1000

	result := run(e, ToolFetchURL, map[string]interface{}{"url": e.endpoints.Wikipedia + "/article"})
	require.True(t, result.Success, result.Error)
	doc := result.Data.(Document)
	assert.Equal(t, "text", doc.Format)
	assert.Equal(t, "Example Article", doc.Title)
	assert.Contains(t, doc.Content, "First bold paragraph.")
	assert.NotContains(t, doc.Content, "var x")
}

func TestFetchURL_Markdown(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/article": respond("text/html", articlePage),
	})
	e.maxContent = 1000

	result := run(e, ToolFetchURL, map[string]interface{}{"url": e.endpoints.Wikipedia + "/article", "format": "markdown"})
	require.True(t, result.Success, result.Error)
	doc := result.Data.(Document)
	assert.Equal(t, "markdown", doc.Format)
	assert.Contains(t, doc.Content, "# Heading")
	assert.Contains(t, doc.Content, "**bold**")
}

func TestFetchURL_PlainTextIsTruncated(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/notes.txt": respond("text/plain", strings.Repeat("a", 80)),
	})

	result := run(e, ToolFetchURL, map[string]interface{}{"url": e.endpoints.Wikipedia + "/notes.txt", "format": "markdown"})
	require.True(t, result.Success, result.Error)
	doc := result.Data.(Document)
	assert.Equal(t, "text", doc.Format)
	assert.Empty(t, doc.Title)
	assert.True(t, strings.HasSuffix(doc.Content, "[... truncated, 30 more characters ...]"))
}

func TestFetchURL_RejectsUnknownFormat(t *testing.T) {
	e := newTestExecutor(t, nil)
	result := run(e, ToolFetchURL, map[string]interface{}{"url": "example.com", "format": "pdf"})
	assert.False(t, result.Success)
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://go.dev/", unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F"))
	assert.Equal(t, "https://example.com", unwrapRedirect("https://example.com"))
	assert.Equal(t, "", unwrapRedirect("/y.js?ad=1"))
}
