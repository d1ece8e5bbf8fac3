package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Research Tool Implementations
// ============================================================================

// InstantAnswer is the trimmed DuckDuckGo Instant Answer payload
type InstantAnswer struct {
	Query            string         `json:"query"`
	Abstract         string         `json:"abstract,omitempty"`
	AbstractSource   string         `json:"abstract_source,omitempty"`
	AbstractURL      string         `json:"abstract_url,omitempty"`
	Answer           string         `json:"answer,omitempty"`
	Definition       string         `json:"definition,omitempty"`
	DefinitionSource string         `json:"definition_source,omitempty"`
	RelatedTopics    []RelatedTopic `json:"related_topics,omitempty"`
	Note             string         `json:"note,omitempty"`
}

// RelatedTopic is one DuckDuckGo related topic
type RelatedTopic struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (e *Executor) executeDuckDuckGoInstant(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		e.endpoints.DuckDuckGoAPI, url.QueryEscape(query))
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	answer := InstantAnswer{Query: query}
	if abstract := data.Get("Abstract").String(); abstract != "" {
		answer.Abstract = abstract
		answer.AbstractSource = data.Get("AbstractSource").String()
		answer.AbstractURL = data.Get("AbstractURL").String()
	}
	answer.Answer = data.Get("Answer").String()
	if def := data.Get("Definition").String(); def != "" {
		answer.Definition = def
		answer.DefinitionSource = data.Get("DefinitionSource").String()
	}

	topics := data.Get("RelatedTopics").Array()
	for _, topic := range firstResults(topics, e.maxItems) {
		if text := topic.Get("Text").String(); text != "" {
			answer.RelatedTopics = append(answer.RelatedTopics, RelatedTopic{
				Text: prefix(text, 200),
				URL:  topic.Get("FirstURL").String(),
			})
		}
	}

	if answer.Abstract == "" && answer.Answer == "" && answer.Definition == "" && len(answer.RelatedTopics) == 0 {
		answer.Note = "No instant answer available. Try wikipedia_search or fetch_url for more detailed results."
	}

	return &ToolResult{Success: true, Data: answer}
}

// SearchResults is the common envelope for list-returning search tools
type SearchResults struct {
	Query      string      `json:"query"`
	TotalCount *int64      `json:"total_count,omitempty"`
	Results    interface{} `json:"results"`
}

// WikiHit is one Wikipedia search result
type WikiHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

func (e *Executor) executeWikipediaSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/w/api.php?action=query&list=search&srsearch=%s&format=json&origin=*&srlimit=%d",
		e.endpoints.Wikipedia, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	hits := []WikiHit{}
	for _, item := range data.Get("query.search").Array() {
		title := item.Get("title").String()
		hits = append(hits, WikiHit{
			Title:   title,
			Snippet: cleanMarkup(item.Get("snippet").String()),
			URL:     wikipediaURL(title),
		})
	}

	return &ToolResult{
		Success: true,
		Data:    SearchResults{Query: query, Results: hits},
		Message: fmt.Sprintf("Found %d articles for: %s", len(hits), query),
	}
}

// WikiArticle is a Wikipedia article summary plus body text
type WikiArticle struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

func (e *Executor) executeWikipediaArticle(ctx context.Context, args map[string]interface{}) *ToolResult {
	title, err := requireString(args, "title")
	if err != nil {
		return failure(err)
	}
	slug := wikiSlug(title)

	article := WikiArticle{Title: title}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", e.endpoints.Wikipedia, slug)
		data, err := e.web.GetJSON(gctx, summaryURL, nil)
		if err != nil {
			return err
		}
		article.Summary = data.Get("extract").String()
		article.URL = data.Get("content_urls.desktop.page").String()
		return nil
	})

	var content string
	g.Go(func() error {
		contentURL := fmt.Sprintf("%s/w/api.php?action=query&titles=%s&prop=extracts&explaintext=1&format=json&origin=*",
			e.endpoints.Wikipedia, url.QueryEscape(title))
		data, err := e.web.GetJSON(gctx, contentURL, nil)
		if err != nil {
			// The summary alone is still a useful answer.
			e.logger.Debug("Wikipedia extract unavailable", zap.String("title", title), zap.Error(err))
			return nil
		}
		data.Get("query.pages").ForEach(func(pageID, page gjson.Result) bool {
			if pageID.String() == "-1" {
				return true
			}
			content = page.Get("extract").String()
			return false
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return failure(err)
	}
	if content != "" {
		article.Content = truncate(content, e.maxContent)
	}

	return &ToolResult{Success: true, Data: article}
}

// HNStory is one Hacker News search hit
type HNStory struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	HNURL    string `json:"hn_url"`
	Points   int64  `json:"points"`
	Comments int64  `json:"comments"`
	Author   string `json:"author"`
	Date     string `json:"date"`
}

func (e *Executor) executeHackerNewsSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/api/v1/search?query=%s&hitsPerPage=%d",
		e.endpoints.HackerNews, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	stories := []HNStory{}
	for _, hit := range data.Get("hits").Array() {
		title := hit.Get("title").String()
		if title == "" {
			title = hit.Get("story_title").String()
		}
		if title == "" {
			continue
		}
		stories = append(stories, HNStory{
			Title:    title,
			URL:      hit.Get("url").String(),
			HNURL:    "https://news.ycombinator.com/item?id=" + hit.Get("objectID").String(),
			Points:   hit.Get("points").Int(),
			Comments: hit.Get("num_comments").Int(),
			Author:   hit.Get("author").String(),
			Date:     prefix(hit.Get("created_at").String(), 10),
		})
	}

	return &ToolResult{Success: true, Data: SearchResults{Query: query, Results: stories}}
}

// Book is one Open Library search hit
type Book struct {
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	FirstPublished int64    `json:"first_published,omitempty"`
	Subjects       []string `json:"subjects"`
	URL            string   `json:"url"`
}

func (e *Executor) executeOpenLibrarySearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/search.json?q=%s&limit=%d",
		e.endpoints.OpenLibrary, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	books := []Book{}
	for _, doc := range data.Get("docs").Array() {
		book := Book{
			Title:          doc.Get("title").String(),
			Authors:        firstN(stringList(doc.Get("author_name")), 3),
			FirstPublished: doc.Get("first_publish_year").Int(),
			Subjects:       firstN(stringList(doc.Get("subject")), 5),
		}
		if key := doc.Get("key").String(); key != "" {
			book.URL = "https://openlibrary.org" + key
		}
		books = append(books, book)
	}

	total := data.Get("numFound").Int()
	return &ToolResult{Success: true, Data: SearchResults{Query: query, TotalCount: &total, Results: books}}
}

// Entity is one Wikidata search hit
type Entity struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (e *Executor) executeWikidataSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/w/api.php?action=wbsearchentities&search=%s&language=en&format=json&origin=*&limit=%d",
		e.endpoints.Wikidata, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	entities := []Entity{}
	for _, item := range data.Get("search").Array() {
		entities = append(entities, Entity{
			ID:          item.Get("id").String(),
			Label:       item.Get("label").String(),
			Description: item.Get("description").String(),
			URL:         item.Get("concepturi").String(),
		})
	}

	return &ToolResult{Success: true, Data: SearchResults{Query: query, Results: entities}}
}

// wikiSlug turns a title into the path segment Wikipedia uses.
func wikiSlug(title string) string {
	return strings.ReplaceAll(url.PathEscape(strings.ReplaceAll(title, " ", "_")), "%2F", "/")
}

func wikipediaURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + wikiSlug(title)
}

// stringList reads a JSON array of strings, skipping anything else.
func stringList(r gjson.Result) []string {
	out := []string{}
	for _, v := range r.Array() {
		if v.Type == gjson.String {
			out = append(out, v.String())
		}
	}
	return out
}

func firstResults(items []gjson.Result, n int) []gjson.Result {
	if len(items) > n {
		return items[:n]
	}
	return items
}
