package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// Reddit Tool Implementations
// ============================================================================

const (
	redditPageSize     = 25
	selftextLength     = 500
	commentBodyLength  = 1000
	redditPublicOrigin = "https://reddit.com"
)

// RedditHit is one Reddit search result
type RedditHit struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	URL       string `json:"url"`
	Score     int64  `json:"score"`
	Comments  int64  `json:"comments"`
	Selftext  string `json:"selftext"`
}

// RedditSearchResults is the result of reddit_search
type RedditSearchResults struct {
	Query     string      `json:"query"`
	Subreddit string      `json:"subreddit"`
	Results   []RedditHit `json:"results"`
}

func (e *Executor) executeRedditSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}
	subreddit := normalizeSubreddit(stringArg(args, "subreddit"))

	var apiURL string
	if subreddit != "" {
		apiURL = fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=1&limit=%d",
			e.endpoints.Reddit, url.PathEscape(subreddit), url.QueryEscape(query), e.maxItems)
	} else {
		apiURL = fmt.Sprintf("%s/search.json?q=%s&limit=%d",
			e.endpoints.Reddit, url.QueryEscape(query), e.maxItems)
	}

	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	hits := []RedditHit{}
	for _, child := range data.Get("data.children").Array() {
		post := child.Get("data")
		hit := RedditHit{
			Title:     post.Get("title").String(),
			Subreddit: post.Get("subreddit").String(),
			URL:       redditPublicOrigin + post.Get("permalink").String(),
			Score:     post.Get("score").Int(),
			Comments:  post.Get("num_comments").Int(),
		}
		if selftext := post.Get("selftext").String(); selftext != "" {
			hit.Selftext = truncate(selftext, selftextLength)
		}
		hits = append(hits, hit)
	}

	if subreddit == "" {
		subreddit = "all"
	}
	return &ToolResult{Success: true, Data: RedditSearchResults{Query: query, Subreddit: subreddit, Results: hits}}
}

// RedditPost is one post in a listing
type RedditPost struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	Score     int64  `json:"score"`
	Comments  int64  `json:"comments"`
	Created   string `json:"created"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	Selftext  string `json:"selftext"`
}

// RedditListing is the result of reddit_list
type RedditListing struct {
	Subreddit string       `json:"subreddit"`
	Sort      string       `json:"sort"`
	T         string       `json:"t"`
	Limit     int          `json:"limit"`
	Posts     []RedditPost `json:"posts"`
	URL       string       `json:"url"`
}

func (e *Executor) executeRedditList(ctx context.Context, args map[string]interface{}) *ToolResult {
	subreddit := normalizeSubreddit(stringArg(args, "subreddit"))
	if subreddit == "" {
		return failure(apperrors.NewInvalidArgument("subreddit", "is required"))
	}
	sort, err := oneOf("sort", stringArg(args, "sort"), "hot", "hot", "new", "top", "rising")
	if err != nil {
		return failure(err)
	}
	window, err := oneOf("t", stringArg(args, "t"), "day", "hour", "day", "week", "month", "year", "all")
	if err != nil {
		return failure(err)
	}
	limit, err := intArg(args, "limit", redditPageSize)
	if err != nil {
		return failure(err)
	}
	limit = clamp(limit, 1, 100)

	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	if sort == "top" {
		params.Set("t", window)
	} else {
		window = ""
	}
	apiURL := fmt.Sprintf("%s/r/%s/%s.json?%s", e.endpoints.Reddit, url.PathEscape(subreddit), sort, params.Encode())

	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	posts := []RedditPost{}
	for _, child := range firstResults(data.Get("data.children").Array(), limit) {
		post := toRedditPost(child.Get("data"))
		if post.Subreddit == "" {
			post.Subreddit = subreddit
		}
		posts = append(posts, post)
	}

	return &ToolResult{
		Success: true,
		Data: RedditListing{
			Subreddit: subreddit,
			Sort:      sort,
			T:         window,
			Limit:     limit,
			Posts:     posts,
			URL:       apiURL,
		},
	}
}

// RedditComment is one top-level comment
type RedditComment struct {
	Author    string `json:"author"`
	Score     int64  `json:"score"`
	Created   string `json:"created"`
	Body      string `json:"body"`
	Permalink string `json:"permalink"`
}

// RedditThread is the result of reddit_comments
type RedditThread struct {
	Post     RedditPost      `json:"post"`
	Comments []RedditComment `json:"comments"`
}

func (e *Executor) executeRedditComments(ctx context.Context, args map[string]interface{}) *ToolResult {
	input, err := requireString(args, "post")
	if err != nil {
		return failure(err)
	}
	limit, err := intArg(args, "limit", redditPageSize)
	if err != nil {
		return failure(err)
	}
	limit = clamp(limit, 1, 100)

	path, err := redditThreadPath(input)
	if err != nil {
		return failure(err)
	}
	apiURL := fmt.Sprintf("%s%s.json?limit=%d&depth=1", e.endpoints.Reddit, path, limit)

	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}
	if !data.IsArray() || len(data.Array()) < 2 {
		return failure(apperrors.NewParseFailed("reddit thread", fmt.Errorf("expected a post and a comment listing")))
	}

	listings := data.Array()
	thread := RedditThread{
		Post:     toRedditPost(listings[0].Get("data.children.0.data")),
		Comments: []RedditComment{},
	}
	for _, child := range listings[1].Get("data.children").Array() {
		// "more" stubs carry no comment body
		if child.Get("kind").String() != "t1" {
			continue
		}
		c := child.Get("data")
		thread.Comments = append(thread.Comments, RedditComment{
			Author:    c.Get("author").String(),
			Score:     c.Get("score").Int(),
			Created:   redditTime(c.Get("created_utc")),
			Body:      clip(c.Get("body").String(), commentBodyLength),
			Permalink: permalinkURL(c.Get("permalink").String()),
		})
		if len(thread.Comments) == limit {
			break
		}
	}

	return &ToolResult{Success: true, Data: thread}
}

func toRedditPost(post gjson.Result) RedditPost {
	return RedditPost{
		Title:     post.Get("title").String(),
		Subreddit: post.Get("subreddit").String(),
		Author:    post.Get("author").String(),
		Score:     post.Get("score").Int(),
		Comments:  post.Get("num_comments").Int(),
		Created:   redditTime(post.Get("created_utc")),
		URL:       post.Get("url").String(),
		Permalink: permalinkURL(post.Get("permalink").String()),
		Selftext:  clip(post.Get("selftext").String(), selftextLength),
	}
}

// normalizeSubreddit strips whitespace, an "r/" prefix and slashes.
func normalizeSubreddit(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if strings.HasPrefix(strings.ToLower(name), "r/") {
		name = name[2:]
	}
	return strings.Trim(name, "/")
}

// redditThreadPath accepts a full permalink, a bare /r/.../comments/... path
// or a post id, and returns the thread path without a trailing slash.
func redditThreadPath(input string) (string, error) {
	if u, err := url.Parse(input); err == nil && u.Host != "" {
		input = u.Path
	}
	if strings.Contains(input, "/comments/") {
		return "/" + strings.Trim(input, "/"), nil
	}

	id := strings.TrimPrefix(strings.Trim(input, "/"), "t3_")
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "", apperrors.NewInvalidArgument("post", "expected a Reddit permalink or post id")
		}
	}
	if id == "" {
		return "", apperrors.NewInvalidArgument("post", "is required")
	}
	return "/comments/" + id, nil
}

func permalinkURL(permalink string) string {
	if permalink == "" {
		return ""
	}
	return redditPublicOrigin + permalink
}

// redditTime renders created_utc seconds as an RFC 3339 UTC timestamp.
func redditTime(created gjson.Result) string {
	if !created.Exists() || created.Type != gjson.Number {
		return ""
	}
	return time.Unix(int64(created.Float()), 0).UTC().Format(time.RFC3339)
}
