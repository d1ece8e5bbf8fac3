package tools

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// YouTube Tool Implementations
// ============================================================================

const (
	ytNamespace    = "http://www.youtube.com/xml/schemas/2015"
	mediaNamespace = "http://search.yahoo.com/mrss/"

	feedPageSize           = 25
	feedDescriptionLength  = 280
	videoDescriptionLength = 2000
)

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type videoFeed struct {
	ID        string      `xml:"id"`
	ChannelID string      `xml:"http://www.youtube.com/xml/schemas/2015 channelId"`
	Title     string      `xml:"title"`
	Author    string      `xml:"author>name"`
	Links     []atomLink  `xml:"link"`
	Entries   []feedEntry `xml:"entry"`
}

type feedEntry struct {
	VideoID   string     `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title     string     `xml:"title"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
	Links     []atomLink `xml:"link"`
	Group     mediaGroup `xml:"http://search.yahoo.com/mrss/ group"`
}

type mediaGroup struct {
	Description string `xml:"http://search.yahoo.com/mrss/ description"`
	Thumbnail   struct {
		URL string `xml:"url,attr"`
	} `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	Community struct {
		Statistics struct {
			Views string `xml:"views,attr"`
		} `xml:"http://search.yahoo.com/mrss/ statistics"`
	} `xml:"http://search.yahoo.com/mrss/ community"`
}

// FeedInfo describes the channel behind a feed
type FeedInfo struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ChannelURL  string `json:"channel_url,omitempty"`
	ChannelIDUC string `json:"channel_id_uc,omitempty"`
}

// FeedVideo is one feed entry
type FeedVideo struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Published   string `json:"published"`
	Updated     string `json:"updated"`
	Views       string `json:"views"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

// ChannelFeed is the result of youtube_feed_xml
type ChannelFeed struct {
	URL    string      `json:"url"`
	Feed   FeedInfo    `json:"feed"`
	Videos []FeedVideo `json:"videos"`
}

func (e *Executor) executeYouTubeFeedXML(ctx context.Context, args map[string]interface{}) *ToolResult {
	user := stringArg(args, "user")
	channelID := stringArg(args, "channel_id")
	if (user == "") == (channelID == "") {
		return failure(apperrors.NewInvalidArgument("user/channel_id", "provide exactly one of user, channel_id"))
	}
	limit, err := intArg(args, "limit", feedPageSize)
	if err != nil {
		return failure(err)
	}
	limit = clamp(limit, 1, 100)

	feed, err := e.fetchChannelFeed(ctx, user, channelID, limit)
	if err != nil {
		return failure(err)
	}
	return &ToolResult{Success: true, Data: feed}
}

// fetchChannelFeed reads the public Atom feed of a channel selected by
// legacy username or channel id, keeping at most limit entries.
func (e *Executor) fetchChannelFeed(ctx context.Context, user, channelID string, limit int) (ChannelFeed, error) {
	params := url.Values{}
	if user != "" {
		params.Set("user", user)
	} else {
		params.Set("channel_id", channelID)
	}
	feedURL := fmt.Sprintf("%s/feeds/videos.xml?%s", e.endpoints.YouTube, params.Encode())

	resp, err := e.web.GetBytes(ctx, feedURL, map[string]string{
		"Accept": "application/atom+xml, application/xml, text/xml, */*",
	})
	if err != nil {
		return ChannelFeed{}, err
	}

	var feed videoFeed
	if err := xml.Unmarshal(resp.Body, &feed); err != nil {
		return ChannelFeed{}, apperrors.NewParseFailed("YouTube feed XML", err)
	}

	info := FeedInfo{
		ID:        strings.TrimSpace(feed.ID),
		ChannelID: strings.TrimSpace(feed.ChannelID),
		Title:     html.UnescapeString(strings.TrimSpace(feed.Title)),
		Author:    html.UnescapeString(strings.TrimSpace(feed.Author)),
	}
	if channelURL := alternateLink(feed.Links); channelURL != "" {
		info.ChannelURL = channelURL
		if u, err := url.Parse(channelURL); err == nil {
			parts := splitPath(u.Path)
			if len(parts) >= 2 && parts[len(parts)-2] == "channel" {
				info.ChannelIDUC = parts[len(parts)-1]
			}
		}
	}

	videos := []FeedVideo{}
	for _, entry := range feed.Entries {
		if len(videos) == limit {
			break
		}
		videos = append(videos, FeedVideo{
			VideoID:     strings.TrimSpace(entry.VideoID),
			Title:       html.UnescapeString(strings.TrimSpace(entry.Title)),
			URL:         alternateLink(entry.Links),
			Published:   strings.TrimSpace(entry.Published),
			Updated:     strings.TrimSpace(entry.Updated),
			Views:       entry.Group.Community.Statistics.Views,
			Thumbnail:   entry.Group.Thumbnail.URL,
			Description: clip(html.UnescapeString(strings.TrimSpace(entry.Group.Description)), feedDescriptionLength),
		})
	}

	return ChannelFeed{URL: feedURL, Feed: info, Videos: videos}, nil
}

func alternateLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	return ""
}

// OEmbed is the result of youtube_oembed
type OEmbed struct {
	VideoID   string      `json:"video_id"`
	VideoURL  string      `json:"video_url"`
	OEmbedURL string      `json:"oembed_url"`
	OEmbed    interface{} `json:"oembed"`
}

func (e *Executor) executeYouTubeOEmbed(ctx context.Context, args map[string]interface{}) *ToolResult {
	videoID, err := extractVideoID(stringArg(args, "url_or_id"))
	if err != nil {
		return failure(err)
	}
	videoURL := watchURL(videoID)

	params := url.Values{}
	params.Set("url", videoURL)
	params.Set("format", "json")
	oembedURL := fmt.Sprintf("%s/oembed?%s", e.endpoints.YouTube, params.Encode())

	data, err := e.web.GetJSON(ctx, oembedURL, nil)
	if err != nil {
		return failure(err)
	}

	return &ToolResult{
		Success: true,
		Data: OEmbed{
			VideoID:   videoID,
			VideoURL:  videoURL,
			OEmbedURL: oembedURL,
			OEmbed:    data.Value(),
		},
	}
}

// VideoMetadata is scraped from a watch page's meta tags
type VideoMetadata struct {
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	ChannelID     string   `json:"channel_id,omitempty"`
	ChannelURL    string   `json:"channel_url,omitempty"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	LengthSeconds *int     `json:"length_seconds,omitempty"`
	Views         *int64   `json:"views,omitempty"`
	PublishDate   string   `json:"publish_date,omitempty"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords,omitempty"`
}

// VideoInfo is the result of youtube_metadata
type VideoInfo struct {
	VideoID  string        `json:"video_id"`
	VideoURL string        `json:"video_url"`
	Metadata VideoMetadata `json:"metadata"`
}

func (e *Executor) executeYouTubeMetadata(ctx context.Context, args map[string]interface{}) *ToolResult {
	videoID, err := extractVideoID(stringArg(args, "url_or_id"))
	if err != nil {
		return failure(err)
	}

	pageURL := fmt.Sprintf("%s/watch?v=%s", e.endpoints.YouTube, url.QueryEscape(videoID))
	resp, err := e.web.GetBytes(ctx, pageURL, map[string]string{
		"Accept":          "text/html",
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return failure(err)
	}

	meta, err := parseWatchPage(resp.Body)
	if err != nil {
		return failure(apperrors.NewParseFailed("YouTube watch page", err))
	}
	if meta.Title == "" {
		return failure(apperrors.NewToolExecutionFailed(ToolYouTubeMetadata,
			"no metadata found for video "+videoID, nil))
	}

	return &ToolResult{
		Success: true,
		Data:    VideoInfo{VideoID: videoID, VideoURL: watchURL(videoID), Metadata: meta},
	}
}

func parseWatchPage(body []byte) (VideoMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return VideoMetadata{}, err
	}

	attr := func(selector, name string) string {
		v, _ := doc.Find(selector).First().Attr(name)
		return strings.TrimSpace(v)
	}
	firstOf := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	meta := VideoMetadata{
		Title: firstOf(
			attr(`meta[property="og:title"]`, "content"),
			attr(`meta[name="title"]`, "content"),
		),
		Author:       attr(`span[itemprop="author"] link[itemprop="name"]`, "content"),
		ChannelID:    firstOf(attr(`meta[itemprop="channelId"]`, "content"), attr(`meta[itemprop="identifier"]`, "content")),
		ChannelURL:   attr(`span[itemprop="author"] link[itemprop="url"]`, "href"),
		ThumbnailURL: firstOf(attr(`meta[property="og:image"]`, "content"), attr(`link[itemprop="thumbnailUrl"]`, "href")),
		PublishDate:  firstOf(attr(`meta[itemprop="datePublished"]`, "content"), attr(`meta[itemprop="uploadDate"]`, "content")),
		Description: clip(firstOf(
			attr(`meta[property="og:description"]`, "content"),
			attr(`meta[name="description"]`, "content"),
		), videoDescriptionLength),
	}

	if secs, ok := parseISODuration(attr(`meta[itemprop="duration"]`, "content")); ok {
		meta.LengthSeconds = &secs
	}
	if views, err := strconv.ParseInt(attr(`meta[itemprop="interactionCount"]`, "content"), 10, 64); err == nil {
		meta.Views = &views
	}
	if kw := attr(`meta[name="keywords"]`, "content"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				meta.Keywords = append(meta.Keywords, k)
			}
		}
	}
	return meta, nil
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration reads the PT#H#M#S form used on watch pages.
func parseISODuration(s string) (int, bool) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "PT" {
		return 0, false
	}
	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		total += n * unit
	}
	return total, true
}
