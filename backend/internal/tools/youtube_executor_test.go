package tools

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"https://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtube.com/shorts/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?t=1", "dQw4w9WgXcQ", false},
		{"watch this: dQw4w9WgXcQ please", "dQw4w9WgXcQ", false},
		{"https://example.com/", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := extractVideoID(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UCabc"/>
 <id>yt:channel:abc</id>
 <yt:channelId>abc</yt:channelId>
 <title>Gophers &amp; Friends</title>
 <link rel="alternate" href="https://www.youtube.com/channel/UCabc"/>
 <author><name>Gophers</name><uri>https://www.youtube.com/channel/UCabc</uri></author>
 <entry>
  <id>yt:video:AAAAAAAAAAA</id>
  <yt:videoId>AAAAAAAAAAA</yt:videoId>
  <title>First video</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=AAAAAAAAAAA"/>
  <published>2024-06-01T10:00:00+00:00</published>
  <updated>2024-06-02T10:00:00+00:00</updated>
  <media:group>
   <media:title>First video</media:title>
   <media:thumbnail url="https://i.ytimg.com/vi/AAAAAAAAAAA/hqdefault.jpg" width="480" height="360"/>
   <media:description>` + "__DESCRIPTION__" + `</media:description>
   <media:community>
    <media:starRating count="10" average="5.00" min="1" max="5"/>
    <media:statistics views="1234"/>
   </media:community>
  </media:group>
 </entry>
 <entry>
  <yt:videoId>BBBBBBBBBBB</yt:videoId>
  <title>Second video</title>
 </entry>
 <entry>
  <yt:videoId>CCCCCCCCCCC</yt:videoId>
  <title>Third video</title>
 </entry>
</feed>`

func TestYouTubeFeedXML(t *testing.T) {
	description := strings.Repeat("d", 300)
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/feeds/videos.xml": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "UCabc", r.URL.Query().Get("channel_id"))
			_, _ = w.Write([]byte(strings.Replace(channelFeed, "__DESCRIPTION__", description, 1)))
		},
	})

	result := run(e, ToolYouTubeFeedXML, map[string]interface{}{"channel_id": "UCabc", "limit": 2})
	require.True(t, result.Success, result.Error)
	feed := result.Data.(ChannelFeed)
	assert.Equal(t, "Gophers & Friends", feed.Feed.Title)
	assert.Equal(t, "abc", feed.Feed.ChannelID)
	assert.Equal(t, "Gophers", feed.Feed.Author)
	assert.Equal(t, "https://www.youtube.com/channel/UCabc", feed.Feed.ChannelURL)
	assert.Equal(t, "UCabc", feed.Feed.ChannelIDUC)

	require.Len(t, feed.Videos, 2)
	v := feed.Videos[0]
	assert.Equal(t, "AAAAAAAAAAA", v.VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=AAAAAAAAAAA", v.URL)
	assert.Equal(t, "1234", v.Views)
	assert.Equal(t, "https://i.ytimg.com/vi/AAAAAAAAAAA/hqdefault.jpg", v.Thumbnail)
	assert.Equal(t, feedDescriptionLength+1, len([]rune(v.Description)))
	assert.Equal(t, "Second video", feed.Videos[1].Title)
}

func TestYouTubeFeedXML_RequiresExactlyOneSelector(t *testing.T) {
	e := newTestExecutor(t, nil)
	assert.False(t, run(e, ToolYouTubeFeedXML, map[string]interface{}{}).Success)
	assert.False(t, run(e, ToolYouTubeFeedXML, map[string]interface{}{"user": "a", "channel_id": "UCb"}).Success)
}

func TestYouTubeOEmbed(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/oembed": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", r.URL.Query().Get("url"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			_, _ = w.Write([]byte(`{"title":"Never Gonna Give You Up","author_name":"Rick Astley","thumbnail_width":480}`))
		},
	})

	result := run(e, ToolYouTubeOEmbed, map[string]interface{}{"url_or_id": "https://youtu.be/dQw4w9WgXcQ"})
	require.True(t, result.Success, result.Error)
	embed := result.Data.(OEmbed)
	assert.Equal(t, "dQw4w9WgXcQ", embed.VideoID)
	assert.Contains(t, embed.OEmbedURL, "/oembed?")
	fields := embed.OEmbed.(map[string]interface{})
	assert.Equal(t, "Rick Astley", fields["author_name"])
	assert.Equal(t, float64(480), fields["thumbnail_width"])
}

const watchPage = `<!DOCTYPE html><html><head>
<meta property="og:title" content="Never Gonna Give You Up">
<meta property="og:description" content="The official video.">
<meta property="og:image" content="https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg">
<meta name="keywords" content="rick astley, never gonna,  , 80s">
<meta itemprop="channelId" content="UCuAXFkgsw1L7xaCfnd5JJOw">
<meta itemprop="duration" content="PT3M33S">
<meta itemprop="interactionCount" content="1500000000">
<meta itemprop="datePublished" content="2009-10-24">
</head><body>
<span itemprop="author" itemscope itemtype="http://schema.org/Person">
  <link itemprop="url" href="http://www.youtube.com/@RickAstleyYT">
  <link itemprop="name" content="Rick Astley">
</span>
</body></html>`

func TestYouTubeMetadata(t *testing.T) {
	e := newTestExecutor(t, map[string]http.HandlerFunc{
		"/watch": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
				_, _ = w.Write([]byte("<html><head></head></html>"))
				return
			}
			_, _ = w.Write([]byte(watchPage))
		},
	})

	result := run(e, ToolYouTubeMetadata, map[string]interface{}{"url_or_id": "dQw4w9WgXcQ"})
	require.True(t, result.Success, result.Error)
	info := result.Data.(VideoInfo)
	m := info.Metadata
	assert.Equal(t, "Never Gonna Give You Up", m.Title)
	assert.Equal(t, "Rick Astley", m.Author)
	assert.Equal(t, "http://www.youtube.com/@RickAstleyYT", m.ChannelURL)
	assert.Equal(t, "UCuAXFkgsw1L7xaCfnd5JJOw", m.ChannelID)
	assert.Equal(t, []string{"rick astley", "never gonna", "80s"}, m.Keywords)
	require.NotNil(t, m.LengthSeconds)
	assert.Equal(t, 213, *m.LengthSeconds)
	require.NotNil(t, m.Views)
	assert.EqualValues(t, 1500000000, *m.Views)
	assert.Equal(t, "2009-10-24", m.PublishDate)

	result = run(e, ToolYouTubeMetadata, map[string]interface{}{"url_or_id": "AAAAAAAAAAA"})
	assert.False(t, result.Success)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT3M33S", 213, true},
		{"PT1H2M3S", 3723, true},
		{"PT45S", 45, true},
		{"PT", 0, false},
		{"P1D", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseISODuration(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
