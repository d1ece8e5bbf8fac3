package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetYouTubeTools returns YouTube tools that need no API key
func GetYouTubeTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolYouTubeFeedXML,
			"List a YouTube channel's latest videos from its public feed. Provide exactly one of user or channel_id.",
			map[string]interface{}{
				"user":       stringParam("Legacy YouTube username"),
				"channel_id": stringParam("Channel id, usually starting with 'UC'"),
				"limit":      integerParam("Number of videos (default: 25, max 100)"),
			}),
		function(ToolYouTubeOEmbed,
			"Get a YouTube video's oEmbed metadata (title, author, thumbnail) from a URL or 11-character id.",
			map[string]interface{}{
				"url_or_id": stringParam("A watch, youtu.be, shorts, embed or live URL, or a raw video id"),
			}, "url_or_id"),
		function(ToolYouTubeMetadata,
			"Get a YouTube video's page metadata: title, description, channel, keywords, duration, views and publish date.",
			map[string]interface{}{
				"url_or_id": stringParam("A watch, youtu.be, shorts, embed or live URL, or a raw video id"),
			}, "url_or_id"),
		function(ToolYouTubeTranscript,
			"Get the caption transcript of a YouTube video as plain text, one caption per line.",
			map[string]interface{}{
				"url_or_id": stringParam("A watch, youtu.be, shorts, embed or live URL, or a raw video id"),
				"language":  stringParam("Caption language code (default: en)"),
			}, "url_or_id"),
		function(ToolYouTubeChannelVideos,
			"List a YouTube channel's uploads beyond the feed's latest 15. Provide exactly one of user or channel_id.",
			map[string]interface{}{
				"user":       stringParam("Legacy YouTube username, resolved to a channel id through the feed"),
				"channel_id": stringParam("Channel id starting with 'UC'"),
				"limit":      integerParam("Number of videos (default: 200, max 2000)"),
			}),
	}
}
