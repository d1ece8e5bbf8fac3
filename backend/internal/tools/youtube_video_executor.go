package tools

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	apperrors "research-tools/backend/pkg/errors"
)

const (
	defaultTranscriptLanguage = "en"
	channelVideosPageSize     = 200
	channelVideosMax          = 2000
	channelVideoTitleLength   = 200
)

// youtubeClient is the part of the innertube client the video tools use
type youtubeClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
}

func newYouTubeClient(httpClient *http.Client, endpoint string) youtubeClient {
	if endpoint == DefaultEndpoints().YouTube {
		return &youtube.Client{HTTPClient: httpClient}
	}
	base, err := url.Parse(endpoint)
	if err != nil || base.Host == "" {
		return &youtube.Client{HTTPClient: httpClient}
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	return &youtube.Client{HTTPClient: &http.Client{
		Timeout:   httpClient.Timeout,
		Jar:       httpClient.Jar,
		Transport: hostRewriter{base: base, next: next},
	}}
}

// hostRewriter sends every request to base, keeping path and query.
type hostRewriter struct {
	base *url.URL
	next http.RoundTripper
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = h.base.Scheme
	r.URL.Host = h.base.Host
	r.Host = h.base.Host
	return h.next.RoundTrip(r)
}

func youtubeFailure(ctx context.Context, operation, target string, err error) *ToolResult {
	if cerr := apperrors.FromContext(ctx, operation); cerr != nil {
		return failure(cerr)
	}
	return failure(apperrors.NewRequestFailed(target, err))
}

// VideoTranscript is the result of youtube_transcript
type VideoTranscript struct {
	VideoID    string `json:"video_id"`
	VideoURL   string `json:"video_url"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Language   string `json:"language"`
	Segments   int    `json:"segments"`
	Transcript string `json:"transcript"`
}

func (e *Executor) executeYouTubeTranscript(ctx context.Context, args map[string]interface{}) *ToolResult {
	videoID, err := extractVideoID(stringArg(args, "url_or_id"))
	if err != nil {
		return failure(err)
	}
	lang := strings.TrimSpace(stringArg(args, "language"))
	if lang == "" {
		lang = defaultTranscriptLanguage
	}
	videoURL := watchURL(videoID)

	video, err := e.youtube.GetVideoContext(ctx, videoID)
	if err != nil {
		return youtubeFailure(ctx, "youtube video lookup", videoURL, err)
	}

	segments, err := e.youtube.GetTranscriptCtx(ctx, video, lang)
	if errors.Is(err, youtube.ErrTranscriptDisabled) {
		return failure(apperrors.NewToolExecutionFailed(ToolYouTubeTranscript,
			"no transcript available for video "+videoID, err))
	}
	if err != nil {
		return youtubeFailure(ctx, "youtube transcript", videoURL, err)
	}

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return failure(apperrors.NewToolExecutionFailed(ToolYouTubeTranscript,
			"transcript for video "+videoID+" is empty", nil))
	}

	return &ToolResult{
		Success: true,
		Data: VideoTranscript{
			VideoID:    videoID,
			VideoURL:   videoURL,
			Title:      video.Title,
			Author:     video.Author,
			Language:   lang,
			Segments:   len(lines),
			Transcript: truncate(strings.Join(lines, "\n"), e.maxContent),
		},
	}
}

// ChannelVideo is one upload of a channel
type ChannelVideo struct {
	VideoID string `json:"video_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}

// ChannelVideos is the result of youtube_channel_videos
type ChannelVideos struct {
	ChannelID  string         `json:"channel_id"`
	Source     string         `json:"source"`
	PlaylistID string         `json:"playlist_id"`
	Videos     []ChannelVideo `json:"videos"`
}

func (e *Executor) executeYouTubeChannelVideos(ctx context.Context, args map[string]interface{}) *ToolResult {
	user := stringArg(args, "user")
	channelID := stringArg(args, "channel_id")
	if (user == "") == (channelID == "") {
		return failure(apperrors.NewInvalidArgument("user/channel_id", "provide exactly one of user, channel_id"))
	}
	limit, err := intArg(args, "limit", channelVideosPageSize)
	if err != nil {
		return failure(err)
	}
	limit = clamp(limit, 1, channelVideosMax)

	if user != "" {
		feed, err := e.fetchChannelFeed(ctx, user, "", 1)
		if err != nil {
			return failure(err)
		}
		channelID = feed.Feed.ChannelIDUC
		if channelID == "" {
			channelID = feed.Feed.ChannelID
		}
		if channelID == "" {
			return failure(apperrors.NewToolExecutionFailed(ToolYouTubeChannelVideos,
				"could not resolve channel_id from feed for user "+user, nil))
		}
		e.logger.Debug("Resolved channel from feed", zap.String("user", user), zap.String("channel_id", channelID))
	}

	// Every UC channel has an uploads playlist sharing the rest of its id
	if !strings.HasPrefix(channelID, "UC") || len(channelID) < 3 {
		return failure(apperrors.NewInvalidArgument("channel_id", "must start with 'UC'"))
	}
	playlistID := "UU" + channelID[2:]
	playlistURL := "https://www.youtube.com/playlist?list=" + url.QueryEscape(playlistID)

	playlist, err := e.youtube.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		return youtubeFailure(ctx, "youtube uploads playlist", playlistURL, err)
	}

	videos := []ChannelVideo{}
	for _, entry := range playlist.Videos {
		if len(videos) == limit {
			break
		}
		if entry == nil || entry.ID == "" {
			continue
		}
		videos = append(videos, ChannelVideo{
			VideoID: entry.ID,
			URL:     watchURL(entry.ID),
			Title:   clip(strings.TrimSpace(entry.Title), channelVideoTitleLength),
		})
	}

	return &ToolResult{
		Success: true,
		Data: ChannelVideos{
			ChannelID:  channelID,
			Source:     "uploads_playlist",
			PlaylistID: playlistID,
			Videos:     videos,
		},
	}
}
