package tools

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "research-tools/backend/pkg/errors"
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	// An 11-character id not embedded in a longer run of id characters.
	looseVideoIDPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_-])([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
)

// extractVideoID finds the video id in a raw id or any common YouTube URL
// shape, falling back to the first standalone 11-character token.
func extractVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if videoIDPattern.MatchString(s) {
		return s, nil
	}
	if s == "" {
		return "", apperrors.NewInvalidArgument("url_or_id", "is required")
	}

	token := strings.Fields(s)[0]
	if u, err := url.Parse(token); err == nil {
		host := strings.ToLower(u.Host)

		if strings.Contains(host, "youtube.com") {
			if v := u.Query().Get("v"); videoIDPattern.MatchString(v) {
				return v, nil
			}
			parts := splitPath(u.Path)
			for i, p := range parts {
				if (p == "shorts" || p == "embed" || p == "live") && i+1 < len(parts) && videoIDPattern.MatchString(parts[i+1]) {
					return parts[i+1], nil
				}
			}
		}

		if strings.Contains(host, "youtu.be") {
			if parts := splitPath(u.Path); len(parts) > 0 && videoIDPattern.MatchString(parts[0]) {
				return parts[0], nil
			}
		}
	}

	if m := looseVideoIDPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", apperrors.NewInvalidArgument("url_or_id", "could not extract a YouTube video id")
}

func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
