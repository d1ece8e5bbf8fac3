package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	scriptBlocks = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlocks  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// extractFallback is the degraded path: drop script and style blocks,
// replace every remaining tag with a space and collapse whitespace.
func extractFallback(markup string) string {
	text := strings.ToValidUTF8(markup, "\uFFFD")
	text = scriptBlocks.ReplaceAllString(text, "")
	text = styleBlocks.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// LooksLikeHTML reports whether a response body should go through Extract,
// judging by its Content-Type or its first bytes.
func LooksLikeHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<!") || strings.HasPrefix(trimmed, "<html")
}
