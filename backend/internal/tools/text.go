package tools

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	bbcodePattern = regexp.MustCompile(`\[/?[^\]]+\]`)
)

// truncate cuts text to max characters and says how much was dropped.
func truncate(text string, max int) string {
	n := utf8.RuneCountInString(text)
	if n <= max {
		return text
	}
	return prefix(text, max) + fmt.Sprintf("\n\n[... truncated, %d more characters ...]", n-max)
}

// clip cuts text to max characters and marks the cut with an ellipsis.
func clip(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return prefix(text, max) + "…"
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// stripTags drops markup from short API snippets without touching spacing.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// cleanMarkup strips tags, decodes entities and collapses whitespace.
func cleanMarkup(s string) string {
	return squash(html.UnescapeString(stripTags(s)))
}

// squash collapses every whitespace run to one space.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
