package discord

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	codeBlockPattern     = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern    = regexp.MustCompile("`[^`\n]+`")
	headerPattern        = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	unorderedListPattern = regexp.MustCompile(`(?m)^([ \t]*)[-*][ \t]+(.+)$`)
	multipleNewlines     = regexp.MustCompile(`\n{3,}`)
)

// FormatMarkdown converts standard markdown to what Discord renders.
//
// Conversions performed:
//   - Headers (# Header) → Bold (**Header**)
//   - Lists (- item) → Discord list format (• item), indentation kept
//   - Runs of blank lines → one blank line
//   - Code blocks and inline code → preserved exactly
//
// Example:
//
//	Input:  "## wikipedia_search\n\n- **query:** go"
//	Output: "**wikipedia_search**\n\n• **query:** go"
func FormatMarkdown(content string) string {
	return protectCode(content, func(text string) string {
		text = headerPattern.ReplaceAllString(text, "**$1**")
		text = unorderedListPattern.ReplaceAllString(text, "$1• $2")
		text = trimLineEnds(text)
		return multipleNewlines.ReplaceAllString(text, "\n\n")
	})
}

// protectCode swaps code spans for placeholders while processor runs.
func protectCode(content string, processor func(string) string) string {
	var protected []string
	stash := func(match string) string {
		protected = append(protected, match)
		return fmt.Sprintf("\x00CODE%d\x00", len(protected)-1)
	}

	content = codeBlockPattern.ReplaceAllStringFunc(content, stash)
	content = inlineCodePattern.ReplaceAllStringFunc(content, stash)
	content = processor(content)

	for i := len(protected) - 1; i >= 0; i-- {
		content = strings.Replace(content, fmt.Sprintf("\x00CODE%d\x00", i), protected[i], 1)
	}
	return content
}

func trimLineEnds(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// FormatCodeBlock formats code for Discord code blocks with optional language
func FormatCodeBlock(code string, language string) string {
	return "```" + language + "\n" + code + "\n```"
}

// FormatInlineCode formats inline code for Discord
func FormatInlineCode(code string) string {
	return "`" + code + "`"
}

// FormatBold formats text as bold in Discord
func FormatBold(text string) string {
	return "**" + text + "**"
}
