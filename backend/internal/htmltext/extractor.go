// Package htmltext converts HTML markup into readable plain text.
//
// Extraction runs a single pass over the golang.org/x/net/html token stream.
// When that pass cannot process the input, a regex-only degraded path is used
// instead, so callers always get some text back.
package htmltext

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var errInvalidEncoding = errors.New("htmltext: input is not valid UTF-8")

// suppressedTags never contribute text or line breaks.
var suppressedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"meta":     true,
	"link":     true,
	"noscript": true,
}

// voidSuppressedTags have no end tag in HTML, so their start tag closes them.
var voidSuppressedTags = map[string]bool{
	"meta": true,
	"link": true,
}

// rawTextSuppressedTags make the tokenizer read up to their end tag as
// text, even when written self-closing.
var rawTextSuppressedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// newTokenizer is replaced in tests to exercise the fallback triggers.
var newTokenizer = html.NewTokenizer

var breakOnOpen = map[string]bool{
	"p": true, "div": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true,
}

var breakOnClose = map[string]bool{
	"p": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var (
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns   = regexp.MustCompile(` {2,}`)
)

// Extract returns the visible text of markup. Content of script, style,
// head, meta, link and noscript elements is dropped, block elements are
// separated by line breaks and text inside pre is kept as written.
//
// Extract never fails: malformed input falls back to a regex-based
// strip of tags. The result is "" for empty input.
func Extract(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	text, err := extractStructured(markup)
	if err != nil {
		return extractFallback(markup)
	}
	return text
}

func extractStructured(markup string) (text string, err error) {
	if !utf8.ValidString(markup) {
		return "", errInvalidEncoding
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("htmltext: tokenizer panic: %v", r)
		}
	}()

	x := &extraction{}
	z := newTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return x.String(), nil
			}
			return "", z.Err()
		case html.TextToken:
			x.data(string(z.Text()))
		case html.StartTagToken:
			name := tagName(z)
			x.open(name)
			if voidSuppressedTags[name] {
				x.close(name)
			}
		case html.SelfClosingTagToken:
			name := tagName(z)
			x.open(name)
			if !rawTextSuppressedTags[name] {
				x.close(name)
			}
		case html.EndTagToken:
			// Void tags were closed by their start tag
			if name := tagName(z); !voidSuppressedTags[name] {
				x.close(name)
			}
		}
	}
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}

type fragment struct {
	text string
	pre  bool
}

// extraction is the state of one Extract call.
type extraction struct {
	fragments  []fragment
	suppressed int
	inPre      bool
}

func (x *extraction) open(tag string) {
	if suppressedTags[tag] {
		x.suppressed++
	}
	if tag == "pre" {
		x.inPre = true
	}
	if breakOnOpen[tag] {
		x.lineBreak()
	}
}

func (x *extraction) close(tag string) {
	// Stray end tags must not drive the counter below zero.
	if suppressedTags[tag] && x.suppressed > 0 {
		x.suppressed--
	}
	if tag == "pre" {
		x.inPre = false
	}
	if breakOnClose[tag] {
		x.lineBreak()
	}
}

func (x *extraction) lineBreak() {
	if x.suppressed > 0 {
		return
	}
	x.fragments = append(x.fragments, fragment{text: "\n"})
}

func (x *extraction) data(s string) {
	if x.suppressed > 0 {
		return
	}
	if x.inPre {
		x.fragments = append(x.fragments, fragment{text: s, pre: true})
		return
	}
	if t := strings.TrimSpace(s); t != "" {
		x.fragments = append(x.fragments, fragment{text: t + " "})
	}
}

// String flushes the fragments into the normalised output.
func (x *extraction) String() string {
	runs := mergeRuns(x.fragments)

	for _, r := range runs {
		if !r.pre {
			r.text = spaceRuns.ReplaceAllString(r.text, " ")
		}
	}

	// Trim the edges, stopping at preformatted content.
	for len(runs) > 0 && !runs[0].pre {
		runs[0].text = strings.TrimLeftFunc(runs[0].text, unicode.IsSpace)
		if runs[0].text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 && !runs[len(runs)-1].pre {
		last := runs[len(runs)-1]
		last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
		if last.text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}

	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.text)
	}
	return newlineRuns.ReplaceAllString(b.String(), "\n\n")
}

// mergeRuns joins adjacent fragments of the same kind.
func mergeRuns(fragments []fragment) []*fragment {
	var runs []*fragment
	var b strings.Builder
	for i, f := range fragments {
		b.WriteString(f.text)
		if i+1 < len(fragments) && fragments[i+1].pre == f.pre {
			continue
		}
		runs = append(runs, &fragment{text: b.String(), pre: f.pre})
		b.Reset()
	}
	return runs
}
