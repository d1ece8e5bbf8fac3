package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Keys tried, in order, for the label and link of a list entry.
var (
	labelKeys = []string{"title", "name", "full_name", "label", "text", "author"}
	linkKeys  = []string{"url", "html_url", "link", "pdf_url"}
)

// RenderMarkdown turns a tool result into Markdown for chat front-ends.
// The result data is walked through its JSON form so every tool renders
// without a per-type template.
func RenderMarkdown(tool string, r *ToolResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", tool)

	if r == nil {
		b.WriteString("**Error:** no result\n")
		return b.String()
	}
	if !r.Success {
		fmt.Fprintf(&b, "**Error:** %s\n", r.Error)
	}
	if r.Message != "" {
		b.WriteString(r.Message + "\n\n")
	}
	if r.Data == nil {
		return strings.TrimRight(b.String(), "\n") + "\n"
	}

	raw, err := json.Marshal(r.Data)
	if err != nil {
		fmt.Fprintf(&b, "**Error:** could not render result: %v\n", err)
		return b.String()
	}

	doc := gjson.ParseBytes(raw)
	switch {
	case doc.IsObject():
		renderFields(&b, doc, 3)
	case doc.IsArray():
		renderList(&b, doc)
	default:
		b.WriteString(doc.String() + "\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderFields(b *strings.Builder, obj gjson.Result, level int) {
	var sections []func()

	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch {
		case isEmpty(value):
		case value.IsArray() && hasObjects(value):
			sections = append(sections, func() {
				blankLine(b)
				fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), name)
				renderList(b, value)
			})
		case value.IsArray():
			fmt.Fprintf(b, "- **%s:** %s\n", name, joinScalars(value))
		case value.IsObject():
			sections = append(sections, func() {
				blankLine(b)
				fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), name)
				renderFields(b, value, min(level+1, 6))
			})
		case value.Type == gjson.String && strings.Contains(value.String(), "\n"):
			sections = append(sections, func() {
				blankLine(b)
				fmt.Fprintf(b, "**%s:**\n\n%s\n", name, strings.TrimSpace(value.String()))
			})
		default:
			fmt.Fprintf(b, "- **%s:** %s\n", name, value.String())
		}
		return true
	})

	for _, section := range sections {
		section()
	}
}

// blankLine ends b with an empty line before a new block.
func blankLine(b *strings.Builder) {
	s := b.String()
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		b.WriteString("\n")
	default:
		b.WriteString("\n\n")
	}
}

func renderList(b *strings.Builder, list gjson.Result) {
	for i, item := range list.Array() {
		if !item.IsObject() {
			fmt.Fprintf(b, "%d. %s\n", i+1, item.String())
			continue
		}

		label, labelKey := firstField(item, labelKeys)
		link, linkKey := firstField(item, linkKeys)
		switch {
		case label != "" && link != "":
			fmt.Fprintf(b, "%d. [%s](%s)\n", i+1, label, link)
		case label != "":
			fmt.Fprintf(b, "%d. **%s**\n", i+1, label)
		case link != "":
			fmt.Fprintf(b, "%d. %s\n", i+1, link)
		default:
			fmt.Fprintf(b, "%d. Item %d\n", i+1, i+1)
		}

		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if name == labelKey || name == linkKey {
				return true
			}
			renderSubField(b, name, value)
			return true
		})
	}
}

func renderSubField(b *strings.Builder, name string, value gjson.Result) {
	switch {
	case isEmpty(value):
	case value.IsArray() && hasObjects(value):
		fmt.Fprintf(b, "   - **%s:** %d entries\n", name, len(value.Array()))
	case value.IsArray():
		fmt.Fprintf(b, "   - **%s:** %s\n", name, joinScalars(value))
	case value.IsObject():
		value.ForEach(func(k, v gjson.Result) bool {
			if !v.IsObject() && !v.IsArray() && !isEmpty(v) {
				fmt.Fprintf(b, "   - **%s.%s:** %s\n", name, k.String(), squash(v.String()))
			}
			return true
		})
	default:
		fmt.Fprintf(b, "   - **%s:** %s\n", name, squash(value.String()))
	}
}

func firstField(obj gjson.Result, keys []string) (string, string) {
	for _, k := range keys {
		if v := obj.Get(k); v.Type == gjson.String && v.String() != "" {
			return squash(v.String()), k
		}
	}
	return "", ""
}

func hasObjects(list gjson.Result) bool {
	for _, item := range list.Array() {
		if item.IsObject() {
			return true
		}
	}
	return false
}

func joinScalars(list gjson.Result) string {
	parts := make([]string, 0, len(list.Array()))
	for _, item := range list.Array() {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, ", ")
}

func isEmpty(v gjson.Result) bool {
	switch {
	case v.Type == gjson.Null:
		return true
	case v.Type == gjson.String:
		return strings.TrimSpace(v.String()) == ""
	case v.IsArray():
		return len(v.Array()) == 0
	case v.IsObject():
		return len(v.Map()) == 0
	}
	return false
}
