package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
)

// extractTextFromHTML turns the HTML fragments datasets put in info fields
// into plain text. Line-breaking tags become newlines.
func extractTextFromHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	var tag strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			tag.Reset()
			continue
		}
		if r == '>' && inTag {
			inTag = false
			if breaksLine(tag.String()) {
				result.WriteByte('\n')
			}
			continue
		}
		if inTag {
			tag.WriteRune(r)
			continue
		}
		result.WriteRune(r)
	}
	text := result.String()
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return strings.TrimSpace(text)
}

func breaksLine(tag string) bool {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(strings.Trim(fields[0], "/")) {
	case "br", "p", "div", "li", "tr":
		return true
	}
	return false
}

// selectionSummary describes the selected point at the current frame.
func selectionSummary(st *AppState) (string, bool) {
	p, ok := st.Selection.Point(st.Dataset)
	if !ok {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "point %d (%.2f, %.2f) frame %d", st.Selection.PointIndex, p.X, p.Y, st.Frame)
	if info := st.Selection.Info; info != nil {
		fmt.Fprintf(&b, " label %s", info.Label)
		names := make([]string, 0, len(info.Attrs))
		for name := range info.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, " %s=%g", name, info.Attrs[name])
		}
		if text := extractTextFromHTML(info.Info); text != "" {
			b.WriteString("\n")
			b.WriteString(text)
		}
	}
	return b.String(), true
}

func copySelection(st *AppState) error {
	summary, ok := selectionSummary(st)
	if !ok {
		return fmt.Errorf("no point selected")
	}
	return clipboard.WriteAll(summary)
}
