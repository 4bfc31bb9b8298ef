package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens an HTML fragment into readable text. Block-level
// elements become paragraph breaks and runs of whitespace collapse.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br":
				b.WriteString("\n")
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
				b.WriteString("\n\n")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li", "blockquote", "pre":
				b.WriteString("\n\n")
			}
		}
	}
}

// collapse squeezes whitespace inside lines and keeps at most one blank
// line between paragraphs.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
