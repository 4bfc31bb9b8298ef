package feed

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse reads an RSS, Atom or JSON feed from reader.
func (p *Parser) Parse(reader io.Reader) (*Document, error) {
	parsed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	doc := &Document{
		Title:       strings.TrimSpace(parsed.Title),
		Link:        parsed.Link,
		Description: PlainText(parsed.Description),
		Items:       make([]Item, 0, len(parsed.Items)),
	}

	for _, entry := range parsed.Items {
		doc.Items = append(doc.Items, convertItem(entry))
	}

	return doc, nil
}

func convertItem(entry *gofeed.Item) Item {
	item := NewItem(strings.TrimSpace(entry.Title))
	item.Link = entry.Link

	if entry.PublishedParsed != nil {
		item.Published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		item.Published = *entry.UpdatedParsed
	}

	if raw := getContent(entry); raw != "" {
		item = item.WithDescription(PlainText(raw))
	}

	return item
}

func getContent(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}
