package feed

import "time"

// Source is a configured feed subscription. Its identity is its position
// in the configured list, so two sources may share a URL.
type Source struct {
	Name string
	URL  string
}

// Document is the result of a successful parse. A new Document always
// replaces the previous one in full.
type Document struct {
	Title       string
	Link        string
	Description string
	Items       []Item
}

type Item struct {
	Title     string
	Link      string
	Published time.Time

	description    string
	hasDescription bool
}

// NewItem builds an item without a description.
func NewItem(title string) Item {
	return Item{Title: title}
}

// WithDescription returns a copy of the item carrying desc.
func (i Item) WithDescription(desc string) Item {
	i.description = desc
	i.hasDescription = true
	return i
}

// Description reports the item description and whether the feed supplied one.
func (i Item) Description() (string, bool) {
	return i.description, i.hasDescription
}
