package feed

import (
	"strings"
	"testing"
)

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name          string
		feedContent   string
		expectError   bool
		expectedCount int
		validateFunc  func(t *testing.T, doc *Document)
	}{
		{
			name: "valid RSS feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Test RSS Feed</title>
		<link>http://example.com</link>
		<description>Test Description</description>
		<item>
			<title>First Article</title>
			<link>http://example.com/article1</link>
			<description>This is the first article</description>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
		</item>
		<item>
			<title>Second Article</title>
			<link>http://example.com/article2</link>
		</item>
	</channel>
</rss>`,
			expectedCount: 2,
			validateFunc: func(t *testing.T, doc *Document) {
				if doc.Title != "Test RSS Feed" {
					t.Errorf("expected title 'Test RSS Feed', got %s", doc.Title)
				}
				if doc.Items[0].Title != "First Article" {
					t.Errorf("expected title 'First Article', got %s", doc.Items[0].Title)
				}
				desc, ok := doc.Items[0].Description()
				if !ok || desc != "This is the first article" {
					t.Errorf("unexpected description %q (present=%v)", desc, ok)
				}
				if doc.Items[0].Published.IsZero() {
					t.Error("expected published date to be parsed")
				}
				if _, ok := doc.Items[1].Description(); ok {
					t.Error("second item should have no description")
				}
			},
		},
		{
			name: "valid Atom feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<link href="http://example.org/"/>
	<updated>2025-01-01T12:00:00Z</updated>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.org/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<updated>2025-01-01T12:00:00Z</updated>
		<summary>Entry summary</summary>
	</entry>
</feed>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, doc *Document) {
				if doc.Items[0].Title != "Atom Entry 1" {
					t.Errorf("expected title 'Atom Entry 1', got %s", doc.Items[0].Title)
				}
				if desc, _ := doc.Items[0].Description(); desc != "Entry summary" {
					t.Errorf("expected summary as description, got %q", desc)
				}
			},
		},
		{
			name: "HTML description is flattened",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>HTML</title>
		<item>
			<title>Rich</title>
			<description><![CDATA[<p>Hello <b>world</b></p><script>evil()</script>]]></description>
		</item>
	</channel>
</rss>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, doc *Document) {
				if desc, _ := doc.Items[0].Description(); desc != "Hello world" {
					t.Errorf("expected flattened description, got %q", desc)
				}
			},
		},
		{
			name:        "invalid XML",
			feedContent: "not valid XML",
			expectError: true,
		},
		{
			name:          "empty feed",
			feedContent:   `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel></channel></rss>`,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.Parse(strings.NewReader(tt.feedContent))

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(doc.Items) != tt.expectedCount {
				t.Errorf("expected %d items, got %d", tt.expectedCount, len(doc.Items))
			}

			if tt.validateFunc != nil && len(doc.Items) > 0 {
				tt.validateFunc(t, doc)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "  just   text  ", "just text"},
		{"entities", "Fish &amp; Chips", "Fish & Chips"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"line break", "a<br>b", "a\nb"},
		{"style dropped", "<style>p{}</style>visible", "visible"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.expected {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestItem_Description(t *testing.T) {
	item := NewItem("title")
	if _, ok := item.Description(); ok {
		t.Error("new item should have no description")
	}

	with := item.WithDescription("")
	if desc, ok := with.Description(); !ok || desc != "" {
		t.Errorf("empty description should still be present, got %q %v", desc, ok)
	}
	if _, ok := item.Description(); ok {
		t.Error("WithDescription must not modify the receiver")
	}
}
