// Package search provides full-text lookup over the items of the loaded
// document. The index lives in memory and is rebuilt for every document.
package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/fred/internal/feed"
	"github.com/pders01/fred/internal/state"
)

// MinQueryLength is the shortest query Find will run.
const MinQueryLength = 2

type Index struct {
	idx   bleve.Index
	count int
}

// NewIndex indexes items by position.
func NewIndex(items []feed.Item) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for i, item := range items {
		desc, _ := item.Description()
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"title":       item.Title,
			"description": desc,
			"link":        item.Link,
		}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing item %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing items: %w", err)
	}

	return &Index{idx: idx, count: len(items)}, nil
}

// Build adapts NewIndex to the worker's index builder.
func Build(items []feed.Item) (state.Finder, error) {
	ix, err := NewIndex(items)
	if err != nil {
		return nil, err
	}
	return ix, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name

	link := bleve.NewTextFieldMapping()
	link.Analyzer = standard.Name

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("link", link)

	im.DefaultMapping = dm
	return im
}

// Find returns item positions matching query, best match first. Queries
// shorter than MinQueryLength match nothing.
func (ix *Index) Find(query string) ([]int, error) {
	tokens := tokenize(query)
	if len(strings.TrimSpace(query)) < MinQueryLength || len(tokens) == 0 {
		return nil, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qs = append(qs,
			fieldMatch(tok, "title", 4.0),
			fieldPrefix(tok, "title", 3.5),
			fieldMatch(tok, "description", 2.0),
			fieldPrefix(tok, "description", 1.8),
			fieldMatch(tok, "link", 0.5),
		)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), ix.count, 0, false)
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]int, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, i)
	}
	return hits, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

func fieldMatch(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewMatchQuery(tok)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func fieldPrefix(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewPrefixQuery(tok)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || r > 127)
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
