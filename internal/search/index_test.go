package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/fred/internal/feed"
)

func testItems() []feed.Item {
	return []feed.Item{
		feed.NewItem("Hello World").WithDescription("greeting article"),
		feed.NewItem("Golang Tips").WithDescription("bleve and search"),
		feed.NewItem("Rust release notes"),
		feed.NewItem("More golang generics"),
	}
}

func TestIndex_Find(t *testing.T) {
	ix, err := NewIndex(testItems())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	hits, err := ix.Find("golang")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 3}, hits)

	hits, err = ix.Find("bleve")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, hits)

	hits, err = ix.Find("gener")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, hits, "prefix of a title word should match")
}

func TestIndex_TitleOutranksDescription(t *testing.T) {
	ix, err := NewIndex([]feed.Item{
		feed.NewItem("Weekly digest").WithDescription("notes about kubernetes"),
		feed.NewItem("Kubernetes 1.40 released"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	hits, err := ix.Find("kubernetes")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0])
}

func TestIndex_ShortOrEmptyQuery(t *testing.T) {
	ix, err := NewIndex(testItems())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	for _, q := range []string{"", " ", "g", "!!"} {
		hits, err := ix.Find(q)
		require.NoError(t, err)
		assert.Empty(t, hits, "query %q", q)
	}
}

func TestIndex_NoMatch(t *testing.T) {
	ix, err := NewIndex(testItems())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	hits, err := ix.Find("haskell")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBuild(t *testing.T) {
	finder, err := Build(testItems())
	require.NoError(t, err)
	require.NotNil(t, finder)
	assert.NoError(t, finder.Close())
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, tokenize("Hello, World!"))
	assert.Equal(t, []string{"go1.22", "x-net"}, tokenize("go1.22 x-net"))
	assert.Empty(t, tokenize("  ?! "))
}
