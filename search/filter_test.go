package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rec struct {
	Title  string
	Author string
}

func recFields(r rec) []string { return []string{r.Title, r.Author} }

func TestMatches(t *testing.T) {
	t.Run("case-insensitive substring", func(t *testing.T) {
		assert.True(t, Matches("tolk", "The Hobbit", "J.R.R. Tolkien"))
		assert.True(t, Matches("HOBBIT", "The Hobbit"))
		assert.False(t, Matches("dune", "The Hobbit", "J.R.R. Tolkien"))
	})

	t.Run("empty term matches everything", func(t *testing.T) {
		assert.True(t, Matches(""))
		assert.True(t, Matches("", "anything"))
	})
}

func TestFilter(t *testing.T) {
	page := []rec{
		{Title: "The Hobbit", Author: "Tolkien"},
		{Title: "Dune", Author: "Herbert"},
		{Title: "Dune Messiah", Author: "Herbert"},
	}

	t.Run("empty term returns the page untouched", func(t *testing.T) {
		got := Filter(page, "", recFields)
		assert.Equal(t, page, got)
	})

	t.Run("keeps only matching records", func(t *testing.T) {
		got := Filter(page, "dune", recFields)
		assert.Len(t, got, 2)
		assert.Equal(t, "Dune", got[0].Title)
	})

	t.Run("matches any field", func(t *testing.T) {
		got := Filter(page, "herb", recFields)
		assert.Len(t, got, 2)
	})

	t.Run("no match yields empty, not nil panic", func(t *testing.T) {
		got := Filter(page, "zzz", recFields)
		assert.Empty(t, got)
	})
}
