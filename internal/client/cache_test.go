package client_test

import (
	"testing"

	"github.com/openshelf/openshelf-server/internal/client"
	"github.com/openshelf/openshelf-server/internal/dto"
	"github.com/stretchr/testify/assert"
)

func book(title string) *dto.Book {
	return &dto.Book{
		ID:     "book-" + title,
		Title:  title,
		Genres: []string{"fantasy"},
		Author: &dto.Author{ID: "author-1", Name: "Tolkien", BookCount: 1},
	}
}

func TestCache_MergeBook_Idempotent(t *testing.T) {
	c := client.NewCache()

	assert.True(t, c.MergeBook(book("The Hobbit")))
	// Same title again: the merge is a no-op regardless of which trigger
	// delivered it first.
	assert.False(t, c.MergeBook(book("The Hobbit")))

	books := c.Books()
	assert.Len(t, books, 1)
	assert.Equal(t, "The Hobbit", books[0].Title)
}

func TestCache_MergeBook_AppendsNewTitles(t *testing.T) {
	c := client.NewCache()

	c.MergeBook(book("The Hobbit"))
	c.MergeBook(book("The Silmarillion"))

	books := c.Books()
	assert.Len(t, books, 2)
	assert.Equal(t, "The Hobbit", books[0].Title)
	assert.Equal(t, "The Silmarillion", books[1].Title)
}

func TestCache_MergeAuthor_Idempotent(t *testing.T) {
	c := client.NewCache()

	assert.True(t, c.MergeAuthor(&dto.Author{ID: "author-1", Name: "Tolkien"}))
	assert.False(t, c.MergeAuthor(&dto.Author{ID: "author-1", Name: "Tolkien"}))

	assert.Len(t, c.Authors(), 1)
}

func TestCache_PrimeBooks(t *testing.T) {
	c := client.NewCache()
	c.MergeBook(book("Stale Entry"))

	c.PrimeBooks([]*dto.Book{book("The Hobbit"), book("The Hobbit"), book("Refactoring")})

	books := c.Books()
	assert.Len(t, books, 2)

	// Priming resets identity tracking: the stale entry can be merged anew,
	// the primed ones cannot.
	assert.False(t, c.MergeBook(book("Refactoring")))
	assert.True(t, c.MergeBook(book("Stale Entry")))
}

func TestCache_CopiesAreIndependent(t *testing.T) {
	c := client.NewCache()
	c.MergeBook(book("The Hobbit"))

	books := c.Books()
	books[0] = book("Mutated")

	assert.Equal(t, "The Hobbit", c.Books()[0].Title)
}
