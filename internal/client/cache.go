// Package client provides the consuming side of the catalog: a query-scoped
// cache that merges server pushes idempotently, and the subscription stream
// reader that feeds it.
package client

import (
	"sync"

	"github.com/openshelf/openshelf-server/internal/dto"
)

// Cache holds locally cached list-query results. Entities merge by a logical
// identity key (name for authors, title for books), never by arrival order,
// so a mutation's own response and the matching pushed event can both be
// applied without double insertion.
type Cache struct {
	mu sync.Mutex

	books      []*dto.Book
	bookTitles map[string]bool

	authors     []*dto.Author
	authorNames map[string]bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		bookTitles:  make(map[string]bool),
		authorNames: make(map[string]bool),
	}
}

// MergeBook merges a book into the cached list, keyed by title.
// Returns true if the book was appended, false if it was already present.
func (c *Cache) MergeBook(book *dto.Book) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bookTitles[book.Title] {
		return false
	}
	c.bookTitles[book.Title] = true
	c.books = append(c.books, book)
	return true
}

// MergeAuthor merges an author into the cached list, keyed by name.
// Returns true if the author was appended, false if it was already present.
func (c *Cache) MergeAuthor(author *dto.Author) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authorNames[author.Name] {
		return false
	}
	c.authorNames[author.Name] = true
	c.authors = append(c.authors, author)
	return true
}

// PrimeBooks replaces the cached book list with a freshly fetched result,
// deduplicating by title in case the server response itself overlaps.
func (c *Cache) PrimeBooks(books []*dto.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = nil
	c.bookTitles = make(map[string]bool, len(books))
	for _, book := range books {
		if c.bookTitles[book.Title] {
			continue
		}
		c.bookTitles[book.Title] = true
		c.books = append(c.books, book)
	}
}

// PrimeAuthors replaces the cached author list, deduplicating by name.
func (c *Cache) PrimeAuthors(authors []*dto.Author) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.authors = nil
	c.authorNames = make(map[string]bool, len(authors))
	for _, author := range authors {
		if c.authorNames[author.Name] {
			continue
		}
		c.authorNames[author.Name] = true
		c.authors = append(c.authors, author)
	}
}

// Books returns a copy of the cached book list.
func (c *Cache) Books() []*dto.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*dto.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Authors returns a copy of the cached author list.
func (c *Cache) Authors() []*dto.Author {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*dto.Author, len(c.authors))
	copy(out, c.authors)
	return out
}
