package dto

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf-server/internal/domain"
)

// AuthorLookup defines the interface for fetching authors during enrichment.
// This keeps Enricher testable and independent of the concrete store.
type AuthorLookup interface {
	Get(ctx context.Context, id string) (*domain.Author, error)
}

// Enricher denormalizes domain models for client consumption.
// Safe to enrich the same book multiple times.
type Enricher struct {
	authors AuthorLookup
}

// NewEnricher creates a new enricher.
func NewEnricher(authors AuthorLookup) *Enricher {
	return &Enricher{authors: authors}
}

// EnrichBook resolves the book's author reference into a populated view.
// A dangling author reference is an error: books are always created with
// an author and the link is never removed.
func (e *Enricher) EnrichBook(ctx context.Context, book *domain.Book) (*Book, error) {
	author, err := e.authors.Get(ctx, book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("fetch author %s: %w", book.AuthorID, err)
	}

	return &Book{
		ID:        book.ID,
		Title:     book.Title,
		Published: book.Published,
		Genres:    book.Genres,
		Author:    FromAuthor(author),
	}, nil
}
