package resolver

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf-server/internal/dto"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
)

// BookFilter narrows the allBooks listing. Both predicates are optional and
// combine with AND; an absent predicate is a no-op, not an empty result.
type BookFilter struct {
	Author string
	Genre  string
}

// BornFilter narrows allAuthors by birth-year presence.
type BornFilter string

const (
	// BornAny applies no birth-year filtering.
	BornAny BornFilter = ""
	// BornPresent keeps only authors with a known birth year.
	BornPresent BornFilter = "present"
	// BornAbsent keeps only authors without a known birth year.
	BornAbsent BornFilter = "absent"
)

// BookCount returns the number of books in the catalog.
func (e *Engine) BookCount(ctx context.Context) (int, error) {
	count := 0
	for _, err := range e.store.Books.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("count books: %w", err)
		}
		count++
	}
	return count, nil
}

// AuthorCount returns the number of authors in the catalog.
func (e *Engine) AuthorCount(ctx context.Context) (int, error) {
	count := 0
	for _, err := range e.store.Authors.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("count authors: %w", err)
		}
		count++
	}
	return count, nil
}

// AllBooks lists books matching the filter, with authors populated.
func (e *Engine) AllBooks(ctx context.Context, filter BookFilter) ([]*dto.Book, error) {
	// Resolve the author-name predicate to an ID up front; an unknown
	// author matches nothing.
	authorID := ""
	if filter.Author != "" {
		author, err := e.store.Authors.GetByIndex(ctx, "name", filter.Author)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return []*dto.Book{}, nil
			}
			return nil, fmt.Errorf("resolve author filter: %w", err)
		}
		authorID = author.ID
	}

	books := []*dto.Book{}
	for book, err := range e.store.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		if authorID != "" && book.AuthorID != authorID {
			continue
		}
		if filter.Genre != "" && !book.HasGenre(filter.Genre) {
			continue
		}

		enriched, err := e.enricher.EnrichBook(ctx, book)
		if err != nil {
			return nil, err
		}
		books = append(books, enriched)
	}
	return books, nil
}

// AllGenres returns every genre tag in use, deduplicated, first-seen order.
func (e *Engine) AllGenres(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	genres := []string{}

	for book, err := range e.store.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		for _, genre := range book.Genres {
			if seen[genre] {
				continue
			}
			seen[genre] = true
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

// AllAuthors lists authors, optionally filtered by birth-year presence.
func (e *Engine) AllAuthors(ctx context.Context, born BornFilter) ([]*dto.Author, error) {
	authors := []*dto.Author{}
	for author, err := range e.store.Authors.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list authors: %w", err)
		}
		switch born {
		case BornPresent:
			if author.Born == nil {
				continue
			}
		case BornAbsent:
			if author.Born != nil {
				continue
			}
		case BornAny:
		}
		authors = append(authors, dto.FromAuthor(author))
	}
	return authors, nil
}

// FindAuthor looks up a single author by exact name.
// An unknown name yields (nil, nil), not an error.
func (e *Engine) FindAuthor(ctx context.Context, name string) (*dto.Author, error) {
	author, err := e.store.Authors.GetByIndex(ctx, "name", name)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return dto.FromAuthor(author), nil
}

// Me returns the current user.
func (e *Engine) Me(ctx context.Context, authCtx *AuthContext) (*dto.User, error) {
	principal, err := e.requireUser(authCtx)
	if err != nil {
		return nil, err
	}

	user, err := e.store.Users.Get(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	return dto.FromUser(user), nil
}

// RecommendedBooks lists books matching the caller's favorite genre.
// A user without a favorite genre gets an empty list.
func (e *Engine) RecommendedBooks(ctx context.Context, authCtx *AuthContext) ([]*dto.Book, error) {
	principal, err := e.requireUser(authCtx)
	if err != nil {
		return nil, err
	}

	if principal.FavoriteGenre == "" {
		return []*dto.Book{}, nil
	}
	return e.AllBooks(ctx, BookFilter{Genre: principal.FavoriteGenre})
}
