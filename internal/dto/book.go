// Package dto provides Data Transfer Objects for API responses and subscription events.
//
// DTOs contain denormalized fields for immediate client rendering while preserving
// normalized IDs for relationships. Subscription events are UI updates, not database
// replication, so they must carry everything needed to render without a follow-up query.
package dto

import "github.com/openshelf/openshelf-server/internal/domain"

// Author is the client-facing representation of an author.
// BookCount is derived from the book list at build time, never stored.
type Author struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Born      *int     `json:"born,omitempty"`
	Address   *Address `json:"address,omitempty"`
	BookCount int      `json:"book_count"`
}

// Address is an author's postal address. Present only when at least one
// component is known.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
}

// FromAuthor builds the client-facing view of an author.
func FromAuthor(a *domain.Author) *Author {
	out := &Author{
		ID:        a.ID,
		Name:      a.Name,
		Born:      a.Born,
		BookCount: a.BookCount(),
	}
	if a.Street != "" || a.City != "" {
		out.Address = &Address{Street: a.Street, City: a.City}
	}
	return out
}

// Book is the client-facing representation of a book.
// The author is embedded fully resolved so events and responses are
// self-contained and immediately renderable.
type Book struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Published int      `json:"published"`
	Genres    []string `json:"genres"`
	Author    *Author  `json:"author"`
}

// User is the client-facing representation of a reader account.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FavoriteGenre string `json:"favorite_genre,omitempty"`
}

// FromUser builds the client-facing view of a user.
func FromUser(u *domain.User) *User {
	return &User{
		ID:            u.ID,
		Username:      u.Username,
		FavoriteGenre: u.FavoriteGenre,
	}
}
