package domain

// Book represents a single published work in the catalog.
// Titles are unique across the catalog.
type Book struct {
	Record
	Title     string   `json:"title"`
	Published int      `json:"published"`
	Genres    []string `json:"genres"`
	// AuthorID links the book to its author record. Books are always
	// created with an author; the link never dangles.
	AuthorID string `json:"author_id"`
}

// HasGenre reports whether the book is tagged with the given genre.
// Matching is exact and case-sensitive.
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
