package domain

// Author represents a person who wrote one or more books in the catalog.
// Names are unique across the catalog; lookups by name are case-sensitive.
type Author struct {
	Record
	Name string `json:"name"`
	// Born is the author's birth year. nil means unknown; editAuthor treats
	// the submitted year as a value, so nil can be overwritten but never
	// restored through the API.
	Born *int `json:"born,omitempty"`
	// Optional address details. Not exposed through the catalog API surface
	// but preserved for imports.
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	// Books holds the IDs of the books written by this author, in insertion
	// order. BookCount is always derived from it.
	Books []string `json:"books"`
}

// BookCount returns the number of books attributed to this author.
// It is derived on every call; nothing persists a separate counter.
func (a *Author) BookCount() int {
	return len(a.Books)
}

// AddBook appends a book ID to the author's book list.
// Duplicate IDs are ignored so replayed writes stay idempotent.
func (a *Author) AddBook(bookID string) {
	for _, id := range a.Books {
		if id == bookID {
			return
		}
	}
	a.Books = append(a.Books, bookID)
	a.Touch()
}
