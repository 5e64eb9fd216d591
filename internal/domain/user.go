package domain

// User represents a reader account in the catalog.
// Usernames are unique. The catalog stores no per-user credentials; every
// account authenticates with the shared login secret.
type User struct {
	Record
	Username string `json:"username"`
	// FavoriteGenre drives the recommendations query. Empty means the user
	// never picked one and gets no recommendations.
	FavoriteGenre string `json:"favorite_genre,omitempty"`
}
