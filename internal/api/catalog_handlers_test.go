package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf-server/internal/dto"
)

type authorData struct {
	Author *dto.Author `json:"author"`
}

type bookData struct {
	Book *dto.Book `json:"book"`
}

func TestMutationsRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"addAuthor", http.MethodPost, "/api/v1/authors", map[string]any{"name": "Sofi Oksanen"}},
		{"addBook", http.MethodPost, "/api/v1/books", map[string]any{
			"title": "Puhdistus", "author": "Sofi Oksanen", "published": 2008, "genres": []string{"classic"},
		}},
		{"editAuthor", http.MethodPatch, "/api/v1/authors", map[string]any{"name": "Sofi Oksanen", "set_born_to": 1977}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp *httptest.ResponseRecorder
			switch tc.method {
			case http.MethodPost:
				resp = ts.api.Post(tc.path, tc.body)
			case http.MethodPatch:
				resp = ts.api.Patch(tc.path, tc.body)
			}
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestAddAuthor(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "librarian")

	t.Run("creates author", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{
			"name": "Reijo Mäki",
			"born": 1958,
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Data.Author)
		assert.Equal(t, "Reijo Mäki", envelope.Data.Author.Name)
		require.NotNil(t, envelope.Data.Author.Born)
		assert.Equal(t, 1958, *envelope.Data.Author.Born)
		assert.Equal(t, 0, envelope.Data.Author.BookCount)
	})

	t.Run("rejects short name with details", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{"name": "Bo"})
		require.Equal(t, http.StatusBadRequest, resp.Code)

		var envelope testEnvelope[any]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "INVALID_INPUT", envelope.Error.Code)
		assert.NotNil(t, envelope.Error.Details)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{"name": "Reijo Mäki"})
		require.Equal(t, http.StatusBadRequest, resp.Code)

		var envelope testEnvelope[any]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "INVALID_INPUT", envelope.Error.Code)
	})
}

func TestAddBookCascade(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "librarian")

	resp := ts.api.Post("/api/v1/books", bearer(token), map[string]any{
		"title":     "The Hobbit",
		"author":    "J. R. R. Tolkien",
		"published": 1937,
		"genres":    []string{"fantasy", "classic"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[bookData]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	book := envelope.Data.Book
	require.NotNil(t, book)
	assert.Equal(t, "The Hobbit", book.Title)
	require.NotNil(t, book.Author, "embedded author must be fully resolved")
	assert.Equal(t, "J. R. R. Tolkien", book.Author.Name)
	assert.Equal(t, 1, book.Author.BookCount)

	// The cascade-created author is now findable.
	resp = ts.api.Get("/api/v1/authors/find?name=J.+R.+R.+Tolkien")
	require.Equal(t, http.StatusOK, resp.Code)

	var found testEnvelope[authorData]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &found))
	require.NotNil(t, found.Data.Author)
	assert.Nil(t, found.Data.Author.Born)

	// Duplicate titles are rejected.
	resp = ts.api.Post("/api/v1/books", bearer(token), map[string]any{
		"title":  "The Hobbit",
		"author": "J. R. R. Tolkien",
		"genres": []string{"fantasy"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBookQueries(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "librarian")

	seed := []map[string]any{
		{"title": "The Hobbit", "author": "J. R. R. Tolkien", "published": 1937, "genres": []string{"fantasy"}},
		{"title": "The Silmarillion", "author": "J. R. R. Tolkien", "published": 1977, "genres": []string{"fantasy", "mythology"}},
		{"title": "Dune", "author": "Frank Herbert", "published": 1965, "genres": []string{"scifi"}},
	}
	for _, b := range seed {
		resp := ts.api.Post("/api/v1/books", bearer(token), b)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	listBooks := func(t *testing.T, path string) []*dto.Book {
		t.Helper()
		resp := ts.api.Get(path)
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[struct {
			Books []*dto.Book `json:"books"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		return envelope.Data.Books
	}

	t.Run("counts", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books/count")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[struct {
			Count int `json:"count"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Equal(t, 3, envelope.Data.Count)

		resp = ts.api.Get("/api/v1/authors/count")
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Equal(t, 2, envelope.Data.Count)
	})

	t.Run("filter by author", func(t *testing.T) {
		books := listBooks(t, "/api/v1/books?author=J.+R.+R.+Tolkien")
		assert.Len(t, books, 2)
	})

	t.Run("filter by genre", func(t *testing.T) {
		books := listBooks(t, "/api/v1/books?genre=scifi")
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		books := listBooks(t, "/api/v1/books?author=J.+R.+R.+Tolkien&genre=mythology")
		require.Len(t, books, 1)
		assert.Equal(t, "The Silmarillion", books[0].Title)
	})

	t.Run("unknown author yields empty list", func(t *testing.T) {
		books := listBooks(t, "/api/v1/books?author=Nobody+Anywhere")
		assert.Empty(t, books)
	})

	t.Run("genres dedupe in first-seen order", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/genres")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[struct {
			Genres []string `json:"genres"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Equal(t, []string{"fantasy", "mythology", "scifi"}, envelope.Data.Genres)
	})
}

func TestAuthorQueries(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "librarian")

	resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{
		"name":   "Ursula K. Le Guin",
		"born":   1929,
		"street": "Napa Street",
		"city":   "Berkeley",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.api.Post("/api/v1/authors", bearer(token), map[string]any{"name": "Italo Calvino"})
	require.Equal(t, http.StatusCreated, resp.Code)

	listAuthors := func(t *testing.T, path string) []*dto.Author {
		t.Helper()
		resp := ts.api.Get(path)
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[struct {
			Authors []*dto.Author `json:"authors"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		return envelope.Data.Authors
	}

	t.Run("all authors", func(t *testing.T) {
		assert.Len(t, listAuthors(t, "/api/v1/authors"), 2)
	})

	t.Run("born present", func(t *testing.T) {
		authors := listAuthors(t, "/api/v1/authors?born=present")
		require.Len(t, authors, 1)
		assert.Equal(t, "Ursula K. Le Guin", authors[0].Name)
	})

	t.Run("address is returned when known", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/authors/find?name=Ursula+K.+Le+Guin")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Data.Author)
		require.NotNil(t, envelope.Data.Author.Address)
		assert.Equal(t, "Napa Street", envelope.Data.Author.Address.Street)
		assert.Equal(t, "Berkeley", envelope.Data.Author.Address.City)
	})

	t.Run("address omitted when unknown", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/authors/find?name=Italo+Calvino")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Data.Author)
		assert.Nil(t, envelope.Data.Author.Address)
	})

	t.Run("born absent", func(t *testing.T) {
		authors := listAuthors(t, "/api/v1/authors?born=absent")
		require.Len(t, authors, 1)
		assert.Equal(t, "Italo Calvino", authors[0].Name)
	})

	t.Run("born rejects unknown values", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/authors?born=sometimes")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("find absent author yields null", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/authors/find?name=Nobody")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Nil(t, envelope.Data.Author)
	})
}

func TestEditAuthor(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "librarian")

	resp := ts.api.Post("/api/v1/authors", bearer(token), map[string]any{"name": "Italo Calvino"})
	require.Equal(t, http.StatusCreated, resp.Code)

	t.Run("sets birth year", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/authors", bearer(token), map[string]any{
			"name":        "Italo Calvino",
			"set_born_to": 1923,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Data.Author)
		require.NotNil(t, envelope.Data.Author.Born)
		assert.Equal(t, 1923, *envelope.Data.Author.Born)
	})

	t.Run("unknown author yields null, not error", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/authors", bearer(token), map[string]any{
			"name":        "Nobody",
			"set_born_to": 1900,
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope testEnvelope[authorData]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Nil(t, envelope.Data.Author)
	})
}

func TestMeAndRecommendations(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t, "reader")

	t.Run("me returns the caller", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/users/me", bearer(token))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var envelope testEnvelope[struct {
			User *dto.User `json:"user"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Data.User)
		assert.Equal(t, "reader", envelope.Data.User.Username)
		assert.Equal(t, "fantasy", envelope.Data.User.FavoriteGenre)
	})

	t.Run("recommendations follow favorite genre", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/books", bearer(token), map[string]any{
			"title": "The Hobbit", "author": "J. R. R. Tolkien", "genres": []string{"fantasy"},
		})
		require.Equal(t, http.StatusCreated, resp.Code)
		resp = ts.api.Post("/api/v1/books", bearer(token), map[string]any{
			"title": "Dune", "author": "Frank Herbert", "genres": []string{"scifi"},
		})
		require.Equal(t, http.StatusCreated, resp.Code)

		resp = ts.api.Get("/api/v1/books/recommended", bearer(token))
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope testEnvelope[struct {
			Books []*dto.Book `json:"books"`
		}]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data.Books, 1)
		assert.Equal(t, "The Hobbit", envelope.Data.Books[0].Title)
	})

	t.Run("recommendations require auth", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books/recommended")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
