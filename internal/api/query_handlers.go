package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openshelf/openshelf-server/internal/dto"
	"github.com/openshelf/openshelf-server/internal/resolver"
)

// CountOutput carries a bare counter result.
type CountOutput struct {
	Body struct {
		Count int `json:"count" doc:"Number of records"`
	}
}

// BookCountInput has no parameters; the Authorization header is accepted so
// an invalid credential fails even on this public operation.
type BookCountInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
}

func (s *Server) registerBookCount() {
	huma.Register(s.api, huma.Operation{
		OperationID: "bookCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/count",
		Summary:     "Count books",
		Description: "Returns the total number of books in the catalog.",
		Tags:        []string{"Books"},
	}, func(ctx context.Context, input *BookCountInput) (*CountOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		count, err := s.engine.BookCount(ctx)
		if err != nil {
			return nil, err
		}
		resp := &CountOutput{}
		resp.Body.Count = count
		return resp, nil
	})
}

type AuthorCountInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
}

func (s *Server) registerAuthorCount() {
	huma.Register(s.api, huma.Operation{
		OperationID: "authorCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/count",
		Summary:     "Count authors",
		Description: "Returns the total number of authors in the catalog.",
		Tags:        []string{"Authors"},
	}, func(ctx context.Context, input *AuthorCountInput) (*CountOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		count, err := s.engine.AuthorCount(ctx)
		if err != nil {
			return nil, err
		}
		resp := &CountOutput{}
		resp.Body.Count = count
		return resp, nil
	})
}

// AllBooksInput narrows the listing. Filters combine with AND; an omitted
// filter matches everything.
type AllBooksInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
	Author        string `query:"author" required:"false" doc:"Keep only books by this author name (exact match)"`
	Genre         string `query:"genre" required:"false" doc:"Keep only books carrying this genre (exact match)"`
}

type BookListOutput struct {
	Body struct {
		Books []*dto.Book `json:"books"`
	}
}

func (s *Server) registerAllBooks() {
	huma.Register(s.api, huma.Operation{
		OperationID: "allBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Lists books, optionally filtered by author name and/or genre.",
		Tags:        []string{"Books"},
	}, func(ctx context.Context, input *AllBooksInput) (*BookListOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		books, err := s.engine.AllBooks(ctx, resolver.BookFilter{
			Author: input.Author,
			Genre:  input.Genre,
		})
		if err != nil {
			return nil, err
		}
		resp := &BookListOutput{}
		resp.Body.Books = books
		return resp, nil
	})
}

type AllGenresInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
}

type GenreListOutput struct {
	Body struct {
		Genres []string `json:"genres"`
	}
}

func (s *Server) registerAllGenres() {
	huma.Register(s.api, huma.Operation{
		OperationID: "allGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Lists every distinct genre in first-seen order.",
		Tags:        []string{"Books"},
	}, func(ctx context.Context, input *AllGenresInput) (*GenreListOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		genres, err := s.engine.AllGenres(ctx)
		if err != nil {
			return nil, err
		}
		resp := &GenreListOutput{}
		resp.Body.Genres = genres
		return resp, nil
	})
}

type AllAuthorsInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
	Born          string `query:"born" required:"false" enum:"present,absent" doc:"Keep only authors with (present) or without (absent) a birth year"`
}

type AuthorListOutput struct {
	Body struct {
		Authors []*dto.Author `json:"authors"`
	}
}

func (s *Server) registerAllAuthors() {
	huma.Register(s.api, huma.Operation{
		OperationID: "allAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Description: "Lists authors with their derived book counts.",
		Tags:        []string{"Authors"},
	}, func(ctx context.Context, input *AllAuthorsInput) (*AuthorListOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		authors, err := s.engine.AllAuthors(ctx, resolver.BornFilter(input.Born))
		if err != nil {
			return nil, err
		}
		resp := &AuthorListOutput{}
		resp.Body.Authors = authors
		return resp, nil
	})
}

type FindAuthorInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Optional bearer token"`
	Name          string `query:"name" required:"true" doc:"Exact author name"`
}

// AuthorOutput carries a single author, or null when the lookup found
// nothing. Absence is data here, not an error.
type AuthorOutput struct {
	Body struct {
		Author *dto.Author `json:"author"`
	}
}

func (s *Server) registerFindAuthor() {
	huma.Register(s.api, huma.Operation{
		OperationID: "findAuthor",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/find",
		Summary:     "Find an author by name",
		Description: "Looks up one author by exact name. An unknown name yields a null author, not an error.",
		Tags:        []string{"Authors"},
	}, func(ctx context.Context, input *FindAuthorInput) (*AuthorOutput, error) {
		if _, err := s.resolveAuth(ctx, input.Authorization); err != nil {
			return nil, err
		}
		author, err := s.engine.FindAuthor(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		resp := &AuthorOutput{}
		resp.Body.Author = author
		return resp, nil
	})
}

type MeInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer token"`
}

type UserOutput struct {
	Body struct {
		User *dto.User `json:"user"`
	}
}

func (s *Server) registerMe() {
	huma.Register(s.api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the account of the authenticated caller.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *MeInput) (*UserOutput, error) {
		authCtx, err := s.resolveAuth(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}
		user, err := s.engine.Me(ctx, authCtx)
		if err != nil {
			return nil, err
		}
		resp := &UserOutput{}
		resp.Body.User = user
		return resp, nil
	})
}

type RecommendedBooksInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer token"`
}

func (s *Server) registerRecommendedBooks() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommendedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/recommended",
		Summary:     "Recommended books",
		Description: "Lists books in the caller's favorite genre. An account without a favorite genre gets an empty list.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *RecommendedBooksInput) (*BookListOutput, error) {
		authCtx, err := s.resolveAuth(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}
		books, err := s.engine.RecommendedBooks(ctx, authCtx)
		if err != nil {
			return nil, err
		}
		resp := &BookListOutput{}
		resp.Body.Books = books
		return resp, nil
	})
}
