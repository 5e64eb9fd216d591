package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openshelf/openshelf-server/internal/dto"
	"github.com/openshelf/openshelf-server/internal/resolver"
)

// AddAuthorInput wraps the addAuthor arguments. Field-level validation
// happens in the resolver so every transport rejects the same inputs.
type AddAuthorInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer token"`
	Body          struct {
		Name   string `json:"name" doc:"Author name, at least 4 characters"`
		Born   *int   `json:"born,omitempty" doc:"Birth year, if known"`
		Street string `json:"street,omitempty"`
		City   string `json:"city,omitempty"`
	}
}

type AddAuthorOutput struct {
	Body struct {
		Author *dto.Author `json:"author"`
	}
}

func (s *Server) registerAddAuthor() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addAuthor",
		Method:        http.MethodPost,
		Path:          "/api/v1/authors",
		Summary:       "Add an author",
		Description:   "Creates an author and notifies author subscribers.",
		Tags:          []string{"Authors"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *AddAuthorInput) (*AddAuthorOutput, error) {
		authCtx, err := s.resolveAuth(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}
		author, err := s.engine.AddAuthor(ctx, authCtx, resolver.AddAuthorInput{
			Name:   input.Body.Name,
			Born:   input.Body.Born,
			Street: input.Body.Street,
			City:   input.Body.City,
		})
		if err != nil {
			return nil, err
		}
		resp := &AddAuthorOutput{}
		resp.Body.Author = author
		return resp, nil
	})
}

type AddBookInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer token"`
	Body          struct {
		Title     string   `json:"title" doc:"Book title, unique in the catalog"`
		Author    string   `json:"author" doc:"Author name; an unknown name creates the author"`
		Published int      `json:"published,omitempty" doc:"Publication year"`
		Genres    []string `json:"genres" doc:"At least one genre"`
	}
}

type AddBookOutput struct {
	Body struct {
		Book *dto.Book `json:"book"`
	}
}

func (s *Server) registerAddBook() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add a book",
		Description:   "Creates a book, cascade-creating its author when needed, and notifies book subscribers.",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *AddBookInput) (*AddBookOutput, error) {
		authCtx, err := s.resolveAuth(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}
		book, err := s.engine.AddBook(ctx, authCtx, resolver.AddBookInput{
			Title:     input.Body.Title,
			Author:    input.Body.Author,
			Published: input.Body.Published,
			Genres:    input.Body.Genres,
		})
		if err != nil {
			return nil, err
		}
		resp := &AddBookOutput{}
		resp.Body.Book = book
		return resp, nil
	})
}

type EditAuthorInput struct {
	Authorization string `header:"Authorization" required:"false" doc:"Bearer token"`
	Body          struct {
		Name      string `json:"name" doc:"Exact name of the author to edit"`
		SetBornTo int    `json:"set_born_to" doc:"New birth year"`
	}
}

func (s *Server) registerEditAuthor() {
	huma.Register(s.api, huma.Operation{
		OperationID: "editAuthor",
		Method:      http.MethodPatch,
		Path:        "/api/v1/authors",
		Summary:     "Set an author's birth year",
		Description: "Updates the birth year of an existing author. An unknown name yields a null author, not an error.",
		Tags:        []string{"Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *EditAuthorInput) (*AuthorOutput, error) {
		authCtx, err := s.resolveAuth(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}
		author, err := s.engine.EditAuthor(ctx, authCtx, resolver.EditAuthorInput{
			Name:      input.Body.Name,
			SetBornTo: input.Body.SetBornTo,
		})
		if err != nil {
			return nil, err
		}
		resp := &AuthorOutput{}
		resp.Body.Author = author
		return resp, nil
	})
}

type CreateUserInput struct {
	Body struct {
		Username      string `json:"username" doc:"Unique username, at least 3 characters"`
		FavoriteGenre string `json:"favorite_genre" doc:"Genre used for recommendations"`
	}
}

func (s *Server) registerCreateUser() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUser",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Create a reader account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
		user, err := s.engine.CreateUser(ctx, resolver.CreateUserInput{
			Username:      input.Body.Username,
			FavoriteGenre: input.Body.FavoriteGenre,
		})
		if err != nil {
			return nil, err
		}
		resp := &UserOutput{}
		resp.Body.User = user
		return resp, nil
	})
}

type LoginInput struct {
	Body struct {
		Username string `json:"username"`
		Password string `json:"password" doc:"Shared login secret"`
	}
}

type LoginOutput struct {
	Body struct {
		Token string `json:"token" doc:"Bearer token for subsequent requests"`
	}
}

func (s *Server) registerLogin() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        loginPath,
		Summary:     "Log in",
		Description: "Exchanges a username and the shared secret for a bearer token.",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		token, err := s.engine.Login(ctx, resolver.LoginInput{
			Username: input.Body.Username,
			Password: input.Body.Password,
		})
		if err != nil {
			return nil, err
		}
		resp := &LoginOutput{}
		resp.Body.Token = token
		return resp, nil
	})
}
