package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openshelf/openshelf-server/internal/broker"
	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/dto"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/id"
)

// AddAuthorInput contains the arguments of the addAuthor mutation.
type AddAuthorInput struct {
	Name   string `json:"name" validate:"required,min=4"`
	Born   *int   `json:"born,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
}

// AddBookInput contains the arguments of the addBook mutation.
// Author is a name, not an ID; an unknown name cascade-creates the author.
type AddBookInput struct {
	Title     string   `json:"title" validate:"required"`
	Author    string   `json:"author" validate:"required,min=4"`
	Published int      `json:"published" validate:"gte=0"`
	Genres    []string `json:"genres" validate:"required,min=1,dive,required"`
}

// EditAuthorInput contains the arguments of the editAuthor mutation.
type EditAuthorInput struct {
	Name      string `json:"name" validate:"required"`
	SetBornTo int    `json:"set_born_to"`
}

// CreateUserInput contains the arguments of the createUser mutation.
type CreateUserInput struct {
	Username      string `json:"username" validate:"required,min=3"`
	FavoriteGenre string `json:"favorite_genre" validate:"required"`
}

// LoginInput contains the arguments of the login mutation.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddAuthor creates a new author and publishes an author-added event.
func (e *Engine) AddAuthor(ctx context.Context, authCtx *AuthContext, input AddAuthorInput) (*dto.Author, error) {
	if _, err := e.requireUser(authCtx); err != nil {
		return nil, err
	}

	author, err := e.createAuthor(ctx, input)
	if err != nil {
		return nil, err
	}

	view := dto.FromAuthor(author)
	e.broker.Publish(broker.TopicAuthorAdded, view)

	e.logger.Info("author created",
		slog.String("author_id", author.ID),
		slog.String("name", author.Name))
	return view, nil
}

// createAuthor persists a new author. Shared by addAuthor and addBook's
// cascade path so both enforce identical constraints.
func (e *Engine) createAuthor(ctx context.Context, input AddAuthorInput) (*domain.Author, error) {
	if err := e.validator.Validate(input); err != nil {
		return nil, err
	}

	author := &domain.Author{
		Name:   input.Name,
		Born:   input.Born,
		Street: input.Street,
		City:   input.City,
		Books:  []string{},
	}
	authorID, err := id.Generate("author")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate author ID")
	}
	author.ID = authorID
	author.InitTimestamps()

	if err := e.store.Authors.Create(ctx, author.ID, author); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.InvalidInputWithArgs("author name already in use", input)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "save author").WithDetails(input)
	}

	return author, nil
}

// AddBook creates a new book, cascade-creating its author when the name is
// unknown, and publishes a book-added event carrying the populated book.
//
// The two writes (book, then author's book list) are not transactional.
// If the author update fails the book row remains and the mutation fails
// without publishing; the catalog is eventually reconciled by the next
// successful write, never rolled back.
func (e *Engine) AddBook(ctx context.Context, authCtx *AuthContext, input AddBookInput) (*dto.Book, error) {
	if _, err := e.requireUser(authCtx); err != nil {
		return nil, err
	}

	if err := e.validator.Validate(input); err != nil {
		return nil, err
	}

	author, err := e.store.Authors.GetByIndex(ctx, "name", input.Author)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, fmt.Errorf("look up author: %w", err)
		}
		// Unknown author: synthesize one through the same constrained path.
		author, err = e.createAuthor(ctx, AddAuthorInput{Name: input.Author})
		if err != nil {
			return nil, err
		}
	}

	book := &domain.Book{
		Title:     input.Title,
		Published: input.Published,
		Genres:    input.Genres,
		AuthorID:  author.ID,
	}
	bookID, err := id.Generate("book")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate book ID")
	}
	book.ID = bookID
	book.InitTimestamps()

	if err := e.store.Books.Create(ctx, book.ID, book); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.InvalidInputWithArgs("book title already in use", input)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "save book").WithDetails(input)
	}

	author.AddBook(book.ID)
	if err := e.store.Authors.Update(ctx, author.ID, author); err != nil {
		e.logger.Error("book saved but author book list update failed",
			slog.String("book_id", book.ID),
			slog.String("author_id", author.ID),
			slog.String("error", err.Error()))
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "update author book list").WithDetails(input)
	}

	enriched, err := e.enricher.EnrichBook(ctx, book)
	if err != nil {
		return nil, err
	}

	// Publish only after both writes succeeded.
	e.broker.Publish(broker.TopicBookAdded, enriched)

	e.logger.Info("book created",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
		slog.String("author_id", author.ID))
	return enriched, nil
}

// EditAuthor sets an author's birth year. An unknown name yields (nil, nil):
// absence is a value here, not an error, and callers must check for it.
func (e *Engine) EditAuthor(ctx context.Context, authCtx *AuthContext, input EditAuthorInput) (*dto.Author, error) {
	if _, err := e.requireUser(authCtx); err != nil {
		return nil, err
	}

	if err := e.validator.Validate(input); err != nil {
		return nil, err
	}

	author, err := e.store.Authors.GetByIndex(ctx, "name", input.Name)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up author: %w", err)
	}

	born := input.SetBornTo
	author.Born = &born
	author.Touch()

	if err := e.store.Authors.Update(ctx, author.ID, author); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "save author").WithDetails(input)
	}

	return dto.FromAuthor(author), nil
}

// CreateUser registers a new reader account. Public: the catalog has no
// invite flow.
func (e *Engine) CreateUser(ctx context.Context, input CreateUserInput) (*dto.User, error) {
	if err := e.validator.Validate(input); err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      input.Username,
		FavoriteGenre: input.FavoriteGenre,
	}
	userID, err := id.Generate("user")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate user ID")
	}
	user.ID = userID
	user.InitTimestamps()

	if err := e.store.Users.Create(ctx, user.ID, user); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.InvalidInputWithArgs("username already taken", input)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "save user").WithDetails(input)
	}

	e.logger.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))
	return dto.FromUser(user), nil
}

// Login authenticates a reader and mints an access token. The credential is
// the shared login secret, not a per-user password. Unknown username and
// wrong secret produce the identical error so neither check leaks.
func (e *Engine) Login(ctx context.Context, input LoginInput) (string, error) {
	if err := e.validator.Validate(input); err != nil {
		return "", err
	}

	user, err := e.store.Users.GetByIndex(ctx, "username", input.Username)
	if err != nil && !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return "", fmt.Errorf("look up user: %w", err)
	}

	if user == nil || input.Password != e.loginSecret {
		return "", domainerrors.InvalidInput("wrong credentials")
	}

	token, err := e.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "mint access token")
	}

	e.logger.Info("user logged in", slog.String("username", user.Username))
	return token, nil
}
