package store_test

import (
	"context"
	"testing"

	"github.com/openshelf/openshelf-server/internal/domain"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newAuthor(id, name string) *domain.Author {
	a := &domain.Author{Name: name}
	a.ID = id
	a.InitTimestamps()
	return a
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := newAuthor("author-1", "Robert Martin")
	born := 1952
	author.Born = &born

	require.NoError(t, s.Authors.Create(ctx, author.ID, author))

	got, err := s.Authors.Get(ctx, "author-1")
	require.NoError(t, err)
	assert.Equal(t, "Robert Martin", got.Name)
	require.NotNil(t, got.Born)
	assert.Equal(t, 1952, *got.Born)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Authors.Get(context.Background(), "author-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Authors.Create(ctx, "author-1", newAuthor("author-1", "Robert Martin")))

	err := s.Authors.Create(ctx, "author-1", newAuthor("author-1", "Someone Else"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestEntity_Create_IndexConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Authors.Create(ctx, "author-1", newAuthor("author-1", "Robert Martin")))

	err := s.Authors.Create(ctx, "author-2", newAuthor("author-2", "Robert Martin"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestEntity_GetByIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Authors.Create(ctx, "author-1", newAuthor("author-1", "Sandi Metz")))

	got, err := s.Authors.GetByIndex(ctx, "name", "Sandi Metz")
	require.NoError(t, err)
	assert.Equal(t, "author-1", got.ID)

	// Lookups are case-sensitive.
	_, err = s.Authors.GetByIndex(ctx, "name", "sandi metz")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEntity_Update_MovesIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := newAuthor("author-1", "Reijo Maki")
	require.NoError(t, s.Authors.Create(ctx, author.ID, author))

	author.Name = "Reijo Mäki"
	require.NoError(t, s.Authors.Update(ctx, author.ID, author))

	got, err := s.Authors.GetByIndex(ctx, "name", "Reijo Mäki")
	require.NoError(t, err)
	assert.Equal(t, "author-1", got.ID)

	_, err = s.Authors.GetByIndex(ctx, "name", "Reijo Maki")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEntity_Update_IndexConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Authors.Create(ctx, "author-1", newAuthor("author-1", "Robert Martin")))
	require.NoError(t, s.Authors.Create(ctx, "author-2", newAuthor("author-2", "Martin Fowler")))

	stolen := newAuthor("author-2", "Robert Martin")
	err := s.Authors.Update(ctx, "author-2", stolen)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// The loser's original index entry must survive the failed update.
	got, err := s.Authors.GetByIndex(ctx, "name", "Martin Fowler")
	require.NoError(t, err)
	assert.Equal(t, "author-2", got.ID)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Authors.Update(context.Background(), "author-missing", newAuthor("author-missing", "Nobody"))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEntity_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"Robert Martin", "Martin Fowler", "Sandi Metz"}
	for i, name := range names {
		id := string(rune('a' + i))
		require.NoError(t, s.Authors.Create(ctx, "author-"+id, newAuthor("author-"+id, name)))
	}

	var listed []string
	for author, err := range s.Authors.List(ctx) {
		require.NoError(t, err)
		listed = append(listed, author.Name)
	}

	// Index keys must not leak into the listing.
	assert.ElementsMatch(t, names, listed)
}

func TestEntity_List_StopEarly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"author-1", "author-2", "author-3"} {
		require.NoError(t, s.Authors.Create(ctx, id, newAuthor(id, "Name "+id)))
	}

	count := 0
	for _, err := range s.Authors.List(ctx) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestStore_UserUsernameIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{Username: "mluukkai", FavoriteGenre: "refactoring"}
	user.ID = "user-1"
	user.InitTimestamps()
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	dup := &domain.User{Username: "mluukkai"}
	dup.ID = "user-2"
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	got, err := s.Users.GetByIndex(ctx, "username", "mluukkai")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "refactoring", got.FavoriteGenre)
}
