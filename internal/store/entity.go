package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary index on an entity. Index keys are unique: two
// entities may never produce the same key, which is how the catalog enforces
// unique author names, book titles, and usernames.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a secondary index to the entity.
// Lookups are exact and case-sensitive.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

func (e *Entity[T]) indexKey(idx Index[T], value string) []byte {
	return []byte(e.prefix + "idx:" + idx.name + ":" + value)
}

// Create creates a new entity with the given ID.
// Returns an ALREADY_EXISTS error if the ID or any index key is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return domainerrors.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Index conflicts surface before anything is written so the
		// transaction stays clean.
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				_, err := txn.Get(e.indexKey(idx, indexKey))
				if err == nil {
					return domainerrors.AlreadyExistsf("%s %q already in use", idx.name, indexKey)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx, indexKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns a NOT_FOUND error if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domainerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by secondary index value.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + value)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domainerrors.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity, moving any index keys that changed.
// Returns a NOT_FOUND error if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Load the previous version to clean up stale index keys.
		var oldEntity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domainerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &oldEntity); err != nil {
				return fmt.Errorf("failed to unmarshal old entity: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(&oldEntity) {
				if err := txn.Delete(e.indexKey(idx, indexKey)); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}

		// Check for conflicts on index keys the old version did not own.
		for _, idx := range e.indexes {
			oldKeys := make(map[string]bool)
			for _, k := range idx.keyGen(&oldEntity) {
				oldKeys[k] = true
			}

			for _, indexKey := range idx.keyGen(entity) {
				if oldKeys[indexKey] {
					continue
				}

				_, err := txn.Get(e.indexKey(idx, indexKey))
				if err == nil {
					return domainerrors.AlreadyExistsf("%s %q already in use", idx.name, indexKey)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx, indexKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// List returns an iterator over all entities in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors are delivered through the iterator.
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}
