package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// maxTxnRetries bounds how often Mutate retries after badger.ErrConflict.
const maxTxnRetries = 64

// Entity provides generic CRUD operations for any document type.
type Entity[T any] struct {
	store    *BadgerStore
	prefix   string
	indexes  []Index[T]
	notFound *Error
}

// Index defines a secondary index on an entity.
// Unique indexes map one value to one id and reject duplicates.
// Non-unique indexes store one key per (value, id) pair.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
	unique          bool
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *BadgerStore, prefix string) *Entity[T] {
	return &Entity[T]{
		store:    s,
		prefix:   prefix,
		notFound: ErrNotFound,
	}
}

// WithNotFound sets the error returned when a document is missing.
func (e *Entity[T]) WithNotFound(err *Error) *Entity[T] {
	e.notFound = err
	return e
}

// WithIndex adds a non-unique secondary index.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

// WithUniqueIndex adds a unique secondary index. lookupTransform, if not nil,
// is applied to values passed to GetByIndex.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
		unique:          true,
	})
	return e
}

func (idx Index[T]) entryKey(prefix, value, id string) []byte {
	if idx.unique {
		return indexKey(prefix, idx.name, value)
	}
	return indexKey(prefix, idx.name, value+":"+id)
}

// Create stores a new document.
// Returns ErrAlreadyExists if the id or a unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(entityKey(e.prefix, id))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		if err := e.checkUnique(txn, id, nil, entity); err != nil {
			return err
		}
		if err := txn.Set(entityKey(e.prefix, id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.setIndexes(txn, id, entity)
	})
}

// Get retrieves a document by id.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = e.getTxn(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByIndex retrieves a document through a unique index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(e.prefix, indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return e.notFound
		}
		if err != nil {
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

// ListByIndex returns every document whose non-unique index holds value.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := indexKey(e.prefix, indexName, value+":")
	var out []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndex(txn, prefix)
		if err != nil {
			return err
		}

		for _, id := range ids {
			entity, err := e.getTxn(txn, id)
			if errors.Is(err, e.notFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Mutate applies fn to the stored document and persists the result in one
// transaction. If fn returns an error nothing is written and the error is
// returned unchanged. fn may run more than once when a concurrent writer
// touches the same document, so it must only modify its argument.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	for range maxTxnRetries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var result *T
		err := e.store.db.Update(func(txn *badger.Txn) error {
			old, err := e.getTxn(txn, id)
			if err != nil {
				return err
			}
			// Decode a second copy so fn cannot alias the index baseline.
			next, err := e.getTxn(txn, id)
			if err != nil {
				return err
			}

			if err := fn(next); err != nil {
				return err
			}

			data, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("failed to marshal entity: %w", err)
			}
			if err := e.deleteIndexes(txn, id, old); err != nil {
				return err
			}
			if err := e.checkUnique(txn, id, old, next); err != nil {
				return err
			}
			if err := txn.Set(entityKey(e.prefix, id), data); err != nil {
				return fmt.Errorf("failed to set key: %w", err)
			}
			if err := e.setIndexes(txn, id, next); err != nil {
				return err
			}
			result = next
			return nil
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrTooManyRetries
}

// Delete removes a document and its index entries.
// Returns the entity's not-found error if it does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		entity, err := e.getTxn(txn, id)
		if err != nil {
			return err
		}
		if err := e.deleteIndexes(txn, id, entity); err != nil {
			return err
		}
		if err := txn.Delete(entityKey(e.prefix, id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
}

// List returns an iterator over all documents.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
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

				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], idxSegment) {
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
					return nil
				}
			}
			return nil
		})
	}
}

// Collect drains List into a slice.
func (e *Entity[T]) Collect(ctx context.Context) ([]*T, error) {
	var out []*T
	for entity, err := range e.List(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// scanIndex returns the ids stored under an index prefix.
func scanIndex(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (e *Entity[T]) getTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(entityKey(e.prefix, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, e.notFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// checkUnique rejects unique index values already held by another document.
// old may be nil on create.
func (e *Entity[T]) checkUnique(txn *badger.Txn, id string, old, entity *T) error {
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		held := make(map[string]bool)
		if old != nil {
			for _, v := range idx.keyGen(old) {
				held[v] = true
			}
		}
		for _, v := range idx.keyGen(entity) {
			if held[v] {
				continue
			}
			_, err := txn.Get(idx.entryKey(e.prefix, v, id))
			if err == nil {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, v, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) setIndexes(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, v := range idx.keyGen(entity) {
			if err := txn.Set(idx.entryKey(e.prefix, v, id), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexes(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, v := range idx.keyGen(entity) {
			if err := txn.Delete(idx.entryKey(e.prefix, v, id)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}
