package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinetag/cinetag-server/internal/domain"
)

// BadgerStore is the Badger-backed document store.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	Users *Entity[domain.User]
	Posts *Entity[domain.Post]
}

var _ Store = (*BadgerStore)(nil)

// New opens (or creates) a Badger database at path.
func New(path string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		logger: logger,
	}
	s.initUsers()
	s.initPosts()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection. Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Ping reports whether the database is usable.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// initUsers indexes users by lowercased email.
func (s *BadgerStore) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithNotFound(ErrUserNotFound).
		WithUniqueIndex("email",
			func(u *domain.User) []string {
				return []string{domain.NormalizeEmail(u.Email)}
			},
			domain.NormalizeEmail,
		)
}

// initPosts indexes posts by owner for the "my posts" listing.
func (s *BadgerStore) initPosts() {
	s.Posts = NewEntity[domain.Post](s, postPrefix).
		WithNotFound(ErrPostNotFound).
		WithIndex("owner", func(p *domain.Post) []string {
			return []string{p.OwnerID}
		})
}
