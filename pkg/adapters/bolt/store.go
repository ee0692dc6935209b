// Package bolt hosts asset user data in a bbolt database.
//
// Each asset is a key in the "userdata" bucket whose value is the user data
// string. Silent writes are staged on the Asset value; a commit persists the
// staged string in one update transaction and then runs the reprocessor.
package bolt

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	"go.etcd.io/bbolt"

	"github.com/aretw0/metafile/pkg/core"
)

var bucketUserData = []byte("userdata")

// Store is a bbolt-backed asset host.
type Store struct {
	db          *bbolt.DB
	path        string
	logger      *slog.Logger
	readOnly    bool
	reprocessor func(ctx context.Context, name string) error

	commits atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithReadOnly opens the database read-only. The file must already exist.
func WithReadOnly(readOnly bool) Option {
	return func(s *Store) {
		s.readOnly = readOnly
	}
}

// WithReprocessor sets the hook run after each asset commit.
func WithReprocessor(fn func(ctx context.Context, name string) error) Option {
	return func(s *Store) {
		s.reprocessor = fn
	}
}

// Open opens (or creates) the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: s.readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db

	if !s.readOnly {
		err := db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketUserData)
			return err
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating bucket %s: %w", bucketUserData, err)
		}
	}

	s.logger.Debug("opened user data store", "path", path, "readOnly", s.readOnly)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing user data store")
	return s.db.Close()
}

// Asset loads the user data of name. Unknown names start with an empty field.
func (s *Store) Asset(ctx context.Context, name string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty asset name", core.ErrAssetNotFound)
	}

	data, _, err := s.get(name)
	if err != nil {
		return nil, err
	}
	return &Asset{store: s, name: name, userData: data}, nil
}

// Names returns the names of all stored assets in key order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUserData)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *Store) get(name string) (string, bool, error) {
	var (
		data  string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUserData)
		if bucket == nil {
			return nil
		}
		if val := bucket.Get([]byte(name)); val != nil {
			data = string(val) // copies out of the mmap
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, found, nil
}

func (s *Store) put(ctx context.Context, name, data string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		bucket := tx.Bucket(bucketUserData)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", bucketUserData)
		}
		return bucket.Put([]byte(name), []byte(data))
	})
}

func (s *Store) reprocess(ctx context.Context, name string) error {
	s.commits.Add(1)
	s.logger.Debug("reprocessing asset", "asset", name)
	if s.reprocessor == nil {
		return nil
	}
	if err := s.reprocessor(ctx, name); err != nil {
		return fmt.Errorf("reprocess %s: %w", name, err)
	}
	return nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Commits  int64  `json:"commits"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:     s.path,
		ReadOnly: s.readOnly,
		Commits:  s.commits.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "bolt-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
