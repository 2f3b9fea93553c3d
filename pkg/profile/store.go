package profile

import (
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mterp.profile")

// Store persists method hotness counts in a pebble database.
type Store struct {
	db    *pebble.DB
	batch *pebble.Batch // open transaction, if any
}

// Open opens or creates the profile database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening profile %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Get reads key, through the open transaction when there is one.
func (s *Store) Get(key []byte) ([]byte, io.Closer, error) {
	if s.batch != nil {
		return s.batch.Get(key)
	}
	return s.db.Get(key)
}

func (s *Store) Set(key, value []byte) error {
	if s.batch != nil {
		return s.batch.Set(key, value, nil)
	}
	return s.db.Set(key, value, pebble.Sync)
}

func (s *Store) Delete(key []byte) error {
	if s.batch != nil {
		return s.batch.Delete(key, nil)
	}
	return s.db.Delete(key, pebble.Sync)
}

// NewIter iterates the database merged with any uncommitted writes.
func (s *Store) NewIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	if s.batch != nil {
		return s.batch.NewIter(opts)
	}
	return s.db.NewIter(opts)
}

func (s *Store) BeginTransaction() error {
	if s.batch != nil {
		return fmt.Errorf("transaction already in progress")
	}
	s.batch = s.db.NewIndexedBatch()
	return nil
}

func (s *Store) CommitTransaction() error {
	if s.batch == nil {
		return fmt.Errorf("no transaction in progress")
	}
	err := s.batch.Commit(pebble.Sync)
	s.batch.Close()
	s.batch = nil
	return err
}

func (s *Store) RollbackTransaction() error {
	if s.batch == nil {
		return fmt.Errorf("no transaction in progress")
	}
	s.batch.Close()
	s.batch = nil
	return nil
}

func (s *Store) Close() error {
	if s.batch != nil {
		s.batch.Close()
		s.batch = nil
	}
	return s.db.Close()
}
