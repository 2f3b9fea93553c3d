package profile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cockroachdb/pebble"

	"mterp/pkg/serializer"
)

// Entry is the accumulated hotness of one method.
type Entry struct {
	Method string
	Count  uint64
}

func encodeEntry(e Entry) []byte {
	var w serializer.Writer
	w.Natural(e.Count)
	w.String(e.Method)
	return w.Bytes()
}

func decodeEntry(b []byte) (Entry, error) {
	r := serializer.NewReader(b)
	e := Entry{Count: r.Natural(), Method: r.String()}
	if err := r.Err(); err != nil {
		return Entry{}, fmt.Errorf("profile entry: %w", err)
	}
	return e, nil
}

// Lookup returns the recorded count for method, zero if there is none.
func (s *Store) Lookup(program [32]byte, method string) (uint64, error) {
	value, closer, err := s.Get(MethodKey(program, method))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	e, err := decodeEntry(value)
	if err != nil {
		return 0, err
	}
	return e.Count, nil
}

// Add increases method's count by delta.
func (s *Store) Add(program [32]byte, method string, delta uint64) error {
	count, err := s.Lookup(program, method)
	if err != nil {
		return err
	}
	return s.Set(MethodKey(program, method), encodeEntry(Entry{Method: method, Count: count + delta}))
}

// Methods lists the program's methods, hottest first.
func (s *Store) Methods(program [32]byte) ([]Entry, error) {
	prefix := ProgramPrefix(program)
	iter, err := s.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		e, err := decodeEntry(iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Method < entries[j].Method
	})
	return entries, nil
}

// Reset deletes every count recorded for program.
func (s *Store) Reset(program [32]byte) error {
	prefix := ProgramPrefix(program)
	return s.db.DeleteRange(prefix, upperBound(prefix), pebble.Sync)
}
