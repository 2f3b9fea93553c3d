package profile

import (
	"sort"
	"sync"
	"time"

	"mterp/pkg/dex"
	"mterp/pkg/interp"
)

const defaultFlushInterval = 5 * time.Second

// Saver collects hot-method reports from interpreter threads and writes
// them to a Store, one transaction per flush. It is an
// interp.HotMethodListener and may be shared by every thread of a VM.
type Saver struct {
	store    *Store
	program  [32]byte
	interval time.Duration

	mu      sync.Mutex
	pending map[string]uint64

	flushMu sync.Mutex
	stop    chan struct{}
	done    chan struct{}
}

var _ interp.HotMethodListener = (*Saver)(nil)

func NewSaver(store *Store, program [32]byte, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	return &Saver{
		store:    store,
		program:  program,
		interval: interval,
		pending:  make(map[string]uint64),
	}
}

// MethodHot records that method ran through its branch budget once more.
func (s *Saver) MethodHot(_ *interp.Thread, method *dex.Method, branches int32) {
	s.mu.Lock()
	s.pending[method.String()] += uint64(branches)
	s.mu.Unlock()
}

// Start flushes in the background every interval until Close.
func (s *Saver) Start() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Flush(); err != nil {
					log.Errorf("profile flush: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Flush writes everything reported since the last flush.
func (s *Saver) Flush() error {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[string]uint64)
	s.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if err := s.store.BeginTransaction(); err != nil {
		return err
	}
	for _, name := range names {
		if err := s.store.Add(s.program, name, pending[name]); err != nil {
			s.store.RollbackTransaction()
			return err
		}
	}
	if err := s.store.CommitTransaction(); err != nil {
		return err
	}
	log.Debugf("flushed %d hot methods", len(names))
	return nil
}

// Close stops the background flusher and writes what is left.
func (s *Saver) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return s.Flush()
}
