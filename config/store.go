package config

import "sync/atomic"

// Store is a concurrency-safe handle to an Options record.
//
// Readers get a copy of the latest published record; writers apply a
// mutation to a private copy and publish it atomically. Concurrent writers
// are serialized by compare-and-swap retries.
type Store struct {
	cur atomic.Pointer[Options]
}

// NewStore returns a Store holding a copy of initial.
func NewStore(initial Options) *Store {
	s := &Store{}
	s.cur.Store(&initial)

	return s
}

// Snapshot returns a copy of the current options.
func (s *Store) Snapshot() Options {
	return *s.cur.Load()
}

// Update applies fn to a copy of the current options and publishes the result.
// If fn returns an error the store is left unchanged and the error is returned.
func (s *Store) Update(fn func(*Options) error) error {
	for {
		old := s.cur.Load()
		next := *old

		if err := fn(&next); err != nil {
			return err
		}

		if s.cur.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Replace publishes o as the current options.
func (s *Store) Replace(o Options) {
	s.cur.Store(&o)
}
