package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithIDGenerator replaces the id source for collections and items.
// Tests use this to get predictable identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock replaces the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}
