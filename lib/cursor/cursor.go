// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cursor implements the named-cursor store a since-spec of the
// form "n:<name>" resolves against: the tick a query executed under that
// name last returned, so a client can say "since my last look" without
// carrying an explicit clock value between calls.
package cursor

import "github.com/watchtree/watchtree/lib/syncutil"

// Store maps cursor names to the tick they last resolved to. The zero
// Store is not usable; construct with NewStore.
type Store struct {
	mut   syncutil.Mutex
	ticks map[string]uint32
}

// NewStore returns an empty cursor store.
func NewStore() *Store {
	return &Store{mut: syncutil.NewMutex(), ticks: make(map[string]uint32)}
}

// Get returns the tick last recorded under name, and whether the cursor
// has ever been seen. An unseen cursor resolves to tick 0, which a
// fresh-instance check against a nonzero last-age-out tick will
// correctly treat as stale.
func (s *Store) Get(name string) (uint32, bool) {
	s.mut.Lock()
	defer s.mut.Unlock()
	t, ok := s.ticks[name]
	return t, ok
}

// Set records the tick a query executed under name most recently
// resolved to, for the next caller using the same name.
func (s *Store) Set(name string, tick uint32) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.ticks[name] = tick
}
