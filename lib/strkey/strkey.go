// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package strkey implements the shared, reference-counted path keys used
// as map keys throughout the tree store. Case sensitivity is a property of
// the root that owns a key, never of the key itself: two keys compare
// byte-exact with Equal, and fold-compare with EqualFold for
// case-insensitive roots.
package strkey

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/puzpuzpuz/xsync/v3"
)

// Key is an immutable, shared byte string. The zero Key is not valid; use
// Intern to obtain one.
type Key struct {
	s    string
	refs *atomic.Int64
}

var pool = xsync.NewMapOf[string, *entry]()

type entry struct {
	refs atomic.Int64
}

// Intern returns the shared Key for s, creating and refcounting an entry
// in the process-wide intern table on first use. Comparisons on the
// returned Key are O(len(s)); the hash of the underlying string is stable
// for the lifetime of the process.
func Intern(s string) Key {
	e, _ := pool.LoadOrCompute(s, func() *entry { return &entry{} })
	e.refs.Add(1)
	return Key{s: s, refs: &e.refs}
}

// Release decrements the shared refcount for k. It is safe, but not
// required, to call Release more than once accounting purposes only — the
// intern table never evicts live strings, so Release is advisory and used
// only for diagnostics (live key counts), matching the donor's own policy
// of never reproducing true refcount-driven deallocation on this hot path.
func (k Key) Release() {
	if k.refs != nil {
		k.refs.Add(-1)
	}
}

// Join concatenates a parent key and a leaf name with the given separator,
// returning a new interned Key.
func Join(sep byte, parent, leaf string) Key {
	if parent == "" {
		return Intern(leaf)
	}
	buf := make([]byte, 0, len(parent)+1+len(leaf))
	buf = append(buf, parent...)
	buf = append(buf, sep)
	buf = append(buf, leaf...)
	return Intern(string(buf))
}

// String returns the underlying bytes as a string.
func (k Key) String() string { return k.s }

// Len returns the byte length of the key.
func (k Key) Len() int { return len(k.s) }

// Equal reports byte-exact equality.
func (k Key) Equal(o Key) bool { return k.s == o.s }

// EqualFold reports case-folded equality; used only when the owning root
// is configured case-insensitive.
func (k Key) EqualFold(o Key) bool { return strings.EqualFold(k.s, o.s) }

// Less provides a total order over keys, used for stable iteration in
// tests.
func (k Key) Less(o Key) bool { return k.s < o.s }

// FoldCache caches the lowercased form of directory names for
// case-insensitive roots, avoiding repeated allocation on every lookup —
// the same role the donor's own directory-name cache plays for its
// case-preserving filesystem layer.
type FoldCache struct {
	cache *lru.Cache[string, string]
}

// NewFoldCache creates a cache holding up to size folded names.
func NewFoldCache(size int) *FoldCache {
	c, _ := lru.New[string, string](size)
	return &FoldCache{cache: c}
}

// Fold returns the lowercase form of s, consulting and populating the
// cache.
func (f *FoldCache) Fold(s string) string {
	if v, ok := f.cache.Get(s); ok {
		return v
	}
	v := strings.ToLower(s)
	f.cache.Add(s, v)
	return v
}
