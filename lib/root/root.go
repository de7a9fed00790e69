// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package root wires together the per-root components named throughout
// the rest of the module — tree store, tick clock, lock manager, cursor
// store, and watcher backend — into the single object the ingestion
// pipeline, the query orchestrator, and the age-out reaper all operate
// on. Nothing in this package does any work of its own; it exists so
// those three never have to agree out-of-band on which tree belongs with
// which clock.
package root

import (
	"sync/atomic"

	"github.com/watchtree/watchtree/lib/clock"
	"github.com/watchtree/watchtree/lib/cursor"
	"github.com/watchtree/watchtree/lib/lockmgr"
	"github.com/watchtree/watchtree/lib/treeview"
	"github.com/watchtree/watchtree/lib/watch"
)

// Root is one watched directory tree and everything that observes or
// queries it.
type Root struct {
	// Number is a small stable identifier distinguishing this root from
	// others in the same process; it is stamped onto every RuleMatch a
	// query returns, per the watchman rule_match root_number field.
	Number uint32
	Name   string
	Path   string

	Tree    *treeview.Tree
	Clock   *clock.Tick
	Lock    *lockmgr.Lock
	Cursors *cursor.Store
	Backend watch.Backend

	cancelled atomic.Bool
}

// New constructs a Root backed by an empty tree. Callers are expected to
// populate it via an initial crawl before serving queries against it.
func New(number uint32, name, path string, caseSensitive bool, backend watch.Backend) *Root {
	return &Root{
		Number:  number,
		Name:    name,
		Path:    path,
		Tree:    treeview.New(caseSensitive),
		Clock:   &clock.Tick{},
		Lock:    lockmgr.New(),
		Cursors: cursor.NewStore(),
		Backend: backend,
	}
}

// Cancel marks the root cancelled: the lock manager starts failing new
// acquisitions with lockmgr.ErrCancelled, and any supervised service
// loop watching Cancelled should exit without restarting. Idempotent.
func (r *Root) Cancel() {
	if r.cancelled.CompareAndSwap(false, true) {
		r.Lock.Cancel()
	}
}

// Cancelled reports whether Cancel has been called.
func (r *Root) Cancelled() bool { return r.cancelled.Load() }
