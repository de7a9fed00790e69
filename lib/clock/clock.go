// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package clock implements the per-root monotonic tick counter. Every
// structural or content change to the tree first moves the counter
// forward with Advance, then is stamped with the new value Advance
// returns, so a just-stamped file's tick equals Read(); Read never blocks
// and may be called concurrently with a single in-flight Advance under the
// root's write lock.
package clock

import "sync/atomic"

// Tick is a per-root monotonic counter. The zero value starts at 0, the
// value before any mutation has been observed.
type Tick struct {
	v atomic.Uint32
}

// Advance increments the counter and returns the new value. Only the
// ingestion writer, holding the root's exclusive lock, may call Advance.
func (t *Tick) Advance() uint32 {
	return t.v.Add(1)
}

// Read returns the current value. Safe to call from any number of
// concurrent readers.
func (t *Tick) Read() uint32 {
	return t.v.Load()
}
