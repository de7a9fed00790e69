// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cutoff defines the since-point comparison a query is evaluated
// against: either a tick value or a wall-clock timestamp, never both. It
// is a leaf package so that both the generators and the expression
// evaluator can depend on it without creating an import cycle with the
// query package that resolves clockspecs into one.
package cutoff

import (
	"time"

	"github.com/watchtree/watchtree/lib/treeview"
)

// Cut is a resolved since-point. The zero value compares as "since the
// beginning of time" (tick 0).
type Cut struct {
	Tick      *uint32
	Timestamp *time.Time
}

// OlderThan reports whether ot lies strictly before the cut point. Used
// by the time generator to find where to stop walking the recency list.
func (c Cut) OlderThan(ot treeview.OTime) bool {
	if c.Timestamp != nil {
		return ot.Timestamp.Before(*c.Timestamp)
	}
	return ot.Tick < c.tick()
}

// NewerThan reports whether ot lies strictly after the cut point. Used
// both for the is_new determination and the since expression leaf.
func (c Cut) NewerThan(ot treeview.OTime) bool {
	if c.Timestamp != nil {
		return ot.Timestamp.After(*c.Timestamp)
	}
	return ot.Tick > c.tick()
}

func (c Cut) tick() uint32 {
	if c.Tick == nil {
		return 0
	}
	return *c.Tick
}
