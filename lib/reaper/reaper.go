// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reaper implements the age-out pass: periodically, under a
// root's exclusive lock, it walks the recency list from its oldest end
// and evicts tombstoned files that have sat deleted for longer than a
// minimum age, then prunes any directory the eviction left empty.
package reaper

import (
	"context"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/watchtree/watchtree/lib/logger"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/svcutil"
	"github.com/watchtree/watchtree/lib/treeview"
)

var l = logger.Default.NewFacility("reaper")

// evictedCounter meters files evicted per pass across all reapers in the
// process, mirroring the ingestion pipeline's use of rcrowley/go-metrics
// for throughput nothing outside the process consumes.
var evictedCounter = metrics.NewCounter()

// Reaper periodically ages out one root's tombstoned files.
type Reaper struct {
	Root     *root.Root
	MinAge   time.Duration
	Interval time.Duration
}

// New returns a Reaper for r with the given minimum tombstone age and
// pass interval.
func New(r *root.Root, minAge, interval time.Duration) *Reaper {
	return &Reaper{Root: r, MinAge: minAge, Interval: interval}
}

// Serve implements suture.Service: it runs AgeOut on Interval until ctx
// is done or the root is cancelled.
func (rp *Reaper) Serve(ctx context.Context) error {
	t := time.NewTicker(rp.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if rp.Root.Cancelled() {
				return svcutil.NoRestartErr(nil)
			}
			if err := rp.AgeOut(ctx, now); err != nil {
				return err
			}
		}
	}
}

// AgeOut runs one age-out pass under the root's exclusive lock. It walks
// the recency list from the tail, stopping at the first file that either
// still exists or has not been tombstoned for longer than MinAge — the
// list is ordered by touch time, not by tombstone age, so a single
// survivor ends the pass rather than being skipped over.
func (rp *Reaper) AgeOut(ctx context.Context, now time.Time) error {
	unlock, err := rp.Root.Lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	t := rp.Root.Tree
	var candidateDirs []treeview.DirID
	evicted := 0

	for id := t.RecencyTail(); id != 0; id = t.RecencyTail() {
		f := t.File(id)
		if f.Exists || now.Sub(f.OTime.Timestamp) <= rp.MinAge {
			break
		}
		parent := f.Parent
		t.UnlinkFile(id)
		candidateDirs = append(candidateDirs, parent)
		evicted++
	}

	for _, dirID := range candidateDirs {
		rp.pruneUp(t, dirID)
	}

	t.LastAgeOutTick = rp.Root.Clock.Read()
	t.LastAgeOutTimestamp = now

	if evicted > 0 {
		evictedCounter.Inc(int64(evicted))
		l.Debugf("root %s: aged out %d files", rp.Root.Name, evicted)
	}
	return nil
}

// pruneUp removes dirID and, transitively, any ancestor left empty and
// not currently believed to exist on disk.
func (rp *Reaper) pruneUp(t *treeview.Tree, dirID treeview.DirID) {
	for dirID != 0 {
		d := t.Dir(dirID)
		if d == nil {
			return
		}
		parent := d.Parent
		if !t.UnlinkEmptyDir(dirID) {
			return
		}
		dirID = parent
	}
}
