// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ingest drains a watch.Backend's pending collection into a
// root's tree store: the sole writer in the concurrency model, running
// FIFO under the root's exclusive lock, one tick per applied mutation.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/watchtree/watchtree/lib/logger"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/svcutil"
	"github.com/watchtree/watchtree/lib/watch"
)

var l = logger.Default.NewFacility("ingest")

// DefaultPollInterval bounds how long Serve blocks in WaitNotify between
// checks of ctx and the root's cancellation flag.
const DefaultPollInterval = 1 * time.Second

var errBackendLost = errors.New("watch backend reported cancellation")

// Pipeline drives one root's ingestion: an initial crawl, then a
// supervised loop draining its backend's pending collection.
type Pipeline struct {
	Root         *root.Root
	Backend      watch.Backend
	PollInterval time.Duration

	rootHandle watch.DirHandle
	rate       *throughputCounter
}

// NewPipeline returns a Pipeline ready to Serve r using its own Backend.
func NewPipeline(r *root.Root) *Pipeline {
	return &Pipeline{
		Root:         r,
		Backend:      r.Backend,
		PollInterval: DefaultPollInterval,
		rate:         newThroughputCounter(),
	}
}

// Serve implements suture.Service: it performs the initial crawl, then
// loops draining the backend until ctx is done or the root is
// cancelled. An unrecoverable crawl error is wrapped as
// svcutil.RootFatalErr so the supervisor terminates the tree instead of
// restarting a service whose root no longer exists.
func (p *Pipeline) Serve(ctx context.Context) error {
	defer p.rate.Close()

	handle, err := p.Backend.StartWatchDir(p.Root.Path)
	if err != nil {
		return svcutil.AsRootFatalErr(err, svcutil.CauseWatchUnavailable)
	}
	p.rootHandle = handle
	defer p.Backend.StopWatchDir(p.rootHandle)

	if err := p.Crawl(ctx); err != nil {
		return svcutil.AsRootFatalErr(err, svcutil.CauseCrawlFailed)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Root.Cancelled() {
			return svcutil.NoRestartErr(nil)
		}
		if !p.Backend.WaitNotify(p.PollInterval) {
			continue
		}
		batch, err := p.Backend.ConsumeNotify()
		if err != nil {
			l.Warnf("root %s: consume notify: %v", p.Root.Name, err)
			continue
		}
		if err := p.processBatch(ctx, batch); err != nil {
			return err
		}
		if p.Backend.Cancelled() {
			l.Infof("root %s: watch lost, cancelling", p.Root.Name)
			p.Root.Cancel()
			return svcutil.AsRootFatalErr(errBackendLost, svcutil.CauseBackendLost)
		}
	}
}

// Crawl performs a full synchronous re-enumeration of the root from
// scratch, under the exclusive lock, advancing the tick once per file
// mutation it applies along the way. It is exported so a one-shot query
// command can populate a root without running the supervised loop.
func (p *Pipeline) Crawl(ctx context.Context) error {
	unlock, err := p.Root.Lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	now := time.Now()
	return p.enumerateDir(p.Root.Tree.RootID(), "", now, true)
}

// processBatch drains one FIFO batch entry by entry, each under its own
// lock acquisition, per the documented ingestion ordering; ticks are
// advanced per applied mutation, not per entry.
func (p *Pipeline) processBatch(ctx context.Context, batch watch.PendingCollection) error {
	for _, entry := range batch {
		if p.Root.Cancelled() {
			return svcutil.NoRestartErr(nil)
		}
		if err := p.processEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// processEntry applies one pending entry: acquire the write lock, stat
// the path, and dispatch to the file or directory case, each of which
// advances the tick once for the mutation it applies. A stat failure
// that is not ENOENT/ENOTDIR schedules a recrawl rather than
// propagating, per the ingestion error model — ingestion errors never
// surface to query callers.
func (p *Pipeline) processEntry(ctx context.Context, entry watch.PendingEntry) error {
	unlock, err := p.Root.Lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rel, ok := p.relPath(entry.Path)
	if !ok {
		return nil
	}

	now := entry.ObservedAt
	if now.IsZero() {
		now = time.Now()
	}
	p.rate.Update(1)

	info, statErr := lstat(entry.Path)
	switch {
	case statErr == nil:
		return p.applyStat(rel, entry.Path, info, now, entry.Flags)
	case isMissing(statErr):
		p.markDeleted(rel, now)
		return nil
	default:
		l.Warnf("root %s: stat %s: %v, scheduling recrawl", p.Root.Name, entry.Path, statErr)
		return p.recrawl(ctx)
	}
}

// recrawl does not acquire the write lock: it is only ever invoked from
// within processEntry's locked section, so it must not lock again. It
// performs the same tree-side work as Crawl inline, reusing the lock the
// caller already holds.
func (p *Pipeline) recrawl(ctx context.Context) error {
	now := time.Now()
	if err := p.enumerateDir(p.Root.Tree.RootID(), "", now, true); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		l.Warnf("root %s: recrawl failed: %v", p.Root.Name, err)
	}
	return nil
}
