// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"context"
	"time"

	"github.com/watchtree/watchtree/lib/cutoff"
	"github.com/watchtree/watchtree/lib/logger"
	"github.com/watchtree/watchtree/lib/metrics"
	"github.com/watchtree/watchtree/lib/query/gen"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/treeview"
)

var l = logger.Default.NewFacility("query")

// ExecuteQuery is the query orchestrator: it resolves the since-spec,
// acquires the root's shared lock, selects a generator by the documented
// precedence, evaluates the expression per candidate, dedupes, and
// returns matches plus the tick the view was at.
//
//  1. paths non-empty -> path_generator
//  2. else glob present -> glob_generator
//  3. else suffixes non-empty -> suffix_generator
//  4. else since-spec present -> time_generator
//  5. else -> all_files_generator
func ExecuteQuery(ctx context.Context, r *root.Root, raw []byte) (*Result, error) {
	pq, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	since, isFresh, cursorName, err := resolveSince(r, pq.SinceSpec)
	if err != nil {
		return nil, err
	}
	if isFresh && pq.EmptyOnFreshInstance {
		return &Result{IsFreshInstance: true, Ticks: r.Clock.Read()}, nil
	}

	lockCtx := ctx
	if pq.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, pq.LockTimeout)
		defer cancel()
	}
	unlock, err := r.Lock.RLock(lockCtx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	generator, kind := selectGenerator(pq, since)
	qctx := newContext(r.Tree, since, pq.DedupResults)

	start := time.Now()
	process := func(id treeview.FileID) bool {
		return processFile(r, pq, qctx, id)
	}
	walked := generator.Generate(r.Tree, process)
	metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.GeneratorWalked.WithLabelValues(kind).Add(float64(walked))
	metrics.QueryMatched.WithLabelValues(kind).Add(float64(len(qctx.results)))

	result := &Result{
		IsFreshInstance: isFresh,
		Files:           qctx.results,
		Ticks:           r.Clock.Read(),
		NumDeduped:      qctx.numDeduped,
	}

	if cursorName != "" {
		r.Cursors.Set(cursorName, result.Ticks)
	}

	l.Debugf("query on %s: generator=%s walked=%d matched=%d deduped=%d fresh=%v",
		r.Name, kind, walked, len(result.Files), result.NumDeduped, result.IsFreshInstance)

	return result, nil
}

// processFile implements w_query_process_file: the relative-root filter,
// then the expression, then dedup, then accumulation.
func processFile(r *root.Root, pq *Parsed, qctx *queryContext, id treeview.FileID) bool {
	f := r.Tree.File(id)
	wholename := qctx.WholeName(id)

	if !r.Tree.UnderRelativeRoot(wholename, pq.RelativeRoot) {
		return true
	}
	if !pq.Expr.Evaluate(qctx, f) {
		return true
	}
	if pq.DedupResults {
		if _, seen := qctx.dedup[wholename]; seen {
			qctx.numDeduped++
			return true
		}
		qctx.dedup[wholename] = struct{}{}
	}

	relName := wholename
	if pq.RelativeRoot != "" {
		relName = trimRelativeRoot(wholename, pq.RelativeRoot)
	}

	qctx.results = append(qctx.results, RuleMatch{
		RootNumber: r.Number,
		RelName:    relName,
		IsNew:      qctx.since.NewerThan(f.CTime),
		FileID:     id,
	})
	return true
}

func trimRelativeRoot(wholename, relroot string) string {
	if wholename == relroot {
		return ""
	}
	if len(wholename) > len(relroot)+1 {
		return wholename[len(relroot)+1:]
	}
	return wholename
}

// resolveSince resolves a raw since string against the root's current
// state. It reports the cutoff, whether the query is a fresh instance
// (its since-point precedes the last age-out), and the cursor name to
// update once the final tick is known, if the since-spec was a named
// cursor.
func resolveSince(r *root.Root, raw string) (cutoff.Cut, bool, string, error) {
	if raw == "" {
		return cutoff.Cut{}, false, "", nil
	}
	cs, err := ParseClockSpec(raw)
	if err != nil {
		return cutoff.Cut{}, false, "", &ParseError{Err: err}
	}
	switch cs.Kind {
	case ClockTimestamp:
		ts := cs.Timestamp
		return cutoff.Cut{Timestamp: &ts}, false, "", nil
	case ClockTick:
		tick := cs.Tick
		fresh := tick < r.Tree.LastAgeOutTick
		return cutoff.Cut{Tick: &tick}, fresh, "", nil
	case ClockCursor:
		tick, _ := r.Cursors.Get(cs.CursorName)
		fresh := tick < r.Tree.LastAgeOutTick
		return cutoff.Cut{Tick: &tick}, fresh, cs.CursorName, nil
	default:
		return cutoff.Cut{}, false, "", nil
	}
}

// selectGenerator implements the documented generator-selection
// precedence and returns a label identifying which one was picked, for
// metrics and logging.
func selectGenerator(pq *Parsed, since cutoff.Cut) (gen.Generator, string) {
	switch {
	case len(pq.Paths) > 0:
		return gen.PathGenerator{Paths: pq.Paths}, "path"
	case pq.GlobTree != nil:
		return gen.GlobGenerator{Tree: pq.GlobTree, CaseSensitive: pq.CaseSensitive}, "glob"
	case len(pq.Suffixes) > 0:
		return gen.SuffixGenerator{Suffixes: pq.Suffixes}, "suffix"
	case pq.SinceSpec != "":
		return gen.TimeGenerator{Since: since}, "time"
	default:
		return gen.AllFilesGenerator{}, "all_files"
	}
}
