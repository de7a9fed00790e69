// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/watchtree/watchtree/lib/ingest"
	"github.com/watchtree/watchtree/lib/query/gen"
	"github.com/watchtree/watchtree/lib/reaper"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/watch"
)

// noopBackend satisfies watch.Backend without touching any real OS
// notification API; these tests only exercise Crawl and ExecuteQuery.
type noopBackend struct{}

func (noopBackend) StartWatchDir(string) (watch.DirHandle, error) { return nil, nil }
func (noopBackend) StopWatchDir(watch.DirHandle)                  {}
func (noopBackend) StartWatchFile(string) error                   { return nil }
func (noopBackend) ConsumeNotify() (watch.PendingCollection, error) {
	return nil, nil
}
func (noopBackend) WaitNotify(time.Duration) bool { return false }
func (noopBackend) Cancelled() bool               { return false }
func (noopBackend) Close()                        {}

func newCrawledRoot(t *testing.T, dir string) *root.Root {
	t.Helper()
	r := root.New(7, "test", dir, true, noopBackend{})
	p := ingest.NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	return r
}

func runQuery(t *testing.T, r *root.Root, spec Spec) *Result {
	t.Helper()
	raw, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal spec: %v", err)
	}
	result, err := ExecuteQuery(context.Background(), r, raw)
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	return result
}

func namesOf(t *testing.T, r *root.Root, result *Result) []string {
	t.Helper()
	out := make([]string, len(result.Files))
	for i, m := range result.Files {
		out[i] = m.RelName
	}
	return out
}

// S1: a root with two .txt files, one touched after the crawl, queried by
// suffix returns both with the touched one first in recency order.
func TestScenarioS1SuffixQueryRecencyOrder(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "a")
	write(t, dir, "b.txt", "b")

	r := newCrawledRoot(t, dir)
	tickBefore := r.Clock.Read()

	// Simulate a touch notification on a.txt via a second crawl pass after
	// modifying it, which is how this view learns about changes.
	write(t, dir, "a.txt", "a-changed")
	p := ingest.NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("second Crawl: %v", err)
	}

	if r.Clock.Read() <= tickBefore {
		t.Fatal("tick must have advanced after the second crawl")
	}

	result := runQuery(t, r, Spec{Suffix: []string{"txt"}})
	names := namesOf(t, r, result)
	if len(names) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(names), names)
	}
	if names[0] != "a.txt" {
		t.Errorf("first match = %q, want a.txt (most recently touched)", names[0])
	}
}

// S2: deleting a file then querying since t0 reports it with exists=false
// and is_new=false; after age_out(0) the same since-tick returns empty and
// is_fresh_instance=false, while a since older than last_age_out_tick
// returns everything and is_fresh_instance=true.
func TestScenarioS2DeleteThenAgeOut(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "a")

	r := newCrawledRoot(t, dir)
	t0 := r.Clock.Read()

	if err := os.Remove(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatal(err)
	}
	p := ingest.NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("second Crawl: %v", err)
	}

	sinceT0 := FormatClock("7", t0)
	result := runQuery(t, r, Spec{Since: sinceT0})
	if len(result.Files) != 1 {
		t.Fatalf("expected exactly one match for a.txt, got %d", len(result.Files))
	}
	m := result.Files[0]
	f := r.Tree.File(m.FileID)
	if f.Exists {
		t.Error("a.txt should be reported as non-existent")
	}
	if m.IsNew {
		t.Error("a.txt existed before t0, so it must not be is_new")
	}

	rp := reaper.New(r, 0, time.Minute)
	if err := rp.AgeOut(context.Background(), time.Now()); err != nil {
		t.Fatalf("AgeOut: %v", err)
	}

	sinceMostRecent := FormatClock("7", r.Clock.Read())
	result2 := runQuery(t, r, Spec{Since: sinceMostRecent})
	if len(result2.Files) != 0 {
		t.Errorf("expected no matches since the most recent tick, got %d", len(result2.Files))
	}
	if result2.IsFreshInstance {
		t.Error("since=mostRecentTick must not be a fresh instance")
	}

	staleSince := FormatClock("7", 0)
	result3 := runQuery(t, r, Spec{Since: staleSince})
	if !result3.IsFreshInstance {
		t.Error("since preceding last_age_out_tick must report is_fresh_instance=true")
	}
}

// S3: path queries at unbounded and zero depth. depth -1 walks the whole
// subtree; depth 0 emits only the named directory's own file children,
// never descending into subdirectories.
func TestScenarioS3PathGeneratorDepth(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "d/sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, dir, "d/x", "x")
	write(t, dir, "d/sub/y", "y")

	r := newCrawledRoot(t, dir)

	unbounded := runQuery(t, r, Spec{Path: []gen.PathSpec{{Path: "d", Depth: -1}}})
	names := namesOf(t, r, unbounded)
	if !contains(names, "d/x") || !contains(names, "d/sub/y") {
		t.Errorf("unbounded depth query missing entries, got %v", names)
	}

	zeroDepth := runQuery(t, r, Spec{Path: []gen.PathSpec{{Path: "d", Depth: 0}}})
	zNames := namesOf(t, r, zeroDepth)
	if !contains(zNames, "d/x") {
		t.Errorf("depth 0 must still include d's own direct file children, got %v", zNames)
	}
	if contains(zNames, "d/sub/y") {
		t.Errorf("depth 0 must not descend into subdirectories, got %v", zNames)
	}
}

// S4: glob query with a doublestar pattern matches files at multiple
// depths.
func TestScenarioS4GlobDoublestar(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src/sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, dir, "src/a.c", "")
	write(t, dir, "src/b.h", "")
	write(t, dir, "src/sub/c.c", "")

	r := newCrawledRoot(t, dir)
	result := runQuery(t, r, Spec{Glob: []string{"**/*.c"}})
	names := namesOf(t, r, result)
	if !contains(names, "src/a.c") || !contains(names, "src/sub/c.c") {
		t.Errorf("glob **/*.c matches = %v, want src/a.c and src/sub/c.c", names)
	}
	if contains(names, "src/b.h") {
		t.Errorf("glob **/*.c must not match src/b.h")
	}
}

// Dedup law: with dedup_results true, no wholename repeats and
// num_deduped counts the suppressed occurrences.
func TestDedupLawSuppressesRepeats(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "a")
	write(t, dir, "b.txt", "b")

	r := newCrawledRoot(t, dir)
	// Two suffix terms that both match every .txt file force the suffix
	// generator to visit each file twice.
	result := runQuery(t, r, Spec{Suffix: []string{"txt", "TXT"}, DedupResults: true})

	seen := make(map[string]bool)
	for _, m := range result.Files {
		if seen[m.RelName] {
			t.Fatalf("wholename %q appeared more than once despite dedup_results", m.RelName)
		}
		seen[m.RelName] = true
	}
	if result.NumDeduped == 0 {
		t.Error("expected num_deduped > 0 when the same suffix is queried twice")
	}
}

func write(t *testing.T, dir, rel, contents string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
