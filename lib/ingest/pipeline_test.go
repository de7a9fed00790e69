// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/watch"
)

// stubBackend implements watch.Backend without touching any real OS
// notification API, for tests that only exercise the crawl and
// processEntry paths directly.
type stubBackend struct{}

func (stubBackend) StartWatchDir(string) (watch.DirHandle, error) { return nil, nil }
func (stubBackend) StopWatchDir(watch.DirHandle)                  {}
func (stubBackend) StartWatchFile(string) error                   { return nil }
func (stubBackend) ConsumeNotify() (watch.PendingCollection, error) {
	return nil, nil
}
func (stubBackend) WaitNotify(time.Duration) bool { return false }
func (stubBackend) Cancelled() bool               { return false }
func (stubBackend) Close()                        {}

func newTestRoot(t *testing.T, dir string) *root.Root {
	t.Helper()
	return root.New(1, "test", dir, true, stubBackend{})
}

func TestCrawlPopulatesTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "top.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "nested.go"), []byte("package x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRoot(t, dir)
	p := NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	topID, ok := r.Tree.ChildFile(r.Tree.RootID(), "top.txt")
	if !ok {
		t.Fatal("top.txt not found after crawl")
	}
	if !r.Tree.File(topID).Exists {
		t.Error("top.txt should exist")
	}

	subID, ok := r.Tree.ChildDir(r.Tree.RootID(), "sub")
	if !ok {
		t.Fatal("sub directory not found after crawl")
	}
	nestedID, ok := r.Tree.ChildFile(subID, "nested.go")
	if !ok {
		t.Fatal("sub/nested.go not found after crawl")
	}
	if got := r.Tree.WholeName(nestedID); got != "sub/nested.go" {
		t.Errorf("WholeName = %q, want sub/nested.go", got)
	}
}

func TestRecrawlDropsDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "gone.txt")
	if err := os.WriteFile(victim, []byte("bye"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRoot(t, dir)
	p := NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	fid, ok := r.Tree.ChildFile(r.Tree.RootID(), "gone.txt")
	if !ok || !r.Tree.File(fid).Exists {
		t.Fatal("gone.txt should exist after first crawl")
	}

	if err := os.Remove(victim); err != nil {
		t.Fatal(err)
	}
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("second Crawl: %v", err)
	}

	if r.Tree.File(fid).Exists {
		t.Error("gone.txt should be marked non-existent after recrawl")
	}
}

func TestCrawlAssignsDistinctTicksPerFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	names := []string{"a.txt", "b.txt", "sub/c.txt"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := newTestRoot(t, dir)
	p := NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	subID, ok := r.Tree.ChildDir(r.Tree.RootID(), "sub")
	if !ok {
		t.Fatal("sub directory not found after crawl")
	}

	aID, _ := r.Tree.ChildFile(r.Tree.RootID(), "a.txt")
	bID, _ := r.Tree.ChildFile(r.Tree.RootID(), "b.txt")
	cID, _ := r.Tree.ChildFile(subID, "c.txt")

	ticks := map[string]uint32{
		"a.txt":     r.Tree.File(aID).OTime.Tick,
		"b.txt":     r.Tree.File(bID).OTime.Tick,
		"sub/c.txt": r.Tree.File(cID).OTime.Tick,
	}
	seen := make(map[uint32]string, len(ticks))
	for name, tick := range ticks {
		if prior, ok := seen[tick]; ok {
			t.Errorf("files %s and %s share tick %d, a single crawl must give every file mutation its own tick", prior, name, tick)
		}
		seen[tick] = name
	}
}

func TestProcessEntryHandlesMissingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ephemeral.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRoot(t, dir)
	p := NewPipeline(r)
	if err := p.Crawl(context.Background()); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	entry := watch.PendingEntry{Path: path, ObservedAt: time.Now()}
	if err := p.processEntry(context.Background(), entry); err != nil {
		t.Fatalf("processEntry: %v", err)
	}

	fid, ok := r.Tree.ChildFile(r.Tree.RootID(), "ephemeral.txt")
	if !ok {
		t.Fatal("file record should still exist, tombstoned")
	}
	if r.Tree.File(fid).Exists {
		t.Error("file should be marked non-existent")
	}
}
