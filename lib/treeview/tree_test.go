// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package treeview

import (
	"testing"
	"time"
)

func TestResolveCreatesIntermediateDirs(t *testing.T) {
	tr := New(true)
	dirID, ok := tr.Resolve("a/b/c", true)
	if !ok {
		t.Fatal("Resolve with create=true should never report false")
	}
	if got := tr.DirPath(dirID); got != "a/b/c" {
		t.Errorf("DirPath = %q, want a/b/c", got)
	}
	if _, ok := tr.ChildDir(tr.RootID(), "a"); !ok {
		t.Error("intermediate directory a was not materialized")
	}
}

func TestResolveWithoutCreateMissesOnFirstMissingSegment(t *testing.T) {
	tr := New(true)
	tr.Resolve("a/b", true)
	if _, ok := tr.Resolve("a/b/c/d", false); ok {
		t.Error("Resolve with create=false should fail on the first missing segment")
	}
	if _, ok := tr.Resolve("a/b", false); !ok {
		t.Error("Resolve with create=false should find an already-materialized path")
	}
}

func TestMarkFileChangedOrdersRecencyHead(t *testing.T) {
	tr := New(true)
	root := tr.RootID()
	now := time.Now()

	aID := tr.GetOrCreateChildFile(root, "a.txt", now, 1)
	tr.MarkFileChanged(aID, now, 1)

	bID := tr.GetOrCreateChildFile(root, "b.txt", now, 2)
	tr.MarkFileChanged(bID, now, 2)

	// Touching a.txt again moves it back to the head even though it was
	// created first.
	tr.MarkFileChanged(aID, now, 3)

	if tr.RecencyHead() != aID {
		t.Fatalf("RecencyHead = %v, want the file touched most recently (a.txt)", tr.RecencyHead())
	}
	if tr.RecencyNext(aID) != bID {
		t.Errorf("RecencyNext(a) = %v, want b.txt", tr.RecencyNext(aID))
	}
	if tr.RecencyNext(bID) != 0 {
		t.Errorf("RecencyNext(b) = %v, want 0 (tail)", tr.RecencyNext(bID))
	}
	if tr.RecencyTail() != bID {
		t.Errorf("RecencyTail = %v, want b.txt", tr.RecencyTail())
	}
}

func TestSuffixBucketMembership(t *testing.T) {
	tr := New(true)
	root := tr.RootID()
	now := time.Now()

	txtID := tr.GetOrCreateChildFile(root, "a.TXT", now, 1)
	tr.MarkFileChanged(txtID, now, 1)

	otherID := tr.GetOrCreateChildFile(root, "b.txt", now, 2)
	tr.MarkFileChanged(otherID, now, 2)

	noExtID := tr.GetOrCreateChildFile(root, "Makefile", now, 3)
	tr.MarkFileChanged(noExtID, now, 3)

	if got := tr.File(txtID).Suffix(); got != "txt" {
		t.Errorf("Suffix() = %q, want lowercase txt regardless of filename case", got)
	}

	var seen []FileID
	for id := tr.SuffixHead("txt"); id != 0; id = tr.SuffixNext(id) {
		seen = append(seen, id)
	}
	if len(seen) != 2 {
		t.Fatalf("suffix bucket txt has %d entries, want 2", len(seen))
	}

	if tr.File(noExtID).Suffix() != "" {
		t.Error("a file with no extension must have an empty suffix")
	}
	if tr.SuffixHead("") != 0 {
		t.Error("files with no suffix must never be linked into a suffix bucket")
	}
}

func TestMarkDirDeletedRecursiveTombstonesDescendants(t *testing.T) {
	tr := New(true)
	now := time.Now()

	subID, _ := tr.Resolve("sub", true)
	fileID := tr.GetOrCreateChildFile(subID, "x.go", now, 1)
	tr.MarkFileChanged(fileID, now, 1)
	tr.File(fileID).Exists = true

	tr.MarkDirDeleted(subID, now, 2, true)

	if tr.File(fileID).Exists {
		t.Error("file under a recursively deleted directory must be marked non-existent")
	}
	// The parent map link is left for the reaper to prune; the entity
	// itself still resolves until age-out.
	if _, ok := tr.ChildFile(subID, "x.go"); !ok {
		t.Error("MarkDirDeleted must not unlink from the parent map; that is the reaper's job")
	}
}

func TestCaseInsensitiveTreeFoldsLookups(t *testing.T) {
	tr := New(false)
	root := tr.RootID()
	now := time.Now()

	fid := tr.GetOrCreateChildFile(root, "Foo.TXT", now, 1)
	tr.MarkFileChanged(fid, now, 1)

	got, ok := tr.ChildFile(root, "foo.txt")
	if !ok || got != fid {
		t.Error("case-insensitive tree must resolve a differently-cased lookup to the same file")
	}
}

func TestUnderRelativeRootHonorsCaseSensitivity(t *testing.T) {
	sensitive := New(true)
	if sensitive.UnderRelativeRoot("SRC/a.c", "src") {
		t.Error("case-sensitive tree must not fold the relative-root comparison")
	}
	insensitive := New(false)
	if !insensitive.UnderRelativeRoot("SRC/a.c", "src") {
		t.Error("case-insensitive tree must fold the relative-root comparison")
	}
	if !insensitive.UnderRelativeRoot("src", "src") {
		t.Error("a wholename equal to the relative root itself must match")
	}
}
