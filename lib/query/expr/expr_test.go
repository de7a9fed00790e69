// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/watchtree/watchtree/lib/cutoff"
	"github.com/watchtree/watchtree/lib/treeview"
)

// fakeContext is the minimal Context a unit test needs: a tree to compute
// wholenames against and a fixed since cutoff.
type fakeContext struct {
	tree  *treeview.Tree
	since cutoff.Cut
}

func (c *fakeContext) Tree() *treeview.Tree                { return c.tree }
func (c *fakeContext) Since() cutoff.Cut                    { return c.since }
func (c *fakeContext) WholeName(id treeview.FileID) string { return c.tree.WholeName(id) }

func mustParse(t *testing.T, expr string) Node {
	t.Helper()
	n, err := Parse(json.RawMessage(expr))
	if err != nil {
		t.Fatalf("Parse(%s): %v", expr, err)
	}
	return n
}

func TestAllOfFailsOnAnyFalseChild(t *testing.T) {
	n := mustParse(t, `["allof", ["true"], ["false"], ["true"]]`)
	tr := treeview.New(true)
	fid := tr.GetOrCreateChildFile(tr.RootID(), "a.txt", time.Now(), 1)
	ctx := &fakeContext{tree: tr}
	if n.Evaluate(ctx, tr.File(fid)) {
		t.Error("allof with a false child must not match")
	}
}

func TestAnyOfMatchesOnFirstTrue(t *testing.T) {
	n := mustParse(t, `["anyof", ["false"], ["true"], ["false"]]`)
	tr := treeview.New(true)
	fid := tr.GetOrCreateChildFile(tr.RootID(), "a.txt", time.Now(), 1)
	ctx := &fakeContext{tree: tr}
	if !n.Evaluate(ctx, tr.File(fid)) {
		t.Error("anyof with a true child must match")
	}
}

func TestNotInvertsChild(t *testing.T) {
	n := mustParse(t, `["not", ["true"]]`)
	tr := treeview.New(true)
	fid := tr.GetOrCreateChildFile(tr.RootID(), "a.txt", time.Now(), 1)
	ctx := &fakeContext{tree: tr}
	if n.Evaluate(ctx, tr.File(fid)) {
		t.Error("not true must be false")
	}
}

func TestSuffixNodeMatchesLowercasedSuffix(t *testing.T) {
	n := mustParse(t, `["suffix", "TXT"]`)
	tr := treeview.New(true)
	fid := tr.GetOrCreateChildFile(tr.RootID(), "README.txt", time.Now(), 1)
	tr.MarkFileChanged(fid, time.Now(), 1)
	ctx := &fakeContext{tree: tr}
	if !n.Evaluate(ctx, tr.File(fid)) {
		t.Error("suffix node must match case-insensitively against the suffix list")
	}
}

func TestNameNodeRespectsCaseSensitivity(t *testing.T) {
	n := mustParse(t, `["name", "A.TXT"]`)

	sensitive := treeview.New(true)
	fid := sensitive.GetOrCreateChildFile(sensitive.RootID(), "a.txt", time.Now(), 1)
	ctx := &fakeContext{tree: sensitive}
	if n.Evaluate(ctx, sensitive.File(fid)) {
		t.Error("name node must be byte-exact on a case-sensitive tree")
	}

	insensitive := treeview.New(false)
	fid2 := insensitive.GetOrCreateChildFile(insensitive.RootID(), "a.txt", time.Now(), 1)
	ctx2 := &fakeContext{tree: insensitive}
	if !n.Evaluate(ctx2, insensitive.File(fid2)) {
		t.Error("name node must fold case on a case-insensitive tree")
	}
}

func TestTypeNodeDistinguishesSymlinks(t *testing.T) {
	fNode := mustParse(t, `["type", "f"]`)
	lNode := mustParse(t, `["type", "l"]`)

	tr := treeview.New(true)
	regular := tr.GetOrCreateChildFile(tr.RootID(), "a.txt", time.Now(), 1)
	link := tr.GetOrCreateChildFile(tr.RootID(), "b.txt", time.Now(), 1)
	tr.File(link).SymlinkTarget = "a.txt"

	ctx := &fakeContext{tree: tr}
	if !fNode.Evaluate(ctx, tr.File(regular)) || fNode.Evaluate(ctx, tr.File(link)) {
		t.Error("type f must match only the regular file")
	}
	if lNode.Evaluate(ctx, tr.File(regular)) || !lNode.Evaluate(ctx, tr.File(link)) {
		t.Error("type l must match only the symlink")
	}
}

func TestSizeCompareOperators(t *testing.T) {
	tr := treeview.New(true)
	fid := tr.GetOrCreateChildFile(tr.RootID(), "a.bin", time.Now(), 1)
	tr.File(fid).Stat.Size = 42
	ctx := &fakeContext{tree: tr}

	cases := []struct {
		expr  string
		match bool
	}{
		{`["size-compare", "eq", 42]`, true},
		{`["size-compare", "ne", 42]`, false},
		{`["size-compare", "gt", 10]`, true},
		{`["size-compare", "lt", 10]`, false},
		{`["size-compare", "ge", 42]`, true},
		{`["size-compare", "le", 41]`, false},
	}
	for _, c := range cases {
		n := mustParse(t, c.expr)
		if got := n.Evaluate(ctx, tr.File(fid)); got != c.match {
			t.Errorf("%s: got %v, want %v", c.expr, got, c.match)
		}
	}
}

func TestParseRejectsUnknownTerm(t *testing.T) {
	if _, err := Parse(json.RawMessage(`["nonsense"]`)); err == nil {
		t.Error("Parse must reject an unregistered term name")
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register must panic on a duplicate term name")
		}
	}()
	Register("true", func(args []json.RawMessage) (Node, error) { return trueNode{}, nil })
}
