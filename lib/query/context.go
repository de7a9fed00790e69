// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"github.com/watchtree/watchtree/lib/cutoff"
	"github.com/watchtree/watchtree/lib/treeview"
)

// queryContext is the one-shot scratch space for a running query: the
// candidate file currently being processed, its lazily computed and
// memoized wholename, the dedup set of wholenames already emitted (nil
// when dedup is off), and the result accumulator. It implements
// expr.Context.
type queryContext struct {
	tree  *treeview.Tree
	since cutoff.Cut

	curFile  treeview.FileID
	curWhole string
	haveCur  bool

	dedup      map[string]struct{}
	results    []RuleMatch
	numDeduped uint32
}

func newContext(t *treeview.Tree, since cutoff.Cut, dedup bool) *queryContext {
	c := &queryContext{tree: t, since: since}
	if dedup {
		c.dedup = make(map[string]struct{})
	}
	return c
}

func (c *queryContext) Tree() *treeview.Tree { return c.tree }
func (c *queryContext) Since() cutoff.Cut    { return c.since }

// WholeName computes and caches the wholename of id, valid only until
// the next call with a different id — one candidate file is processed at
// a time, so this is sufficient.
func (c *queryContext) WholeName(id treeview.FileID) string {
	if c.haveCur && c.curFile == id {
		return c.curWhole
	}
	c.curFile = id
	c.curWhole = c.tree.WholeName(id)
	c.haveCur = true
	return c.curWhole
}
