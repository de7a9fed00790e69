// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package gen

import (
	"strings"

	"github.com/watchtree/watchtree/lib/treeview"
)

// GlobGenerator walks the tree store against a compiled GlobTree: at a
// literal node it looks up the named child directly; at a pattern node
// it scans the current directory's children; at a doublestar node it
// tries the node's tail at the current level and at every level below,
// matching zero or more directory levels — including zero at the root,
// per this project's resolution of the "does ** match zero components"
// open question.
type GlobGenerator struct {
	Tree          *GlobTree
	CaseSensitive bool
}

func (g GlobGenerator) Generate(t *treeview.Tree, process ProcessFunc) int64 {
	var walked int64
	for _, root := range g.Tree.roots {
		walked += g.walk(t, t.RootID(), root, process)
	}
	return walked
}

func (g GlobGenerator) walk(t *treeview.Tree, dir treeview.DirID, node *GlobNode, process ProcessFunc) int64 {
	switch node.kind {
	case globLiteral:
		return g.walkLiteral(t, dir, node, process)
	case globPattern:
		return g.walkPattern(t, dir, node, process)
	case globDoublestar:
		return g.walkDoublestar(t, dir, node, process)
	default:
		return 0
	}
}

func (g GlobGenerator) walkLiteral(t *treeview.Tree, dir treeview.DirID, node *GlobNode, process ProcessFunc) int64 {
	var walked int64
	if node.terminal {
		if fid, ok := t.ChildFile(dir, node.literal); ok {
			walked++
			process(fid)
		}
	}
	if len(node.children) > 0 {
		if cid, ok := t.ChildDir(dir, node.literal); ok {
			for _, child := range node.children {
				walked += g.walk(t, cid, child, process)
			}
		}
	}
	return walked
}

func (g GlobGenerator) walkPattern(t *treeview.Tree, dir treeview.DirID, node *GlobNode, process ProcessFunc) int64 {
	var walked int64
	if node.terminal {
		t.ForEachChildFile(dir, func(fid treeview.FileID) {
			name := t.File(fid).Name.String()
			if !g.CaseSensitive {
				name = strings.ToLower(name)
			}
			if node.matcher.Match(name) {
				walked++
				process(fid)
			}
		})
	}
	if len(node.children) > 0 {
		t.ForEachChildDir(dir, func(cid treeview.DirID) {
			name := t.Dir(cid).Name.String()
			if !g.CaseSensitive {
				name = strings.ToLower(name)
			}
			if node.matcher.Match(name) {
				for _, child := range node.children {
					walked += g.walk(t, cid, child, process)
				}
			}
		})
	}
	return walked
}

func (g GlobGenerator) walkDoublestar(t *treeview.Tree, dir treeview.DirID, node *GlobNode, process ProcessFunc) int64 {
	var walked int64
	for _, child := range node.children {
		walked += g.walk(t, dir, child, process)
	}
	t.ForEachChildDir(dir, func(cid treeview.DirID) {
		walked += g.walkDoublestar(t, cid, node, process)
	})
	return walked
}
