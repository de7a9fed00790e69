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

// PathSpec names one path term of a path-generator query: the prefix to
// resolve, and how many levels below it to walk. A prefix naming a file
// emits that file. A prefix naming a directory emits its direct file
// children at depth 0, descending one more level per unit of depth;
// depth -1 means unbounded. The directory itself is never emitted, since
// generators only yield files.
type PathSpec struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// PathGenerator resolves each requested prefix and, for directories,
// walks its subtree up to the requested depth.
type PathGenerator struct {
	Paths []PathSpec
}

func (g PathGenerator) Generate(t *treeview.Tree, process ProcessFunc) int64 {
	var walked int64
	for _, p := range g.Paths {
		walked += walkPathSpec(t, p, process)
	}
	return walked
}

func walkPathSpec(t *treeview.Tree, p PathSpec, process ProcessFunc) int64 {
	if dirID, ok := t.Resolve(p.Path, false); ok {
		return walkDirDepth(t, dirID, p.Depth, process)
	}
	// The prefix might name a file directly rather than a directory.
	parent, leaf := splitParentLeaf(p.Path)
	parentID, ok := t.Resolve(parent, false)
	if !ok {
		return 0
	}
	if fid, ok := t.ChildFile(parentID, leaf); ok {
		process(fid)
		return 1
	}
	return 0
}

func walkDirDepth(t *treeview.Tree, dir treeview.DirID, depth int, process ProcessFunc) int64 {
	var walked int64
	stop := false
	t.ForEachChildFile(dir, func(fid treeview.FileID) {
		if stop {
			return
		}
		walked++
		if !process(fid) {
			stop = true
		}
	})
	if stop || depth == 0 {
		return walked
	}
	nextDepth := depth - 1
	if depth < 0 {
		nextDepth = -1
	}
	t.ForEachChildDir(dir, func(cid treeview.DirID) {
		if stop {
			return
		}
		walked += walkDirDepth(t, cid, nextDepth, process)
	})
	return walked
}

// splitParentLeaf splits a root-relative path into its parent directory
// path and leaf component. "a/b/c" -> ("a/b", "c"); "c" -> ("", "c").
func splitParentLeaf(path string) (string, string) {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}
