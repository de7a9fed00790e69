// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package treeview

import "strings"

// WholeName computes the full root-relative path of file id by walking
// its parent chain. It does not cache across calls; callers that need
// memoized wholenames (query contexts) keep their own cache keyed by
// FileID.
func (t *Tree) WholeName(id FileID) string {
	f := t.files[id]
	dirPath := t.DirPath(f.Parent)
	if dirPath == "" {
		return f.Name.String()
	}
	return dirPath + "/" + f.Name.String()
}

// DirPath computes the full root-relative path of directory id.
func (t *Tree) DirPath(id DirID) string {
	if id == 0 || id == t.rootID {
		return ""
	}
	d := t.dirs[id]
	parent := t.DirPath(d.Parent)
	if parent == "" {
		return d.Name.String()
	}
	return parent + "/" + d.Name.String()
}

// ChildFile looks up the direct file child of dir named name, honoring
// the tree's case-sensitivity policy.
func (t *Tree) ChildFile(dir DirID, name string) (FileID, bool) {
	d := t.dirs[dir]
	id, ok := d.files[t.key(name)]
	return id, ok
}

// ChildDir looks up the direct subdirectory of dir named name, honoring
// the tree's case-sensitivity policy.
func (t *Tree) ChildDir(dir DirID, name string) (DirID, bool) {
	d := t.dirs[dir]
	id, ok := d.subdirs[t.key(name)]
	return id, ok
}

// ForEachChildFile calls fn for every direct file child of dir. Iteration
// order is unspecified.
func (t *Tree) ForEachChildFile(dir DirID, fn func(FileID)) {
	d := t.dirs[dir]
	for _, id := range d.files {
		fn(id)
	}
}

// ForEachChildDir calls fn for every direct subdirectory of dir.
// Iteration order is unspecified.
func (t *Tree) ForEachChildDir(dir DirID, fn func(DirID)) {
	d := t.dirs[dir]
	for _, id := range d.subdirs {
		fn(id)
	}
}

// underRelativeRoot reports whether wholename lies under root (or equals
// it), honoring case sensitivity. root should not have a trailing slash.
func (t *Tree) underRelativeRoot(wholename, root string) bool {
	if root == "" {
		return true
	}
	if t.CaseSensitive {
		return wholename == root || strings.HasPrefix(wholename, root+"/")
	}
	folded := strings.ToLower(wholename)
	foldedRoot := strings.ToLower(root)
	return folded == foldedRoot || strings.HasPrefix(folded, foldedRoot+"/")
}

// UnderRelativeRoot is the exported form of underRelativeRoot, used by
// the query orchestrator's relative-root filter.
func (t *Tree) UnderRelativeRoot(wholename, root string) bool {
	return t.underRelativeRoot(wholename, root)
}
