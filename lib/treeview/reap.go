// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package treeview

// UnlinkFile removes f from the recency list, its suffix bucket, and its
// parent directory's files map. This is the only path that actually
// removes a file from the tree; it is reserved for the age-out reaper.
func (t *Tree) UnlinkFile(id FileID) {
	f := t.files[id]
	t.recencyUnlink(f)
	t.suffixUnlink(f)
	d := t.dirs[f.Parent]
	delete(d.files, t.key(f.Name.String()))
}

// UnlinkEmptyDir removes dir from its parent's subdirs map if it has no
// files and no subdirectories left, and LastCheckExisted is false — i.e.
// the only reason it is still in memory is that it used to exist, not
// that ingestion still sees it there. Returns true if it was removed.
func (t *Tree) UnlinkEmptyDir(id DirID) bool {
	if id == t.rootID || id == 0 {
		return false
	}
	d := t.dirs[id]
	if len(d.files) != 0 || len(d.subdirs) != 0 || d.LastCheckExisted {
		return false
	}
	parent := t.dirs[d.Parent]
	delete(parent.subdirs, t.key(d.Name.String()))
	return true
}
