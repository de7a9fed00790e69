// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package treeview

import (
	"strings"
	"time"

	"github.com/watchtree/watchtree/lib/strkey"
)

// Tree is the in-memory view of one root's filesystem tree. It is not
// safe for concurrent use on its own — callers must hold the root's
// lockmgr.Lock for the duration of any read or write, per the
// concurrency model.
type Tree struct {
	CaseSensitive bool

	fold *strkey.FoldCache

	dirs  []*Directory // index 0 is an unused sentinel
	files []*File      // index 0 is an unused sentinel

	rootID DirID

	recHead, recTail FileID
	suffixHeads      map[string]FileID

	LastAgeOutTick      uint32
	LastAgeOutTimestamp time.Time
}

// New creates an empty tree with a root directory.
func New(caseSensitive bool) *Tree {
	t := &Tree{
		CaseSensitive: caseSensitive,
		fold:          strkey.NewFoldCache(4096),
		dirs:          make([]*Directory, 1, 256),
		files:         make([]*File, 1, 1024),
		suffixHeads:   make(map[string]FileID),
	}
	root := &Directory{
		id:      DirID(len(t.dirs)),
		Name:    strkey.Intern(""),
		Parent:  0,
		files:   make(map[string]FileID),
		subdirs: make(map[string]DirID),
	}
	t.dirs = append(t.dirs, root)
	t.rootID = root.id
	return t
}

// RootID returns the id of the tree's root directory.
func (t *Tree) RootID() DirID { return t.rootID }

// Dir returns the directory for id, or nil if id is invalid.
func (t *Tree) Dir(id DirID) *Directory {
	if id == 0 || int(id) >= len(t.dirs) {
		return nil
	}
	return t.dirs[id]
}

// File returns the file for id, or nil if id is invalid.
func (t *Tree) File(id FileID) *File {
	if id == 0 || int(id) >= len(t.files) {
		return nil
	}
	return t.files[id]
}

func (t *Tree) key(name string) string {
	if t.CaseSensitive {
		return name
	}
	return t.fold.Fold(name)
}

func (t *Tree) newDir(parent DirID, name string) *Directory {
	d := &Directory{
		id:      DirID(len(t.dirs)),
		Name:    strkey.Intern(name),
		Parent:  parent,
		files:   make(map[string]FileID),
		subdirs: make(map[string]DirID),
	}
	t.dirs = append(t.dirs, d)
	return d
}

func (t *Tree) newFile(parent DirID, name string) *File {
	f := &File{
		id:     FileID(len(t.files)),
		Name:   strkey.Intern(name),
		Parent: parent,
	}
	t.files = append(t.files, f)
	return f
}

// splitPath splits a root-relative path on "/", dropping empty segments
// so that both "a/b" and "/a/b/" resolve identically.
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}

// Resolve splits path on "/" and descends from the root directory,
// materializing intermediate directories when create is true. With
// create false it returns (0, false) on the first missing segment.
func (t *Tree) Resolve(path string, create bool) (DirID, bool) {
	cur := t.rootID
	for _, seg := range splitPath(path) {
		dir := t.dirs[cur]
		key := t.key(seg)
		if id, ok := dir.subdirs[key]; ok {
			cur = id
			continue
		}
		if !create {
			return 0, false
		}
		nd := t.newDir(cur, seg)
		dir.subdirs[key] = nd.id
		cur = nd.id
	}
	return cur, true
}

// GetOrCreateChildFile returns the direct child file named name of dir,
// creating it — stamped with now/tick as its first-observation time — if
// it does not already exist.
func (t *Tree) GetOrCreateChildFile(dir DirID, name string, now time.Time, tick uint32) FileID {
	d := t.dirs[dir]
	key := t.key(name)
	if id, ok := d.files[key]; ok {
		return id
	}
	f := t.newFile(dir, name)
	f.CTime = OTime{Tick: tick, Timestamp: now}
	d.files[key] = f.id
	return f.id
}

// suffixOf returns the lowercase suffix of name, or "" if name has no
// extension (no dot, or the only dot is the leading character of a
// dotfile).
func suffixOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// MarkFileChanged stamps file with now/tick, moves it to the head of the
// recency list, and links it into its suffix bucket if it is not already
// linked. Any notification is a tick event: this is unconditional, not
// gated on whether the file's stat actually differs from before.
func (t *Tree) MarkFileChanged(id FileID, now time.Time, tick uint32) {
	f := t.files[id]
	f.OTime = OTime{Tick: tick, Timestamp: now}
	t.recencyUnlink(f)
	t.recencyPushHead(f)
	if !f.sufLinked {
		f.suffix = suffixOf(f.Name.String())
		if f.suffix != "" {
			t.suffixPushHead(f)
			f.sufLinked = true
		}
	}
}

// MarkDirDeleted marks dir's direct files as non-existent, stamped with
// now/tick and recorded in the recency list. If recursive is true, the
// same is applied depth-first to every subdirectory. Unlinking from the
// parent map is left to the age-out reaper.
func (t *Tree) MarkDirDeleted(id DirID, now time.Time, tick uint32, recursive bool) {
	d := t.dirs[id]
	d.LastCheckExisted = false
	for _, fid := range d.files {
		f := t.files[fid]
		if f.Exists {
			f.Exists = false
			t.MarkFileChanged(fid, now, tick)
		}
	}
	if recursive {
		for _, sid := range d.subdirs {
			t.MarkDirDeleted(sid, now, tick, true)
		}
	}
}
