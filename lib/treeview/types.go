// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package treeview implements the in-memory tree store: directory and
// file entities, their parent/child maps, the recency doubly-linked list,
// and the per-suffix list heads. Directories and files live in arenas
// indexed by a stable id rather than referenced by pointer, so that
// parent back-references never form an owning reference cycle.
package treeview

import (
	"os"
	"time"

	"github.com/watchtree/watchtree/lib/strkey"
)

// FileID identifies a File within a Tree's arena. The zero value means
// "no file".
type FileID uint32

// DirID identifies a Directory within a Tree's arena. The zero value
// means "no directory" (used as the root's parent).
type DirID uint32

// Stat holds the subset of platform stat fields the view tracks.
type Stat struct {
	Mode  os.FileMode
	Size  int64
	Mtime time.Time
	Ino   uint64
	Dev   uint64
}

// OTime pairs a tick with the wall-clock time it was observed at.
type OTime struct {
	Tick      uint32
	Timestamp time.Time
}

// File represents one observed path.
type File struct {
	id     FileID
	Name   strkey.Key
	Parent DirID

	Exists bool
	Stat   Stat

	OTime OTime
	CTime OTime

	MaybeDeleted bool

	// SymlinkTarget is set when Stat.Mode&os.ModeSymlink != 0.
	SymlinkTarget string

	recPrev, recNext FileID
	sufPrev, sufNext FileID
	suffix           string // lowercase suffix this file is bucketed under, "" if none
	sufLinked        bool
}

// ID returns the file's stable arena id, usable as a map key or for
// cross-referencing recency/suffix positions.
func (f *File) ID() FileID { return f.id }

// Suffix returns the lowercase suffix this file is bucketed under, or ""
// if its name has no extension. Reflects the current name regardless of
// whether the file is actually linked into a suffix bucket.
func (f *File) Suffix() string { return suffixOf(f.Name.String()) }

// Directory represents one observed directory.
type Directory struct {
	id     DirID
	Name   strkey.Key
	Parent DirID

	files   map[string]FileID
	subdirs map[string]DirID

	// LastCheckExisted records whether the most recent ingestion pass
	// that looked at this directory found it still present on disk. The
	// age-out reaper only prunes an empty directory when this is false,
	// i.e. that the last reason we have one in memory at all was that it
	// used to exist, not that it currently does.
	LastCheckExisted bool
}

// ID returns the directory's stable arena id.
func (d *Directory) ID() DirID { return d.id }

// FileCount returns the number of direct file children.
func (d *Directory) FileCount() int { return len(d.files) }

// SubdirCount returns the number of direct subdirectory children.
func (d *Directory) SubdirCount() int { return len(d.subdirs) }
