// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

//go:build unix

package treeview

import (
	"os"

	"golang.org/x/sys/unix"
)

// StatFromPath builds a Stat from the portable os.FileInfo fields plus
// the inode/device identity, fetched via a direct unix.Lstat call rather
// than by asserting the concrete type behind info.Sys().
func StatFromPath(path string, info os.FileInfo) Stat {
	st := Stat{
		Mode:  info.Mode(),
		Size:  info.Size(),
		Mtime: info.ModTime(),
	}
	var raw unix.Stat_t
	if err := unix.Lstat(path, &raw); err == nil {
		st.Ino = raw.Ino
		st.Dev = uint64(raw.Dev)
	}
	return st
}
