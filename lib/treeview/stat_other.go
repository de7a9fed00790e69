// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

//go:build !unix

package treeview

import "os"

// StatFromPath builds a Stat from the portable os.FileInfo fields only;
// platforms outside the unix build tag have no stable inode/device pair
// to report.
func StatFromPath(path string, info os.FileInfo) Stat {
	return Stat{
		Mode:  info.Mode(),
		Size:  info.Size(),
		Mtime: info.ModTime(),
	}
}
