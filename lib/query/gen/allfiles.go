// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package gen

import "github.com/watchtree/watchtree/lib/treeview"

// AllFilesGenerator walks the entire tree depth-first. It is the
// fallback generator when a query names no paths, glob, suffixes, or
// since-spec.
type AllFilesGenerator struct{}

func (AllFilesGenerator) Generate(t *treeview.Tree, process ProcessFunc) int64 {
	return walkDirDepth(t, t.RootID(), -1, process)
}
