// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import "github.com/watchtree/watchtree/lib/treeview"

// RuleMatch is one file a query's expression matched, carrying enough to
// render any of the selectable result fields without re-walking the
// tree.
type RuleMatch struct {
	RootNumber uint32
	RelName    string
	IsNew      bool
	FileID     treeview.FileID
}

// Result is what ExecuteQuery returns: whether the view had to answer as
// a fresh instance, the matched files, how many ticks the view was at
// when the query ran, and how many results dedup suppressed.
type Result struct {
	IsFreshInstance bool
	Files           []RuleMatch
	Ticks           uint32
	NumDeduped      uint32
}
