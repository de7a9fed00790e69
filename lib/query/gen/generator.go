// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gen implements the four candidate-file generator strategies
// (time-since, suffix, path-prefix, glob) plus the all-files fallback,
// each walking the tree store directly and handing candidate file ids to
// a caller-supplied process function.
package gen

import "github.com/watchtree/watchtree/lib/treeview"

// ProcessFunc is called once per candidate file a generator visits. It
// returns whether the generator should keep walking; returning false
// lets a caller bail out early (for example, a dedup policy that treats
// a repeat as a signal to stop rather than merely skip). Generators are
// not required to call it in wholename order.
type ProcessFunc func(id treeview.FileID) bool

// Generator produces candidate files for the query orchestrator to run
// the expression evaluator over.
type Generator interface {
	// Generate walks its candidate set, calling process for each file,
	// and returns the number of files visited.
	Generate(t *treeview.Tree, process ProcessFunc) int64
}
