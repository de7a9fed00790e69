// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package gen

import (
	"github.com/watchtree/watchtree/lib/cutoff"
	"github.com/watchtree/watchtree/lib/treeview"
)

// TimeGenerator walks the recency list from its head, which is ordered
// by otime descending, and stops at the first file whose otime is not
// strictly after Since — visiting exactly {f : f.otime > since} in O(k)
// time. A file touched in the same tick or at the same timestamp as the
// cutoff does not count as "since" it.
type TimeGenerator struct {
	Since cutoff.Cut
}

func (g TimeGenerator) Generate(t *treeview.Tree, process ProcessFunc) int64 {
	var walked int64
	for id := t.RecencyHead(); id != 0; id = t.RecencyNext(id) {
		f := t.File(id)
		if !g.Since.NewerThan(f.OTime) {
			break
		}
		walked++
		if !process(id) {
			break
		}
	}
	return walked
}
