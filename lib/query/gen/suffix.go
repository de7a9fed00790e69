// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package gen

import (
	"strings"

	"github.com/watchtree/watchtree/lib/treeview"
)

// SuffixGenerator walks the per-suffix linked list for each requested
// suffix, visiting every file with that suffix — existing or
// tombstoned — until the age-out reaper removes it.
type SuffixGenerator struct {
	Suffixes []string
}

func (g SuffixGenerator) Generate(t *treeview.Tree, process ProcessFunc) int64 {
	var walked int64
	for _, suf := range g.Suffixes {
		lower := strings.ToLower(suf)
		for id := t.SuffixHead(lower); id != 0; id = t.SuffixNext(id) {
			walked++
			if !process(id) {
				return walked
			}
		}
	}
	return walked
}
