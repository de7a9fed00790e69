// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("match", parseMatch)
}

// matchNode matches a single wildmatch-style glob pattern, compiled once
// at parse time, against either the file's leaf name (default) or its
// wholename.
type matchNode struct {
	g         glob.Glob
	wholename bool
}

func parseMatch(args []json.RawMessage) (Node, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errOneArg
	}
	pattern, err := decodeString(args[0])
	if err != nil {
		return nil, err
	}
	n := &matchNode{}
	if len(args) == 2 {
		scope, err := decodeString(args[1])
		if err != nil {
			return nil, err
		}
		n.wholename = scope == "wholename"
	}
	sep := byte('/')
	if !n.wholename {
		sep = 0 // basename patterns don't need a path separator class
	}
	var g glob.Glob
	if sep == 0 {
		g, err = glob.Compile(pattern)
	} else {
		g, err = glob.Compile(pattern, rune(sep))
	}
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	n.g = g
	return n, nil
}

// Evaluate matches byte-exact against the compiled pattern. Case-folded
// glob matching would require recompiling per query against the owning
// root's policy; queries that need it should case-fold the pattern
// themselves before submission, matching the wildmatch CASEFOLD flag
// convention this leaf does not otherwise implement.
func (n *matchNode) Evaluate(ctx Context, f *treeview.File) bool {
	candidate := f.Name.String()
	if n.wholename {
		candidate = ctx.WholeName(f.ID())
	}
	return n.g.Match(candidate)
}
