// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"strings"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("name", parseName)
}

// nameNode matches one or more exact names against either the file's
// leaf name or its wholename, depending on scope. Comparison honors the
// owning root's case-sensitivity policy.
type nameNode struct {
	names     []string
	wholename bool
}

func parseName(args []json.RawMessage) (Node, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errOneArg
	}
	names, err := decodeStrings(args[0])
	if err != nil {
		return nil, err
	}
	n := &nameNode{names: names}
	if len(args) == 2 {
		scope, err := decodeString(args[1])
		if err != nil {
			return nil, err
		}
		n.wholename = scope == "wholename"
	}
	return n, nil
}

func (n *nameNode) Evaluate(ctx Context, f *treeview.File) bool {
	candidate := f.Name.String()
	if n.wholename {
		candidate = ctx.WholeName(f.ID())
	}
	caseSensitive := ctx.Tree().CaseSensitive
	for _, want := range n.names {
		if caseSensitive {
			if candidate == want {
				return true
			}
		} else if strings.EqualFold(candidate, want) {
			return true
		}
	}
	return false
}
