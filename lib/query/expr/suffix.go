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
	Register("suffix", parseSuffix)
}

type suffixNode struct{ suffixes []string }

func parseSuffix(args []json.RawMessage) (Node, error) {
	if len(args) != 1 {
		return nil, errOneArg
	}
	strs, err := decodeStrings(args[0])
	if err != nil {
		return nil, err
	}
	for i, s := range strs {
		strs[i] = strings.ToLower(s)
	}
	return &suffixNode{suffixes: strs}, nil
}

func (n *suffixNode) Evaluate(_ Context, f *treeview.File) bool {
	s := f.Suffix()
	for _, want := range n.suffixes {
		if s == want {
			return true
		}
	}
	return false
}
