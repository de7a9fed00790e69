// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"os"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("type", parseType)
}

// typeNode matches a single-character type code: "f" regular file, "l"
// symlink, "d" directory. Since generators only ever hand a File node to
// the evaluator, "d" never matches here — a query wanting directories
// belongs at the path-generator level, not the expression level.
type typeNode struct{ code byte }

func parseType(args []json.RawMessage) (Node, error) {
	if len(args) != 1 {
		return nil, errOneArg
	}
	s, err := decodeString(args[0])
	if err != nil {
		return nil, err
	}
	if len(s) != 1 {
		return nil, errOneArg
	}
	return &typeNode{code: s[0]}, nil
}

func (n *typeNode) Evaluate(_ Context, f *treeview.File) bool {
	isSymlink := f.Stat.Mode&os.ModeSymlink != 0 || f.SymlinkTarget != ""
	switch n.code {
	case 'f':
		return !isSymlink
	case 'l':
		return isSymlink
	default:
		return false
	}
}
