// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("exists", parseExists)
}

type existsNode struct{}

func parseExists(args []json.RawMessage) (Node, error) {
	if len(args) != 0 {
		return nil, errNoArgs
	}
	return existsNode{}, nil
}

func (existsNode) Evaluate(_ Context, f *treeview.File) bool { return f.Exists }
