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
	Register("true", func(args []json.RawMessage) (Node, error) { return trueNode{}, nil })
	Register("false", func(args []json.RawMessage) (Node, error) { return falseNode{}, nil })
}

type trueNode struct{}

func (trueNode) Evaluate(Context, *treeview.File) bool { return true }

type falseNode struct{}

func (falseNode) Evaluate(Context, *treeview.File) bool { return false }
