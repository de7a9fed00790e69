// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"fmt"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("since", parseSince)
}

// sinceNode reports whether the file's own time field is strictly newer
// than the query's resolved since cutoff. Unlike the top-level since-spec
// (which selects a generator), this leaf lets "since" be combined with
// other predicates inside allof/anyof/not.
type sinceNode struct{ field string }

func parseSince(args []json.RawMessage) (Node, error) {
	field := "otime"
	if len(args) == 1 {
		f, err := decodeString(args[0])
		if err != nil {
			return nil, err
		}
		field = f
	} else if len(args) > 1 {
		return nil, errOneArg
	}
	if field != "otime" && field != "ctime" {
		return nil, fmt.Errorf("since field must be otime or ctime, got %q", field)
	}
	return &sinceNode{field: field}, nil
}

func (n *sinceNode) Evaluate(ctx Context, f *treeview.File) bool {
	ot := f.OTime
	if n.field == "ctime" {
		ot = f.CTime
	}
	return ctx.Since().NewerThan(ot)
}
