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
	Register("dirname", parseDirname)
}

// dirnameNode matches files whose containing directory is dirname
// itself, or a descendant of it up to depth additional levels. depth < 0
// means unbounded, mirroring the path generator's own depth convention.
type dirnameNode struct {
	dirname string
	depth   int
}

func parseDirname(args []json.RawMessage) (Node, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errOneArg
	}
	dirname, err := decodeString(args[0])
	if err != nil {
		return nil, err
	}
	depth := -1
	if len(args) == 2 {
		if err := json.Unmarshal(args[1], &depth); err != nil {
			return nil, err
		}
	}
	return &dirnameNode{dirname: strings.TrimSuffix(dirname, "/"), depth: depth}, nil
}

func (n *dirnameNode) Evaluate(ctx Context, f *treeview.File) bool {
	dirPath := ctx.Tree().DirPath(f.Parent)
	caseSensitive := ctx.Tree().CaseSensitive
	target := n.dirname
	if !caseSensitive {
		dirPath = strings.ToLower(dirPath)
		target = strings.ToLower(target)
	}
	if dirPath == target {
		return true
	}
	prefix := target + "/"
	if !strings.HasPrefix(dirPath, prefix) {
		return false
	}
	if n.depth < 0 {
		return true
	}
	rest := strings.TrimPrefix(dirPath, prefix)
	levels := strings.Count(rest, "/") + 1
	return levels <= n.depth
}
