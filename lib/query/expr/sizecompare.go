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
	Register("size-compare", parseSizeCompare)
}

type sizeOp int

const (
	sizeEQ sizeOp = iota
	sizeNE
	sizeGT
	sizeGE
	sizeLT
	sizeLE
)

type sizeCompareNode struct {
	op      sizeOp
	operand int64
}

func parseSizeCompare(args []json.RawMessage) (Node, error) {
	if len(args) != 2 {
		return nil, errTwoArg
	}
	opStr, err := decodeString(args[0])
	if err != nil {
		return nil, err
	}
	var operand int64
	if err := json.Unmarshal(args[1], &operand); err != nil {
		return nil, fmt.Errorf("size-compare operand must be an integer: %w", err)
	}
	op, ok := map[string]sizeOp{
		"eq": sizeEQ, "==": sizeEQ,
		"ne": sizeNE, "!=": sizeNE,
		"gt": sizeGT, ">": sizeGT,
		"ge": sizeGE, ">=": sizeGE,
		"lt": sizeLT, "<": sizeLT,
		"le": sizeLE, "<=": sizeLE,
	}[opStr]
	if !ok {
		return nil, fmt.Errorf("unknown size-compare operator %q", opStr)
	}
	return &sizeCompareNode{op: op, operand: operand}, nil
}

func (n *sizeCompareNode) Evaluate(_ Context, f *treeview.File) bool {
	size := f.Stat.Size
	switch n.op {
	case sizeEQ:
		return size == n.operand
	case sizeNE:
		return size != n.operand
	case sizeGT:
		return size > n.operand
	case sizeGE:
		return size >= n.operand
	case sizeLT:
		return size < n.operand
	case sizeLE:
		return size <= n.operand
	default:
		return false
	}
}
