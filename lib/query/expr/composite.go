// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"errors"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("allof", parseAllOf)
	Register("anyof", parseAnyOf)
	Register("not", parseNot)
}

type allOfNode struct{ children []Node }

func parseAllOf(args []json.RawMessage) (Node, error) {
	children, err := parseChildren(args)
	if err != nil {
		return nil, err
	}
	return &allOfNode{children: children}, nil
}

// Evaluate short-circuits on the first child that does not match.
func (n *allOfNode) Evaluate(ctx Context, f *treeview.File) bool {
	for _, c := range n.children {
		if !c.Evaluate(ctx, f) {
			return false
		}
	}
	return true
}

type anyOfNode struct{ children []Node }

func parseAnyOf(args []json.RawMessage) (Node, error) {
	children, err := parseChildren(args)
	if err != nil {
		return nil, err
	}
	return &anyOfNode{children: children}, nil
}

// Evaluate short-circuits on the first child that matches.
func (n *anyOfNode) Evaluate(ctx Context, f *treeview.File) bool {
	for _, c := range n.children {
		if c.Evaluate(ctx, f) {
			return true
		}
	}
	return false
}

type notNode struct{ child Node }

func parseNot(args []json.RawMessage) (Node, error) {
	if len(args) != 1 {
		return nil, errors.New("not takes exactly one child expression")
	}
	child, err := Parse(args[0])
	if err != nil {
		return nil, err
	}
	return &notNode{child: child}, nil
}

func (n *notNode) Evaluate(ctx Context, f *treeview.File) bool {
	return !n.child.Evaluate(ctx, f)
}

func parseChildren(args []json.RawMessage) ([]Node, error) {
	children := make([]Node, 0, len(args))
	for _, a := range args {
		n, err := Parse(a)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return children, nil
}
