// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package expr implements the expression tree the query orchestrator
// evaluates per candidate file: a set of node kinds (allof, anyof, not,
// true, false, suffix, name, match, type, exists, since, empty,
// size-compare, dirname, pcre), each parsed from its JSON term by a
// parser registered by name into a package-level map built at init time
// — one Register call per node's own file, never a hidden
// static-constructor order.
package expr

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/watchtree/watchtree/lib/cutoff"
	"github.com/watchtree/watchtree/lib/treeview"
)

// Context is the subset of the query orchestrator's running state a node
// needs to evaluate: the tree the candidate file belongs to, the
// resolved since cutoff, and a lazily computed, memoized wholename.
type Context interface {
	Tree() *treeview.Tree
	WholeName(id treeview.FileID) string
	Since() cutoff.Cut
}

// Node is one term of a parsed expression tree.
type Node interface {
	// Evaluate reports whether file matches this node, given the running
	// query context. It must be pure with respect to the tree snapshot
	// observed under the caller's shared lock, and must not mutate ctx
	// beyond its wholename cache.
	Evaluate(ctx Context, file *treeview.File) bool
}

// ParseFunc builds a Node from a term's argument array (everything after
// the operator name).
type ParseFunc func(args []json.RawMessage) (Node, error)

var (
	errNoArgs = errors.New("term takes no arguments")
	errOneArg = errors.New("term takes exactly one argument")
	errTwoArg = errors.New("term takes exactly two arguments")
)

var registry = make(map[string]ParseFunc)

// Register adds a parser for the named term. Called from each node's own
// file at package init time; registering the same name twice panics,
// since that can only happen from a programming mistake, not bad input.
func Register(name string, fn ParseFunc) {
	if _, dup := registry[name]; dup {
		panic("expr: duplicate registration for term " + name)
	}
	registry[name] = fn
}

// Parse compiles one JSON expression term, of the form
// ["opname", arg1, arg2, ...], into a Node.
func Parse(raw json.RawMessage) (Node, error) {
	var terms []json.RawMessage
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, fmt.Errorf("expression term must be an array: %w", err)
	}
	if len(terms) == 0 {
		return nil, errors.New("expression term must not be empty")
	}
	var op string
	if err := json.Unmarshal(terms[0], &op); err != nil {
		return nil, fmt.Errorf("expression operator must be a string: %w", err)
	}
	fn, ok := registry[op]
	if !ok {
		return nil, fmt.Errorf("unknown expression term %q", op)
	}
	n, err := fn(terms[1:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// decodeString unmarshals a single string argument, for terms that take
// exactly one.
func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected a string argument: %w", err)
	}
	return s, nil
}

// decodeStrings accepts either a single string or an array of strings,
// matching the term conventions used throughout the query spec for
// "one or more names" arguments.
func decodeStrings(raw json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("expected a string or array of strings: %w", err)
	}
	return many, nil
}
