// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/watchtree/watchtree/lib/query/expr"
	"github.com/watchtree/watchtree/lib/query/gen"
)

// ParseError wraps a malformed query spec. Per the error handling
// design, a ParseError never yields partial results.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return "parse query: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Parsed is the compiled, immutable form of a query spec: everything
// ExecuteQuery needs, with the glob tree and expression tree already
// built and the relative-root prefix normalized.
type Parsed struct {
	CaseSensitive        bool
	DedupResults         bool
	EmptyOnFreshInstance bool
	RelativeRoot         string

	Paths     []gen.PathSpec
	GlobTree  *gen.GlobTree
	Suffixes  []string
	SinceSpec string

	Expr   expr.Node
	Fields []string

	SyncTimeout time.Duration
	LockTimeout time.Duration
}

// Parse compiles a JSON query spec into a Parsed query.
func Parse(raw []byte) (*Parsed, error) {
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, &ParseError{Err: err}
	}

	p := &Parsed{
		CaseSensitive:        spec.CaseSensitive,
		DedupResults:         spec.DedupResults,
		EmptyOnFreshInstance: spec.EmptyOnFreshInstance,
		RelativeRoot:         strings.TrimSuffix(spec.RelativeRoot, "/"),
		Paths:                spec.Path,
		Suffixes:             spec.Suffix,
		SinceSpec:            spec.Since,
		Fields:               spec.Fields,
		SyncTimeout:          time.Duration(spec.SyncTimeoutMs) * time.Millisecond,
		LockTimeout:          time.Duration(spec.LockTimeoutMs) * time.Millisecond,
	}

	if len(spec.Expression) > 0 {
		n, err := expr.Parse(spec.Expression)
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("expression: %w", err)}
		}
		p.Expr = n
	} else {
		n, err := expr.Parse(json.RawMessage(`["true"]`))
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		p.Expr = n
	}

	if len(spec.Glob) > 0 {
		gt, err := gen.CompileGlobs(spec.Glob, spec.CaseSensitive)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		p.GlobTree = gt
	}

	return p, nil
}
