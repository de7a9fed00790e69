// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package gen

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

type globNodeKind int

const (
	globLiteral globNodeKind = iota
	globPattern
	globDoublestar
)

// GlobNode is one path segment of a compiled glob pattern. A pattern
// like "src/**/*.c" compiles to root(literal "src") -> (doublestar) ->
// (pattern "*.c", terminal).
type GlobNode struct {
	kind     globNodeKind
	literal  string // exact segment text, for globLiteral
	matcher  glob.Glob
	children []*GlobNode
	terminal bool // true if a match ending here is a complete result
}

// GlobTree holds the compiled roots of every pattern a glob query named.
// Patterns are not merged even when they share a prefix; the walk cost
// of a handful of top-level query patterns is not worth the bookkeeping.
type GlobTree struct {
	roots []*GlobNode
}

// CompileGlobs compiles each pattern into its own root chain of
// GlobNodes. caseSensitive controls only pattern compilation; the walk
// itself always compares literal segments byte-exact against the tree's
// own case-folding policy via ChildDir/ChildFile.
func CompileGlobs(patterns []string, caseSensitive bool) (*GlobTree, error) {
	gt := &GlobTree{}
	for _, p := range patterns {
		root, err := compileGlobPattern(p, caseSensitive)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		gt.roots = append(gt.roots, root...)
	}
	return gt, nil
}

// compileGlobPattern returns the root node(s) for one pattern. Leading
// "**" produces a single doublestar root; other patterns produce exactly
// one literal or pattern root, chained down to the final segment.
func compileGlobPattern(pattern string, caseSensitive bool) ([]*GlobNode, error) {
	segs := strings.Split(pattern, "/")
	var headSlots *[]*GlobNode
	var out []*GlobNode
	headSlots = &out
	for i, seg := range segs {
		node, err := compileGlobSegment(seg, caseSensitive)
		if err != nil {
			return nil, err
		}
		if i == len(segs)-1 {
			node.terminal = true
		}
		*headSlots = append(*headSlots, node)
		headSlots = &node.children
	}
	return out, nil
}

func compileGlobSegment(seg string, caseSensitive bool) (*GlobNode, error) {
	if seg == "**" {
		return &GlobNode{kind: globDoublestar}, nil
	}
	if !isPlainSegment(seg) {
		var g glob.Glob
		var err error
		if caseSensitive {
			g, err = glob.Compile(seg)
		} else {
			g, err = glob.Compile(strings.ToLower(seg))
		}
		if err != nil {
			return nil, err
		}
		return &GlobNode{kind: globPattern, matcher: g}, nil
	}
	return &GlobNode{kind: globLiteral, literal: seg}, nil
}

// isPlainSegment reports whether seg contains no glob metacharacters and
// so can be resolved with a direct map lookup instead of a scan-and-match.
func isPlainSegment(seg string) bool {
	return !strings.ContainsAny(seg, "*?[]{}!\\")
}
