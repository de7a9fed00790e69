// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package expr

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/watchtree/watchtree/lib/treeview"
)

func init() {
	Register("pcre", parsePCRE)
}

// pcreNode matches a regular expression against the file's leaf name or
// wholename. No PCRE-compatible third-party module appears anywhere in
// the retrieval pack, so this one leaf falls back to the standard
// library's RE2-flavored regexp package rather than reaching for an
// unrelated dependency just to say the word "PCRE".
type pcreNode struct {
	re        *regexp.Regexp
	wholename bool
}

func parsePCRE(args []json.RawMessage) (Node, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errOneArg
	}
	pattern, err := decodeString(args[0])
	if err != nil {
		return nil, err
	}
	n := &pcreNode{}
	if len(args) == 2 {
		scope, err := decodeString(args[1])
		if err != nil {
			return nil, err
		}
		n.wholename = scope == "wholename"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	n.re = re
	return n, nil
}

func (n *pcreNode) Evaluate(ctx Context, f *treeview.File) bool {
	candidate := f.Name.String()
	if n.wholename {
		candidate = ctx.WholeName(f.ID())
	}
	return n.re.MatchString(candidate)
}
