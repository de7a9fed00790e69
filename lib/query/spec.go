// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package query implements the query orchestrator: parsing a JSON query
// spec into an immutable, compiled form, resolving its since-spec,
// selecting one of the four generators (or the all-files fallback),
// running the expression evaluator per candidate under the root's shared
// lock, deduplicating, and returning matches plus the tick they were
// read at.
package query

import (
	"encoding/json"

	"github.com/watchtree/watchtree/lib/query/gen"
)

// Spec is the on-wire JSON shape of a query request, per the external
// interfaces section: since, suffix, path, glob, fields, expression,
// case_sensitive, dedup_results, empty_on_fresh_instance, relative_root,
// sync_timeout, lock_timeout.
type Spec struct {
	Since                string          `json:"since,omitempty"`
	Suffix               []string        `json:"suffix,omitempty"`
	Path                 []gen.PathSpec  `json:"path,omitempty"`
	Glob                 []string        `json:"glob,omitempty"`
	Fields               []string        `json:"fields,omitempty"`
	Expression           json.RawMessage `json:"expression,omitempty"`
	CaseSensitive        bool            `json:"case_sensitive,omitempty"`
	DedupResults         bool            `json:"dedup_results,omitempty"`
	EmptyOnFreshInstance bool            `json:"empty_on_fresh_instance,omitempty"`
	RelativeRoot         string          `json:"relative_root,omitempty"`
	SyncTimeoutMs        int64           `json:"sync_timeout,omitempty"`
	LockTimeoutMs        int64           `json:"lock_timeout,omitempty"`
}
