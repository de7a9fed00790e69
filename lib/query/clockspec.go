// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockKind distinguishes the three encodings a since-spec can arrive in.
type ClockKind int

const (
	ClockNone ClockKind = iota
	ClockTick
	ClockTimestamp
	ClockCursor
)

// ClockSpec is the parsed, but not yet resolved, form of a since string:
// "c:<clock_id>:<tick>", "n:<name>", or a bare Unix timestamp integer.
type ClockSpec struct {
	Kind       ClockKind
	RootID     string
	Tick       uint32
	Timestamp  time.Time
	CursorName string
}

// ParseClockSpec parses a since string into its constituent kind. An
// empty string parses to ClockNone, meaning "no since filter at all".
func ParseClockSpec(s string) (ClockSpec, error) {
	if s == "" {
		return ClockSpec{Kind: ClockNone}, nil
	}
	if strings.HasPrefix(s, "c:") {
		parts := strings.SplitN(s, ":", 3)
		if len(parts) != 3 {
			return ClockSpec{}, fmt.Errorf("malformed clockspec %q", s)
		}
		tick, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return ClockSpec{}, fmt.Errorf("malformed clockspec %q: %w", s, err)
		}
		return ClockSpec{Kind: ClockTick, RootID: parts[1], Tick: uint32(tick)}, nil
	}
	if strings.HasPrefix(s, "n:") {
		name := strings.TrimPrefix(s, "n:")
		if name == "" {
			return ClockSpec{}, fmt.Errorf("malformed clockspec %q: empty cursor name", s)
		}
		return ClockSpec{Kind: ClockCursor, CursorName: name}, nil
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ClockSpec{}, fmt.Errorf("malformed clockspec %q", s)
	}
	return ClockSpec{Kind: ClockTimestamp, Timestamp: time.Unix(ts, 0)}, nil
}

// FormatClock renders the result surface's clock field: "c:<id>:<tick>".
func FormatClock(rootID string, tick uint32) string {
	return fmt.Sprintf("c:%s:%d", rootID, tick)
}
