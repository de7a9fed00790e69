// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package clock

import (
	"sync"
	"testing"
)

func TestAdvanceIsStrictlyIncreasing(t *testing.T) {
	var c Tick
	prev := c.Read()
	for i := 0; i < 100; i++ {
		next := c.Advance()
		if next <= prev {
			t.Fatalf("Advance returned %d, want strictly greater than previous %d", next, prev)
		}
		prev = next
	}
}

func TestAdvanceConcurrentCallersSeeDistinctTicks(t *testing.T) {
	var c Tick
	const n = 200
	seen := make(chan uint32, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			seen <- c.Advance()
		}()
	}
	wg.Wait()
	close(seen)

	vals := make(map[uint32]bool, n)
	for v := range seen {
		if vals[v] {
			t.Fatalf("tick %d was handed out twice", v)
		}
		vals[v] = true
	}
	if len(vals) != n {
		t.Fatalf("got %d distinct ticks, want %d", len(vals), n)
	}
	if c.Read() != uint32(n) {
		t.Errorf("Read() = %d, want %d", c.Read(), n)
	}
}
