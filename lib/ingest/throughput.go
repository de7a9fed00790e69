// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package ingest

import (
	"sync/atomic"
	"time"

	"github.com/rcrowley/go-metrics"
)

// throughputCounter tracks entries ingested via a one-minute
// exponentially weighted moving average, purely for internal
// diagnostics — nothing outside the process consumes it, so it is kept
// separate from the Prometheus counters in lib/metrics.
type throughputCounter struct {
	total int64
	metrics.EWMA
	stop chan struct{}
}

func newThroughputCounter() *throughputCounter {
	c := &throughputCounter{
		EWMA: metrics.NewEWMA1(),
		stop: make(chan struct{}),
	}
	go c.tick()
	return c
}

func (c *throughputCounter) tick() {
	// metrics.EWMA expects a Tick call every five seconds to decay
	// correctly.
	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Tick()
		case <-c.stop:
			return
		}
	}
}

func (c *throughputCounter) Update(n int64) {
	atomic.AddInt64(&c.total, n)
	c.EWMA.Update(n)
}

// Total returns the number of entries ingested since the pipeline
// started.
func (c *throughputCounter) Total() int64 {
	return atomic.LoadInt64(&c.total)
}

func (c *throughputCounter) Close() {
	close(c.stop)
}
