// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics exposes the client-facing Prometheus counters and
// histograms for query latency and generator fan-out. Ingestion and
// reaper throughput, which nothing outside the process consumes, are
// metered separately with rcrowley/go-metrics (see lib/ingest, lib/reaper).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// QueryDuration records how long ExecuteQuery took, labeled by the
	// generator kind it selected.
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "watchtree",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Time spent executing a query, by selected generator.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"generator"})

	// GeneratorWalked counts candidate files a generator visited, before
	// the expression, relative-root filter, or dedup narrowed them down.
	GeneratorWalked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watchtree",
		Subsystem: "query",
		Name:      "generator_walked_total",
		Help:      "Number of candidate files visited by a generator.",
	}, []string{"generator"})

	// QueryMatched counts files that survived the expression and made it
	// into a query's result set.
	QueryMatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watchtree",
		Subsystem: "query",
		Name:      "matched_total",
		Help:      "Number of files returned by a query.",
	}, []string{"generator"})
)

func init() {
	prometheus.MustRegister(QueryDuration, GeneratorWalked, QueryMatched)
}
