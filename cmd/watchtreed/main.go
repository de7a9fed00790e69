// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Command watchtreed hosts the in-memory filesystem view: a "watch"
// subcommand that runs ingestion and age-out as a supervised long-lived
// process, and a "query" subcommand that performs a synchronous crawl
// and answers a single query read from stdin, for scripting and tests.
package main

import (
	"github.com/alecthomas/kong"

	_ "github.com/watchtree/watchtree/lib/automaxprocs"
)

type cli struct {
	Watch watchCmd `cmd:"" help:"Watch a directory tree, running ingestion and age-out until interrupted"`
	Query queryCmd `cmd:"" help:"Crawl a directory tree once and answer a single query read from stdin"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c, kong.Name("watchtreed"), kong.Description("in-memory filesystem view and query engine"))
	ctx.FatalIfErrorf(ctx.Run())
}
