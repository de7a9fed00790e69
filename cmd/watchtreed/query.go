// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/watchtree/watchtree/lib/ingest"
	"github.com/watchtree/watchtree/lib/query"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/watch"
)

// queryCmd performs a single synchronous crawl of path, then answers one
// query spec read from stdin as JSON, printing the result surface to
// stdout. It exists so the query engine can be exercised from the shell
// without a client-RPC transport, which is out of this project's scope.
type queryCmd struct {
	Path          string `arg:"" help:"Directory to crawl before answering the query"`
	Name          string `help:"Root name, defaults to the path" default:""`
	CaseSensitive bool   `help:"Treat the tree as case-sensitive" default:"true"`
}

// noopBackend satisfies watch.Backend for the one-shot query command,
// which never runs the supervised ingestion loop and so never needs a
// real OS notification source.
type noopBackend struct{}

func (noopBackend) StartWatchDir(string) (watch.DirHandle, error) { return nil, nil }
func (noopBackend) StopWatchDir(watch.DirHandle)                  {}
func (noopBackend) StartWatchFile(string) error                   { return nil }
func (noopBackend) ConsumeNotify() (watch.PendingCollection, error) {
	return nil, nil
}
func (noopBackend) WaitNotify(time.Duration) bool { return false }
func (noopBackend) Cancelled() bool               { return false }
func (noopBackend) Close()                        {}

func (c *queryCmd) Run() error {
	name := c.Name
	if name == "" {
		name = c.Path
	}

	r := root.New(1, name, c.Path, c.CaseSensitive, noopBackend{})
	p := ingest.NewPipeline(r)
	ctx := context.Background()
	if err := p.Crawl(ctx); err != nil {
		return fmt.Errorf("crawl %s: %w", c.Path, err)
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read query spec: %w", err)
	}

	var spec query.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("parse query spec: %w", err)
	}

	result, err := query.ExecuteQuery(ctx, r, raw)
	if err != nil {
		return err
	}

	out := struct {
		IsFreshInstance bool             `json:"is_fresh_instance"`
		Files           []map[string]any `json:"files"`
		Clock           string           `json:"clock"`
	}{
		IsFreshInstance: result.IsFreshInstance,
		Files:           query.RenderFiles(r.Tree, fmt.Sprint(r.Number), result.Files, spec.Fields),
		Clock:           query.FormatClock(fmt.Sprint(r.Number), result.Ticks),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
