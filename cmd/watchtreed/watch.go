// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/watchtree/watchtree/lib/ingest"
	"github.com/watchtree/watchtree/lib/logger"
	"github.com/watchtree/watchtree/lib/reaper"
	"github.com/watchtree/watchtree/lib/root"
	"github.com/watchtree/watchtree/lib/svcutil"
	"github.com/watchtree/watchtree/lib/watch"
)

var l = logger.Default.NewFacility("watchtreed")

// watchCmd runs the ingestion pipeline and age-out reaper for one root
// as a supervised process, until interrupted. It does not expose a
// client-facing query surface; that transport is out of this project's
// scope, per the tree-and-query-engine boundary the core is built to.
type watchCmd struct {
	Path          string        `arg:"" help:"Directory to watch"`
	Name          string        `help:"Root name, defaults to the path" default:""`
	CaseSensitive bool          `help:"Treat the tree as case-sensitive" default:"true"`
	MinAge        time.Duration `help:"Minimum tombstone age before eviction" default:"1h"`
	ReapInterval  time.Duration `help:"How often to run the age-out pass" default:"5m"`
}

func (c *watchCmd) Run() error {
	name := c.Name
	if name == "" {
		name = c.Path
	}

	backend, err := watch.NewNotifyBackend(c.Path)
	if err != nil {
		return fmt.Errorf("start watching %s: %w", c.Path, err)
	}
	defer backend.Close()

	r := root.New(1, name, c.Path, c.CaseSensitive, backend)

	spec := svcutil.SpecWithInfoLogger(l)
	sup := suture.New("watchtreed", spec)
	sup.Add(ingest.NewPipeline(r))
	sup.Add(reaper.New(r, c.MinAge, c.ReapInterval))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l.Infof("watching %s as root %q", c.Path, name)
	err = sup.Serve(ctx)
	r.Cancel()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
