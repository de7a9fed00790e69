// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package svcutil classifies the two ways a root's supervised services
// (the ingestion pipeline, the age-out reaper) can stop without being
// restarted: the root became unusable and the whole watch on it must be
// torn down (RootFatalErr), or the root was cancelled on purpose and the
// service should simply not be restarted (NoRestartErr). It also carries
// the event-hook suture.Spec wiring the daemon's top-level supervisor and
// per-root supervisors share.
package svcutil

import (
	"errors"
	"time"

	"github.com/watchtree/watchtree/lib/logger"

	"github.com/thejerf/suture/v4"
)

const ServiceTimeout = 10 * time.Second

// RootCause identifies why a root's services are being terminated for
// good, replacing the donor's generic process-exit-code enum (which
// includes upgrade/restart statuses this system has no use for) with the
// actual fatal conditions a watched root can hit.
type RootCause int

const (
	// CauseWatchUnavailable means the backend could not establish a
	// watch on the root path at all (permission lost, path removed
	// before the initial crawl).
	CauseWatchUnavailable RootCause = iota
	// CauseCrawlFailed means the initial crawl could not complete.
	CauseCrawlFailed
	// CauseBackendLost means the watch backend reported its own
	// cancellation mid-run (the watched root itself was deleted,
	// renamed, or revoked).
	CauseBackendLost
)

func (c RootCause) String() string {
	switch c {
	case CauseWatchUnavailable:
		return "watch unavailable"
	case CauseCrawlFailed:
		return "crawl failed"
	case CauseBackendLost:
		return "backend lost"
	default:
		return "unknown"
	}
}

// RootFatalErr marks an error that should terminate every service
// watching the same root rather than trigger a restart of just the
// failing one.
type RootFatalErr struct {
	Err   error
	Cause RootCause
}

// AsRootFatalErr wraps err as a RootFatalErr for the given cause, unless
// it already is one.
func AsRootFatalErr(err error, cause RootCause) *RootFatalErr {
	var ferr *RootFatalErr
	if errors.As(err, &ferr) {
		return ferr
	}
	return &RootFatalErr{Err: err, Cause: cause}
}

func (e *RootFatalErr) Error() string {
	return e.Cause.String() + ": " + e.Err.Error()
}

func (e *RootFatalErr) Unwrap() error { return e.Err }

func (e *RootFatalErr) Is(target error) bool {
	return target == suture.ErrTerminateSupervisorTree
}

// NoRestartErr wraps err (which may be nil) so that
// errors.Is(err, suture.ErrDoNotRestart) is true, telling the supervisor
// the service exited on purpose — the root was cancelled — and should
// not be restarted.
func NoRestartErr(err error) error {
	if err == nil {
		return suture.ErrDoNotRestart
	}
	return &noRestartErr{err}
}

type noRestartErr struct{ err error }

func (e *noRestartErr) Error() string { return e.err.Error() }
func (e *noRestartErr) Unwrap() error { return e.err }

func (e *noRestartErr) Is(target error) bool {
	return target == suture.ErrDoNotRestart
}

// SpecWithInfoLogger returns the suture.Spec used by every per-root and
// top-level supervisor in this daemon: service add/remove/panic events
// logged at info level, panics passed through rather than swallowed, and
// a supervisor tree's termination propagated to its parent
// (DontPropagateTermination is false).
func SpecWithInfoLogger(l logger.Logger) suture.Spec {
	return suture.Spec{
		EventHook:                func(e suture.Event) { l.Infoln(e) },
		Timeout:                  ServiceTimeout,
		PassThroughPanics:        true,
		DontPropagateTermination: false,
	}
}
