// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package syncutil provides mutex wrappers that log a debug message when
// a critical section is held longer than a threshold. It is used for the
// small state locks that would otherwise be a bare sync.Mutex, and its
// LogSlowHold serves the lock manager, so that a wedged lock or a slow
// ingestion batch shows up in the debug logs instead of as a silent
// stall.
package syncutil

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/watchtree/watchtree/lib/logger"
)

// LogSlowHold logs via l when a critical section held since start ran
// longer than the configured threshold. It exists so that callers who
// can't hold a syncutil.Mutex directly — lockmgr's reader/writer lock,
// whose critical section spans a caller-held interval rather than a
// single Lock/Unlock pair — still get the same "wedged lock" visibility
// NewMutex and NewRWMutex give their own critical sections.
func LogSlowHold(l logger.Logger, label string, start time.Time) {
	if d := time.Since(start); d >= threshold {
		l.Debugf("%s held for %v", label, d)
	}
}

var (
	threshold = 100 * time.Millisecond
	l         = logger.Default.NewFacility("syncutil")
)

func init() {
	if n, _ := strconv.Atoi(os.Getenv("WATCHTREE_LOCKTHRESHOLD")); n > 0 {
		threshold = time.Duration(n) * time.Millisecond
	}
}

// Mutex is a drop-in for sync.Mutex that can log long hold times.
type Mutex interface {
	Lock()
	Unlock()
}

// RWMutex is a drop-in for sync.RWMutex that can log long hold times.
type RWMutex interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// NewMutex returns a plain sync.Mutex, or a logging wrapper when the
// "syncutil" debug facility is enabled.
func NewMutex() Mutex {
	if l.ShouldDebug("syncutil") {
		return &loggedMutex{}
	}
	return &sync.Mutex{}
}

// NewRWMutex returns a plain sync.RWMutex, or a logging wrapper when the
// "syncutil" debug facility is enabled.
func NewRWMutex() RWMutex {
	if l.ShouldDebug("syncutil") {
		return &loggedRWMutex{}
	}
	return &sync.RWMutex{}
}

type loggedMutex struct {
	sync.Mutex
	start time.Time
}

func (m *loggedMutex) Lock() {
	m.Mutex.Lock()
	m.start = time.Now()
}

func (m *loggedMutex) Unlock() {
	d := time.Since(m.start)
	if d >= threshold {
		l.Debugf("Mutex held for %v", d)
	}
	m.Mutex.Unlock()
}

type loggedRWMutex struct {
	sync.RWMutex
	start time.Time
}

func (m *loggedRWMutex) Lock() {
	m.RWMutex.Lock()
	m.start = time.Now()
}

func (m *loggedRWMutex) Unlock() {
	d := time.Since(m.start)
	if d >= threshold {
		l.Debugf("RWMutex held for %v (exclusive)", d)
	}
	m.RWMutex.Unlock()
}

func (m *loggedRWMutex) RLock() {
	m.RWMutex.RLock()
}

func (m *loggedRWMutex) RUnlock() {
	m.RWMutex.RUnlock()
}
