// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package watch defines the watcher adapter contract that the ingestion
// pipeline drives, plus one reference backend implementing it over
// github.com/syncthing/notify. OS-specific backends beyond the reference
// implementation are out of scope: the contract is the abstraction
// boundary, not any particular backend.
package watch

import "time"

// EventFlag marks properties of a pending entry produced by a backend.
type EventFlag uint8

const (
	// Recursive indicates the backend cannot tell which descendants of a
	// directory changed, so ingestion must re-enumerate it.
	Recursive EventFlag = 1 << iota
	// ViaNotify indicates the entry originated from an OS notification
	// rather than an explicit recrawl request.
	ViaNotify
)

// BackendEvent is a single OS-level change notification, independent of
// any particular backend's native event representation.
type BackendEvent struct {
	Path string
	Op   Op
}

// Op enumerates the change kinds a backend may report. Backends map their
// native event constants onto this set.
type Op uint16

const (
	Delete Op = 1 << iota
	Write
	Extend
	Attrib
	Link
	Rename
	Revoke
)

// PendingEntry is one item of the pending collection the ingestion
// pipeline drains in FIFO order.
type PendingEntry struct {
	Path       string
	ObservedAt time.Time
	Flags      EventFlag
}

// PendingCollection is the FIFO batch of entries a backend delivers to
// ingestion per notification cycle.
type PendingCollection = []PendingEntry

// DirHandle is an opaque handle returned by StartWatchDir, used only to
// hand back to StopWatchDir.
type DirHandle interface{}

// Backend is the external collaborator contract ingestion drives. A
// concrete backend owns its own OS resources and its own mutex guarding
// them; it never touches the root's tree lock.
type Backend interface {
	// StartWatchDir begins observing path and returns an opened handle
	// usable for enumeration, or an error if the path could not be
	// opened (ENOENT/ENOTDIR/EACCES) — a replacement race between open
	// and stat must be detected and reported as an error, never silently
	// ignored.
	StartWatchDir(path string) (DirHandle, error)
	// StopWatchDir releases OS resources associated with handle. Calling
	// it more than once, or with an already-released handle, is a no-op.
	StopWatchDir(handle DirHandle)
	// StartWatchFile begins observing a single file for backends that
	// require per-file watches. Returns nil even if the file is already
	// watched.
	StartWatchFile(path string) error
	// ConsumeNotify drains buffered OS events into a pending collection
	// and returns it, empty when nothing was delivered. Implementations set
	// Recursive|ViaNotify on entries whose sibling set may have changed
	// and report root deletion/rename/revocation via Cancelled.
	ConsumeNotify() (PendingCollection, error)
	// WaitNotify blocks up to timeout for events to become available,
	// returning whether any are ready.
	WaitNotify(timeout time.Duration) bool
	// Cancelled reports whether the watched root itself was deleted,
	// renamed, or revoked.
	Cancelled() bool
	// Close releases all OS resources held by the backend.
	Close()
}

// dropsWatch reports whether o includes DELETE, RENAME or REVOKE, any of
// which means the watch for that exact path must be dropped. It does not
// decide whether a directory is re-enumerated; that follows from the
// Recursive flag a backend sets on the entry.
func (o Op) dropsWatch() bool {
	return o&(Delete|Rename|Revoke) != 0
}

// DropsWatch reports whether the operation should cause the watch on its
// exact path to be released.
func (o Op) DropsWatch() bool { return o.dropsWatch() }
