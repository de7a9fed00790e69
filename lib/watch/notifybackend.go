// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package watch

import (
	"os"
	"time"

	"github.com/syncthing/notify"

	"github.com/watchtree/watchtree/lib/logger"
	"github.com/watchtree/watchtree/lib/syncutil"
)

var l = logger.Default.NewFacility("watch")

// notifyBackendBuffer bounds the channel notify delivers events on. Not
// meant to be changed outside tests.
var notifyBackendBuffer = 512

// NotifyBackend is the reference Backend implementation, built on
// github.com/syncthing/notify. It owns its own mutex protecting its
// path-to-handle bookkeeping, kept entirely separate from any root's tree
// lock, per the concurrency model's external-resource rule.
type NotifyBackend struct {
	root string

	mut       syncutil.Mutex
	watched   map[string]struct{}
	cancelled bool
	eventChan chan notify.EventInfo
}

// NewNotifyBackend starts watching root recursively and returns a ready
// Backend, or an error if the OS notification handler could not be
// installed (for example, inotify watch limits exhausted).
func NewNotifyBackend(root string) (*NotifyBackend, error) {
	b := &NotifyBackend{
		root:      root,
		mut:       syncutil.NewMutex(),
		watched:   make(map[string]struct{}),
		eventChan: make(chan notify.EventInfo, notifyBackendBuffer),
	}
	if err := notify.Watch(root+"/...", b.eventChan, notify.All); err != nil {
		notify.Stop(b.eventChan)
		return nil, err
	}
	b.watched[root] = struct{}{}
	l.Debugf("watching %s", root)
	return b, nil
}

func (b *NotifyBackend) StartWatchDir(path string) (DirHandle, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	if !info.IsDir() {
		// The directory was replaced by something else between open and
		// stat; bail rather than enumerate the wrong kind of entry.
		fd.Close()
		return nil, os.ErrInvalid
	}
	b.mut.Lock()
	b.watched[path] = struct{}{}
	b.mut.Unlock()
	return fd, nil
}

func (b *NotifyBackend) StopWatchDir(handle DirHandle) {
	fd, ok := handle.(*os.File)
	if !ok || fd == nil {
		return
	}
	fd.Close()
}

func (b *NotifyBackend) StartWatchFile(path string) error {
	// The notify backend watches recursively from the root and does not
	// require per-file registration; report success unconditionally, as
	// the contract allows.
	return nil
}

func (b *NotifyBackend) ConsumeNotify() (PendingCollection, error) {
	var out PendingCollection
	for {
		select {
		case ev, ok := <-b.eventChan:
			if !ok {
				return out, nil
			}
			out = append(out, b.translate(ev))
		default:
			return out, nil
		}
	}
}

func (b *NotifyBackend) translate(ev notify.EventInfo) PendingEntry {
	op := translateOp(ev.Event())
	path := ev.Path()
	if path == b.root && op.DropsWatch() {
		b.mut.Lock()
		b.cancelled = true
		b.mut.Unlock()
		l.Infof("root %s lost: %v", b.root, ev.Event())
	}
	flags := ViaNotify
	if op&(notifyCreateOp|notifyDeleteOp) != 0 {
		flags |= Recursive
	}
	return PendingEntry{Path: path, ObservedAt: time.Now(), Flags: flags}
}

func (b *NotifyBackend) WaitNotify(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case ev := <-b.eventChan:
		// Put it back so ConsumeNotify can translate it uniformly.
		go func() { b.eventChan <- ev }()
		return true
	case <-t.C:
		return false
	}
}

func (b *NotifyBackend) Cancelled() bool {
	b.mut.Lock()
	defer b.mut.Unlock()
	return b.cancelled
}

func (b *NotifyBackend) Close() {
	notify.Stop(b.eventChan)
}

const (
	notifyCreateOp Op = 1 << 15
	notifyDeleteOp Op = 1 << 14
)

func translateOp(ev notify.Event) Op {
	var op Op
	if ev&notify.Create != 0 {
		op |= notifyCreateOp | Link
	}
	if ev&notify.Remove != 0 {
		op |= notifyDeleteOp | Delete
	}
	if ev&notify.Write != 0 {
		op |= Write
	}
	if ev&notify.Rename != 0 {
		op |= Rename
	}
	return op
}
