// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package lockmgr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMultipleReadersCoexist(t *testing.T) {
	lk := New()
	ctx := context.Background()

	unlock1, err := lk.RLock(ctx)
	if err != nil {
		t.Fatalf("RLock 1: %v", err)
	}
	unlock2, err := lk.RLock(ctx)
	if err != nil {
		t.Fatalf("RLock 2: %v", err)
	}
	unlock1()
	unlock2()
}

func TestWriterExcludesReaders(t *testing.T) {
	lk := New()
	ctx := context.Background()

	unlock, err := lk.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := lk.RLock(timeout); !errors.Is(err, ErrTimeout) {
		t.Errorf("RLock while a writer holds the lock: got %v, want ErrTimeout", err)
	}
	unlock()
}

func TestLockTimesOutUnderContention(t *testing.T) {
	lk := New()
	ctx := context.Background()

	unlock, err := lk.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := lk.Lock(timeout); !errors.Is(err, ErrTimeout) {
		t.Errorf("second Lock: got %v, want ErrTimeout", err)
	}
}

func TestCancelFailsPendingAndFutureAcquisitions(t *testing.T) {
	lk := New()
	ctx := context.Background()

	lk.Cancel()

	if _, err := lk.RLock(ctx); !errors.Is(err, ErrCancelled) {
		t.Errorf("RLock after Cancel: got %v, want ErrCancelled", err)
	}
	if _, err := lk.Lock(ctx); !errors.Is(err, ErrCancelled) {
		t.Errorf("Lock after Cancel: got %v, want ErrCancelled", err)
	}
	if !lk.Cancelled() {
		t.Error("Cancelled() should report true after Cancel")
	}
}
