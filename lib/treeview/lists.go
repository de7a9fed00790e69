// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package treeview

// recencyPushHead inserts f at the head of the recency list. f must not
// already be linked (callers unlink first).
func (t *Tree) recencyPushHead(f *File) {
	f.recPrev = 0
	f.recNext = t.recHead
	if t.recHead != 0 {
		t.files[t.recHead].recPrev = f.id
	}
	t.recHead = f.id
	if t.recTail == 0 {
		t.recTail = f.id
	}
}

// recencyUnlink removes f from the recency list if it is currently
// linked. Safe to call on a file that was never linked.
func (t *Tree) recencyUnlink(f *File) {
	wasLinked := f.recPrev != 0 || f.recNext != 0 || t.recHead == f.id || t.recTail == f.id
	if !wasLinked {
		return
	}
	if f.recPrev != 0 {
		t.files[f.recPrev].recNext = f.recNext
	} else {
		t.recHead = f.recNext
	}
	if f.recNext != 0 {
		t.files[f.recNext].recPrev = f.recPrev
	} else {
		t.recTail = f.recPrev
	}
	f.recPrev, f.recNext = 0, 0
}

// RecencyHead returns the id of the most recently touched file, or 0.
func (t *Tree) RecencyHead() FileID { return t.recHead }

// RecencyTail returns the id of the least recently touched file, or 0.
func (t *Tree) RecencyTail() FileID { return t.recTail }

// RecencyNext returns the file after id (towards the tail), or 0.
func (t *Tree) RecencyNext(id FileID) FileID {
	if id == 0 {
		return 0
	}
	return t.files[id].recNext
}

// RecencyPrev returns the file before id (towards the head), or 0.
func (t *Tree) RecencyPrev(id FileID) FileID {
	if id == 0 {
		return 0
	}
	return t.files[id].recPrev
}

// suffixPushHead inserts f at the head of its suffix bucket.
func (t *Tree) suffixPushHead(f *File) {
	head := t.suffixHeads[f.suffix]
	f.sufPrev = 0
	f.sufNext = head
	if head != 0 {
		t.files[head].sufPrev = f.id
	}
	t.suffixHeads[f.suffix] = f.id
}

// suffixUnlink removes f from its suffix bucket, if linked.
func (t *Tree) suffixUnlink(f *File) {
	if !f.sufLinked {
		return
	}
	if f.sufPrev != 0 {
		t.files[f.sufPrev].sufNext = f.sufNext
	} else if t.suffixHeads[f.suffix] == f.id {
		t.suffixHeads[f.suffix] = f.sufNext
	}
	if f.sufNext != 0 {
		t.files[f.sufNext].sufPrev = f.sufPrev
	}
	f.sufPrev, f.sufNext = 0, 0
	f.sufLinked = false
}

// SuffixHead returns the head of the bucket for the lowercase suffix s,
// or 0 if the bucket is empty or has never been created. Buckets are
// created on demand and never deleted, per the suffix index invariant.
func (t *Tree) SuffixHead(s string) FileID { return t.suffixHeads[s] }

// SuffixNext returns the next file in the same suffix bucket as id, or 0.
func (t *Tree) SuffixNext(id FileID) FileID {
	if id == 0 {
		return 0
	}
	return t.files[id].sufNext
}
