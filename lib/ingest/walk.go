// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/watchtree/watchtree/lib/treeview"
	"github.com/watchtree/watchtree/lib/watch"
)

// relPath maps an absolute (or backend-native) path onto a root-relative,
// forward-slash path, reporting false if it does not lie under the
// root's path at all — a stray event from a backend watching a wider
// scope than this root, which ingestion silently ignores.
func (p *Pipeline) relPath(abs string) (string, bool) {
	rel, err := filepath.Rel(p.Root.Path, abs)
	if err != nil || rel == "." {
		return "", err == nil
	}
	if strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// applyStat updates the tree for one successfully-stated path: a
// directory is resolved (created if new) and marked present, then
// re-enumerated when the entry says its sibling set may have changed; a
// file is resolved to its parent, created if new, and has its stat/
// otime/recency updated unconditionally. Each file touched gets its own
// freshly advanced tick, since this is one mutation applied to the tree
// regardless of how many more entries enumerateDir still has to process.
func (p *Pipeline) applyStat(rel, absPath string, info fs.FileInfo, now time.Time, flags watch.EventFlag) error {
	if info.IsDir() {
		dirID, _ := p.Root.Tree.Resolve(rel, true)
		p.Root.Tree.Dir(dirID).LastCheckExisted = true
		if flags&(watch.Recursive|watch.ViaNotify) != 0 {
			return p.enumerateDir(dirID, rel, now, false)
		}
		return nil
	}

	parent, leaf := splitParentLeaf(rel)
	parentID, _ := p.Root.Tree.Resolve(parent, true)
	tick := p.Root.Clock.Advance()
	fid := p.Root.Tree.GetOrCreateChildFile(parentID, leaf, now, tick)
	p.updateFile(fid, absPath, info, now, tick)
	return nil
}

// updateFile stamps the tree's file record from a fresh stat result.
func (p *Pipeline) updateFile(fid treeview.FileID, absPath string, info fs.FileInfo, now time.Time, tick uint32) {
	f := p.Root.Tree.File(fid)
	f.Exists = true
	f.MaybeDeleted = false
	f.Stat = treeview.StatFromPath(absPath, info)
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := os.Readlink(absPath); err == nil {
			f.SymlinkTarget = target
		}
	} else {
		f.SymlinkTarget = ""
	}
	p.Root.Tree.MarkFileChanged(fid, now, tick)
}

// markDeleted records that rel no longer exists: a directory recursively
// tombstones its known contents, a file (or an unresolved path, which
// might name either) is looked up directly and tombstoned if found. The
// tombstone is its own mutation and gets its own freshly advanced tick.
func (p *Pipeline) markDeleted(rel string, now time.Time) {
	t := p.Root.Tree
	if dirID, ok := t.Resolve(rel, false); ok {
		t.Dir(dirID).LastCheckExisted = false
		t.MarkDirDeleted(dirID, now, p.Root.Clock.Advance(), true)
		return
	}
	parent, leaf := splitParentLeaf(rel)
	parentID, ok := t.Resolve(parent, false)
	if !ok {
		return
	}
	fid, ok := t.ChildFile(parentID, leaf)
	if !ok {
		return
	}
	f := t.File(fid)
	if f.Exists {
		f.Exists = false
		t.MarkFileChanged(fid, now, p.Root.Clock.Advance())
	}
}

// enumerateDir reads dirID's contents from disk and reconciles them
// against the tree: new entries are created, known entries are updated,
// and known entries no longer present on disk are marked deleted.
// recurse forces re-enumeration of every subdirectory regardless of its
// own change flags — used for the initial crawl and for a scheduled
// recrawl, both of which must see the whole subtree as of one pass. Each
// file created, updated, or tombstoned on its own along the way gets its
// own freshly advanced tick — a crawl touching many files still produces
// a strictly increasing tick per mutation, never one tick shared across
// an entire pass. A directory found gone is tombstoned as one mutation,
// so every file under it shares that one tick.
func (p *Pipeline) enumerateDir(dirID treeview.DirID, rel string, now time.Time, recurse bool) error {
	fullPath := filepath.Join(p.Root.Path, filepath.FromSlash(rel))
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if isMissing(err) {
			p.Root.Tree.Dir(dirID).LastCheckExisted = false
			p.Root.Tree.MarkDirDeleted(dirID, now, p.Root.Clock.Advance(), true)
			return nil
		}
		return err
	}

	t := p.Root.Tree
	t.Dir(dirID).LastCheckExisted = true
	seenFiles := make(map[string]struct{}, len(entries))
	seenDirs := make(map[string]struct{}, len(entries))

	for _, ent := range entries {
		name := ent.Name()
		childRel := path.Join(rel, name)
		childAbs := filepath.Join(fullPath, name)
		info, err := ent.Info()
		if err != nil {
			// Raced with a delete between readdir and stat; the next pass
			// (notify event or recrawl) will reconcile it.
			continue
		}
		if info.IsDir() {
			seenDirs[name] = struct{}{}
			childID, _ := t.Resolve(childRel, true)
			t.Dir(childID).LastCheckExisted = true
			if recurse {
				if err := p.enumerateDir(childID, childRel, now, true); err != nil {
					return err
				}
			}
			continue
		}
		seenFiles[name] = struct{}{}
		tick := p.Root.Clock.Advance()
		fid := t.GetOrCreateChildFile(dirID, name, now, tick)
		p.updateFile(fid, childAbs, info, now, tick)
	}

	p.pruneUnseen(dirID, seenFiles, seenDirs, now)
	return nil
}

// pruneUnseen tombstones direct children of dir that were not observed
// in the most recent enumeration pass, each as its own mutation with its
// own freshly advanced tick.
func (p *Pipeline) pruneUnseen(dirID treeview.DirID, seenFiles, seenDirs map[string]struct{}, now time.Time) {
	t := p.Root.Tree
	t.ForEachChildFile(dirID, func(fid treeview.FileID) {
		f := t.File(fid)
		if !f.Exists {
			return
		}
		if _, ok := seenFiles[f.Name.String()]; ok {
			return
		}
		f.Exists = false
		t.MarkFileChanged(fid, now, p.Root.Clock.Advance())
	})
	t.ForEachChildDir(dirID, func(cid treeview.DirID) {
		d := t.Dir(cid)
		if _, ok := seenDirs[d.Name.String()]; ok {
			return
		}
		if d.LastCheckExisted {
			d.LastCheckExisted = false
			t.MarkDirDeleted(cid, now, p.Root.Clock.Advance(), true)
		}
	})
}

// splitParentLeaf splits a root-relative path into its parent directory
// path and leaf component. "a/b/c" -> ("a/b", "c"); "c" -> ("", "c").
func splitParentLeaf(rel string) (string, string) {
	idx := strings.LastIndexByte(rel, '/')
	if idx < 0 {
		return "", rel
	}
	return rel[:idx], rel[idx+1:]
}

func lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// isMissing reports whether err indicates the path is simply gone —
// ENOENT or ENOTDIR — as opposed to a transient or permission failure
// that instead warrants a recrawl.
func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
