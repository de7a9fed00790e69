// Copyright (C) 2024 The watchtree Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package query

import (
	"os"

	"github.com/watchtree/watchtree/lib/treeview"
)

// RenderFiles projects each match onto the requested result fields,
// producing the JSON-ready shape of the "files" array in the result
// surface. An empty field list defaults to "name" only. rootID is used
// to render the oclock/cclock fields' clockspec strings.
func RenderFiles(t *treeview.Tree, rootID string, matches []RuleMatch, fields []string) []map[string]any {
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	out := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		f := t.File(m.FileID)
		row := make(map[string]any, len(fields))
		for _, field := range fields {
			switch field {
			case "name":
				row["name"] = m.RelName
			case "exists":
				row["exists"] = f.Exists
			case "size":
				row["size"] = f.Stat.Size
			case "mtime":
				row["mtime"] = f.Stat.Mtime.Unix()
			case "mode":
				row["mode"] = uint32(f.Stat.Mode)
			case "new":
				row["new"] = m.IsNew
			case "type":
				row["type"] = fileTypeChar(f)
			case "oclock":
				row["oclock"] = FormatClock(rootID, f.OTime.Tick)
			case "cclock":
				row["cclock"] = FormatClock(rootID, f.CTime.Tick)
			}
		}
		out = append(out, row)
	}
	return out
}

func fileTypeChar(f *treeview.File) string {
	if f.Stat.Mode&os.ModeSymlink != 0 || f.SymlinkTarget != "" {
		return "l"
	}
	return "f"
}
