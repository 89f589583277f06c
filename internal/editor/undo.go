// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/lrucache"
)

// Undo reverses the most recent history entry against the Area Store:
// deletes each created area, re-inserts each deleted area, and rolls each
// modified pair's after-image back to before. Returns the affected areas,
// or (nil, false) if the undo stack is empty. Undo does not call the
// persistence adapter: replaying history to storage is the caller's
// decision (in-memory state and the adapter are already decoupled the
// moment a StorageError can leave them out of sync).
func (e *Editor) Undo() ([]catalog.Area, bool) {
	entry, ok := e.hist.PopUndo()
	if !ok {
		return nil, false
	}
	e.cache = lrucache.New(queryCacheEntries)
	affected := e.applyReverse(entry)
	e.hist.PushRedo(entry)
	return affected, true
}

// Redo reapplies the most recently undone entry. Returns (nil, false) if
// the redo stack is empty.
func (e *Editor) Redo() ([]catalog.Area, bool) {
	entry, ok := e.hist.PopRedo()
	if !ok {
		return nil, false
	}
	e.cache = lrucache.New(queryCacheEntries)
	affected := e.applyForward(entry)
	e.hist.PushUndo(entry)
	return affected, true
}

func (e *Editor) applyReverse(entry catalog.HistoryEntry) []catalog.Area {
	var affected []catalog.Area
	for _, a := range entry.Created {
		e.areas.Delete(a.ID)
		affected = append(affected, a)
	}
	for _, a := range entry.Deleted {
		e.areas.Add(a)
		affected = append(affected, a)
	}
	for _, pair := range entry.Modified {
		e.areas.Update(pair.Before)
		affected = append(affected, pair.Before)
	}
	return affected
}

func (e *Editor) applyForward(entry catalog.HistoryEntry) []catalog.Area {
	var affected []catalog.Area
	for _, a := range entry.Created {
		e.areas.Add(a)
		affected = append(affected, a)
	}
	for _, a := range entry.Deleted {
		e.areas.Delete(a.ID)
		affected = append(affected, a)
	}
	for _, pair := range entry.Modified {
		e.areas.Update(pair.After)
		affected = append(affected, pair.After)
	}
	return affected
}
