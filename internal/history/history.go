// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package history implements the editor's bounded double stack of
// HistoryEntry values supporting reverse/forward application.
package history

import "github.com/geocatalog/catalog-editor/pkg/catalog"

// History holds the undo and redo stacks. Not safe for concurrent use.
type History struct {
	maxUndoSteps int
	undo         []catalog.HistoryEntry
	redo         []catalog.HistoryEntry
}

func New(maxUndoSteps int) *History {
	if maxUndoSteps <= 0 {
		maxUndoSteps = 100
	}
	return &History{maxUndoSteps: maxUndoSteps}
}

// Push records a successful operation's entry, clears the redo stack, and
// trims the oldest undo entry if the bound is exceeded.
func (h *History) Push(entry catalog.HistoryEntry) {
	h.undo = append(h.undo, entry)
	h.redo = nil
	if len(h.undo) > h.maxUndoSteps {
		h.undo = h.undo[len(h.undo)-h.maxUndoSteps:]
	}
}

// PopUndo removes and returns the most recent undo entry, or false if the
// undo stack is empty.
func (h *History) PopUndo() (catalog.HistoryEntry, bool) {
	if len(h.undo) == 0 {
		return catalog.HistoryEntry{}, false
	}
	entry := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return entry, true
}

// PushRedo records an entry just undone so a subsequent Redo can reapply
// it.
func (h *History) PushRedo(entry catalog.HistoryEntry) {
	h.redo = append(h.redo, entry)
}

// PopRedo removes and returns the most recent redo entry, or false if the
// redo stack is empty.
func (h *History) PopRedo() (catalog.HistoryEntry, bool) {
	if len(h.redo) == 0 {
		return catalog.HistoryEntry{}, false
	}
	entry := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return entry, true
}

// PushUndo records an entry just redone so a subsequent Undo can reverse
// it again. Unlike Push it leaves the redo stack intact (redo/undo
// toggling must not lose history); it still enforces the undo bound.
func (h *History) PushUndo(entry catalog.HistoryEntry) {
	h.undo = append(h.undo, entry)
	if len(h.undo) > h.maxUndoSteps {
		h.undo = h.undo[len(h.undo)-h.maxUndoSteps:]
	}
}

// UndoDepth and RedoDepth expose stack sizes for metrics/tests.
func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }
