// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package history

import (
	"strconv"
	"testing"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/stretchr/testify/require"
)

func entry(id string) catalog.HistoryEntry {
	return catalog.HistoryEntry{Created: []catalog.Area{{ID: id}}}
}

func TestPushClearsRedo(t *testing.T) {
	h := New(10)
	h.Push(entry("a"))
	h.Push(entry("b"))

	e, ok := h.PopUndo()
	require.True(t, ok)
	require.Equal(t, "b", e.Created[0].ID)
	h.PushRedo(e)
	require.Equal(t, 1, h.RedoDepth())

	h.Push(entry("c"))
	require.Equal(t, 0, h.RedoDepth())
}

func TestBoundDiscardsOldest(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Push(entry(strconv.Itoa(i)))
	}
	require.Equal(t, 3, h.UndoDepth())

	var got []string
	for {
		e, ok := h.PopUndo()
		if !ok {
			break
		}
		got = append(got, e.Created[0].ID)
	}
	require.Equal(t, []string{"4", "3", "2"}, got)
}

func TestUndoRedoToggleKeepsEntries(t *testing.T) {
	h := New(10)
	h.Push(entry("a"))
	h.Push(entry("b"))

	e, _ := h.PopUndo()
	h.PushRedo(e)
	e, _ = h.PopRedo()
	h.PushUndo(e)

	require.Equal(t, 2, h.UndoDepth())
	require.Equal(t, 0, h.RedoDepth())
}

func TestEmptyStacks(t *testing.T) {
	h := New(0) // falls back to the default bound
	_, ok := h.PopUndo()
	require.False(t, ok)
	_, ok = h.PopRedo()
	require.False(t, ok)
}
