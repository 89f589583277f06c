// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"time"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// areaLookup is the boxed value stored in e.cache for implicit-id
// resolutions; the cache deals in interface{}, so the (area, ok) pair is
// boxed as one value.
type areaLookup struct {
	area catalog.Area
	ok   bool
}

// implicitCacheTTL bounds how long a synthesized ImplicitArea projection
// may be reused within one operation; operations never run long enough
// for this to matter, it only guards against the cache outliving a
// forgotten requireInitialized reset.
const implicitCacheTTL = 10 * time.Second

// GetArea resolves id, real or implicit. Queries never fail with "not
// found": absent lookups return (zero value, false). Implicit
// projections are memoized in e.cache for the lifetime of the current
// operation.
func (e *Editor) GetArea(id string) (catalog.Area, bool) {
	if !catalog.IsImplicitID(id) {
		return e.areas.Get(id)
	}
	v := e.cache.GetOrCompute("area:"+id, func() (interface{}, time.Duration) {
		area, ok := e.areas.Get(id)
		return areaLookup{area, ok}, implicitCacheTTL
	})
	res := v.(areaLookup)
	return res.area, res.ok
}

// GetChildren returns the conceptual children of parentID: explicit real
// children if any exist, else a synthesized implicit child, else empty.
// Memoized per operation like GetArea.
func (e *Editor) GetChildren(parentID string) []catalog.Area {
	v := e.cache.GetOrCompute("children:"+parentID, func() (interface{}, time.Duration) {
		children := e.areas.GetChildren(parentID)
		return children, implicitCacheTTL
	})
	return v.([]catalog.Area)
}

// GetRoots returns every real area with no parent.
func (e *Editor) GetRoots() []catalog.Area {
	return e.areas.GetRoots()
}

// GetAllAreas returns every real area.
func (e *Editor) GetAllAreas() []catalog.Area {
	return e.areas.GetAll()
}

// GetByLevel returns every real area at the given level key.
func (e *Editor) GetByLevel(key string) []catalog.Area {
	return e.areas.GetByLevel(key)
}

// GetAllLevels returns the declared level taxonomy in insertion order.
func (e *Editor) GetAllLevels() []catalog.AreaLevel {
	return e.levels.All()
}

// GetLevel resolves a single level by key.
func (e *Editor) GetLevel(key string) (catalog.AreaLevel, bool) {
	return e.levels.Get(key)
}

// ValidateDraft runs the pure Draft Validator predicates without mutating
// anything.
func (e *Editor) ValidateDraft(d catalog.DraftShape) []catalog.ViolationCode {
	return catalog.ValidateDraft(d)
}

// UndoDepth and RedoDepth expose the current stack sizes, used by the
// metrics and REST layers.
func (e *Editor) UndoDepth() int { return e.hist.UndoDepth() }
func (e *Editor) RedoDepth() int { return e.hist.RedoDepth() }

// AreaCount returns the number of real areas currently stored.
func (e *Editor) AreaCount() int { return e.areas.Len() }
