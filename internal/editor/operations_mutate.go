// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// UpdateAreaGeometry implements update-area-geometry.
func (e *Editor) UpdateAreaGeometry(ctx context.Context, areaID string, draft catalog.DraftShape) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	area, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, notFoundErr(areaID)
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return catalog.Area{}, catalog.NewError(catalog.AreaHasChildren, "area %q has explicit children", areaID)
	}
	if !draft.Closed {
		return catalog.Area{}, catalog.NewError(catalog.DraftNotClosed, "update-area-geometry requires a closed draft")
	}
	if violations := catalog.ValidateDraft(draft); len(violations) > 0 {
		return catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "draft failed validation: %v", violations)
	}

	before := area.Clone()
	ring := catalog.MaterializeExteriorRing(draft.Points)
	area.Geometry = catalog.GeometryFromPolygon(ringToPolygon(ring))
	area.UpdatedAt = e.now()
	e.areas.Update(area)

	pairs, err := e.prop.Propagate(area.ParentID)
	if err != nil {
		return catalog.Area{}, err
	}

	entry := catalog.HistoryEntry{
		Modified: append([]catalog.ModifiedPair{{Before: before, After: area}}, pairs...),
	}
	if err := e.commit(ctx, entry); err != nil {
		return area, err
	}
	return area, nil
}

// RenameArea implements rename-area: display_name only, no propagation.
func (e *Editor) RenameArea(ctx context.Context, areaID, name string) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	area, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, notFoundErr(areaID)
	}

	before := area.Clone()
	area.DisplayName = name
	area.UpdatedAt = e.now()
	e.areas.Update(area)

	entry := catalog.HistoryEntry{Modified: []catalog.ModifiedPair{{Before: before, After: area}}}
	if err := e.commit(ctx, entry); err != nil {
		return area, err
	}
	return area, nil
}

// DeleteArea implements delete-area, with optional cascade to explicit
// descendants.
func (e *Editor) DeleteArea(ctx context.Context, areaID string, cascade bool) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}
	target, ok := e.areas.GetReal(areaID)
	if !ok {
		return notFoundErr(areaID)
	}

	var toDelete []catalog.Area
	if cascade {
		toDelete = e.collectSubtree(target)
	} else {
		if len(e.areas.ExplicitChildren(areaID)) > 0 {
			return catalog.NewError(catalog.AreaHasChildren, "area %q has explicit children", areaID)
		}
		toDelete = []catalog.Area{target}
	}

	deletedSnapshots := make([]catalog.Area, 0, len(toDelete))
	for _, a := range toDelete {
		deletedSnapshots = append(deletedSnapshots, a.Clone())
		e.areas.Delete(a.ID)
	}

	pairs, err := e.prop.Propagate(target.ParentID)
	if err != nil {
		return err
	}

	entry := catalog.HistoryEntry{Deleted: deletedSnapshots, Modified: pairs}
	return e.commit(ctx, entry)
}

// collectSubtree does a BFS over explicit children, target first.
func (e *Editor) collectSubtree(target catalog.Area) []catalog.Area {
	out := []catalog.Area{target}
	queue := []string{target.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range e.areas.ExplicitChildren(id) {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// ReparentArea swaps an area's parent. It deliberately performs NO
// ancestor propagation on either the old or new parent chain: the caller
// is trusted to only move areas whose footprint already matches what the
// new parent's union implies, so geometries can go stale otherwise. See
// DESIGN.md.
func (e *Editor) ReparentArea(ctx context.Context, areaID string, newParentID *string) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	area, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, notFoundErr(areaID)
	}

	level, _ := e.levels.Get(area.LevelKey)

	if newParentID != nil {
		newParent, ok := e.areas.GetReal(*newParentID)
		if !ok {
			return catalog.Area{}, notFoundErr(*newParentID)
		}
		if level.ParentLevelKey == nil || *level.ParentLevelKey != newParent.LevelKey {
			return catalog.Area{}, catalog.NewError(catalog.LevelMismatch,
				"area %q's level does not fit under new parent's level %q", areaID, newParent.LevelKey)
		}
	} else if level.ParentLevelKey != nil {
		return catalog.Area{}, catalog.NewError(catalog.LevelMismatch,
			"area %q's level is not a root level", areaID)
	}

	if area.ParentID != nil {
		siblingCount := 0
		for _, sib := range e.areas.ExplicitChildren(*area.ParentID) {
			if sib.ID != areaID {
				siblingCount++
			}
		}
		if siblingCount == 0 {
			return catalog.Area{}, catalog.NewError(catalog.ParentWouldBeEmpty,
				"area %q is the only explicit child of %q", areaID, *area.ParentID)
		}
	}

	if newParentID != nil && e.isDescendant(*newParentID, areaID) {
		return catalog.Area{}, catalog.NewError(catalog.CircularReference,
			"new parent %q is a descendant of %q", *newParentID, areaID)
	}

	before := area.Clone()
	area.ParentID = newParentID
	area.UpdatedAt = e.now()
	e.areas.Update(area)

	entry := catalog.HistoryEntry{Modified: []catalog.ModifiedPair{{Before: before, After: area}}}
	if err := e.commit(ctx, entry); err != nil {
		return area, err
	}
	return area, nil
}

// isDescendant reports whether candidateID is areaID or a descendant of
// areaID via the explicit-child graph, found by BFS.
func (e *Editor) isDescendant(candidateID, areaID string) bool {
	if candidateID == areaID {
		return true
	}
	queue := []string{areaID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range e.areas.ExplicitChildren(id) {
			if child.ID == candidateID {
				return true
			}
			queue = append(queue, child.ID)
		}
	}
	return false
}

// MergeArea implements merge-area. Ancestor propagation is skipped:
// Union(a,b,...others) = Union(a∪b, ...others) by associativity, so the
// parent's union is unaffected by fusing two siblings.
func (e *Editor) MergeArea(ctx context.Context, areaID, otherAreaID string) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	a, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, notFoundErr(areaID)
	}
	b, ok := e.areas.GetReal(otherAreaID)
	if !ok {
		return catalog.Area{}, notFoundErr(otherAreaID)
	}
	if !samePointer(a.ParentID, b.ParentID) {
		return catalog.Area{}, catalog.NewError(catalog.LevelMismatch, "areas %q and %q are not siblings", areaID, otherAreaID)
	}
	if a.LevelKey != b.LevelKey {
		return catalog.Area{}, catalog.NewError(catalog.LevelMismatch, "areas %q and %q are not at the same level", areaID, otherAreaID)
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 || len(e.areas.ExplicitChildren(otherAreaID)) > 0 {
		return catalog.Area{}, catalog.NewError(catalog.AreaHasChildren, "merge-area requires both partners to have no explicit children")
	}

	union, err := e.kernel.Union([]catalog.Geometry{a.Geometry, b.Geometry})
	if err != nil {
		return catalog.Area{}, err
	}

	before := a.Clone()
	a.Geometry = union
	a.UpdatedAt = e.now()
	e.areas.Update(a)

	deletedSnapshot := b.Clone()
	e.areas.Delete(otherAreaID)

	entry := catalog.HistoryEntry{
		Deleted:  []catalog.Area{deletedSnapshot},
		Modified: []catalog.ModifiedPair{{Before: before, After: a}},
	}
	if err := e.commit(ctx, entry); err != nil {
		return a, err
	}
	return a, nil
}

func samePointer(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
