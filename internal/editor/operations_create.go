// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// validateSaveAsArea checks every precondition of save-as-area without
// mutating anything, so bulk-create can fail fast.
func (e *Editor) validateSaveAsArea(draft catalog.DraftShape, levelKey string, parentID *string) (catalog.AreaLevel, error) {
	if !draft.Closed {
		return catalog.AreaLevel{}, catalog.NewError(catalog.DraftNotClosed, "save-as-area requires a closed draft")
	}
	if violations := catalog.ValidateDraft(draft); len(violations) > 0 {
		return catalog.AreaLevel{}, catalog.NewError(catalog.InvalidGeometry, "draft failed validation: %v", violations)
	}
	level, ok := e.levels.Get(levelKey)
	if !ok {
		return catalog.AreaLevel{}, catalog.NewError(catalog.AreaLevelNotFound, "unknown level %q", levelKey)
	}
	if parentID != nil {
		parent, ok := e.areas.GetReal(*parentID)
		if !ok {
			return catalog.AreaLevel{}, catalog.NewError(catalog.AreaNotFound, "parent area %q not found", *parentID)
		}
		if level.ParentLevelKey == nil || *level.ParentLevelKey != parent.LevelKey {
			return catalog.AreaLevel{}, catalog.NewError(catalog.LevelMismatch,
				"level %q does not belong under parent's level %q", levelKey, parent.LevelKey)
		}
	} else if level.ParentLevelKey != nil {
		return catalog.AreaLevel{}, catalog.NewError(catalog.LevelMismatch,
			"level %q is not a root level and requires a parent", levelKey)
	}
	return level, nil
}

// materializeArea builds the in-memory Area from a validated draft,
// closing and CCW-normalizing the exterior ring.
func (e *Editor) materializeArea(draft catalog.DraftShape, name, levelKey string, parentID *string) catalog.Area {
	ring := catalog.MaterializeExteriorRing(draft.Points)
	now := e.now()
	a := catalog.Area{
		ID:          e.idGen(),
		DisplayName: name,
		LevelKey:    levelKey,
		ParentID:    parentID,
		Geometry:    catalog.GeometryFromPolygon(ringToPolygon(ring)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return a
}

// SaveAsArea creates a new area from a closed draft under an optional
// parent, then propagates ancestor geometries upward.
func (e *Editor) SaveAsArea(ctx context.Context, draft catalog.DraftShape, name, levelKey string, parentID *string) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	if _, err := e.validateSaveAsArea(draft, levelKey, parentID); err != nil {
		return catalog.Area{}, err
	}

	a := e.materializeArea(draft, name, levelKey, parentID)
	e.areas.Add(a)

	pairs, err := e.prop.Propagate(parentID)
	if err != nil {
		return catalog.Area{}, err
	}

	entry := catalog.HistoryEntry{Created: []catalog.Area{a}, Modified: pairs}
	if err := e.commit(ctx, entry); err != nil {
		return a, err
	}
	return a, nil
}

// BulkCreateItem is one item of a bulk-create call, mirroring
// save-as-area's arguments.
type BulkCreateItem struct {
	Draft    catalog.DraftShape `json:"draft"`
	Name     string             `json:"name"`
	LevelKey string             `json:"levelKey"`
	ParentID *string            `json:"parentId,omitempty"`
}

// BulkCreate validates every item up front, then creates all areas
// all-or-nothing with one propagation pass per distinct affected parent
// and a single HistoryEntry for the batch, so one undo reverses it all.
func (e *Editor) BulkCreate(ctx context.Context, items []BulkCreateItem) ([]catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}

	for _, item := range items {
		if _, err := e.validateSaveAsArea(item.Draft, item.LevelKey, item.ParentID); err != nil {
			return nil, err
		}
	}

	created := make([]catalog.Area, 0, len(items))
	affectedParents := make([]string, 0)
	seenParent := make(map[string]bool)

	for _, item := range items {
		a := e.materializeArea(item.Draft, item.Name, item.LevelKey, item.ParentID)
		e.areas.Add(a)
		created = append(created, a)
		if item.ParentID != nil && !seenParent[*item.ParentID] {
			seenParent[*item.ParentID] = true
			affectedParents = append(affectedParents, *item.ParentID)
		}
	}

	var allPairs []catalog.ModifiedPair
	for _, pid := range affectedParents {
		pid := pid
		pairs, err := e.prop.Propagate(&pid)
		if err != nil {
			return nil, err
		}
		allPairs = append(allPairs, pairs...)
	}

	entry := catalog.HistoryEntry{Created: created, Modified: allPairs}
	if err := e.commit(ctx, entry); err != nil {
		return created, err
	}
	return created, nil
}
