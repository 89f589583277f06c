// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package areastore owns the mapping of area id to Area record and
// synthesizes implicit children on demand.
package areastore

import (
	"sort"

	"github.com/geocatalog/catalog-editor/internal/levelstore"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// Store is the primary id -> Area map plus the secondary parent and level
// indexes. Not safe for concurrent use.
type Store struct {
	levels *levelstore.Store

	byID     map[string]catalog.Area
	byParent map[string]map[string]struct{} // parent id -> set of child ids ("" key = roots)
	byLevel  map[string]map[string]struct{} // level key -> set of ids
}

// New builds an empty store bound to the given level store.
func New(levels *levelstore.Store) *Store {
	return &Store{
		levels:   levels,
		byID:     make(map[string]catalog.Area),
		byParent: make(map[string]map[string]struct{}),
		byLevel:  make(map[string]map[string]struct{}),
	}
}

func parentKey(a catalog.Area) string {
	if a.ParentID == nil {
		return ""
	}
	return *a.ParentID
}

// Add inserts a new real area, maintaining both indexes.
func (s *Store) Add(a catalog.Area) {
	s.byID[a.ID] = a
	s.indexInsert(a)
}

// Update replaces the stored area with the same id, re-indexing if parent
// or level changed.
func (s *Store) Update(a catalog.Area) {
	if old, ok := s.byID[a.ID]; ok {
		s.indexRemove(old)
	}
	s.byID[a.ID] = a
	s.indexInsert(a)
}

// Delete removes id from both indexes. A no-op if id is not present.
func (s *Store) Delete(id string) {
	old, ok := s.byID[id]
	if !ok {
		return
	}
	s.indexRemove(old)
	delete(s.byID, id)
}

func (s *Store) indexInsert(a catalog.Area) {
	pk := parentKey(a)
	if s.byParent[pk] == nil {
		s.byParent[pk] = make(map[string]struct{})
	}
	s.byParent[pk][a.ID] = struct{}{}

	if s.byLevel[a.LevelKey] == nil {
		s.byLevel[a.LevelKey] = make(map[string]struct{})
	}
	s.byLevel[a.LevelKey][a.ID] = struct{}{}
}

func (s *Store) indexRemove(a catalog.Area) {
	pk := parentKey(a)
	if set, ok := s.byParent[pk]; ok {
		delete(set, a.ID)
	}
	if set, ok := s.byLevel[a.LevelKey]; ok {
		delete(set, a.ID)
	}
}

// GetReal returns the real (non-implicit) area for id, if stored.
func (s *Store) GetReal(id string) (catalog.Area, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Get resolves id, real or implicit. An implicit id resolves only while
// its parent exists, the level matches the parent's child level, and the
// parent has no explicit children.
func (s *Store) Get(id string) (catalog.Area, bool) {
	if a, ok := s.byID[id]; ok {
		return a, true
	}
	parentID, childLevelKey, ok := catalog.ParseImplicitID(id)
	if !ok {
		return catalog.Area{}, false
	}
	parent, ok := s.byID[parentID]
	if !ok {
		return catalog.Area{}, false
	}
	childLevel, ok := s.levels.GetChildOf(parent.LevelKey)
	if !ok || childLevel.Key != childLevelKey {
		return catalog.Area{}, false
	}
	if s.hasExplicitChildren(parentID) {
		return catalog.Area{}, false
	}
	return catalog.NewImplicitArea(parent, childLevelKey), true
}

func (s *Store) explicitChildIDs(parentID string) []string {
	set, ok := s.byParent[parentID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) hasExplicitChildren(parentID string) bool {
	return len(s.byParent[parentID]) > 0
}

// ExplicitChildren returns the real areas whose parent_id equals
// parentID, sorted by id for deterministic iteration.
func (s *Store) ExplicitChildren(parentID string) []catalog.Area {
	ids := s.explicitChildIDs(parentID)
	out := make([]catalog.Area, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// GetChildren implements the Area Store's get_children: real explicit
// children if any exist, else the single synthesized implicit child, else
// empty if the parent's level is a leaf.
func (s *Store) GetChildren(parentID string) []catalog.Area {
	explicit := s.ExplicitChildren(parentID)
	if len(explicit) > 0 {
		return explicit
	}
	parent, ok := s.byID[parentID]
	if !ok {
		return nil
	}
	childLevel, ok := s.levels.GetChildOf(parent.LevelKey)
	if !ok {
		return nil
	}
	return []catalog.Area{catalog.NewImplicitArea(parent, childLevel.Key)}
}

// GetRoots returns every real area with no parent.
func (s *Store) GetRoots() []catalog.Area {
	ids := make([]string, 0, len(s.byParent[""]))
	for id := range s.byParent[""] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]catalog.Area, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// GetAll returns every real (non-implicit) area, sorted by id.
func (s *Store) GetAll() []catalog.Area {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]catalog.Area, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// GetByLevel returns every real area at level key.
func (s *Store) GetByLevel(key string) []catalog.Area {
	set, ok := s.byLevel[key]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]catalog.Area, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of real areas stored, mainly for metrics.
func (s *Store) Len() int { return len(s.byID) }
