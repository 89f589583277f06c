// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package levelstore validates and indexes the static area-level
// taxonomy: a linear chain where each level has at most one child.
package levelstore

import (
	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// Store is the validated, indexed set of declared levels. It is
// immutable after construction.
type Store struct {
	byKey   map[string]catalog.AreaLevel
	childOf map[string]string // parent_level_key (or "" for root) -> child key
	order   []catalog.AreaLevel
	rootKey string
	hasRoot bool
}

// New validates levels and builds the indexed Store, or returns
// InvalidLevelConfig naming the offense.
func New(levels []catalog.AreaLevel) (*Store, error) {
	s := &Store{
		byKey:   make(map[string]catalog.AreaLevel, len(levels)),
		childOf: make(map[string]string, len(levels)),
		order:   append([]catalog.AreaLevel(nil), levels...),
	}

	for _, l := range levels {
		if _, dup := s.byKey[l.Key]; dup {
			return nil, catalog.NewError(catalog.InvalidLevelConfig, "duplicate level key %q", l.Key)
		}
		s.byKey[l.Key] = l
	}

	for _, l := range levels {
		parentKey := ""
		if l.ParentLevelKey != nil {
			parentKey = *l.ParentLevelKey
			if _, ok := s.byKey[parentKey]; !ok {
				return nil, catalog.NewError(catalog.InvalidLevelConfig,
					"level %q references unknown parent level %q", l.Key, parentKey)
			}
		}
		if existing, ok := s.childOf[parentKey]; ok {
			return nil, catalog.NewError(catalog.InvalidLevelConfig,
				"parent level key %q claimed by both %q and %q (linear chain violated)",
				parentKeyLabel(l.ParentLevelKey), existing, l.Key)
		}
		s.childOf[parentKey] = l.Key
		if parentKey == "" {
			if s.hasRoot {
				return nil, catalog.NewError(catalog.InvalidLevelConfig, "more than one root level declared")
			}
			s.hasRoot = true
			s.rootKey = l.Key
		}
	}

	if err := s.checkAcyclic(); err != nil {
		return nil, err
	}

	return s, nil
}

func parentKeyLabel(k *string) string {
	if k == nil {
		return "<none>"
	}
	return *k
}

func (s *Store) checkAcyclic() error {
	for _, l := range s.order {
		visited := map[string]bool{}
		cur := l.Key
		for {
			visited[cur] = true
			level := s.byKey[cur]
			if level.ParentLevelKey == nil {
				break
			}
			next := *level.ParentLevelKey
			if visited[next] {
				return catalog.NewError(catalog.InvalidLevelConfig, "cycle detected involving level %q", next)
			}
			cur = next
		}
	}
	return nil
}

// Get returns the level for key, or the zero value and false.
func (s *Store) Get(key string) (catalog.AreaLevel, bool) {
	l, ok := s.byKey[key]
	return l, ok
}

// GetChildOf returns the level whose ParentLevelKey equals key, or false
// if key is a leaf level.
func (s *Store) GetChildOf(key string) (catalog.AreaLevel, bool) {
	childKey, ok := s.childOf[key]
	if !ok {
		return catalog.AreaLevel{}, false
	}
	level, ok := s.byKey[childKey]
	return level, ok
}

// IsLeaf reports whether key has no child level. Returns false also when
// key is unknown.
func (s *Store) IsLeaf(key string) bool {
	if _, ok := s.byKey[key]; !ok {
		return false
	}
	_, hasChild := s.childOf[key]
	return !hasChild
}

// Root returns the level with no parent, if declared.
func (s *Store) Root() (catalog.AreaLevel, bool) {
	if !s.hasRoot {
		return catalog.AreaLevel{}, false
	}
	level, ok := s.byKey[s.rootKey]
	return level, ok
}

// All returns every declared level in insertion order, defensively copied.
func (s *Store) All() []catalog.AreaLevel {
	return append([]catalog.AreaLevel(nil), s.order...)
}
