// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package draftstore is an optional scratchpad for saving in-progress
// DraftShape values by caller-supplied id. It is orthogonal to the core
// editor: edit operations accept only DraftShape values, never ids, and
// this package may be omitted from an embedding without loss of core
// semantics.
package draftstore

import (
	"sync"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// Store is a concurrency-safe keyed holder of draft shapes. Unlike the
// editor core it is safe to share across goroutines, since it has no
// invariants to protect beyond the map itself.
type Store struct {
	mu     sync.RWMutex
	drafts map[string]catalog.DraftShape
}

func New() *Store {
	return &Store{drafts: make(map[string]catalog.DraftShape)}
}

// Save stores (or overwrites) the draft under id.
func (s *Store) Save(id string, d catalog.DraftShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = d
}

// Get returns the draft stored under id, or DraftNotFound.
func (s *Store) Get(id string) (catalog.DraftShape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return catalog.DraftShape{}, catalog.NewError(catalog.DraftNotFound, "no draft stored under id %q", id)
	}
	return d, nil
}

// Delete removes the draft stored under id, if any.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
