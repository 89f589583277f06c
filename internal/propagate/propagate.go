// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package propagate walks the parent chain above a changed area, rebuilding
// each ancestor's geometry as the union of its explicit children.
package propagate

import (
	"time"

	"github.com/geocatalog/catalog-editor/internal/areastore"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel"
)

// Propagator re-unions ancestor geometries after a leaf change.
type Propagator struct {
	areas  *areastore.Store
	kernel geomkernel.Kernel
	now    func() time.Time
}

func New(areas *areastore.Store, kernel geomkernel.Kernel, now func() time.Time) *Propagator {
	return &Propagator{areas: areas, kernel: kernel, now: now}
}

// Propagate walks upward from startParentID (the parent of whatever leaf
// just changed), rebuilding every real ancestor's geometry from its
// current explicit-child set. It stops at the first area with no parent.
// An ancestor currently lacking explicit children (e.g. right after a
// deletion) is left unchanged and the walk continues past it. Returns the
// before/after pairs in ancestor order, nearest first, for the caller to
// append to its HistoryEntry/ChangeSet.
func (p *Propagator) Propagate(startParentID *string) ([]catalog.ModifiedPair, error) {
	var pairs []catalog.ModifiedPair

	id := startParentID
	for id != nil {
		ancestor, ok := p.areas.GetReal(*id)
		if !ok {
			break
		}

		children := p.areas.ExplicitChildren(ancestor.ID)
		if len(children) == 0 {
			// No explicit children right now: leave geometry untouched
			// and keep walking upward.
			id = ancestor.ParentID
			continue
		}

		geoms := make([]catalog.Geometry, 0, len(children))
		for _, c := range children {
			geoms = append(geoms, c.Geometry)
		}
		union, err := p.kernel.Union(geoms)
		if err != nil {
			return pairs, err
		}

		before := ancestor.Clone()
		after := ancestor
		after.Geometry = union
		after.UpdatedAt = p.now()
		p.areas.Update(after)

		pairs = append(pairs, catalog.ModifiedPair{Before: before, After: after})
		id = after.ParentID
	}

	return pairs, nil
}
