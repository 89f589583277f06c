// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/paulmach/orb"
)

// ringToPolygon wraps a single exterior ring with no holes.
func ringToPolygon(ring orb.Ring) orb.Polygon {
	return orb.Polygon{ring}
}

func notFoundErr(id string) error {
	return catalog.NewError(catalog.AreaNotFound, "area %q not found", id)
}

// resolveRealOrImplicit returns the real area backing id: itself if id is
// already real, or its real parent if id is an implicit id (used by
// splitAsChildren, the one operation allowed to accept an implicit id).
// derivedParentID is set (to id's parent's id) only in the implicit case,
// so the caller can tell the two apart.
func (e *Editor) resolveRealOrImplicit(id string) (target catalog.Area, derivedParentID *string, err error) {
	a, ok := e.areas.Get(id)
	if !ok {
		return catalog.Area{}, nil, notFoundErr(id)
	}
	if !a.Implicit {
		return a, nil, nil
	}
	parent, ok := e.areas.GetReal(*a.ParentID)
	if !ok {
		return catalog.Area{}, nil, notFoundErr(id)
	}
	pid := parent.ID
	return parent, &pid, nil
}
