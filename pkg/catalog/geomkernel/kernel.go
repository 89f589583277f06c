// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package geomkernel declares the contract of the 2D polygon kernel the
// editor is built against. The editor only constrains the shape of what
// is fed into the kernel; the algebra itself is pluggable. The planar
// subpackage is the bundled reference implementation; a production
// embedding that needs full polygon booleans should supply one backed by
// a real geometry library (GEOS or clipper bindings, for example).
package geomkernel

import (
	"errors"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/paulmach/orb"
)

// ErrNoCut is returned by IntersectHalfPlanes when the supplied line did
// not actually separate the polygon into two non-empty pieces.
var ErrNoCut = errors.New("geomkernel: line does not cut the polygon")

// HalfPlane is one side of an infinite line through A and B: the side the
// kernel keeps is the one where (p-A) x (B-A) has the given sign.
type HalfPlane struct {
	A, B orb.Point
	Side int // +1 or -1
}

// Kernel is the 2D polygon algebra the Edit Engine is built on: union,
// difference, and half-plane intersection (for the cut/carve/split
// operations), all operating on WGS84 degrees treated as planar
// coordinates. Tolerance is the kernel's; the editor's epsilon governs
// only vertex-equality tests elsewhere.
type Kernel interface {
	// Union combines the geometries of a set of sibling areas into their
	// parent's footprint. The result collapses to a single Polygon
	// when the pieces fuse cleanly, else a MultiPolygon.
	Union(polys []catalog.Geometry) (catalog.Geometry, error)

	// Difference subtracts cut from base, used by punchHole (donut) and
	// carveInnerChild (outer piece).
	Difference(base catalog.Geometry, cut orb.Polygon) (catalog.Geometry, error)

	// IntersectHalfPlanes cuts base by the line implied by hp, returning
	// the pieces of base lying in each half-plane. Used by splitAsChildren
	// and splitReplace. Returns ErrNoCut if the line does not separate
	// base into two non-empty pieces.
	IntersectHalfPlanes(base orb.Polygon, hp HalfPlane) (side1, side2 []orb.Polygon, err error)
}
