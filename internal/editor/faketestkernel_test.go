// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"math"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel"
	"github.com/paulmach/orb"
)

// fakeKernel is the trivial geomkernel.Kernel stand-in used by this
// package's own unit tests; simpler and more predictable than the
// bundled planar kernel for fixture-sized inputs. It is correct for
// convex, axis-aligned fixtures: Sutherland-Hodgman half-plane clipping
// for IntersectHalfPlanes, ring-append for Difference, and bounding-box
// recomposition for Union when the inputs exactly tile a rectangle.
type fakeKernel struct{}

const fakeKernelTolerance = 1e-9

func (fakeKernel) Union(geoms []catalog.Geometry) (catalog.Geometry, error) {
	var polys []orb.Polygon
	for _, g := range geoms {
		polys = append(polys, g.Polygons()...)
	}
	if len(polys) == 0 {
		return catalog.Geometry{}, geomkernel.ErrNoCut
	}
	if len(polys) == 1 {
		return catalog.GeometryFromPolygon(polys[0]), nil
	}

	if rect, ok := tileToRectangle(polys); ok {
		return catalog.GeometryFromPolygon(rect), nil
	}
	return catalog.GeometryFromPolygons(polys), nil
}

// tileToRectangle reports whether polys (each a plain, hole-free ring)
// exactly tile their combined bounding box, by comparing summed
// shoelace area to the bbox area. Sufficient for this repo's test
// fixtures (adjacent rectangles produced by an axis-aligned split).
func tileToRectangle(polys []orb.Polygon) (orb.Polygon, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	total := 0.0
	for _, p := range polys {
		if len(p) != 1 {
			return nil, false // holes can't be tiled away generically
		}
		ring := p[0]
		area := catalog.SignedArea([]orb.Point(ring))
		if area < 0 {
			area = -area
		}
		total += area
		for _, pt := range ring {
			minX = math.Min(minX, pt[0])
			minY = math.Min(minY, pt[1])
			maxX = math.Max(maxX, pt[0])
			maxY = math.Max(maxY, pt[1])
		}
	}
	bboxArea := (maxX - minX) * (maxY - minY)
	if math.Abs(bboxArea-total) > fakeKernelTolerance {
		return nil, false
	}
	ring := orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
	return orb.Polygon{ring}, true
}

func (fakeKernel) Difference(base catalog.Geometry, cut orb.Polygon) (catalog.Geometry, error) {
	polys := base.Polygons()
	if len(polys) != 1 {
		return catalog.Geometry{}, geomkernel.ErrNoCut
	}
	result := orb.Polygon{polys[0][0]}
	result = append(result, cut[0])
	return catalog.GeometryFromPolygon(result), nil
}

func (fakeKernel) IntersectHalfPlanes(base orb.Polygon, hp geomkernel.HalfPlane) (side1, side2 []orb.Polygon, err error) {
	if len(base) != 1 {
		return nil, nil, geomkernel.ErrNoCut
	}
	ring := []orb.Point(base[0])

	pos := clipConvex(ring, hp.A, hp.B, true)
	neg := clipConvex(ring, hp.A, hp.B, false)

	if len(pos) >= 3 {
		side1 = append(side1, orb.Polygon{closeFakeRing(pos)})
	}
	if len(neg) >= 3 {
		side2 = append(side2, orb.Polygon{closeFakeRing(neg)})
	}
	if len(side1) == 0 && len(side2) == 0 {
		return nil, nil, geomkernel.ErrNoCut
	}
	return side1, side2, nil
}

func closeFakeRing(pts []orb.Point) orb.Ring {
	if len(pts) == 0 {
		return nil
	}
	if pts[0] != pts[len(pts)-1] {
		pts = append(append([]orb.Point{}, pts...), pts[0])
	}
	return orb.Ring(catalog.NormalizeRingOrientation(pts, true))
}

// side returns the signed position of p relative to line a->b, matching
// geomkernel.HalfPlane's "(p-A) x (B-A)" convention.
func side(p, a, b orb.Point) float64 {
	return (p[0]-a[0])*(b[1]-a[1]) - (p[1]-a[1])*(b[0]-a[0])
}

// clipConvex runs Sutherland-Hodgman polygon clipping of a convex ring
// against the infinite line through a-b, keeping the positive or
// negative side.
func clipConvex(ring []orb.Point, a, b orb.Point, keepPositive bool) []orb.Point {
	n := len(ring)
	if n > 0 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	var out []orb.Point
	n = len(ring)
	for i := 0; i < n; i++ {
		cur := ring[i]
		prev := ring[(i-1+n)%n]
		curIn := insideHalfPlane(cur, a, b, keepPositive)
		prevIn := insideHalfPlane(prev, a, b, keepPositive)
		if curIn != prevIn {
			out = append(out, intersectLine(prev, cur, a, b))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

func insideHalfPlane(p, a, b orb.Point, keepPositive bool) bool {
	s := side(p, a, b)
	if keepPositive {
		return s >= 0
	}
	return s < 0
}

func intersectLine(p1, p2, a, b orb.Point) orb.Point {
	s1 := side(p1, a, b)
	s2 := side(p2, a, b)
	t := s1 / (s1 - s2)
	return orb.Point{p1[0] + t*(p2[0]-p1[0]), p1[1] + t*(p2[1]-p1[1])}
}
