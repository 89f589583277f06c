// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package planar is the reference geomkernel.Kernel bundled with the
// server binary. It treats WGS84 degrees as planar coordinates and covers
// the catalog's common cases: children that tile their parent with
// exactly coincident boundary vertices (union by directed-edge
// cancellation), holes punched strictly inside an area (difference by
// hole-ring insertion), and half-plane splits (Sutherland-Hodgman
// clipping). Inputs outside those cases fall back to juxtaposition or
// return ErrUnsupported; an embedding that needs full polygon booleans
// should supply a kernel backed by a real geometry library (GEOS bindings
// or similar) instead.
package planar

import (
	"errors"
	"math"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel"
	"github.com/paulmach/orb"
)

// ErrUnsupported is returned when an operation's inputs are outside what
// this reference kernel can represent exactly.
var ErrUnsupported = errors.New("planar: operation not representable by the reference kernel")

// Kernel implements geomkernel.Kernel.
type Kernel struct {
	tol float64
}

// New returns a Kernel with the default coordinate tolerance.
func New() *Kernel {
	return &Kernel{tol: 1e-9}
}

// NewWithTolerance returns a Kernel that treats coordinates within tol of
// each other as equal during edge cancellation and stitching.
func NewWithTolerance(tol float64) *Kernel {
	return &Kernel{tol: tol}
}

type qpoint struct{ x, y int64 }

func (k *Kernel) quantize(p orb.Point) qpoint {
	return qpoint{
		x: int64(math.Round(p[0] / k.tol)),
		y: int64(math.Round(p[1] / k.tol)),
	}
}

// Union combines geoms. When the inputs tile without overlap and
// share boundary vertices exactly (the invariant the editor maintains for
// siblings), shared edges cancel pairwise and the remaining edges stitch
// into the merged outline, collapsing to a single Polygon where possible.
// Inputs whose boundaries do not cancel cleanly are juxtaposed into a
// MultiPolygon instead.
func (k *Kernel) Union(geoms []catalog.Geometry) (catalog.Geometry, error) {
	var polys []orb.Polygon
	for _, g := range geoms {
		polys = append(polys, g.Polygons()...)
	}
	if len(polys) == 0 {
		return catalog.Geometry{}, ErrUnsupported
	}
	if len(polys) == 1 {
		return catalog.GeometryFromPolygon(polys[0]), nil
	}

	if merged, ok := k.dissolve(polys); ok {
		return catalog.GeometryFromPolygons(merged), nil
	}
	return catalog.GeometryFromPolygons(polys), nil
}

type edge struct {
	from, to   orb.Point
	qfrom, qto qpoint
}

// dissolve cancels opposite directed edges across all rings of polys and
// stitches what remains back into rings. ok is false when the inputs do
// not cancel into a stitchable set (overlapping pieces, mismatched
// boundary subdivision).
func (k *Kernel) dissolve(polys []orb.Polygon) ([]orb.Polygon, bool) {
	count := map[[2]qpoint]int{}
	var edges []edge
	for _, poly := range polys {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				e := edge{from: ring[i], to: ring[i+1],
					qfrom: k.quantize(ring[i]), qto: k.quantize(ring[i+1])}
				if e.qfrom == e.qto {
					continue
				}
				edges = append(edges, e)
				count[[2]qpoint{e.qfrom, e.qto}]++
			}
		}
	}

	// An edge survives if its opposite twin does not fully cancel it.
	bySrc := map[qpoint][]edge{}
	survivors := 0
	for _, e := range edges {
		fwd := [2]qpoint{e.qfrom, e.qto}
		rev := [2]qpoint{e.qto, e.qfrom}
		if count[rev] > 0 {
			count[rev]--
			count[fwd]--
			continue
		}
		if count[fwd] <= 0 {
			continue
		}
		count[fwd]--
		bySrc[e.qfrom] = append(bySrc[e.qfrom], e)
		survivors++
	}
	if survivors == 0 {
		return nil, false
	}

	var rings []orb.Ring
	for len(bySrc) > 0 {
		ring, ok := k.stitchOne(bySrc)
		if !ok {
			return nil, false
		}
		rings = append(rings, ring)
	}

	return assemblePolygons(rings)
}

// stitchOne walks edges from an arbitrary start until the loop closes,
// removing consumed edges from bySrc. At a junction with several outgoing
// edges it takes the sharpest counterclockwise turn, which keeps separate
// rings that touch at a single vertex from being fused.
func (k *Kernel) stitchOne(bySrc map[qpoint][]edge) (orb.Ring, bool) {
	var start qpoint
	for q := range bySrc {
		start = q
		break
	}

	cur := bySrc[start][0]
	consume(bySrc, start, 0)
	ring := orb.Ring{cur.from, cur.to}

	for cur.qto != start {
		nexts := bySrc[cur.qto]
		if len(nexts) == 0 {
			return nil, false
		}
		best := 0
		if len(nexts) > 1 {
			best = sharpestLeftTurn(cur, nexts)
		}
		next := nexts[best]
		consume(bySrc, cur.qto, best)
		ring = append(ring, next.to)
		cur = next
	}
	// Edge endpoints may differ by less than tol; force exact closure.
	ring[len(ring)-1] = ring[0]
	return ring, true
}

func consume(bySrc map[qpoint][]edge, q qpoint, i int) {
	s := bySrc[q]
	s = append(s[:i], s[i+1:]...)
	if len(s) == 0 {
		delete(bySrc, q)
	} else {
		bySrc[q] = s
	}
}

// sharpestLeftTurn picks the outgoing edge making the most
// counterclockwise turn relative to the incoming direction.
func sharpestLeftTurn(in edge, outs []edge) int {
	inAngle := math.Atan2(in.to[1]-in.from[1], in.to[0]-in.from[0])
	best, bestTurn := 0, math.Inf(-1)
	for i, out := range outs {
		outAngle := math.Atan2(out.to[1]-out.from[1], out.to[0]-out.from[0])
		turn := outAngle - (inAngle + math.Pi) // relative to reversed incoming
		for turn <= 0 {
			turn += 2 * math.Pi
		}
		for turn > 2*math.Pi {
			turn -= 2 * math.Pi
		}
		if turn > bestTurn {
			best, bestTurn = i, turn
		}
	}
	return best
}

// assemblePolygons classifies stitched rings by orientation (CCW exterior,
// CW hole) and nests each hole inside the smallest exterior containing it.
func assemblePolygons(rings []orb.Ring) ([]orb.Polygon, bool) {
	var exteriors []orb.Ring
	var holes []orb.Ring
	for _, r := range rings {
		switch a := catalog.SignedArea([]orb.Point(r)); {
		case a > 0:
			exteriors = append(exteriors, r)
		case a < 0:
			holes = append(holes, r)
		}
	}
	if len(exteriors) == 0 {
		return nil, false
	}

	polys := make([]orb.Polygon, len(exteriors))
	for i, ext := range exteriors {
		polys[i] = orb.Polygon{ext}
	}
	for _, hole := range holes {
		owner := -1
		ownerArea := math.Inf(1)
		for i, ext := range exteriors {
			if pointInRing(hole[0], ext) {
				if a := math.Abs(catalog.SignedArea([]orb.Point(ext))); a < ownerArea {
					owner, ownerArea = i, a
				}
			}
		}
		if owner < 0 {
			return nil, false
		}
		polys[owner] = append(polys[owner], hole)
	}
	return polys, true
}

// Difference subtracts cut from base. The supported case is a cut lying
// strictly inside one of base's components, which becomes an interior
// ring of that component (punchHole, carveInnerChild). A cut whose
// boundary coincides with part of base's boundary is resolved by edge
// cancellation; anything else returns ErrUnsupported.
func (k *Kernel) Difference(base catalog.Geometry, cut orb.Polygon) (catalog.Geometry, error) {
	if len(cut) == 0 || len(cut[0]) < 4 {
		return catalog.Geometry{}, ErrUnsupported
	}
	cutRing := cut[0]

	polys := base.Polygons()
	for i, poly := range polys {
		if ringStrictlyInside(cutRing, poly, k.tol) {
			out := make([]orb.Polygon, len(polys))
			copy(out, polys)
			hole := orb.Ring(catalog.NormalizeRingOrientation([]orb.Point(cutRing), false))
			withHole := make(orb.Polygon, len(poly), len(poly)+1)
			copy(withHole, poly)
			withHole = append(withHole, hole)
			out[i] = withHole
			return catalog.GeometryFromPolygons(out), nil
		}
	}

	// Boundary-coincident cut: reverse the cut ring and cancel.
	reversed := orb.Ring(catalog.NormalizeRingOrientation([]orb.Point(cutRing), false))
	all := append(append([]orb.Polygon{}, polys...), orb.Polygon{reversed})
	if merged, ok := k.dissolve(all); ok {
		return catalog.GeometryFromPolygons(merged), nil
	}
	return catalog.Geometry{}, ErrUnsupported
}

// ringStrictlyInside reports whether every vertex of r lies inside poly's
// exterior ring, outside all of poly's holes, and no edge of r properly
// crosses any edge of poly.
func ringStrictlyInside(r orb.Ring, poly orb.Polygon, tol float64) bool {
	ext := poly[0]
	for _, p := range r {
		if !pointInRing(p, ext) {
			return false
		}
		for _, hole := range poly[1:] {
			if pointInRing(p, hole) {
				return false
			}
		}
	}
	for i := 0; i+1 < len(r); i++ {
		for _, ring := range poly {
			for j := 0; j+1 < len(ring); j++ {
				if catalog.SegmentsProperlyCross(r[i], r[i+1], ring[j], ring[j+1]) {
					return false
				}
			}
		}
	}
	return true
}

// pointInRing is a ray-casting point-in-polygon test; a point on the
// boundary may be reported either inside or outside.
func pointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a[1] > p[1]) != (b[1] > p[1]) &&
			p[0] < (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1])+a[0] {
			inside = !inside
		}
	}
	return inside
}

// sliverArea keeps split output rings from carrying slivers created by
// floating point noise along the cut line.
const sliverArea = 1e-18

// IntersectHalfPlanes clips base by the infinite line through hp.A and
// hp.B, returning base's material on each side. Each side is produced by
// Sutherland-Hodgman clipping of the exterior ring, with base's holes
// clipped and re-attached to the side that received them. Returns
// geomkernel.ErrNoCut when the line misses the polygon.
func (k *Kernel) IntersectHalfPlanes(base orb.Polygon, hp geomkernel.HalfPlane) (side1, side2 []orb.Polygon, err error) {
	if len(base) == 0 || len(base[0]) < 4 {
		return nil, nil, ErrUnsupported
	}

	sign1 := float64(hp.Side)
	if sign1 == 0 {
		sign1 = 1
	}

	build := func(keep float64) orb.Polygon {
		ext := clipRingByHalfPlane(base[0], hp.A, hp.B, keep)
		if len(ext) < 4 || math.Abs(catalog.SignedArea([]orb.Point(ext))) < sliverArea {
			return nil
		}
		poly := orb.Polygon{ext}
		for _, hole := range base[1:] {
			clipped := clipRingByHalfPlane(hole, hp.A, hp.B, keep)
			if len(clipped) >= 4 && math.Abs(catalog.SignedArea([]orb.Point(clipped))) >= sliverArea {
				poly = append(poly, clipped)
			}
		}
		return poly
	}

	p1 := build(sign1)
	p2 := build(-sign1)
	if p1 == nil || p2 == nil {
		return nil, nil, geomkernel.ErrNoCut
	}
	return []orb.Polygon{p1}, []orb.Polygon{p2}, nil
}

// clipRingByHalfPlane keeps the part of ring on the side of line A-B
// where the cross product sign matches keep. The returned ring is closed;
// it may be empty when the ring lies entirely on the discarded side.
func clipRingByHalfPlane(ring orb.Ring, a, b orb.Point, keep float64) orb.Ring {
	side := func(p orb.Point) float64 {
		return (p[0]-a[0])*(b[1]-a[1]) - (p[1]-a[1])*(b[0]-a[0])
	}

	var out orb.Ring
	n := len(ring) - 1 // ring is closed
	for i := 0; i < n; i++ {
		cur, next := ring[i], ring[i+1]
		cs, ns := side(cur)*keep, side(next)*keep
		if cs >= 0 {
			out = append(out, cur)
		}
		if (cs > 0 && ns < 0) || (cs < 0 && ns > 0) {
			t := cs / (cs - ns)
			out = append(out, orb.Point{
				cur[0] + t*(next[0]-cur[0]),
				cur[1] + t*(next[1]-cur[1]),
			})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return orb.Ring(catalog.CloseRing([]orb.Point(out)))
}
