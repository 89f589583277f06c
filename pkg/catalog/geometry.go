// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package catalog

import (
	"bytes"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry is the area footprint carried by every Area. It is always
// normalized to either a single Polygon or a MultiPolygon; the zero value
// is not a valid Geometry.
type Geometry struct {
	Polygon      *orb.Polygon
	MultiPolygon *orb.MultiPolygon
}

// IsPolygon reports whether g holds a single Polygon (never true and false
// at once; a Geometry is exactly one of the two forms).
func (g Geometry) IsPolygon() bool { return g.Polygon != nil }

// IsMultiPolygon reports whether g holds a MultiPolygon.
func (g Geometry) IsMultiPolygon() bool { return g.MultiPolygon != nil }

// Polygons flattens g to its constituent polygons, one per component.
func (g Geometry) Polygons() []orb.Polygon {
	if g.Polygon != nil {
		return []orb.Polygon{*g.Polygon}
	}
	if g.MultiPolygon != nil {
		return []orb.Polygon(*g.MultiPolygon)
	}
	return nil
}

// GeometryFromPolygon wraps a single polygon as a Geometry.
func GeometryFromPolygon(p orb.Polygon) Geometry {
	return Geometry{Polygon: &p}
}

// GeometryFromPolygons normalizes a slice of polygons: a single polygon
// collapses to the Polygon form, more than one becomes a MultiPolygon,
// zero is the empty MultiPolygon.
func GeometryFromPolygons(ps []orb.Polygon) Geometry {
	if len(ps) == 1 {
		return GeometryFromPolygon(ps[0])
	}
	mp := orb.MultiPolygon(ps)
	return Geometry{MultiPolygon: &mp}
}

// MarshalJSON encodes g as a GeoJSON geometry object.
func (g Geometry) MarshalJSON() ([]byte, error) {
	switch {
	case g.Polygon != nil:
		return geojson.NewGeometry(*g.Polygon).MarshalJSON()
	case g.MultiPolygon != nil:
		return geojson.NewGeometry(*g.MultiPolygon).MarshalJSON()
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a GeoJSON Polygon or MultiPolygon into g,
// collapsing single-component multi-polygons to the Polygon form.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = Geometry{}
		return nil
	}
	gj, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return err
	}
	switch geom := gj.Geometry().(type) {
	case orb.Polygon:
		*g = GeometryFromPolygon(geom)
	case orb.MultiPolygon:
		*g = GeometryFromPolygons([]orb.Polygon(geom))
	default:
		return fmt.Errorf("catalog: unsupported geometry type %T", geom)
	}
	return nil
}

// CloseRing appends the first vertex to the end of the ring if it is not
// already closed, per the data model's "rings are explicitly closed"
// requirement.
func CloseRing(pts []orb.Point) []orb.Point {
	if len(pts) == 0 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	if first == last {
		return pts
	}
	out := make([]orb.Point, len(pts)+1)
	copy(out, pts)
	out[len(pts)] = first
	return out
}

// SignedArea computes the signed area of a (possibly unclosed) ring
// via the shoelace formula, in squared-degree units. Positive for CCW,
// negative for CW.
func SignedArea(ring []orb.Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum / 2
}

// NormalizeRingOrientation returns a copy of ring reversed if needed so
// that its signed area has the requested sign (positive for CCW exterior
// rings, negative for CW interior rings).
func NormalizeRingOrientation(ring []orb.Point, ccw bool) []orb.Point {
	area := SignedArea(ring)
	isCCW := area > 0
	if isCCW == ccw {
		return ring
	}
	out := make([]orb.Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// MaterializeExteriorRing closes an exterior ring drawn by the user and
// normalizes it to CCW, implementing the "ring closed, CCW-normalized" step
// of save-as-area, update-area-geometry and the carve/punch/expand
// operations.
func MaterializeExteriorRing(pts []orb.Point) orb.Ring {
	closed := CloseRing(pts)
	return orb.Ring(NormalizeRingOrientation(closed, true))
}

// MaterializeInteriorRing closes a hole ring and normalizes it to CW.
func MaterializeInteriorRing(pts []orb.Point) orb.Ring {
	closed := CloseRing(pts)
	return orb.Ring(NormalizeRingOrientation(closed, false))
}

// DedupPoints drops consecutive coincident points within epsilon, used by
// carveInnerChild and punchHole to clean caller-supplied loops before they
// are counted and materialized.
func DedupPoints(pts []orb.Point, epsilon float64) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && pointsEqual(out[len(out)-1], p, epsilon) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && pointsEqual(out[0], out[len(out)-1], epsilon) {
		out = out[:len(out)-1]
	}
	return out
}

func pointsEqual(a, b orb.Point, epsilon float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= epsilon && dy <= epsilon
}

// orientation is the 4-orientation cross-product primitive used by
// self-intersection checking (draft validation).
//
//	0: collinear, 1: clockwise, 2: counter-clockwise
func orientation(p, q, r orb.Point) int {
	val := (q[1]-p[1])*(r[0]-q[0]) - (q[0]-p[0])*(r[1]-q[1])
	switch {
	case val == 0:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

func onSegment(p, q, r orb.Point) bool {
	return q[0] <= max(p[0], r[0]) && q[0] >= min(p[0], r[0]) &&
		q[1] <= max(p[1], r[1]) && q[1] >= min(p[1], r[1])
}

// SegmentsProperlyCross reports whether segment p1q1 and p2q2 cross at a
// point interior to both segments. Collinear overlaps are treated as
// degenerate in-line, not a crossing.
func SegmentsProperlyCross(p1, q1, p2, q2 orb.Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 && o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear touch cases are not counted as proper crossings.
	if o1 == 0 && onSegment(p1, p2, q1) {
		return false
	}
	if o2 == 0 && onSegment(p1, q2, q1) {
		return false
	}
	if o3 == 0 && onSegment(p2, p1, q2) {
		return false
	}
	if o4 == 0 && onSegment(p2, q1, q2) {
		return false
	}
	return false
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
