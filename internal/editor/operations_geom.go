// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/paulmach/orb"
)

// SharedEdgeMove implements sharedEdgeMove: moves one vertex of area's
// exterior ring and every coincident vertex (within epsilon) of its real
// siblings, then propagates upward.
func (e *Editor) SharedEdgeMove(ctx context.Context, areaID string, vertexIndex int, newLat, newLng float64) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	area, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, notFoundErr(areaID)
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return catalog.Area{}, catalog.NewError(catalog.AreaHasChildren, "area %q has explicit children", areaID)
	}
	if !area.Geometry.IsPolygon() {
		return catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "sharedEdgeMove requires a single-polygon area")
	}

	exterior := (*area.Geometry.Polygon)[0]
	ringLen := len(exterior) - 1 // closing vertex excluded
	if ringLen <= 0 {
		return catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "area %q has a degenerate ring", areaID)
	}
	idx := ((vertexIndex % ringLen) + ringLen) % ringLen
	v := exterior[idx]
	newPoint := orb.Point{newLng, newLat}

	var parentKey *string
	if area.ParentID != nil {
		pid := *area.ParentID
		parentKey = &pid
	}
	siblings := e.siblingsIncludingSelf(area)

	var modified []catalog.ModifiedPair
	var updatedSelf catalog.Area
	for _, sib := range siblings {
		before := sib.Clone()
		changed, after := moveCoincidentVertices(sib, v, newPoint, e.epsilon)
		if !changed {
			continue
		}
		after.UpdatedAt = e.now()
		e.areas.Update(after)
		modified = append(modified, catalog.ModifiedPair{Before: before, After: after})
		if after.ID == areaID {
			updatedSelf = after
		}
	}

	pairs, err := e.prop.Propagate(parentKey)
	if err != nil {
		return catalog.Area{}, err
	}
	modified = append(modified, pairs...)

	entry := catalog.HistoryEntry{Modified: modified}
	if err := e.commit(ctx, entry); err != nil {
		return updatedSelf, err
	}
	return updatedSelf, nil
}

func (e *Editor) siblingsIncludingSelf(area catalog.Area) []catalog.Area {
	if area.ParentID == nil {
		var out []catalog.Area
		for _, root := range e.areas.GetRoots() {
			out = append(out, root)
		}
		return out
	}
	return e.areas.ExplicitChildren(*area.ParentID)
}

// moveCoincidentVertices rewrites every vertex of every ring (exterior and
// interior) of area within epsilon of from to the coordinate to.
func moveCoincidentVertices(area catalog.Area, from, to orb.Point, epsilon float64) (bool, catalog.Area) {
	changed := false
	polys := area.Geometry.Polygons()
	newPolys := make([]orb.Polygon, len(polys))
	for pi, poly := range polys {
		newPoly := make(orb.Polygon, len(poly))
		for ri, ring := range poly {
			newRing := make(orb.Ring, len(ring))
			for vi, p := range ring {
				if coincident(p, from, epsilon) {
					newRing[vi] = to
					changed = true
				} else {
					newRing[vi] = p
				}
			}
			newPoly[ri] = newRing
		}
		newPolys[pi] = newPoly
	}
	if !changed {
		return false, area
	}
	area.Geometry = catalog.GeometryFromPolygons(newPolys)
	return true, area
}

func coincident(a, b orb.Point, epsilon float64) bool {
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

// CarveInnerChild implements carveInnerChild: creates two new real
// children under parentAreaID (the "outer" piece and the "inner" loop
// polygon) and lets propagation rebuild the parent from their union.
func (e *Editor) CarveInnerChild(ctx context.Context, parentAreaID string, loopPoints []orb.Point) ([2]catalog.Area, error) {
	var zero [2]catalog.Area
	if err := e.requireInitialized(); err != nil {
		return zero, err
	}
	parent, ok := e.areas.GetReal(parentAreaID)
	if !ok {
		return zero, notFoundErr(parentAreaID)
	}
	if len(e.areas.ExplicitChildren(parentAreaID)) > 0 {
		return zero, catalog.NewError(catalog.AreaHasChildren, "area %q has explicit children", parentAreaID)
	}
	childLevel, ok := e.levels.GetChildOf(parent.LevelKey)
	if !ok {
		return zero, catalog.NewError(catalog.NoChildLevel, "level %q has no child level", parent.LevelKey)
	}
	loop := catalog.DedupPoints(loopPoints, e.epsilon)
	if len(loop) < 3 {
		return zero, catalog.NewError(catalog.InvalidGeometry, "carveInnerChild requires at least three distinct loop points")
	}
	if !parent.Geometry.IsPolygon() {
		return zero, catalog.NewError(catalog.InvalidGeometry, "carveInnerChild requires a single-polygon target")
	}

	innerRing := catalog.MaterializeExteriorRing(loop)
	innerPoly := ringToPolygon(innerRing)

	outerGeom, err := e.kernel.Difference(parent.Geometry, innerPoly)
	if err != nil {
		return zero, catalog.WrapError(catalog.InvalidGeometry, err, "carveInnerChild: subtracting inner loop")
	}

	now := e.now()
	outerChild := catalog.Area{
		ID:        e.idGen(),
		LevelKey:  childLevel.Key,
		ParentID:  &parentAreaID,
		Geometry:  outerGeom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	innerChild := catalog.Area{
		ID:        e.idGen(),
		LevelKey:  childLevel.Key,
		ParentID:  &parentAreaID,
		Geometry:  catalog.GeometryFromPolygon(innerPoly),
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.areas.Add(outerChild)
	e.areas.Add(innerChild)

	pairs, err := e.prop.Propagate(&parentAreaID)
	if err != nil {
		return zero, err
	}

	entry := catalog.HistoryEntry{Created: []catalog.Area{outerChild, innerChild}, Modified: pairs}
	if err := e.commit(ctx, entry); err != nil {
		return zero, err
	}
	return [2]catalog.Area{outerChild, innerChild}, nil
}

// PunchHole implements punchHole: the target keeps its id but becomes a
// donut, and a new sibling at the same level/parent is created for the
// inner polygon.
func (e *Editor) PunchHole(ctx context.Context, areaID string, holePoints []orb.Point) (donut, inner catalog.Area, err error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, catalog.Area{}, err
	}
	area, ok := e.areas.GetReal(areaID)
	if !ok {
		return catalog.Area{}, catalog.Area{}, notFoundErr(areaID)
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return catalog.Area{}, catalog.Area{}, catalog.NewError(catalog.AreaHasChildren, "area %q has explicit children", areaID)
	}
	hole := catalog.DedupPoints(holePoints, e.epsilon)
	if len(hole) < 3 {
		return catalog.Area{}, catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "punchHole requires at least three distinct hole points")
	}
	if !area.Geometry.IsPolygon() {
		return catalog.Area{}, catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "punchHole requires a single-polygon target")
	}

	holeRing := catalog.MaterializeExteriorRing(hole)
	holePoly := ringToPolygon(holeRing)

	donutGeom, err2 := e.kernel.Difference(area.Geometry, holePoly)
	if err2 != nil {
		return catalog.Area{}, catalog.Area{}, catalog.WrapError(catalog.InvalidGeometry, err2, "punchHole: subtracting hole")
	}

	before := area.Clone()
	area.Geometry = donutGeom
	area.UpdatedAt = e.now()
	e.areas.Update(area)

	now := e.now()
	innerArea := catalog.Area{
		ID:        e.idGen(),
		LevelKey:  area.LevelKey,
		ParentID:  area.ParentID,
		Geometry:  catalog.GeometryFromPolygon(holePoly),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.areas.Add(innerArea)

	pairs, err2 := e.prop.Propagate(area.ParentID)
	if err2 != nil {
		return catalog.Area{}, catalog.Area{}, err2
	}

	entry := catalog.HistoryEntry{
		Created:  []catalog.Area{innerArea},
		Modified: append([]catalog.ModifiedPair{{Before: before, After: area}}, pairs...),
	}
	if err := e.commit(ctx, entry); err != nil {
		return area, innerArea, err
	}
	return area, innerArea, nil
}

// ExpandWithChild grows parentAreaID by the outer-path polygon, created
// as a new child. When the parent currently has no explicit children,
// its implicit child is first materialized as an explicit twin of the
// pre-union geometry, so the new outer polygon becomes a second child
// and the parent's union grows rather than shrinks. See DESIGN.md.
func (e *Editor) ExpandWithChild(ctx context.Context, parentAreaID string, outerPath []orb.Point) (catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return catalog.Area{}, err
	}
	parent, ok := e.areas.GetReal(parentAreaID)
	if !ok {
		return catalog.Area{}, notFoundErr(parentAreaID)
	}
	childLevel, ok := e.levels.GetChildOf(parent.LevelKey)
	if !ok {
		return catalog.Area{}, catalog.NewError(catalog.NoChildLevel, "level %q has no child level", parent.LevelKey)
	}
	if len(outerPath) < 2 {
		return catalog.Area{}, catalog.NewError(catalog.InvalidGeometry, "expandWithChild requires at least two path points")
	}

	var created []catalog.Area
	now := e.now()

	if len(e.areas.ExplicitChildren(parentAreaID)) == 0 {
		twin := catalog.Area{
			ID:        e.idGen(),
			LevelKey:  childLevel.Key,
			ParentID:  &parentAreaID,
			Geometry:  parent.Geometry,
			CreatedAt: parent.CreatedAt,
			UpdatedAt: parent.UpdatedAt,
		}
		e.areas.Add(twin)
		created = append(created, twin)
	}

	outerRing := catalog.MaterializeExteriorRing(outerPath)
	outerPoly := ringToPolygon(outerRing)
	newChild := catalog.Area{
		ID:        e.idGen(),
		LevelKey:  childLevel.Key,
		ParentID:  &parentAreaID,
		Geometry:  catalog.GeometryFromPolygon(outerPoly),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.areas.Add(newChild)
	created = append(created, newChild)

	pairs, err := e.prop.Propagate(&parentAreaID)
	if err != nil {
		return catalog.Area{}, err
	}

	entry := catalog.HistoryEntry{Created: created, Modified: pairs}
	if err := e.commit(ctx, entry); err != nil {
		return newChild, err
	}
	return newChild, nil
}
