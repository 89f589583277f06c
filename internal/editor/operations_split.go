// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"
	"math"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel"
	"github.com/paulmach/orb"
)

const whiskerCoincidenceEpsilon = 1e-8
const whiskerBacktrackDot = -0.99

// RemoveWhiskers strips the portions of a hand-drawn cut line that
// double back on themselves: drop runs of consecutive coincident points,
// then iteratively drop any interior vertex where the two adjacent edges
// backtrack along each other, until stable. This is an intentional
// approximation of true line-polygon intersection trimming; see
// DESIGN.md.
func RemoveWhiskers(pts []orb.Point) []orb.Point {
	for {
		deduped := dedupConsecutive(pts, whiskerCoincidenceEpsilon)
		cleaned, changed := dropOneBacktrack(deduped)
		if !changed && len(deduped) == len(pts) {
			return cleaned
		}
		pts = cleaned
	}
}

func dedupConsecutive(pts []orb.Point, epsilon float64) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && coincident(out[len(out)-1], p, epsilon) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dropOneBacktrack(pts []orb.Point) ([]orb.Point, bool) {
	if len(pts) < 3 {
		return pts, false
	}
	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		if unitDot(prev, cur, next) < whiskerBacktrackDot {
			out := make([]orb.Point, 0, len(pts)-1)
			out = append(out, pts[:i]...)
			out = append(out, pts[i+1:]...)
			return out, true
		}
	}
	return pts, false
}

// unitDot returns the dot product of the unit vectors prev->cur and
// cur->next; near -1 means the polyline reverses direction at cur.
func unitDot(prev, cur, next orb.Point) float64 {
	ax, ay := cur[0]-prev[0], cur[1]-prev[1]
	bx, by := next[0]-cur[0], next[1]-cur[1]
	al := vecLen(ax, ay)
	bl := vecLen(bx, by)
	if al == 0 || bl == 0 {
		return 1 // degenerate, not a backtrack
	}
	return (ax*bx + ay*by) / (al * bl)
}

func vecLen(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

func (e *Editor) splitHalfPlaneFromPath(pts []orb.Point) geomkernel.HalfPlane {
	a := pts[0]
	b := pts[len(pts)-1]
	return geomkernel.HalfPlane{A: a, B: b, Side: 1}
}

// splitPieces runs the shared split mechanics (whisker removal, cut,
// piece collection) against base. A cut line that degenerates below two
// points after whisker removal is an InvalidGeometry error; a line that
// survives cleaning but fails to produce at least two non-empty pieces
// returns (nil, nil) and the operation is a no-op.
func (e *Editor) splitPieces(base orb.Polygon, openDraft catalog.DraftShape) ([]orb.Polygon, error) {
	if openDraft.Closed {
		return nil, catalog.NewError(catalog.InvalidGeometry, "split operations require an open draft")
	}
	if len(openDraft.Points) < 2 {
		return nil, catalog.NewError(catalog.InvalidGeometry, "split operations require at least two points")
	}
	cleaned := RemoveWhiskers(openDraft.Points)
	if len(cleaned) < 2 {
		return nil, catalog.NewError(catalog.InvalidGeometry,
			"cut line degenerates to %d point(s) after whisker removal", len(cleaned))
	}
	hp := e.splitHalfPlaneFromPath(cleaned)
	side1, side2, err := e.kernel.IntersectHalfPlanes(base, hp)
	if err != nil {
		if err == geomkernel.ErrNoCut {
			return nil, nil
		}
		return nil, catalog.WrapError(catalog.InvalidGeometry, err, "splitting geometry")
	}
	pieces := append(append([]orb.Polygon{}, side1...), side2...)
	if len(pieces) < 2 {
		return nil, nil
	}
	return pieces, nil
}

// SplitAsChildren implements splitAsChildren.
func (e *Editor) SplitAsChildren(ctx context.Context, areaID string, openDraft catalog.DraftShape) ([]catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}

	target, derivedParentID, err := e.resolveRealOrImplicit(areaID)
	if err != nil {
		return nil, err
	}
	parentID := target.ID
	if derivedParentID != nil {
		parentID = *derivedParentID
	}

	if len(e.areas.ExplicitChildren(target.ID)) > 0 {
		return nil, catalog.NewError(catalog.AreaHasChildren, "target %q has explicit children", target.ID)
	}
	childLevel, ok := e.levels.GetChildOf(target.LevelKey)
	if !ok {
		return nil, catalog.NewError(catalog.NoChildLevel, "level %q has no child level", target.LevelKey)
	}
	if !target.Geometry.IsPolygon() {
		return nil, catalog.NewError(catalog.InvalidGeometry, "splitAsChildren requires a single-polygon target")
	}

	pieces, err := e.splitPieces(*target.Geometry.Polygon, openDraft)
	if err != nil {
		return nil, err
	}
	if pieces == nil {
		return nil, nil
	}

	now := e.now()
	created := make([]catalog.Area, 0, len(pieces))
	for _, piece := range pieces {
		pid := parentID
		a := catalog.Area{
			ID:        e.idGen(),
			LevelKey:  childLevel.Key,
			ParentID:  &pid,
			Geometry:  catalog.GeometryFromPolygon(piece),
			CreatedAt: now,
			UpdatedAt: now,
		}
		e.areas.Add(a)
		created = append(created, a)
	}

	pairs, err := e.prop.Propagate(&parentID)
	if err != nil {
		return nil, err
	}

	entry := catalog.HistoryEntry{Created: created, Modified: pairs}
	if err := e.commit(ctx, entry); err != nil {
		return created, err
	}
	return created, nil
}

// SplitReplace implements splitReplace.
func (e *Editor) SplitReplace(ctx context.Context, areaID string, openDraft catalog.DraftShape) ([]catalog.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	target, ok := e.areas.GetReal(areaID)
	if !ok {
		return nil, notFoundErr(areaID)
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return nil, catalog.NewError(catalog.AreaHasChildren, "target %q has explicit children", areaID)
	}
	if !target.Geometry.IsPolygon() {
		return nil, catalog.NewError(catalog.InvalidGeometry, "splitReplace requires a single-polygon target")
	}

	pieces, err := e.splitPieces(*target.Geometry.Polygon, openDraft)
	if err != nil {
		return nil, err
	}
	if pieces == nil {
		return nil, nil
	}

	now := e.now()
	created := make([]catalog.Area, 0, len(pieces))
	for _, piece := range pieces {
		var pid *string
		if target.ParentID != nil {
			v := *target.ParentID
			pid = &v
		}
		a := catalog.Area{
			ID:        e.idGen(),
			LevelKey:  target.LevelKey,
			ParentID:  pid,
			Geometry:  catalog.GeometryFromPolygon(piece),
			CreatedAt: now,
			UpdatedAt: now,
		}
		e.areas.Add(a)
		created = append(created, a)
	}

	deletedSnapshot := target.Clone()
	e.areas.Delete(areaID)

	pairs, err := e.prop.Propagate(target.ParentID)
	if err != nil {
		return nil, err
	}

	entry := catalog.HistoryEntry{Created: created, Deleted: []catalog.Area{deletedSnapshot}, Modified: pairs}
	if err := e.commit(ctx, entry); err != nil {
		return created, err
	}
	return created, nil
}
