// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, kind catalog.Kind) {
	t.Helper()
	require.Error(t, err)
	var cerr *catalog.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, kind, cerr.Kind)
}

func rectDraft(x0, y0, x1, y1 float64) catalog.DraftShape {
	return catalog.DraftShape{
		Points: []orb.Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}},
		Closed: true,
	}
}

func cityFixture(id string, x0, y0, x1, y1 float64, parent string) catalog.Area {
	now := time.Now()
	return catalog.Area{
		ID: id, LevelKey: "city", ParentID: ptr(parent),
		Geometry: catalog.GeometryFromPolygon(
			orb.Polygon{orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}),
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestUpdateAreaGeometryRejectsParentWithChildren(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, cityFixture("C", 0, 0, 1, 1, "P")}, 100)

	_, err := e.UpdateAreaGeometry(context.Background(), "P", unitSquareDraft())
	requireKind(t, err, catalog.AreaHasChildren)
}

func TestDeleteCascadeAndUndo(t *testing.T) {
	country := "country"
	province := "province"
	levels := []catalog.AreaLevel{
		{Key: "country", Name: "Country"},
		{Key: "province", Name: "Province", ParentLevelKey: &country},
		{Key: "prefecture", Name: "Prefecture", ParentLevelKey: &province},
	}
	now := time.Now()
	sqg := catalog.GeometryFromPolygon(unitSquarePoly())
	c := catalog.Area{ID: "C", LevelKey: "country", Geometry: sqg, CreatedAt: now, UpdatedAt: now}
	p := catalog.Area{ID: "P", LevelKey: "province", ParentID: ptr("C"), Geometry: sqg, CreatedAt: now, UpdatedAt: now}
	f := catalog.Area{ID: "F", LevelKey: "prefecture", ParentID: ptr("P"), Geometry: sqg, CreatedAt: now, UpdatedAt: now}
	e, adapter := newTestEditor(t, levels, []catalog.Area{c, p, f}, 100)

	// Without cascade the subtree blocks the delete.
	err := e.DeleteArea(context.Background(), "C", false)
	requireKind(t, err, catalog.AreaHasChildren)

	require.NoError(t, e.DeleteArea(context.Background(), "C", true))
	require.Empty(t, e.GetAllAreas())

	last := adapter.writes[len(adapter.writes)-1]
	require.ElementsMatch(t, []string{"C", "P", "F"}, last.Deleted)

	affected, ok := e.Undo()
	require.True(t, ok)
	require.Len(t, affected, 3)
	require.Len(t, e.GetAllAreas(), 3)
}

func TestMergeArea(t *testing.T) {
	pref := prefectureFixture("P")
	pref.Geometry = catalog.GeometryFromPolygon(
		orb.Polygon{orb.Ring{{0, 0}, {2, 0}, {2, 1}, {0, 1}, {0, 0}}})
	c1 := cityFixture("C1", 0, 0, 1, 1, "P")
	c2 := cityFixture("C2", 1, 0, 2, 1, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c1, c2}, 100)

	survivor, err := e.MergeArea(context.Background(), "C1", "C2")
	require.NoError(t, err)
	require.Equal(t, "C1", survivor.ID)
	require.True(t, survivor.Geometry.IsPolygon())

	_, ok := e.GetArea("C2")
	require.False(t, ok)

	// Undo restores the absorbed partner and the survivor's footprint.
	_, ok = e.Undo()
	require.True(t, ok)
	restored, ok := e.GetArea("C2")
	require.True(t, ok)
	require.Equal(t, c2.Geometry, restored.Geometry)
	gotC1, _ := e.GetArea("C1")
	require.Equal(t, c1.Geometry, gotC1.Geometry)
}

func TestMergeAreaPreconditions(t *testing.T) {
	pref1 := prefectureFixture("P1")
	pref2 := prefectureFixture("P2")
	c1 := cityFixture("C1", 0, 0, 1, 1, "P1")
	c2 := cityFixture("C2", 1, 0, 2, 1, "P2")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref1, pref2, c1, c2}, 100)

	// Not siblings.
	_, err := e.MergeArea(context.Background(), "C1", "C2")
	requireKind(t, err, catalog.LevelMismatch)

	// Different levels.
	_, err = e.MergeArea(context.Background(), "P1", "C1")
	requireKind(t, err, catalog.LevelMismatch)

	// A partner with explicit children cannot merge.
	_, err = e.MergeArea(context.Background(), "P1", "P2")
	requireKind(t, err, catalog.AreaHasChildren)
}

func TestPunchHole(t *testing.T) {
	pref := prefectureFixture("P")
	pref.Geometry = catalog.GeometryFromPolygon(
		orb.Polygon{orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}})
	c := cityFixture("C", 0, 0, 4, 4, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c}, 100)

	donut, inner, err := e.PunchHole(context.Background(), "C",
		[]orb.Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}})
	require.NoError(t, err)

	require.Equal(t, "C", donut.ID)
	require.True(t, donut.Geometry.IsPolygon())
	require.Len(t, (*donut.Geometry.Polygon), 2)

	require.Equal(t, "city", inner.LevelKey)
	require.Equal(t, "P", *inner.ParentID)
	require.True(t, inner.Geometry.IsPolygon())

	_, ok := e.Undo()
	require.True(t, ok)
	_, ok = e.GetArea(inner.ID)
	require.False(t, ok)
	restored, _ := e.GetArea("C")
	require.Len(t, (*restored.Geometry.Polygon), 1)
}

func TestPunchHoleRequiresThreeDistinctPoints(t *testing.T) {
	pref := prefectureFixture("P")
	c := cityFixture("C", 0, 0, 1, 1, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c}, 100)

	_, _, err := e.PunchHole(context.Background(), "C",
		[]orb.Point{{0.2, 0.2}, {0.2, 0.2}, {0.4, 0.4}})
	requireKind(t, err, catalog.InvalidGeometry)
}

func TestCarveInnerChild(t *testing.T) {
	pref := prefectureFixture("P")
	pref.Geometry = catalog.GeometryFromPolygon(
		orb.Polygon{orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}})
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	children, err := e.CarveInnerChild(context.Background(), "P",
		[]orb.Point{{1, 1}, {3, 1}, {3, 3}, {1, 3}})
	require.NoError(t, err)

	outer, inner := children[0], children[1]
	require.Equal(t, "city", outer.LevelKey)
	require.Equal(t, "city", inner.LevelKey)
	require.Equal(t, "P", *outer.ParentID)
	require.Equal(t, "P", *inner.ParentID)
	require.Len(t, e.GetChildren("P"), 2)

	// The inner piece is a single polygon built from the drawn loop.
	require.True(t, inner.Geometry.IsPolygon())
}

func TestCarveInnerChildRejectedOnLeaf(t *testing.T) {
	pref := prefectureFixture("P")
	c := cityFixture("C", 0, 0, 1, 1, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c}, 100)

	_, err := e.CarveInnerChild(context.Background(), "C",
		[]orb.Point{{0.1, 0.1}, {0.9, 0.1}, {0.9, 0.9}})
	requireKind(t, err, catalog.NoChildLevel)
}

func TestExpandWithChildMaterializesTwin(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	child, err := e.ExpandWithChild(context.Background(), "P",
		[]orb.Point{{1, 0}, {2, 0}, {2, 1}, {1, 1}})
	require.NoError(t, err)
	require.Equal(t, "city", child.LevelKey)

	// The implicit child was materialized as an explicit twin, so the
	// parent's union now covers the original footprint plus the new
	// child's.
	children := e.GetChildren("P")
	require.Len(t, children, 2)
	for _, c := range children {
		require.False(t, c.Implicit)
	}

	p, _ := e.GetArea("P")
	require.True(t, p.Geometry.IsPolygon())
	ring := (*p.Geometry.Polygon)[0]
	require.InDelta(t, 2.0, catalog.SignedArea([]orb.Point(ring)), 1e-9)
}

func TestExpandWithChildExistingChildrenNoTwin(t *testing.T) {
	pref := prefectureFixture("P")
	c := cityFixture("C", 0, 0, 1, 1, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c}, 100)

	_, err := e.ExpandWithChild(context.Background(), "P",
		[]orb.Point{{1, 0}, {2, 0}, {2, 1}, {1, 1}})
	require.NoError(t, err)
	require.Len(t, e.GetChildren("P"), 2)
}

func TestSplitReplace(t *testing.T) {
	pref := prefectureFixture("P")
	c := cityFixture("C", 0, 0, 1, 1, "P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, c}, 100)

	pieces, err := e.SplitReplace(context.Background(), "C",
		catalog.DraftShape{Points: []orb.Point{{-0.1, 0.5}, {1.1, 0.5}}})
	require.NoError(t, err)
	require.Len(t, pieces, 2)
	for _, p := range pieces {
		require.Equal(t, "city", p.LevelKey)
		require.Equal(t, "P", *p.ParentID)
	}
	_, ok := e.GetArea("C")
	require.False(t, ok)

	// One undo restores the original and removes both pieces.
	_, ok = e.Undo()
	require.True(t, ok)
	_, ok = e.GetArea("C")
	require.True(t, ok)
	for _, p := range pieces {
		_, ok = e.GetArea(p.ID)
		require.False(t, ok)
	}
}

func TestSplitReplaceRejectsImplicitID(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	_, err := e.SplitReplace(context.Background(), catalog.ImplicitAreaID("P", "city"),
		catalog.DraftShape{Points: []orb.Point{{-0.1, 0.5}, {1.1, 0.5}}})
	requireKind(t, err, catalog.AreaNotFound)
}

func TestSplitAsChildrenAcceptsImplicitID(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	children, err := e.SplitAsChildren(context.Background(),
		catalog.ImplicitAreaID("P", "city"),
		catalog.DraftShape{Points: []orb.Point{{-0.1, 0.5}, {1.1, 0.5}}})
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, c := range children {
		require.Equal(t, "P", *c.ParentID)
		require.Equal(t, "city", c.LevelKey)
	}
}

func TestSplitNoCutIsNoop(t *testing.T) {
	pref := prefectureFixture("P")
	e, adapter := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	children, err := e.SplitAsChildren(context.Background(), "P",
		catalog.DraftShape{Points: []orb.Point{{5, -1}, {5, 2}}})
	require.NoError(t, err)
	require.Empty(t, children)
	require.Empty(t, adapter.writes)
	require.Equal(t, 0, e.UndoDepth())
}

func TestSplitDegenerateCutLineIsInvalidGeometry(t *testing.T) {
	pref := prefectureFixture("P")
	c := cityFixture("C", 0, 0, 1, 1, "P")
	e, adapter := newTestEditor(t, twoLevelChain(), []catalog.Area{pref, prefectureFixture("Q"), c}, 100)

	// Three coincident points collapse to one after whisker removal:
	// not a silent no-op, but a caller mistake. Q has no explicit
	// children, so the cut line is what gets rejected.
	degenerate := catalog.DraftShape{Points: []orb.Point{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}}
	_, err := e.SplitAsChildren(context.Background(), "Q", degenerate)
	requireKind(t, err, catalog.InvalidGeometry)

	// A line that fully backtracks onto itself degenerates the same way.
	backtrack := catalog.DraftShape{Points: []orb.Point{{-0.1, 0.5}, {1.1, 0.5}, {-0.1, 0.5}}}
	_, err = e.SplitReplace(context.Background(), "C", backtrack)
	requireKind(t, err, catalog.InvalidGeometry)

	require.Empty(t, adapter.writes)
	require.Equal(t, 0, e.UndoDepth())
}

func TestImplicitIDsRejectedByWriteOperations(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)
	impID := catalog.ImplicitAreaID("P", "city")

	_, err := e.RenameArea(context.Background(), impID, "nope")
	requireKind(t, err, catalog.AreaNotFound)

	err = e.DeleteArea(context.Background(), impID, false)
	requireKind(t, err, catalog.AreaNotFound)

	_, err = e.UpdateAreaGeometry(context.Background(), impID, unitSquareDraft())
	requireKind(t, err, catalog.AreaNotFound)
}

func TestReparentPreconditions(t *testing.T) {
	pref1 := prefectureFixture("P1")
	pref2 := prefectureFixture("P2")
	only := cityFixture("C1", 0, 0, 1, 1, "P1")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref1, pref2, only}, 100)

	// The old parent must keep at least one explicit child.
	_, err := e.ReparentArea(context.Background(), "C1", ptr("P2"))
	requireKind(t, err, catalog.ParentWouldBeEmpty)

	// A city cannot become a root.
	_, err = e.ReparentArea(context.Background(), "C1", nil)
	requireKind(t, err, catalog.LevelMismatch)
}

func TestReparentMovesWithoutPropagation(t *testing.T) {
	pref1 := prefectureFixture("P1")
	pref2 := prefectureFixture("P2")
	c1 := cityFixture("C1", 0, 0, 1, 1, "P1")
	c2 := cityFixture("C2", 1, 0, 2, 1, "P1")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref1, pref2, c1, c2}, 100)

	moved, err := e.ReparentArea(context.Background(), "C1", ptr("P2"))
	require.NoError(t, err)
	require.Equal(t, "P2", *moved.ParentID)

	// Geometries stay as they were: reparent performs no propagation.
	p1, _ := e.GetArea("P1")
	p2, _ := e.GetArea("P2")
	require.Equal(t, pref1.Geometry, p1.Geometry)
	require.Equal(t, pref2.Geometry, p2.Geometry)
}

func TestStorageErrorLeavesStateAdvanced(t *testing.T) {
	e, adapter := newTestEditor(t, twoLevelChain(), nil, 100)
	adapter.batchWriteFn = func(catalog.ChangeSet) error {
		return errors.New("disk unplugged")
	}

	area, err := e.SaveAsArea(context.Background(), unitSquareDraft(), "A", "prefecture", nil)
	requireKind(t, err, catalog.StorageError)

	// In-memory state advanced past the adapter; recovery is the
	// caller's call, typically via Undo.
	_, ok := e.GetArea(area.ID)
	require.True(t, ok)
	require.Equal(t, 1, e.UndoDepth())

	_, ok = e.Undo()
	require.True(t, ok)
	_, ok = e.GetArea(area.ID)
	require.False(t, ok)
}

func TestSaveThenDeleteRestoresSet(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)
	before := e.GetAllAreas()

	area, err := e.SaveAsArea(context.Background(), unitSquareDraft(), "A", "city", ptr("P"))
	require.NoError(t, err)
	require.NoError(t, e.DeleteArea(context.Background(), area.ID, false))

	after := e.GetAllAreas()
	require.Len(t, after, len(before))
	require.Equal(t, before[0].ID, after[0].ID)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	_, err := e.SaveAsArea(context.Background(), rectDraft(0, 0, 1, 1), "A", "city", ptr("P"))
	require.NoError(t, err)
	_, err = e.SaveAsArea(context.Background(), rectDraft(1, 0, 2, 1), "B", "city", ptr("P"))
	require.NoError(t, err)
	_, err = e.RenameArea(context.Background(), e.GetByLevel("city")[0].ID, "renamed")
	require.NoError(t, err)

	want := e.GetAllAreas()

	for i := 0; i < 3; i++ {
		_, ok := e.Undo()
		require.True(t, ok)
	}
	for i := 0; i < 3; i++ {
		_, ok := e.Redo()
		require.True(t, ok)
	}

	require.Equal(t, want, e.GetAllAreas())
}

func TestRemoveWhiskers(t *testing.T) {
	// The middle vertex backtracks: the polyline walks left then sharply
	// reverses to the right.
	pts := []orb.Point{{-0.1, 0.5}, {-0.3, 0.5}, {1.1, 0.5}}
	got := RemoveWhiskers(pts)
	require.Equal(t, []orb.Point{{-0.1, 0.5}, {1.1, 0.5}}, got)

	// Coincident runs collapse first.
	pts = []orb.Point{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {2, 0}}
	got = RemoveWhiskers(pts)
	require.Equal(t, []orb.Point{{0, 0}, {1, 0}, {2, 0}}, got)

	// A clean line is untouched.
	pts = []orb.Point{{0, 0}, {1, 1}}
	require.Equal(t, pts, RemoveWhiskers(pts))
}

func TestNewRejectsInconsistentLoad(t *testing.T) {
	now := time.Now()
	sqg := catalog.GeometryFromPolygon(unitSquarePoly())
	// A root-level area claiming a parent violates the level chain.
	bad := catalog.Area{ID: "X", LevelKey: "prefecture", ParentID: ptr("P"),
		Geometry: sqg, CreatedAt: now, UpdatedAt: now}
	pref := prefectureFixture("P")

	adapter := &fakeAdapter{loaded: []catalog.Area{pref, bad}}
	_, err := New(context.Background(), Config{
		Adapter: adapter,
		Levels:  twoLevelChain(),
		Kernel:  fakeKernel{},
	})
	requireKind(t, err, catalog.DataIntegrity)
}
