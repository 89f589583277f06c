// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func sequentialIDGen(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

func unitSquarePoly() orb.Polygon {
	return orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}
}

func unitSquareDraft() catalog.DraftShape {
	return catalog.DraftShape{Points: []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, Closed: true}
}

func twoLevelChain() []catalog.AreaLevel {
	prefParent := "prefecture"
	return []catalog.AreaLevel{
		{Key: "prefecture", Name: "Prefecture"},
		{Key: "city", Name: "City", ParentLevelKey: &prefParent},
	}
}

func newTestEditor(t *testing.T, levels []catalog.AreaLevel, preload []catalog.Area, maxUndo int) (*Editor, *fakeAdapter) {
	t.Helper()
	adapter := &fakeAdapter{loaded: preload}
	idGen := sequentialIDGen("area")
	e, err := New(context.Background(), Config{
		Adapter:      adapter,
		Levels:       levels,
		Kernel:       fakeKernel{},
		MaxUndoSteps: maxUndo,
		IDGenerator:  idGen,
	})
	require.NoError(t, err)
	return e, adapter
}

func prefectureFixture(id string) catalog.Area {
	now := time.Now()
	return catalog.Area{
		ID:        id,
		LevelKey:  "prefecture",
		Geometry:  catalog.GeometryFromPolygon(unitSquarePoly()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// S1 — round-trip rename.
func TestScenarioRoundTripRename(t *testing.T) {
	pref := prefectureFixture("P")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	area, err := e.SaveAsArea(context.Background(), unitSquareDraft(), "A", "city", ptr("P"))
	require.NoError(t, err)

	p, ok := e.GetArea("P")
	require.True(t, ok)
	require.True(t, p.Geometry.IsPolygon())

	_, err = e.RenameArea(context.Background(), area.ID, "B")
	require.NoError(t, err)
	got, _ := e.GetArea(area.ID)
	require.Equal(t, "B", got.DisplayName)

	_, ok = e.Undo()
	require.True(t, ok)
	got, _ = e.GetArea(area.ID)
	require.Equal(t, "A", got.DisplayName)

	_, ok = e.Undo()
	require.True(t, ok)
	_, ok = e.GetArea(area.ID)
	require.False(t, ok)

	p, ok = e.GetArea("P")
	require.True(t, ok)
	require.True(t, p.Geometry.IsPolygon())
}

// S3 — bulkCreate is all-or-nothing.
func TestScenarioBulkCreateAllOrNothing(t *testing.T) {
	e, adapter := newTestEditor(t, twoLevelChain(), nil, 100)

	items := []BulkCreateItem{
		{Draft: unitSquareDraft(), Name: "ok", LevelKey: "prefecture"},
		{Draft: unitSquareDraft(), Name: "bad", LevelKey: "nonexistent"},
	}
	_, err := e.BulkCreate(context.Background(), items)
	require.Error(t, err)
	var cerr *catalog.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, catalog.AreaLevelNotFound, cerr.Kind)

	require.Empty(t, e.GetAllAreas())
	require.Empty(t, adapter.writes)
}

// S4 — circular reparent is rejected.
func TestScenarioCircularReparentRejected(t *testing.T) {
	country := "country"
	province := "province"
	levels := []catalog.AreaLevel{
		{Key: "country", Name: "Country"},
		{Key: "province", Name: "Province", ParentLevelKey: &country},
		{Key: "prefecture", Name: "Prefecture", ParentLevelKey: &province},
	}
	now := time.Now()
	sq := catalog.GeometryFromPolygon(unitSquarePoly())
	c := catalog.Area{ID: "C", LevelKey: "country", Geometry: sq, CreatedAt: now, UpdatedAt: now}
	p1 := catalog.Area{ID: "P1", LevelKey: "province", ParentID: ptr("C"), Geometry: sq, CreatedAt: now, UpdatedAt: now}
	p2 := catalog.Area{ID: "P2", LevelKey: "province", ParentID: ptr("C"), Geometry: sq, CreatedAt: now, UpdatedAt: now}
	e, _ := newTestEditor(t, levels, []catalog.Area{c, p1, p2}, 100)

	// Deliberately inconsistent record: X claims level "country" but is
	// parented under P1. Injected directly into the store, since the
	// adapter load path rejects it with DataIntegrity.
	x := catalog.Area{ID: "X", LevelKey: "country", ParentID: ptr("P1"), Geometry: sq, CreatedAt: now, UpdatedAt: now}
	e.areas.Add(x)

	_, err := e.ReparentArea(context.Background(), "P1", ptr("X"))
	require.Error(t, err)
	var cerr *catalog.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, catalog.CircularReference, cerr.Kind)

	got, _ := e.GetArea("P1")
	require.Equal(t, "C", *got.ParentID)
}

// S6 — history bound discards oldest.
func TestScenarioHistoryBoundDiscardsOldest(t *testing.T) {
	leaf := catalog.Area{ID: "L", LevelKey: "prefecture", DisplayName: "Orig",
		Geometry: catalog.GeometryFromPolygon(unitSquarePoly()), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	e, _ := newTestEditor(t, []catalog.AreaLevel{{Key: "prefecture", Name: "Prefecture"}}, []catalog.Area{leaf}, 2)

	for _, name := range []string{"R1", "R2", "R3"} {
		_, err := e.RenameArea(context.Background(), "L", name)
		require.NoError(t, err)
	}

	_, ok := e.Undo()
	require.True(t, ok)
	_, ok = e.Undo()
	require.True(t, ok)
	got, _ := e.GetArea("L")
	require.Equal(t, "R1", got.DisplayName)

	_, ok = e.Undo()
	require.False(t, ok)
	got, _ = e.GetArea("L")
	require.Equal(t, "R1", got.DisplayName)
}

// S2 — leaf-only splits never produce a MultiPolygon.
func TestScenarioSplitNeverProducesMultiPolygon(t *testing.T) {
	pref := prefectureFixture("Pr")
	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pref}, 100)

	openDraft := catalog.DraftShape{
		Points: []orb.Point{{-0.1, 0.5}, {1.1, 0.5}},
		Closed: false,
	}
	children, err := e.SplitAsChildren(context.Background(), "Pr", openDraft)
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, c := range children {
		require.Equal(t, "city", c.LevelKey)
		require.True(t, c.Geometry.IsPolygon())
	}

	p, ok := e.GetArea("Pr")
	require.True(t, ok)
	require.True(t, p.Geometry.IsPolygon())
}

// S5 — shared-edge propagation.
func TestScenarioSharedEdgeMove(t *testing.T) {
	now := time.Now()
	prGeom := catalog.GeometryFromPolygon(orb.Polygon{orb.Ring{{0, 0}, {4, 0}, {4, 1}, {0, 1}, {0, 0}}})
	c1Geom := catalog.GeometryFromPolygon(orb.Polygon{orb.Ring{{0, 0}, {2, 0}, {2, 1}, {0, 1}, {0, 0}}})
	c2Geom := catalog.GeometryFromPolygon(orb.Polygon{orb.Ring{{2, 0}, {4, 0}, {4, 1}, {2, 1}, {2, 0}}})

	pr := catalog.Area{ID: "Pr", LevelKey: "prefecture", Geometry: prGeom, CreatedAt: now, UpdatedAt: now}
	c1 := catalog.Area{ID: "C1", LevelKey: "city", ParentID: ptr("Pr"), Geometry: c1Geom, CreatedAt: now, UpdatedAt: now}
	c2 := catalog.Area{ID: "C2", LevelKey: "city", ParentID: ptr("Pr"), Geometry: c2Geom, CreatedAt: now, UpdatedAt: now}

	e, _ := newTestEditor(t, twoLevelChain(), []catalog.Area{pr, c1, c2}, 100)

	vertexIndex := 1 // (2,0) is ring[1] in C1's exterior ring
	_, err := e.SharedEdgeMove(context.Background(), "C1", vertexIndex, 0, 2.5)
	require.NoError(t, err)

	gotC1, _ := e.GetArea("C1")
	gotC2, _ := e.GetArea("C2")
	require.True(t, ringHasVertex(gotC1.Geometry, orb.Point{2.5, 0}))
	require.True(t, ringHasVertex(gotC2.Geometry, orb.Point{2.5, 0}))
	require.False(t, ringHasVertex(gotC1.Geometry, orb.Point{2, 0}))
}

func ringHasVertex(g catalog.Geometry, want orb.Point) bool {
	for _, poly := range g.Polygons() {
		for _, ring := range poly {
			for _, p := range ring {
				if p == want {
					return true
				}
			}
		}
	}
	return false
}
