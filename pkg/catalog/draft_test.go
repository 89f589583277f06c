// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package catalog

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		draft  DraftShape
		expect []ViolationCode
	}{
		{
			"valid closed square",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, Closed: true},
			nil,
		},
		{
			"closed with explicit closing vertex",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, Closed: true},
			nil,
		},
		{
			"closed too few",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 0}}, Closed: true},
			[]ViolationCode{TooFewVertices},
		},
		{
			"closed duplicates collapse below three",
			DraftShape{Points: []orb.Point{{0, 0}, {0, 0}, {1, 0}, {1, 0}}, Closed: true},
			[]ViolationCode{TooFewVertices},
		},
		{
			"open too few",
			DraftShape{Points: []orb.Point{{0, 0}}, Closed: false},
			[]ViolationCode{TooFewVertices},
		},
		{
			"open two points fine",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 1}}, Closed: false},
			nil,
		},
		{
			// Open drafts are never checked for area or intersection.
			"open self-crossing fine",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 1}, {1, 0}, {0, 1}}, Closed: false},
			nil,
		},
		{
			"zero area collinear",
			DraftShape{Points: []orb.Point{{0, 0}, {1, 1}, {2, 2}}, Closed: true},
			[]ViolationCode{ZeroArea},
		},
		{
			"bowtie self intersection",
			DraftShape{Points: []orb.Point{{0, 0}, {4, 2}, {4, 0}, {0, 1}}, Closed: true},
			[]ViolationCode{SelfIntersection},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, ValidateDraft(tc.draft))
		})
	}
}

func TestSegmentsProperlyCross(t *testing.T) {
	// Proper crossing.
	require.True(t, SegmentsProperlyCross(
		orb.Point{0, 0}, orb.Point{2, 2}, orb.Point{0, 2}, orb.Point{2, 0}))
	// Shared endpoint only.
	require.False(t, SegmentsProperlyCross(
		orb.Point{0, 0}, orb.Point{1, 1}, orb.Point{1, 1}, orb.Point{2, 0}))
	// Collinear overlap is degenerate in-line, not a crossing.
	require.False(t, SegmentsProperlyCross(
		orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{1, 0}, orb.Point{3, 0}))
	// Fully disjoint.
	require.False(t, SegmentsProperlyCross(
		orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0, 1}, orb.Point{1, 1}))
}
