// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package catalog

import "github.com/paulmach/orb"

// DraftShape is a transient ordered sequence of lat/lng points plus a
// closed flag, used to pass vertex sequences into edit operations. The
// core never stores a DraftShape itself; see internal/draftstore for the
// optional scratchpad.
type DraftShape struct {
	Points []orb.Point `json:"points"`
	Closed bool        `json:"closed"`
}

// ViolationCode names one reason a draft was rejected by ValidateDraft.
type ViolationCode string

const (
	TooFewVertices   ViolationCode = "TOO_FEW_VERTICES"
	ZeroArea         ViolationCode = "ZERO_AREA"
	SelfIntersection ViolationCode = "SELF_INTERSECTION"
)

// zeroAreaTolerance is the minimum signed area (in squared degrees) below
// which a closed draft is rejected as degenerate.
const zeroAreaTolerance = 1e-14

// ValidateDraft applies the pure geometric predicates of the draft
// validator and returns every violation found (possibly empty, possibly
// more than one). Open drafts are only ever checked for vertex count.
func ValidateDraft(d DraftShape) []ViolationCode {
	var violations []ViolationCode

	distinct := countDistinctVertices(d.Points)
	if d.Closed {
		if distinct < 3 {
			violations = append(violations, TooFewVertices)
			return violations
		}
	} else {
		if distinct < 2 {
			violations = append(violations, TooFewVertices)
		}
		return violations
	}

	area := SignedArea(d.Points)
	if area < 0 {
		area = -area
	}
	if area < zeroAreaTolerance {
		violations = append(violations, ZeroArea)
	}

	if hasSelfIntersection(d.Points) {
		violations = append(violations, SelfIntersection)
	}

	return violations
}

func countDistinctVertices(pts []orb.Point) int {
	n := 0
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		n++
	}
	if n > 1 && pts[0] == pts[len(pts)-1] {
		// A caller-closed sequence (first == last) counts the shared
		// vertex once.
		n--
	}
	return n
}

// hasSelfIntersection reports whether any pair of non-adjacent edges of
// the closed ring formed by pts properly cross.
func hasSelfIntersection(pts []orb.Point) bool {
	ring := CloseRing(pts)
	n := len(ring) - 1 // number of edges; ring[n] == ring[0]
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[i+1]
		for j := i + 1; j < n; j++ {
			if j == i {
				continue
			}
			// Adjacent edges (including the wraparound pair) share an
			// endpoint and are never counted as a violation.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := ring[j], ring[j+1]
			if SegmentsProperlyCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}
