// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Area is the persisted entity: a polygonal region at a level, optionally
// parented under another Area.
type Area struct {
	ID          string                 `json:"id" db:"id"`
	DisplayName string                 `json:"displayName" db:"display_name"`
	LevelKey    string                 `json:"levelKey" db:"level_key"`
	ParentID    *string                `json:"parentId,omitempty" db:"parent_id"`
	Geometry    Geometry               `json:"geometry"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time              `json:"updatedAt" db:"updated_at"`

	// Implicit is true for a virtual area synthesized by the area store;
	// implicit areas are never stored and carry no lifecycle.
	Implicit bool `json:"implicit"`
}

// Clone returns a deep-enough copy suitable for History snapshots: the
// Geometry pointers are shared (geometries are treated as immutable once
// materialized) but Metadata is copied so later mutation of the live area
// cannot retroactively change a snapshot.
func (a Area) Clone() Area {
	clone := a
	if a.ParentID != nil {
		pid := *a.ParentID
		clone.ParentID = &pid
	}
	if a.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(a.Metadata))
		for k, v := range a.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

const implicitIDPrefix = "implicit:"

// ImplicitAreaID computes the deterministic identifier of the virtual
// child synthesized for parentID at childLevelKey, so repeated queries
// return equal virtual records.
func ImplicitAreaID(parentID, childLevelKey string) string {
	return fmt.Sprintf("%s%s:%s", implicitIDPrefix, parentID, childLevelKey)
}

// IsImplicitID reports whether id is shaped like an implicit area
// identifier (does not verify the parent/level actually resolve).
func IsImplicitID(id string) bool {
	return strings.HasPrefix(id, implicitIDPrefix)
}

// ParseImplicitID splits an implicit id into its parent id and child level
// key. ok is false if id is not implicit-shaped.
func ParseImplicitID(id string) (parentID, childLevelKey string, ok bool) {
	if !IsImplicitID(id) {
		return "", "", false
	}
	rest := strings.TrimPrefix(id, implicitIDPrefix)
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}

// NewImplicitArea synthesizes the virtual area representing parent's
// implicit child at childLevelKey: same geometry, same timestamps, empty
// display name, Implicit set.
func NewImplicitArea(parent Area, childLevelKey string) Area {
	parentID := parent.ID
	return Area{
		ID:          ImplicitAreaID(parentID, childLevelKey),
		DisplayName: "",
		LevelKey:    childLevelKey,
		ParentID:    &parentID,
		Geometry:    parent.Geometry,
		CreatedAt:   parent.CreatedAt,
		UpdatedAt:   parent.UpdatedAt,
		Implicit:    true,
	}
}
