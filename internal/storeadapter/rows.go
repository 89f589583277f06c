// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package storeadapter

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/jmoiron/sqlx"
)

// areaRow is the sqlx scan target for the areas table.
type areaRow struct {
	ID          string         `db:"id"`
	DisplayName string         `db:"display_name"`
	LevelKey    string         `db:"level_key"`
	ParentID    sql.NullString `db:"parent_id"`
	Geometry    string         `db:"geometry"`
	Metadata    sql.NullString `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r areaRow) toArea() (catalog.Area, error) {
	geom, err := decodeGeometry(r.Geometry)
	if err != nil {
		return catalog.Area{}, err
	}
	var meta map[string]interface{}
	if r.Metadata.Valid {
		meta, err = decodeMetadata(&r.Metadata.String)
		if err != nil {
			return catalog.Area{}, err
		}
	}
	area := catalog.Area{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		LevelKey:    r.LevelKey,
		Geometry:    geom,
		Metadata:    meta,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ParentID.Valid {
		pid := r.ParentID.String
		area.ParentID = &pid
	}
	return area, nil
}

type levelRow struct {
	Key            string         `db:"key"`
	Name           string         `db:"name"`
	ParentLevelKey sql.NullString `db:"parent_level_key"`
	Description    string         `db:"description"`
}

func (r levelRow) toLevel() catalog.AreaLevel {
	l := catalog.AreaLevel{Key: r.Key, Name: r.Name, Description: r.Description}
	if r.ParentLevelKey.Valid {
		p := r.ParentLevelKey.String
		l.ParentLevelKey = &p
	}
	return l
}

func insertArea(ctx context.Context, tx *sqlx.Tx, area catalog.Area) error {
	geomText, err := encodeGeometry(area.Geometry)
	if err != nil {
		return err
	}
	metaText, err := encodeMetadata(area.Metadata)
	if err != nil {
		return err
	}
	var parent sql.NullString
	if area.ParentID != nil {
		parent = sql.NullString{String: *area.ParentID, Valid: true}
	}
	_, err = sq.Insert("areas").
		Columns("id", "display_name", "level_key", "parent_id", "geometry", "metadata", "created_at", "updated_at").
		Values(area.ID, area.DisplayName, area.LevelKey, parent, geomText, metaText, area.CreatedAt, area.UpdatedAt).
		RunWith(tx).ExecContext(ctx)
	return err
}

func updateArea(ctx context.Context, tx *sqlx.Tx, area catalog.Area) error {
	geomText, err := encodeGeometry(area.Geometry)
	if err != nil {
		return err
	}
	metaText, err := encodeMetadata(area.Metadata)
	if err != nil {
		return err
	}
	var parent sql.NullString
	if area.ParentID != nil {
		parent = sql.NullString{String: *area.ParentID, Valid: true}
	}
	_, err = sq.Update("areas").
		Set("display_name", area.DisplayName).
		Set("level_key", area.LevelKey).
		Set("parent_id", parent).
		Set("geometry", geomText).
		Set("metadata", metaText).
		Set("updated_at", area.UpdatedAt).
		Where(sq.Eq{"id": area.ID}).
		RunWith(tx).ExecContext(ctx)
	return err
}
