// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package storeadapter is the reference persistence adapter backing the
// catalog editor: a SQLite table pair (areas, area_levels) accessed with
// sqlx + squirrel, with schema migrations embedded in the binary.
package storeadapter

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/jmoiron/sqlx"
	"github.com/santhosh-tekuri/jsonschema/v5"
	_ "github.com/mattn/go-sqlite3"
)

// Logger is the narrow logging surface the adapter depends on; wire
// pkg/log at the call site, matching internal/editor.Logger.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Adapter is the SQLite-backed catalog.PersistenceAdapter.
type Adapter struct {
	db             *sqlx.DB
	log            Logger
	metadataSchema *jsonschema.Schema // optional, validates Area.Metadata on LoadAll
}

// Option configures an Adapter at construction time.
type Option func(*Adapter)

// WithLogger wires a concrete logger (e.g. pkg/log).
func WithLogger(l Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithMetadataSchema validates every loaded area's free-form Metadata
// against schema on LoadAll, surfacing DataIntegrity on mismatch.
func WithMetadataSchema(schema *jsonschema.Schema) Option {
	return func(a *Adapter) { a.metadataSchema = schema }
}

// CompileMetadataSchema compiles the JSON Schema at path for use with
// WithMetadataSchema.
func CompileMetadataSchema(path string) (*jsonschema.Schema, error) {
	return jsonschema.Compile(path)
}

// Open opens (creating if necessary) a SQLite database at dsn and brings
// its schema up to date via golang-migrate.
func Open(dsn string, opts ...Option) (*Adapter, error) {
	db, err := sqlx.Connect("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storeadapter: open %q: %w", dsn, err)
	}

	a := &Adapter{db: db, log: nopLogger{}}
	for _, o := range opts {
		o(a)
	}

	if err := runMigrations(db.DB, a.log); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the underlying database handle.
func (a *Adapter) Close() error { return a.db.Close() }

// LoadAll returns every real area in the areas table, satisfying
// catalog.PersistenceAdapter.
func (a *Adapter) LoadAll(ctx context.Context) ([]catalog.Area, error) {
	query, args, err := sq.Select(
		"id", "display_name", "level_key", "parent_id",
		"geometry", "metadata", "created_at", "updated_at",
	).From("areas").ToSql()
	if err != nil {
		return nil, fmt.Errorf("storeadapter: build query: %w", err)
	}

	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storeadapter: load_all: %w", err)
	}
	defer rows.Close()

	var out []catalog.Area
	for rows.Next() {
		var rec areaRow
		if err := rows.StructScan(&rec); err != nil {
			return nil, fmt.Errorf("storeadapter: scan area: %w", err)
		}
		area, err := rec.toArea()
		if err != nil {
			return nil, catalog.WrapError(catalog.DataIntegrity, err, "area %s has malformed geometry", rec.ID)
		}
		if a.metadataSchema != nil && len(area.Metadata) > 0 {
			if err := a.metadataSchema.Validate(map[string]interface{}(area.Metadata)); err != nil {
				return nil, catalog.WrapError(catalog.DataIntegrity, err, "area %s metadata fails schema", area.ID)
			}
		}
		out = append(out, area)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storeadapter: iterate areas: %w", err)
	}
	a.log.Debugf("storeadapter: loaded %d areas", len(out))
	return out, nil
}

// BatchWrite durably applies cs inside a single SQL transaction: inserts
// created areas, deletes removed ones, and updates modified after-images.
// Atomicity is this adapter's own; the editor does not assume it.
func (a *Adapter) BatchWrite(ctx context.Context, cs catalog.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storeadapter: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, area := range cs.Created {
		if err := insertArea(ctx, tx, area); err != nil {
			return fmt.Errorf("storeadapter: insert %s: %w", area.ID, err)
		}
	}
	for _, area := range cs.Modified {
		if err := updateArea(ctx, tx, area); err != nil {
			return fmt.Errorf("storeadapter: update %s: %w", area.ID, err)
		}
	}
	for _, id := range cs.Deleted {
		if _, err := sq.Delete("areas").Where(sq.Eq{"id": id}).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("storeadapter: delete %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storeadapter: commit: %w", err)
	}
	a.log.Debugf("storeadapter: wrote change set (created=%d modified=%d deleted=%d)",
		len(cs.Created), len(cs.Modified), len(cs.Deleted))
	return nil
}

// Checkpoint flushes SQLite's write-ahead log into the main database
// file. Called periodically by the background task manager; harmless when
// the database is not in WAL mode.
func (a *Adapter) Checkpoint(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("storeadapter: checkpoint: %w", err)
	}
	a.log.Debugf("storeadapter: checkpoint complete")
	return nil
}

// LoadLevels returns the declared level taxonomy persisted in
// area_levels by SaveLevels.
func (a *Adapter) LoadLevels(ctx context.Context) ([]catalog.AreaLevel, error) {
	query, args, err := sq.Select("key", "name", "parent_level_key", "description").
		From("area_levels").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storeadapter: load_levels: %w", err)
	}
	defer rows.Close()

	var out []catalog.AreaLevel
	for rows.Next() {
		var rec levelRow
		if err := rows.StructScan(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec.toLevel())
	}
	return out, rows.Err()
}

// SaveLevels overwrites the persisted level taxonomy. Called once at
// server startup, before the editor (and its level store) is constructed.
func (a *Adapter) SaveLevels(ctx context.Context, levels []catalog.AreaLevel) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM area_levels"); err != nil {
		return err
	}
	for _, l := range levels {
		var parent sql.NullString
		if l.ParentLevelKey != nil {
			parent = sql.NullString{String: *l.ParentLevelKey, Valid: true}
		}
		_, err := sq.Insert("area_levels").
			Columns("key", "name", "parent_level_key", "description").
			Values(l.Key, l.Name, parent, l.Description).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
