// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package editor is the public surface of the catalog editor: the edit
// operations plus the read-only query API, wired to the level store,
// area store, ancestor propagator and history stacks.
package editor

import (
	"context"
	"time"

	"github.com/geocatalog/catalog-editor/internal/areastore"
	"github.com/geocatalog/catalog-editor/internal/history"
	"github.com/geocatalog/catalog-editor/internal/levelstore"
	"github.com/geocatalog/catalog-editor/internal/propagate"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel"
	"github.com/geocatalog/catalog-editor/pkg/lrucache"
)

// queryCacheEntries bounds the scratch cache used to memoize
// ImplicitArea projections and children lookups for the duration of a
// single operation; it is reset at the start of every edit operation
// (requireInitialized) and on undo/redo, so it never observes a mutation
// made by a later operation. Query methods read it but do not reset it.
const queryCacheEntries = 1024

// Logger is the narrow logging surface the editor depends on; wire a
// concrete implementation (e.g. pkg/log) at the call site.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Config configures a new Editor.
type Config struct {
	Adapter      catalog.PersistenceAdapter
	Levels       []catalog.AreaLevel
	Kernel       geomkernel.Kernel
	MaxUndoSteps int     // default 100
	Epsilon      float64 // default 1e-8 degrees
	IDGenerator  func() string
	Now          func() time.Time
	Logger       Logger
}

// Editor is the Edit Engine: it validates preconditions, mutates the Area
// Store, invokes the Ancestor Propagator, assembles a HistoryEntry and a
// ChangeSet, and dispatches the ChangeSet to the persistence adapter.
//
// Not safe for concurrent use: the editor assumes a single logical
// owner.
type Editor struct {
	levels  *levelstore.Store
	areas   *areastore.Store
	kernel  geomkernel.Kernel
	adapter catalog.PersistenceAdapter
	hist    *history.History
	prop    *propagate.Propagator
	epsilon float64
	idGen   func() string
	now     func() time.Time
	log     Logger
	cache   *lrucache.Cache

	initialized bool
}

// New validates the level config, loads the backing store via the
// adapter, checks every loaded area's parent/level chain against the
// level store (surfacing DataIntegrity on mismatch), and returns a ready
// Editor.
func New(ctx context.Context, cfg Config) (*Editor, error) {
	if cfg.Adapter == nil {
		return nil, catalog.NewError(catalog.NotInitialized, "persistence adapter is required")
	}
	if cfg.Kernel == nil {
		return nil, catalog.NewError(catalog.NotInitialized, "geometry kernel is required")
	}

	levels, err := levelstore.New(cfg.Levels)
	if err != nil {
		return nil, err
	}

	epsilon := cfg.Epsilon
	if epsilon == 0 {
		epsilon = 1e-8
	}
	maxUndo := cfg.MaxUndoSteps
	if maxUndo == 0 {
		maxUndo = 100
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = defaultIDGenerator
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	areas := areastore.New(levels)

	loaded, err := cfg.Adapter.LoadAll(ctx)
	if err != nil {
		return nil, catalog.WrapError(catalog.StorageError, err, "loading catalog from adapter")
	}

	for _, a := range loaded {
		if err := checkAreaIntegrity(levels, areas, a); err != nil {
			return nil, err
		}
		areas.Add(a)
	}

	e := &Editor{
		levels:      levels,
		areas:       areas,
		kernel:      cfg.Kernel,
		adapter:     cfg.Adapter,
		hist:        history.New(maxUndo),
		epsilon:     epsilon,
		idGen:       idGen,
		now:         now,
		log:         logger,
		cache:       lrucache.New(queryCacheEntries),
		initialized: true,
	}
	e.prop = propagate.New(areas, cfg.Kernel, now)
	return e, nil
}

// checkAreaIntegrity checks a just-loaded area: if it has a parent, the
// parent must already be known and the level chain must match.
func checkAreaIntegrity(levels *levelstore.Store, areas *areastore.Store, a catalog.Area) error {
	level, ok := levels.Get(a.LevelKey)
	if !ok {
		return catalog.NewError(catalog.DataIntegrity, "area %q references unknown level %q", a.ID, a.LevelKey)
	}
	if a.ParentID == nil {
		if level.ParentLevelKey != nil {
			return catalog.NewError(catalog.DataIntegrity,
				"area %q at level %q has no parent but the level expects one", a.ID, a.LevelKey)
		}
		return nil
	}
	parent, ok := areas.GetReal(*a.ParentID)
	if !ok {
		return catalog.NewError(catalog.DataIntegrity, "area %q references unknown parent %q", a.ID, *a.ParentID)
	}
	if level.ParentLevelKey == nil || *level.ParentLevelKey != parent.LevelKey {
		return catalog.NewError(catalog.DataIntegrity,
			"area %q at level %q has parent at level %q, expected parent level %q",
			a.ID, a.LevelKey, parent.LevelKey, parentLabel(level.ParentLevelKey))
	}
	return nil
}

func parentLabel(k *string) string {
	if k == nil {
		return "<none>"
	}
	return *k
}

func defaultIDGenerator() string {
	return newUUID()
}

// requireInitialized is the common precondition every public operation
// checks first.
func (e *Editor) requireInitialized() error {
	if !e.initialized {
		return catalog.NewError(catalog.NotInitialized, "editor has not been initialized")
	}
	e.cache = lrucache.New(queryCacheEntries)
	return nil
}

// commit pushes entry to history (unless it is empty, meaning a no-op
// operation), assembles the mirrored ChangeSet, and dispatches it to the
// adapter. Entry must already reflect completed in-memory mutation.
func (e *Editor) commit(ctx context.Context, entry catalog.HistoryEntry) error {
	if entry.Empty() {
		return nil
	}
	e.hist.Push(entry)
	cs := catalog.ChangeSetFromHistory(entry)
	if err := e.adapter.BatchWrite(ctx, cs); err != nil {
		e.log.Errorf("batch_write failed: %v", err)
		return catalog.WrapError(catalog.StorageError, err, "writing change set")
	}
	return nil
}
