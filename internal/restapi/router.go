// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package restapi exposes the catalog editor's query API and every edit
// operation as JSON endpoints over gorilla/mux, plus the Swagger UI.
package restapi

import (
	"net/http"

	"github.com/geocatalog/catalog-editor/internal/editor"
	"github.com/geocatalog/catalog-editor/internal/metrics"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Logger is the narrow logging surface the REST layer depends on,
// matching internal/editor.Logger and internal/storeadapter.Logger.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Server wires a *editor.Editor to HTTP handlers.
type Server struct {
	editor  *editor.Editor
	metrics *metrics.Registry
	log     Logger
}

// New constructs a Server. metrics may be nil to disable instrumentation.
func New(e *editor.Editor, reg *metrics.Registry, log Logger) *Server {
	if log == nil {
		log = nopLogger{}
	}
	return &Server{editor: e, metrics: reg, log: log}
}

// MountRoutes registers every endpoint under r's "/api" subrouter.
func (s *Server) MountRoutes(r *mux.Router) {
	r = r.PathPrefix("/api").Subrouter()
	r.StrictSlash(true)

	r.HandleFunc("/levels/", s.getLevels).Methods(http.MethodGet)
	r.HandleFunc("/levels/{key}", s.getLevel).Methods(http.MethodGet)

	r.HandleFunc("/areas/", s.getAllAreas).Methods(http.MethodGet)
	r.HandleFunc("/areas/", s.saveAsArea).Methods(http.MethodPost)
	r.HandleFunc("/areas/bulk/", s.bulkCreate).Methods(http.MethodPost)
	r.HandleFunc("/areas/roots/", s.getRoots).Methods(http.MethodGet)
	r.HandleFunc("/areas/by-level/{key}", s.getByLevel).Methods(http.MethodGet)
	r.HandleFunc("/areas/{id}", s.getArea).Methods(http.MethodGet)
	r.HandleFunc("/areas/{id}/children", s.getChildren).Methods(http.MethodGet)
	r.HandleFunc("/areas/{id}/geometry", s.updateAreaGeometry).Methods(http.MethodPut)
	r.HandleFunc("/areas/{id}", s.deleteArea).Methods(http.MethodDelete)
	r.HandleFunc("/areas/{id}/rename", s.renameArea).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/reparent", s.reparentArea).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/merge", s.mergeArea).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/shared-edge-move", s.sharedEdgeMove).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/split-as-children", s.splitAsChildren).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/split-replace", s.splitReplace).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/carve-inner-child", s.carveInnerChild).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/punch-hole", s.punchHole).Methods(http.MethodPost)
	r.HandleFunc("/areas/{id}/expand-with-child", s.expandWithChild).Methods(http.MethodPost)

	r.HandleFunc("/drafts/validate", s.validateDraft).Methods(http.MethodPost)

	r.HandleFunc("/history/undo", s.undo).Methods(http.MethodPost)
	r.HandleFunc("/history/redo", s.redo).Methods(http.MethodPost)
	r.HandleFunc("/history/status", s.historyStatus).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
}

// observe records the outcome of an Edit Engine call in s.metrics, if
// wired. op is the operation name (e.g. "save-as-area").
func (s *Server) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOperation(op, err)
	s.metrics.Snapshot(s.editor.UndoDepth(), s.editor.RedoDepth(), areaCountsByLevel(s.editor))
}

func areaCountsByLevel(e *editor.Editor) map[string]int {
	counts := map[string]int{}
	for _, l := range e.GetAllLevels() {
		counts[l.Key] = len(e.GetByLevel(l.Key))
	}
	return counts
}
