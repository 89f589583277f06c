// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package restapi

import (
	"net/http"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/gorilla/mux"
)

func (s *Server) getLevels(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, s.editor.GetAllLevels())
}

func (s *Server) getLevel(rw http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	level, ok := s.editor.GetLevel(key)
	if !ok {
		s.writeError(rw, catalog.NewError(catalog.AreaLevelNotFound, "no such level %q", key))
		return
	}
	writeJSON(rw, level)
}

func (s *Server) getAllAreas(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, s.editor.GetAllAreas())
}

func (s *Server) getRoots(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, s.editor.GetRoots())
}

func (s *Server) getByLevel(rw http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	writeJSON(rw, s.editor.GetByLevel(key))
}

func (s *Server) getArea(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	area, ok := s.editor.GetArea(id)
	if !ok {
		s.writeError(rw, catalog.NewError(catalog.AreaNotFound, "no such area %q", id))
		return
	}
	writeJSON(rw, area)
}

func (s *Server) getChildren(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(rw, s.editor.GetChildren(id))
}

func (s *Server) validateDraft(rw http.ResponseWriter, r *http.Request) {
	var draft catalog.DraftShape
	if err := decodeJSON(r.Body, &draft); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	writeJSON(rw, s.editor.ValidateDraft(draft))
}

func (s *Server) historyStatus(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, struct {
		UndoDepth int `json:"undoDepth"`
		RedoDepth int `json:"redoDepth"`
		AreaCount int `json:"areaCount"`
	}{s.editor.UndoDepth(), s.editor.RedoDepth(), s.editor.AreaCount()})
}
