// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package restapi

import (
	"net/http"

	"github.com/geocatalog/catalog-editor/internal/editor"
	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
)

type saveAsAreaRequest struct {
	Draft    catalog.DraftShape `json:"draft"`
	Name     string             `json:"name"`
	LevelKey string             `json:"levelKey"`
	ParentID *string            `json:"parentId,omitempty"`
}

func (s *Server) saveAsArea(rw http.ResponseWriter, r *http.Request) {
	var req saveAsAreaRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.SaveAsArea(r.Context(), req.Draft, req.Name, req.LevelKey, req.ParentID)
	s.observe("save-as-area", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

type bulkCreateRequest struct {
	Items []editor.BulkCreateItem `json:"items"`
}

func (s *Server) bulkCreate(rw http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	areas, err := s.editor.BulkCreate(r.Context(), req.Items)
	s.observe("bulk-create", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, areas)
}

func (s *Server) updateAreaGeometry(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var draft catalog.DraftShape
	if err := decodeJSON(r.Body, &draft); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.UpdateAreaGeometry(r.Context(), id, draft)
	s.observe("update-area-geometry", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

func (s *Server) deleteArea(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cascade := r.URL.Query().Get("cascade") == "true"
	err := s.editor.DeleteArea(r.Context(), id, cascade)
	s.observe("delete-area", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

type renameAreaRequest struct {
	Name string `json:"name"`
}

func (s *Server) renameArea(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req renameAreaRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.RenameArea(r.Context(), id, req.Name)
	s.observe("rename-area", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

type reparentAreaRequest struct {
	NewParentID *string `json:"newParentId,omitempty"`
}

func (s *Server) reparentArea(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req reparentAreaRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.ReparentArea(r.Context(), id, req.NewParentID)
	s.observe("reparent-area", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

type mergeAreaRequest struct {
	OtherAreaID string `json:"otherAreaId"`
}

func (s *Server) mergeArea(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req mergeAreaRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.MergeArea(r.Context(), id, req.OtherAreaID)
	s.observe("merge-area", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

type sharedEdgeMoveRequest struct {
	VertexIndex int     `json:"vertexIndex"`
	NewLat      float64 `json:"newLat"`
	NewLng      float64 `json:"newLng"`
}

func (s *Server) sharedEdgeMove(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req sharedEdgeMoveRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.SharedEdgeMove(r.Context(), id, req.VertexIndex, req.NewLat, req.NewLng)
	s.observe("shared-edge-move", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

func (s *Server) splitAsChildren(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var draft catalog.DraftShape
	if err := decodeJSON(r.Body, &draft); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	areas, err := s.editor.SplitAsChildren(r.Context(), id, draft)
	s.observe("split-as-children", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, areas)
}

func (s *Server) splitReplace(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var draft catalog.DraftShape
	if err := decodeJSON(r.Body, &draft); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	areas, err := s.editor.SplitReplace(r.Context(), id, draft)
	s.observe("split-replace", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, areas)
}

type loopPointsRequest struct {
	Points []orb.Point `json:"points"`
}

func (s *Server) carveInnerChild(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req loopPointsRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	children, err := s.editor.CarveInnerChild(r.Context(), id, req.Points)
	s.observe("carve-inner-child", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, children)
}

func (s *Server) punchHole(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req loopPointsRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	donut, inner, err := s.editor.PunchHole(r.Context(), id, req.Points)
	s.observe("punch-hole", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, struct {
		Donut catalog.Area `json:"donut"`
		Inner catalog.Area `json:"inner"`
	}{donut, inner})
}

func (s *Server) expandWithChild(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req loopPointsRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(rw, catalog.NewError(catalog.InvalidGeometry, "malformed request body: %v", err))
		return
	}
	area, err := s.editor.ExpandWithChild(r.Context(), id, req.Points)
	s.observe("expand-with-child", err)
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, area)
}

func (s *Server) undo(rw http.ResponseWriter, r *http.Request) {
	areas, ok := s.editor.Undo()
	writeJSON(rw, struct {
		Areas []catalog.Area `json:"areas"`
		OK    bool           `json:"ok"`
	}{areas, ok})
}

func (s *Server) redo(rw http.ResponseWriter, r *http.Request) {
	areas, ok := s.editor.Redo()
	writeJSON(rw, struct {
		Areas []catalog.Area `json:"areas"`
		OK    bool           `json:"ok"`
	}{areas, ok})
}
