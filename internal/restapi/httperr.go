// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package restapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// ErrorResponse is the JSON body writeError returns for a failed request.
type ErrorResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error"`
}

// statusForKind maps the editor's error taxonomy onto HTTP status codes:
// NotInitialized is 503, validation kinds are caller mistakes (4xx),
// external kinds are server-side (5xx).
func statusForKind(k catalog.Kind) int {
	switch k {
	case catalog.NotInitialized:
		return http.StatusServiceUnavailable
	case catalog.AreaNotFound, catalog.AreaLevelNotFound, catalog.DraftNotFound:
		return http.StatusNotFound
	case catalog.InvalidLevelConfig, catalog.LevelMismatch, catalog.AreaHasChildren,
		catalog.ParentWouldBeEmpty, catalog.CircularReference, catalog.DraftNotClosed,
		catalog.InvalidGeometry, catalog.NoChildLevel:
		return http.StatusUnprocessableEntity
	case catalog.StorageError, catalog.DataIntegrity:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to an HTTP status and writes the JSON error body.
// If err is not a *catalog.Error it is treated as an internal error.
func (s *Server) writeError(rw http.ResponseWriter, err error) {
	var cerr *catalog.Error
	status := http.StatusInternalServerError
	kind := ""
	if errors.As(err, &cerr) {
		status = statusForKind(cerr.Kind)
		kind = cerr.Kind.String()
	}
	s.log.Warnf("restapi: %s", err.Error())
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(ErrorResponse{
		Status: http.StatusText(status),
		Kind:   kind,
		Error:  err.Error(),
	})
}

func writeJSON(rw http.ResponseWriter, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
