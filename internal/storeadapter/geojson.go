// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package storeadapter

import (
	"encoding/json"
	"fmt"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// encodeGeometry marshals a catalog.Geometry to the GeoJSON text stored
// in the areas.geometry column.
func encodeGeometry(g catalog.Geometry) (string, error) {
	if !g.IsPolygon() && !g.IsMultiPolygon() {
		return "", fmt.Errorf("storeadapter: empty geometry")
	}
	raw, err := g.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeGeometry parses the GeoJSON text column back into a
// catalog.Geometry.
func decodeGeometry(raw string) (catalog.Geometry, error) {
	var g catalog.Geometry
	if err := g.UnmarshalJSON([]byte(raw)); err != nil {
		return catalog.Geometry{}, err
	}
	if !g.IsPolygon() && !g.IsMultiPolygon() {
		return catalog.Geometry{}, fmt.Errorf("storeadapter: geometry column holds no polygon")
	}
	return g, nil
}

func encodeMetadata(m map[string]interface{}) (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

func decodeMetadata(raw *string) (map[string]interface{}, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(*raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
