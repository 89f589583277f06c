// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config holds the program configuration of geocatalog-server: a
// flag-selected JSON file validated against an embedded JSON Schema
// before it is decoded, with hardcoded defaults for everything the file
// omits.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ProgramConfig is the format of the configuration file. See Keys below
// for the defaults.
type ProgramConfig struct {
	// Address where the http server will listen on (for example: 'localhost:8080').
	Addr string `json:"addr"`

	// Only 'sqlite3' is supported by the bundled adapter.
	DBDriver string `json:"db-driver"`

	// For sqlite3 a filename.
	DB string `json:"db"`

	// The declared level taxonomy, root first. Validated by the level
	// store before the editor starts.
	Levels []catalog.AreaLevel `json:"levels"`

	// Bound of the undo stack.
	MaxUndoSteps int `json:"max-undo-steps"`

	// Coordinate-equality tolerance in degrees.
	Epsilon float64 `json:"epsilon"`

	// How often the background task asks the adapter to checkpoint its
	// WAL, as a Go duration string. Empty disables the task.
	CheckpointInterval string `json:"checkpoint-interval"`

	// Optional path to a JSON Schema that area metadata loaded from the
	// adapter must satisfy (DataIntegrity on mismatch).
	MetadataSchemaFile string `json:"metadata-schema-file"`
}

var Keys ProgramConfig = ProgramConfig{
	Addr:               ":8080",
	DBDriver:           "sqlite3",
	DB:                 "./var/catalog.db",
	MaxUndoSteps:       100,
	Epsilon:            1e-8,
	CheckpointInterval: "1h",
}

// Init reads flagConfigFile into Keys. A missing file leaves the defaults
// in place; a present but invalid file is an error.
func Init(flagConfigFile string) error {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %q: %w", flagConfigFile, err)
	}

	if err := Validate(raw); err != nil {
		return fmt.Errorf("config: validate %q: %w", flagConfigFile, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		return fmt.Errorf("config: decode %q: %w", flagConfigFile, err)
	}

	if len(Keys.Levels) == 0 {
		return fmt.Errorf("config: at least one level required in config")
	}
	return nil
}

// Validate checks raw against the embedded config schema.
func Validate(raw []byte) error {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}
