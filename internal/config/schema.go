// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

// configSchema is the JSON Schema every config file is validated against
// before it is decoded into ProgramConfig.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "geocatalog-server configuration file schema",
  "type": "object",
  "properties": {
    "addr": {
      "description": "Address where the http server will listen on.",
      "type": "string"
    },
    "db-driver": {
      "description": "SQL driver backing the persistence adapter. Only sqlite3 is supported.",
      "type": "string",
      "enum": ["sqlite3"]
    },
    "db": {
      "description": "For sqlite3 a filename.",
      "type": "string"
    },
    "levels": {
      "description": "The static area level taxonomy, root first. A linear chain: each key may appear as parentLevelKey of at most one other level.",
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "key": { "type": "string", "minLength": 1 },
          "name": { "type": "string" },
          "parentLevelKey": { "type": "string" },
          "description": { "type": "string" }
        },
        "required": ["key", "name"]
      },
      "minItems": 1
    },
    "max-undo-steps": {
      "description": "Bound of the undo stack. Oldest entries beyond it are discarded.",
      "type": "integer",
      "minimum": 1
    },
    "epsilon": {
      "description": "Coordinate-equality tolerance in degrees.",
      "type": "number",
      "exclusiveMinimum": 0
    },
    "checkpoint-interval": {
      "description": "How often the background task asks the adapter to checkpoint, as a Go duration string. Empty disables the task.",
      "type": "string"
    },
    "metadata-schema-file": {
      "description": "Optional path to a JSON Schema that area metadata loaded from the adapter must satisfy.",
      "type": "string"
    }
  },
  "required": ["levels"]
}`
