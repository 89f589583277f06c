// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import (
	"context"

	"github.com/geocatalog/catalog-editor/pkg/catalog"
)

// fakeAdapter is an in-memory catalog.PersistenceAdapter stand-in:
// preload via `loaded`, then observe what BatchWrite received.
type fakeAdapter struct {
	loaded       []catalog.Area
	writes       []catalog.ChangeSet
	batchWriteFn func(catalog.ChangeSet) error
}

func (f *fakeAdapter) LoadAll(ctx context.Context) ([]catalog.Area, error) {
	return append([]catalog.Area(nil), f.loaded...), nil
}

func (f *fakeAdapter) BatchWrite(ctx context.Context, cs catalog.ChangeSet) error {
	f.writes = append(f.writes, cs)
	if f.batchWriteFn != nil {
		return f.batchWriteFn(cs)
	}
	return nil
}
