// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package catalog

import "context"

// PersistenceAdapter is the external collaborator the editor hands change
// sets to. Atomicity and ordering of batch_write are the adapter's
// concern; the editor does not assume either and never retries. See
// internal/storeadapter for the reference SQL-backed implementation.
type PersistenceAdapter interface {
	// LoadAll returns every real area known to the backing store. The
	// caller is responsible for checking the result against the level
	// store and surfacing DataIntegrity if it is inconsistent.
	LoadAll(ctx context.Context) ([]Area, error)

	// BatchWrite durably applies cs. A returned error becomes a
	// StorageError at the editor boundary; in-memory state is not rolled
	// back.
	BatchWrite(ctx context.Context, cs ChangeSet) error
}
