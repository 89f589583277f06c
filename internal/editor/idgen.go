// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package editor

import "github.com/google/uuid"

// newUUID allocates a collision-free area identifier. Generation policy
// is the embedding application's (see Config.IDGenerator); the default
// picks UUIDv4.
func newUUID() string {
	return uuid.NewString()
}
