// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package taskManager

import (
	"github.com/geocatalog/catalog-editor/pkg/log"
	"github.com/go-co-op/gocron/v2"
)

// RegisterCheckpointService schedules a periodic call to checkpoint,
// which flushes the persistence adapter's write-ahead log. interval is a
// Go duration string from the config file.
func RegisterCheckpointService(interval string, checkpoint func() error) {
	d, err := parseDuration(interval)
	if err != nil || d == 0 {
		return
	}
	log.Info("Register checkpoint service")

	s.NewJob(gocron.DurationJob(d),
		gocron.NewTask(
			func() {
				if err := checkpoint(); err != nil {
					log.Warnf("Checkpoint service failed: %v", err)
				}
			}))
}
