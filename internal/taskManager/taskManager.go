// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package taskManager schedules the server's periodic background jobs on
// a shared gocron scheduler. Currently the only job is the adapter
// checkpoint; jobs register themselves against the package-level
// scheduler, which Start creates and Shutdown tears down.
package taskManager

import (
	"time"

	"github.com/geocatalog/catalog-editor/internal/config"
	"github.com/geocatalog/catalog-editor/pkg/log"
	"github.com/go-co-op/gocron/v2"
)

var s gocron.Scheduler

func parseDuration(str string) (time.Duration, error) {
	interval, err := time.ParseDuration(str)
	if err != nil {
		log.Warnf("Could not parse duration for checkpoint interval: %v", str)
		return 0, err
	}
	return interval, nil
}

// Start creates the scheduler and registers every configured job.
func Start(checkpoint func() error) {
	var err error
	s, err = gocron.NewScheduler()
	if err != nil {
		log.Fatalf("TaskManager Start: could not create gocron scheduler: %s", err.Error())
	}

	if config.Keys.CheckpointInterval != "" {
		RegisterCheckpointService(config.Keys.CheckpointInterval, checkpoint)
	}

	s.Start()
}

// Shutdown stops the scheduler and waits for running jobs to finish.
func Shutdown() {
	if s != nil {
		s.Shutdown()
	}
}
