// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/geocatalog/catalog-editor/internal/config"
	"github.com/geocatalog/catalog-editor/internal/editor"
	"github.com/geocatalog/catalog-editor/internal/metrics"
	"github.com/geocatalog/catalog-editor/internal/storeadapter"
	"github.com/geocatalog/catalog-editor/internal/taskManager"
	"github.com/geocatalog/catalog-editor/pkg/catalog/geomkernel/planar"
	"github.com/geocatalog/catalog-editor/pkg/log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	date    string
	commit  string
	version string
)

// cclog adapts the package-level pkg/log functions onto the narrow
// Logger interfaces the library packages accept.
type cclog struct{}

func (cclog) Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }
func (cclog) Warnf(format string, v ...interface{})  { log.Warnf(format, v...) }
func (cclog) Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }

func main() {
	cliInit()

	if flagVersion {
		fmt.Print(versionInfo())
		os.Exit(0)
	}

	log.SetLogLevel(flagLogLevel)
	log.SetLogDateTime(flagLogDateTime)

	// Apply the .env file next to the binary, if present, before the
	// config file is read (it may carry e.g. a DB path override).
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("parsing .env file failed: %s", err.Error())
	}

	if err := config.Init(flagConfigFile); err != nil {
		log.Fatalf("%s", err.Error())
	}

	if len(config.Keys.Levels) == 0 {
		log.Fatalf("no levels configured; declare the taxonomy in %s", flagConfigFile)
	}

	if config.Keys.DBDriver != "sqlite3" {
		log.Fatalf("unsupported db-driver %q (only sqlite3 is bundled)", config.Keys.DBDriver)
	}

	var opts []storeadapter.Option
	opts = append(opts, storeadapter.WithLogger(cclog{}))
	if config.Keys.MetadataSchemaFile != "" {
		schema, err := storeadapter.CompileMetadataSchema(config.Keys.MetadataSchemaFile)
		if err != nil {
			log.Fatalf("compiling metadata schema: %s", err.Error())
		}
		opts = append(opts, storeadapter.WithMetadataSchema(schema))
	}

	adapter, err := storeadapter.Open(config.Keys.DB, opts...)
	if err != nil {
		log.Fatalf("opening store: %s", err.Error())
	}
	defer adapter.Close()

	ctx := context.Background()

	// Persist the configured taxonomy so external consumers of the
	// database see the same levels the editor validates against.
	if err := adapter.SaveLevels(ctx, config.Keys.Levels); err != nil {
		log.Fatalf("saving level taxonomy: %s", err.Error())
	}

	ed, err := editor.New(ctx, editor.Config{
		Adapter:      adapter,
		Levels:       config.Keys.Levels,
		Kernel:       planar.New(),
		MaxUndoSteps: config.Keys.MaxUndoSteps,
		Epsilon:      config.Keys.Epsilon,
		Logger:       cclog{},
	})
	if err != nil {
		log.Fatalf("initializing editor: %s", err.Error())
	}

	reg := metrics.New(prometheus.DefaultRegisterer)

	taskManager.Start(func() error {
		return adapter.Checkpoint(context.Background())
	})

	serverInit(ed, reg)

	var wg sync.WaitGroup

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-sigs
		serverShutdown()
		taskManager.Shutdown()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		serverStart()
	}()

	wg.Wait()
	log.Print("Graceful shutdown completed!")
}

func versionInfo() string {
	return fmt.Sprintf("Version:\t%s\nGit hash:\t%s\nBuild time:\t%s\n",
		version, commit, date)
}
