// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/geocatalog/catalog-editor/internal/config"
	"github.com/geocatalog/catalog-editor/internal/editor"
	"github.com/geocatalog/catalog-editor/internal/metrics"
	"github.com/geocatalog/catalog-editor/internal/restapi"
	"github.com/geocatalog/catalog-editor/pkg/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	router *mux.Router
	server *http.Server
)

func serverInit(ed *editor.Editor, reg *metrics.Registry) {
	router = mux.NewRouter()
	router.StrictSlash(true)

	api := restapi.New(ed, reg, cclog{})
	api.MountRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	server = &http.Server{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		Handler:      router,
		Addr:         config.Keys.Addr,
	}
}

func serverStart() {
	log.Infof("HTTP server listening at %s...", config.Keys.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			log.Fatalf("starting http listener failed: %v", err)
		}
		log.Fatalf("starting server failed: %v", err)
	}
}

func serverShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
