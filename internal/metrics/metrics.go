// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes Prometheus counters and gauges for the catalog
// editor: operation outcomes, undo/redo stack depth, and area counts per
// level.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups every metric the catalog editor exports. A single
// instance is created at server startup and handed to the editor/REST
// wiring; tests can construct their own with a private *prometheus.Registry
// to avoid colliding with the global default registerer.
type Registry struct {
	OperationsTotal *prometheus.CounterVec
	UndoStackDepth  prometheus.Gauge
	RedoStackDepth  prometheus.Gauge
	AreasTotal      *prometheus.GaugeVec
}

// New registers and returns the catalog editor's metrics against reg. Pass
// prometheus.DefaultRegisterer in production; pass a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Count of Edit Engine operations by operation name and result (ok|error).",
		}, []string{"op", "result"}),
		UndoStackDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_undo_stack_depth",
			Help: "Current number of entries on the undo stack.",
		}),
		RedoStackDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_redo_stack_depth",
			Help: "Current number of entries on the redo stack.",
		}),
		AreasTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_areas_total",
			Help: "Current number of real areas by level.",
		}, []string{"level"}),
	}
}

// ObserveOperation records the outcome of one Edit Engine call.
func (r *Registry) ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.OperationsTotal.WithLabelValues(op, result).Inc()
}

// Snapshot updates the stack-depth and per-level area gauges from current
// editor state. Call after every successful operation.
func (r *Registry) Snapshot(undoDepth, redoDepth int, byLevel map[string]int) {
	r.UndoStackDepth.Set(float64(undoDepth))
	r.RedoStackDepth.Set(float64(redoDepth))
	for level, count := range byLevel {
		r.AreasTotal.WithLabelValues(level).Set(float64(count))
	}
}
