// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package log is the leveled logger of the catalog editor server. Lines
// carry sd-daemon priority prefixes (<7>[DEBUG], <3>[ERROR], ...) so
// systemd classifies them; date/time stamping is off by default because
// the journal stamps lines itself, and can be enabled with the server's
// -logdate flag.
//
// The editor's library packages never import this package directly: they
// accept a narrow Debugf/Warnf/Errorf interface, and cmd wires these
// package-level functions in behind it.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level orders message severities. Messages below the configured
// threshold are discarded.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCrit
)

// prefix returns the sd-daemon priority tag for a level.
// See https://www.freedesktop.org/software/systemd/man/sd-daemon.html
func (l Level) prefix() string {
	switch l {
	case LevelDebug:
		return "<7>[DEBUG]    "
	case LevelInfo:
		return "<6>[INFO]     "
	case LevelWarn:
		return "<4>[WARNING]  "
	case LevelError:
		return "<3>[ERROR]    "
	default:
		return "<2>[CRITICAL] "
	}
}

var mu sync.Mutex
var out io.Writer = os.Stderr
var threshold = LevelWarn
var withTime bool

// SetLogLevel sets the minimum severity that is written. Accepted values
// are debug, info, warn, err and crit; anything else falls back to debug
// with a complaint.
func SetLogLevel(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	switch lvl {
	case "debug":
		threshold = LevelDebug
	case "info":
		threshold = LevelInfo
	case "warn":
		threshold = LevelWarn
	case "err", "fatal":
		threshold = LevelError
	case "crit":
		threshold = LevelCrit
	default:
		fmt.Fprintf(out, "pkg/log: unknown loglevel %q, falling back to debug\n", lvl)
		threshold = LevelDebug
	}
}

// SetLogDateTime enables date/time stamps on every line.
func SetLogDateTime(logdate bool) {
	mu.Lock()
	defer mu.Unlock()
	withTime = logdate
}

// SetOutput redirects all output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// emit writes msg at level l if l clears the threshold. The underlying
// *log.Logger is rebuilt per call; logging is nowhere near hot enough in
// this server for that to matter, and it keeps the flag handling in one
// place.
func emit(l Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if l < threshold {
		return
	}
	flags := 0
	if withTime {
		flags = log.LstdFlags
	}
	log.New(out, l.prefix(), flags).Output(2, msg)
}

/* PLAIN */

func Debug(v ...interface{}) { emit(LevelDebug, fmt.Sprint(v...)) }
func Info(v ...interface{})  { emit(LevelInfo, fmt.Sprint(v...)) }
func Warn(v ...interface{})  { emit(LevelWarn, fmt.Sprint(v...)) }
func Error(v ...interface{}) { emit(LevelError, fmt.Sprint(v...)) }
func Crit(v ...interface{})  { emit(LevelCrit, fmt.Sprint(v...)) }

// Print writes at info priority regardless of the threshold. Used for
// messages that must always appear, like the final shutdown line.
func Print(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	flags := 0
	if withTime {
		flags = log.LstdFlags
	}
	log.New(out, LevelInfo.prefix(), flags).Output(2, fmt.Sprint(v...))
}

// Fatal logs at critical priority and exits.
func Fatal(v ...interface{}) {
	emit(LevelCrit, fmt.Sprint(v...))
	os.Exit(1)
}

/* FORMATTED */

func Debugf(format string, v ...interface{}) { emit(LevelDebug, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...interface{}) { emit(LevelError, fmt.Sprintf(format, v...)) }
func Critf(format string, v ...interface{})  { emit(LevelCrit, fmt.Sprintf(format, v...)) }

// Printf writes at info priority regardless of the threshold.
func Printf(format string, v ...interface{}) {
	Print(fmt.Sprintf(format, v...))
}

// Fatalf logs at critical priority and exits.
func Fatalf(format string, v ...interface{}) {
	emit(LevelCrit, fmt.Sprintf(format, v...))
	os.Exit(1)
}
