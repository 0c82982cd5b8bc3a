// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal logging surface oocstore needs, shaped like
// pebble's own internal/base.Logger (Infof/Errorf/Fatalf), so a caller
// already embedding pebble can reuse the same adapter for both.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// zerologLogger adapts Logger onto github.com/rs/zerolog, the structured
// logger cuemby-warren wires up alongside its own bbolt-backed storage
// layer — the closest pack precedent for "bbolt store + structured logs".
type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger returns the default Logger, writing structured JSON
// lines to stderr.
func NewZerologLogger() Logger {
	return &zerologLogger{log: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

func (l *zerologLogger) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *zerologLogger) Fatalf(format string, args ...interface{}) {
	l.log.Fatal().Msgf(format, args...)
}

// noopLogger discards everything; used by tests that don't want store
// chatter on stderr.
type noopLogger struct{}

func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatalf(string, ...interface{}) {}
