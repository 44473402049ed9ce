// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package logz

import "go.uber.org/atomic"

var facadeLogger atomic.Pointer[Logger]

const FacadeDefaultCallerSkipOffset = 2

func init() {
	logger, err := New(Config{
		Level:            "info",
		App:              "facade",
		Encoding:         "console",
		Outputs:          []string{"stderr"},
		CallerSkipOffset: FacadeDefaultCallerSkipOffset,
	})
	if err != nil {
		panic(err)
	}
	StoreFacadeLogger(logger)
}

// StoreFacadeLogger replaces the logger behind the package-level functions.
// It should be built with CallerSkipOffset set to FacadeDefaultCallerSkipOffset.
func StoreFacadeLogger(logger *Logger) {
	facadeLogger.Store(logger)
}

func loadFacadeLogger() *Logger {
	return facadeLogger.Load()
}

func Sync() error {
	return loadFacadeLogger().Sync()
}

func With(args ...Field) *Logger {
	return loadFacadeLogger().With(args...)
}

func Trace(message string, args ...Field) {
	loadFacadeLogger().Trace(message, args...)
}

func Debug(message string, args ...Field) {
	loadFacadeLogger().Debug(message, args...)
}

func Info(message string, args ...Field) {
	loadFacadeLogger().Info(message, args...)
}

func Warn(message string, args ...Field) {
	loadFacadeLogger().Warn(message, args...)
}

func Error(message string, args ...Field) {
	loadFacadeLogger().Error(message, args...)
}

func Infof(message string, args ...interface{}) {
	loadFacadeLogger().Infof(message, args...)
}

func Warnf(message string, args ...interface{}) {
	loadFacadeLogger().Warnf(message, args...)
}

func Errorf(message string, args ...interface{}) {
	loadFacadeLogger().Errorf(message, args...)
}
