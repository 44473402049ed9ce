// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package logz

import (
	"io"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer is the target of the "logfile" sink. Until an output is set,
// writes are dropped.
type Writer struct {
	writer atomic.Value // holds output
}

type output struct {
	io.Writer
}

func newWriter() *Writer {
	return &Writer{}
}

func (w *Writer) SetOutput(writer io.Writer) {
	w.writer.Store(output{writer})
}

// SetRotatingFile directs the sink to a size-rotated file.
func (w *Writer) SetRotatingFile(cfg FileConfig) *lumberjack.Logger {
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	w.SetOutput(lj)
	return lj
}

func (w *Writer) load() io.Writer {
	o, ok := w.writer.Load().(output)
	if !ok {
		return nil
	}
	return o.Writer
}

func (w *Writer) Write(p []byte) (n int, err error) {
	writer := w.load()
	if writer == nil {
		return len(p), nil
	}
	return writer.Write(p)
}

// Close leaves the output open; Logger.Close owns the rotating file.
func (w *Writer) Close() error {
	return nil
}

func (w *Writer) Sync() error {
	writer, ok := w.load().(*os.File)
	if !ok {
		return nil
	}
	return writer.Sync()
}
