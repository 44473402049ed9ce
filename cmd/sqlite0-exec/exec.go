// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/VKCOM/sqlite0/internal/config"
	"github.com/VKCOM/sqlite0/internal/logz"
	"github.com/VKCOM/sqlite0/internal/sqlite0"
)

const (
	appName = "sqlite0-exec"

	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func run(args []string, stdin io.Reader, stdout io.Writer, lookupEnv func(string) (string, bool)) int {
	f := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	var explain []int
	f.IntSliceVar(&explain, "explain-code", nil, "print name, class and primary code of a result code and exit")
	cfg, err := config.Load(f, args, lookupEnv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		logz.Errorf("%v", err)
		return exitUsage
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	if len(explain) > 0 {
		for _, code := range explain {
			explainCode(out, int32(code))
		}
		return exitOK
	}

	log, err := logz.New(cfg.LogConfig(appName))
	if err != nil {
		logz.Errorf("%v", err)
		return exitUsage
	}
	defer log.Close()

	if err := sqlite0.SetLogf(engineLog(log)); err != nil {
		log.Debug("engine log is not available", logz.Err(err))
	}
	defer sqlite0.SetLogf(nil)

	log.Debug("starting", logz.String("sqlite", sqlite0.Version()), logz.String("db", cfg.DB), logz.Stringer("flags", cfg.Flags()))
	err = sqlite0.WithConn(cfg.DB, cfg.Flags(), cfg.VFS, func(c *sqlite0.Conn) error {
		e := &executor{conn: c, log: log, out: out}
		if err := e.setup(cfg); err != nil {
			return err
		}
		scripts := f.Args()
		if len(scripts) == 0 {
			scripts = []string{"-"}
		}
		for _, name := range scripts {
			sql, err := readScript(name, stdin)
			if err != nil {
				return err
			}
			if err := e.runScript(name, sql); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		rc := sqlite0.ErrorCode(err)
		log.Error("failed", logz.String("code", rc.String()), logz.Stringer("class", rc.Class()), logz.Err(err))
		return exitFailure
	}
	return exitOK
}

func explainCode(w io.Writer, code int32) {
	rc := sqlite0.Classify(code)
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", code, rc, rc.Class(), rc.Primary())
}

// engineLog forwards the engine's error log; notices are not failures.
func engineLog(log *logz.Logger) sqlite0.LogFunc {
	return func(code sqlite0.ResultCode, msg string) {
		fields := []logz.Field{logz.String("code", code.String()), logz.String("msg", msg)}
		if code.Class() == sqlite0.ClassNotice {
			log.Info("engine", fields...)
			return
		}
		log.Warn("engine", fields...)
	}
}

type executor struct {
	conn *sqlite0.Conn
	log  *logz.Logger
	out  *bufio.Writer
}

func (e *executor) setup(cfg *config.Exec) error {
	if rc := e.conn.SetBusyTimeout(cfg.BusyTimeout); rc != sqlite0.ResultOK {
		return e.conn.Err(rc, "sqlite3_busy_timeout")
	}
	if cfg.Profile {
		if rc := e.conn.RegisterCallback(e.profile); rc != sqlite0.ResultOK {
			return e.conn.Err(rc, "sqlite3_trace_v2")
		}
	}
	return nil
}

func (e *executor) profile(sql, expandedSQL string, duration time.Duration) {
	if expandedSQL == "" {
		expandedSQL = sql
	}
	e.log.Info("statement", logz.String("sql", expandedSQL), logz.Duration("duration", duration))
}

// runScript executes every statement of sql in order and stops at the first failure.
func (e *executor) runScript(name string, sql string) error {
	for rest := sql; strings.TrimSpace(rest) != ""; {
		rc, s, tail := e.conn.PrepareTail(rest)
		if rc != sqlite0.ResultOK {
			return errors.Wrapf(e.conn.Err(rc, "sqlite3_prepare_v2"), "%s", name)
		}
		if s.Valid() {
			text := strings.TrimSpace(s.SQL())
			err := e.runStmt(s)
			if rc := s.Finalize(); rc != sqlite0.ResultOK && err == nil {
				err = e.conn.Err(rc, "sqlite3_finalize")
			}
			if err != nil {
				return errors.Wrapf(err, "%s: %s", name, text)
			}
		}
		if len(tail) >= len(rest) {
			break
		}
		rest = tail
	}
	return nil
}

func (e *executor) runStmt(s *sqlite0.Stmt) error {
	sql := strings.TrimSpace(s.SQL())
	for rows := 0; ; rows++ {
		switch rc := s.Step(); rc {
		case sqlite0.ResultRow:
			e.printRow(s)
		case sqlite0.ResultDone:
			e.log.Debug("done", logz.String("sql", sql), logz.Int("rows", rows), logz.Int64("changes", e.conn.Changes64()))
			return nil
		default:
			return e.conn.Err(rc, "sqlite3_step")
		}
	}
}

func (e *executor) printRow(s *sqlite0.Stmt) {
	n := s.DataCount()
	for i := 0; i < n; i++ {
		if i > 0 {
			e.out.WriteByte('\t')
		}
		switch s.ColumnType(i) {
		case sqlite0.ColumnNull:
			e.out.WriteString("NULL")
		case sqlite0.ColumnBlob:
			e.out.WriteString("x'")
			e.out.WriteString(hex.EncodeToString(s.ColumnBlob(i)))
			e.out.WriteByte('\'')
		default:
			e.out.WriteString(s.ColumnText(i))
		}
	}
	e.out.WriteByte('\n')
}

func readScript(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), errors.Wrap(err, "failed to read stdin")
	}
	data, err := os.ReadFile(name)
	return string(data), errors.Wrap(err, "failed to read script")
}
