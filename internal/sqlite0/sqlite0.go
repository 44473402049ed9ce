// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlite0 is a thin typed layer over the SQLite C API
// (modernc.org/sqlite/lib). Every engine call returns a ResultCode;
// nothing is retried, logged or rolled back on the caller's behalf.
//
// Conn and Stmt own their engine handles and are not safe for concurrent
// use, with the single exception of Conn.Interrupt. Finalize every Stmt
// before Close, or use CloseV2, WithConn and WithStmt.
package sqlite0

import (
	"math"
	"time"
	"unsafe"

	"go.uber.org/multierr"
	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

var (
	initErr error
	logErr  error
)

func init() {
	tls := libc.NewTLS()
	defer tls.Close()

	// SQLITE_CONFIG_LOG is only accepted before the engine is initialized;
	// if some other package got there first we run without the log hook.
	if va := libc.NewVaList(cFuncPointer(sqliteLogFunc), uintptr(0)); va != 0 {
		rc := lib.Xsqlite3_config(tls, configLog, va)
		libc.Xfree(tls, va)
		if rc != ok {
			logErr = Error{Code: Classify(rc), From: "sqlite3_config", Msg: "cannot install log hook"}
		}
	}
	rc := lib.Xsqlite3_initialize(tls)
	if rc != ok {
		initErr = Error{Code: Classify(rc), From: "sqlite3_initialize", Msg: errstr(Classify(rc))}
	}
}

// SetLogf installs fn as the receiver of the engine's error log.
func SetLogf(fn LogFunc) error {
	if fn == nil {
		fn = func(ResultCode, string) {}
	}
	logFuncMu.Lock()
	defer logFuncMu.Unlock()

	logFunc = fn
	return logErr
}

func Version() string {
	if initErr != nil {
		return ""
	}
	return lib.SQLITE_VERSION
}

func VersionNumber() int {
	return lib.SQLITE_VERSION_NUMBER
}

type ProfileCallback func(sql, expandedSQL string, duration time.Duration)

// Conn is one open database handle. A zero handle means the open failed
// or the connection was closed; such a Conn answers every call with
// ResultMisuse or a zero value.
type Conn struct {
	tls      *libc.TLS
	conn     uintptr // *sqlite3
	filename string
	openMsg  string
	stmts    map[*Stmt]struct{}
	cb       ProfileCallback
	cbID     uintptr
}

// Open opens filename with DefaultOpenFlags.
// The returned Conn is never nil; check the code before using it.
func Open(filename string) (ResultCode, *Conn) {
	return OpenV2(filename, DefaultOpenFlags, "")
}

// OpenV2 opens filename with flags (0 means DefaultOpenFlags) and the named
// VFS ("" means the default one).
func OpenV2(filename string, flags OpenFlags, vfs string) (ResultCode, *Conn) {
	c := &Conn{filename: filename}
	if initErr != nil {
		c.openMsg = initErr.Error()
		return ErrorCode(initErr), c
	}
	if flags == 0 {
		flags = DefaultOpenFlags
	}

	c.tls = libc.NewTLS()
	defer func() {
		if c.conn == 0 {
			c.tls.Close()
			c.tls = nil
		}
	}()
	cName, err := cString(filename)
	if err != nil {
		c.openMsg = err.Error()
		return ResultNoMem, c
	}
	defer freeC(c.tls, cName)
	var cVFS uintptr
	if vfs != "" {
		if cVFS, err = cString(vfs); err != nil {
			c.openMsg = err.Error()
			return ResultNoMem, c
		}
		defer freeC(c.tls, cVFS)
	}

	pDB := c.tls.Alloc(int(unsafe.Sizeof(uintptr(0))))
	defer c.tls.Free(int(unsafe.Sizeof(uintptr(0))))
	*(*uintptr)(unsafe.Pointer(pDB)) = 0

	rc := Classify(lib.Xsqlite3_open_v2(c.tls, cName, pDB, int32(flags), cVFS))
	db := *(*uintptr)(unsafe.Pointer(pDB))
	if rc != ResultOK {
		// the engine hands out a handle even on failure, only to carry the message
		if db != 0 {
			c.openMsg = libc.GoString(lib.Xsqlite3_errmsg(c.tls, db))
			lib.Xsqlite3_close_v2(c.tls, db)
		} else {
			c.openMsg = errstr(rc)
		}
		return rc, c
	}
	c.conn = db
	c.stmts = map[*Stmt]struct{}{}
	return rc, c
}

// Close releases the handle. It fails with a busy code while statements
// are not finalized; the handle is kept so Close can be retried.
func (c *Conn) Close() ResultCode {
	if c.conn == 0 {
		return ResultOK
	}
	rc := Classify(lib.Xsqlite3_close(c.tls, c.conn))
	if rc != ResultOK {
		return rc
	}
	c.release()
	return rc
}

// CloseV2 finalizes every statement still attached to the connection and
// releases the handle. The handle is released even if some step fails; the
// first failure is returned.
func (c *Conn) CloseV2() ResultCode {
	if c.conn == 0 {
		return ResultOK
	}
	first := ResultOK
	for s := range c.stmts {
		if rc := s.Finalize(); rc != ResultOK && first == ResultOK {
			first = rc
		}
	}
	// statements prepared behind our back (e.g. by sqlite3_exec callbacks)
	for p := lib.Xsqlite3_next_stmt(c.tls, c.conn, 0); p != 0; p = lib.Xsqlite3_next_stmt(c.tls, c.conn, 0) {
		if rc := Classify(lib.Xsqlite3_finalize(c.tls, p)); rc != ResultOK && first == ResultOK {
			first = rc
		}
	}
	rc := Classify(lib.Xsqlite3_close_v2(c.tls, c.conn))
	c.release()
	if first != ResultOK {
		return first
	}
	return rc
}

func (c *Conn) release() {
	c.conn = 0
	c.stmts = nil
	if c.cbID != 0 {
		profileCallbacks.Delete(c.cbID)
		c.cbID = 0
	}
	if c.tls != nil {
		c.tls.Close()
		c.tls = nil
	}
}

func (c *Conn) Filename() string {
	return c.filename
}

// ErrCode is the primary code of the most recent failed call on this connection.
func (c *Conn) ErrCode() ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_errcode(c.tls, c.conn))
}

func (c *Conn) ExtendedErrCode() ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_extended_errcode(c.tls, c.conn))
}

// ErrMsg is the engine's message for the most recent failure, or for the
// failed open when the handle is null.
func (c *Conn) ErrMsg() string {
	if c.conn == 0 {
		return c.openMsg
	}
	return libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.conn))
}

// Err turns rc into an error, attaching the connection's message when it
// describes rc. Success codes yield nil. Call it right after the failing
// operation.
func (c *Conn) Err(rc ResultCode, from string) error {
	switch {
	case rc.Success():
		return nil
	case c.conn != 0 && (rc == c.ExtendedErrCode() || rc == c.ErrCode()):
		return Error{Code: rc, From: from, Msg: c.ErrMsg()}
	case c.conn == 0 && c.openMsg != "":
		return Error{Code: rc, From: from, Msg: c.openMsg}
	default:
		return Error{Code: rc, From: from, Msg: errstr(rc)}
	}
}

// ExtendedResultCodes switches the connection between primary and extended codes.
func (c *Conn) ExtendedResultCodes(on bool) ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_extended_result_codes(c.tls, c.conn, libc.Bool32(on)))
}

// SetBusyTimeout installs a sleeping busy handler; durations beyond the
// engine limit are clamped, zero or negative ones remove the handler.
func (c *Conn) SetBusyTimeout(dt time.Duration) ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	ms := dt / time.Millisecond
	switch {
	case ms > math.MaxInt32:
		ms = math.MaxInt32
	case ms < 0:
		ms = 0
	}
	return Classify(lib.Xsqlite3_busy_timeout(c.tls, c.conn, int32(ms)))
}

// Exec runs one or more statements without results.
func (c *Conn) Exec(sql string) ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	cSQL, err := cString(sql)
	if err != nil {
		return ResultNoMem
	}
	defer freeC(c.tls, cSQL)
	return Classify(lib.Xsqlite3_exec(c.tls, c.conn, cSQL, 0, 0, 0))
}

// Changes is the number of rows modified by the most recent INSERT, UPDATE or DELETE.
func (c *Conn) Changes() int32 {
	if c.conn == 0 {
		return 0
	}
	return lib.Xsqlite3_changes(c.tls, c.conn)
}

// Changes64 is Changes without the 32-bit limit (engine 3.37+).
func (c *Conn) Changes64() int64 {
	if c.conn == 0 {
		return 0
	}
	return int64(lib.Xsqlite3_changes64(c.tls, c.conn))
}

func (c *Conn) TotalChanges() int32 {
	if c.conn == 0 {
		return 0
	}
	return lib.Xsqlite3_total_changes(c.tls, c.conn)
}

func (c *Conn) TotalChanges64() int64 {
	if c.conn == 0 {
		return 0
	}
	return int64(lib.Xsqlite3_total_changes64(c.tls, c.conn))
}

// AutoCommit reports whether no transaction is open.
func (c *Conn) AutoCommit() bool {
	if c.conn == 0 {
		return false
	}
	return lib.Xsqlite3_get_autocommit(c.tls, c.conn) != 0
}

// Interrupt asks the operation running on this connection to stop as soon
// as possible; the blocked call returns ResultInterrupt. It is the only
// method that may be called from another goroutine.
func (c *Conn) Interrupt() {
	db := c.conn
	if db == 0 {
		return
	}
	tls := libc.NewTLS()
	defer tls.Close()
	lib.Xsqlite3_interrupt(tls, db)
}

func (c *Conn) IsInterrupted() bool {
	if c.conn == 0 {
		return false
	}
	return lib.Xsqlite3_is_interrupted(c.tls, c.conn) != 0
}

func (c *Conn) LastInsertRowID() int64 {
	if c.conn == 0 {
		return 0
	}
	return int64(lib.Xsqlite3_last_insert_rowid(c.tls, c.conn))
}

func (c *Conn) SetLastInsertRowID(id int64) {
	if c.conn == 0 {
		return
	}
	lib.Xsqlite3_set_last_insert_rowid(c.tls, c.conn, lib.Sqlite3_int64(id))
}

// SystemErrno is the OS errno behind the most recent I/O failure.
func (c *Conn) SystemErrno() int32 {
	if c.conn == 0 {
		return 0
	}
	return lib.Xsqlite3_system_errno(c.tls, c.conn)
}

// CacheFlush writes dirty pages of an open write transaction to disk.
func (c *Conn) CacheFlush() ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_db_cacheflush(c.tls, c.conn))
}

// Prepare compiles the first statement in sql; the rest is ignored.
func (c *Conn) Prepare(sql string) (ResultCode, *Stmt) {
	rc, s, _ := c.PrepareTail(sql)
	return rc, s
}

// PrepareTail compiles the first statement in sql and returns the unused
// rest. Empty or comment-only input gives ResultOK with a null statement.
func (c *Conn) PrepareTail(sql string) (ResultCode, *Stmt, string) {
	s := &Stmt{conn: c}
	if c.conn == 0 {
		return ResultMisuse, s, ""
	}
	cSQL, err := cString(sql)
	if err != nil {
		return ResultNoMem, s, ""
	}
	defer freeC(c.tls, cSQL)

	const ptrSize = int(unsafe.Sizeof(uintptr(0)))
	pStmt := c.tls.Alloc(2 * ptrSize)
	defer c.tls.Free(2 * ptrSize)
	pTail := pStmt + uintptr(ptrSize)
	*(*uintptr)(unsafe.Pointer(pStmt)) = 0
	*(*uintptr)(unsafe.Pointer(pTail)) = 0

	rc := Classify(lib.Xsqlite3_prepare_v2(c.tls, c.conn, cSQL, int32(len(sql)), pStmt, pTail))
	stmt := *(*uintptr)(unsafe.Pointer(pStmt))

	var tail string
	if cTail := *(*uintptr)(unsafe.Pointer(pTail)); cTail != 0 {
		if off := int(cTail - cSQL); off >= 0 && off < len(sql) {
			tail = sql[off:]
		}
	}
	if rc != ResultOK || stmt == 0 {
		return rc, s, tail
	}
	s.stmt = stmt
	c.stmts[s] = struct{}{}
	return rc, s, tail
}

// WithStmt prepares sql, runs fn and finalizes the statement on every path.
func (c *Conn) WithStmt(sql string, fn func(*Stmt) error) (err error) {
	rc, s := c.Prepare(sql)
	if rc != ResultOK {
		return c.Err(rc, "sqlite3_prepare_v2")
	}
	defer func() {
		if rc := s.Finalize(); rc != ResultOK {
			err = multierr.Append(err, Error{Code: rc, From: "sqlite3_finalize", Msg: errstr(rc)})
		}
	}()
	return fn(s)
}

// WithConn opens a connection, runs fn and closes the connection on every
// path, finalizing statements fn left behind.
func WithConn(filename string, flags OpenFlags, vfs string, fn func(*Conn) error) (err error) {
	rc, c := OpenV2(filename, flags, vfs)
	if rc != ResultOK {
		return c.Err(rc, "sqlite3_open_v2")
	}
	defer func() {
		if rc := c.CloseV2(); rc != ResultOK {
			err = multierr.Append(err, Error{Code: rc, From: "sqlite3_close_v2", Msg: errstr(rc)})
		}
	}()
	return fn(c)
}
