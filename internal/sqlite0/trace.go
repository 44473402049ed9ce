// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import (
	"sync"
	"time"
	"unsafe"

	"go.uber.org/atomic"
	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

var (
	profileCallbacks sync.Map // uintptr -> ProfileCallback
	profileMaxID     atomic.Uintptr
)

//	int(*xCallback)(unsigned,void*,void*,void*)
func traceCallback(tls *libc.TLS, t uint32, ctx uintptr, p uintptr, x uintptr) int32 {
	if t != traceProfile || p == 0 || x == 0 {
		return 0
	}
	v, found := profileCallbacks.Load(ctx)
	if !found {
		return 0
	}
	duration := time.Duration(*(*int64)(unsafe.Pointer(x)))
	sql := libc.GoString(lib.Xsqlite3_sql(tls, p))
	var expanded string
	if e := lib.Xsqlite3_expanded_sql(tls, p); e != 0 {
		expanded = libc.GoString(e)
		lib.Xsqlite3_free(tls, e)
	}
	v.(ProfileCallback)(sql, expanded, duration)
	return 0
}

// RegisterCallback reports every finished statement with its run time.
// A nil cb removes the callback.
func (c *Conn) RegisterCallback(cb ProfileCallback) ResultCode {
	if c.conn == 0 {
		return ResultMisuse
	}
	if cb == nil {
		rc := Classify(lib.Xsqlite3_trace_v2(c.tls, c.conn, 0, 0, 0))
		if c.cbID != 0 {
			profileCallbacks.Delete(c.cbID)
			c.cbID = 0
		}
		c.cb = nil
		return rc
	}
	if c.cbID == 0 {
		c.cbID = profileMaxID.Inc()
	}
	c.cb = cb
	profileCallbacks.Store(c.cbID, cb)
	return Classify(lib.Xsqlite3_trace_v2(c.tls, c.conn, traceProfile, cFuncPointer(traceCallback), c.cbID))
}
