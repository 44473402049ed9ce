// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

type LogFunc func(code ResultCode, msg string)

var (
	logFunc   LogFunc = func(code ResultCode, msg string) {}
	logFuncMu sync.Mutex
)

// sqliteLogFunc is installed as SQLITE_CONFIG_LOG and may be invoked from any goroutine.
func sqliteLogFunc(_ *libc.TLS, _ uintptr, code int32, msg uintptr) {
	s := libc.GoString(msg)

	logFuncMu.Lock()
	defer logFuncMu.Unlock()

	logFunc(Classify(code), s)
}

// Error is a failed engine call: the code, the entry point that returned it
// and the engine's message.
type Error struct {
	Code ResultCode
	From string
	Msg  string
}

func (err Error) Error() string {
	if err.From == "" {
		return fmt.Sprintf("%s [%s]", err.Msg, err.Code)
	}
	return fmt.Sprintf("%s: %s [%s]", err.From, err.Msg, err.Code)
}

// Is matches a ResultCode target against both the exact and the primary code,
// so errors.Is(err, ResultConstraint) holds for ResultConstraintUnique.
func (err Error) Is(target error) bool {
	var rc ResultCode
	if !errors.As(target, &rc) {
		return false
	}
	return err.Code == rc || err.Code.Primary() == rc
}

// ErrorCode extracts the result code from err, or ResultOK when err is nil
// and ResultError when err did not come from the engine.
func ErrorCode(err error) ResultCode {
	if err == nil {
		return ResultOK
	}
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rc ResultCode
	if errors.As(err, &rc) {
		return rc
	}
	return ResultError
}

// errstr is the engine's generic English description of rc.
func errstr(rc ResultCode) string {
	tls := libc.NewTLS()
	defer tls.Close()
	return libc.GoString(lib.Xsqlite3_errstr(tls, int32(rc)))
}

// cString copies s into engine memory. The caller frees it with freeC.
func cString(s string) (uintptr, error) {
	p, err := libc.CString(s)
	if err != nil {
		return 0, fmt.Errorf("sqlite0: cannot allocate %d bytes: %w", len(s)+1, err)
	}
	return p, nil
}

func freeC(tls *libc.TLS, p uintptr) {
	if p != 0 {
		libc.Xfree(tls, p)
	}
}

// goStringN copies n bytes at p. A nil pointer yields "".
func goStringN(p uintptr, n int) string {
	if p == 0 || n <= 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

func goBytesN(p uintptr, n int) []byte {
	if p == 0 || n <= 0 {
		return nil
	}
	b := make([]byte, n)
	copy(b, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
	return b
}

func unsafeBytes(p uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}

func libcSize(n int) types.Size_t {
	return types.Size_t(n)
}

// optString distinguishes a NULL char pointer from an empty string.
func optString(p uintptr) (string, bool) {
	if p == 0 {
		return "", false
	}
	return libc.GoString(p), true
}

// cFuncPointer converts a top-level function to a pointer the engine can call.
// The result of using cFuncPointer on closures is undefined.
func cFuncPointer[T any](f T) uintptr {
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}
