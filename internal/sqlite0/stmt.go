// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import (
	"math"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Stmt is a compiled statement owned by the Conn that prepared it.
//
// Parameter indexes are 1-based, column indexes are 0-based. Column
// accessors are only meaningful after Step returned ResultRow.
type Stmt struct {
	conn      *Conn
	stmt      uintptr // *sqlite3_stmt
	finalized bool
}

func (s *Stmt) tls() *libc.TLS {
	return s.conn.tls
}

// cIndex narrows a parameter or column index to the engine's int. Indexes
// that do not fit become -1, which the engine rejects as out of range.
func cIndex(i int) int32 {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return -1
	}
	return int32(i)
}

// cLength narrows a value length; false means the value is too big to bind.
func cLength(n int) (int32, bool) {
	if n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// Valid reports whether s holds a compiled statement.
func (s *Stmt) Valid() bool {
	return s.stmt != 0
}

// Finalize releases the compiled statement. Finalizing twice returns ResultMisuse.
func (s *Stmt) Finalize() ResultCode {
	if s.finalized {
		return ResultMisuse
	}
	s.finalized = true
	if s.stmt == 0 {
		return ResultOK
	}
	rc := Classify(lib.Xsqlite3_finalize(s.tls(), s.stmt))
	s.stmt = 0
	delete(s.conn.stmts, s)
	return rc
}

// Step runs the statement up to the next row (ResultRow), to completion
// (ResultDone) or to a failure.
func (s *Stmt) Step() ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_step(s.tls(), s.stmt))
}

// Reset rewinds the statement; bindings are kept. The returned code repeats
// the failure of the last Step, if any.
func (s *Stmt) Reset() ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_reset(s.tls(), s.stmt))
}

// ClearBindings sets every parameter to NULL.
func (s *Stmt) ClearBindings() ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	return Classify(lib.Xsqlite3_clear_bindings(s.tls(), s.stmt))
}

func (s *Stmt) BindNull(param int) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	return Classify(lib.Xsqlite3_bind_null(s.tls(), s.stmt, cIndex(param)))
}

func (s *Stmt) BindFloat64(param int, v float64) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	return Classify(lib.Xsqlite3_bind_double(s.tls(), s.stmt, cIndex(param), v))
}

func (s *Stmt) BindInt32(param int, v int32) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	return Classify(lib.Xsqlite3_bind_int(s.tls(), s.stmt, cIndex(param), v))
}

func (s *Stmt) BindInt64(param int, v int64) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	return Classify(lib.Xsqlite3_bind_int64(s.tls(), s.stmt, cIndex(param), lib.Sqlite3_int64(v)))
}

func (s *Stmt) BindBool(param int, v bool) ResultCode {
	if v {
		return s.BindInt32(param, 1)
	}
	return s.BindInt32(param, 0)
}

// BindText binds v as TEXT. The engine keeps its own copy, so v may be
// reused as soon as the call returns.
func (s *Stmt) BindText(param int, v string) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	n, ok := cLength(len(v))
	if !ok {
		return ResultTooBig
	}
	p, err := cString(v)
	if err != nil {
		return ResultNoMem
	}
	defer freeC(s.tls(), p)
	return Classify(lib.Xsqlite3_bind_text(s.tls(), s.stmt, cIndex(param), p, n, destructorTransient))
}

// BindBlob binds v as BLOB, copied by the engine. A nil slice binds NULL.
func (s *Stmt) BindBlob(param int, v []byte) ResultCode {
	if v == nil {
		return s.BindNull(param)
	}
	if len(v) == 0 {
		return s.BindZeroBlob(param, 0)
	}
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	n, ok := cLength(len(v))
	if !ok {
		return ResultTooBig
	}
	p := libc.Xmalloc(s.tls(), libcSize(len(v)))
	if p == 0 {
		return ResultNoMem
	}
	defer libc.Xfree(s.tls(), p)
	copy(unsafeBytes(p, len(v)), v)
	return Classify(lib.Xsqlite3_bind_blob(s.tls(), s.stmt, cIndex(param), p, n, destructorTransient))
}

// BindZeroBlob binds a BLOB of n zero bytes.
func (s *Stmt) BindZeroBlob(param int, n int) ResultCode {
	if s.stmt == 0 {
		return ResultMisuse
	}
	if cIndex(param) < 0 {
		return ResultRange
	}
	m, ok := cLength(n)
	if !ok {
		return ResultTooBig
	}
	return Classify(lib.Xsqlite3_bind_zeroblob(s.tls(), s.stmt, cIndex(param), m))
}

// The *Ptr binders bind NULL for a nil pointer and the pointed-to value otherwise.

func (s *Stmt) BindFloat64Ptr(param int, v *float64) ResultCode {
	if v == nil {
		return s.BindNull(param)
	}
	return s.BindFloat64(param, *v)
}

func (s *Stmt) BindInt32Ptr(param int, v *int32) ResultCode {
	if v == nil {
		return s.BindNull(param)
	}
	return s.BindInt32(param, *v)
}

func (s *Stmt) BindInt64Ptr(param int, v *int64) ResultCode {
	if v == nil {
		return s.BindNull(param)
	}
	return s.BindInt64(param, *v)
}

func (s *Stmt) BindTextPtr(param int, v *string) ResultCode {
	if v == nil {
		return s.BindNull(param)
	}
	return s.BindText(param, *v)
}

func (s *Stmt) BindParameterCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_bind_parameter_count(s.tls(), s.stmt))
}

// BindParameterIndex returns the index of a named parameter including its
// prefix (":id", "@id", "$id"), or 0 if there is none.
func (s *Stmt) BindParameterIndex(name string) int {
	if s.stmt == 0 {
		return 0
	}
	p, err := cString(name)
	if err != nil {
		return 0
	}
	defer freeC(s.tls(), p)
	return int(lib.Xsqlite3_bind_parameter_index(s.tls(), s.stmt, p))
}

// BindParameterName returns false for "?" parameters and out-of-range indexes.
func (s *Stmt) BindParameterName(param int) (string, bool) {
	if s.stmt == 0 {
		return "", false
	}
	return optString(lib.Xsqlite3_bind_parameter_name(s.tls(), s.stmt, cIndex(param)))
}

func (s *Stmt) ColumnCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_column_count(s.tls(), s.stmt))
}

// DataCount is the number of columns in the current row, 0 when no row is available.
func (s *Stmt) DataCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_data_count(s.tls(), s.stmt))
}

func (s *Stmt) ColumnType(i int) ColumnType {
	if s.stmt == 0 {
		return ColumnNull
	}
	return ColumnType(lib.Xsqlite3_column_type(s.tls(), s.stmt, cIndex(i)))
}

func (s *Stmt) ColumnIsNull(i int) bool {
	return s.ColumnType(i) == ColumnNull
}

func (s *Stmt) ColumnFloat64(i int) float64 {
	if s.stmt == 0 {
		return 0
	}
	return lib.Xsqlite3_column_double(s.tls(), s.stmt, cIndex(i))
}

func (s *Stmt) ColumnInt32(i int) int32 {
	if s.stmt == 0 {
		return 0
	}
	return lib.Xsqlite3_column_int(s.tls(), s.stmt, cIndex(i))
}

func (s *Stmt) ColumnInt64(i int) int64 {
	if s.stmt == 0 {
		return 0
	}
	return int64(lib.Xsqlite3_column_int64(s.tls(), s.stmt, cIndex(i)))
}

// ColumnText returns the value converted to TEXT; NULL becomes "".
func (s *Stmt) ColumnText(i int) string {
	if s.stmt == 0 {
		return ""
	}
	// column_text must come before column_bytes: the conversion decides the length
	p := lib.Xsqlite3_column_text(s.tls(), s.stmt, cIndex(i))
	n := lib.Xsqlite3_column_bytes(s.tls(), s.stmt, cIndex(i))
	return goStringN(p, int(n))
}

// ColumnBlob returns a copy of the value as BLOB; NULL and empty blobs are nil.
func (s *Stmt) ColumnBlob(i int) []byte {
	if s.stmt == 0 {
		return nil
	}
	p := lib.Xsqlite3_column_blob(s.tls(), s.stmt, cIndex(i))
	n := lib.Xsqlite3_column_bytes(s.tls(), s.stmt, cIndex(i))
	return goBytesN(p, int(n))
}

// ColumnBytes is the size in bytes of the value as TEXT or BLOB.
func (s *Stmt) ColumnBytes(i int) int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_column_bytes(s.tls(), s.stmt, cIndex(i)))
}

func (s *Stmt) ColumnName(i int) (string, bool) {
	if s.stmt == 0 {
		return "", false
	}
	return optString(lib.Xsqlite3_column_name(s.tls(), s.stmt, cIndex(i)))
}

// ColumnDatabaseName, ColumnTableName and ColumnOriginName describe where a
// result column comes from. They return false for expressions and subqueries.

func (s *Stmt) ColumnDatabaseName(i int) (string, bool) {
	if s.stmt == 0 {
		return "", false
	}
	return optString(lib.Xsqlite3_column_database_name(s.tls(), s.stmt, cIndex(i)))
}

func (s *Stmt) ColumnTableName(i int) (string, bool) {
	if s.stmt == 0 {
		return "", false
	}
	return optString(lib.Xsqlite3_column_table_name(s.tls(), s.stmt, cIndex(i)))
}

func (s *Stmt) ColumnOriginName(i int) (string, bool) {
	if s.stmt == 0 {
		return "", false
	}
	return optString(lib.Xsqlite3_column_origin_name(s.tls(), s.stmt, cIndex(i)))
}

// SQL is the text the statement was prepared from.
func (s *Stmt) SQL() string {
	if s.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_sql(s.tls(), s.stmt))
}

// ExpandedSQL is SQL with the current bindings substituted, for diagnostics.
func (s *Stmt) ExpandedSQL() string {
	if s.stmt == 0 {
		return ""
	}
	p := lib.Xsqlite3_expanded_sql(s.tls(), s.stmt)
	if p == 0 {
		return ""
	}
	defer lib.Xsqlite3_free(s.tls(), p)
	return libc.GoString(p)
}

// Busy reports whether the statement has been stepped but not yet run to
// completion or reset.
func (s *Stmt) Busy() bool {
	if s.stmt == 0 {
		return false
	}
	return lib.Xsqlite3_stmt_busy(s.tls(), s.stmt) != 0
}

// ReadOnly reports whether the statement makes no direct changes to the database.
func (s *Stmt) ReadOnly() bool {
	if s.stmt == 0 {
		return true
	}
	return lib.Xsqlite3_stmt_readonly(s.tls(), s.stmt) != 0
}
