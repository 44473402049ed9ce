// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	lib "modernc.org/sqlite/lib"
	"pgregory.net/rapid"
)

// https://www.sqlite.org/rescode.html
var documentedPrimary = []struct {
	code int32
	name string
}{
	{0, "SQLITE_OK"}, {1, "SQLITE_ERROR"}, {2, "SQLITE_INTERNAL"}, {3, "SQLITE_PERM"},
	{4, "SQLITE_ABORT"}, {5, "SQLITE_BUSY"}, {6, "SQLITE_LOCKED"}, {7, "SQLITE_NOMEM"},
	{8, "SQLITE_READONLY"}, {9, "SQLITE_INTERRUPT"}, {10, "SQLITE_IOERR"}, {11, "SQLITE_CORRUPT"},
	{12, "SQLITE_NOTFOUND"}, {13, "SQLITE_FULL"}, {14, "SQLITE_CANTOPEN"}, {15, "SQLITE_PROTOCOL"},
	{16, "SQLITE_EMPTY"}, {17, "SQLITE_SCHEMA"}, {18, "SQLITE_TOOBIG"}, {19, "SQLITE_CONSTRAINT"},
	{20, "SQLITE_MISMATCH"}, {21, "SQLITE_MISUSE"}, {22, "SQLITE_NOLFS"}, {23, "SQLITE_AUTH"},
	{24, "SQLITE_FORMAT"}, {25, "SQLITE_RANGE"}, {26, "SQLITE_NOTADB"}, {27, "SQLITE_NOTICE"},
	{28, "SQLITE_WARNING"}, {100, "SQLITE_ROW"}, {101, "SQLITE_DONE"},
}

var documentedExtended = []struct {
	code int32
	name string
}{
	{516, "SQLITE_ABORT_ROLLBACK"},
	{279, "SQLITE_AUTH_USER"},
	{261, "SQLITE_BUSY_RECOVERY"},
	{517, "SQLITE_BUSY_SNAPSHOT"},
	{773, "SQLITE_BUSY_TIMEOUT"},
	{1038, "SQLITE_CANTOPEN_CONVPATH"},
	{1294, "SQLITE_CANTOPEN_DIRTYWAL"},
	{782, "SQLITE_CANTOPEN_FULLPATH"},
	{526, "SQLITE_CANTOPEN_ISDIR"},
	{270, "SQLITE_CANTOPEN_NOTEMPDIR"},
	{1550, "SQLITE_CANTOPEN_SYMLINK"},
	{275, "SQLITE_CONSTRAINT_CHECK"},
	{531, "SQLITE_CONSTRAINT_COMMITHOOK"},
	{3091, "SQLITE_CONSTRAINT_DATATYPE"},
	{787, "SQLITE_CONSTRAINT_FOREIGNKEY"},
	{1043, "SQLITE_CONSTRAINT_FUNCTION"},
	{1299, "SQLITE_CONSTRAINT_NOTNULL"},
	{2835, "SQLITE_CONSTRAINT_PINNED"},
	{1555, "SQLITE_CONSTRAINT_PRIMARYKEY"},
	{2579, "SQLITE_CONSTRAINT_ROWID"},
	{1811, "SQLITE_CONSTRAINT_TRIGGER"},
	{2067, "SQLITE_CONSTRAINT_UNIQUE"},
	{2323, "SQLITE_CONSTRAINT_VTAB"},
	{779, "SQLITE_CORRUPT_INDEX"},
	{523, "SQLITE_CORRUPT_SEQUENCE"},
	{267, "SQLITE_CORRUPT_VTAB"},
	{257, "SQLITE_ERROR_MISSING_COLLSEQ"},
	{1025, "SQLITE_ERROR_RESERVESIZE"},
	{513, "SQLITE_ERROR_RETRY"},
	{769, "SQLITE_ERROR_SNAPSHOT"},
	{3338, "SQLITE_IOERR_ACCESS"},
	{7178, "SQLITE_IOERR_AUTH"},
	{7434, "SQLITE_IOERR_BEGIN_ATOMIC"},
	{2826, "SQLITE_IOERR_BLOCKED"},
	{3594, "SQLITE_IOERR_CHECKRESERVEDLOCK"},
	{4106, "SQLITE_IOERR_CLOSE"},
	{7690, "SQLITE_IOERR_COMMIT_ATOMIC"},
	{6666, "SQLITE_IOERR_CONVPATH"},
	{8458, "SQLITE_IOERR_CORRUPTFS"},
	{8202, "SQLITE_IOERR_DATA"},
	{2570, "SQLITE_IOERR_DELETE"},
	{5898, "SQLITE_IOERR_DELETE_NOENT"},
	{4362, "SQLITE_IOERR_DIR_CLOSE"},
	{1290, "SQLITE_IOERR_DIR_FSYNC"},
	{1802, "SQLITE_IOERR_FSTAT"},
	{1034, "SQLITE_IOERR_FSYNC"},
	{6410, "SQLITE_IOERR_GETTEMPPATH"},
	{8714, "SQLITE_IOERR_IN_PAGE"},
	{3850, "SQLITE_IOERR_LOCK"},
	{6154, "SQLITE_IOERR_MMAP"},
	{3082, "SQLITE_IOERR_NOMEM"},
	{2314, "SQLITE_IOERR_RDLOCK"},
	{266, "SQLITE_IOERR_READ"},
	{7946, "SQLITE_IOERR_ROLLBACK_ATOMIC"},
	{5642, "SQLITE_IOERR_SEEK"},
	{5130, "SQLITE_IOERR_SHMLOCK"},
	{5386, "SQLITE_IOERR_SHMMAP"},
	{4618, "SQLITE_IOERR_SHMOPEN"},
	{4874, "SQLITE_IOERR_SHMSIZE"},
	{522, "SQLITE_IOERR_SHORT_READ"},
	{1546, "SQLITE_IOERR_TRUNCATE"},
	{2058, "SQLITE_IOERR_UNLOCK"},
	{6922, "SQLITE_IOERR_VNODE"},
	{778, "SQLITE_IOERR_WRITE"},
	{262, "SQLITE_LOCKED_SHAREDCACHE"},
	{518, "SQLITE_LOCKED_VTAB"},
	{539, "SQLITE_NOTICE_RECOVER_ROLLBACK"},
	{283, "SQLITE_NOTICE_RECOVER_WAL"},
	{795, "SQLITE_NOTICE_RBU"},
	{256, "SQLITE_OK_LOAD_PERMANENTLY"},
	{512, "SQLITE_OK_SYMLINK"},
	{1288, "SQLITE_READONLY_CANTINIT"},
	{520, "SQLITE_READONLY_CANTLOCK"},
	{1032, "SQLITE_READONLY_DBMOVED"},
	{1544, "SQLITE_READONLY_DIRECTORY"},
	{264, "SQLITE_READONLY_RECOVERY"},
	{776, "SQLITE_READONLY_ROLLBACK"},
	{284, "SQLITE_WARNING_AUTOINDEX"},
}

func TestClassifyPrimary(t *testing.T) {
	for _, tc := range documentedPrimary {
		t.Run(tc.name, func(t *testing.T) {
			rc, known := Lookup(tc.code)
			require.True(t, known)
			require.Equal(t, Classify(tc.code), rc)
			require.Equal(t, tc.name, rc.String())
			require.False(t, rc.Extended())
			require.Equal(t, rc, rc.Primary())
			require.EqualValues(t, tc.code, rc)
		})
	}
}

func TestClassifyExtended(t *testing.T) {
	for _, tc := range documentedExtended {
		t.Run(tc.name, func(t *testing.T) {
			rc, known := Lookup(tc.code)
			require.True(t, known)
			require.Equal(t, tc.name, rc.String())
			require.True(t, rc.Extended())
			require.NotEqual(t, rc, rc.Primary())
			require.False(t, rc.Primary().Unknown(), "primary of %s", rc)
			require.Equal(t, ResultCode(tc.code&0xff), rc.Primary())
		})
	}
}

func TestResultCodeTableIsExactlyDocumented(t *testing.T) {
	require.Len(t, resultCodes, len(documentedPrimary)+len(documentedExtended))
}

func TestResultCodesMatchEngineHeader(t *testing.T) {
	for _, tc := range []struct {
		engine int
		rc     ResultCode
	}{
		{lib.SQLITE_OK, ResultOK},
		{lib.SQLITE_BUSY, ResultBusy},
		{lib.SQLITE_ROW, ResultRow},
		{lib.SQLITE_DONE, ResultDone},
		{lib.SQLITE_NOTADB, ResultNotADB},
		{lib.SQLITE_WARNING, ResultWarning},
		{lib.SQLITE_BUSY_SNAPSHOT, ResultBusySnapshot},
		{lib.SQLITE_LOCKED_SHAREDCACHE, ResultLockedSharedCache},
		{lib.SQLITE_IOERR_SHORT_READ, ResultIOErrShortRead},
		{lib.SQLITE_IOERR_CORRUPTFS, ResultIOErrCorruptFS},
		{lib.SQLITE_CANTOPEN_SYMLINK, ResultCantOpenSymlink},
		{lib.SQLITE_CONSTRAINT_UNIQUE, ResultConstraintUnique},
		{lib.SQLITE_CONSTRAINT_PINNED, ResultConstraintPinned},
		{lib.SQLITE_CONSTRAINT_DATATYPE, ResultConstraintDataType},
		{lib.SQLITE_READONLY_DIRECTORY, ResultReadOnlyDirectory},
		{lib.SQLITE_WARNING_AUTOINDEX, ResultWarningAutoIndex},
	} {
		require.EqualValues(t, tc.engine, tc.rc, tc.rc.String())
	}
}

func TestClassifyIsTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int32().Draw(t, "v")
		rc := Classify(v)
		require.Equal(t, rc, Classify(v))
		require.EqualValues(t, v, rc)
		_, known := Lookup(v)
		require.Equal(t, !known, rc.Unknown())
		require.Equal(t, known, rc.Class() != ClassUnknown)
	})
}

func TestClassifyUnknownKeepsValue(t *testing.T) {
	for _, v := range []int32{-1, -2147483648, 29, 99, 102, 258, 1 << 20, 2147483647} {
		rc := Classify(v)
		require.True(t, rc.Unknown(), "%d", v)
		require.Equal(t, v, int32(rc))
		require.Equal(t, ClassUnknown, rc.Class())
		require.Equal(t, rc, rc.Primary())
		require.False(t, rc.Extended())
		require.Equal(t, "SQLITE_UNKNOWN("+strconv.Itoa(int(v))+")", rc.String())
		require.Error(t, rc.ToError())
	}
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int32().Filter(func(v int32) bool {
			_, known := Lookup(v)
			return !known
		}).Draw(t, "v")
		rc := Classify(v)
		require.True(t, rc.Unknown())
		require.Equal(t, v, int32(rc))
		require.Contains(t, rc.String(), strconv.Itoa(int(v)))
	})
}

func TestClassTaxonomy(t *testing.T) {
	for _, tc := range []struct {
		rc    ResultCode
		class Class
	}{
		{ResultOK, ClassSuccess},
		{ResultRow, ClassSuccess},
		{ResultDone, ClassSuccess},
		{ResultBusy, ClassTransient},
		{ResultBusyTimeout, ClassTransient},
		{ResultLocked, ClassTransient},
		{ResultLockedSharedCache, ClassTransient},
		{ResultConstraint, ClassIntegrity},
		{ResultConstraintForeignKey, ClassIntegrity},
		{ResultCorruptIndex, ClassIntegrity},
		{ResultMismatch, ClassIntegrity},
		{ResultNotADB, ClassIntegrity},
		{ResultIOErr, ClassIO},
		{ResultIOErrInPage, ClassIO},
		{ResultMisuse, ClassMisuse},
		{ResultInternal, ClassMisuse},
		{ResultRange, ClassMisuse},
		{ResultInterrupt, ClassInterrupt},
		{ResultNoticeRecoverWAL, ClassNotice},
		{ResultError, ClassFailure},
		{ResultReadOnlyDBMoved, ClassFailure},
		{ResultCantOpenIsDir, ClassFailure},
	} {
		require.Equal(t, tc.class, tc.rc.Class(), tc.rc.String())
	}
	require.True(t, ResultBusySnapshot.Retryable())
	require.False(t, ResultConstraint.Retryable())
	require.True(t, ResultDone.Success())
	require.False(t, ResultInterrupt.Success())
}

func TestExtendedCodesInheritPrimaryClass(t *testing.T) {
	for _, info := range resultCodes {
		if !info.code.Extended() {
			continue
		}
		require.Equal(t, info.code.Primary().Class(), info.class, info.name)
	}
}

func TestResultCodeErrors(t *testing.T) {
	require.NoError(t, ResultOK.ToError())
	require.NoError(t, ResultRow.ToError())
	require.NoError(t, ResultDone.ToError())

	err := ResultConstraintUnique.ToError()
	require.Error(t, err)
	require.ErrorIs(t, err, ResultConstraintUnique)
	require.ErrorIs(t, err, ResultConstraint)
	require.False(t, errors.Is(err, ResultBusy))
	require.Equal(t, ResultConstraintUnique, ErrorCode(err))

	wrapped := fmt.Errorf("insert user: %w", Error{Code: ResultBusyTimeout, From: "sqlite3_step", Msg: "database is locked"})
	require.ErrorIs(t, wrapped, ResultBusy)
	require.Equal(t, ResultBusyTimeout, ErrorCode(wrapped))
	require.Equal(t, "insert user: sqlite3_step: database is locked [SQLITE_BUSY_TIMEOUT]", wrapped.Error())

	require.Equal(t, ResultOK, ErrorCode(nil))
	require.Equal(t, ResultError, ErrorCode(errors.New("not from the engine")))
}
