// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import "strconv"

// ResultCode is a primary or extended result code returned by the engine.
// Any int32 is a valid ResultCode: integers missing from the result code
// table are the "unknown" variant and keep their original value.
//
// https://www.sqlite.org/rescode.html
type ResultCode int32

// Primary result codes.
const (
	ResultOK         ResultCode = 0
	ResultError      ResultCode = 1
	ResultInternal   ResultCode = 2
	ResultPerm       ResultCode = 3
	ResultAbort      ResultCode = 4
	ResultBusy       ResultCode = 5
	ResultLocked     ResultCode = 6
	ResultNoMem      ResultCode = 7
	ResultReadOnly   ResultCode = 8
	ResultInterrupt  ResultCode = 9
	ResultIOErr      ResultCode = 10
	ResultCorrupt    ResultCode = 11
	ResultNotFound   ResultCode = 12
	ResultFull       ResultCode = 13
	ResultCantOpen   ResultCode = 14
	ResultProtocol   ResultCode = 15
	ResultEmpty      ResultCode = 16
	ResultSchema     ResultCode = 17
	ResultTooBig     ResultCode = 18
	ResultConstraint ResultCode = 19
	ResultMismatch   ResultCode = 20
	ResultMisuse     ResultCode = 21
	ResultNoLFS      ResultCode = 22
	ResultAuth       ResultCode = 23
	ResultFormat     ResultCode = 24
	ResultRange      ResultCode = 25
	ResultNotADB     ResultCode = 26
	ResultNotice     ResultCode = 27
	ResultWarning    ResultCode = 28
	ResultRow        ResultCode = 100
	ResultDone       ResultCode = 101
)

// Extended result codes. Values are historically assigned by the engine
// (primary | n<<8) and are copied from sqlite3.h of the linked engine.
const (
	ResultOKLoadPermanently ResultCode = 256
	ResultOKSymlink         ResultCode = 512

	ResultErrorMissingCollSeq ResultCode = 257
	ResultErrorRetry          ResultCode = 513
	ResultErrorSnapshot       ResultCode = 769
	ResultErrorReserveSize    ResultCode = 1025

	ResultAbortRollback ResultCode = 516

	ResultBusyRecovery ResultCode = 261
	ResultBusySnapshot ResultCode = 517
	ResultBusyTimeout  ResultCode = 773

	ResultLockedSharedCache ResultCode = 262
	ResultLockedVTab        ResultCode = 518

	ResultReadOnlyRecovery  ResultCode = 264
	ResultReadOnlyCantLock  ResultCode = 520
	ResultReadOnlyRollback  ResultCode = 776
	ResultReadOnlyDBMoved   ResultCode = 1032
	ResultReadOnlyCantInit  ResultCode = 1288
	ResultReadOnlyDirectory ResultCode = 1544

	ResultIOErrRead              ResultCode = 266
	ResultIOErrShortRead         ResultCode = 522
	ResultIOErrWrite             ResultCode = 778
	ResultIOErrFsync             ResultCode = 1034
	ResultIOErrDirFsync          ResultCode = 1290
	ResultIOErrTruncate          ResultCode = 1546
	ResultIOErrFstat             ResultCode = 1802
	ResultIOErrUnlock            ResultCode = 2058
	ResultIOErrRDLock            ResultCode = 2314
	ResultIOErrDelete            ResultCode = 2570
	ResultIOErrBlocked           ResultCode = 2826
	ResultIOErrNoMem             ResultCode = 3082
	ResultIOErrAccess            ResultCode = 3338
	ResultIOErrCheckReservedLock ResultCode = 3594
	ResultIOErrLock              ResultCode = 3850
	ResultIOErrClose             ResultCode = 4106
	ResultIOErrDirClose          ResultCode = 4362
	ResultIOErrShmOpen           ResultCode = 4618
	ResultIOErrShmSize           ResultCode = 4874
	ResultIOErrShmLock           ResultCode = 5130
	ResultIOErrShmMap            ResultCode = 5386
	ResultIOErrSeek              ResultCode = 5642
	ResultIOErrDeleteNoEnt       ResultCode = 5898
	ResultIOErrMmap              ResultCode = 6154
	ResultIOErrGetTempPath       ResultCode = 6410
	ResultIOErrConvPath          ResultCode = 6666
	ResultIOErrVNode             ResultCode = 6922
	ResultIOErrAuth              ResultCode = 7178
	ResultIOErrBeginAtomic       ResultCode = 7434
	ResultIOErrCommitAtomic      ResultCode = 7690
	ResultIOErrRollbackAtomic    ResultCode = 7946
	ResultIOErrData              ResultCode = 8202
	ResultIOErrCorruptFS         ResultCode = 8458
	ResultIOErrInPage            ResultCode = 8714

	ResultCorruptVTab     ResultCode = 267
	ResultCorruptSequence ResultCode = 523
	ResultCorruptIndex    ResultCode = 779

	ResultCantOpenNoTempDir ResultCode = 270
	ResultCantOpenIsDir     ResultCode = 526
	ResultCantOpenFullPath  ResultCode = 782
	ResultCantOpenConvPath  ResultCode = 1038
	ResultCantOpenDirtyWAL  ResultCode = 1294
	ResultCantOpenSymlink   ResultCode = 1550

	ResultConstraintCheck      ResultCode = 275
	ResultConstraintCommitHook ResultCode = 531
	ResultConstraintForeignKey ResultCode = 787
	ResultConstraintFunction   ResultCode = 1043
	ResultConstraintNotNull    ResultCode = 1299
	ResultConstraintPrimaryKey ResultCode = 1555
	ResultConstraintTrigger    ResultCode = 1811
	ResultConstraintUnique     ResultCode = 2067
	ResultConstraintVTab       ResultCode = 2323
	ResultConstraintRowID      ResultCode = 2579
	ResultConstraintPinned     ResultCode = 2835
	ResultConstraintDataType   ResultCode = 3091

	ResultNoticeRecoverWAL      ResultCode = 283
	ResultNoticeRecoverRollback ResultCode = 539
	ResultNoticeRBU             ResultCode = 795

	ResultWarningAutoIndex ResultCode = 284

	ResultAuthUser ResultCode = 279
)

// Class groups result codes by how a caller is expected to react to them.
type Class uint8

const (
	ClassUnknown   Class = iota // not in the result code table
	ClassSuccess                // ok, row, done
	ClassTransient              // busy, locked: retry is possible
	ClassIntegrity              // constraint, corrupt, mismatch, notadb
	ClassIO                     // ioerr
	ClassMisuse                 // misuse, internal, range: programmer error
	ClassInterrupt              // interrupted by Conn.Interrupt
	ClassNotice                 // notice, warning: only seen in the error log
	ClassFailure                // any other documented failure
)

var classNames = [...]string{
	ClassUnknown:   "unknown",
	ClassSuccess:   "success",
	ClassTransient: "transient",
	ClassIntegrity: "integrity",
	ClassIO:        "io",
	ClassMisuse:    "misuse",
	ClassInterrupt: "interrupt",
	ClassNotice:    "notice",
	ClassFailure:   "failure",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

type resultCodeInfo struct {
	code  ResultCode
	name  string
	class Class
}

// resultCodes is the complete result code table of the linked engine.
// Extended codes inherit the class of their primary code unless listed otherwise.
var resultCodes = []resultCodeInfo{
	{ResultOK, "SQLITE_OK", ClassSuccess},
	{ResultError, "SQLITE_ERROR", ClassFailure},
	{ResultInternal, "SQLITE_INTERNAL", ClassMisuse},
	{ResultPerm, "SQLITE_PERM", ClassFailure},
	{ResultAbort, "SQLITE_ABORT", ClassFailure},
	{ResultBusy, "SQLITE_BUSY", ClassTransient},
	{ResultLocked, "SQLITE_LOCKED", ClassTransient},
	{ResultNoMem, "SQLITE_NOMEM", ClassFailure},
	{ResultReadOnly, "SQLITE_READONLY", ClassFailure},
	{ResultInterrupt, "SQLITE_INTERRUPT", ClassInterrupt},
	{ResultIOErr, "SQLITE_IOERR", ClassIO},
	{ResultCorrupt, "SQLITE_CORRUPT", ClassIntegrity},
	{ResultNotFound, "SQLITE_NOTFOUND", ClassFailure},
	{ResultFull, "SQLITE_FULL", ClassFailure},
	{ResultCantOpen, "SQLITE_CANTOPEN", ClassFailure},
	{ResultProtocol, "SQLITE_PROTOCOL", ClassFailure},
	{ResultEmpty, "SQLITE_EMPTY", ClassFailure},
	{ResultSchema, "SQLITE_SCHEMA", ClassFailure},
	{ResultTooBig, "SQLITE_TOOBIG", ClassFailure},
	{ResultConstraint, "SQLITE_CONSTRAINT", ClassIntegrity},
	{ResultMismatch, "SQLITE_MISMATCH", ClassIntegrity},
	{ResultMisuse, "SQLITE_MISUSE", ClassMisuse},
	{ResultNoLFS, "SQLITE_NOLFS", ClassFailure},
	{ResultAuth, "SQLITE_AUTH", ClassFailure},
	{ResultFormat, "SQLITE_FORMAT", ClassFailure},
	{ResultRange, "SQLITE_RANGE", ClassMisuse},
	{ResultNotADB, "SQLITE_NOTADB", ClassIntegrity},
	{ResultNotice, "SQLITE_NOTICE", ClassNotice},
	{ResultWarning, "SQLITE_WARNING", ClassNotice},
	{ResultRow, "SQLITE_ROW", ClassSuccess},
	{ResultDone, "SQLITE_DONE", ClassSuccess},

	{ResultOKLoadPermanently, "SQLITE_OK_LOAD_PERMANENTLY", ClassSuccess},
	{ResultOKSymlink, "SQLITE_OK_SYMLINK", ClassSuccess},

	{ResultErrorMissingCollSeq, "SQLITE_ERROR_MISSING_COLLSEQ", ClassFailure},
	{ResultErrorRetry, "SQLITE_ERROR_RETRY", ClassFailure},
	{ResultErrorSnapshot, "SQLITE_ERROR_SNAPSHOT", ClassFailure},
	{ResultErrorReserveSize, "SQLITE_ERROR_RESERVESIZE", ClassFailure},

	{ResultAbortRollback, "SQLITE_ABORT_ROLLBACK", ClassFailure},

	{ResultBusyRecovery, "SQLITE_BUSY_RECOVERY", ClassTransient},
	{ResultBusySnapshot, "SQLITE_BUSY_SNAPSHOT", ClassTransient},
	{ResultBusyTimeout, "SQLITE_BUSY_TIMEOUT", ClassTransient},

	{ResultLockedSharedCache, "SQLITE_LOCKED_SHAREDCACHE", ClassTransient},
	{ResultLockedVTab, "SQLITE_LOCKED_VTAB", ClassTransient},

	{ResultReadOnlyRecovery, "SQLITE_READONLY_RECOVERY", ClassFailure},
	{ResultReadOnlyCantLock, "SQLITE_READONLY_CANTLOCK", ClassFailure},
	{ResultReadOnlyRollback, "SQLITE_READONLY_ROLLBACK", ClassFailure},
	{ResultReadOnlyDBMoved, "SQLITE_READONLY_DBMOVED", ClassFailure},
	{ResultReadOnlyCantInit, "SQLITE_READONLY_CANTINIT", ClassFailure},
	{ResultReadOnlyDirectory, "SQLITE_READONLY_DIRECTORY", ClassFailure},

	{ResultIOErrRead, "SQLITE_IOERR_READ", ClassIO},
	{ResultIOErrShortRead, "SQLITE_IOERR_SHORT_READ", ClassIO},
	{ResultIOErrWrite, "SQLITE_IOERR_WRITE", ClassIO},
	{ResultIOErrFsync, "SQLITE_IOERR_FSYNC", ClassIO},
	{ResultIOErrDirFsync, "SQLITE_IOERR_DIR_FSYNC", ClassIO},
	{ResultIOErrTruncate, "SQLITE_IOERR_TRUNCATE", ClassIO},
	{ResultIOErrFstat, "SQLITE_IOERR_FSTAT", ClassIO},
	{ResultIOErrUnlock, "SQLITE_IOERR_UNLOCK", ClassIO},
	{ResultIOErrRDLock, "SQLITE_IOERR_RDLOCK", ClassIO},
	{ResultIOErrDelete, "SQLITE_IOERR_DELETE", ClassIO},
	{ResultIOErrBlocked, "SQLITE_IOERR_BLOCKED", ClassIO},
	{ResultIOErrNoMem, "SQLITE_IOERR_NOMEM", ClassIO},
	{ResultIOErrAccess, "SQLITE_IOERR_ACCESS", ClassIO},
	{ResultIOErrCheckReservedLock, "SQLITE_IOERR_CHECKRESERVEDLOCK", ClassIO},
	{ResultIOErrLock, "SQLITE_IOERR_LOCK", ClassIO},
	{ResultIOErrClose, "SQLITE_IOERR_CLOSE", ClassIO},
	{ResultIOErrDirClose, "SQLITE_IOERR_DIR_CLOSE", ClassIO},
	{ResultIOErrShmOpen, "SQLITE_IOERR_SHMOPEN", ClassIO},
	{ResultIOErrShmSize, "SQLITE_IOERR_SHMSIZE", ClassIO},
	{ResultIOErrShmLock, "SQLITE_IOERR_SHMLOCK", ClassIO},
	{ResultIOErrShmMap, "SQLITE_IOERR_SHMMAP", ClassIO},
	{ResultIOErrSeek, "SQLITE_IOERR_SEEK", ClassIO},
	{ResultIOErrDeleteNoEnt, "SQLITE_IOERR_DELETE_NOENT", ClassIO},
	{ResultIOErrMmap, "SQLITE_IOERR_MMAP", ClassIO},
	{ResultIOErrGetTempPath, "SQLITE_IOERR_GETTEMPPATH", ClassIO},
	{ResultIOErrConvPath, "SQLITE_IOERR_CONVPATH", ClassIO},
	{ResultIOErrVNode, "SQLITE_IOERR_VNODE", ClassIO},
	{ResultIOErrAuth, "SQLITE_IOERR_AUTH", ClassIO},
	{ResultIOErrBeginAtomic, "SQLITE_IOERR_BEGIN_ATOMIC", ClassIO},
	{ResultIOErrCommitAtomic, "SQLITE_IOERR_COMMIT_ATOMIC", ClassIO},
	{ResultIOErrRollbackAtomic, "SQLITE_IOERR_ROLLBACK_ATOMIC", ClassIO},
	{ResultIOErrData, "SQLITE_IOERR_DATA", ClassIO},
	{ResultIOErrCorruptFS, "SQLITE_IOERR_CORRUPTFS", ClassIO},
	{ResultIOErrInPage, "SQLITE_IOERR_IN_PAGE", ClassIO},

	{ResultCorruptVTab, "SQLITE_CORRUPT_VTAB", ClassIntegrity},
	{ResultCorruptSequence, "SQLITE_CORRUPT_SEQUENCE", ClassIntegrity},
	{ResultCorruptIndex, "SQLITE_CORRUPT_INDEX", ClassIntegrity},

	{ResultCantOpenNoTempDir, "SQLITE_CANTOPEN_NOTEMPDIR", ClassFailure},
	{ResultCantOpenIsDir, "SQLITE_CANTOPEN_ISDIR", ClassFailure},
	{ResultCantOpenFullPath, "SQLITE_CANTOPEN_FULLPATH", ClassFailure},
	{ResultCantOpenConvPath, "SQLITE_CANTOPEN_CONVPATH", ClassFailure},
	{ResultCantOpenDirtyWAL, "SQLITE_CANTOPEN_DIRTYWAL", ClassFailure},
	{ResultCantOpenSymlink, "SQLITE_CANTOPEN_SYMLINK", ClassFailure},

	{ResultConstraintCheck, "SQLITE_CONSTRAINT_CHECK", ClassIntegrity},
	{ResultConstraintCommitHook, "SQLITE_CONSTRAINT_COMMITHOOK", ClassIntegrity},
	{ResultConstraintForeignKey, "SQLITE_CONSTRAINT_FOREIGNKEY", ClassIntegrity},
	{ResultConstraintFunction, "SQLITE_CONSTRAINT_FUNCTION", ClassIntegrity},
	{ResultConstraintNotNull, "SQLITE_CONSTRAINT_NOTNULL", ClassIntegrity},
	{ResultConstraintPrimaryKey, "SQLITE_CONSTRAINT_PRIMARYKEY", ClassIntegrity},
	{ResultConstraintTrigger, "SQLITE_CONSTRAINT_TRIGGER", ClassIntegrity},
	{ResultConstraintUnique, "SQLITE_CONSTRAINT_UNIQUE", ClassIntegrity},
	{ResultConstraintVTab, "SQLITE_CONSTRAINT_VTAB", ClassIntegrity},
	{ResultConstraintRowID, "SQLITE_CONSTRAINT_ROWID", ClassIntegrity},
	{ResultConstraintPinned, "SQLITE_CONSTRAINT_PINNED", ClassIntegrity},
	{ResultConstraintDataType, "SQLITE_CONSTRAINT_DATATYPE", ClassIntegrity},

	{ResultNoticeRecoverWAL, "SQLITE_NOTICE_RECOVER_WAL", ClassNotice},
	{ResultNoticeRecoverRollback, "SQLITE_NOTICE_RECOVER_ROLLBACK", ClassNotice},
	{ResultNoticeRBU, "SQLITE_NOTICE_RBU", ClassNotice},

	{ResultWarningAutoIndex, "SQLITE_WARNING_AUTOINDEX", ClassNotice},

	{ResultAuthUser, "SQLITE_AUTH_USER", ClassFailure},
}

var resultCodeIndex = func() map[ResultCode]*resultCodeInfo {
	m := make(map[ResultCode]*resultCodeInfo, len(resultCodes))
	for i := range resultCodes {
		info := &resultCodes[i]
		if _, ok := m[info.code]; ok {
			panic("sqlite0: duplicate result code " + info.name)
		}
		m[info.code] = info
	}
	return m
}()

// Classify converts a raw engine return value into a ResultCode. A code is
// identified by its integer, so this is a plain conversion and never fails:
// the table is consulted only by Unknown, Class and String, and integers
// outside it are reported as the unknown variant.
func Classify(code int32) ResultCode {
	return ResultCode(code)
}

// Lookup is like Classify but also reports whether code is a documented result code.
func Lookup(code int32) (ResultCode, bool) {
	_, ok := resultCodeIndex[ResultCode(code)]
	return ResultCode(code), ok
}

// Unknown reports whether rc is the escape variant.
func (rc ResultCode) Unknown() bool {
	_, ok := resultCodeIndex[rc]
	return !ok
}

// Extended reports whether rc is a documented extended result code.
func (rc ResultCode) Extended() bool {
	return !rc.Unknown() && rc > 0xff
}

// Primary returns the primary code rc refines. Primary and unknown codes are returned as is.
func (rc ResultCode) Primary() ResultCode {
	if rc.Unknown() {
		return rc
	}
	return rc & 0xff
}

func (rc ResultCode) Class() Class {
	if info, ok := resultCodeIndex[rc]; ok {
		return info.class
	}
	return ClassUnknown
}

// Success reports whether rc is ok, row or done.
func (rc ResultCode) Success() bool {
	return rc.Class() == ClassSuccess
}

// Retryable reports whether rc is busy or locked, possibly extended.
func (rc ResultCode) Retryable() bool {
	return rc.Class() == ClassTransient
}

func (rc ResultCode) String() string {
	if info, ok := resultCodeIndex[rc]; ok {
		return info.name
	}
	return "SQLITE_UNKNOWN(" + strconv.Itoa(int(rc)) + ")"
}

// Error makes ResultCode usable as an errors.Is target.
func (rc ResultCode) Error() string {
	return rc.String()
}

// ToError returns nil for success codes and an Error carrying the engine's
// generic description of rc otherwise.
func (rc ResultCode) ToError() error {
	if rc.Success() {
		return nil
	}
	return Error{Code: rc, Msg: errstr(rc)}
}
