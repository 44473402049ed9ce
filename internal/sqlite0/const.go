// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite0

import (
	"fmt"
	"strings"

	lib "modernc.org/sqlite/lib"
)

const (
	ok   = lib.SQLITE_OK
	row  = lib.SQLITE_ROW
	done = lib.SQLITE_DONE

	traceProfile = lib.SQLITE_TRACE_PROFILE
	configLog    = lib.SQLITE_CONFIG_LOG

	// SQLITE_TRANSIENT: the engine makes its own copy of bound text and blobs.
	destructorTransient = ^uintptr(0)
)

// OpenFlags is a set of options passed to OpenV2.
//
// https://www.sqlite.org/c3ref/open.html
type OpenFlags int32

const (
	OpenReadOnly     OpenFlags = lib.SQLITE_OPEN_READONLY
	OpenReadWrite    OpenFlags = lib.SQLITE_OPEN_READWRITE
	OpenCreate       OpenFlags = lib.SQLITE_OPEN_CREATE
	OpenURI          OpenFlags = lib.SQLITE_OPEN_URI
	OpenMemory       OpenFlags = lib.SQLITE_OPEN_MEMORY
	OpenNoMutex      OpenFlags = lib.SQLITE_OPEN_NOMUTEX
	OpenFullMutex    OpenFlags = lib.SQLITE_OPEN_FULLMUTEX
	OpenSharedCache  OpenFlags = lib.SQLITE_OPEN_SHAREDCACHE
	OpenPrivateCache OpenFlags = lib.SQLITE_OPEN_PRIVATECACHE
	OpenExResCode    OpenFlags = lib.SQLITE_OPEN_EXRESCODE
	OpenNoFollow     OpenFlags = lib.SQLITE_OPEN_NOFOLLOW

	DefaultOpenFlags = OpenReadWrite | OpenCreate
)

var openFlagNames = []struct {
	flag OpenFlags
	name string
}{
	{OpenReadOnly, "readonly"},
	{OpenReadWrite, "readwrite"},
	{OpenCreate, "create"},
	{OpenURI, "uri"},
	{OpenMemory, "memory"},
	{OpenNoMutex, "nomutex"},
	{OpenFullMutex, "fullmutex"},
	{OpenSharedCache, "sharedcache"},
	{OpenPrivateCache, "privatecache"},
	{OpenExResCode, "exrescode"},
	{OpenNoFollow, "nofollow"},
}

// ParseOpenFlags combines flags given by name, e.g. "readwrite", "create", "memory".
func ParseOpenFlags(names []string) (OpenFlags, error) {
	var flags OpenFlags
next:
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		for _, f := range openFlagNames {
			if f.name == name {
				flags |= f.flag
				continue next
			}
		}
		return 0, fmt.Errorf("unknown open flag %q", name)
	}
	return flags, nil
}

func (f OpenFlags) Has(flag OpenFlags) bool {
	return f&flag == flag
}

func (f OpenFlags) String() string {
	var names []string
	rest := f
	for _, n := range openFlagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", int32(rest)))
	}
	return strings.Join(names, "|")
}

// ColumnType is the storage class of a single value in the current row.
type ColumnType int32

const (
	ColumnInteger ColumnType = lib.SQLITE_INTEGER
	ColumnFloat   ColumnType = lib.SQLITE_FLOAT
	ColumnText    ColumnType = lib.SQLITE_TEXT
	ColumnBlob    ColumnType = lib.SQLITE_BLOB
	ColumnNull    ColumnType = lib.SQLITE_NULL
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "INTEGER"
	case ColumnFloat:
		return "FLOAT"
	case ColumnText:
		return "TEXT"
	case ColumnBlob:
		return "BLOB"
	case ColumnNull:
		return "NULL"
	default:
		return fmt.Sprintf("ColumnType(%d)", int32(t))
	}
}
