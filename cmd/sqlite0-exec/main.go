// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Command sqlite0-exec runs SQL scripts through the sqlite0 layer and prints
// result rows tab-separated.
//
//	sqlite0-exec --db app.db schema.sql seed.sql
//	echo 'SELECT sqlite_version()' | sqlite0-exec
//	sqlite0-exec --explain-code 2067
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.LookupEnv))
}
