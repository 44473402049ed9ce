// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"strings"

	"github.com/spf13/pflag"
)

type stringSlice struct {
	p      *[]string
	wasSet bool
}

// StringSliceVar defines a list flag that accepts ',' or ';' separated values
// and accumulates over repeated use. The default is replaced on first use.
func StringSliceVar(f *pflag.FlagSet, p *[]string, name string, value string, usage string) {
	*p = parseCSV(value)
	f.Var(&stringSlice{p: p}, name, usage)
}

func (s *stringSlice) Set(v string) error {
	if s.wasSet {
		*s.p = append(*s.p, parseCSV(v)...)
	} else {
		*s.p = parseCSV(v)
		s.wasSet = true
	}
	return nil
}

func (s *stringSlice) String() string {
	if s == nil || s.p == nil || len(*s.p) == 0 {
		return ""
	}
	return strings.Join(*s.p, ",")
}

func (s *stringSlice) Type() string {
	return "strings"
}

func parseCSV(s string) []string {
	res := make([]string, 0, 1)
	for i := 0; i < len(s); {
		j := i
		for ; j < len(s) && s[j] != ',' && s[j] != ';'; j++ {
			// pass
		}
		if v := strings.TrimSpace(s[i:j]); v != "" {
			res = append(res, v)
		}
		i = j + 1
	}
	return res
}
