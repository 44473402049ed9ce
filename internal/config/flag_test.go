// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestStringSliceVarDefaults(t *testing.T) {
	var arg1, arg2 []string
	f := pflag.NewFlagSet("", pflag.ContinueOnError)
	StringSliceVar(f, &arg1, "arg1", "foo,bar", "usage")
	StringSliceVar(f, &arg2, "arg2", "bar;foo", "usage")
	require.NoError(t, f.Parse(nil))
	require.EqualValues(t, []string{"foo", "bar"}, arg1)
	require.EqualValues(t, []string{"bar", "foo"}, arg2)
}

func TestStringSliceVar(t *testing.T) {
	var arg []string
	f := pflag.NewFlagSet("", pflag.ContinueOnError)
	StringSliceVar(f, &arg, "arg1", "foo,bar", "usage")
	require.NoError(t, f.Parse([]string{"--arg1=1,2", "--arg1", "3; 4"}))
	require.EqualValues(t, []string{"1", "2", "3", "4"}, arg)
	require.Equal(t, "1,2,3,4", f.Lookup("arg1").Value.String())
}

func TestParseCSVSkipsEmpty(t *testing.T) {
	require.Empty(t, parseCSV(""))
	require.Equal(t, []string{"a", "b"}, parseCSV(",a,,b;"))
}
