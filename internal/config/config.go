// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/VKCOM/sqlite0/internal/logz"
	"github.com/VKCOM/sqlite0/internal/sqlite0"
)

type Config interface {
	Bind(f *pflag.FlagSet, default_ Config)
	ValidateConfig() error
	Copy() Config
}

const EnvPrefix = "SQLITE0_"

var validate = validator.New()

// Exec configures the sqlite0-exec command.
type Exec struct {
	DB          string        `yaml:"db" validate:"required"`
	OpenFlags   []string      `yaml:"open_flags" validate:"min=1,dive,required"`
	VFS         string        `yaml:"vfs"`
	BusyTimeout time.Duration `yaml:"busy_timeout" validate:"min=0"`
	Profile     bool          `yaml:"profile"`
	Log         Log           `yaml:"log"`
}

type Log struct {
	Level    string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Encoding string `yaml:"encoding" validate:"oneof=json console"`
	File     string `yaml:"file"`
}

func DefaultExec() *Exec {
	return &Exec{
		DB:          ":memory:",
		OpenFlags:   []string{"readwrite", "create"},
		BusyTimeout: 5 * time.Second,
		Log: Log{
			Level:    "info",
			Encoding: "console",
		},
	}
}

func (c *Exec) Bind(f *pflag.FlagSet, default_ Config) {
	def := default_.(*Exec)
	f.StringVar(&c.DB, "db", def.DB, "database file name or URI")
	StringSliceVar(f, &c.OpenFlags, "open-flags", strings.Join(def.OpenFlags, ","), "open flags, e.g. readonly,uri or readwrite,create,memory")
	f.StringVar(&c.VFS, "vfs", def.VFS, "VFS name, empty for the default one")
	f.DurationVar(&c.BusyTimeout, "busy-timeout", def.BusyTimeout, "how long to wait for a locked database")
	f.BoolVar(&c.Profile, "profile", def.Profile, "log every finished statement with its run time")
	f.StringVar(&c.Log.Level, "log-level", def.Log.Level, "trace, debug, info, warn or error")
	f.StringVar(&c.Log.Encoding, "log-encoding", def.Log.Encoding, "console or json")
	f.StringVar(&c.Log.File, "log-file", def.Log.File, "also write logs to this file, rotated by size")
}

func (c *Exec) ValidateConfig() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := sqlite0.ParseOpenFlags(c.OpenFlags); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Exec) Copy() Config {
	cp := *c
	cp.OpenFlags = append([]string(nil), c.OpenFlags...)
	return &cp
}

// Flags is OpenFlags parsed; ValidateConfig guarantees it does not fail.
func (c *Exec) Flags() sqlite0.OpenFlags {
	flags, _ := sqlite0.ParseOpenFlags(c.OpenFlags)
	return flags
}

func (c *Exec) LogConfig(app string) logz.Config {
	cfg := logz.Config{
		Level:             c.Log.Level,
		App:               app,
		Encoding:          c.Log.Encoding,
		DisableStacktrace: true,
		Outputs:           []string{"stderr"},
	}
	if c.Log.File != "" {
		cfg.File = logz.FileConfig{Path: c.Log.File, MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28, Compress: true}
	}
	return cfg
}

// Load builds the configuration in order of increasing priority: defaults,
// the YAML file named by --config, the file named by --env-file together
// with SQLITE0_* variables from lookupEnv, and flags given in args.
// Flags are bound to f; positional arguments remain in f.Args().
func Load(f *pflag.FlagSet, args []string, lookupEnv func(string) (string, bool)) (*Exec, error) {
	def := DefaultExec()
	fromFlags := def.Copy().(*Exec)
	fromFlags.Bind(f, def)
	var configFile, envFile string
	f.StringVar(&configFile, "config", "", "YAML configuration file")
	f.StringVar(&envFile, "env-file", "", "file with "+EnvPrefix+"* variables")
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	c := def.Copy().(*Exec)
	if configFile != "" {
		if err := c.readYAML(configFile); err != nil {
			return nil, err
		}
	}
	env, err := readEnv(envFile, lookupEnv)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(env); err != nil {
		return nil, err
	}
	f.Visit(func(fl *pflag.Flag) {
		c.override(fl.Name, fromFlags)
	})
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Exec) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return nil
}

var envKeys = []string{"DB", "OPEN_FLAGS", "VFS", "BUSY_TIMEOUT", "PROFILE", "LOG_LEVEL", "LOG_ENCODING", "LOG_FILE"}

// readEnv merges the env file with the process environment, which wins.
func readEnv(envFile string, lookupEnv func(string) (string, bool)) (map[string]string, error) {
	env := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %q: %w", envFile, err)
		}
		for k, v := range vars {
			if strings.HasPrefix(k, EnvPrefix) {
				env[strings.TrimPrefix(k, EnvPrefix)] = v
			}
		}
	}
	if lookupEnv != nil {
		for _, k := range envKeys {
			if v, ok := lookupEnv(EnvPrefix + k); ok {
				env[k] = v
			}
		}
	}
	return env, nil
}

func (c *Exec) applyEnv(env map[string]string) error {
	for k, v := range env {
		switch k {
		case "DB":
			c.DB = v
		case "OPEN_FLAGS":
			c.OpenFlags = parseCSV(v)
		case "VFS":
			c.VFS = v
		case "BUSY_TIMEOUT":
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %sBUSY_TIMEOUT: %w", EnvPrefix, err)
			}
			c.BusyTimeout = d
		case "PROFILE":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %sPROFILE: %w", EnvPrefix, err)
			}
			c.Profile = b
		case "LOG_LEVEL":
			c.Log.Level = strings.ToLower(v)
		case "LOG_ENCODING":
			c.Log.Encoding = v
		case "LOG_FILE":
			c.Log.File = v
		default:
			return fmt.Errorf("unknown variable %s%s", EnvPrefix, k)
		}
	}
	return nil
}

func (c *Exec) override(flag string, from *Exec) {
	switch flag {
	case "db":
		c.DB = from.DB
	case "open-flags":
		c.OpenFlags = from.OpenFlags
	case "vfs":
		c.VFS = from.VFS
	case "busy-timeout":
		c.BusyTimeout = from.BusyTimeout
	case "profile":
		c.Profile = from.Profile
	case "log-level":
		c.Log.Level = from.Log.Level
	case "log-encoding":
		c.Log.Encoding = from.Log.Encoding
	case "log-file":
		c.Log.File = from.Log.File
	}
}
