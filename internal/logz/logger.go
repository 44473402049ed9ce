// Copyright 2025 V Kontakte LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package logz

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileOutput routes records to the rotating file configured in Config.File.
const FileOutput = "logfile:"

// Logger is a zap.Logger wrapper with a trace level below debug and
// optional rotated file output.
type Logger struct {
	Level Level

	app       string
	zapLogger *zap.Logger
	closer    io.Closer
}

type Option = zap.Option

type Config struct {
	// Level is one of trace/debug/info/warn/error/dpanic/panic/fatal.
	Level   string `yaml:"level"`
	App     string `yaml:"app"`
	Version string `yaml:"version"`
	// Encoding is json or console.
	Encoding string `yaml:"encoding"`
	// DisableStacktrace turns off stack traces, which are otherwise attached to Error and above.
	DisableStacktrace bool `yaml:"disable_stacktrace"`
	// CallerSkipOffset, see zap.AddCallerSkip.
	CallerSkipOffset int      `yaml:"caller_skip_offset"`
	FullCaller       bool     `yaml:"full_caller"`
	Outputs          []string `yaml:"outputs"`
	// File enables FileOutput; it is added to Outputs automatically.
	File FileConfig `yaml:"file"`
}

type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func NewFromLogger(logger *zap.Logger) *Logger {
	return &Logger{
		Level:     zap.NewAtomicLevelAt(TraceLevel),
		zapLogger: logger,
	}
}

// New builds a logger from config.
func New(config Config) (*Logger, error) {
	zCfg := zap.NewProductionConfig()

	config.Level = strings.ToLower(config.Level)
	if config.Level == "" {
		config.Level = "info"
	}
	lvl, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}
	if lvl.Level() <= zapcore.DebugLevel {
		zCfg.Sampling = nil
	}

	zCfg.Level = lvl
	zCfg.DisableStacktrace = config.DisableStacktrace
	if config.Encoding != "" {
		zCfg.Encoding = config.Encoding
	}
	zCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(config.Outputs) > 0 {
		zCfg.OutputPaths = config.Outputs
	}
	var closer io.Closer
	if config.File.Path != "" {
		closer = logWriter.SetRotatingFile(config.File)
		if !hasOutput(zCfg.OutputPaths, FileOutput) {
			zCfg.OutputPaths = append(append([]string(nil), zCfg.OutputPaths...), FileOutput)
		}
	}

	if zCfg.Encoding == "console" {
		zCfg.EncoderConfig.EncodeTime = func(time time.Time, encoder zapcore.PrimitiveArrayEncoder) {
			encoder.AppendString(time.Format("2006-01-02 15:04:05.000"))
		}
		zCfg.EncoderConfig.EncodeLevel = CapitalLevelEncoder
	} else {
		zCfg.EncoderConfig.EncodeLevel = LowerCaseLevelEncoder
	}

	if config.FullCaller {
		zCfg.EncoderConfig.EncodeCaller = zapcore.FullCallerEncoder
	} else {
		zCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}

	logger, err := zCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	// skip our own frame
	if config.CallerSkipOffset == 0 {
		config.CallerSkipOffset = 1
	}
	logger = logger.WithOptions(zap.AddCallerSkip(config.CallerSkipOffset)).With(zap.Int("pid", os.Getpid()))
	if config.App != "" {
		logger = logger.With(zap.String("app", config.App))
	}
	if config.Version != "" {
		logger = logger.With(zap.String("version", config.Version))
	}

	return &Logger{
		Level:     zCfg.Level,
		app:       config.App,
		zapLogger: logger,
		closer:    closer,
	}, nil
}

func hasOutput(outputs []string, out string) bool {
	for _, o := range outputs {
		if o == out {
			return true
		}
	}
	return false
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{
		Level:     l.Level,
		app:       l.app,
		zapLogger: l.zapLogger.WithOptions(opts...),
	}
}

// Sync flushes buffered records to the underlying writers.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// Close syncs the logger and closes the rotating file, if any.
func (l *Logger) Close() error {
	err := l.Sync()
	if l.closer != nil {
		logWriter.SetOutput(io.Discard)
		if cerr := l.closer.Close(); err == nil {
			err = cerr
		}
		l.closer = nil
	}
	return err
}

func (l *Logger) With(args ...Field) *Logger {
	return &Logger{
		Level:     l.Level,
		app:       l.app,
		zapLogger: l.zapLogger.With(args...),
	}
}

func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zapLogger.Core().Enabled(level)
}

func (l *Logger) SetOutput(writer io.Writer) {
	logWriter.SetOutput(writer)
}

func (l *Logger) Trace(message string, args ...Field) {
	l.zapLogger.Log(TraceLevel, message, args...)
}

func (l *Logger) Debug(message string, args ...Field) {
	l.zapLogger.Log(zapcore.DebugLevel, message, args...)
}

func (l *Logger) Info(message string, args ...Field) {
	l.zapLogger.Log(zapcore.InfoLevel, message, args...)
}

func (l *Logger) Warn(message string, args ...Field) {
	l.zapLogger.Log(zapcore.WarnLevel, message, args...)
}

func (l *Logger) Error(message string, args ...Field) {
	l.zapLogger.Log(zapcore.ErrorLevel, message, args...)
}

func (l *Logger) Fatal(message string, args ...Field) {
	l.zapLogger.Log(zapcore.FatalLevel, message, args...)
}

func (l *Logger) Tracef(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(TraceLevel, message, args...)
}

func (l *Logger) Debugf(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(zap.DebugLevel, message, args...)
}

func (l *Logger) Infof(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(zap.InfoLevel, message, args...)
}

func (l *Logger) Warnf(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(zap.WarnLevel, message, args...)
}

func (l *Logger) Errorf(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(zap.ErrorLevel, message, args...)
}

func (l *Logger) Fatalf(message string, args ...interface{}) {
	l.zapLogger.Sugar().Logf(zap.FatalLevel, message, args...)
}

// logWriter is the process-wide target of the "logfile" sink.
var logWriter = newWriter()

func init() {
	err := zap.RegisterSink("logfile", func(url *url.URL) (zap.Sink, error) {
		return logWriter, nil
	})
	if err != nil {
		panic(err)
	}
}
