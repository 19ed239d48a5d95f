// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corelog

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Disabled zerolog.Logger

	DefaultLevel   = zerolog.InfoLevel
	DefaultLogFile = "auxpowctl.log"

	// AppName is attached to every record as the "app" field.
	AppName = "auxpowctl"
)

func init() {
	Disabled = zerolog.Nop()
}

// Config for logging
type Config struct {
	// Disable console logging
	DisableConsoleLog bool `yaml:"disable_console_log"`
	// LogsAsJson makes the log framework log JSON
	LogsAsJson bool `yaml:"logs_as_json"`
	// FileLoggingEnabled makes the framework log to a file
	// the fields below can be skipped if this value is false!
	FileLoggingEnabled bool `yaml:"file_logging_enabled"`
	// Directory to log to to when filelogging is enabled
	Directory string `yaml:"directory"`
	// Filename is the name of the logfile which will be placed inside the directory
	Filename string `yaml:"filename"`
	// MaxSize the max size in MB of the logfile before it's rolled
	MaxSize int `yaml:"max_size"`
	// MaxBackups the max number of rolled files to keep
	MaxBackups int `yaml:"max_backups"`
	// MaxAge the max age in days to keep a logfile
	MaxAge int `yaml:"max_age"`
}

func (Config) Default() Config {
	return Config{
		DisableConsoleLog:  false,
		LogsAsJson:         false,
		FileLoggingEnabled: false,
		Directory:          "logs",
		Filename:           DefaultLogFile,
		MaxSize:            150,
		MaxBackups:         3,
		MaxAge:             28,
	}
}

// ParseLevel maps a level name to a zerolog level. An empty name selects
// DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return DefaultLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return DefaultLevel, errors.Wrapf(err, "invalid log level %q", name)
	}
	return lvl, nil
}

// New builds the logger of unit.
func New(unit string, logLevel zerolog.Level, config Config) zerolog.Logger {
	return newLogger(unit, logLevel, config, os.Stderr, os.Stdout)
}

func newLogger(unit string, logLevel zerolog.Level, config Config, console, stdout io.Writer) zerolog.Logger {
	var writers []io.Writer
	if !config.DisableConsoleLog && !config.LogsAsJson {
		out := zerolog.ConsoleWriter{Out: console, NoColor: false}
		out.TimeFormat = time.RFC3339
		out.FormatLevel = func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s| %s |", i, unit))
		}
		out.FormatMessage = func(i interface{}) string {
			return fmt.Sprintf("%-6s  ", i)
		}
		writers = append(writers, out)
	}
	if !config.DisableConsoleLog && config.LogsAsJson {
		writers = append(writers, stdout)
	}
	if config.FileLoggingEnabled {
		if file := newRollingFile(config); file != nil {
			writers = append(writers, file)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, ioutil.Discard)
	}

	mw := io.MultiWriter(writers...)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger := zerolog.New(mw).
		Level(logLevel).
		With().
		Str("app", AppName).
		Str("unit", unit).
		Timestamp().
		Logger()

	logger.Trace().
		Bool("fileLogging", config.FileLoggingEnabled).
		Bool("jsonLogOutput", config.LogsAsJson).
		Str("logDirectory", config.Directory).
		Str("fileName", config.Filename).
		Int("maxSizeMB", config.MaxSize).
		Int("maxBackups", config.MaxBackups).
		Int("maxAgeInDays", config.MaxAge).
		Msg("logging configured")

	return logger
}

func newRollingFile(config Config) io.Writer {
	if err := os.MkdirAll(config.Directory, 0744); err != nil {
		log.Error().Err(err).Str("path", config.Directory).Msg("can't create log directory")
		return nil
	}

	return &lumberjack.Logger{
		Filename:   path.Join(config.Directory, config.Filename),
		MaxBackups: config.MaxBackups, // files
		MaxSize:    config.MaxSize,    // megabytes
		MaxAge:     config.MaxAge,     // days
	}
}
