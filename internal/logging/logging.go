// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig logs info and above to the console only.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		FilePath:   filepath.Join(home, ".config", "simple-stocks", "logs", "stocks.log"),
		MaxSize:    20,
		MaxBackups: 5,
		MaxAge:     14,
	}
}

// NewLogger creates a logger with the default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a logger for cfg. Console output goes to
// stderr so it never mixes with command output on stdout.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}

var levelTags = map[string]string{
	zerolog.LevelDebugValue: "\033[36mDBG\033[0m",
	zerolog.LevelInfoValue:  "\033[32mINF\033[0m",
	zerolog.LevelWarnValue:  "\033[33mWRN\033[0m",
	zerolog.LevelErrorValue: "\033[31mERR\033[0m",
}

func newLogger(cfg LogConfig, console io.Writer) zerolog.Logger {
	var sinks []io.Writer

	if cfg.Console {
		sinks = append(sinks, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.TimeOnly,
			FormatLevel: func(i interface{}) string {
				name, _ := i.(string)
				if tag, ok := levelTags[name]; ok {
					return tag
				}
				return name
			},
		})
	}

	// Rotated file sink; skipped if the directory cannot be created.
	if cfg.File {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err == nil {
			sinks = append(sinks, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var out io.Writer = io.Discard
	if len(sinks) == 1 {
		out = sinks[0]
	} else if len(sinks) > 1 {
		out = zerolog.MultiLevelWriter(sinks...)
	}

	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel maps debug, info, warn and error to zerolog levels. Anything
// else is info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug", "warn", "error":
		l, _ := zerolog.ParseLevel(level)
		return l
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithSymbol scopes logger to a stock symbol.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// WithOperation scopes logger to a named operation.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}

// LogTrade records a trade event at debug level. Prices are pennies.
func LogTrade(logger zerolog.Logger, symbol, side string, qty, price int64) {
	logger.Debug().
		Str("event", "trade").
		Str("symbol", symbol).
		Str("side", side).
		Int64("quantity", qty).
		Int64("price", price).
		Msg("Trade recorded")
}

// LogPriceUpdate records a recalculated ticker price at debug level.
func LogPriceUpdate(logger zerolog.Logger, symbol string, price float64) {
	logger.Debug().
		Str("event", "price").
		Str("symbol", symbol).
		Float64("price", price).
		Msg("Ticker price recalculated")
}

// LogIndex records an All Share Index computation at debug level.
func LogIndex(logger zerolog.Logger, stocks int, index float64) {
	logger.Debug().
		Str("event", "index").
		Int("stocks", stocks).
		Float64("index", index).
		Msg("All share index computed")
}
