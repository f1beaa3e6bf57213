package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestLogTrade_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogTrade(WithSymbol(logger, "POP"), "POP", "BUY", 25, 151)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trade", entry["event"])
	assert.Equal(t, "POP", entry["symbol"])
	assert.Equal(t, "BUY", entry["side"])
	assert.EqualValues(t, 25, entry["quantity"])
	assert.EqualValues(t, 151, entry["price"])
}

func TestEventHelpers_RespectLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	LogPriceUpdate(logger, "ALE", 170)
	LogIndex(logger, 5, 163.2)

	assert.Empty(t, buf.String())
}

func TestNewLoggerWithConfig_FileOnly(t *testing.T) {
	cfg := DefaultLogConfig()
	cfg.Console = false
	cfg.File = true
	cfg.FilePath = filepath.Join(t.TempDir(), "logs", "stocks.log")
	cfg.Level = "warn"

	logger := NewLoggerWithConfig(cfg)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	assert.DirExists(t, filepath.Dir(cfg.FilePath))
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())

	logger := zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel)
	ctx := WithLogger(context.Background(), logger)
	assert.Equal(t, zerolog.WarnLevel, FromContext(ctx).GetLevel())
}
