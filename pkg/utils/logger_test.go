package utils

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		if err != nil {
			t.Fatalf("NewLogger(%v) error: %v", debug, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%v) returned nil logger", debug)
		}
		_ = logger.Sync()
	}
}

func TestProductionConfig_iso8601Timestamps(t *testing.T) {
	cfg := productionConfig()
	if cfg.Level.Level() != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", cfg.Level.Level())
	}
	enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	entry := zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC),
		Message: "ingest finished",
	}
	buf, err := enc.EncodeEntry(entry, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Free()
	line := buf.String()
	if !strings.Contains(line, `"ts":"2024-03-05T07:08:09.000Z"`) {
		t.Errorf("encoded entry = %s, want ISO8601 ts", line)
	}
	if !strings.Contains(line, `"msg":"ingest finished"`) {
		t.Errorf("encoded entry = %s", line)
	}
}
