package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Config("", "")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Encoding != FormatConsole {
		t.Fatalf("encoding = %q, want console", cfg.Encoding)
	}
	if cfg.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("level = %s, want info", cfg.Level.Level())
	}
}

func TestConfigJSONDebug(t *testing.T) {
	cfg, err := Config("DEBUG", "JSON")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Encoding != FormatJSON {
		t.Fatalf("encoding = %q, want json", cfg.Encoding)
	}
	if cfg.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("level = %s, want debug", cfg.Level.Level())
	}
}

func TestConfigRejectsUnknownValues(t *testing.T) {
	if _, err := Config("loud", ""); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := Config("info", "xml"); err == nil {
		t.Fatal("expected format error")
	}
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := New("warn", FormatJSON)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected error enabled at warn level")
	}
}
