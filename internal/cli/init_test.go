package cli

import (
	"context"
	"log/slog"
	"testing"

	"pennywise/internal/config"
)

func TestSetupLoggerHonoursLevel(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "JSON"}, "test")
	if logger.Component() != "test" {
		t.Fatalf("component = %q", logger.Component())
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("warn should be enabled")
	}
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(SetupLogger(nil, "test"))
	cancel()
	<-ctx.Done()
}
