package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLoggerWritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.Int64("user_id", 7))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected single json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["user_id"] != float64(7) {
		t.Fatalf("expected user_id attr, got %v", entry["user_id"])
	}
}

func TestOpenDailyFileName(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenDailyFile(dir, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if f.Name() != filepath.Join(dir, "bot_20240309.log") {
		t.Fatalf("unexpected log file %s", f.Name())
	}
}
