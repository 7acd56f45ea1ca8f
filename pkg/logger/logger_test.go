package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestInitTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelInfo, Format: "text", Output: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Debug("hidden")
	Info("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message leaked: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelDebug, Format: "json", Output: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Debug("stage complete", "stage", "parse", "count", 3)
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if record["stage"] != "parse" || record["count"] != float64(3) {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	if err := Init(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInitLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.log")
	if err := Init(Config{Level: LevelWarn, LogFile: path}); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(Close)
	Warn("written to file")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Fatalf("log file = %q", data)
	}
}
