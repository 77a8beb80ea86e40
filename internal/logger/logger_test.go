package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInitWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("production", &bytes.Buffer{}) })

	Info().Str("op", "send").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "hello" {
		t.Errorf("message = %v, want hello", line["message"])
	}
	if line["op"] != "send" {
		t.Errorf("op = %v, want send", line["op"])
	}
	if line["level"] != "info" {
		t.Errorf("level = %v, want info", line["level"])
	}
}

func TestInitWithWriter_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("development", &buf)
	t.Cleanup(func() { InitWithWriter("production", &bytes.Buffer{}) })

	Warn().Msg("careful")

	if !bytes.Contains(buf.Bytes(), []byte("careful")) {
		t.Errorf("expected console output to contain message, got %q", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Error("expected console output, got JSON")
	}
}
