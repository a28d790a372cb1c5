package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  zerolog.Level
	}{
		{"Empty", "", zerolog.InfoLevel},
		{"Debug", "debug", zerolog.DebugLevel},
		{"Upper case", "ERROR", zerolog.ErrorLevel},
		{"Warn", "warn", zerolog.WarnLevel},
		{"Warning alias", "warning", zerolog.WarnLevel},
		{"Padded", "  info ", zerolog.InfoLevel},
		{"Unknown", "chatty", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLevel(tc.input); got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestZerologAdapterWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Error("Cache", errors.New("boom"), map[string]interface{}{"misses": 3})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "Cache" {
		t.Errorf("component = %v, want Cache", entry["component"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if entry["misses"] != float64(3) {
		t.Errorf("misses = %v, want 3", entry["misses"])
	}
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("Engine", "hidden", nil)
	log.Info("Engine", "hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	log.Warning("Engine", "shown", nil)
	if buf.Len() == 0 {
		t.Fatal("expected warning to be written")
	}
}
