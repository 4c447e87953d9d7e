package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" INFO ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"WARN", zerolog.WarnLevel},
		{"critical", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in, zerolog.InfoLevel); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup("WARNING", &buf)
	t.Cleanup(func() { Setup("INFO", nil) })

	log := For("test")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message leaked at warning level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warning message missing: %q", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("component field missing: %q", out)
	}
}

func TestSetLevel_KeepsLevelOnUnknownName(t *testing.T) {
	Setup("ERROR", &bytes.Buffer{})
	t.Cleanup(func() { Setup("INFO", nil) })

	SetLevel("nonsense")
	if Level() != zerolog.ErrorLevel {
		t.Fatalf("Level() = %v, want error", Level())
	}
	SetLevel("debug")
	if Level() != zerolog.DebugLevel {
		t.Fatalf("Level() = %v, want debug", Level())
	}
}
