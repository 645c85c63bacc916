package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLogFormats(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: LevelDebug, Output: &buf})
	defer Init(nil)

	L_info("value is %d", 42)
	L_info("structured", "tool", "base64")
	L_debug("plain")

	out := buf.String()
	for _, want := range []string{"value is 42", "structured", "tool=base64", "plain"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: LevelError, Output: &buf})
	defer Init(nil)

	L_info("hidden")
	L_error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at error level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("error message missing: %s", out)
	}
}

func TestHasFmtVerb(t *testing.T) {
	if !hasFmtVerb("n=%d") {
		t.Errorf("expected the verb in %q to be detected", "n=%d")
	}
	if hasFmtVerb("100%% done") {
		t.Error("escaped percent is not a verb")
	}
	if hasFmtVerb("no verbs") {
		t.Error("plain text has no verbs")
	}
}
