package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/paths"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	paths.SetBaseDir(dir)
	t.Cleanup(func() { paths.SetBaseDir("") })

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Server.Listen != "127.0.0.1:1337" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Currency.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Currency.Timeout)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "devkit.toml")
	content := `
[server]
listen = ":9000"

[currency]
cache_ttl = "10m"

[tools]
disabled = ["qr-code"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", cfg.Server.Listen)
	}
	if cfg.Currency.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.Currency.CacheTTL)
	}
	// untouched keys keep their defaults
	if cfg.Currency.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v, want default 5s", cfg.Currency.Timeout)
	}
	if len(cfg.Tools.Disabled) != 1 || cfg.Tools.Disabled[0] != "qr-code" {
		t.Errorf("Disabled = %v", cfg.Tools.Disabled)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DEVKIT_LISTEN", ":7777")
	t.Setenv("DEVKIT_DISABLED_TOOLS", "uuid, ulid")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != ":7777" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if len(cfg.Tools.Disabled) != 2 || cfg.Tools.Disabled[1] != "ulid" {
		t.Errorf("Disabled = %v", cfg.Tools.Disabled)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("DEVKIT_RATES_URL")
	t.Cleanup(func() { os.Unsetenv("DEVKIT_RATES_URL") })

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DEVKIT_RATES_URL=http://rates.local\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency.Endpoint != "http://rates.local" {
		t.Errorf("Endpoint = %q", cfg.Currency.Endpoint)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "devkit.toml")

	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[server\nlisten="},
		{"bad duration", "[currency]\ntimeout = \"soon\"\n"},
		{"bad level", "[logging]\nlevel = \"chatty\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"warn", logging.LevelWarn},
		{"DEBUG", logging.LevelDebug},
		{"", logging.LevelInfo},
		{"trace", logging.LevelTrace},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level
		if got := cfg.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
	if Default().LogLevel() != logging.LevelWarn {
		t.Error("default level should be warn")
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "prefs.json")

	if err := AtomicWriteJSON(path, map[string]string{"theme": "dark"}, 0600); err != nil {
		t.Fatalf("AtomicWriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"theme\": \"dark\"\n}\n" {
		t.Errorf("unexpected content %q", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
