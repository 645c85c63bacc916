package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataPathUsesOverride(t *testing.T) {
	dir := t.TempDir()
	SetBaseDir(dir)
	defer SetBaseDir("")

	got, err := PrefsPath()
	if err != nil {
		t.Fatalf("PrefsPath: %v", err)
	}
	if want := filepath.Join(dir, PrefsFileName); got != want {
		t.Errorf("PrefsPath = %q, want %q", got, want)
	}
}

func TestConfigPathMissing(t *testing.T) {
	dir := t.TempDir()
	SetBaseDir(dir)
	defer SetBaseDir("")

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	got, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if got != "" {
		t.Errorf("ConfigPath = %q, want empty", got)
	}
}

func TestConfigPathGlobal(t *testing.T) {
	dir := t.TempDir()
	SetBaseDir(dir)
	defer SetBaseDir("")

	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	global := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(global, []byte("[server]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if got != global {
		t.Errorf("ConfigPath = %q, want %q", got, global)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, _ := ExpandTilde("~/x")
	if want := filepath.Join(home, "x"); got != want {
		t.Errorf("ExpandTilde = %q, want %q", got, want)
	}
	got, _ = ExpandTilde("/abs")
	if got != "/abs" {
		t.Errorf("ExpandTilde changed absolute path: %q", got)
	}
}
