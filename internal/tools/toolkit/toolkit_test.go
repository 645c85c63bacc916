package toolkit

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func TestInfo(t *testing.T) {
	info := NewInfo("hex", "Hex Converter", "Convert text to hex.", types.CategoryEncoding, "base16")
	if info.Name() != "hex" || info.Description() != "Convert text to hex." {
		t.Errorf("unexpected info %+v", info)
	}
	meta := info.Metadata()
	meta.Keywords[0] = "changed"
	if info.Metadata().Keywords[0] != "base16" {
		t.Error("Metadata should return a copy of keywords")
	}
}

func TestMode(t *testing.T) {
	got, err := Mode("", "encode", "encode", "decode")
	if err != nil || got != "encode" {
		t.Errorf("default mode = %q, %v", got, err)
	}
	got, err = Mode("DECODE", "encode", "encode", "decode")
	if err != nil || got != "decode" {
		t.Errorf("case-insensitive mode = %q, %v", got, err)
	}
	if _, err := Mode("rot13", "encode", "encode", "decode"); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestFinite(t *testing.T) {
	if err := Finite("result", 0, -1.5, math.MaxFloat64); err != nil {
		t.Errorf("finite values rejected: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := Finite("result", 1, v); !types.IsInputError(err) {
			t.Errorf("Finite(%v) = %v, want InputError", v, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	data, err := ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	if _, err := ReadFile(filepath.Join(dir, "missing")); !types.IsInputError(err) {
		t.Errorf("missing file should be an input error, got %v", err)
	}
	if _, err := ReadFile(dir); !types.IsInputError(err) {
		t.Errorf("directory should be an input error, got %v", err)
	}
}

func TestObjectSchema(t *testing.T) {
	s := Object(map[string]any{"text": String("input")}, "text")
	if s["type"] != "object" {
		t.Errorf("type = %v", s["type"])
	}
	req, ok := s["required"].([]string)
	if !ok || len(req) != 1 || req[0] != "text" {
		t.Errorf("required = %v", s["required"])
	}
	if _, ok := Object(nil)["required"]; ok {
		t.Error("required should be omitted when empty")
	}
}
