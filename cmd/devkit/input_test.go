package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

var testSchema = toolkit.Object(map[string]any{
	"text":      toolkit.String("Text"),
	"principal": toolkit.Number("Amount"),
	"count":     toolkit.Integer("How many"),
	"urlSafe":   toolkit.Bool("URL alphabet"),
	"value":     toolkit.Any("String or number"),
})

func decodeObject(t *testing.T, data json.RawMessage) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	return v
}

func TestBuildInputPairs(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  map[string]any
	}{
		{"string kept verbatim", []string{"text=123"}, map[string]any{"text": "123"}},
		{"value with equals", []string{"text=a=b"}, map[string]any{"text": "a=b"}},
		{"number", []string{"principal=1000.5"}, map[string]any{"principal": 1000.5}},
		{"integer and bool", []string{"count=3", "urlSafe=true"}, map[string]any{"count": float64(3), "urlSafe": true}},
		{"untyped json", []string{"value=1700000000"}, map[string]any{"value": float64(1700000000)}},
		{"untyped string", []string{"value=2024-01-02"}, map[string]any{"value": "2024-01-02"}},
		{"empty value", []string{"text="}, map[string]any{"text": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildInput(testSchema, "", "", tt.pairs, nil)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, decodeObject(t, got)); diff != "" {
				t.Errorf("input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		inline string
		file   string
		pairs  []string
	}{
		{"no equals", "", "", []string{"text"}},
		{"unknown field", "", "", []string{"nope=1"}},
		{"bad number", "", "", []string{"principal=lots"}},
		{"NaN number", "", "", []string{"principal=NaN"}},
		{"infinite number", "", "", []string{"principal=-Inf"}},
		{"overflowing number", "", "", []string{"principal=1e400"}},
		{"bad bool", "", "", []string{"urlSafe=maybe"}},
		{"two sources", `{}`, "", []string{"text=a"}},
		{"inline not object", `[1,2]`, "", nil},
		{"missing file", "", filepath.Join(t.TempDir(), "missing.json"), nil},
		{"missing @file", "", "", []string{"text=@" + filepath.Join(t.TempDir(), "missing.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildInput(testSchema, tt.inline, tt.file, tt.pairs, nil)
			if !types.IsInputError(err) {
				t.Errorf("expected InputError, got %v", err)
			}
		})
	}
}

func TestBuildInputSources(t *testing.T) {
	got, err := buildInput(testSchema, "", "", nil, nil)
	if err != nil || string(got) != "{}" {
		t.Errorf("no source = %s, %v", got, err)
	}

	got, err = buildInput(testSchema, `{"text":"hi"}`, "", nil, nil)
	if err != nil || string(got) != `{"text":"hi"}` {
		t.Errorf("inline = %s, %v", got, err)
	}

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	if err := os.WriteFile(inputPath, []byte(`{"count": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = buildInput(testSchema, "", inputPath, nil, nil)
	if err != nil || decodeObject(t, got)["count"] != float64(2) {
		t.Errorf("file = %s, %v", got, err)
	}

	got, err = buildInput(testSchema, "", "-", nil, strings.NewReader(`{"text":"stdin"}`))
	if err != nil || decodeObject(t, got)["text"] != "stdin" {
		t.Errorf("stdin = %s, %v", got, err)
	}

	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("line one\nline two"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = buildInput(testSchema, "", "", []string{"text=@" + textPath}, nil)
	if err != nil || decodeObject(t, got)["text"] != "line one\nline two" {
		t.Errorf("@file = %s, %v", got, err)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()

	media := types.TextResult("done").Add(types.FileBlock([]byte("a,b\n"), "text/csv", "out.csv"))
	path := filepath.Join(dir, "out.csv")
	if err := writeOutput(path, media); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "a,b\n" {
		t.Errorf("media output = %q", data)
	}

	path = filepath.Join(dir, "out.txt")
	if err := writeOutput(path, types.TextResult("hello")); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "hello\n" {
		t.Errorf("text output = %q", data)
	}

	if err := writeOutput(filepath.Join(dir, "missing", "x"), types.TextResult("x")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
