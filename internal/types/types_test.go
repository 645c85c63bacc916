package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestInputErrorWrapping(t *testing.T) {
	base := errors.New("unexpected EOF")
	err := fmt.Errorf("json-format: %w", WrapInput(base, "invalid JSON"))

	if !IsInputError(err) {
		t.Fatal("expected wrapped InputError to be detected")
	}
	if !errors.Is(err, base) {
		t.Error("expected underlying error to be reachable")
	}
	if got := err.Error(); got != "json-format: invalid JSON: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if IsInputError(errors.New("disk full")) {
		t.Error("plain error reported as input error")
	}
}

func TestDecodeInput(t *testing.T) {
	var v struct {
		Text string `json:"text"`
	}
	if err := DecodeInput(nil, &v); err != nil {
		t.Errorf("empty input should decode: %v", err)
	}
	if err := DecodeInput(json.RawMessage(`{"text":"hi"}`), &v); err != nil || v.Text != "hi" {
		t.Errorf("DecodeInput = %v, text %q", err, v.Text)
	}
	if err := DecodeInput(json.RawMessage(`{"text":`), &v); !IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestResultHelpers(t *testing.T) {
	r := TextResult("one").Add(TextBlock("two"), ImageBlock([]byte{1, 2, 3}, "image/png"))
	if got := r.GetText(); got != "one\ntwo" {
		t.Errorf("GetText = %q", got)
	}
	if !r.HasMedia() {
		t.Error("expected media")
	}
	raw, err := r.Content[2].Bytes()
	if err != nil || len(raw) != 3 {
		t.Errorf("Bytes = %v, %v", raw, err)
	}

	r.WithFields(map[string]any{"a": 1}).WithFields(map[string]any{"b": 2})
	if len(r.Fields) != 2 {
		t.Errorf("Fields = %v", r.Fields)
	}
}

func TestCategoryIndex(t *testing.T) {
	if CategoryIndex(CategoryEncoding) != 0 {
		t.Error("encoding should sort first")
	}
	if CategoryIndex("nope") != len(Categories) {
		t.Error("unknown category should sort last")
	}
}

func TestNewMetadataPath(t *testing.T) {
	m := NewMetadata("base64", "Base64", "Encode", CategoryEncoding, "b64")
	if m.Path != "/tools/base64" {
		t.Errorf("Path = %q", m.Path)
	}
}
