// Package encode provides the text encoding tools: Base64, URL, HTML entities, hex and JWT decoding.
package encode

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Base64Tool encodes and decodes Base64
type Base64Tool struct {
	toolkit.Info
}

// NewBase64Tool creates the base64 tool
func NewBase64Tool() *Base64Tool {
	return &Base64Tool{Info: toolkit.NewInfo(
		"base64", "Base64 Converter",
		"Encode text to Base64 or decode Base64 back to text. Supports the URL-safe alphabet.",
		types.CategoryEncoding, "b64", "encode", "decode", "atob", "btoa",
	)}
}

func (t *Base64Tool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":    toolkit.Enum("Direction. Default: encode", "encode", "decode"),
		"text":    toolkit.String("Text to encode, or Base64 to decode"),
		"urlSafe": toolkit.Bool("Use the URL-safe alphabet (- and _) without padding"),
	}, "text")
}

type base64Input struct {
	Mode    string `json:"mode"`
	Text    string `json:"text"`
	URLSafe bool   `json:"urlSafe"`
}

func (t *Base64Tool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params base64Input
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "encode", "encode", "decode")
	if err != nil {
		return nil, err
	}

	if mode == "encode" {
		return types.TextResult(EncodeBase64([]byte(params.Text), params.URLSafe)), nil
	}

	raw, err := DecodeBase64(params.Text)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return types.TextResult("Decoded data is binary, returned as a file.").
			Add(types.FileBlock(raw, "application/octet-stream", "decoded.bin")).
			WithFields(map[string]any{"bytes": len(raw), "utf8": false}), nil
	}
	return types.TextResult(string(raw)).WithFields(map[string]any{"bytes": len(raw), "utf8": true}), nil
}

// EncodeBase64 encodes data with the standard alphabet, or the unpadded URL-safe one.
func EncodeBase64(data []byte, urlSafe bool) string {
	if urlSafe {
		return base64.RawURLEncoding.EncodeToString(data)
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard or URL-safe Base64, with or without padding.
// Whitespace (e.g. line wrapping) is ignored.
func DecodeBase64(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimRight(cleaned, "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(cleaned, "-_") {
		enc = base64.RawURLEncoding
	}
	out, err := enc.DecodeString(cleaned)
	if err != nil {
		return nil, types.WrapInput(err, "invalid Base64")
	}
	return out, nil
}
