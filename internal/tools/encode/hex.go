package encode

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// HexTool converts text to hexadecimal and back
type HexTool struct {
	toolkit.Info
}

// NewHexTool creates the hex tool
func NewHexTool() *HexTool {
	return &HexTool{Info: toolkit.NewInfo(
		"hex", "Hex Converter",
		"Convert text to hexadecimal bytes or decode hex back to text.",
		types.CategoryEncoding, "base16", "bytes", "hexadecimal",
	)}
}

func (t *HexTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":      toolkit.Enum("Direction. Default: encode", "encode", "decode"),
		"text":      toolkit.String("Text to encode, or hex to decode"),
		"separator": toolkit.String("Separator placed between bytes when encoding, e.g. \" \" or \":\""),
		"uppercase": toolkit.Bool("Use upper-case hex digits"),
	}, "text")
}

type hexInput struct {
	Mode      string `json:"mode"`
	Text      string `json:"text"`
	Separator string `json:"separator"`
	Uppercase bool   `json:"uppercase"`
}

func (t *HexTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params hexInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "encode", "encode", "decode")
	if err != nil {
		return nil, err
	}
	if mode == "encode" {
		return types.TextResult(EncodeHex([]byte(params.Text), params.Separator, params.Uppercase)), nil
	}

	raw, err := DecodeHex(params.Text)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return types.TextResult("Decoded data is binary, returned as a file.").
			Add(types.FileBlock(raw, "application/octet-stream", "decoded.bin")), nil
	}
	return types.TextResult(string(raw)), nil
}

// EncodeHex renders each byte as two hex digits joined by sep.
func EncodeHex(data []byte, sep string, upper bool) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = hex.EncodeToString([]byte{b})
		if upper {
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, sep)
}

// DecodeHex decodes hex, ignoring whitespace, ':' and '-' separators and an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t', ':', '-':
			return -1
		}
		return r
	}, s)
	out, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, types.WrapInput(err, "invalid hex")
	}
	return out, nil
}
