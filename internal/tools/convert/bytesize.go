package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// ByteSizeTool converts byte counts between SI and IEC units
type ByteSizeTool struct {
	toolkit.Info
}

// NewByteSizeTool creates the byte-size tool
func NewByteSizeTool() *ByteSizeTool {
	return &ByteSizeTool{Info: toolkit.NewInfo(
		"byte-size", "Byte Size Converter",
		"Parse sizes like 1.5 GiB, 200MB or 1048576 and show them in SI (kB, MB) and IEC (KiB, MiB) units.",
		types.CategoryConverters, "bytes", "kb", "mb", "gb", "kib", "mib", "gib", "file size",
	)}
}

func (t *ByteSizeTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"value": toolkit.String("Size with an optional unit, e.g. 1.5 GiB, 200MB, 4096"),
	}, "value")
}

type byteSizeInput struct {
	Value json.RawMessage `json:"value"`
}

func (t *ByteSizeTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params byteSizeInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	var value string
	if err := json.Unmarshal(params.Value, &value); err != nil {
		value = string(params.Value)
	}
	n, err := ParseByteSize(value)
	if err != nil {
		return nil, err
	}
	si, iec := humanize.Bytes(n), humanize.IBytes(n)
	text := fmt.Sprintf("Bytes: %s\nSI:    %s\nIEC:   %s", humanize.BigComma(new(big.Int).SetUint64(n)), si, iec)
	return types.TextResult(text).WithFields(map[string]any{"bytes": n, "si": si, "iec": iec}), nil
}

// ParseByteSize parses a byte count with an optional SI or IEC unit.
func ParseByteSize(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "null" {
		return 0, types.InvalidInput("value is required")
	}
	if strings.HasPrefix(value, "-") {
		return 0, types.InvalidInput("size cannot be negative")
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, types.WrapInput(err, "cannot parse %q as a size", value)
	}
	return n, nil
}
