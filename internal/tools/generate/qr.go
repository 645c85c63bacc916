package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	defaultQRSize = 256
	// rsc.io/qr draws a four-module quiet zone on each side
	qrQuietModules = 8
)

var qrLevels = map[string]qr.Level{"L": qr.L, "M": qr.M, "Q": qr.Q, "H": qr.H}

// QRTool renders text as a QR code
type QRTool struct {
	toolkit.Info
}

// NewQRTool creates the qr-code tool
func NewQRTool() *QRTool {
	return &QRTool{Info: toolkit.NewInfo(
		"qr-code", "QR Code Generator",
		"Encode text or a URL as a QR code, as a PNG image or rendered for the terminal.",
		types.CategoryGenerators, "qr", "barcode", "2d code", "png",
	)}
}

func (t *QRTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text":   toolkit.String("Content to encode"),
		"size":   toolkit.Integer("Approximate image width in pixels, 64-2048. Default: 256"),
		"level":  toolkit.Enum("Error correction level. Default: M", "L", "M", "Q", "H"),
		"format": toolkit.Enum("Output. Default: png", "png", "terminal"),
	}, "text")
}

type qrInput struct {
	Text   string `json:"text"`
	Size   int    `json:"size"`
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (t *QRTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params qrInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if params.Text == "" {
		return nil, types.InvalidInput("text is required")
	}
	levelName, err := toolkit.Mode(params.Level, "M", "L", "M", "Q", "H")
	if err != nil {
		return nil, err
	}
	format, err := toolkit.Mode(params.Format, "png", "png", "terminal")
	if err != nil {
		return nil, err
	}
	level := qrLevels[levelName]

	if format == "terminal" {
		art, err := RenderTerminal(params.Text, level)
		if err != nil {
			return nil, err
		}
		return types.TextResult(art), nil
	}

	size := params.Size
	if size == 0 {
		size = defaultQRSize
	}
	if size < 64 || size > 2048 {
		return nil, types.InvalidInput("size must be between 64 and 2048")
	}
	data, err := EncodePNG(params.Text, level, size)
	if err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("qr: generated PNG unreadable: %w", err)
	}
	return types.TextResult(fmt.Sprintf("QR code %dx%d px, level %s", cfg.Width, cfg.Height, levelName)).
		Add(types.ImageBlock(data, "image/png")).
		WithFields(map[string]any{"width": cfg.Width, "height": cfg.Height, "level": levelName}), nil
}

// EncodePNG encodes text as a PNG whose width is at most size pixels
// (at least one pixel per module).
func EncodePNG(text string, level qr.Level, size int) ([]byte, error) {
	code, err := qr.Encode(text, level)
	if err != nil {
		return nil, types.WrapInput(err, "cannot encode as QR code")
	}
	code.Scale = max(1, size/(code.Size+qrQuietModules))
	return code.PNG(), nil
}

// RenderTerminal draws the code with Unicode half blocks. qrterminal drops
// encoding errors, so capacity is checked with qr.Encode first.
func RenderTerminal(text string, level qr.Level) (string, error) {
	if _, err := qr.Encode(text, level); err != nil {
		return "", types.WrapInput(err, "cannot encode as QR code")
	}
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(text, level, &buf)
	return strings.TrimRight(buf.String(), "\n"), nil
}
