package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

var (
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*[, ]\s*(\d{1,3})\s*[, ]\s*(\d{1,3})\s*(?:[,/]\s*[\d.]+%?\s*)?\)$`)
	hslPattern = regexp.MustCompile(`^hsla?\(\s*([\d.]+)(?:deg)?\s*[, ]\s*([\d.]+)%\s*[, ]\s*([\d.]+)%\s*(?:[,/]\s*[\d.]+%?\s*)?\)$`)
)

// ColorTool converts colours between hex, rgb() and hsl()
type ColorTool struct {
	toolkit.Info
}

// NewColorTool creates the color tool
func NewColorTool() *ColorTool {
	return &ColorTool{Info: toolkit.NewInfo(
		"color", "Color Converter",
		"Convert colours between hex (#rgb, #rrggbb), rgb(r, g, b) and hsl(h, s%, l%).",
		types.CategoryConverters, "colour", "hex", "rgb", "hsl", "css",
	)}
}

func (t *ColorTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"value": toolkit.String("Colour as #rrggbb, #rgb, rgb(255, 0, 0) or hsl(0, 100%, 50%)"),
	}, "value")
}

type colorInput struct {
	Value string `json:"value"`
}

// ColorInfo is one colour in the three CSS notations.
type ColorInfo struct {
	Hex string `json:"hex"`
	RGB string `json:"rgb"`
	HSL string `json:"hsl"`
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	H   int    `json:"h"`
	S   int    `json:"s"`
	L   int    `json:"l"`
}

func (t *ColorTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params colorInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	col, err := ParseColor(params.Value)
	if err != nil {
		return nil, err
	}
	info := DescribeColor(col)
	return types.TextResult(fmt.Sprintf("HEX: %s\nRGB: %s\nHSL: %s", info.Hex, info.RGB, info.HSL)).
		WithFields(map[string]any{"color": info}), nil
}

// ParseColor accepts hex (with or without #), rgb() and hsl() notation.
func ParseColor(value string) (colorful.Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return colorful.Color{}, types.InvalidInput("value is required")
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		var c [3]float64
		for i := range c {
			n, _ := strconv.Atoi(m[i+1])
			if n > 255 {
				return colorful.Color{}, types.InvalidInput("rgb component %d out of range 0-255", n)
			}
			c[i] = float64(n) / 255
		}
		return colorful.Color{R: c[0], G: c[1], B: c[2]}, nil
	}

	if m := hslPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		sat, _ := strconv.ParseFloat(m[2], 64)
		light, _ := strconv.ParseFloat(m[3], 64)
		if sat > 100 || light > 100 {
			return colorful.Color{}, types.InvalidInput("saturation and lightness must be 0-100%%")
		}
		return colorful.Hsl(math.Mod(h, 360), sat/100, light/100).Clamped(), nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, types.InvalidInput("unrecognised colour %q", value)
	}
	return col, nil
}

// DescribeColor formats col in hex, rgb() and hsl() notation.
func DescribeColor(col colorful.Color) ColorInfo {
	r, g, b := col.RGB255()
	h, s, l := col.Hsl()
	info := ColorInfo{
		Hex: col.Hex(),
		R:   r,
		G:   g,
		B:   b,
		H:   int(math.Round(h)) % 360,
		S:   int(math.Round(s * 100)),
		L:   int(math.Round(l * 100)),
	}
	info.RGB = fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	info.HSL = fmt.Sprintf("hsl(%d, %d%%, %d%%)", info.H, info.S, info.L)
	return info
}
