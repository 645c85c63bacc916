package calc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// PercentageTool answers the three common percentage questions
type PercentageTool struct {
	toolkit.Info
}

// NewPercentageTool creates the percentage tool
func NewPercentageTool() *PercentageTool {
	return &PercentageTool{Info: toolkit.NewInfo(
		"percentage", "Percentage Calculator",
		"Work out X% of Y, what percent X is of Y, or the percentage change from X to Y.",
		types.CategoryCalculators, "percent", "ratio", "increase", "decrease", "discount",
	)}
}

func (t *PercentageTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode": toolkit.Enum("of: X% of Y; ratio: X is what % of Y; change: % change from X to Y. Default: of", "of", "ratio", "change"),
		"x":    toolkit.Number("First value"),
		"y":    toolkit.Number("Second value"),
	}, "x", "y")
}

type percentageInput struct {
	Mode string  `json:"mode"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (t *PercentageTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params percentageInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "of", "of", "ratio", "change")
	if err != nil {
		return nil, err
	}
	result, err := Percentage(mode, params.X, params.Y)
	if err != nil {
		return nil, err
	}

	var text string
	switch mode {
	case "of":
		text = fmt.Sprintf("%s%% of %s = %s", num(params.X), num(params.Y), num(result))
	case "ratio":
		text = fmt.Sprintf("%s is %s%% of %s", num(params.X), num(result), num(params.Y))
	case "change":
		direction := "increase"
		if result < 0 {
			direction = "decrease"
		}
		text = fmt.Sprintf("%s -> %s: %s%% %s", num(params.X), num(params.Y), num(result), direction)
	}
	return types.TextResult(text).WithFields(map[string]any{"result": result}), nil
}

// Percentage computes the answer for mode, rounded to 4 decimal places.
func Percentage(mode string, x, y float64) (float64, error) {
	var result float64
	switch mode {
	case "of":
		result = x / 100 * y
	case "ratio":
		if y == 0 {
			return 0, types.InvalidInput("y must not be zero")
		}
		result = x / y * 100
	case "change":
		if x == 0 {
			return 0, types.InvalidInput("cannot compute a change from zero")
		}
		result = (y - x) / abs(x) * 100
	default:
		return 0, types.InvalidInput("unsupported mode %q", mode)
	}
	if err := toolkit.Finite("result", result); err != nil {
		return 0, err
	}
	return round(result, 4), nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func num(v float64) string {
	return fmt.Sprint(round(v, 4))
}
