package calc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	kgPerLb = 0.45359237
	cmPerIn = 2.54
)

// BMIResult is a body mass index with its WHO category.
type BMIResult struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// BMITool calculates body mass index
type BMITool struct {
	toolkit.Info
}

// NewBMITool creates the bmi tool
func NewBMITool() *BMITool {
	return &BMITool{Info: toolkit.NewInfo(
		"bmi", "BMI Calculator",
		"Calculate body mass index from weight and height in metric or imperial units.",
		types.CategoryCalculators, "body mass index", "weight", "height", "health", "who",
	)}
}

func (t *BMITool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"unit":   toolkit.Enum("Unit system. Default: metric", "metric", "imperial"),
		"weight": toolkit.Number("Weight in kg (metric) or lb (imperial)"),
		"height": toolkit.Number("Height in cm (metric) or inches (imperial)"),
	}, "weight", "height")
}

type bmiInput struct {
	Unit   string  `json:"unit"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}

func (t *BMITool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params bmiInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	unit, err := toolkit.Mode(params.Unit, "metric", "metric", "imperial")
	if err != nil {
		return nil, err
	}
	kg, cm := params.Weight, params.Height
	if unit == "imperial" {
		kg, cm = params.Weight*kgPerLb, params.Height*cmPerIn
	}
	res, err := CalculateBMI(kg, cm)
	if err != nil {
		return nil, err
	}
	return types.TextResult(fmt.Sprintf("BMI %.1f (%s)", res.BMI, res.Category)).
		WithFields(map[string]any{"bmi": res.BMI, "category": res.Category}), nil
}

// CalculateBMI returns weight / height² rounded to one decimal place.
func CalculateBMI(kg, cm float64) (BMIResult, error) {
	if kg <= 0 || kg > 1000 {
		return BMIResult{}, types.InvalidInput("weight must be a positive number")
	}
	if cm < 30 || cm > 300 {
		return BMIResult{}, types.InvalidInput("height must be between 30 and 300 cm")
	}
	m := cm / 100
	bmi := round(kg/(m*m), 1)
	return BMIResult{BMI: bmi, Category: BMICategory(bmi)}, nil
}

// BMICategory maps a BMI to the WHO adult classification.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
