package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// goalDelta is the daily surplus or deficit for gaining or losing weight.
const goalDelta = 500

var activityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very-active": 1.9,
}

// CalorieProfile describes the person the estimate is for. Weight is kg and
// height cm.
type CalorieProfile struct {
	Sex      string
	Age      int
	Weight   float64
	Height   float64
	Activity string
}

// CalorieResult is a daily energy estimate in kcal.
type CalorieResult struct {
	BMR      int `json:"bmr"`
	TDEE     int `json:"tdee"`
	Lose     int `json:"lose"`
	Maintain int `json:"maintain"`
	Gain     int `json:"gain"`
}

// CalorieTool estimates daily calorie needs
type CalorieTool struct {
	toolkit.Info
}

// NewCalorieTool creates the calorie tool
func NewCalorieTool() *CalorieTool {
	return &CalorieTool{Info: toolkit.NewInfo(
		"calorie", "Calorie Calculator",
		"Estimate basal metabolic rate (Mifflin-St Jeor) and daily calories to lose, keep or gain weight.",
		types.CategoryCalculators, "bmr", "tdee", "diet", "kcal", "energy", "mifflin",
	)}
}

func (t *CalorieTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"sex":      toolkit.Enum("Biological sex", "male", "female"),
		"age":      toolkit.Integer("Age in years, 15-100"),
		"unit":     toolkit.Enum("Unit system. Default: metric", "metric", "imperial"),
		"weight":   toolkit.Number("Weight in kg (metric) or lb (imperial)"),
		"height":   toolkit.Number("Height in cm (metric) or inches (imperial)"),
		"activity": toolkit.Enum("Activity level. Default: sedentary", "sedentary", "light", "moderate", "active", "very-active"),
	}, "sex", "age", "weight", "height")
}

type calorieInput struct {
	Sex      string  `json:"sex"`
	Age      int     `json:"age"`
	Unit     string  `json:"unit"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
	Activity string  `json:"activity"`
}

func (t *CalorieTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params calorieInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	unit, err := toolkit.Mode(params.Unit, "metric", "metric", "imperial")
	if err != nil {
		return nil, err
	}
	p := CalorieProfile{Sex: params.Sex, Age: params.Age, Weight: params.Weight, Height: params.Height, Activity: params.Activity}
	if unit == "imperial" {
		p.Weight *= kgPerLb
		p.Height *= cmPerIn
	}
	res, err := EstimateCalories(p)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("BMR:      %d kcal/day\nMaintain: %d kcal/day\nLose:     %d kcal/day\nGain:     %d kcal/day",
		res.BMR, res.Maintain, res.Lose, res.Gain)
	return types.TextResult(text).WithFields(map[string]any{"calories": res}), nil
}

// EstimateCalories applies the Mifflin-St Jeor equation and an activity factor.
func EstimateCalories(p CalorieProfile) (CalorieResult, error) {
	sex, err := toolkit.Mode(p.Sex, "", "male", "female")
	if err != nil {
		return CalorieResult{}, types.InvalidInput("sex must be male or female")
	}
	activity, err := toolkit.Mode(p.Activity, "sedentary", "sedentary", "light", "moderate", "active", "very-active")
	if err != nil {
		return CalorieResult{}, err
	}
	if p.Age < 15 || p.Age > 100 {
		return CalorieResult{}, types.InvalidInput("age must be between 15 and 100")
	}
	if p.Weight <= 0 || p.Weight > 500 {
		return CalorieResult{}, types.InvalidInput("weight must be between 0 and 500 kg")
	}
	if p.Height < 100 || p.Height > 250 {
		return CalorieResult{}, types.InvalidInput("height must be between 100 and 250 cm")
	}

	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	tdee := bmr * activityFactors[activity]
	return CalorieResult{
		BMR:      int(math.Round(bmr)),
		TDEE:     int(math.Round(tdee)),
		Lose:     int(math.Round(tdee - goalDelta)),
		Maintain: int(math.Round(tdee)),
		Gain:     int(math.Round(tdee + goalDelta)),
	}, nil
}
