// Package convert provides the converter tools: units, number bases, timestamps,
// colors, roman numerals, byte sizes and currencies.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Unit is a linear unit expressed as a factor of its category's base unit.
type Unit struct {
	ID      string
	Name    string
	Factor  float64
	Aliases []string
}

// unitCategories holds the linear categories; temperature is handled separately.
var unitCategories = map[string][]Unit{
	"length": {
		{"mm", "millimetre", 0.001, []string{"millimeter", "millimeters"}},
		{"cm", "centimetre", 0.01, []string{"centimeter", "centimeters"}},
		{"m", "metre", 1, []string{"meter", "meters", "metres"}},
		{"km", "kilometre", 1000, []string{"kilometer", "kilometers"}},
		{"in", "inch", 0.0254, []string{"inches", "\""}},
		{"ft", "foot", 0.3048, []string{"feet", "'"}},
		{"yd", "yard", 0.9144, []string{"yards"}},
		{"mi", "mile", 1609.344, []string{"miles"}},
		{"nmi", "nautical mile", 1852, []string{"nauticalmile"}},
	},
	"mass": {
		{"mg", "milligram", 1e-6, nil},
		{"g", "gram", 0.001, []string{"grams"}},
		{"kg", "kilogram", 1, []string{"kilograms", "kilo", "kilos"}},
		{"t", "tonne", 1000, []string{"ton", "tonnes"}},
		{"oz", "ounce", 0.028349523125, []string{"ounces"}},
		{"lb", "pound", 0.45359237, []string{"lbs", "pounds"}},
		{"st", "stone", 6.35029318, []string{"stones"}},
	},
	"area": {
		{"mm2", "square millimetre", 1e-6, nil},
		{"cm2", "square centimetre", 1e-4, nil},
		{"m2", "square metre", 1, []string{"sqm"}},
		{"ha", "hectare", 1e4, []string{"hectares"}},
		{"km2", "square kilometre", 1e6, nil},
		{"in2", "square inch", 0.00064516, nil},
		{"ft2", "square foot", 0.09290304, []string{"sqft"}},
		{"yd2", "square yard", 0.83612736, nil},
		{"acre", "acre", 4046.8564224, []string{"acres", "ac"}},
		{"mi2", "square mile", 2589988.110336, nil},
	},
	"volume": {
		{"ml", "millilitre", 0.001, []string{"milliliter"}},
		{"l", "litre", 1, []string{"liter", "liters", "litres"}},
		{"m3", "cubic metre", 1000, nil},
		{"tsp", "teaspoon", 0.00492892159375, nil},
		{"tbsp", "tablespoon", 0.01478676478125, nil},
		{"floz", "US fluid ounce", 0.0295735295625, []string{"fl oz"}},
		{"cup", "US cup", 0.2365882365, []string{"cups"}},
		{"pt", "US pint", 0.473176473, []string{"pint"}},
		{"qt", "US quart", 0.946352946, []string{"quart"}},
		{"gal", "US gallon", 3.785411784, []string{"gallon", "gallons"}},
		{"impgal", "imperial gallon", 4.54609, nil},
	},
	"speed": {
		{"mps", "metres per second", 1, []string{"m/s"}},
		{"kmh", "kilometres per hour", 1 / 3.6, []string{"km/h", "kph"}},
		{"mph", "miles per hour", 0.44704, nil},
		{"knot", "knot", 1852.0 / 3600, []string{"knots", "kn", "kt"}},
		{"fps", "feet per second", 0.3048, []string{"ft/s"}},
	},
	"time": {
		{"ms", "millisecond", 0.001, []string{"milliseconds"}},
		{"s", "second", 1, []string{"sec", "seconds"}},
		{"min", "minute", 60, []string{"minutes"}},
		{"h", "hour", 3600, []string{"hr", "hours"}},
		{"d", "day", 86400, []string{"days"}},
		{"wk", "week", 604800, []string{"week", "weeks"}},
		{"mo", "month (average)", 2629746, []string{"month", "months"}},
		{"yr", "year (average)", 31556952, []string{"year", "years"}},
	},
	"data": {
		{"bit", "bit", 0.125, []string{"bits"}},
		{"B", "byte", 1, []string{"byte", "bytes"}},
		{"KB", "kilobyte", 1e3, nil},
		{"MB", "megabyte", 1e6, nil},
		{"GB", "gigabyte", 1e9, nil},
		{"TB", "terabyte", 1e12, nil},
		{"KiB", "kibibyte", 1 << 10, nil},
		{"MiB", "mebibyte", 1 << 20, nil},
		{"GiB", "gibibyte", 1 << 30, nil},
		{"TiB", "tebibyte", 1 << 40, nil},
	},
}

var temperatureUnits = []Unit{
	{"C", "degree Celsius", 0, []string{"celsius", "°c"}},
	{"F", "degree Fahrenheit", 0, []string{"fahrenheit", "°f"}},
	{"K", "kelvin", 0, []string{"kelvin"}},
}

// UnitCategories lists the supported categories.
func UnitCategories() []string {
	out := []string{"temperature"}
	for c := range unitCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func unitsOf(category string) []Unit {
	if category == "temperature" {
		return temperatureUnits
	}
	return unitCategories[category]
}

// findUnit resolves an id or alias, case-insensitively.
func findUnit(category, name string) (Unit, error) {
	name = strings.TrimSpace(name)
	for _, u := range unitsOf(category) {
		if u.ID == name {
			return u, nil
		}
	}
	for _, u := range unitsOf(category) {
		if strings.EqualFold(u.ID, name) || strings.EqualFold(u.Name, name) {
			return u, nil
		}
		for _, a := range u.Aliases {
			if strings.EqualFold(a, name) {
				return u, nil
			}
		}
	}
	ids := make([]string, 0, len(unitsOf(category)))
	for _, u := range unitsOf(category) {
		ids = append(ids, u.ID)
	}
	return Unit{}, types.InvalidInput("unknown %s unit %q (known: %s)", category, name, strings.Join(ids, ", "))
}

// ConvertUnit converts value between two units of a category.
func ConvertUnit(category string, value float64, from, to string) (float64, error) {
	if len(unitsOf(category)) == 0 {
		return 0, types.InvalidInput("unknown category %q (known: %s)", category, strings.Join(UnitCategories(), ", "))
	}
	src, err := findUnit(category, from)
	if err != nil {
		return 0, err
	}
	dst, err := findUnit(category, to)
	if err != nil {
		return 0, err
	}
	var out float64
	if category == "temperature" {
		out, err = convertTemperature(value, src.ID, dst.ID)
		if err != nil {
			return 0, err
		}
	} else {
		out = value * src.Factor / dst.Factor
	}
	if err := toolkit.Finite(fmt.Sprintf("%g %s in %s", value, src.ID, dst.ID), out); err != nil {
		return 0, err
	}
	return out, nil
}

func convertTemperature(value float64, from, to string) (float64, error) {
	var kelvin float64
	switch from {
	case "C":
		kelvin = value + 273.15
	case "F":
		kelvin = (value-32)*5/9 + 273.15
	case "K":
		kelvin = value
	}
	if kelvin < 0 {
		return 0, types.InvalidInput("%g %s is below absolute zero", value, from)
	}
	switch to {
	case "C":
		return kelvin - 273.15, nil
	case "F":
		return (kelvin-273.15)*9/5 + 32, nil
	}
	return kelvin, nil
}

// FormatNumber prints up to 12 significant digits without trailing zeros.
func FormatNumber(v float64) string {
	if v == 0 || math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// UnitTool converts measurements
type UnitTool struct {
	toolkit.Info
}

// NewUnitTool creates the unit tool
func NewUnitTool() *UnitTool {
	return &UnitTool{Info: toolkit.NewInfo(
		"unit", "Unit Converter",
		"Convert length, mass, temperature, area, volume, speed, time and data units.",
		types.CategoryConverters, "metric", "imperial", "celsius", "fahrenheit", "miles", "kilograms", "measure",
	)}
}

func (t *UnitTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"category": toolkit.Enum("Unit category", UnitCategories()...),
		"value":    toolkit.Number("Value to convert"),
		"from":     toolkit.String("Source unit, e.g. km, lb, F, GiB"),
		"to":       toolkit.String("Target unit. Omit to convert to every unit of the category"),
	}, "category", "value", "from")
}

type unitInput struct {
	Category string   `json:"category"`
	Value    *float64 `json:"value"`
	From     string   `json:"from"`
	To       string   `json:"to"`
}

func (t *UnitTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params unitInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if params.Value == nil {
		return nil, types.InvalidInput("value is required")
	}
	category := strings.ToLower(strings.TrimSpace(params.Category))
	value := *params.Value

	if params.To != "" {
		out, err := ConvertUnit(category, value, params.From, params.To)
		if err != nil {
			return nil, err
		}
		return types.TextResult(fmt.Sprintf("%s %s = %s %s", FormatNumber(value), params.From, FormatNumber(out), params.To)).
			WithFields(map[string]any{"result": out}), nil
	}

	if _, err := ConvertUnit(category, value, params.From, params.From); err != nil {
		return nil, err
	}
	results := map[string]any{}
	var sb strings.Builder
	for _, u := range unitsOf(category) {
		out, err := ConvertUnit(category, value, params.From, u.ID)
		if err != nil {
			return nil, err
		}
		results[u.ID] = out
		fmt.Fprintf(&sb, "%-8s %s (%s)\n", u.ID, FormatNumber(out), u.Name)
	}
	return types.TextResult(strings.TrimRight(sb.String(), "\n")).WithFields(results), nil
}
