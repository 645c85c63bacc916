package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const dateLayout = "2006-01-02"

// Age is the calendar difference between a birth date and a reference date.
type Age struct {
	Years        int    `json:"years"`
	Months       int    `json:"months"`
	Days         int    `json:"days"`
	TotalDays    int    `json:"totalDays"`
	NextBirthday string `json:"nextBirthday"`
	DaysToNext   int    `json:"daysToNext"`
}

// AgeTool calculates age from a birth date
type AgeTool struct {
	toolkit.Info
	now func() time.Time
}

// NewAgeTool creates the age tool
func NewAgeTool() *AgeTool {
	return &AgeTool{
		Info: toolkit.NewInfo(
			"age", "Age Calculator",
			"Calculate exact age in years, months and days, and the days until the next birthday.",
			types.CategoryCalculators, "birthday", "date difference", "years old",
		),
		now: time.Now,
	}
}

func (t *AgeTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"birthDate": toolkit.String("Birth date, YYYY-MM-DD"),
		"on":        toolkit.String("Reference date, YYYY-MM-DD. Default: today"),
	}, "birthDate")
}

type ageInput struct {
	BirthDate string `json:"birthDate"`
	On        string `json:"on"`
}

func (t *AgeTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params ageInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	birth, err := parseDate("birthDate", params.BirthDate)
	if err != nil {
		return nil, err
	}
	now := t.now()
	on := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(params.On) != "" {
		if on, err = parseDate("on", params.On); err != nil {
			return nil, err
		}
	}
	age, err := CalculateAge(birth, on)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("%d years, %d months, %d days\n%d days in total\nNext birthday %s (in %d days)",
		age.Years, age.Months, age.Days, age.TotalDays, age.NextBirthday, age.DaysToNext)
	return types.TextResult(text).WithFields(map[string]any{"age": age}), nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, types.InvalidInput("%s must be a date in YYYY-MM-DD form", field)
	}
	return d, nil
}

// CalculateAge returns the age on date on. Both dates are taken as UTC midnights.
func CalculateAge(birth, on time.Time) (Age, error) {
	if birth.After(on) {
		return Age{}, types.InvalidInput("birth date is after %s", on.Format(dateLayout))
	}
	months := (on.Year()-birth.Year())*12 + int(on.Month()) - int(birth.Month())
	if on.Day() < birth.Day() {
		months--
	}
	anchor := addMonths(birth, months)

	next := anniversary(birth, on.Year())
	if next.Before(on) {
		next = anniversary(birth, on.Year()+1)
	}
	return Age{
		Years:        months / 12,
		Months:       months % 12,
		Days:         daysBetween(anchor, on),
		TotalDays:    daysBetween(birth, on),
		NextBirthday: next.Format(dateLayout),
		DaysToNext:   daysBetween(on, next),
	}, nil
}

// anniversary is birth's month/day in year; 29 February falls on 1 March in
// common years.
func anniversary(birth time.Time, year int) time.Time {
	return time.Date(year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
}

// addMonths moves t forward by n months, clamping the day to the target
// month's length (31 January plus one month is 28 or 29 February).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
