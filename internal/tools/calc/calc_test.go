package calc

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func TestCalculateEMI(t *testing.T) {
	loan, err := CalculateEMI(100000, 10, 12, true)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(loan.EMI-8791.5887) > 0.001 {
		t.Errorf("EMI = %v, want 8791.5887", loan.EMI)
	}
	if math.Abs(loan.TotalInterest-5499.0647) > 0.001 {
		t.Errorf("total interest = %v", loan.TotalInterest)
	}
	if len(loan.Schedule) != 12 {
		t.Fatalf("schedule has %d rows", len(loan.Schedule))
	}
	if last := loan.Schedule[11]; last.Balance != 0 {
		t.Errorf("final balance = %v", last.Balance)
	}
	var principal float64
	for _, row := range loan.Schedule {
		principal += row.Principal
	}
	if math.Abs(principal-100000) > 0.1 {
		t.Errorf("principal repaid = %v", principal)
	}

	flat, err := CalculateEMI(1200, 0, 12, false)
	if err != nil {
		t.Fatal(err)
	}
	if flat.EMI != 100 || flat.TotalInterest != 0 || flat.Schedule != nil {
		t.Errorf("zero-rate loan = %+v", flat)
	}
}

func TestEMICoversPrincipal(t *testing.T) {
	rates := []float64{1e-15, 1e-12, 1e-9, 1e-6, 1e-3, 0.01, 1, 5.5, 12, 36, 99}
	for _, principal := range []float64{1, 100000, 250000} {
		for _, rate := range rates {
			for _, months := range []int{1, 6, 60, 360, 1200} {
				loan, err := CalculateEMI(principal, rate, months, false)
				if err != nil {
					t.Fatalf("principal %v, rate %v, %d months: %v", principal, rate, months, err)
				}
				if got := loan.EMI * float64(months); got < principal {
					t.Errorf("principal %v, rate %v, %d months: EMI*n = %v < principal", principal, rate, months, got)
				}
			}
		}
	}
}

func TestEMISmallRateApproachesEvenSplit(t *testing.T) {
	loan, err := CalculateEMI(100000, 1e-9, 360, false)
	if err != nil {
		t.Fatal(err)
	}
	if even := 100000.0 / 360; loan.EMI < even || loan.EMI-even > 1e-6 {
		t.Errorf("EMI = %v, want just above %v", loan.EMI, even)
	}
}

func TestCalculateEMIErrors(t *testing.T) {
	for _, c := range []struct {
		p, r float64
		n    int
	}{{0, 5, 12}, {-1, 5, 12}, {1000, -1, 12}, {1000, 101, 12}, {1000, 5, 0}, {1000, 5, 1201}, {1000, math.NaN(), 12}, {1e308, 99, 1200}} {
		if _, err := CalculateEMI(c.p, c.r, c.n, false); !types.IsInputError(err) {
			t.Errorf("%+v: expected InputError, got %v", c, err)
		}
	}
}

func TestBMITool(t *testing.T) {
	tests := []struct {
		in       string
		bmi      float64
		category string
	}{
		{`{"weight":70,"height":175}`, 22.9, "Normal weight"},
		{`{"unit":"imperial","weight":200,"height":70}`, 28.7, "Overweight"},
		{`{"weight":50,"height":180}`, 15.4, "Underweight"},
		{`{"weight":110,"height":170}`, 38.1, "Obese"},
	}
	for _, tt := range tests {
		res, err := NewBMITool().Execute(context.Background(), json.RawMessage(tt.in))
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if res.Fields["bmi"] != tt.bmi || res.Fields["category"] != tt.category {
			t.Errorf("%s = %v %v, want %v %v", tt.in, res.Fields["bmi"], res.Fields["category"], tt.bmi, tt.category)
		}
	}
	if _, err := NewBMITool().Execute(context.Background(), json.RawMessage(`{"weight":70,"height":0}`)); !types.IsInputError(err) {
		t.Errorf("zero height should be rejected, got %v", err)
	}
}

func TestBMICategoryBoundaries(t *testing.T) {
	for bmi, want := range map[float64]string{18.4: "Underweight", 18.5: "Normal weight", 24.9: "Normal weight", 25: "Overweight", 30: "Obese"} {
		if got := BMICategory(bmi); got != want {
			t.Errorf("BMICategory(%v) = %q, want %q", bmi, got, want)
		}
	}
}

func TestEstimateCalories(t *testing.T) {
	got, err := EstimateCalories(CalorieProfile{Sex: "Male", Age: 30, Weight: 80, Height: 180, Activity: "moderate"})
	if err != nil {
		t.Fatal(err)
	}
	want := CalorieResult{BMR: 1780, TDEE: 2759, Lose: 2259, Maintain: 2759, Gain: 3259}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("male (-want +got):\n%s", diff)
	}

	got, err = EstimateCalories(CalorieProfile{Sex: "female", Age: 25, Weight: 60, Height: 165})
	if err != nil {
		t.Fatal(err)
	}
	if got.BMR != 1345 || got.Maintain != 1614 {
		t.Errorf("female sedentary = %+v", got)
	}

	for _, p := range []CalorieProfile{
		{Sex: "other", Age: 30, Weight: 80, Height: 180},
		{Sex: "male", Age: 5, Weight: 80, Height: 180},
		{Sex: "male", Age: 30, Weight: 80, Height: 180, Activity: "couch"},
	} {
		if _, err := EstimateCalories(p); !types.IsInputError(err) {
			t.Errorf("%+v: expected InputError, got %v", p, err)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		mode string
		x, y float64
		want float64
	}{
		{"of", 20, 50, 10},
		{"ratio", 25, 200, 12.5},
		{"change", 50, 75, 50},
		{"change", 80, 60, -25},
		{"change", -50, -25, 50},
	}
	for _, tt := range tests {
		got, err := Percentage(tt.mode, tt.x, tt.y)
		if err != nil || got != tt.want {
			t.Errorf("Percentage(%s, %v, %v) = %v, %v; want %v", tt.mode, tt.x, tt.y, got, err, tt.want)
		}
	}
	if _, err := Percentage("ratio", 1, 0); !types.IsInputError(err) {
		t.Errorf("ratio of zero should be rejected")
	}
	if _, err := Percentage("change", 0, 1); !types.IsInputError(err) {
		t.Errorf("change from zero should be rejected")
	}
}

func TestPercentageOverflow(t *testing.T) {
	tests := []struct {
		mode string
		x, y float64
	}{
		{"of", 1e308, 1e308},
		{"ratio", 1e308, 1e-308},
		{"change", -1e-308, 1e308},
	}
	for _, tt := range tests {
		if _, err := Percentage(tt.mode, tt.x, tt.y); !types.IsInputError(err) {
			t.Errorf("Percentage(%s, %v, %v): expected InputError, got %v", tt.mode, tt.x, tt.y, err)
		}
	}

	got, err := Percentage("of", 1e300, 50)
	if err != nil || math.Abs(got-5e299) > 5e299*1e-12 {
		t.Errorf("large finite result = %v, %v", got, err)
	}

	tool := NewPercentageTool()
	_, err = tool.Execute(context.Background(), json.RawMessage(`{"mode":"of","x":1e308,"y":1e308}`))
	if !types.IsInputError(err) {
		t.Errorf("tool: expected InputError, got %v", err)
	}
}

func date(s string) time.Time {
	d, _ := time.Parse(dateLayout, s)
	return d
}

func TestCalculateAge(t *testing.T) {
	tests := []struct {
		birth, on string
		want      Age
	}{
		{"1990-05-15", "2024-05-14", Age{Years: 33, Months: 11, Days: 29, TotalDays: 12418, NextBirthday: "2024-05-15", DaysToNext: 1}},
		{"1990-05-15", "2024-05-15", Age{Years: 34, TotalDays: 12419, NextBirthday: "2024-05-15"}},
		{"2000-01-31", "2000-03-01", Age{Months: 1, Days: 1, TotalDays: 30, NextBirthday: "2001-01-31", DaysToNext: 336}},
		{"2000-02-29", "2023-03-01", Age{Years: 23, Days: 1, TotalDays: 8401, NextBirthday: "2023-03-01"}},
	}
	for _, tt := range tests {
		got, err := CalculateAge(date(tt.birth), date(tt.on))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s on %s (-want +got):\n%s", tt.birth, tt.on, diff)
		}
	}
	if _, err := CalculateAge(date("2030-01-01"), date("2024-01-01")); !types.IsInputError(err) {
		t.Errorf("future birth date should be rejected, got %v", err)
	}
}

func TestAgeToolDefaultsToToday(t *testing.T) {
	tool := NewAgeTool()
	tool.now = func() time.Time { return time.Date(2026, 10, 19, 15, 30, 0, 0, time.Local) }
	res, err := tool.Execute(context.Background(), json.RawMessage(`{"birthDate":"2000-10-19"}`))
	if err != nil {
		t.Fatal(err)
	}
	age := res.Fields["age"].(Age)
	if age.Years != 26 || age.Months != 0 || age.Days != 0 || age.NextBirthday != "2026-10-19" {
		t.Errorf("age = %+v", age)
	}
	if _, err := tool.Execute(context.Background(), json.RawMessage(`{"birthDate":"19/10/2000"}`)); !types.IsInputError(err) {
		t.Errorf("bad date should be rejected, got %v", err)
	}
}
