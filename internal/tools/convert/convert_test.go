package convert

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/roelfdiedericks/devkit/internal/rates"
	"github.com/roelfdiedericks/devkit/internal/types"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9*math.Max(1, math.Abs(b))
}

func TestConvertUnit(t *testing.T) {
	tests := []struct {
		category, from, to string
		value, want        float64
	}{
		{"length", "mi", "km", 1, 1.609344},
		{"length", "feet", "in", 2, 24},
		{"mass", "lb", "kg", 1, 0.45359237},
		{"temperature", "C", "F", 100, 212},
		{"temperature", "fahrenheit", "c", 32, 0},
		{"temperature", "K", "C", 0, -273.15},
		{"area", "ha", "m2", 1, 10000},
		{"volume", "gal", "l", 1, 3.785411784},
		{"speed", "kmh", "mps", 36, 10},
		{"time", "d", "h", 2, 48},
		{"data", "GiB", "MiB", 1, 1024},
		{"data", "B", "bit", 1, 8},
	}
	for _, tt := range tests {
		got, err := ConvertUnit(tt.category, tt.value, tt.from, tt.to)
		if err != nil {
			t.Fatalf("%s %s->%s: %v", tt.category, tt.from, tt.to, err)
		}
		if !near(got, tt.want) {
			t.Errorf("%v %s -> %s = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertUnitErrors(t *testing.T) {
	for _, c := range []struct {
		category, from, to string
		value              float64
	}{
		{"length", "furlong", "m", 1},
		{"mass", "kg", "m", 1},
		{"colour", "a", "b", 1},
		{"temperature", "C", "K", -300},
		{"length", "km", "mm", 1e308},
		{"temperature", "F", "C", 1e308},
	} {
		if _, err := ConvertUnit(c.category, c.value, c.from, c.to); !types.IsInputError(err) {
			t.Errorf("%+v: expected InputError, got %v", c, err)
		}
	}
}

func TestUnitToolAllTargets(t *testing.T) {
	res, err := NewUnitTool().Execute(context.Background(), json.RawMessage(`{"category":"length","value":1,"from":"km"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !near(res.Fields["m"].(float64), 1000) || !near(res.Fields["mi"].(float64), 0.621371192237) {
		t.Errorf("fields = %v", res.Fields)
	}
	if _, err := NewUnitTool().Execute(context.Background(), json.RawMessage(`{"category":"length","from":"km"}`)); !types.IsInputError(err) {
		t.Errorf("missing value should be rejected, got %v", err)
	}
	if _, err := NewUnitTool().Execute(context.Background(), json.RawMessage(`{"category":"length","value":1e308,"from":"km"}`)); !types.IsInputError(err) {
		t.Errorf("overflowing value should be rejected, got %v", err)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		base int
		want string
	}{
		{"0xff", 0, "255"},
		{"0b1010", 0, "10"},
		{"0o17", 0, "15"},
		{"11111111", 2, "255"},
		{"zz", 36, "1295"},
		{"-1_000", 10, "-1000"},
		{"18446744073709551616", 10, "18446744073709551616"},
	}
	for _, tt := range tests {
		n, err := ParseInt(tt.in, tt.base)
		if err != nil {
			t.Fatalf("ParseInt(%q, %d): %v", tt.in, tt.base, err)
		}
		if n.String() != tt.want {
			t.Errorf("ParseInt(%q, %d) = %s, want %s", tt.in, tt.base, n, tt.want)
		}
	}
	for _, bad := range []struct {
		in   string
		base int
	}{{"12", 1}, {"19", 8}, {"", 10}, {"1", 37}} {
		if _, err := ParseInt(bad.in, bad.base); !types.IsInputError(err) {
			t.Errorf("ParseInt(%q, %d) expected InputError, got %v", bad.in, bad.base, err)
		}
	}
}

func TestBaseTool(t *testing.T) {
	res, err := NewBaseTool().Execute(context.Background(), json.RawMessage(`{"value":"18446744073709551616","to":36}`))
	if err != nil {
		t.Fatal(err)
	}
	want := BaseResult{
		Binary:  "1" + strings.Repeat("0", 64),
		Octal:   "2" + strings.Repeat("0", 21),
		Decimal: "18446744073709551616",
		Hex:     "10000000000000000",
		Custom:  "3w5e11264sgsg",
		Base:    36,
	}
	if diff := cmp.Diff(want, res.Fields["result"]); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	for _, in := range []string{"1700000000", "1700000000000", "2023-11-14T22:13:20Z", "2023-11-14 22:13:20", "Tue, 14 Nov 2023 22:13:20 UTC"} {
		got, err := ParseTimestamp(in, time.UTC)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseTimestamp("yesterday-ish", time.UTC); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestTimestampTool(t *testing.T) {
	tool := NewTimestampTool()
	ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	tool.now = func() time.Time { return ts.Add(3 * time.Hour) }

	res, err := tool.Execute(context.Background(), json.RawMessage(`{"value":1700000000,"timezone":"Africa/Johannesburg"}`))
	if err != nil {
		t.Fatal(err)
	}
	info := res.Fields["timestamp"].(TimestampInfo)
	want := TimestampInfo{
		Unix:      1700000000,
		UnixMilli: 1700000000000,
		RFC3339:   "2023-11-15T00:13:20+02:00",
		RFC1123:   "Wed, 15 Nov 2023 00:13:20 SAST",
		ISODate:   "2023-11-15",
		Timezone:  "Africa/Johannesburg",
		Relative:  "3 hours ago",
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("timestamp mismatch (-want +got):\n%s", diff)
	}

	res, err = tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Fields["timestamp"].(TimestampInfo).Relative; got != "now" {
		t.Errorf("default value relative = %q, want now", got)
	}

	if _, err := tool.Execute(context.Background(), json.RawMessage(`{"timezone":"Mars/Olympus"}`)); !types.IsInputError(err) {
		t.Errorf("unknown timezone should be an input error, got %v", err)
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		in       string
		hex, rgb string
		hsl      string
	}{
		{"#f00", "#ff0000", "rgb(255, 0, 0)", "hsl(0, 100%, 50%)"},
		{"0080FF", "#0080ff", "rgb(0, 128, 255)", "hsl(210, 100%, 50%)"},
		{"rgb(0, 128, 255)", "#0080ff", "rgb(0, 128, 255)", "hsl(210, 100%, 50%)"},
		{"hsl(120, 100%, 25%)", "#008000", "rgb(0, 128, 0)", "hsl(120, 100%, 25%)"},
		{"#ffffff", "#ffffff", "rgb(255, 255, 255)", "hsl(0, 0%, 100%)"},
	}
	for _, tt := range tests {
		col, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		info := DescribeColor(col)
		if info.Hex != tt.hex || info.RGB != tt.rgb || info.HSL != tt.hsl {
			t.Errorf("%q -> %s %s %s, want %s %s %s", tt.in, info.Hex, info.RGB, info.HSL, tt.hex, tt.rgb, tt.hsl)
		}
	}
	for _, bad := range []string{"", "nope", "#12345", "rgb(300, 0, 0)", "hsl(0, 150%, 50%)"} {
		if _, err := ParseColor(bad); !types.IsInputError(err) {
			t.Errorf("ParseColor(%q) expected InputError, got %v", bad, err)
		}
	}
}

func TestRoman(t *testing.T) {
	tests := []struct {
		n     int
		roman string
	}{
		{1, "I"}, {4, "IV"}, {9, "IX"}, {14, "XIV"}, {40, "XL"}, {90, "XC"},
		{400, "CD"}, {1994, "MCMXCIV"}, {2024, "MMXXIV"}, {3999, "MMMCMXCIX"},
	}
	for _, tt := range tests {
		got, err := ToRoman(tt.n)
		if err != nil || got != tt.roman {
			t.Errorf("ToRoman(%d) = %q, %v; want %q", tt.n, got, err, tt.roman)
		}
		back, err := FromRoman(strings.ToLower(tt.roman))
		if err != nil || back != tt.n {
			t.Errorf("FromRoman(%q) = %d, %v; want %d", tt.roman, back, err, tt.n)
		}
	}
	for _, n := range []int{0, -1, 4000} {
		if _, err := ToRoman(n); !types.IsInputError(err) {
			t.Errorf("ToRoman(%d) expected InputError", n)
		}
	}
	for _, s := range []string{"IIII", "IC", "VV", "ABC", ""} {
		if _, err := FromRoman(s); !types.IsInputError(err) {
			t.Errorf("FromRoman(%q) expected InputError", s)
		}
	}

	res, err := NewRomanTool().Execute(context.Background(), json.RawMessage(`{"value":1994}`))
	if err != nil || res.GetText() != "MCMXCIV" {
		t.Errorf("roman tool = %v, %v", res, err)
	}
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1.5 GiB", 1610612736},
		{"200MB", 200000000},
		{"4096", 4096},
		{"1 KiB", 1024},
	}
	for _, tt := range tests {
		got, err := ParseByteSize(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseByteSize(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "abc", "-5 MB"} {
		if _, err := ParseByteSize(bad); !types.IsInputError(err) {
			t.Errorf("ParseByteSize(%q) expected InputError, got %v", bad, err)
		}
	}

	res, err := NewByteSizeTool().Execute(context.Background(), json.RawMessage(`{"value":"1.5 GiB"}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Fields["si"] != "1.6 GB" || res.Fields["iec"] != "1.5 GiB" {
		t.Errorf("fields = %v", res.Fields)
	}
	res, err = NewByteSizeTool().Execute(context.Background(), json.RawMessage(`{"value":"15 EiB"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.GetText(), "Bytes: 17,293,822,569,102,704,640") {
		t.Errorf("text = %q", res.GetText())
	}
}

type stubRates struct{ r *rates.Rates }

func (s stubRates) Latest(ctx context.Context) *rates.Rates { return s.r }

func TestCurrencyTool(t *testing.T) {
	tool := NewCurrencyTool(stubRates{&rates.Rates{
		Base:   rates.Base,
		Date:   "2026-01-02",
		Values: map[string]float64{"EUR": 0.5, "ZAR": 20},
		Live:   true,
	}})

	tests := []struct {
		in   string
		want float64
	}{
		{`{"amount":10,"from":"usd","to":"eur"}`, 5},
		{`{"amount":10,"from":"EUR","to":"USD"}`, 20},
		{`{"amount":1,"from":"EUR","to":"ZAR"}`, 40},
	}
	for _, tt := range tests {
		res, err := tool.Execute(context.Background(), json.RawMessage(tt.in))
		if err != nil {
			t.Fatal(err)
		}
		if !near(res.Fields["result"].(float64), tt.want) {
			t.Errorf("%s = %v, want %v", tt.in, res.Fields["result"], tt.want)
		}
		if res.Fields["live"] != true || !strings.Contains(res.GetText(), "live rates of 2026-01-02") {
			t.Errorf("expected live note: %q", res.GetText())
		}
	}

	if _, err := tool.Execute(context.Background(), json.RawMessage(`{"amount":1,"from":"USD","to":"XXX"}`)); !types.IsInputError(err) {
		t.Errorf("unknown currency should be an input error, got %v", err)
	}
	if _, err := tool.Execute(context.Background(), json.RawMessage(`{"amount":-1,"from":"USD","to":"EUR"}`)); !types.IsInputError(err) {
		t.Errorf("negative amount should be an input error, got %v", err)
	}
}

func TestCurrencyToolWithoutSource(t *testing.T) {
	res, err := NewCurrencyTool(nil).Execute(context.Background(), json.RawMessage(`{"amount":100,"from":"USD","to":"EUR"}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Fields["live"] != false || !strings.Contains(res.GetText(), "offline fallback rates") {
		t.Errorf("expected fallback note, got %q", res.GetText())
	}
	_, err = NewCurrencyTool(nil).Execute(context.Background(), json.RawMessage(`{"amount":1e308,"from":"USD","to":"KRW"}`))
	if !types.IsInputError(err) {
		t.Errorf("overflowing amount: expected InputError, got %v", err)
	}
}
