package generate

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	vinLength = 17
	// legal VIN characters: no I, O or Q
	vinAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"
	// model-year codes repeat every 30 years starting 1980; no I, O, Q, U, Z or 0
	vinYearCodes = "ABCDEFGHJKLMNPRSTVWXY123456789"
	vinBaseYear  = 1980
)

var vinWeights = [vinLength]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

var vinValues = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
}

// Manufacturers maps well-known world manufacturer identifiers to a name.
var Manufacturers = map[string]string{
	"1FA": "Ford (USA)",
	"1G1": "Chevrolet (USA)",
	"1HG": "Honda (USA)",
	"2T1": "Toyota (Canada)",
	"3VW": "Volkswagen (Mexico)",
	"5YJ": "Tesla (USA)",
	"JHM": "Honda (Japan)",
	"JT2": "Toyota (Japan)",
	"KMH": "Hyundai (South Korea)",
	"SAJ": "Jaguar (UK)",
	"VF1": "Renault (France)",
	"WBA": "BMW (Germany)",
	"WVW": "Volkswagen (Germany)",
	"YV1": "Volvo (Sweden)",
	"ZFA": "Fiat (Italy)",
}

// VINInfo is the decomposition of a VIN.
type VINInfo struct {
	VIN           string `json:"vin"`
	WMI           string `json:"wmi"`
	VDS           string `json:"vds"`
	VIS           string `json:"vis"`
	Manufacturer  string `json:"manufacturer,omitempty"`
	Region        string `json:"region"`
	CheckDigit    string `json:"checkDigit"`
	ExpectedCheck string `json:"expectedCheck"`
	Valid         bool   `json:"valid"`
	ModelYears    []int  `json:"modelYears,omitempty"`
}

// VINTool generates and validates vehicle identification numbers
type VINTool struct {
	toolkit.Info
	rand io.Reader
	now  func() time.Time
}

// NewVINTool creates the vin tool
func NewVINTool() *VINTool {
	return &VINTool{
		Info: toolkit.NewInfo(
			"vin", "VIN Generator/Validator",
			"Generate random test VINs with a correct check digit, or validate and decode a VIN (ISO 3779).",
			types.CategoryGenerators, "vehicle", "car", "chassis", "check digit", "iso 3779",
		),
		rand: rand.Reader,
		now:  time.Now,
	}
}

func (t *VINTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":  toolkit.Enum("Operation. Default: generate", "generate", "validate"),
		"wmi":   toolkit.String("World manufacturer identifier (3 characters) for generated VINs. Default: random well-known"),
		"year":  toolkit.Integer("Model year for generated VINs. Default: current year"),
		"count": toolkit.Integer("How many VINs to generate, 1-50. Default: 1"),
		"vin":   toolkit.String("VIN to validate"),
	})
}

type vinInput struct {
	Mode  string `json:"mode"`
	WMI   string `json:"wmi"`
	Year  int    `json:"year"`
	Count *int   `json:"count"`
	VIN   string `json:"vin"`
}

func (t *VINTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params vinInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "generate", "generate", "validate")
	if err != nil {
		return nil, err
	}

	if mode == "validate" {
		info, err := DecodeVIN(params.VIN)
		if err != nil {
			return nil, err
		}
		return types.TextResult(formatVIN(info)).WithFields(map[string]any{"vin": info}), nil
	}

	count := orDefault(params.Count, 1)
	if count < 1 || count > 50 {
		return nil, types.InvalidInput("count must be between 1 and 50")
	}
	year := params.Year
	if year == 0 {
		year = t.now().Year()
	}
	vins := make([]string, count)
	for i := range vins {
		v, err := GenerateVIN(t.rand, params.WMI, year)
		if err != nil {
			return nil, err
		}
		vins[i] = v
	}
	return types.TextResult(strings.Join(vins, "\n")).WithFields(map[string]any{"vins": vins}), nil
}

// CheckDigit computes the ISO 3779 check character for a 17-character VIN.
// Position 9 is ignored (weight 0).
func CheckDigit(vin string) (byte, error) {
	if len(vin) != vinLength {
		return 0, types.InvalidInput("a VIN has %d characters, got %d", vinLength, len(vin))
	}
	sum := 0
	for i := 0; i < vinLength; i++ {
		v, ok := vinValues[vin[i]]
		if !ok {
			return 0, types.InvalidInput("invalid character %q at position %d", vin[i], i+1)
		}
		sum += v * vinWeights[i]
	}
	rem := sum % 11
	if rem == 10 {
		return 'X', nil
	}
	return byte('0' + rem), nil
}

// YearCode returns the position-10 model-year character for year.
func YearCode(year int) (byte, error) {
	if year < vinBaseYear || year > vinBaseYear+59 {
		return 0, types.InvalidInput("model year must be between %d and %d", vinBaseYear, vinBaseYear+59)
	}
	return vinYearCodes[(year-vinBaseYear)%len(vinYearCodes)], nil
}

// GenerateVIN builds a random VIN with a valid check digit. An empty wmi picks
// a random entry from Manufacturers.
func GenerateVIN(r io.Reader, wmi string, year int) (string, error) {
	wmi = strings.ToUpper(strings.TrimSpace(wmi))
	if wmi == "" {
		keys := make([]string, 0, len(Manufacturers))
		for k := range Manufacturers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		i, err := randInt(r, len(keys))
		if err != nil {
			return "", err
		}
		wmi = keys[i]
	}
	if len(wmi) != 3 {
		return "", types.InvalidInput("WMI must be 3 characters")
	}
	for i := 0; i < 3; i++ {
		if !strings.ContainsRune(vinAlphabet, rune(wmi[i])) {
			return "", types.InvalidInput("WMI contains invalid character %q", wmi[i])
		}
	}
	yc, err := YearCode(year)
	if err != nil {
		return "", err
	}

	b := make([]byte, vinLength)
	copy(b, wmi)
	// VDS positions 4-8, plant at 11
	for _, pos := range []int{3, 4, 5, 6, 7, 10} {
		if b[pos], err = pick(r, vinAlphabet); err != nil {
			return "", err
		}
	}
	b[8] = '0'
	b[9] = yc
	// serial number positions 12-17
	for pos := 11; pos < vinLength; pos++ {
		if b[pos], err = pick(r, "0123456789"); err != nil {
			return "", err
		}
	}
	check, err := CheckDigit(string(b))
	if err != nil {
		return "", err
	}
	b[8] = check
	return string(b), nil
}

// DecodeVIN validates structure and check digit and splits a VIN into its sections.
// A wrong check digit is reported through Valid, not as an error.
func DecodeVIN(vin string) (*VINInfo, error) {
	vin = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(vin), " ", ""))
	if vin == "" {
		return nil, types.InvalidInput("vin is required")
	}
	for i := 0; i < len(vin); i++ {
		switch vin[i] {
		case 'I', 'O', 'Q':
			return nil, types.InvalidInput("letter %c is not allowed in a VIN (position %d)", vin[i], i+1)
		}
	}
	expected, err := CheckDigit(vin)
	if err != nil {
		return nil, err
	}

	info := &VINInfo{
		VIN:           vin,
		WMI:           vin[:3],
		VDS:           vin[3:9],
		VIS:           vin[9:],
		Manufacturer:  Manufacturers[vin[:3]],
		Region:        region(vin[0]),
		CheckDigit:    string(vin[8]),
		ExpectedCheck: string(expected),
		Valid:         vin[8] == expected,
	}
	if i := strings.IndexByte(vinYearCodes, vin[9]); i >= 0 {
		info.ModelYears = []int{vinBaseYear + i, vinBaseYear + i + len(vinYearCodes)}
	}
	return info, nil
}

func region(c byte) string {
	switch {
	case c >= '1' && c <= '5':
		return "North America"
	case c == '6' || c == '7':
		return "Oceania"
	case c == '8' || c == '9':
		return "South America"
	case c >= 'A' && c <= 'H':
		return "Africa"
	case c >= 'J' && c <= 'R':
		return "Asia"
	case c >= 'S' && c <= 'Z':
		return "Europe"
	}
	return "Unknown"
}

func formatVIN(info *VINInfo) string {
	var sb strings.Builder
	status := "VALID"
	if !info.Valid {
		status = "INVALID check digit"
	}
	fmt.Fprintf(&sb, "%s: %s\n", info.VIN, status)
	fmt.Fprintf(&sb, "WMI: %s", info.WMI)
	if info.Manufacturer != "" {
		fmt.Fprintf(&sb, " (%s)", info.Manufacturer)
	}
	fmt.Fprintf(&sb, "\nRegion: %s\nVDS: %s\nVIS: %s\n", info.Region, info.VDS, info.VIS)
	fmt.Fprintf(&sb, "Check digit: %s (expected %s)", info.CheckDigit, info.ExpectedCheck)
	if len(info.ModelYears) > 0 {
		fmt.Fprintf(&sb, "\nModel year: %d or %d", info.ModelYears[0], info.ModelYears[1])
	}
	return sb.String()
}
