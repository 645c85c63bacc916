// Package generate provides the generator tools: passwords, UUIDs, ULIDs, QR codes and VINs.
package generate

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?/~"
	ambiguous   = "Il1O0o|`'\""
)

// PasswordOptions controls password generation.
type PasswordOptions struct {
	Length           int
	Lowercase        bool
	Uppercase        bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// PasswordTool generates random passwords
type PasswordTool struct {
	toolkit.Info
	rand io.Reader
}

// NewPasswordTool creates the password tool
func NewPasswordTool() *PasswordTool {
	return &PasswordTool{
		Info: toolkit.NewInfo(
			"password", "Password Generator",
			"Generate strong random passwords with a chosen length and character classes.",
			types.CategoryGenerators, "random", "secret", "passphrase", "strong",
		),
		rand: rand.Reader,
	}
}

func (t *PasswordTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"length":           toolkit.Integer("Password length, 4-256. Default: 16"),
		"count":            toolkit.Integer("How many passwords, 1-100. Default: 1"),
		"lowercase":        toolkit.Bool("Include a-z. Default: true"),
		"uppercase":        toolkit.Bool("Include A-Z. Default: true"),
		"digits":           toolkit.Bool("Include 0-9. Default: true"),
		"symbols":          toolkit.Bool("Include symbols. Default: true"),
		"excludeAmbiguous": toolkit.Bool("Leave out look-alike characters such as I, l, 1, O and 0"),
	})
}

type passwordInput struct {
	Length           *int  `json:"length"`
	Count            *int  `json:"count"`
	Lowercase        *bool `json:"lowercase"`
	Uppercase        *bool `json:"uppercase"`
	Digits           *bool `json:"digits"`
	Symbols          *bool `json:"symbols"`
	ExcludeAmbiguous bool  `json:"excludeAmbiguous"`
}

func orDefault[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func (t *PasswordTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params passwordInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	opts := PasswordOptions{
		Length:           orDefault(params.Length, 16),
		Lowercase:        orDefault(params.Lowercase, true),
		Uppercase:        orDefault(params.Uppercase, true),
		Digits:           orDefault(params.Digits, true),
		Symbols:          orDefault(params.Symbols, true),
		ExcludeAmbiguous: params.ExcludeAmbiguous,
	}
	count := orDefault(params.Count, 1)
	if count < 1 || count > 100 {
		return nil, types.InvalidInput("count must be between 1 and 100")
	}

	passwords := make([]string, count)
	for i := range passwords {
		pw, err := GeneratePassword(t.rand, opts)
		if err != nil {
			return nil, err
		}
		passwords[i] = pw
	}

	bits := Entropy(opts)
	label := Strength(bits)
	return types.TextResult(strings.Join(passwords, "\n")).WithFields(map[string]any{
		"passwords": passwords,
		"entropy":   math.Round(bits*10) / 10,
		"strength":  label,
	}), nil
}

// charClasses returns the enabled character sets.
func charClasses(opts PasswordOptions) []string {
	var classes []string
	add := func(enabled bool, chars string) {
		if !enabled {
			return
		}
		if opts.ExcludeAmbiguous {
			chars = strings.Map(func(r rune) rune {
				if strings.ContainsRune(ambiguous, r) {
					return -1
				}
				return r
			}, chars)
		}
		classes = append(classes, chars)
	}
	add(opts.Lowercase, lowerChars)
	add(opts.Uppercase, upperChars)
	add(opts.Digits, digitChars)
	add(opts.Symbols, symbolChars)
	return classes
}

// GeneratePassword draws a password from r. Every enabled class appears at least once.
func GeneratePassword(r io.Reader, opts PasswordOptions) (string, error) {
	if opts.Length < 4 || opts.Length > 256 {
		return "", types.InvalidInput("length must be between 4 and 256")
	}
	classes := charClasses(opts)
	if len(classes) == 0 {
		return "", types.InvalidInput("enable at least one character class")
	}
	pool := strings.Join(classes, "")

	out := make([]byte, 0, opts.Length)
	for _, class := range classes {
		c, err := pick(r, class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < opts.Length {
		c, err := pick(r, pool)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed characters are not always first
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(r, i+1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(r io.Reader, chars string) (byte, error) {
	i, err := randInt(r, len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randInt(r io.Reader, n int) (int, error) {
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random source: %w", err)
	}
	return int(v.Int64()), nil
}

// Entropy is length * log2(pool size) in bits.
func Entropy(opts PasswordOptions) float64 {
	pool := len(strings.Join(charClasses(opts), ""))
	if pool == 0 {
		return 0
	}
	return float64(opts.Length) * math.Log2(float64(pool))
}

// Strength labels an entropy figure.
func Strength(bits float64) string {
	switch {
	case bits < 28:
		return "very weak"
	case bits < 36:
		return "weak"
	case bits < 60:
		return "fair"
	case bits < 128:
		return "strong"
	}
	return "very strong"
}
