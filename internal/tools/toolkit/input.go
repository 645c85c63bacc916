package toolkit

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/paths"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// MaxFileBytes bounds files read by tools.
const MaxFileBytes = 32 << 20

// ReadFile reads a user-supplied file path (with ~ expansion), enforcing MaxFileBytes.
// Failures are input errors: the user named a file that cannot be used.
func ReadFile(path string) ([]byte, error) {
	expanded, err := paths.ExpandTilde(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return nil, types.WrapInput(err, "cannot read %s", path)
	}
	if info.IsDir() {
		return nil, types.InvalidInput("%s is a directory", path)
	}
	if info.Size() > MaxFileBytes {
		return nil, types.InvalidInput("%s is too large (%d bytes, limit %d)", path, info.Size(), MaxFileBytes)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Mode normalizes a mode/direction field, applying a default and checking it against allowed.
func Mode(value, def string, allowed ...string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		v = def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a, nil
		}
	}
	return "", types.InvalidInput("unsupported mode %q (want one of: %s)", value, strings.Join(allowed, ", "))
}

// Finite rejects NaN and infinite values, which JSON cannot carry. what names
// the quantity in the error.
func Finite(what string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.InvalidInput("%s is out of range", what)
		}
	}
	return nil
}
