package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tool categories in display order.
const (
	CategoryEncoding    = "encoding"
	CategoryJSON        = "json"
	CategoryText        = "text"
	CategoryCrypto      = "crypto"
	CategoryGenerators  = "generators"
	CategoryConverters  = "converters"
	CategoryCalculators = "calculators"
	CategoryMarkup      = "markup"
	CategoryDateTime    = "datetime"
	CategoryFiles       = "files"
)

// Categories lists every category in display order.
var Categories = []string{
	CategoryEncoding,
	CategoryJSON,
	CategoryText,
	CategoryCrypto,
	CategoryGenerators,
	CategoryConverters,
	CategoryCalculators,
	CategoryMarkup,
	CategoryDateTime,
	CategoryFiles,
}

// CategoryIndex returns the display position of a category, unknown ones sort last.
func CategoryIndex(category string) int {
	for i, c := range Categories {
		if c == category {
			return i
		}
	}
	return len(Categories)
}

// Metadata is the static catalog record of a tool.
type Metadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords,omitempty"`
	Path        string   `json:"path"`
}

// NewMetadata fills in the path from the id.
func NewMetadata(id, name, description, category string, keywords ...string) Metadata {
	return Metadata{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Keywords:    keywords,
		Path:        "/tools/" + id,
	}
}

// ToolDefinition describes a tool and its input schema for API consumers.
type ToolDefinition struct {
	Metadata
	InputSchema map[string]any `json:"input_schema"`
}

// InputError marks a failure the user can fix by editing the input.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// InvalidInput creates an InputError with a printf-style message.
func InvalidInput(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// WrapInput wraps a parse error as an InputError.
func WrapInput(err error, format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// DecodeInput unmarshals a tool's JSON input, reporting failures as input errors.
// An empty input decodes as an empty object.
func DecodeInput(input json.RawMessage, v any) error {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	if err := json.Unmarshal(input, v); err != nil {
		return WrapInput(err, "invalid input")
	}
	return nil
}
