package text

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// SlugTool makes URL slugs
type SlugTool struct {
	toolkit.Info
}

// NewSlugTool creates the slugify tool
func NewSlugTool() *SlugTool {
	return &SlugTool{Info: toolkit.NewInfo(
		"slugify", "Slug Generator",
		"Turn a title into a URL-friendly slug: lower-case, accents removed, words joined by a separator.",
		types.CategoryText, "slug", "url", "permalink", "seo",
	)}
}

func (t *SlugTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text":      toolkit.String("Text to slugify"),
		"separator": toolkit.String("Word separator. Default: -"),
		"maxLength": toolkit.Integer("Truncate the slug at a word boundary to at most this many characters (0 = no limit)"),
	}, "text")
}

type slugInput struct {
	Text      string  `json:"text"`
	Separator *string `json:"separator"`
	MaxLength int     `json:"maxLength"`
}

func (t *SlugTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params slugInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	sep := "-"
	if params.Separator != nil {
		sep = *params.Separator
	}
	if params.MaxLength < 0 {
		return nil, types.InvalidInput("maxLength must not be negative")
	}
	return types.TextResult(Slugify(params.Text, sep, params.MaxLength)), nil
}

// RemoveDiacritics strips combining marks after canonical decomposition ("café" -> "cafe").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify lower-cases s, removes diacritics and joins the remaining
// alphanumeric runs with sep. maxLength > 0 truncates at a word boundary.
func Slugify(s, sep string, maxLength int) string {
	s = strings.ToLower(RemoveDiacritics(s))
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, w := range words {
		next := len(w)
		if sb.Len() > 0 {
			next += len(sep)
		}
		if maxLength > 0 && sb.Len()+next > maxLength {
			if sb.Len() == 0 {
				cut := w[:maxLength]
				for !utf8.ValidString(cut) {
					cut = cut[:len(cut)-1]
				}
				sb.WriteString(cut)
			}
			break
		}
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(w)
	}
	return sb.String()
}
