package text

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const wordsPerMinute = 200

// StatsTool counts characters, words, lines and more
type StatsTool struct {
	toolkit.Info
}

// NewStatsTool creates the text-stats tool
func NewStatsTool() *StatsTool {
	return &StatsTool{Info: toolkit.NewInfo(
		"text-stats", "Text Statistics",
		"Count characters, words, lines, sentences and paragraphs, with reading time and most frequent words.",
		types.CategoryText, "count", "word count", "characters", "reading time",
	)}
}

func (t *StatsTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text": toolkit.String("Text to analyse"),
	}, "text")
}

type statsInput struct {
	Text string `json:"text"`
}

// WordCount is a word and how often it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Stats summarises a text.
type Stats struct {
	Characters         int         `json:"characters"`
	CharactersNoSpaces int         `json:"charactersNoSpaces"`
	Bytes              int         `json:"bytes"`
	Words              int         `json:"words"`
	Lines              int         `json:"lines"`
	Sentences          int         `json:"sentences"`
	Paragraphs         int         `json:"paragraphs"`
	ReadingSeconds     int         `json:"readingSeconds"`
	TopWords           []WordCount `json:"topWords"`
}

func (t *StatsTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params statsInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	s := Analyze(params.Text)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Characters:            %d\n", s.Characters)
	fmt.Fprintf(&sb, "Characters (no space): %d\n", s.CharactersNoSpaces)
	fmt.Fprintf(&sb, "Bytes:                 %d\n", s.Bytes)
	fmt.Fprintf(&sb, "Words:                 %d\n", s.Words)
	fmt.Fprintf(&sb, "Lines:                 %d\n", s.Lines)
	fmt.Fprintf(&sb, "Sentences:             %d\n", s.Sentences)
	fmt.Fprintf(&sb, "Paragraphs:            %d\n", s.Paragraphs)
	fmt.Fprintf(&sb, "Reading time:          %s", readingTime(s.ReadingSeconds))
	if len(s.TopWords) > 0 {
		sb.WriteString("\nTop words:")
		for _, w := range s.TopWords {
			fmt.Fprintf(&sb, "\n  %-15s %d", w.Word, w.Count)
		}
	}
	return types.TextResult(sb.String()).WithFields(map[string]any{"stats": s}), nil
}

// Analyze computes the statistics of text.
func Analyze(text string) Stats {
	s := Stats{
		Characters: utf8.RuneCountInString(text),
		Bytes:      len(text),
		Lines:      len(SplitLines(text)),
	}
	for _, r := range text {
		if !unicode.IsSpace(r) {
			s.CharactersNoSpaces++
		}
	}

	fields := strings.Fields(text)
	s.Words = len(fields)
	s.ReadingSeconds = int(math.Ceil(float64(s.Words) * 60 / wordsPerMinute))

	inSentence := false
	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			if inSentence {
				s.Sentences++
				inSentence = false
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			inSentence = true
		}
	}
	if inSentence {
		s.Sentences++
	}

	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(p) != "" {
			s.Paragraphs++
		}
	}

	s.TopWords = topWords(fields, 5)
	return s
}

func topWords(fields []string, n int) []WordCount {
	counts := map[string]int{}
	for _, f := range fields {
		w := strings.ToLower(strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if w != "" {
			counts[w]++
		}
	}
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func readingTime(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d sec", seconds)
	}
	return fmt.Sprintf("%d min %d sec", seconds/60, seconds%60)
}
