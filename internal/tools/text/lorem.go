package text

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	loremOpening = "Lorem ipsum dolor sit amet, consectetur adipiscing elit"
	maxLorem     = 100
)

var loremWords = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis nostrud exercitation
ullamco laboris nisi aliquip ex ea commodo consequat duis aute irure in reprehenderit voluptate velit
esse cillum eu fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa qui
officia deserunt mollit anim id est laborum curabitur pretium tincidunt lacus nulla gravida orci a
odio nullam varius turpis et commodo pharetra est eros bibendum elit nec luctus magna felis
sollicitudin mauris integer in mauris eu nibh euismod gravida`)

// LoremTool generates placeholder text
type LoremTool struct {
	toolkit.Info
	intn func(n int) int
}

// NewLoremTool creates the lorem-ipsum tool
func NewLoremTool() *LoremTool {
	return &LoremTool{
		Info: toolkit.NewInfo(
			"lorem-ipsum", "Lorem Ipsum Generator",
			"Generate placeholder text as paragraphs, sentences or words.",
			types.CategoryText, "placeholder", "dummy text", "filler",
		),
		intn: rand.IntN,
	}
}

func (t *LoremTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"unit":           toolkit.Enum("What to count. Default: paragraphs", "paragraphs", "sentences", "words"),
		"count":          toolkit.Integer("How many units, 1-100. Default: 3"),
		"startWithLorem": toolkit.Bool("Begin with \"Lorem ipsum dolor sit amet...\". Default: true"),
	})
}

type loremInput struct {
	Unit           string `json:"unit"`
	Count          *int   `json:"count"`
	StartWithLorem *bool  `json:"startWithLorem"`
}

func (t *LoremTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params loremInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	unit, err := toolkit.Mode(params.Unit, "paragraphs", "paragraphs", "sentences", "words")
	if err != nil {
		return nil, err
	}
	count := 3
	if params.Count != nil {
		count = *params.Count
	}
	if count < 1 || count > maxLorem {
		return nil, types.InvalidInput("count must be between 1 and %d", maxLorem)
	}
	lorem := params.StartWithLorem == nil || *params.StartWithLorem

	return types.TextResult(t.Generate(unit, count, lorem)), nil
}

// Generate produces count paragraphs, sentences or words.
func (t *LoremTool) Generate(unit string, count int, startWithLorem bool) string {
	switch unit {
	case "words":
		words := make([]string, count)
		for i := range words {
			words[i] = loremWords[t.intn(len(loremWords))]
		}
		if startWithLorem {
			opening := strings.Fields(strings.ToLower(strings.ReplaceAll(loremOpening, ",", "")))
			copy(words, opening)
		}
		return strings.Join(words, " ")
	case "sentences":
		return strings.Join(t.sentences(count, startWithLorem), " ")
	}

	paras := make([]string, count)
	for i := range paras {
		paras[i] = strings.Join(t.sentences(4+t.intn(4), startWithLorem && i == 0), " ")
	}
	return strings.Join(paras, "\n\n")
}

func (t *LoremTool) sentences(n int, startWithLorem bool) []string {
	out := make([]string, n)
	for i := range out {
		if i == 0 && startWithLorem {
			out[i] = loremOpening + "."
			continue
		}
		words := make([]string, 6+t.intn(10))
		for j := range words {
			words[j] = loremWords[t.intn(len(loremWords))]
		}
		if len(words) > 6 {
			words[len(words)/2] += ","
		}
		out[i] = capitalize(strings.Join(words, " ")) + "."
	}
	return out
}
