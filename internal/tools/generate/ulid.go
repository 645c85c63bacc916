package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// ULIDTool generates and decodes ULIDs
type ULIDTool struct {
	toolkit.Info
}

// NewULIDTool creates the ulid tool
func NewULIDTool() *ULIDTool {
	return &ULIDTool{Info: toolkit.NewInfo(
		"ulid", "ULID Generator",
		"Generate lexicographically sortable ULIDs, or decode the timestamp of an existing one.",
		types.CategoryGenerators, "sortable", "unique id", "identifier", "timestamp",
	)}
}

func (t *ULIDTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":      toolkit.Enum("Operation. Default: generate", "generate", "decode"),
		"count":     toolkit.Integer("How many, 1-100. Default: 1"),
		"lowercase": toolkit.Bool("Lower-case output"),
		"value":     toolkit.String("ULID to decode"),
	})
}

type ulidInput struct {
	Mode      string `json:"mode"`
	Count     *int   `json:"count"`
	Lowercase bool   `json:"lowercase"`
	Value     string `json:"value"`
}

func (t *ULIDTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params ulidInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "generate", "generate", "decode")
	if err != nil {
		return nil, err
	}

	if mode == "decode" {
		id, ts, err := DecodeULID(params.Value)
		if err != nil {
			return nil, err
		}
		return types.TextResult(fmt.Sprintf("%s\ntimestamp: %s", id, ts.Format(time.RFC3339Nano))).
			WithFields(map[string]any{"ulid": id.String(), "timestamp": ts.UnixMilli()}), nil
	}

	count := orDefault(params.Count, 1)
	if count < 1 || count > 100 {
		return nil, types.InvalidInput("count must be between 1 and 100")
	}
	ids := GenerateULIDs(count)
	if params.Lowercase {
		for i := range ids {
			ids[i] = strings.ToLower(ids[i])
		}
	}
	return types.TextResult(strings.Join(ids, "\n")).WithFields(map[string]any{"ulids": ids}), nil
}

// GenerateULIDs returns count ULIDs in strictly increasing order.
// ulid.Make draws from a process-wide monotonic entropy source.
func GenerateULIDs(count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = ulid.Make().String()
	}
	return out
}

// DecodeULID parses a ULID (case-insensitive) and returns its embedded time in UTC.
func DecodeULID(s string) (ulid.ULID, time.Time, error) {
	id, err := ulid.ParseStrict(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return ulid.ULID{}, time.Time{}, types.WrapInput(err, "invalid ULID")
	}
	return id, ulid.Time(id.Time()).UTC(), nil
}
