// Package schedule provides the cron expression tool.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	defaultRuns = 5
	maxRuns     = 100
)

// CronTool explains when a cron expression fires
type CronTool struct {
	toolkit.Info
	now func() time.Time
}

// NewCronTool creates the cron tool
func NewCronTool() *CronTool {
	return &CronTool{
		Info: toolkit.NewInfo(
			"cron", "Cron Expression Parser",
			"Validate a cron expression (5 fields or @daily style descriptors) and list its next run times in any time zone.",
			types.CategoryDateTime, "crontab", "schedule", "next run", "job", "timer",
		),
		now: time.Now,
	}
}

func (t *CronTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"expression": toolkit.String("Cron expression: minute hour day-of-month month day-of-week, or @hourly, @daily, @weekly, @monthly, @yearly, @every 1h30m"),
		"count":      toolkit.Integer("Number of upcoming runs, 1-100. Default: 5"),
		"from":       toolkit.String("Start time in RFC 3339. Default: now"),
		"timezone":   toolkit.String("IANA time zone the schedule runs in. Default: UTC"),
	}, "expression")
}

type cronInput struct {
	Expression string `json:"expression"`
	Count      int    `json:"count"`
	From       string `json:"from"`
	Timezone   string `json:"timezone"`
}

func (t *CronTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params cronInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	count := params.Count
	if count == 0 {
		count = defaultRuns
	}
	if count < 1 || count > maxRuns {
		return nil, types.InvalidInput("count must be between 1 and %d", maxRuns)
	}
	loc := time.UTC
	if tz := strings.TrimSpace(params.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, types.WrapInput(err, "unknown timezone %q", tz)
		}
		loc = l
	}
	now := t.now()
	from := now
	if s := strings.TrimSpace(params.From); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, types.WrapInput(err, "from must be an RFC 3339 time")
		}
		from = parsed
	}

	runs, err := NextRuns(params.Expression, from.In(loc), count)
	if err != nil {
		return nil, err
	}

	formatted := make([]string, len(runs))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Next %d run(s) of %q (%s):", len(runs), strings.TrimSpace(params.Expression), loc)
	for i, r := range runs {
		formatted[i] = r.Format(time.RFC3339)
		fmt.Fprintf(&sb, "\n%s  %s", r.Format("Mon 2006-01-02 15:04:05 MST"), humanize.RelTime(r, now, "ago", "from now"))
	}
	return types.TextResult(sb.String()).WithFields(map[string]any{"runs": formatted}), nil
}

// NextRuns parses a standard cron expression and returns its next count
// activation times after from, in from's location.
func NextRuns(expr string, from time.Time, count int) ([]time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, types.InvalidInput("expression is required")
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, types.WrapInput(err, "invalid cron expression")
	}
	runs := make([]time.Time, 0, count)
	next := from
	for len(runs) < count {
		next = sched.Next(next)
		// impossible dates such as 30 February never fire
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}
	if len(runs) == 0 {
		return nil, types.InvalidInput("expression %q never fires", expr)
	}
	return runs, nil
}
