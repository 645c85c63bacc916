package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// unix values above this are taken as milliseconds (year 33658 in seconds)
const millisThreshold = 1e12

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
	time.RFC822Z,
	time.RFC822,
}

// TimestampTool converts between unix timestamps and date strings
type TimestampTool struct {
	toolkit.Info
	now func() time.Time
}

// NewTimestampTool creates the timestamp tool
func NewTimestampTool() *TimestampTool {
	return &TimestampTool{
		Info: toolkit.NewInfo(
			"timestamp", "Timestamp Converter",
			"Convert unix timestamps (seconds or milliseconds) and date strings to every common format, in any time zone.",
			types.CategoryConverters, "unix", "epoch", "date", "time", "rfc3339", "timezone",
		),
		now: time.Now,
	}
}

func (t *TimestampTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"value":    toolkit.String("Unix seconds or milliseconds, or a date string (RFC 3339, RFC 1123, 2006-01-02 ...). Default: now"),
		"timezone": toolkit.String("IANA time zone for the output, e.g. Europe/Berlin. Default: UTC"),
	})
}

type timestampInput struct {
	Value    json.RawMessage `json:"value"`
	Timezone string          `json:"timezone"`
}

// TimestampInfo is a moment in the common representations.
type TimestampInfo struct {
	Unix      int64  `json:"unix"`
	UnixMilli int64  `json:"unixMilli"`
	RFC3339   string `json:"rfc3339"`
	RFC1123   string `json:"rfc1123"`
	ISODate   string `json:"isoDate"`
	Timezone  string `json:"timezone"`
	Relative  string `json:"relative"`
}

func (t *TimestampTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params timestampInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	loc := time.UTC
	if tz := strings.TrimSpace(params.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, types.WrapInput(err, "unknown timezone %q", tz)
		}
		loc = l
	}

	raw := strings.TrimSpace(string(params.Value))
	var value string
	if raw != "" && raw != "null" {
		if err := json.Unmarshal(params.Value, &value); err != nil {
			// a bare JSON number
			value = raw
		}
	}

	now := t.now()
	ts := now
	if strings.TrimSpace(value) != "" {
		parsed, err := ParseTimestamp(value, loc)
		if err != nil {
			return nil, err
		}
		ts = parsed
	}
	info := Describe(ts, loc, now)

	text := fmt.Sprintf("Unix:     %d\nMillis:   %d\nRFC 3339: %s\nRFC 1123: %s\nDate:     %s\nRelative: %s",
		info.Unix, info.UnixMilli, info.RFC3339, info.RFC1123, info.ISODate, info.Relative)
	return types.TextResult(text).WithFields(map[string]any{"timestamp": info}), nil
}

// ParseTimestamp parses unix seconds, unix milliseconds (auto-detected by
// magnitude) or a date string. Strings without a zone are read in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		if n > millisThreshold || n < -millisThreshold {
			return time.UnixMilli(int64(n)).In(loc), nil
		}
		sec := int64(n)
		nsec := int64((n - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, types.InvalidInput("cannot parse %q as a timestamp or date", value)
}

// Describe renders ts in loc, with a relative description against now.
func Describe(ts time.Time, loc *time.Location, now time.Time) TimestampInfo {
	ts = ts.In(loc)
	return TimestampInfo{
		Unix:      ts.Unix(),
		UnixMilli: ts.UnixMilli(),
		RFC3339:   ts.Format(time.RFC3339),
		RFC1123:   ts.Format(time.RFC1123),
		ISODate:   ts.Format("2006-01-02"),
		Timezone:  loc.String(),
		Relative:  humanize.RelTime(ts, now, "ago", "from now"),
	}
}
