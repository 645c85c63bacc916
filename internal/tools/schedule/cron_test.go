package schedule

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func TestNextRuns(t *testing.T) {
	from := time.Date(2026, 10, 19, 10, 7, 0, 0, time.UTC)
	tests := []struct {
		expr string
		want []string
	}{
		{"*/15 * * * *", []string{"2026-10-19T10:15:00Z", "2026-10-19T10:30:00Z", "2026-10-19T10:45:00Z"}},
		{"0 9 * * 1-5", []string{"2026-10-20T09:00:00Z", "2026-10-21T09:00:00Z", "2026-10-22T09:00:00Z"}},
		{"@daily", []string{"2026-10-20T00:00:00Z", "2026-10-21T00:00:00Z", "2026-10-22T00:00:00Z"}},
		{"@every 90m", []string{"2026-10-19T11:37:00Z", "2026-10-19T13:07:00Z", "2026-10-19T14:37:00Z"}},
	}
	for _, tt := range tests {
		runs, err := NextRuns(tt.expr, from, 3)
		if err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		got := make([]string, len(runs))
		for i, r := range runs {
			got[i] = r.Format(time.RFC3339)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.expr, diff)
		}
	}
}

func TestNextRunsErrors(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, expr := range []string{"", "* * *", "61 * * * *", "0 0 30 2 *"} {
		if _, err := NextRuns(expr, from, 1); !types.IsInputError(err) {
			t.Errorf("%q: expected InputError, got %v", expr, err)
		}
	}
}

func TestCronToolTimezone(t *testing.T) {
	tool := NewCronTool()
	tool.now = func() time.Time { return time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC) }

	res, err := tool.Execute(context.Background(), json.RawMessage(`{"expression":"30 8 * * *","count":2,"timezone":"Africa/Johannesburg"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2026-10-19T08:30:00+02:00", "2026-10-20T08:30:00+02:00"}
	if diff := cmp.Diff(want, res.Fields["runs"]); diff != "" {
		t.Errorf("runs (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.GetText(), "30 minutes from now") {
		t.Errorf("text lacks relative time: %q", res.GetText())
	}

	res, err = tool.Execute(context.Background(), json.RawMessage(`{"expression":"0 0 1 1 *","from":"2030-06-01T00:00:00Z","count":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2031-01-01T00:00:00Z"}, res.Fields["runs"]); diff != "" {
		t.Errorf("from override (-want +got):\n%s", diff)
	}

	for _, in := range []string{`{"expression":"@daily","count":0,"timezone":"Nowhere/Land"}`, `{"expression":"@daily","count":101}`, `{"expression":"@daily","from":"tomorrow"}`} {
		if _, err := tool.Execute(context.Background(), json.RawMessage(in)); !types.IsInputError(err) {
			t.Errorf("%s: expected InputError, got %v", in, err)
		}
	}
}
