package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roelfdiedericks/devkit/internal/rates"
	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// CurrencyTool converts amounts between currencies
type CurrencyTool struct {
	toolkit.Info
	source rates.Source
}

// NewCurrencyTool creates the currency tool. A nil source always uses the
// static fallback table.
func NewCurrencyTool(source rates.Source) *CurrencyTool {
	return &CurrencyTool{
		Info: toolkit.NewInfo(
			"currency", "Currency Converter",
			"Convert amounts between currencies using live exchange rates, or a built-in table when offline.",
			types.CategoryConverters, "money", "exchange rate", "forex", "usd", "eur", "zar",
		),
		source: source,
	}
}

func (t *CurrencyTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"amount": toolkit.Number("Amount to convert"),
		"from":   toolkit.String("ISO 4217 code of the amount, e.g. USD"),
		"to":     toolkit.String("ISO 4217 target code, e.g. EUR"),
	}, "amount", "from", "to")
}

type currencyInput struct {
	Amount *float64 `json:"amount"`
	From   string   `json:"from"`
	To     string   `json:"to"`
}

func (t *CurrencyTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params currencyInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if params.Amount == nil {
		return nil, types.InvalidInput("amount is required")
	}
	if *params.Amount < 0 || math.IsInf(*params.Amount, 0) {
		return nil, types.InvalidInput("amount must be a non-negative number")
	}
	from := strings.ToUpper(strings.TrimSpace(params.From))
	to := strings.ToUpper(strings.TrimSpace(params.To))
	if from == "" || to == "" {
		return nil, types.InvalidInput("from and to are required")
	}

	var table *rates.Rates
	if t.source != nil {
		table = t.source.Latest(ctx)
	} else {
		table = rates.Fallback("live rates disabled")
	}

	out, err := table.Convert(*params.Amount, from, to)
	if err != nil {
		return nil, types.WrapInput(err, "cannot convert %s to %s (supported: %s)", from, to, strings.Join(table.Currencies(), ", "))
	}
	if err := toolkit.Finite("converted amount", out); err != nil {
		return nil, err
	}
	rate, _ := table.Convert(1, from, to)

	note := "live rates"
	if table.Date != "" {
		note += " of " + table.Date
	}
	if !table.Live {
		note = "offline fallback rates"
		if table.FallbackReason != "" {
			note += " (" + table.FallbackReason + ")"
		}
	}
	text := fmt.Sprintf("%s %s = %s %s\n1 %s = %s %s\nUsing %s",
		humanize.CommafWithDigits(*params.Amount, 2), from,
		humanize.CommafWithDigits(out, 2), to,
		from, FormatNumber(rate), to, note)
	return types.TextResult(text).WithFields(map[string]any{
		"result": out,
		"rate":   rate,
		"live":   table.Live,
		"date":   table.Date,
	}), nil
}
