// Package calc holds the calculator tools: loan EMI, BMI, daily calories,
// percentages and age.
package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const maxTenureMonths = 1200

// Installment is one row of an amortization schedule.
type Installment struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Loan is the result of an EMI calculation.
type Loan struct {
	EMI           float64       `json:"emi"`
	TotalPayment  float64       `json:"totalPayment"`
	TotalInterest float64       `json:"totalInterest"`
	Schedule      []Installment `json:"schedule,omitempty"`
}

// EMITool calculates equated monthly installments
type EMITool struct {
	toolkit.Info
}

// NewEMITool creates the emi tool
func NewEMITool() *EMITool {
	return &EMITool{Info: toolkit.NewInfo(
		"emi", "EMI Calculator",
		"Calculate the monthly installment, total interest and amortization schedule of a loan.",
		types.CategoryCalculators, "loan", "mortgage", "installment", "interest", "amortization",
	)}
}

func (t *EMITool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"principal":    toolkit.Number("Loan amount"),
		"annualRate":   toolkit.Number("Annual interest rate in percent, e.g. 10.5"),
		"tenureMonths": toolkit.Integer("Loan term in months"),
		"schedule":     toolkit.Bool("Include the month-by-month amortization schedule"),
	}, "principal", "annualRate", "tenureMonths")
}

type emiInput struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	TenureMonths int     `json:"tenureMonths"`
	Schedule     bool    `json:"schedule"`
}

func (t *EMITool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params emiInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	loan, err := CalculateEMI(params.Principal, params.AnnualRate, params.TenureMonths, params.Schedule)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Monthly EMI:    %s\n", money(loan.EMI))
	fmt.Fprintf(&sb, "Total interest: %s\n", money(loan.TotalInterest))
	fmt.Fprintf(&sb, "Total payment:  %s", money(loan.TotalPayment))
	if params.Schedule {
		fmt.Fprintf(&sb, "\n\n%5s %12s %12s %12s %14s", "Month", "Payment", "Principal", "Interest", "Balance")
		for _, row := range loan.Schedule {
			fmt.Fprintf(&sb, "\n%5d %12s %12s %12s %14s", row.Month, money(row.Payment), money(row.Principal), money(row.Interest), money(row.Balance))
		}
	}
	return types.TextResult(sb.String()).WithFields(map[string]any{"loan": loan}), nil
}

// CalculateEMI computes EMI = P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly
// rate. A zero rate divides the principal evenly.
func CalculateEMI(principal, annualRate float64, months int, schedule bool) (*Loan, error) {
	if principal <= 0 || math.IsInf(principal, 0) || math.IsNaN(principal) {
		return nil, types.InvalidInput("principal must be a positive number")
	}
	if !(annualRate >= 0 && annualRate <= 100) {
		return nil, types.InvalidInput("annual rate must be between 0 and 100 percent")
	}
	if months < 1 || months > maxTenureMonths {
		return nil, types.InvalidInput("tenure must be between 1 and %d months", maxTenureMonths)
	}

	r := annualRate / 12 / 100
	n := float64(months)
	// P*r / (1 - (1+r)^-n), with the denominator taken through Expm1/Log1p so
	// small rates keep their precision. Never below an even split.
	emi := evenSplit(principal, n)
	if denom := -math.Expm1(-n * math.Log1p(r)); denom > 0 {
		emi = max(emi, principal*r/denom)
	}

	loan := &Loan{
		EMI:           emi,
		TotalPayment:  emi * n,
		TotalInterest: emi*n - principal,
	}
	if err := toolkit.Finite("loan payment", loan.EMI, loan.TotalPayment); err != nil {
		return nil, err
	}
	if schedule {
		balance := principal
		loan.Schedule = make([]Installment, 0, months)
		for m := 1; m <= months; m++ {
			interest := balance * r
			paid := emi - interest
			balance -= paid
			if m == months || math.Abs(balance) < 1e-6 {
				balance = 0
			}
			loan.Schedule = append(loan.Schedule, Installment{
				Month:     m,
				Payment:   round(emi, 2),
				Principal: round(paid, 2),
				Interest:  round(interest, 2),
				Balance:   round(balance, 2),
			})
		}
	}
	return loan, nil
}

// evenSplit is principal/n rounded up to the next float where needed so that
// n payments always cover the principal.
func evenSplit(principal, n float64) float64 {
	share := principal / n
	for share*n < principal {
		share = math.Nextafter(share, math.Inf(1))
	}
	return share
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	scaled := v * p
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / p
}

func money(v float64) string {
	return humanize.CommafWithDigits(round(v, 2), 2)
}
