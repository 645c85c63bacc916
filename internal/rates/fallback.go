package rates

import "time"

// fallbackValues are approximate USD-based rates used when the live fetch fails.
var fallbackValues = map[string]float64{
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"CNY": 7.24,
	"INR": 83.12,
	"AUD": 1.52,
	"CAD": 1.36,
	"CHF": 0.88,
	"HKD": 7.82,
	"SGD": 1.34,
	"SEK": 10.45,
	"NOK": 10.60,
	"DKK": 6.87,
	"NZD": 1.64,
	"ZAR": 18.70,
	"BRL": 4.97,
	"MXN": 17.10,
	"KRW": 1325.00,
	"TRY": 30.20,
	"PLN": 3.98,
	"CZK": 22.80,
	"HUF": 355.00,
	"ILS": 3.65,
	"THB": 35.40,
	"IDR": 15600.00,
	"MYR": 4.70,
	"PHP": 55.90,
	"ISK": 137.00,
	"RON": 4.57,
	"BGN": 1.80,
}

// Fallback returns the static rate table.
func Fallback(reason string) *Rates {
	values := make(map[string]float64, len(fallbackValues))
	for k, v := range fallbackValues {
		values[k] = v
	}
	return &Rates{
		Base:           Base,
		Values:         values,
		Live:           false,
		FetchedAt:      time.Now(),
		FallbackReason: reason,
	}
}
