// Package fx converts provider prices into the currency packs are quoted in.
package fx

import "strings"

// Base is the currency every pack amount is expressed in.
const Base = "INR"

// fallbackRate applies to currencies without a listed rate.
const fallbackRate = 85.0

var ratesToBase = map[string]float64{
	"INR": 1,
	"EUR": 90,
	"USD": 83,
	"GBP": 105,
	"CHF": 94,
}

// ToBase converts amount from currency into Base using static reference
// rates. An empty currency is assumed to be Base already.
func ToBase(amount float64, currency string) float64 {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return amount
	}
	rate, ok := ratesToBase[code]
	if !ok {
		rate = fallbackRate
	}
	return amount * rate
}
