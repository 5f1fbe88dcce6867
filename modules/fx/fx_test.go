package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBase(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount   float64
		currency string
		want     float64
	}{
		{amount: 1000, currency: "INR", want: 1000},
		{amount: 100, currency: "eur", want: 9000},
		{amount: 100, currency: "USD", want: 8300},
		{amount: 100, currency: "JPY", want: 8500},
		{amount: 42, currency: "", want: 42},
	}
	for _, tc := range testCases {
		assert.InDelta(t, tc.want, ToBase(tc.amount, tc.currency), 0.001, "%g %s", tc.amount, tc.currency)
	}
}
