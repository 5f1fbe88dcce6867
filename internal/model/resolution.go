// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Resolution written once per run after intake: the
// primary destination and the date geometry every later stage reads.
package model

// DestinationRange is a destination with its concrete stay dates.
type DestinationRange struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	Nights   int    `json:"nights"`
	CheckIn  Date   `json:"check_in"`
	CheckOut Date   `json:"check_out"`
}

// Contains reports whether the night of day falls inside the stay.
func (r DestinationRange) Contains(day Date) bool {
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Resolution is the trip geometry derived from the request.
type Resolution struct {
	PrimaryCountry string             `json:"primary_country"`
	PrimaryCity    string             `json:"primary_city"`
	Ambiguous      bool               `json:"ambiguous"`
	Tied           []string           `json:"tied,omitempty"`
	Start          Date               `json:"start"`
	End            Date               `json:"end"`
	TotalNights    int                `json:"total_nights"`
	Ranges         []DestinationRange `json:"ranges"`
}

// RangeFor returns the destination whose stay covers day. The end date belongs
// to the last destination (departure day).
func (r Resolution) RangeFor(day Date) (DestinationRange, bool) {
	for _, rng := range r.Ranges {
		if rng.Contains(day) {
			return rng, true
		}
	}
	if len(r.Ranges) > 0 && day.Equal(r.End) {
		return r.Ranges[len(r.Ranges)-1], true
	}
	return DestinationRange{}, false
}
