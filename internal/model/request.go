// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the TripRequest, the structured input of a pack run, and
// the normalized Intake record the intake stage derives from it.
package model

import "strings"

// BudgetBand is the coarse spending band a traveler picks for the trip.
type BudgetBand string

const (
	BudgetLow    BudgetBand = "low"
	BudgetMedium BudgetBand = "medium"
	BudgetHigh   BudgetBand = "high"
)

// Valid reports whether b is one of the known bands.
func (b BudgetBand) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// Destination is one leg of the trip, in visiting order.
type Destination struct {
	Country string `json:"country" yaml:"country"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Nights  int    `json:"nights" yaml:"nights"`
}

// Traveler is a member of the travelling party.
type Traveler struct {
	Name             string `json:"name" yaml:"name"`
	Nationality      string `json:"nationality,omitempty" yaml:"nationality,omitempty"`
	ResidenceCountry string `json:"residence_country,omitempty" yaml:"residence_country,omitempty"`
}

// PrimaryOverride lets the caller pin the primary destination explicitly.
type PrimaryOverride struct {
	Country string `json:"country" yaml:"country"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
}

// TripRequest is the caller's description of the trip.
type TripRequest struct {
	Nationality      string           `json:"nationality" yaml:"nationality"`
	ResidenceCountry string           `json:"residence_country" yaml:"residence_country"`
	DepartureCity    string           `json:"departure_city" yaml:"departure_city"`
	DepartureAirport string           `json:"departure_airport,omitempty" yaml:"departure_airport,omitempty"`
	Destinations     []Destination    `json:"destinations" yaml:"destinations"`
	StartDate        Date             `json:"start_date" yaml:"start_date"`
	Travelers        []Traveler       `json:"travelers" yaml:"travelers"`
	Theme            string           `json:"theme,omitempty" yaml:"theme,omitempty"`
	Purpose          string           `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	BudgetBand       BudgetBand       `json:"budget_band,omitempty" yaml:"budget_band,omitempty"`
	PrimaryOverride  *PrimaryOverride `json:"primary_override,omitempty" yaml:"primary_override,omitempty"`
	Notes            string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Countries returns the destination countries in visiting order, including
// repeats.
func (r TripRequest) Countries() []string {
	out := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		out = append(out, d.Country)
	}
	return out
}

// TravelerNames returns the travelers' names joined for prose, e.g.
// "Asha Rao and Vikram Rao".
func (r TripRequest) TravelerNames() string {
	names := make([]string, 0, len(r.Travelers))
	for _, t := range r.Travelers {
		names = append(names, t.Name)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// Intake is the normalized request written by the intake stage.
type Intake struct {
	Request       TripRequest `json:"request"`
	DepartureIATA string      `json:"departure_iata"`
}
