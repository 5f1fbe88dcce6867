// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the section payloads each stage writes into the trip
// state. Every section carries the confidence it was produced with.
package model

// FlightSection is written by the flight search stage.
type FlightSection struct {
	Outbound   []FlightOption `json:"outbound"`
	Return     []FlightOption `json:"return"`
	Provider   string         `json:"provider"`
	Confidence Confidence     `json:"confidence"`
	Degraded   bool           `json:"degraded"`
}

// DestinationLodging holds the stay options for one destination.
type DestinationLodging struct {
	Country    string        `json:"country"`
	City       string        `json:"city"`
	CheckIn    Date          `json:"check_in"`
	CheckOut   Date          `json:"check_out"`
	Options    []HotelOption `json:"options"`
	Provider   string        `json:"provider"`
	Confidence Confidence    `json:"confidence"`
	Degraded   bool          `json:"degraded"`
}

// LodgingSection is written by the hotel search stage, one entry per
// destination in visiting order.
type LodgingSection struct {
	Destinations []DestinationLodging `json:"destinations"`
	Confidence   Confidence           `json:"confidence"`
}

// For returns the lodging entry for the destination at index i.
func (s LodgingSection) For(i int) (DestinationLodging, bool) {
	if i < 0 || i >= len(s.Destinations) {
		return DestinationLodging{}, false
	}
	return s.Destinations[i], true
}

// InsuranceOption is a travel medical insurance plan. CoverageEUR is zero
// when the plan's cover is unknown.
type InsuranceOption struct {
	Provider    string  `json:"provider"`
	Plan        string  `json:"plan"`
	CoverageEUR int     `json:"coverage_eur"`
	Price       float64 `json:"price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	URL         string  `json:"url,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// BudgetSection is written by the budget stage. Amounts are whole units of
// Currency; a zero maximum means the band is open-ended.
type BudgetSection struct {
	Band                BudgetBand        `json:"band"`
	Currency            string            `json:"currency"`
	PerPersonMin        int               `json:"per_person_min"`
	PerPersonMax        int               `json:"per_person_max,omitempty"`
	Travelers           int               `json:"travelers"`
	TotalMin            int               `json:"total_min"`
	TotalMax            int               `json:"total_max,omitempty"`
	Insurance           []InsuranceOption `json:"insurance"`
	InsuranceConfidence Confidence        `json:"insurance_confidence"`
	Confidence          Confidence        `json:"confidence"`
}

// DayPlan is one itinerary day.
type DayPlan struct {
	Date        Date     `json:"date"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Summary     string   `json:"summary"`
	Activities  []string `json:"activities,omitempty"`
	StayOptions []string `json:"stay_options,omitempty"`
	Transport   string   `json:"transport"`
}

// Itinerary is written by the itinerary stage.
type Itinerary struct {
	Days       []DayPlan  `json:"days"`
	Provider   string     `json:"provider,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// VisaRules is written by the visa requirements stage.
type VisaRules struct {
	VisaType          string         `json:"visa_type"`
	Schengen          bool           `json:"schengen"`
	Consulate         string         `json:"consulate"`
	MinInsuranceEUR   int            `json:"min_insurance_eur,omitempty"`
	RequiredDocuments []string       `json:"required_documents"`
	Notes             []string       `json:"notes,omitempty"`
	Sources           []SearchResult `json:"sources,omitempty"`
	Confidence        Confidence     `json:"confidence"`
}

// ChecklistItem is one line of the consulate document checklist.
type ChecklistItem struct {
	Item     string `json:"item"`
	Provided bool   `json:"provided"`
}

// DocumentKit is written by the document kit stage.
type DocumentKit struct {
	CoverLetter           string          `json:"cover_letter"`
	CoverLetterProvider   string          `json:"cover_letter_provider,omitempty"`
	CoverLetterConfidence Confidence      `json:"cover_letter_confidence"`
	Checklist             []ChecklistItem `json:"checklist"`
}

// ValidationReport is written by the validation stage.
type ValidationReport struct {
	Violations []string `json:"violations,omitempty"`
}
