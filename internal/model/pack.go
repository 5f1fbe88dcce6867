// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the TravelPack, the assembled output of a run.
package model

import "time"

// PrimaryDestination describes which destination the application is lodged
// with and whether that choice was a tie-break.
type PrimaryDestination struct {
	Country   string   `json:"country"`
	City      string   `json:"city"`
	Ambiguous bool     `json:"ambiguous"`
	Tied      []string `json:"tied,omitempty"`
}

// TravelPack is the visa-ready pack returned to the caller.
type TravelPack struct {
	RunID        string                    `json:"run_id"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	Status       PackStatus                `json:"status"`
	Primary      PrimaryDestination        `json:"primary"`
	Start        Date                      `json:"start"`
	End          Date                      `json:"end"`
	TotalNights  int                       `json:"total_nights"`
	Destinations []DestinationRange        `json:"destinations"`
	Travelers    []Traveler                `json:"travelers"`
	Purpose      string                    `json:"purpose"`
	Flights      FlightSection             `json:"flights"`
	Lodging      LodgingSection            `json:"lodging"`
	Budget       BudgetSection             `json:"budget"`
	Itinerary    Itinerary                 `json:"itinerary"`
	Visa         VisaRules                 `json:"visa"`
	Documents    DocumentKit               `json:"documents"`
	Stages       map[StageName]StageStatus `json:"stages"`
	Violations   []string                  `json:"violations,omitempty"`
	Diagnostics  []ProviderCall            `json:"diagnostics,omitempty"`
}
