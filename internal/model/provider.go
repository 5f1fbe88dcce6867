// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the provider-facing vocabulary: capabilities, the query a
// stage sends for each capability, the payload a provider returns, and the
// ProviderCall diagnostic record.
package model

import (
	"strings"
	"time"
)

// Capability is a category of external provider.
type Capability string

const (
	CapabilityFlight     Capability = "flight"
	CapabilityLodging    Capability = "lodging"
	CapabilityWebSearch  Capability = "websearch"
	CapabilityGeneration Capability = "generation"
)

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{CapabilityFlight, CapabilityLodging, CapabilityWebSearch, CapabilityGeneration}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	for _, known := range Capabilities {
		if c == known {
			return true
		}
	}
	return false
}

// Outcome classifies one provider attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeEmpty   Outcome = "empty"
	OutcomeError   Outcome = "error"
	OutcomeTimeout Outcome = "timeout"
)

// Confidence tags a section with how much it can be trusted.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// ProviderCall records a single attempt against a provider.
type ProviderCall struct {
	Capability Capability    `json:"capability"`
	Attempt    int           `json:"attempt"`
	Provider   string        `json:"provider"`
	Outcome    Outcome       `json:"outcome"`
	Latency    time.Duration `json:"latency_ns"`
	Error      string        `json:"error,omitempty"`
}

// FlightQuery asks a flight provider for round-trip fares.
type FlightQuery struct {
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	ReturnOrigin string     `json:"return_origin"`
	DepartDate   Date       `json:"depart_date"`
	ReturnDate   Date       `json:"return_date"`
	Adults       int        `json:"adults"`
	Band         BudgetBand `json:"band"`
}

// LodgingQuery asks a lodging provider for stays in one city.
type LodgingQuery struct {
	Country  string     `json:"country"`
	City     string     `json:"city"`
	CheckIn  Date       `json:"check_in"`
	CheckOut Date       `json:"check_out"`
	Adults   int        `json:"adults"`
	Band     BudgetBand `json:"band"`
}

// Nights is the length of the stay.
func (q LodgingQuery) Nights() int { return q.CheckIn.DaysUntil(q.CheckOut) }

// SearchQuery asks a web search provider for documents.
type SearchQuery struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// GenerationRequest asks a text generation provider for a completion.
type GenerationRequest struct {
	System    string `json:"system"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// Direction distinguishes outbound from return flights.
type Direction string

const (
	Outbound Direction = "outbound"
	Return   Direction = "return"
)

// FlightOption is a single fare.
type FlightOption struct {
	Direction    Direction `json:"direction"`
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number,omitempty"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	DepartAt     string    `json:"depart_at"`
	ArriveAt     string    `json:"arrive_at,omitempty"`
	Stops        int       `json:"stops"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	BookingURL   string    `json:"booking_url,omitempty"`
}

// FlightOptions is the flight capability payload.
type FlightOptions []FlightOption

func (o FlightOptions) IsEmpty() bool { return len(o) == 0 }

// Completeness is the share of options with an airline, a departure time and a
// positive price.
func (o FlightOptions) Completeness() float64 {
	return share(len(o), func(i int) bool {
		f := o[i]
		return f.Airline != "" && f.DepartAt != "" && f.Price > 0
	})
}

// HotelOption is a single stay.
type HotelOption struct {
	Name          string  `json:"name"`
	City          string  `json:"city"`
	Address       string  `json:"address,omitempty"`
	PricePerNight float64 `json:"price_per_night"`
	Currency      string  `json:"currency"`
	Rating        float64 `json:"rating,omitempty"`
	BookingURL    string  `json:"booking_url,omitempty"`
}

// LodgingOptions is the lodging capability payload.
type LodgingOptions []HotelOption

func (o LodgingOptions) IsEmpty() bool { return len(o) == 0 }

// Completeness is the share of options with a name and a positive price.
func (o LodgingOptions) Completeness() float64 {
	return share(len(o), func(i int) bool {
		return o[i].Name != "" && o[i].PricePerNight > 0
	})
}

// SearchResult is a single web document.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

// SearchResults is the websearch capability payload.
type SearchResults []SearchResult

func (r SearchResults) IsEmpty() bool { return len(r) == 0 }

// Completeness is the share of results with both a URL and content.
func (r SearchResults) Completeness() float64 {
	return share(len(r), func(i int) bool {
		return r[i].URL != "" && strings.TrimSpace(r[i].Content) != ""
	})
}

// GeneratedText is the generation capability payload.
type GeneratedText string

func (t GeneratedText) IsEmpty() bool { return strings.TrimSpace(string(t)) == "" }

func share(n int, complete func(int) bool) float64 {
	if n == 0 {
		return 0
	}
	ok := 0
	for i := 0; i < n; i++ {
		if complete(i) {
			ok++
		}
	}
	return float64(ok) / float64(n)
}
