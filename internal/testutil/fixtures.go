package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
)

// ParisRequest is two travelers spending five nights in Paris from
// 2025-12-05.
func ParisRequest() model.TripRequest {
	return model.TripRequest{
		Nationality:      "Indian",
		ResidenceCountry: "India",
		DepartureCity:    "Delhi (DEL)",
		Destinations:     []model.Destination{{Country: "France", City: "Paris", Nights: 5}},
		StartDate:        model.MustParseDate("2025-12-05"),
		Travelers: []model.Traveler{
			{Name: "Asha Rao", Nationality: "Indian", ResidenceCountry: "India"},
			{Name: "Vikram Rao", Nationality: "Indian", ResidenceCountry: "India"},
		},
		Theme:      "food",
		BudgetBand: model.BudgetMedium,
	}
}

// MultiCityRequest visits France, Italy and Spain.
func MultiCityRequest() model.TripRequest {
	req := ParisRequest()
	req.Destinations = []model.Destination{
		{Country: "France", City: "Paris", Nights: 3},
		{Country: "Italy", Nights: 4},
		{Country: "Spain", City: "Barcelona", Nights: 2},
	}
	return req
}

// Flights returns a complete outbound and return fare.
func Flights(origin, dest string) model.FlightOptions {
	return model.FlightOptions{
		{Direction: model.Outbound, Airline: "Air France", FlightNumber: "AF225", Origin: origin, Destination: dest, DepartAt: "2025-12-05T09:30", ArriveAt: "2025-12-05T15:10", Price: 48000, Currency: "INR"},
		{Direction: model.Return, Airline: "Air France", FlightNumber: "AF226", Origin: dest, Destination: origin, DepartAt: "2025-12-10T11:00", ArriveAt: "2025-12-10T23:40", Price: 52000, Currency: "INR"},
	}
}

// Hotels returns two complete hotel options in a city.
func Hotels(city string) model.LodgingOptions {
	return model.LodgingOptions{
		{Name: city + " Grand", City: city, PricePerNight: 9500, Currency: "INR", Rating: 4.4},
		{Name: city + " Budget Inn", City: city, PricePerNight: 5200, Currency: "INR", Rating: 3.9},
	}
}

// SearchHits returns two complete web search results.
func SearchHits(topic string) model.SearchResults {
	return model.SearchResults{
		{Title: topic + " guide", URL: "https://example.com/guide", Content: "Apply at least 15 days before travel."},
		{Title: topic + " checklist", URL: "https://example.com/checklist", Content: "Bring bank statements for three months."},
	}
}

// GenerationResponder answers itinerary prompts with a JSON day list covering
// every date it finds in the prompt, and any other prompt with a short letter.
func GenerationResponder(ctx context.Context, req any) (gateway.Payload, error) {
	gen, ok := req.(model.GenerationRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected request %T", req)
	}
	if !strings.Contains(gen.Prompt, "\"days\"") {
		return model.GeneratedText("The Consular Officer,\nEmbassy/Consulate\n\nDear Sir or Madam,\nWe request a short-stay visa.\n\nYours faithfully"), nil
	}

	type day struct {
		Date    string `json:"date"`
		Summary string `json:"summary"`
	}
	var days []day
	for _, field := range strings.Fields(gen.Prompt) {
		field = strings.Trim(field, ",.;:()")
		if _, err := model.ParseDate(field); err == nil {
			days = append(days, day{Date: field, Summary: "Walking tour and museum visit."})
		}
	}
	raw, err := json.Marshal(map[string]any{"days": days})
	if err != nil {
		return nil, err
	}
	return model.GeneratedText(raw), nil
}
