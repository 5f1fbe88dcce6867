package sample

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Provider answers one capability with canned data.
type Provider struct {
	name       string
	capability model.Capability
	delay      time.Duration
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, _ registry.Deps) (gateway.Provider, error) {
	var delay time.Duration
	if raw := def.Option("delay", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("sample: delay: %w", err)
		}
		delay = d
	}
	return &Provider{name: def.Name, capability: def.Capability, delay: delay}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return p.capability }

// Call waits for the configured delay, then answers from the canned data.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	switch q := req.(type) {
	case model.FlightQuery:
		return flights(q), nil
	case model.LodgingQuery:
		return hotels(q), nil
	case model.SearchQuery:
		return search(q), nil
	case model.GenerationRequest:
		return generate(q)
	}
	return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
}

var fares = map[model.BudgetBand]float64{
	model.BudgetLow:    52000,
	model.BudgetMedium: 68000,
	model.BudgetHigh:   91000,
}

var nightlyRates = map[model.BudgetBand]float64{
	model.BudgetLow:    6500,
	model.BudgetMedium: 11000,
	model.BudgetHigh:   24000,
}

func bandValue(table map[model.BudgetBand]float64, band model.BudgetBand) float64 {
	if v, ok := table[band]; ok {
		return v
	}
	return table[model.BudgetMedium]
}

func flights(q model.FlightQuery) model.FlightOptions {
	fare := bandValue(fares, q.Band)
	returnOrigin := q.ReturnOrigin
	if returnOrigin == "" {
		returnOrigin = q.Destination
	}
	return model.FlightOptions{
		{
			Direction: model.Outbound, Airline: "Sample Air", FlightNumber: "SA101",
			Origin: q.Origin, Destination: q.Destination,
			DepartAt: q.DepartDate.String() + "T08:45", ArriveAt: q.DepartDate.String() + "T14:55",
			Price: fare, Currency: "INR", BookingURL: "https://flights.example.com/SA101",
		},
		{
			Direction: model.Return, Airline: "Sample Air", FlightNumber: "SA102",
			Origin: returnOrigin, Destination: q.Origin,
			DepartAt: q.ReturnDate.String() + "T12:30", ArriveAt: q.ReturnDate.AddDays(1).String() + "T01:10",
			Price: fare, Currency: "INR", BookingURL: "https://flights.example.com/SA102",
		},
	}
}

func hotels(q model.LodgingQuery) model.LodgingOptions {
	rate := bandValue(nightlyRates, q.Band)
	return model.LodgingOptions{
		{Name: q.City + " Old Town Residence", City: q.City, Address: "Old Town, " + q.City, PricePerNight: rate, Currency: "INR", Rating: 4.3, BookingURL: "https://stays.example.com/old-town"},
		{Name: q.City + " Station Hotel", City: q.City, Address: "Central Station, " + q.City, PricePerNight: rate * 0.8, Currency: "INR", Rating: 3.9, BookingURL: "https://stays.example.com/station"},
	}
}

func search(q model.SearchQuery) model.SearchResults {
	results := model.SearchResults{
		{Title: "Official guidance", URL: "https://search.example.com/official", Content: "Requirements summary for: " + q.Query},
		{Title: "Traveller checklist", URL: "https://search.example.com/checklist", Content: "Commonly requested documents for: " + q.Query},
	}
	if q.MaxResults > 0 && len(results) > q.MaxResults {
		results = results[:q.MaxResults]
	}
	return results
}

// dayLine matches the "- 2025-12-05 (Paris, France)" lines of an itinerary
// prompt.
var dayLine = regexp.MustCompile(`(?m)^- (\d{4}-\d{2}-\d{2}) \(([^,]+),`)

func generate(g model.GenerationRequest) (gateway.Payload, error) {
	if !strings.Contains(g.Prompt, `"days"`) {
		return model.GeneratedText(letter(g.Prompt)), nil
	}

	type day struct {
		Date    string `json:"date"`
		Summary string `json:"summary"`
	}
	var days []day
	for _, m := range dayLine.FindAllStringSubmatch(g.Prompt, -1) {
		days = append(days, day{
			Date:    m[1],
			Summary: fmt.Sprintf("Explore %s at an easy pace with a guided walk and a long lunch.", strings.TrimSpace(m[2])),
		})
	}
	raw, err := json.Marshal(map[string]any{"days": days})
	if err != nil {
		return nil, err
	}
	return model.GeneratedText(raw), nil
}

// promptField returns the value of a "- Label: value" line.
func promptField(prompt, label string) string {
	prefix := "- " + label + ": "
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}

func letter(prompt string) string {
	addressee := "The Consular Officer"
	if i := strings.Index(prompt, `Address it to "`); i >= 0 {
		rest := prompt[i+len(`Address it to "`):]
		if j := strings.Index(rest, `"`); j > 0 {
			addressee = rest[:j]
		}
	}
	applicant := promptField(prompt, "Main applicant")
	return strings.Join([]string{
		addressee,
		"",
		"Dear Sir or Madam,",
		"",
		fmt.Sprintf("I, %s, am applying for a short-stay visa to visit %s for %s from %s.",
			applicant, promptField(prompt, "Destinations"), strings.ToLower(promptField(prompt, "Purpose")), promptField(prompt, "Trip dates")),
		"My travel, accommodation and insurance reservations are enclosed, and I will fund the trip myself.",
		"",
		"Yours faithfully,",
		applicant,
	}, "\n")
}
