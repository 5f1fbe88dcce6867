package stage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// SearchStages must all be terminal before the itinerary starts.
var SearchStages = []model.StageName{model.StageFlights, model.StageHotels, model.StageBudget}

const itinerarySystemPrompt = "You plan visa-friendly travel itineraries and answer with JSON only."

// maxParallelChunks bounds concurrent generation calls of one itinerary.
const maxParallelChunks = 2

// Itinerary plans one day per date of the trip and enriches each day with
// lodging, activities and transport notes.
type Itinerary struct {
	Gateway  Gateway
	Settings Settings
}

func (s *Itinerary) Name() model.StageName { return model.StageItinerary }

func (s *Itinerary) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	for _, upstream := range SearchStages {
		if st.Status(upstream) == model.StatusPending {
			return Outcome{}, &model.BarrierViolationError{Stage: model.StageItinerary, Upstream: upstream}
		}
	}
	if !s.Gateway.Available(model.CapabilityGeneration) {
		return Outcome{}, &model.GenerationUnavailableError{Stage: model.StageItinerary, Err: gateway.ErrNoProviders}
	}

	in, err := st.Intake()
	if err != nil {
		return Outcome{}, err
	}
	res, err := st.Resolution()
	if err != nil {
		return Outcome{}, err
	}
	flights, _ := tripstate.ReadAs[model.FlightSection](st, model.StageFlights)
	lodging, _ := tripstate.ReadAs[model.LodgingSection](st, model.StageHotels)
	settings := s.Settings.withDefaults()

	dates := model.DatesBetween(res.Start, res.End)
	chunks := chunkDates(dates, settings.ItineraryChunkDays)
	summaries := make([]map[string]string, len(chunks))
	outcomes := make([]*gateway.Result, len(chunks))
	calls := make([][]model.ProviderCall, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChunks)
	for i, chunk := range chunks {
		g.Go(func() error {
			req := model.GenerationRequest{
				System:    itinerarySystemPrompt,
				Prompt:    itineraryPrompt(in, res, chunk),
				MaxTokens: settings.MaxTokens,
			}
			result, err := s.Gateway.Call(gctx, model.CapabilityGeneration, req,
				gateway.WithDegradation(func() gateway.Payload { return model.GeneratedText("") }))
			calls[i] = callsOf(result, err)
			if err != nil {
				if errors.Is(err, gateway.ErrNoProviders) {
					return &model.GenerationUnavailableError{Stage: model.StageItinerary, Err: err}
				}
				return err
			}
			outcomes[i] = result
			if result.Degraded {
				return nil
			}
			text, err := gateway.As[model.GeneratedText](result)
			if err != nil {
				return err
			}
			days, err := parseDays(string(text))
			if err != nil {
				ctxlog.FromContext(gctx).Warn("Could not parse itinerary chunk, using placeholder days.", "chunk", i, "error", err)
				return nil
			}
			summaries[i] = days
			return nil
		})
	}
	err = g.Wait()

	var flat []model.ProviderCall
	for _, c := range calls {
		flat = append(flat, c...)
	}
	if err != nil {
		return Outcome{Calls: flat}, err
	}

	itinerary := model.Itinerary{Confidence: model.ConfidenceHigh}
	degraded := false
	for i, chunk := range chunks {
		result := outcomes[i]
		if result.Confidence != model.ConfidenceHigh {
			itinerary.Confidence = model.ConfidenceLow
		}
		if itinerary.Provider == "" && !result.Degraded {
			itinerary.Provider = result.ProviderUsed
		}
		for _, day := range chunk {
			summary := truncateSummary(summaries[i][day.String()])
			if summary == "" {
				summary = PlaceholderSummary
				degraded = true
			}
			itinerary.Days = append(itinerary.Days, model.DayPlan{Date: day, Summary: summary})
		}
	}
	if degraded {
		itinerary.Confidence = model.ConfidenceLow
	}
	if itinerary.Provider == "" {
		itinerary.Provider = gateway.PlaceholderProvider
	}

	enrich(&itinerary, in.Request.Theme, res, flights, lodging)
	return Outcome{Payload: itinerary, Status: statusFor(degraded), Calls: flat}, nil
}

func chunkDates(dates []model.Date, size int) [][]model.Date {
	var chunks [][]model.Date
	for start := 0; start < len(dates); start += size {
		end := min(start+size, len(dates))
		chunks = append(chunks, dates[start:end])
	}
	return chunks
}

func itineraryPrompt(in model.Intake, res model.Resolution, chunk []model.Date) string {
	req := in.Request
	var b strings.Builder
	b.WriteString("Plan the following days of a trip. Return JSON only, shaped as ")
	b.WriteString(`{"days":[{"date":"YYYY-MM-DD","summary":"..."}]}`)
	b.WriteString(", with exactly one entry per date listed below.\n\nDates and cities:\n")
	for _, day := range chunk {
		rng, _ := res.RangeFor(day)
		fmt.Fprintf(&b, "- %s (%s, %s)\n", day, rng.City, rng.Country)
	}
	b.WriteString("\nTraveller details:\n")
	fmt.Fprintf(&b, "- Nationality: %s\n", req.Nationality)
	fmt.Fprintf(&b, "- Departure city: %s\n", req.DepartureCity)
	fmt.Fprintf(&b, "- Destinations: %s\n", strings.Join(req.Countries(), ", "))
	fmt.Fprintf(&b, "- Trip dates: %s to %s\n", res.Start, res.End)
	fmt.Fprintf(&b, "- Purpose: %s\n", req.Purpose)
	if req.Theme != "" {
		fmt.Fprintf(&b, "- Theme: %s\n", req.Theme)
	}
	fmt.Fprintf(&b, "- Budget band: %s\n", req.BudgetBand)
	fmt.Fprintf(&b, "- Party size: %d\n", len(req.Travelers))
	b.WriteString("\nEach summary is one or two sentences, at most 30 words, with no lists or line breaks. ")
	b.WriteString("The first day is an arrival day and the last day is a departure day.\n")
	return b.String()
}

// parseDays extracts date to summary pairs from a generated JSON document,
// tolerating code fences and surrounding prose.
func parseDays(text string) (map[string]string, error) {
	open := strings.Index(text, "{")
	closing := strings.LastIndex(text, "}")
	if open < 0 || closing <= open {
		return nil, errors.New("no JSON object in generated text")
	}
	var doc struct {
		Days []struct {
			Date    string `json:"date"`
			Summary string `json:"summary"`
		} `json:"days"`
	}
	if err := json.Unmarshal([]byte(text[open:closing+1]), &doc); err != nil {
		return nil, fmt.Errorf("decode itinerary JSON: %w", err)
	}
	days := make(map[string]string, len(doc.Days))
	for _, d := range doc.Days {
		date, err := model.ParseDate(strings.TrimSpace(d.Date))
		if err != nil {
			continue
		}
		if _, seen := days[date.String()]; !seen {
			days[date.String()] = d.Summary
		}
	}
	return days, nil
}

// enrich fills city, stay options, activities and transport for every day.
func enrich(it *model.Itinerary, theme string, res model.Resolution, flights model.FlightSection, lodging model.LodgingSection) {
	last := len(it.Days) - 1
	for i := range it.Days {
		day := &it.Days[i]
		idx := rangeIndex(res, day.Date)
		if idx >= 0 {
			day.City = res.Ranges[idx].City
			day.Country = res.Ranges[idx].Country
		}
		if dest, ok := lodging.For(idx); ok {
			for _, h := range dest.Options {
				if len(day.StayOptions) == 2 {
					break
				}
				day.StayOptions = append(day.StayOptions, formatHotel(h))
			}
		}
		day.Activities = themedActivities(day.City, theme)

		switch {
		case i == 0 && len(flights.Outbound) > 0:
			f := flights.Outbound[0]
			note := fmt.Sprintf("Arrive via %s flight from %s, departing %s and landing %s.",
				f.Airline, f.Origin, friendlyDateTime(f.DepartAt), friendlyDateTime(f.ArriveAt))
			day.Activities = append([]string{note}, day.Activities...)
			day.Transport = fmt.Sprintf("Arrival flight into %s.", f.Destination)
		case i > 0:
			day.Transport = transportNote(it.Days[i-1].City, day.City)
		default:
			day.Transport = "Local transit / walking day."
		}

		if i == last && i > 0 && len(flights.Return) > 0 {
			f := flights.Return[0]
			day.Activities = append(day.Activities, fmt.Sprintf("Depart via %s flight from %s to %s at %s.",
				f.Airline, f.Origin, f.Destination, friendlyDateTime(f.DepartAt)))
			day.Transport = fmt.Sprintf("Departure flight from %s.", f.Origin)
		}
	}
}

func rangeIndex(res model.Resolution, day model.Date) int {
	for i, r := range res.Ranges {
		if r.Contains(day) {
			return i
		}
	}
	if len(res.Ranges) > 0 && day.Equal(res.End) {
		return len(res.Ranges) - 1
	}
	return -1
}
