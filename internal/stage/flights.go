package stage

import (
	"context"
	"fmt"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/geo"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// PlaceholderAirline names the fares used when no flight provider answers.
const PlaceholderAirline = "Sample Airline"

var placeholderFares = map[model.BudgetBand]float64{
	model.BudgetLow:    55_000,
	model.BudgetMedium: 70_000,
	model.BudgetHigh:   95_000,
}

// FlightSearch looks up a round trip from the departure airport to the first
// destination and back from the last one.
type FlightSearch struct {
	Gateway  Gateway
	Settings Settings
}

func (s *FlightSearch) Name() model.StageName { return model.StageFlights }

func (s *FlightSearch) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	q, err := flightQuery(st)
	if err != nil {
		return Outcome{}, err
	}
	settings := s.Settings.withDefaults()

	res, err := s.Gateway.Call(ctx, model.CapabilityFlight, q,
		gateway.WithDegradation(func() gateway.Payload { return placeholderFlights(q) }))
	if err != nil {
		return Outcome{Calls: callsOf(res, err)}, fmt.Errorf("flight search: %w", err)
	}
	options, err := gateway.As[model.FlightOptions](res)
	if err != nil {
		return Outcome{Calls: res.Calls}, err
	}

	section := splitFlights(options, settings.MaxOptions)
	section.Provider = res.ProviderUsed
	section.Confidence = res.Confidence
	section.Degraded = res.Degraded
	if len(section.Outbound) == 0 || len(section.Return) == 0 {
		// A provider answered with one direction only; fill the gap so the
		// pack always has a complete round trip to show.
		ctxlog.FromContext(ctx).Warn("Flight result is missing a direction, filling from placeholder.", "provider", res.ProviderUsed)
		filler := splitFlights(placeholderFlights(q), settings.MaxOptions)
		if len(section.Outbound) == 0 {
			section.Outbound = filler.Outbound
		}
		if len(section.Return) == 0 {
			section.Return = filler.Return
		}
		section.Confidence = model.ConfidenceLow
		section.Degraded = true
	}
	return Outcome{Payload: section, Status: statusFor(section.Degraded), Calls: res.Calls}, nil
}

// Placeholder implements Placeholderer.
func (s *FlightSearch) Placeholder(st *tripstate.State) any {
	q, err := flightQuery(st)
	if err != nil {
		return model.FlightSection{Provider: gateway.PlaceholderProvider, Confidence: model.ConfidenceLow, Degraded: true}
	}
	section := splitFlights(placeholderFlights(q), s.Settings.withDefaults().MaxOptions)
	section.Provider = gateway.PlaceholderProvider
	section.Confidence = model.ConfidenceLow
	section.Degraded = true
	return section
}

func flightQuery(st *tripstate.State) (model.FlightQuery, error) {
	in, err := st.Intake()
	if err != nil {
		return model.FlightQuery{}, err
	}
	res, err := st.Resolution()
	if err != nil {
		return model.FlightQuery{}, err
	}
	if len(res.Ranges) == 0 {
		return model.FlightQuery{}, model.ErrEmptyDestinationList
	}
	first, last := res.Ranges[0], res.Ranges[len(res.Ranges)-1]
	return model.FlightQuery{
		Origin:       in.DepartureIATA,
		Destination:  geo.PrimaryAirport(first.Country),
		ReturnOrigin: geo.PrimaryAirport(last.Country),
		DepartDate:   res.Start,
		ReturnDate:   res.End,
		Adults:       len(in.Request.Travelers),
		Band:         in.Request.BudgetBand,
	}, nil
}

func placeholderFlights(q model.FlightQuery) model.FlightOptions {
	price, ok := placeholderFares[q.Band]
	if !ok {
		price = placeholderFares[model.BudgetMedium]
	}
	return model.FlightOptions{
		{
			Direction:   model.Outbound,
			Airline:     PlaceholderAirline,
			Origin:      q.Origin,
			Destination: q.Destination,
			DepartAt:    q.DepartDate.String() + "T09:00",
			ArriveAt:    q.DepartDate.String() + "T16:00",
			Price:       price,
			Currency:    "INR",
			BookingURL:  "https://www.amadeus.com",
		},
		{
			Direction:   model.Return,
			Airline:     PlaceholderAirline,
			Origin:      q.ReturnOrigin,
			Destination: q.Origin,
			DepartAt:    q.ReturnDate.String() + "T10:00",
			ArriveAt:    q.ReturnDate.String() + "T18:00",
			Price:       price,
			Currency:    "INR",
			BookingURL:  "https://www.amadeus.com",
		},
	}
}

func splitFlights(options model.FlightOptions, limit int) model.FlightSection {
	var section model.FlightSection
	for _, o := range options {
		switch o.Direction {
		case model.Return:
			if len(section.Return) < limit {
				section.Return = append(section.Return, o)
			}
		default:
			if len(section.Outbound) < limit {
				o.Direction = model.Outbound
				section.Outbound = append(section.Outbound, o)
			}
		}
	}
	return section
}
