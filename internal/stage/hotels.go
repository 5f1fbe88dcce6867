package stage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

const placeholderNightlyRate = 10_000

// HotelSearch looks up lodging for every destination concurrently. Each
// destination degrades on its own.
type HotelSearch struct {
	Gateway  Gateway
	Settings Settings
}

func (s *HotelSearch) Name() model.StageName { return model.StageHotels }

func (s *HotelSearch) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	queries, err := lodgingQueries(st)
	if err != nil {
		return Outcome{}, err
	}
	settings := s.Settings.withDefaults()

	results := make([]model.DestinationLodging, len(queries))
	calls := make([][]model.ProviderCall, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			logger := ctxlog.FromContext(gctx).With("city", q.City)
			res, err := s.Gateway.Call(ctxlog.WithLogger(gctx, logger), model.CapabilityLodging, q,
				gateway.WithDegradation(func() gateway.Payload { return placeholderHotels(q) }))
			calls[i] = callsOf(res, err)
			if err != nil {
				return fmt.Errorf("lodging search for %s: %w", q.City, err)
			}
			options, err := gateway.As[model.LodgingOptions](res)
			if err != nil {
				return err
			}
			if len(options) > settings.MaxOptions {
				options = options[:settings.MaxOptions]
			}
			results[i] = destinationLodging(q, options, res.ProviderUsed, res.Confidence, res.Degraded)
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

	section := model.LodgingSection{Destinations: results, Confidence: model.ConfidenceHigh}
	degraded := false
	for _, d := range results {
		if d.Confidence != model.ConfidenceHigh {
			section.Confidence = model.ConfidenceLow
		}
		degraded = degraded || d.Degraded
	}
	return Outcome{Payload: section, Status: statusFor(degraded), Calls: flat}, nil
}

// Placeholder implements Placeholderer.
func (s *HotelSearch) Placeholder(st *tripstate.State) any {
	queries, _ := lodgingQueries(st)
	section := model.LodgingSection{Confidence: model.ConfidenceLow}
	for _, q := range queries {
		section.Destinations = append(section.Destinations,
			destinationLodging(q, placeholderHotels(q), gateway.PlaceholderProvider, model.ConfidenceLow, true))
	}
	return section
}

func lodgingQueries(st *tripstate.State) ([]model.LodgingQuery, error) {
	in, err := st.Intake()
	if err != nil {
		return nil, err
	}
	res, err := st.Resolution()
	if err != nil {
		return nil, err
	}
	queries := make([]model.LodgingQuery, 0, len(res.Ranges))
	for _, r := range res.Ranges {
		queries = append(queries, model.LodgingQuery{
			Country:  r.Country,
			City:     r.City,
			CheckIn:  r.CheckIn,
			CheckOut: r.CheckOut,
			Adults:   len(in.Request.Travelers),
			Band:     in.Request.BudgetBand,
		})
	}
	return queries, nil
}

func destinationLodging(q model.LodgingQuery, options model.LodgingOptions, provider string, confidence model.Confidence, degraded bool) model.DestinationLodging {
	return model.DestinationLodging{
		Country:    q.Country,
		City:       q.City,
		CheckIn:    q.CheckIn,
		CheckOut:   q.CheckOut,
		Options:    options,
		Provider:   provider,
		Confidence: confidence,
		Degraded:   degraded,
	}
}

func placeholderHotels(q model.LodgingQuery) model.LodgingOptions {
	return model.LodgingOptions{{
		Name:          q.City + " Central Hotel",
		City:          q.City,
		Address:       "City center, " + q.City,
		PricePerNight: placeholderNightlyRate,
		Currency:      "INR",
		BookingURL:    "https://www.booking.com",
	}}
}
