package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/geo"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

var schengenDocuments = []string{
	"Completed & signed visa application form",
	"Passport with required validity and blank pages",
	"Recent passport-sized photographs",
	"Travel medical insurance (min €30,000 coverage)",
	"Round-trip flight reservation",
	"Hotel reservation(s) or proof of accommodation",
	"Proof of sufficient funds (bank statements, salary slips, etc.)",
	"Proof of employment / business / studies",
	"Travel itinerary and cover letter explaining trip purpose",
}

var genericDocuments = []string{
	"Visa application form",
	"Passport",
	"Photographs",
	"Travel insurance",
	"Travel bookings",
	"Proof of funds",
	"Cover letter",
}

// VisaRequirements picks the visa rule set for the trip and looks up
// consulate guidance for the primary destination.
type VisaRequirements struct {
	Gateway  Gateway
	Settings Settings
}

func (s *VisaRequirements) Name() model.StageName { return model.StageVisa }

func (s *VisaRequirements) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	in, err := st.Intake()
	if err != nil {
		return Outcome{}, err
	}
	res, err := st.Resolution()
	if err != nil {
		return Outcome{}, err
	}
	settings := s.Settings.withDefaults()
	rules := visaRules(in.Request, res)

	q := model.SearchQuery{Query: consulateQuery(in.Request, res), MaxResults: settings.MaxSources}
	result, err := s.Gateway.Call(ctx, model.CapabilityWebSearch, q,
		gateway.WithDegradation(func() gateway.Payload { return model.SearchResults{} }))
	switch {
	case errors.Is(err, gateway.ErrNoProviders):
		rules.Confidence = model.ConfidenceLow
		return Outcome{Payload: rules, Status: model.StatusDegraded}, nil
	case err != nil:
		return Outcome{Calls: callsOf(result, err)}, fmt.Errorf("consulate search: %w", err)
	}

	if !result.Degraded {
		hits, err := gateway.As[model.SearchResults](result)
		if err != nil {
			return Outcome{Calls: result.Calls}, err
		}
		for _, h := range hits {
			if len(rules.Sources) == settings.MaxSources {
				break
			}
			h.Content = truncateSummary(h.Content)
			rules.Sources = append(rules.Sources, h)
		}
	}
	rules.Confidence = result.Confidence
	return Outcome{Payload: rules, Status: statusFor(result.Degraded), Calls: result.Calls}, nil
}

func visaRules(req model.TripRequest, res model.Resolution) model.VisaRules {
	consulate := fmt.Sprintf("Embassy/Consulate of %s in %s", res.PrimaryCountry, req.ResidenceCountry)
	if !geo.AnySchengen(req.Countries()) {
		return model.VisaRules{
			VisaType:          "Generic Tourist Visa",
			Consulate:         consulate,
			RequiredDocuments: append([]string(nil), genericDocuments...),
			Notes:             []string{"Destination not recognized as Schengen; check the requirements of every country visited."},
		}
	}

	notes := []string{
		"Rules vary by consulate; user must confirm with their specific VFS/consulate.",
		fmt.Sprintf("Apply at the consulate of %s, the main destination of the trip.", res.PrimaryCountry),
	}
	if res.Ambiguous {
		notes = append(notes, fmt.Sprintf(
			"Several destinations share the longest stay (%s); %s was chosen because it is visited first.",
			strings.Join(res.Tied, ", "), res.PrimaryCountry))
	}
	return model.VisaRules{
		VisaType:          "Schengen Short-Stay (Type C)",
		Schengen:          true,
		Consulate:         consulate,
		MinInsuranceEUR:   SchengenMinInsuranceEUR,
		RequiredDocuments: append([]string(nil), schengenDocuments...),
		Notes:             notes,
	}
}

func consulateQuery(req model.TripRequest, res model.Resolution) string {
	return fmt.Sprintf("%s visa requirements for %s citizens applying in %s %s consulate",
		res.PrimaryCountry, req.Nationality, req.ResidenceCountry, res.PrimaryCountry)
}
