package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/geo"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// SchengenMinInsuranceEUR is the minimum medical cover for a Schengen visa.
const SchengenMinInsuranceEUR = 30_000

type bandRange struct{ min, max int }

// Per-person trip cost in INR. A zero max is open-ended.
var budgetBands = map[model.BudgetBand]bandRange{
	model.BudgetLow:    {100_000, 150_000},
	model.BudgetMedium: {150_000, 300_000},
	model.BudgetHigh:   {300_000, 0},
}

var insuranceBasePrice = map[model.BudgetBand]float64{
	model.BudgetLow:    2_000,
	model.BudgetMedium: 3_500,
	model.BudgetHigh:   5_500,
}

// Budget turns the budget band into a cost range and finds travel insurance
// plans that satisfy the visa's coverage minimum.
type Budget struct {
	Gateway  Gateway
	Settings Settings
}

func (s *Budget) Name() model.StageName { return model.StageBudget }

func (s *Budget) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	in, err := st.Intake()
	if err != nil {
		return Outcome{}, err
	}
	settings := s.Settings.withDefaults()
	section := budgetRange(in.Request)

	q := model.SearchQuery{Query: insuranceQuery(in.Request), MaxResults: settings.MaxSources}
	res, err := s.Gateway.Call(ctx, model.CapabilityWebSearch, q,
		gateway.WithDegradation(func() gateway.Payload { return model.SearchResults{} }))
	if err != nil {
		return Outcome{Calls: callsOf(res, err)}, fmt.Errorf("insurance search: %w", err)
	}

	if res.Degraded {
		section.Insurance = staticInsurance(in.Request.BudgetBand)
	} else {
		hits, err := gateway.As[model.SearchResults](res)
		if err != nil {
			return Outcome{Calls: res.Calls}, err
		}
		section.Insurance = insuranceFromSearch(hits, settings.MaxOptions)
	}
	section.InsuranceConfidence = res.Confidence
	section.Confidence = res.Confidence
	return Outcome{Payload: section, Status: statusFor(res.Degraded), Calls: res.Calls}, nil
}

// Placeholder implements Placeholderer.
func (s *Budget) Placeholder(st *tripstate.State) any {
	req := st.Request()
	if in, err := st.Intake(); err == nil {
		req = in.Request
	}
	section := budgetRange(req)
	section.Insurance = staticInsurance(req.BudgetBand)
	section.InsuranceConfidence = model.ConfidenceLow
	section.Confidence = model.ConfidenceLow
	return section
}

func budgetRange(req model.TripRequest) model.BudgetSection {
	band := req.BudgetBand
	r, ok := budgetBands[band]
	if !ok {
		band = model.BudgetMedium
		r = budgetBands[band]
	}
	travelers := len(req.Travelers)
	if travelers == 0 {
		travelers = 1
	}
	return model.BudgetSection{
		Band:         band,
		Currency:     "INR",
		PerPersonMin: r.min,
		PerPersonMax: r.max,
		Travelers:    travelers,
		TotalMin:     r.min * travelers,
		TotalMax:     r.max * travelers,
	}
}

func insuranceQuery(req model.TripRequest) string {
	if geo.AnySchengen(req.Countries()) {
		return fmt.Sprintf("Schengen travel insurance for %s travelers visiting %s with minimum EUR %d medical coverage",
			req.Nationality, strings.Join(req.Countries(), ", "), SchengenMinInsuranceEUR)
	}
	return fmt.Sprintf("travel medical insurance for %s travelers visiting %s", req.Nationality, strings.Join(req.Countries(), ", "))
}

// insuranceFromSearch lists search hits as plans. A hit does not state its
// cover, so CoverageEUR stays zero.
func insuranceFromSearch(hits model.SearchResults, limit int) []model.InsuranceOption {
	out := make([]model.InsuranceOption, 0, limit)
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, model.InsuranceOption{
			Provider: h.Title,
			Plan:     "See provider site",
			URL:      h.URL,
			Notes:    truncateSummary(h.Content),
		})
	}
	return out
}

func staticInsurance(band model.BudgetBand) []model.InsuranceOption {
	base, ok := insuranceBasePrice[band]
	if !ok {
		base = insuranceBasePrice[model.BudgetMedium]
	}
	return []model.InsuranceOption{
		{
			Provider:    "SafeVoyage",
			Plan:        "Essential Plan",
			CoverageEUR: 30_000,
			Price:       base,
			Currency:    "INR",
			URL:         "https://insurance.example.com/safevoyage",
			Notes:       "Covers medical emergencies. Includes repatriation.",
		},
		{
			Provider:    "WanderShield",
			Plan:        "Plus Plan",
			CoverageEUR: 50_000,
			Price:       float64(int(base * 1.4)),
			Currency:    "INR",
			URL:         "https://insurance.example.com/wandershield",
			Notes:       "Lost baggage coverage. Trip interruption.",
		},
	}
}
