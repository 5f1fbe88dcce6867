package orchestrator

import (
	"time"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// assemble builds the pack from a snapshot of the run's state.
func assemble(runID string, generatedAt time.Time, snap tripstate.Snapshot, calls []model.ProviderCall) *model.TravelPack {
	pack := &model.TravelPack{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Stages:      snap.Statuses,
		Diagnostics: calls,
	}

	if in, ok := tripstate.Get[model.Intake](snap, model.StageIntake); ok {
		pack.Travelers = in.Request.Travelers
		pack.Purpose = in.Request.Purpose
	}
	if res, ok := tripstate.Get[model.Resolution](snap, model.StageResolve); ok {
		pack.Primary = model.PrimaryDestination{
			Country:   res.PrimaryCountry,
			City:      res.PrimaryCity,
			Ambiguous: res.Ambiguous,
			Tied:      res.Tied,
		}
		pack.Start = res.Start
		pack.End = res.End
		pack.TotalNights = res.TotalNights
		pack.Destinations = res.Ranges
	}
	pack.Flights, _ = tripstate.Get[model.FlightSection](snap, model.StageFlights)
	pack.Lodging, _ = tripstate.Get[model.LodgingSection](snap, model.StageHotels)
	pack.Budget, _ = tripstate.Get[model.BudgetSection](snap, model.StageBudget)
	pack.Itinerary, _ = tripstate.Get[model.Itinerary](snap, model.StageItinerary)
	pack.Visa, _ = tripstate.Get[model.VisaRules](snap, model.StageVisa)
	pack.Documents, _ = tripstate.Get[model.DocumentKit](snap, model.StageDocuments)
	if report, ok := tripstate.Get[model.ValidationReport](snap, model.StageValidation); ok {
		pack.Violations = report.Violations
	}

	pack.Status = packStatus(snap.Statuses)
	return pack
}

func packStatus(statuses map[model.StageName]model.StageStatus) model.PackStatus {
	status := model.PackComplete
	for _, s := range statuses {
		switch s {
		case model.StatusFailed:
			return model.PackFailed
		case model.StatusDegraded:
			status = model.PackCompleteDegraded
		}
	}
	return status
}

// unreachable reports whether calls were made and every capability that was
// called saw nothing but errors and timeouts.
func unreachable(calls []model.ProviderCall) bool {
	if len(calls) == 0 {
		return false
	}
	answered := make(map[model.Capability]bool)
	for _, c := range calls {
		if _, seen := answered[c.Capability]; !seen {
			answered[c.Capability] = false
		}
		if c.Outcome == model.OutcomeSuccess || c.Outcome == model.OutcomeEmpty {
			answered[c.Capability] = true
		}
	}
	for _, ok := range answered {
		if ok {
			return false
		}
	}
	return true
}
