package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// Validation checks the assembled pack for internal consistency. It reports
// violations and never repairs them.
type Validation struct{}

func (Validation) Name() model.StageName { return model.StageValidation }

func (Validation) Run(_ context.Context, st *tripstate.State) (Outcome, error) {
	violations := Check(st.Snapshot())
	report := model.ValidationReport{Violations: violations}
	if len(violations) > 0 {
		return Outcome{Payload: report, Status: model.StatusFailed}, &model.ValidationFailedError{Violations: violations}
	}
	return Outcome{Payload: report, Status: model.StatusOK}, nil
}

// Check returns every consistency violation found in the snapshot.
func Check(snap tripstate.Snapshot) []string {
	var violations []string
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	res, ok := tripstate.Get[model.Resolution](snap, model.StageResolve)
	if !ok {
		return []string{"trip dates were never resolved"}
	}
	in, _ := tripstate.Get[model.Intake](snap, model.StageIntake)

	// Dates.
	sum := 0
	cursor := res.Start
	for i, r := range res.Ranges {
		sum += r.Nights
		if !r.CheckIn.Equal(cursor) {
			add("destination %d (%s) checks in on %s, expected %s", i+1, r.Country, r.CheckIn, cursor)
		}
		if r.CheckIn.DaysUntil(r.CheckOut) != r.Nights {
			add("destination %d (%s) spans %d nights, expected %d", i+1, r.Country, r.CheckIn.DaysUntil(r.CheckOut), r.Nights)
		}
		cursor = r.CheckOut
	}
	if sum != res.TotalNights {
		add("total nights is %d but destinations add up to %d", res.TotalNights, sum)
	}
	if !res.Start.AddDays(res.TotalNights).Equal(res.End) {
		add("end date %s is not start date %s plus %d nights", res.End, res.Start, res.TotalNights)
	}
	if len(res.Ranges) > 0 && !cursor.Equal(res.End) {
		add("last check-out %s does not match end date %s", cursor, res.End)
	}

	// Primary destination.
	primaryListed := false
	for _, r := range res.Ranges {
		primaryListed = primaryListed || strings.EqualFold(r.Country, res.PrimaryCountry)
	}
	if !primaryListed {
		add("primary destination %s is not a listed destination", res.PrimaryCountry)
	}
	if len(in.Request.Destinations) > 0 && len(in.Request.Destinations) != len(res.Ranges) {
		add("%d destinations requested but %d resolved", len(in.Request.Destinations), len(res.Ranges))
	}

	// Flights.
	if flights, ok := tripstate.Get[model.FlightSection](snap, model.StageFlights); !ok {
		add("flight section is missing")
	} else if len(flights.Outbound) == 0 || len(flights.Return) == 0 {
		add("flight section has no round trip")
	}

	// Lodging.
	if lodging, ok := tripstate.Get[model.LodgingSection](snap, model.StageHotels); !ok {
		add("lodging section is missing")
	} else {
		if len(lodging.Destinations) != len(res.Ranges) {
			add("lodging covers %d destinations, expected %d", len(lodging.Destinations), len(res.Ranges))
		}
		for _, d := range lodging.Destinations {
			if len(d.Options) == 0 {
				add("no lodging option for %s", d.City)
			}
		}
	}

	// Itinerary.
	if it, ok := tripstate.Get[model.Itinerary](snap, model.StageItinerary); !ok {
		add("itinerary is missing")
	} else {
		dates := model.DatesBetween(res.Start, res.End)
		if len(it.Days) != len(dates) {
			add("itinerary has %d days, expected %d", len(it.Days), len(dates))
		}
		for i := 0; i < len(it.Days) && i < len(dates); i++ {
			if !it.Days[i].Date.Equal(dates[i]) {
				add("itinerary day %d is %s, expected %s", i+1, it.Days[i].Date, dates[i])
				break
			}
		}
	}

	// Documents.
	if kit, ok := tripstate.Get[model.DocumentKit](snap, model.StageDocuments); !ok {
		add("document kit is missing")
	} else if strings.TrimSpace(kit.CoverLetter) == "" {
		add("cover letter is empty")
	}
	if _, ok := tripstate.Get[model.VisaRules](snap, model.StageVisa); !ok {
		add("visa rules are missing")
	}
	return violations
}
