package stage

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/specialistvlad/visapack/internal/geo"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/resolver"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// Defaults applied by Intake.
const (
	DefaultPurpose = "Tourism"
	// MaxSchengenNights is the short-stay ceiling of a Schengen visa.
	MaxSchengenNights = 90
	// MaxTripNights bounds a single destination and the whole trip.
	MaxTripNights = 365
)

// Intake validates and normalizes the raw request.
type Intake struct{}

func (Intake) Name() model.StageName { return model.StageIntake }

func (Intake) Run(_ context.Context, st *tripstate.State) (Outcome, error) {
	in, err := Normalize(st.Request())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Payload: in, Status: model.StatusOK}, nil
}

// Normalize trims and title-cases the request, fills defaults, and resolves
// the departure airport. All field problems are reported together in a
// *model.ValidationError.
func Normalize(req model.TripRequest) (model.Intake, error) {
	title := cases.Title(language.English)
	var fields []model.FieldError
	var causes []error
	fail := func(field, format string, args ...any) {
		fields = append(fields, model.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	req.Nationality = properName(title, req.Nationality)
	req.ResidenceCountry = properName(title, req.ResidenceCountry)
	req.DepartureCity = strings.TrimSpace(req.DepartureCity)
	req.DepartureAirport = strings.ToUpper(strings.TrimSpace(req.DepartureAirport))
	req.Theme = strings.TrimSpace(req.Theme)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.Notes = strings.TrimSpace(req.Notes)

	if req.Nationality == "" {
		fail("nationality", "is required")
	}
	if req.ResidenceCountry == "" {
		fail("residence_country", "is required")
	}
	if req.DepartureCity == "" && req.DepartureAirport == "" {
		fail("departure_city", "is required when departure_airport is not set")
	}
	if req.DepartureAirport != "" && !isIATA(req.DepartureAirport) {
		fail("departure_airport", "must be a three-letter IATA code, got %q", req.DepartureAirport)
	}

	if len(req.Destinations) == 0 {
		fail("destinations", "at least one destination is required")
		causes = append(causes, model.ErrEmptyDestinationList)
	}
	destinations := make([]model.Destination, len(req.Destinations))
	totalNights := 0
	for i, d := range req.Destinations {
		d.Country = properName(title, d.Country)
		d.City = properName(title, d.City)
		if d.Country == "" {
			fail(fmt.Sprintf("destinations[%d].country", i), "is required")
		}
		switch {
		case d.Nights < 1:
			fail(fmt.Sprintf("destinations[%d].nights", i), "must be at least 1, got %d", d.Nights)
		case d.Nights > MaxTripNights:
			fail(fmt.Sprintf("destinations[%d].nights", i), "must be at most %d, got %d", MaxTripNights, d.Nights)
		default:
			totalNights += d.Nights
		}
		destinations[i] = d
	}
	req.Destinations = destinations
	if totalNights > MaxTripNights {
		fail("destinations", "a trip may last at most %d nights, got %d", MaxTripNights, totalNights)
	} else if geo.AnySchengen(req.Countries()) && totalNights > MaxSchengenNights {
		fail("destinations", "a Schengen short stay allows at most %d nights, got %d", MaxSchengenNights, totalNights)
	}

	if req.StartDate.IsZero() {
		fail("start_date", "is required")
	}

	if len(req.Travelers) == 0 {
		fail("travelers", "at least one traveler is required")
	}
	travelers := make([]model.Traveler, len(req.Travelers))
	for i, t := range req.Travelers {
		t.Name = strings.Join(strings.Fields(t.Name), " ")
		t.Nationality = properName(title, t.Nationality)
		t.ResidenceCountry = properName(title, t.ResidenceCountry)
		if t.Name == "" {
			fail(fmt.Sprintf("travelers[%d].name", i), "is required")
		}
		if t.Nationality == "" {
			t.Nationality = req.Nationality
		}
		if t.ResidenceCountry == "" {
			t.ResidenceCountry = req.ResidenceCountry
		}
		travelers[i] = t
	}
	req.Travelers = travelers

	if req.Purpose == "" {
		req.Purpose = DefaultPurpose
	}
	req.BudgetBand = model.BudgetBand(strings.ToLower(strings.TrimSpace(string(req.BudgetBand))))
	if req.BudgetBand == "" {
		req.BudgetBand = model.BudgetMedium
	}
	if !req.BudgetBand.Valid() {
		fail("budget_band", "must be one of low, medium, high, got %q", req.BudgetBand)
	}

	if o := req.PrimaryOverride; o != nil {
		override := &model.PrimaryOverride{
			Country: properName(title, o.Country),
			City:    properName(title, o.City),
		}
		switch {
		case override.Country == "":
			req.PrimaryOverride = nil
		case !listed(req.Destinations, override.Country):
			err := &model.InvalidPrimaryDestinationError{Country: override.Country, Listed: req.Countries()}
			fail("primary_override.country", "%v", err)
			causes = append(causes, err)
		default:
			req.PrimaryOverride = override
		}
	}

	if len(fields) > 0 {
		return model.Intake{}, model.NewValidationError(fields, causes...)
	}

	iata := req.DepartureAirport
	if iata == "" {
		iata = geo.ExtractIATA(req.DepartureCity)
	}
	return model.Intake{Request: req, DepartureIATA: iata}, nil
}

// properName trims s and title-cases it when it is written in a single case,
// so "united kingdom" and "FRANCE" are fixed while "McLean" is left alone.
func properName(title cases.Caser, s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if s == strings.ToLower(s) || (s == strings.ToUpper(s) && len(s) > 3) {
		return title.String(s)
	}
	return s
}

func isIATA(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func listed(destinations []model.Destination, country string) bool {
	for _, d := range destinations {
		if strings.EqualFold(d.Country, country) {
			return true
		}
	}
	return false
}

// Resolve runs the destination resolver over the normalized request and
// publishes the trip geometry under the resolved namespace.
type Resolve struct{}

func (Resolve) Name() model.StageName { return model.StageResolve }

func (Resolve) Run(_ context.Context, st *tripstate.State) (Outcome, error) {
	in, err := st.Intake()
	if err != nil {
		return Outcome{}, err
	}
	res, err := resolver.Resolve(in.Request.Destinations, in.Request.StartDate, in.Request.PrimaryOverride)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Payload: res, Status: model.StatusOK}, nil
}
