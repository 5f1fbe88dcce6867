package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

const coverLetterSystemPrompt = "You write concise, embassy-appropriate visa cover letters. Output plain text only."

// DocumentKit drafts the cover letter and builds the document checklist.
type DocumentKit struct {
	Gateway  Gateway
	Settings Settings
}

func (s *DocumentKit) Name() model.StageName { return model.StageDocuments }

func (s *DocumentKit) Run(ctx context.Context, st *tripstate.State) (Outcome, error) {
	if !s.Gateway.Available(model.CapabilityGeneration) {
		return Outcome{}, &model.GenerationUnavailableError{Stage: model.StageDocuments, Err: gateway.ErrNoProviders}
	}
	in, err := st.Intake()
	if err != nil {
		return Outcome{}, err
	}
	res, err := st.Resolution()
	if err != nil {
		return Outcome{}, err
	}
	rules, err := tripstate.ReadAs[model.VisaRules](st, model.StageVisa)
	if err != nil {
		return Outcome{}, err
	}
	flights, _ := tripstate.ReadAs[model.FlightSection](st, model.StageFlights)
	lodging, _ := tripstate.ReadAs[model.LodgingSection](st, model.StageHotels)
	budget, _ := tripstate.ReadAs[model.BudgetSection](st, model.StageBudget)
	_, itineraryErr := tripstate.ReadAs[model.Itinerary](st, model.StageItinerary)
	settings := s.Settings.withDefaults()

	letter := coverLetterInput{
		req:     in.Request,
		res:     res,
		rules:   rules,
		flights: flights,
	}
	genReq := model.GenerationRequest{
		System:    coverLetterSystemPrompt,
		Prompt:    letter.prompt(),
		MaxTokens: settings.MaxTokens,
	}
	result, err := s.Gateway.Call(ctx, model.CapabilityGeneration, genReq,
		gateway.WithDegradation(func() gateway.Payload { return model.GeneratedText(letter.template()) }))
	if err != nil {
		if errors.Is(err, gateway.ErrNoProviders) {
			return Outcome{}, &model.GenerationUnavailableError{Stage: model.StageDocuments, Err: err}
		}
		return Outcome{Calls: callsOf(result, err)}, fmt.Errorf("cover letter: %w", err)
	}
	text, err := gateway.As[model.GeneratedText](result)
	if err != nil {
		return Outcome{Calls: result.Calls}, err
	}

	kit := model.DocumentKit{
		CoverLetter:           strings.TrimSpace(string(text)),
		CoverLetterProvider:   result.ProviderUsed,
		CoverLetterConfidence: result.Confidence,
		Checklist:             checklist(rules, flights, lodging, budget, itineraryErr == nil),
	}
	return Outcome{Payload: kit, Status: statusFor(result.Degraded), Calls: result.Calls}, nil
}

// checklist lists the required documents and marks the ones this pack
// drafts, followed by one accommodation line per destination.
func checklist(rules model.VisaRules, flights model.FlightSection, lodging model.LodgingSection, budget model.BudgetSection, haveItinerary bool) []model.ChecklistItem {
	haveFlights := len(flights.Outbound) > 0 && len(flights.Return) > 0
	haveLodging := len(lodging.Destinations) > 0
	for _, d := range lodging.Destinations {
		haveLodging = haveLodging && len(d.Options) > 0
	}
	haveInsurance := len(budget.Insurance) > 0

	items := make([]model.ChecklistItem, 0, len(rules.RequiredDocuments)+len(lodging.Destinations))
	for _, doc := range rules.RequiredDocuments {
		lower := strings.ToLower(doc)
		provided := false
		switch {
		case strings.Contains(lower, "itinerary"):
			provided = haveItinerary
		case strings.Contains(lower, "cover letter"):
			provided = true
		case strings.Contains(lower, "flight"), strings.Contains(lower, "travel bookings"):
			provided = haveFlights
		case strings.Contains(lower, "hotel"), strings.Contains(lower, "accommodation"):
			provided = haveLodging
		case strings.Contains(lower, "insurance"):
			provided = haveInsurance
		}
		items = append(items, model.ChecklistItem{Item: doc, Provided: provided})
	}
	for _, d := range lodging.Destinations {
		items = append(items, model.ChecklistItem{
			Item:     fmt.Sprintf("Accommodation proof for %s (%s to %s)", d.City, d.CheckIn, d.CheckOut),
			Provided: len(d.Options) > 0,
		})
	}
	return items
}

type coverLetterInput struct {
	req     model.TripRequest
	res     model.Resolution
	rules   model.VisaRules
	flights model.FlightSection
}

func (c coverLetterInput) mainApplicant() (string, []string) {
	if len(c.req.Travelers) == 0 {
		return "[Applicant's Full Name]", nil
	}
	names := make([]string, 0, len(c.req.Travelers)-1)
	for _, t := range c.req.Travelers[1:] {
		names = append(names, t.Name)
	}
	return c.req.Travelers[0].Name, names
}

func (c coverLetterInput) flightLine() string {
	if len(c.flights.Outbound) == 0 || len(c.flights.Return) == 0 {
		return ""
	}
	pronoun := "I"
	if len(c.req.Travelers) > 1 {
		pronoun = "We"
	}
	out, back := c.flights.Outbound[0], c.flights.Return[0]
	return fmt.Sprintf("%s plan to arrive via %s flight from %s to %s on %s and depart on %s flight from %s back to %s on %s.",
		pronoun, out.Airline, out.Origin, out.Destination, friendlyDateTime(out.DepartAt),
		back.Airline, back.Origin, back.Destination, friendlyDateTime(back.DepartAt))
}

func (c coverLetterInput) addressee() string {
	return "The Consular Officer, Embassy/Consulate of " + c.res.PrimaryCountry
}

func (c coverLetterInput) prompt() string {
	applicant, others := c.mainApplicant()
	additional := "None specified"
	if len(others) > 0 {
		additional = strings.Join(others, ", ")
	}
	flightLine := c.flightLine()
	if flightLine == "" {
		flightLine = "Reservations are attached."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a cover letter for a %s application.\n\n", c.rules.VisaType)
	b.WriteString("Traveller details:\n")
	fmt.Fprintf(&b, "- Main applicant: %s\n", applicant)
	fmt.Fprintf(&b, "- Additional travellers: %s\n", additional)
	fmt.Fprintf(&b, "- Travel party size: %d\n", len(c.req.Travelers))
	fmt.Fprintf(&b, "- Nationality: %s\n", c.req.Nationality)
	fmt.Fprintf(&b, "- Country of residence: %s\n", c.req.ResidenceCountry)
	fmt.Fprintf(&b, "- Departure city: %s\n", c.req.DepartureCity)
	fmt.Fprintf(&b, "- Destinations: %s\n", strings.Join(c.req.Countries(), ", "))
	fmt.Fprintf(&b, "- Main destination: %s\n", c.res.PrimaryCountry)
	fmt.Fprintf(&b, "- Trip dates: %s to %s\n", c.res.Start.Human(), c.res.End.Human())
	fmt.Fprintf(&b, "- Purpose: %s\n", c.req.Purpose)
	fmt.Fprintf(&b, "- Budget band per person: %s\n", c.req.BudgetBand)
	fmt.Fprintf(&b, "- Flights summary: %s\n\n", flightLine)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Address it to \"%s\".\n", c.addressee())
	b.WriteString("- State the purpose, dates, main destinations and travel companions, referencing the flight summary if provided.\n")
	b.WriteString("- Mention that the applicant will fund the trip and attaches supporting documents.\n")
	b.WriteString("- Refer to bookings as reservations or plans. Do not claim they are ticketed.\n")
	b.WriteString("- Do not invent employers, banks or salaries. Use placeholders such as [Employer] instead.\n")
	b.WriteString("- Polite, clear, neutral tone with a polite closing.\n")
	return b.String()
}

// template is the letter used when no generation provider answers.
func (c coverLetterInput) template() string {
	applicant, others := c.mainApplicant()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", c.addressee())
	fmt.Fprintf(&b, "Subject: %s application for %s\n\n", c.rules.VisaType, applicant)
	b.WriteString("Dear Sir or Madam,\n\n")
	fmt.Fprintf(&b, "I, %s, a %s national residing in %s, respectfully apply for a visa to visit %s from %s to %s for the purpose of %s.",
		applicant, c.req.Nationality, c.req.ResidenceCountry, strings.Join(c.req.Countries(), ", "),
		c.res.Start.Human(), c.res.End.Human(), strings.ToLower(c.req.Purpose))
	if len(others) > 0 {
		fmt.Fprintf(&b, " I will be travelling with %s.", strings.Join(others, ", "))
	}
	b.WriteString("\n\n")
	if line := c.flightLine(); line != "" {
		b.WriteString(line + " ")
	}
	b.WriteString("Flight and hotel reservations, the day-by-day itinerary and proof of travel insurance are enclosed.\n\n")
	b.WriteString("I will fund the trip myself; bank statements and proof of employment at [Employer] are attached. ")
	b.WriteString("I will return to my country of residence at the end of the trip.\n\n")
	fmt.Fprintf(&b, "Yours faithfully,\n%s\n", applicant)
	return b.String()
}
