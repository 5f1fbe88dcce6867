package render

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/model"
)

// Markdown renders the pack as a Markdown brief.
func Markdown(pack *model.TravelPack) string {
	var b strings.Builder
	p := func(format string, args ...any) { fmt.Fprintf(&b, format, args...) }

	p("# Travel pack: %s\n\n", primaryLine(pack.Primary))
	p("Run `%s`, generated %s. Status: **%s**.\n\n", pack.RunID, pack.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), pack.Status)

	p("## Trip\n\n")
	table(&b, []string{"Field", "Value"}, [][]string{
		{"Dates", fmt.Sprintf("%s to %s (%d nights)", pack.Start.Human(), pack.End.Human(), pack.TotalNights)},
		{"Travelers", travelerNames(pack)},
		{"Purpose", pack.Purpose},
		{"Primary destination", primaryLine(pack.Primary)},
	})

	p("## Destinations\n\n")
	rows := make([][]string, 0, len(pack.Destinations))
	for i, d := range pack.Destinations {
		rows = append(rows, []string{fmt.Sprint(i + 1), d.Country, d.City, d.CheckIn.String(), d.CheckOut.String(), fmt.Sprint(d.Nights)})
	}
	table(&b, []string{"#", "Country", "City", "Check-in", "Check-out", "Nights"}, rows)

	p("## Flights\n\n")
	if pack.Flights.Degraded {
		p("_Live fares unavailable, showing placeholder options (confidence %s)._\n\n", pack.Flights.Confidence)
	}
	rows = rows[:0]
	for _, f := range append(append([]model.FlightOption{}, pack.Flights.Outbound...), pack.Flights.Return...) {
		rows = append(rows, []string{string(f.Direction), f.Airline, f.FlightNumber, route(f), f.DepartAt, money(f.Price, f.Currency), link(f.BookingURL)})
	}
	table(&b, []string{"Direction", "Airline", "Flight", "Route", "Departs", "Price", "Book"}, rows)

	p("## Lodging\n\n")
	for _, d := range pack.Lodging.Destinations {
		p("### %s, %s (%s to %s)\n\n", d.City, d.Country, d.CheckIn, d.CheckOut)
		if d.Degraded {
			p("_Live availability unavailable, showing placeholder options._\n\n")
		}
		rows = rows[:0]
		for _, h := range d.Options {
			rows = append(rows, []string{h.Name, fmt.Sprintf("%.1f", h.Rating), money(h.PricePerNight, h.Currency), link(h.BookingURL)})
		}
		table(&b, []string{"Hotel", "Rating", "Per night", "Book"}, rows)
	}

	p("## Budget\n\n")
	bs := pack.Budget
	table(&b, []string{"Band", "Per person", "Total"}, [][]string{
		{string(bs.Band), budgetRange(bs, bs.PerPersonMin, bs.PerPersonMax), budgetRange(bs, bs.TotalMin, bs.TotalMax)},
	})
	if len(bs.Insurance) > 0 {
		p("Insurance:\n\n")
		for _, ins := range bs.Insurance {
			cover := "cover not stated"
			if ins.CoverageEUR > 0 {
				cover = "cover EUR " + numbers.Sprintf("%d", ins.CoverageEUR)
			}
			p("- %s %s, %s\n", ins.Provider, ins.Plan, cover)
		}
		p("\n")
	}

	p("## Itinerary\n\n")
	for _, d := range pack.Itinerary.Days {
		p("### %s, %s\n\n", d.Date, d.City)
		if d.Summary != "" {
			p("%s\n\n", d.Summary)
		}
		for _, a := range d.Activities {
			p("- %s\n", a)
		}
		if d.Transport != "" {
			p("- Transport: %s\n", d.Transport)
		}
		p("\n")
	}

	p("## Visa\n\n")
	p("%s via %s.\n\n", pack.Visa.VisaType, pack.Visa.Consulate)
	for _, n := range pack.Visa.Notes {
		p("- %s\n", n)
	}
	if len(pack.Visa.Notes) > 0 {
		p("\n")
	}

	p("## Document checklist\n\n")
	for _, item := range pack.Documents.Checklist {
		mark := " "
		if item.Provided {
			mark = "x"
		}
		p("- [%s] %s\n", mark, item.Item)
	}
	p("\n")

	p("## Cover letter\n\n```text\n%s\n```\n", strings.TrimSpace(pack.Documents.CoverLetter))

	if len(pack.Violations) > 0 {
		p("\n## Validation issues\n\n")
		for _, v := range pack.Violations {
			p("- %s\n", v)
		}
	}
	return b.String()
}

func table(b *strings.Builder, header []string, rows [][]string) {
	line := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" " + cell(c) + " |")
		}
		b.WriteString("\n")
	}
	line(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	line(sep)
	for _, r := range rows {
		line(r)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func link(url string) string {
	if url == "" {
		return ""
	}
	return "[link](" + url + ")"
}
