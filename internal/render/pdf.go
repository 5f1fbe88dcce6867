package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/specialistvlad/visapack/internal/model"
)

const lineHeight = 6.0

// PDF renders a printable A4 pack.
func PDF(w io.Writer, pack *model.TravelPack) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Travel pack "+pack.RunID, true)
	pdf.SetCreationDate(pack.GeneratedAt)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	heading := func(s string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, tr(s))
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
	}
	text := func(s string) {
		pdf.MultiCell(0, lineHeight, tr(s), "", "", false)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("Travel pack: "+primaryLine(pack.Primary)))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	text(fmt.Sprintf("Run %s, status %s", pack.RunID, pack.Status))
	text(fmt.Sprintf("Dates: %s to %s (%d nights)", pack.Start.Human(), pack.End.Human(), pack.TotalNights))
	text("Travelers: " + travelerNames(pack))
	text("Purpose: " + pack.Purpose)

	heading("Destinations")
	for i, d := range pack.Destinations {
		text(fmt.Sprintf("%d. %s, %s: %s to %s, %d nights", i+1, d.City, d.Country, d.CheckIn, d.CheckOut, d.Nights))
	}

	heading("Flights")
	for _, f := range append(append([]model.FlightOption{}, pack.Flights.Outbound...), pack.Flights.Return...) {
		text(fmt.Sprintf("%s: %s %s, %s, departs %s, %s", f.Direction, f.Airline, f.FlightNumber, route(f), f.DepartAt, money(f.Price, f.Currency)))
	}

	heading("Lodging")
	for _, d := range pack.Lodging.Destinations {
		pdf.SetFont("Helvetica", "B", 10)
		text(fmt.Sprintf("%s (%s to %s)", d.City, d.CheckIn, d.CheckOut))
		pdf.SetFont("Helvetica", "", 10)
		for _, h := range d.Options {
			text(fmt.Sprintf("- %s, %s per night", h.Name, money(h.PricePerNight, h.Currency)))
		}
	}

	heading("Budget")
	bs := pack.Budget
	text(fmt.Sprintf("%s band: %s per person, %s in total", bs.Band,
		budgetRange(bs, bs.PerPersonMin, bs.PerPersonMax), budgetRange(bs, bs.TotalMin, bs.TotalMax)))

	heading("Itinerary")
	for _, d := range pack.Itinerary.Days {
		pdf.SetFont("Helvetica", "B", 10)
		text(fmt.Sprintf("%s, %s", d.Date.Human(), d.City))
		pdf.SetFont("Helvetica", "", 10)
		if d.Summary != "" {
			text(d.Summary)
		}
		if len(d.Activities) > 0 {
			text(strings.Join(d.Activities, "; "))
		}
	}

	heading("Document checklist")
	for _, item := range pack.Documents.Checklist {
		mark := "[ ]"
		if item.Provided {
			mark = "[x]"
		}
		text(mark + " " + item.Item)
	}

	pdf.AddPage()
	heading("Cover letter")
	text(strings.TrimSpace(pack.Documents.CoverLetter))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
