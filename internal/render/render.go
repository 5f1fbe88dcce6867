package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/specialistvlad/visapack/internal/model"
)

// Format selects the output document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts json, markdown (or md) and pdf, case-insensitively. An
// empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, markdown or pdf)", s)
}

// ContentType is the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json; charset=utf-8"
}

// Extension is the conventional file extension, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Write renders pack to w in the given format.
func Write(w io.Writer, pack *model.TravelPack, f Format) error {
	if pack == nil {
		return fmt.Errorf("render: nil pack")
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pack)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(pack))
		return err
	case FormatPDF:
		return PDF(w, pack)
	}
	return fmt.Errorf("render: unknown format %q", f)
}

var numbers = message.NewPrinter(language.English)

// money formats whole currency units with thousands separators.
func money(amount float64, currency string) string {
	if currency == "" {
		currency = "INR"
	}
	return numbers.Sprintf("%s %d", currency, int64(amount+0.5))
}

func budgetRange(b model.BudgetSection, lo, hi int) string {
	if hi == 0 {
		return money(float64(lo), b.Currency) + "+"
	}
	return money(float64(lo), b.Currency) + " to " + numbers.Sprintf("%d", hi)
}

func travelerNames(pack *model.TravelPack) string {
	names := make([]string, 0, len(pack.Travelers))
	for _, t := range pack.Travelers {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func primaryLine(p model.PrimaryDestination) string {
	s := p.Country
	if p.City != "" {
		s += " (" + p.City + ")"
	}
	if p.Ambiguous {
		s += ", tie between " + strings.Join(p.Tied, " and ")
	}
	return s
}

func route(f model.FlightOption) string {
	return f.Origin + " to " + f.Destination
}
