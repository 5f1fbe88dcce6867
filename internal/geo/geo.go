// Package geo holds the static country tables the pipeline relies on: a
// representative city and primary airport per country, and Schengen
// membership. Lookups are case-insensitive.
package geo

import (
	"regexp"
	"strings"
)

type country struct {
	city    string
	airport string
}

var countries = map[string]country{
	"austria":              {"Vienna", "VIE"},
	"belgium":              {"Brussels", "BRU"},
	"bulgaria":             {"Sofia", "SOF"},
	"croatia":              {"Zagreb", "ZAG"},
	"czechia":              {"Prague", "PRG"},
	"czech republic":       {"Prague", "PRG"},
	"denmark":              {"Copenhagen", "CPH"},
	"estonia":              {"Tallinn", "TLL"},
	"finland":              {"Helsinki", "HEL"},
	"france":               {"Paris", "CDG"},
	"germany":              {"Berlin", "FRA"},
	"greece":               {"Athens", "ATH"},
	"hungary":              {"Budapest", "BUD"},
	"iceland":              {"Reykjavik", "KEF"},
	"italy":                {"Rome", "FCO"},
	"latvia":               {"Riga", "RIX"},
	"liechtenstein":        {"Vaduz", "ZRH"},
	"lithuania":            {"Vilnius", "VNO"},
	"luxembourg":           {"Luxembourg", "LUX"},
	"malta":                {"Valletta", "MLA"},
	"netherlands":          {"Amsterdam", "AMS"},
	"norway":               {"Oslo", "OSL"},
	"poland":               {"Warsaw", "WAW"},
	"portugal":             {"Lisbon", "LIS"},
	"romania":              {"Bucharest", "OTP"},
	"slovakia":             {"Bratislava", "BTS"},
	"slovenia":             {"Ljubljana", "LJU"},
	"spain":                {"Madrid", "MAD"},
	"sweden":               {"Stockholm", "ARN"},
	"switzerland":          {"Zurich", "ZRH"},
	"united kingdom":       {"London", "LHR"},
	"ireland":              {"Dublin", "DUB"},
	"turkey":               {"Istanbul", "IST"},
	"japan":                {"Tokyo", "HND"},
	"united states":        {"New York", "JFK"},
	"canada":               {"Toronto", "YYZ"},
	"australia":            {"Sydney", "SYD"},
	"singapore":            {"Singapore", "SIN"},
	"thailand":             {"Bangkok", "BKK"},
	"united arab emirates": {"Dubai", "DXB"},
	"india":                {"New Delhi", "DEL"},
}

var schengen = map[string]struct{}{
	"austria": {}, "belgium": {}, "bulgaria": {}, "croatia": {}, "czechia": {},
	"czech republic": {}, "denmark": {}, "estonia": {}, "finland": {}, "france": {},
	"germany": {}, "greece": {}, "hungary": {}, "iceland": {}, "italy": {},
	"latvia": {}, "liechtenstein": {}, "lithuania": {}, "luxembourg": {}, "malta": {},
	"netherlands": {}, "norway": {}, "poland": {}, "portugal": {}, "romania": {},
	"slovakia": {}, "slovenia": {}, "spain": {}, "sweden": {}, "switzerland": {},
}

// DefaultAirport is used when a country has no entry in the airport table.
const DefaultAirport = "CDG"

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RepresentativeCity returns the city used for a country when the caller did
// not name one.
func RepresentativeCity(countryName string) (string, bool) {
	c, ok := countries[key(countryName)]
	return c.city, ok
}

// PrimaryAirport returns the main international airport of a country, or
// DefaultAirport.
func PrimaryAirport(countryName string) string {
	if c, ok := countries[key(countryName)]; ok {
		return c.airport
	}
	return DefaultAirport
}

// IsSchengen reports whether the country is in the Schengen area.
func IsSchengen(countryName string) bool {
	_, ok := schengen[key(countryName)]
	return ok
}

// AnySchengen reports whether at least one of the countries is in the
// Schengen area.
func AnySchengen(countryNames []string) bool {
	for _, c := range countryNames {
		if IsSchengen(c) {
			return true
		}
	}
	return false
}

var iataInParens = regexp.MustCompile(`\(([A-Za-z]{3})\)`)

// ExtractIATA pulls an airport code out of free text such as "Delhi (DEL)".
// Without a code in parentheses it falls back to the first three letters of
// the first word, upper-cased.
func ExtractIATA(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if m := iataInParens.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	first := strings.Fields(text)[0]
	if len(first) > 3 {
		first = first[:3]
	}
	return strings.ToUpper(first)
}
