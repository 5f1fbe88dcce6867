// Package resolver derives the primary destination and the trip's date
// geometry from the destination list. It is a pure function of its inputs.
package resolver

import (
	"strings"

	"github.com/specialistvlad/visapack/internal/geo"
	"github.com/specialistvlad/visapack/internal/model"
)

// Resolve picks the primary destination and computes every date range.
//
// An override must name one of the listed countries. Without an override the
// country with the most nights wins; on a tie the first in visiting order wins
// and the result is flagged ambiguous with the full tied set.
func Resolve(destinations []model.Destination, start model.Date, override *model.PrimaryOverride) (model.Resolution, error) {
	if len(destinations) == 0 {
		return model.Resolution{}, model.ErrEmptyDestinationList
	}

	res := model.Resolution{Start: start}

	primaryIdx := -1
	if override != nil && strings.TrimSpace(override.Country) != "" {
		primaryIdx = indexOfCountry(destinations, override.Country)
		if primaryIdx < 0 {
			return model.Resolution{}, &model.InvalidPrimaryDestinationError{
				Country: override.Country,
				Listed:  countries(destinations),
			}
		}
	} else {
		var tied []string
		primaryIdx, tied = mostNights(destinations)
		if len(tied) > 1 {
			res.Ambiguous = true
			res.Tied = tied
		}
	}

	primary := destinations[primaryIdx]
	res.PrimaryCountry = primary.Country
	res.PrimaryCity = primaryCity(primary, override)

	cursor := start
	for _, d := range destinations {
		checkOut := cursor.AddDays(d.Nights)
		res.Ranges = append(res.Ranges, model.DestinationRange{
			Country:  d.Country,
			City:     cityOf(d),
			Nights:   d.Nights,
			CheckIn:  cursor,
			CheckOut: checkOut,
		})
		res.TotalNights += d.Nights
		cursor = checkOut
	}
	res.End = start.AddDays(res.TotalNights)

	return res, nil
}

// mostNights returns the index of the first destination with the maximum
// nights and the distinct countries sharing that maximum, in visiting order.
func mostNights(destinations []model.Destination) (int, []string) {
	best := -1
	for i, d := range destinations {
		if best < 0 || d.Nights > destinations[best].Nights {
			best = i
		}
	}

	var tied []string
	for _, d := range destinations {
		if d.Nights != destinations[best].Nights {
			continue
		}
		if !containsFold(tied, d.Country) {
			tied = append(tied, d.Country)
		}
	}
	return best, tied
}

func primaryCity(primary model.Destination, override *model.PrimaryOverride) string {
	if override != nil && strings.TrimSpace(override.City) != "" {
		return strings.TrimSpace(override.City)
	}
	return cityOf(primary)
}

// cityOf returns the caller's city, the country's representative city, or
// the country name itself.
func cityOf(d model.Destination) string {
	if c := strings.TrimSpace(d.City); c != "" {
		return c
	}
	if c, ok := geo.RepresentativeCity(d.Country); ok {
		return c
	}
	return d.Country
}

func indexOfCountry(destinations []model.Destination, country string) int {
	for i, d := range destinations {
		if strings.EqualFold(strings.TrimSpace(d.Country), strings.TrimSpace(country)) {
			return i
		}
	}
	return -1
}

func countries(destinations []model.Destination) []string {
	out := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if !containsFold(out, d.Country) {
			out = append(out, d.Country)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
