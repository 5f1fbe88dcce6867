package stage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/specialistvlad/visapack/internal/model"
)

// PlaceholderSummary is used for every day the generator did not plan.
const PlaceholderSummary = "Sightseeing and local exploration."

const (
	maxSummarySentences = 2
	maxSummaryWords     = 30
)

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// truncateSummary keeps at most two sentences and thirty words and collapses
// whitespace.
func truncateSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	sentences := sentenceEnd.Split(s, -1)
	marks := sentenceEnd.FindAllStringSubmatch(s, -1)
	if len(sentences) > maxSummarySentences {
		var b strings.Builder
		for i := 0; i < maxSummarySentences; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(sentences[i])
			b.WriteString(marks[i][1])
		}
		s = b.String()
	}
	words := strings.Fields(s)
	if len(words) > maxSummaryWords {
		s = strings.TrimRight(strings.Join(words[:maxSummaryWords], " "), ",;:") + "..."
	}
	return s
}

func themedActivities(city, theme string) []string {
	if city == "" {
		city = "the city"
	}
	lower := strings.ToLower(strings.TrimSpace(theme))
	switch {
	case strings.Contains(lower, "food") || strings.Contains(lower, "gastronomic"):
		return []string{
			fmt.Sprintf("Guided food tour sampling bakeries and markets around %s.", city),
			"Reserve a chef-led tasting menu or cooking class highlighting regional dishes.",
		}
	case strings.Contains(lower, "history") || strings.Contains(lower, "culture") || strings.Contains(lower, "grand"):
		return []string{
			fmt.Sprintf("Morning museum and landmark circuit through %s with guided commentary.", city),
			"Evening heritage walk plus classical performance or gallery visit.",
		}
	case lower != "":
		return []string{
			fmt.Sprintf("Activities tailored to '%s' in %s: curated tours, workshops, or local meetups.", theme, city),
			fmt.Sprintf("Free time to pursue personal interests connected to '%s'.", theme),
		}
	default:
		return []string{
			fmt.Sprintf("Explore iconic sights and neighborhoods around %s at a comfortable pace.", city),
			"Enjoy local cafes, markets, and a sunset viewpoint or river cruise.",
		}
	}
}

func transportNote(prevCity, city string) string {
	if strings.EqualFold(prevCity, city) {
		return "Local transit / walking day."
	}
	return fmt.Sprintf("Travel from %s to %s via train or short intra-Europe flight.", prevCity, city)
}

// formatMoney renders 125000 INR as "INR 125,000".
func formatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = "INR"
	}
	return message.NewPrinter(language.English).Sprintf("%s %d", currency, int64(amount+0.5))
}

func formatHotel(h model.HotelOption) string {
	return fmt.Sprintf("%s (%s/night)", h.Name, formatMoney(h.PricePerNight, h.Currency))
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// friendlyDateTime turns "2025-12-05T09:30" into "Friday Dec 05 2025 at 9:30 AM".
// Values it cannot parse are returned unchanged.
func friendlyDateTime(v string) string {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("Monday Jan 02 2006") + " at " + t.Format("3:04 PM")
		}
	}
	return v
}
