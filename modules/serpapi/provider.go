package serpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/modules/fx"
	"github.com/specialistvlad/visapack/modules/http_client"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the SerpApi endpoint host.
	DefaultBaseURL = "https://serpapi.com"

	searchPath = "/search"

	defaultHotelsLink = "https://www.google.com/travel/hotels"
)

// Provider is a SerpApi Google Hotels client.
type Provider struct {
	name       string
	client     *resty.Client
	apiKey     string
	currency   string
	language   string
	maxResults int
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxResults, err := strconv.Atoi(def.Option("max_results", "2"))
	if err != nil || maxResults < 1 {
		return nil, fmt.Errorf("serpapi: max_results must be a positive integer, got %q", def.Options["max_results"])
	}
	return &Provider{
		name:       def.Name,
		client:     http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		apiKey:     def.APIKey,
		currency:   def.Option("currency", fx.Base),
		language:   def.Option("language", "en"),
		maxResults: maxResults,
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityLodging }

type searchResponse struct {
	Error         string     `json:"error"`
	Properties    []property `json:"properties"`
	HotelsResults []property `json:"hotels_results"`
}

type property struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Link           string  `json:"link"`
	DetailsLink    string  `json:"serpapi_property_details_link"`
	Description    string  `json:"description"`
	Address        string  `json:"address"`
	OverallRating  float64 `json:"overall_rating"`
	ExtractedPrice float64 `json:"extracted_price"`
	RatePerNight   struct {
		ExtractedLowest          float64 `json:"extracted_lowest"`
		ExtractedBeforeTaxesFees float64 `json:"extracted_before_taxes_fees"`
	} `json:"rate_per_night"`
}

// Call searches hotels in the query's city.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	q, ok := req.(model.LodgingQuery)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}

	checkOut := q.CheckOut
	if !checkOut.After(q.CheckIn) {
		checkOut = q.CheckIn.AddDays(1)
	}

	var out searchResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":         "google_hotels",
			"q":              strings.TrimSpace(q.City + ", " + q.Country),
			"check_in_date":  q.CheckIn.String(),
			"check_out_date": checkOut.String(),
			"adults":         strconv.Itoa(max(1, q.Adults)),
			"currency":       p.currency,
			"hl":             p.language,
			"api_key":        p.apiKey,
		}).
		SetResult(&out).
		Get(searchPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%s: %s", p.name, out.Error)
	}

	entries := out.Properties
	if len(entries) == 0 {
		entries = out.HotelsResults
	}

	var options model.LodgingOptions
	for _, e := range entries {
		if len(options) >= p.maxResults {
			break
		}
		if e.Name == "" {
			continue
		}
		options = append(options, model.HotelOption{
			Name:          e.Name,
			City:          q.City,
			Address:       firstNonEmpty(e.Address, e.Description, q.City+", "+q.Country),
			PricePerNight: fx.ToBase(nightly(e), p.currency),
			Currency:      fx.Base,
			Rating:        e.OverallRating,
			BookingURL:    firstNonEmpty(e.Link, e.DetailsLink, defaultHotelsLink),
		})
	}
	return options, nil
}

// nightly picks the first price SerpApi reports, preferring the lowest
// nightly rate.
func nightly(e property) float64 {
	for _, v := range []float64{e.RatePerNight.ExtractedLowest, e.RatePerNight.ExtractedBeforeTaxesFees, e.ExtractedPrice} {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
