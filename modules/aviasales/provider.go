package aviasales

import (
	"context"
	"fmt"
	"sort"
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
	// DefaultBaseURL is the Travelpayouts data API.
	DefaultBaseURL = "https://api.travelpayouts.com"

	cheapPath = "/v1/prices/cheap"
)

// Provider queries cached cheapest fares. One cached fare yields an outbound
// and, when it has a return leg, a return option.
type Provider struct {
	name       string
	client     *resty.Client
	token      string
	marker     string
	currency   string
	maxResults int
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxResults, err := strconv.Atoi(def.Option("max_results", "3"))
	if err != nil || maxResults < 1 {
		return nil, fmt.Errorf("aviasales: max_results must be a positive integer, got %q", def.Options["max_results"])
	}
	return &Provider{
		name:       def.Name,
		client:     http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		token:      def.APIKey,
		marker:     def.Option("marker", ""),
		currency:   strings.ToLower(def.Option("currency", fx.Base)),
		maxResults: maxResults,
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityFlight }

type cheapResponse struct {
	Success bool                            `json:"success"`
	Error   string                          `json:"error"`
	Data    map[string]map[string]cheapFare `json:"data"`
}

type cheapFare struct {
	Price        float64 `json:"price"`
	Airline      string  `json:"airline"`
	FlightNumber int     `json:"flight_number"`
	DepartureAt  string  `json:"departure_at"`
	ReturnAt     string  `json:"return_at"`
}

// Call looks up the cheapest cached fares for a model.FlightQuery.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	q, ok := req.(model.FlightQuery)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}

	params := map[string]string{
		"origin":      q.Origin,
		"destination": q.Destination,
		"depart_date": q.DepartDate.Time().Format("2006-01"),
		"return_date": q.ReturnDate.Time().Format("2006-01"),
		"currency":    p.currency,
		"token":       p.token,
	}
	if p.marker != "" {
		params["marker"] = p.marker
	}

	var out cheapResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get(cheapPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}
	if !out.Success && out.Error != "" {
		return nil, fmt.Errorf("%s: %s", p.name, out.Error)
	}

	return p.toOptions(q, out.Data), nil
}

func (p *Provider) toOptions(q model.FlightQuery, data map[string]map[string]cheapFare) model.FlightOptions {
	var fares []cheapFare
	for _, byStops := range data {
		for _, fare := range byStops {
			fares = append(fares, fare)
		}
	}
	sort.SliceStable(fares, func(i, j int) bool { return fares[i].Price < fares[j].Price })
	if len(fares) > p.maxResults {
		fares = fares[:p.maxResults]
	}

	var options model.FlightOptions
	for _, fare := range fares {
		price := fx.ToBase(fare.Price, p.currency)
		flightNumber := ""
		if fare.FlightNumber > 0 {
			flightNumber = fmt.Sprintf("%s%d", fare.Airline, fare.FlightNumber)
		}
		options = append(options, model.FlightOption{
			Direction:    model.Outbound,
			Airline:      fare.Airline,
			FlightNumber: flightNumber,
			Origin:       q.Origin,
			Destination:  q.Destination,
			DepartAt:     fare.DepartureAt,
			Price:        price,
			Currency:     fx.Base,
			BookingURL:   searchURL(q.Origin, q.Destination, fare.DepartureAt),
		})
		if fare.ReturnAt == "" {
			continue
		}
		returnOrigin := q.ReturnOrigin
		if returnOrigin == "" {
			returnOrigin = q.Destination
		}
		options = append(options, model.FlightOption{
			Direction:   model.Return,
			Airline:     fare.Airline,
			Origin:      returnOrigin,
			Destination: q.Origin,
			DepartAt:    fare.ReturnAt,
			Price:       price,
			Currency:    fx.Base,
			BookingURL:  searchURL(returnOrigin, q.Origin, fare.ReturnAt),
		})
	}
	return options
}

// searchURL links to the Aviasales search page for a route and day, e.g.
// https://www.aviasales.com/search/DELCDG20251205.
func searchURL(origin, destination, departAt string) string {
	day, _, _ := strings.Cut(departAt, "T")
	return fmt.Sprintf("https://www.aviasales.com/search/%s%s%s", origin, destination, strings.ReplaceAll(day, "-", ""))
}
