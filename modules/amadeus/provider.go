package amadeus

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/modules/fx"
	"github.com/specialistvlad/visapack/modules/http_client"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the Amadeus test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	// maxAdvanceDays is how far ahead the test environment has inventory.
	maxAdvanceDays = 330

	// tokenSkew renews the token this long before it actually expires.
	tokenSkew = 60 * time.Second
)

// Provider is an Amadeus flight offers client. It caches its access token and
// is safe for concurrent use.
type Provider struct {
	name       string
	client     *resty.Client
	clientID   string
	secret     string
	currency   string
	maxResults int
	bookingURL string
	now        func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxResults, err := strconv.Atoi(def.Option("max_results", "6"))
	if err != nil || maxResults < 1 {
		return nil, fmt.Errorf("amadeus: max_results must be a positive integer, got %q", def.Options["max_results"])
	}
	return &Provider{
		name:       def.Name,
		client:     http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		clientID:   def.APIKey,
		secret:     def.APISecret,
		currency:   def.Option("currency", fx.Base),
		maxResults: maxResults,
		bookingURL: def.Option("booking_url", "https://www.amadeus.com"),
		now:        time.Now,
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityFlight }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns the cached token, fetching a new one when it is about
// to expire.
func (p *Provider) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expires) {
		return p.token, nil
	}

	var out tokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     p.clientID,
			"client_secret": p.secret,
		}).
		SetResult(&out).
		Post(tokenPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%s: token response carried no access_token", p.name)
	}

	p.token = out.AccessToken
	p.expires = p.now().Add(time.Duration(out.ExpiresIn)*time.Second - tokenSkew)
	return p.token, nil
}

type offersResponse struct {
	Data []offer `json:"data"`
}

type offer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Segments []segment `json:"segments"`
	} `json:"itineraries"`
}

type segment struct {
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Departure   struct {
		IATACode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IATACode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
}

// Call searches round-trip offers for a model.FlightQuery. A query whose
// return leaves from another airport is sent as a multi-city search.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	q, ok := req.(model.FlightQuery)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	depart, ret := clampDates(q.DepartDate, q.ReturnDate, model.DateOf(p.now()))
	if q.ReturnOrigin != "" && q.ReturnOrigin != q.Destination {
		return p.searchOpenJaw(ctx, token, q, depart, ret)
	}

	var out offersResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"originLocationCode":      q.Origin,
			"destinationLocationCode": q.Destination,
			"departureDate":           depart.String(),
			"returnDate":              ret.String(),
			"adults":                  strconv.Itoa(max(1, q.Adults)),
			"max":                     strconv.Itoa(p.maxResults),
			"currencyCode":            p.currency,
		}).
		SetResult(&out).
		Get(offersPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	return p.toOptions(out.Data), nil
}

type searchRequest struct {
	CurrencyCode       string              `json:"currencyCode"`
	OriginDestinations []originDestination `json:"originDestinations"`
	Travelers          []traveler          `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     searchCriteria      `json:"searchCriteria"`
}

type originDestination struct {
	ID                      string        `json:"id"`
	OriginLocationCode      string        `json:"originLocationCode"`
	DestinationLocationCode string        `json:"destinationLocationCode"`
	DepartureDateTimeRange  dateTimeRange `json:"departureDateTimeRange"`
}

type dateTimeRange struct {
	Date string `json:"date"`
}

type traveler struct {
	ID           string `json:"id"`
	TravelerType string `json:"travelerType"`
}

type searchCriteria struct {
	MaxFlightOffers int `json:"maxFlightOffers"`
}

// searchOpenJaw asks for a two-leg itinerary whose return leaves from the
// last destination instead of the first.
func (p *Provider) searchOpenJaw(ctx context.Context, token string, q model.FlightQuery, depart, ret model.Date) (gateway.Payload, error) {
	body := searchRequest{
		CurrencyCode: p.currency,
		OriginDestinations: []originDestination{
			{ID: "1", OriginLocationCode: q.Origin, DestinationLocationCode: q.Destination, DepartureDateTimeRange: dateTimeRange{Date: depart.String()}},
			{ID: "2", OriginLocationCode: q.ReturnOrigin, DestinationLocationCode: q.Origin, DepartureDateTimeRange: dateTimeRange{Date: ret.String()}},
		},
		Sources:        []string{"GDS"},
		SearchCriteria: searchCriteria{MaxFlightOffers: p.maxResults},
	}
	for i := range max(1, q.Adults) {
		body.Travelers = append(body.Travelers, traveler{ID: strconv.Itoa(i + 1), TravelerType: "ADULT"})
	}

	var out offersResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("X-HTTP-Method-Override", "GET").
		SetBody(body).
		SetResult(&out).
		Post(offersPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	return p.toOptions(out.Data), nil
}

func (p *Provider) toOptions(offers []offer) model.FlightOptions {
	var options model.FlightOptions
	for _, o := range offers {
		if len(options) >= 2*p.maxResults {
			break
		}
		total, err := strconv.ParseFloat(o.Price.GrandTotal, 64)
		if err != nil {
			total = 0
		}
		price := fx.ToBase(total, o.Price.Currency)
		for i, itinerary := range o.Itineraries {
			if len(itinerary.Segments) == 0 || i > 1 {
				continue
			}
			first, last := itinerary.Segments[0], itinerary.Segments[len(itinerary.Segments)-1]
			direction := model.Outbound
			if i == 1 {
				direction = model.Return
			}
			options = append(options, model.FlightOption{
				Direction:    direction,
				Airline:      first.CarrierCode,
				FlightNumber: first.CarrierCode + first.Number,
				Origin:       first.Departure.IATACode,
				Destination:  last.Arrival.IATACode,
				DepartAt:     first.Departure.At,
				ArriveAt:     last.Arrival.At,
				Stops:        len(itinerary.Segments) - 1,
				Price:        price,
				Currency:     fx.Base,
				BookingURL:   p.bookingURL,
			})
		}
	}
	return options
}

// clampDates moves a trip that starts beyond the test inventory window back
// inside it, keeping its length. The return is at least one day after the
// departure.
func clampDates(depart, ret, today model.Date) (model.Date, model.Date) {
	latest := today.AddDays(maxAdvanceDays)
	if depart.After(latest) {
		length := max(depart.DaysUntil(ret), 1)
		depart = latest
		ret = depart.AddDays(length)
	}
	if !ret.After(depart) {
		ret = depart.AddDays(1)
	}
	return depart, ret
}
