package hotelbeds

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
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
	// DefaultBaseURL is the Hotelbeds test environment.
	DefaultBaseURL = "https://api.test.hotelbeds.com"

	availabilityPath = "/hotel-api/1.0/hotels"
)

// destinationCodes maps cities and countries to Hotelbeds destination codes.
var destinationCodes = map[string]string{
	"paris":       "PAR",
	"france":      "PAR",
	"amsterdam":   "AMS",
	"netherlands": "AMS",
	"berlin":      "BER",
	"germany":     "BER",
	"madrid":      "MAD",
	"spain":       "MAD",
	"rome":        "ROM",
	"italy":       "ROM",
	"vienna":      "VIE",
	"austria":     "VIE",
	"lisbon":      "LIS",
	"portugal":    "LIS",
	"athens":      "ATH",
	"greece":      "ATH",
	"prague":      "PRG",
	"czechia":     "PRG",
}

// Provider is a Hotelbeds availability client.
type Provider struct {
	name      string
	client    *resty.Client
	apiKey    string
	secret    string
	maxHotels int
	now       func() time.Time
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxHotels, err := strconv.Atoi(def.Option("max_hotels", "4"))
	if err != nil || maxHotels < 1 {
		return nil, fmt.Errorf("hotelbeds: max_hotels must be a positive integer, got %q", def.Options["max_hotels"])
	}
	return &Provider{
		name:      def.Name,
		client:    http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		apiKey:    def.APIKey,
		secret:    def.APISecret,
		maxHotels: maxHotels,
		now:       time.Now,
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityLodging }

// signature is the X-Signature header: the hex SHA-256 of key, secret and the
// current Unix time in seconds.
func signature(apiKey, secret string, at time.Time) string {
	sum := sha256.Sum256([]byte(apiKey + secret + strconv.FormatInt(at.Unix(), 10)))
	return hex.EncodeToString(sum[:])
}

// destinationCode resolves the Hotelbeds code for a city, then its country,
// then falls back to the first three letters of the city.
func destinationCode(city, country string) string {
	for _, name := range []string{city, country} {
		if code, ok := destinationCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
			return code
		}
	}
	letters := strings.ToUpper(strings.ReplaceAll(city, " ", ""))
	if len(letters) > 3 {
		letters = letters[:3]
	}
	return letters
}

type availabilityRequest struct {
	Stay struct {
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
	} `json:"stay"`
	Occupancies []occupancy `json:"occupancies"`
	Destination struct {
		Code string `json:"code"`
		Type string `json:"type"`
	} `json:"destination"`
	Filter struct {
		MaxHotels int `json:"maxHotels"`
	} `json:"filter"`
}

type occupancy struct {
	Rooms    int `json:"rooms"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type availabilityResponse struct {
	Hotels struct {
		Hotels []hotel `json:"hotels"`
	} `json:"hotels"`
}

type hotel struct {
	Code            int    `json:"code"`
	Name            string `json:"name"`
	DestinationName string `json:"destinationName"`
	CategoryName    string `json:"categoryName"`
	Currency        string `json:"currency"`
	MinRate         string `json:"minRate"`
	Address         struct {
		Content string `json:"content"`
	} `json:"address"`
	Rooms []struct {
		Rates []struct {
			Net       string `json:"net"`
			BoardName string `json:"boardName"`
		} `json:"rates"`
	} `json:"rooms"`
}

// Call searches availability for a model.LodgingQuery.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	q, ok := req.(model.LodgingQuery)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}

	var body availabilityRequest
	body.Stay.CheckIn = q.CheckIn.String()
	body.Stay.CheckOut = q.CheckOut.String()
	body.Occupancies = []occupancy{{Rooms: 1, Adults: max(1, q.Adults)}}
	body.Destination.Code = destinationCode(q.City, q.Country)
	body.Destination.Type = "SIMPLE"
	body.Filter.MaxHotels = p.maxHotels

	var out availabilityResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Api-key", p.apiKey).
		SetHeader("X-Signature", signature(p.apiKey, p.secret, p.now())).
		SetBody(body).
		SetResult(&out).
		Post(availabilityPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	nights := max(1, q.Nights())
	var options model.LodgingOptions
	for _, h := range out.Hotels.Hotels {
		if h.Name == "" || len(options) >= p.maxHotels {
			continue
		}
		options = append(options, model.HotelOption{
			Name:          h.Name,
			City:          cityOf(h, q.City),
			Address:       h.Address.Content,
			PricePerNight: fx.ToBase(stayPrice(h), h.Currency) / float64(nights),
			Currency:      fx.Base,
			BookingURL:    fmt.Sprintf("https://www.hotelbeds.com/hotels/%d", h.Code),
		})
	}
	return options, nil
}

// stayPrice is the first room's first net rate, or the hotel minimum rate.
func stayPrice(h hotel) float64 {
	raw := h.MinRate
	if len(h.Rooms) > 0 && len(h.Rooms[0].Rates) > 0 && h.Rooms[0].Rates[0].Net != "" {
		raw = h.Rooms[0].Rates[0].Net
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func cityOf(h hotel, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return h.DestinationName
}
