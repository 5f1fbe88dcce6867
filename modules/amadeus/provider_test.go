package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offersJSON = `{
  "data": [{
    "price": {"grandTotal": "600.00", "currency": "EUR"},
    "itineraries": [
      {"segments": [
        {"carrierCode": "AF", "number": "225", "departure": {"iataCode": "DEL", "at": "2025-12-05T09:30:00"}, "arrival": {"iataCode": "CDG", "at": "2025-12-05T15:10:00"}}
      ]},
      {"segments": [
        {"carrierCode": "AF", "number": "1780", "departure": {"iataCode": "CDG", "at": "2025-12-10T11:00:00"}, "arrival": {"iataCode": "AMS", "at": "2025-12-10T12:20:00"}},
        {"carrierCode": "KL", "number": "871", "departure": {"iataCode": "AMS", "at": "2025-12-10T14:00:00"}, "arrival": {"iataCode": "DEL", "at": "2025-12-11T01:30:00"}}
      ]}
    ]
  }]
}`

type fakeAmadeus struct {
	tokenCalls  atomic.Int32
	offersCalls atomic.Int32
	lastQuery   atomic.Value
	lastSearch  atomic.Value
	offersBody  string
}

func (f *fakeAmadeus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case tokenPath:
		f.tokenCalls.Add(1)
		_ = r.ParseForm()
		if r.PostForm.Get("client_id") != "id" || r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":1799}`))
	case offersPath:
		f.offersCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method == http.MethodPost {
			var body searchRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.lastSearch.Store(body)
		} else {
			f.lastQuery.Store(r.URL.Query())
		}
		_, _ = w.Write([]byte(f.offersBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newProvider(t *testing.T, srv *httptest.Server, secret string) *Provider {
	t.Helper()
	p, err := New(&config.ProviderDefinition{
		Name:       "amadeus",
		Kind:       Kind,
		Capability: model.CapabilityFlight,
		BaseURL:    srv.URL,
		APIKey:     "id",
		APISecret:  secret,
	}, registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)
	provider := p.(*Provider)
	provider.now = func() time.Time { return time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC) }
	return provider
}

func query() model.FlightQuery {
	return model.FlightQuery{
		Origin:       "DEL",
		Destination:  "CDG",
		ReturnOrigin: "CDG",
		DepartDate:   model.MustParseDate("2025-12-05"),
		ReturnDate:   model.MustParseDate("2025-12-10"),
		Adults:       2,
		Band:         model.BudgetMedium,
	}
}

func TestProvider_Call(t *testing.T) {
	t.Parallel()

	// Arrange
	fake := &fakeAmadeus{offersBody: offersJSON}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	p := newProvider(t, srv, "secret")

	// Act
	payload, err := p.Call(context.Background(), query())

	// Assert
	require.NoError(t, err)
	options, ok := payload.(model.FlightOptions)
	require.True(t, ok)
	require.Len(t, options, 2)

	out, ret := options[0], options[1]
	assert.Equal(t, model.Outbound, out.Direction)
	assert.Equal(t, "AF225", out.FlightNumber)
	assert.Equal(t, "DEL", out.Origin)
	assert.Equal(t, "CDG", out.Destination)
	assert.Equal(t, 0, out.Stops)
	assert.InDelta(t, 54000.0, out.Price, 0.01)
	assert.Equal(t, "INR", out.Currency)

	assert.Equal(t, model.Return, ret.Direction)
	assert.Equal(t, "DEL", ret.Destination)
	assert.Equal(t, 1, ret.Stops)
	assert.Equal(t, "2025-12-11T01:30:00", ret.ArriveAt)

	q := fake.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"2"}, q["adults"])
	assert.Equal(t, []string{"2025-12-05"}, q["departureDate"])
}

func TestProvider_CallOpenJaw(t *testing.T) {
	t.Parallel()

	// Arrange
	fake := &fakeAmadeus{offersBody: offersJSON}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	p := newProvider(t, srv, "secret")
	q := query()
	q.ReturnOrigin = "FCO"

	// Act
	payload, err := p.Call(context.Background(), q)

	// Assert
	require.NoError(t, err)
	require.Len(t, payload.(model.FlightOptions), 2)
	assert.Nil(t, fake.lastQuery.Load(), "open-jaw trips must not use the round-trip search")

	body, ok := fake.lastSearch.Load().(searchRequest)
	require.True(t, ok)
	require.Len(t, body.OriginDestinations, 2)
	out, ret := body.OriginDestinations[0], body.OriginDestinations[1]
	assert.Equal(t, "DEL", out.OriginLocationCode)
	assert.Equal(t, "CDG", out.DestinationLocationCode)
	assert.Equal(t, "2025-12-05", out.DepartureDateTimeRange.Date)
	assert.Equal(t, "FCO", ret.OriginLocationCode)
	assert.Equal(t, "DEL", ret.DestinationLocationCode)
	assert.Equal(t, "2025-12-10", ret.DepartureDateTimeRange.Date)
	assert.Len(t, body.Travelers, 2)
	assert.Equal(t, 6, body.SearchCriteria.MaxFlightOffers)
}

func TestProvider_CachesToken(t *testing.T) {
	t.Parallel()

	fake := &fakeAmadeus{offersBody: offersJSON}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	p := newProvider(t, srv, "secret")

	for i := 0; i < 3; i++ {
		_, err := p.Call(context.Background(), query())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, int32(3), fake.offersCalls.Load())
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()
		fake := &fakeAmadeus{offersBody: offersJSON}
		srv := httptest.NewServer(fake)
		t.Cleanup(srv.Close)
		p := newProvider(t, srv, "wrong")

		_, err := p.Call(context.Background(), query())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "token request")
		assert.Equal(t, int32(0), fake.offersCalls.Load())
	})

	t.Run("no offers is an empty payload", func(t *testing.T) {
		t.Parallel()
		fake := &fakeAmadeus{offersBody: `{"data":[]}`}
		srv := httptest.NewServer(fake)
		t.Cleanup(srv.Close)
		p := newProvider(t, srv, "secret")

		payload, err := p.Call(context.Background(), query())

		require.NoError(t, err)
		assert.True(t, payload.IsEmpty())
	})

	t.Run("wrong request type", func(t *testing.T) {
		t.Parallel()
		p := &Provider{name: "amadeus"}

		_, err := p.Call(context.Background(), model.SearchQuery{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported request")
	})
}

func TestClampDates(t *testing.T) {
	t.Parallel()

	today := model.MustParseDate("2025-01-01")

	testCases := []struct {
		name                string
		depart, ret         string
		wantDepart, wantRet string
	}{
		{name: "inside window", depart: "2025-03-01", ret: "2025-03-06", wantDepart: "2025-03-01", wantRet: "2025-03-06"},
		{name: "beyond window keeps length", depart: "2026-06-01", ret: "2026-06-08", wantDepart: "2025-11-27", wantRet: "2025-12-04"},
		{name: "return not after departure", depart: "2025-03-01", ret: "2025-03-01", wantDepart: "2025-03-01", wantRet: "2025-03-02"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, r := clampDates(model.MustParseDate(tc.depart), model.MustParseDate(tc.ret), today)
			assert.Equal(t, tc.wantDepart, d.String())
			assert.Equal(t, tc.wantRet, r.String())
		})
	}
}
