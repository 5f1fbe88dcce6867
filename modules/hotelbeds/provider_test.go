package hotelbeds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1764900000, 0)

func TestSignature(t *testing.T) {
	t.Parallel()

	sig := signature("key", "secret", fixedNow)

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, signature("key", "secret", fixedNow))
	assert.NotEqual(t, sig, signature("key", "secret", fixedNow.Add(time.Second)))
}

func TestDestinationCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PAR", destinationCode("Paris", "France"))
	assert.Equal(t, "ROM", destinationCode("Florence", "Italy"))
	assert.Equal(t, "ZUR", destinationCode("Zurich", "Switzerland"))
}

func TestProvider_Call(t *testing.T) {
	t.Parallel()

	// Arrange
	received := make(chan availabilityRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-key") != "key" || r.Header.Get("X-Signature") != signature("key", "secret", fixedNow) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body availabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hotels":{"hotels":[
			{"code":1533,"name":"Hotel Lutetia","destinationName":"Paris","currency":"EUR","minRate":"900.00",
			 "rooms":[{"rates":[{"net":"1000.00","boardName":"ROOM ONLY"}]}]},
			{"code":77,"name":"","currency":"EUR","minRate":"100"}
		]}}`))
	}))
	t.Cleanup(srv.Close)

	p, err := New(&config.ProviderDefinition{Name: "hotelbeds", BaseURL: srv.URL, APIKey: "key", APISecret: "secret"},
		registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)
	p.(*Provider).now = func() time.Time { return fixedNow }

	q := model.LodgingQuery{
		Country: "France", City: "Paris",
		CheckIn: model.MustParseDate("2025-12-05"), CheckOut: model.MustParseDate("2025-12-10"),
		Adults: 2,
	}

	// Act
	payload, err := p.Call(context.Background(), q)

	// Assert
	require.NoError(t, err)
	got := <-received
	assert.Equal(t, "PAR", got.Destination.Code)
	assert.Equal(t, "2025-12-05", got.Stay.CheckIn)
	assert.Equal(t, 2, got.Occupancies[0].Adults)

	options := payload.(model.LodgingOptions)
	require.Len(t, options, 1, "nameless hotels are dropped")
	assert.Equal(t, "Hotel Lutetia", options[0].Name)
	assert.InDelta(t, 18000.0, options[0].PricePerNight, 0.01, "1000 EUR over five nights")
	assert.Equal(t, "https://www.hotelbeds.com/hotels/1533", options[0].BookingURL)
}

func TestProvider_RejectedSignature(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	p, err := New(&config.ProviderDefinition{Name: "hotelbeds", BaseURL: srv.URL, APIKey: "key", APISecret: "secret"},
		registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), model.LodgingQuery{City: "Paris"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
