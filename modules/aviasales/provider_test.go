package aviasales

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != cheapPath || r.URL.Query().Get("token") != "tp-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()
	p, err := New(&config.ProviderDefinition{
		Name:    "aviasales",
		Kind:    Kind,
		BaseURL: srv.URL,
		APIKey:  "tp-token",
		Options: map[string]string{"marker": "12345", "max_results": "1"},
	}, registry.Deps{HTTPClient: srv.Client()})
	require.NoError(t, err)
	return p.(*Provider)
}

func TestProvider_Call(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newServer(t, `{"success":true,"data":{"CDG":{
		"0":{"price":61000,"airline":"AF","flight_number":225,"departure_at":"2025-12-05T09:30:00Z","return_at":"2025-12-10T11:00:00Z"},
		"1":{"price":45000,"airline":"LH","flight_number":761,"departure_at":"2025-12-05T03:10:00Z","return_at":"2025-12-10T20:05:00Z"}
	}}}`)
	p := newProvider(t, srv)
	q := model.FlightQuery{
		Origin: "DEL", Destination: "CDG", ReturnOrigin: "FCO",
		DepartDate: model.MustParseDate("2025-12-05"), ReturnDate: model.MustParseDate("2025-12-10"), Adults: 1,
	}

	// Act
	payload, err := p.Call(context.Background(), q)

	// Assert
	require.NoError(t, err)
	options := payload.(model.FlightOptions)
	require.Len(t, options, 2, "max_results keeps only the cheapest fare")
	assert.Equal(t, "LH761", options[0].FlightNumber)
	assert.Equal(t, model.Outbound, options[0].Direction)
	assert.InDelta(t, 45000.0, options[0].Price, 0.01)
	assert.Equal(t, "https://www.aviasales.com/search/DELCDG20251205", options[0].BookingURL)

	assert.Equal(t, model.Return, options[1].Direction)
	assert.Equal(t, "FCO", options[1].Origin)
	assert.Equal(t, "DEL", options[1].Destination)
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, newServer(t, `{"success":false,"error":"invalid marker","data":{}}`))

		_, err := p.Call(context.Background(), model.FlightQuery{Origin: "DEL", Destination: "CDG"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid marker")
	})

	t.Run("no fares", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, newServer(t, `{"success":true,"data":{}}`))

		payload, err := p.Call(context.Background(), model.FlightQuery{Origin: "DEL", Destination: "CDG"})

		require.NoError(t, err)
		assert.True(t, payload.IsEmpty())
	})
}
