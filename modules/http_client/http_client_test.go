package http_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PooledTransport(t *testing.T) {
	t.Parallel()

	c := New(5 * time.Second)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, tr.MaxIdleConns)
	assert.Equal(t, 10, tr.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, tr.IdleConnTimeout)
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestNewRest_CheckResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"value":"fine"}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.Repeat("x", 300)))
		}
	}))
	t.Cleanup(srv.Close)

	client := NewRest(srv.Client(), srv.URL+"/", time.Second)

	t.Run("success decodes result", func(t *testing.T) {
		var out struct {
			Value string `json:"value"`
		}
		resp, err := client.R().SetContext(context.Background()).SetResult(&out).Get("/ok")

		require.NoError(t, CheckResponse("test", resp, err))
		assert.Equal(t, "fine", out.Value)
	})

	t.Run("error status becomes StatusError", func(t *testing.T) {
		resp, err := client.R().SetContext(context.Background()).Get("/down")

		err = CheckResponse("test", resp, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
		assert.True(t, strings.HasSuffix(statusErr.Body, "..."))
		assert.Len(t, statusErr.Body, maxErrorBody+3)
	})
}
