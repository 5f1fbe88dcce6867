// Package http_client provides the shared, pooled HTTP client and the resty
// clients that provider adapters build on top of it.
package http_client

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"
)

// New returns the process-wide HTTP client. Every provider adapter shares its
// transport so TCP and TLS connections are reused across runs.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Close releases idle connections held by the shared client.
func Close(client *http.Client) {
	if client != nil {
		client.CloseIdleConnections()
	}
}

// NewRest wraps the shared client in a resty client for one provider. A zero
// timeout leaves the deadline to the request context.
func NewRest(hc *http.Client, baseURL string, timeout time.Duration) *resty.Client {
	if hc == nil {
		hc = New(0)
	}
	c := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "visapack/1.0")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 200

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.Code, e.Body)
}

// CheckResponse turns a resty round trip into a single error: the transport
// error if there was one, otherwise a *StatusError for non-2xx answers.
func CheckResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		return &StatusError{Provider: provider, Code: resp.StatusCode(), Body: body}
	}
	return nil
}
