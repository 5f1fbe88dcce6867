package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/orchestrator"
	"github.com/specialistvlad/visapack/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGenerator struct {
	pack *model.TravelPack
	err  error
	got  chan model.TripRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req model.TripRequest) (*model.TravelPack, error) {
	if f.got != nil {
		f.got <- req
	}
	return f.pack, f.err
}

func newTestServer(t *testing.T, gen Generator) (*Server, *testutil.SafeBuffer) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(gen, logger, WithCORSOrigins("https://dashboard.example.com")), logs
}

func requestBody(t *testing.T) io.Reader {
	t.Helper()
	raw, err := json.Marshal(testutil.ParisRequest())
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func samplePack() *model.TravelPack {
	return &model.TravelPack{
		RunID:   "run-42",
		Status:  model.PackComplete,
		Primary: model.PrimaryDestination{Country: "France", City: "Paris"},
		Start:   model.MustParseDate("2025-12-05"),
		End:     model.MustParseDate("2025-12-10"),
		Documents: model.DocumentKit{
			CoverLetter: "Dear Sir or Madam,",
		},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeGenerator{})
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeGenerator{})
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "visapack_http_requests_total")
}

func TestCreatePack_JSON(t *testing.T) {
	t.Parallel()

	// Arrange
	gen := &fakeGenerator{pack: samplePack(), got: make(chan model.TripRequest, 1)}
	srv, logs := newTestServer(t, gen)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/packs", requestBody(t))
	req.Header.Set("Content-Type", "application/json")

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pack model.TravelPack
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pack))
	assert.Equal(t, "run-42", pack.RunID)
	assert.Equal(t, "2025-12-10", pack.End.String())

	got := <-gen.got
	assert.Equal(t, "Paris", got.Destinations[0].City)
	assert.Equal(t, "2025-12-05", got.StartDate.String())
	assert.Contains(t, logs.String(), "HTTP request served.")
}

func TestCreatePack_RenderedFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"markdown", "text/markdown; charset=utf-8", "# Travel pack: France (Paris)"},
		{"pdf", "application/pdf", "%PDF-"},
	}
	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, &fakeGenerator{pack: samplePack()})
			rec := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/packs?format="+tc.format, requestBody(t)))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte(tc.prefix)))
		})
	}
}

func TestCreatePack_BadInput(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeGenerator{pack: samplePack()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/packs?format=docx", requestBody(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/packs", bytes.NewBufferString("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed trip request")
}

func TestCreatePack_ErrorMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		err    error
		status int
		kind   orchestrator.Kind
	}{
		{"validation", model.NewValidationError([]model.FieldError{{Field: "destinations", Message: "at least one destination is required"}}, model.ErrEmptyDestinationList), http.StatusUnprocessableEntity, orchestrator.KindValidation},
		{"generation unavailable", &model.GenerationUnavailableError{Err: errors.New("no provider")}, http.StatusServiceUnavailable, orchestrator.KindGenerationUnavailable},
		{"providers unreachable", fmt.Errorf("run: %w", orchestrator.ErrProvidersUnreachable), http.StatusBadGateway, orchestrator.KindProvidersUnreachable},
		{"validation failed", &model.ValidationFailedError{Violations: []string{"cover letter is empty"}}, http.StatusConflict, orchestrator.KindValidationFailed},
		{"cancelled", context.Canceled, StatusClientClosedRequest, orchestrator.KindCancelled},
		{"internal", errors.New("boom"), http.StatusInternalServerError, orchestrator.KindInternal},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			gen := &fakeGenerator{err: tc.err}
			if tc.kind == orchestrator.KindValidationFailed {
				pack := samplePack()
				pack.Status = model.PackFailed
				gen.pack = pack
			}
			srv, _ := newTestServer(t, gen)
			rec := httptest.NewRecorder()

			// Act
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/packs", requestBody(t)))

			// Assert
			require.Equal(t, tc.status, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tc.kind), body["kind"])
			if tc.kind == orchestrator.KindValidation {
				assert.NotEmpty(t, body["fields"])
			}
			if tc.kind == orchestrator.KindValidationFailed {
				assert.NotNil(t, body["pack"])
			}
		})
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeGenerator{})
	req := httptest.NewRequest(http.MethodOptions, "/v1/packs", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeGenerator{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()

	require.NoError(t, <-done)
}
