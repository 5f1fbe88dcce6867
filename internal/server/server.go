package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/observability"
	"github.com/specialistvlad/visapack/internal/orchestrator"
	"github.com/specialistvlad/visapack/internal/render"
)

// StatusClientClosedRequest is the non-standard status for a request the
// client abandoned before the pack was ready.
const StatusClientClosedRequest = 499

const shutdownTimeout = 10 * time.Second

// Generator produces a pack for a trip request.
type Generator interface {
	Generate(ctx context.Context, req model.TripRequest) (*model.TravelPack, error)
}

// Server is the HTTP front of the pipeline.
type Server struct {
	gen     Generator
	logger  *slog.Logger
	router  *gin.Engine
	started time.Time
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	corsOrigins []string
}

// WithCORSOrigins sets the allowed browser origins. The default is "*".
func WithCORSOrigins(origins ...string) Option {
	return func(o *serverOptions) { o.corsOrigins = origins }
}

// New builds the router and registers every route.
func New(gen Generator, logger *slog.Logger, opts ...Option) *Server {
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  normalizeOrigins(o.corsOrigins),
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{gen: gen, logger: logger, router: r, started: time.Now()}
	s.routes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 HTTP server listening.", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("🏁 HTTP server stopped.")
	return nil
}

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.POST("/v1/packs", s.createPack)
}

func (s *Server) createPack(c *gin.Context) {
	format, err := render.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req model.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed trip request: " + err.Error()})
		return
	}

	ctx := ctxlog.WithLogger(c.Request.Context(), s.logger)
	pack, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.writeError(c, pack, err)
		return
	}

	if format == render.FormatJSON {
		c.JSON(http.StatusOK, pack)
		return
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, pack, format); err != nil {
		s.writeError(c, pack, err)
		return
	}
	if format == render.FormatPDF {
		c.Header("Content-Disposition", `attachment; filename="visapack-`+pack.RunID+`.pdf"`)
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) writeError(c *gin.Context, pack *model.TravelPack, err error) {
	kind := orchestrator.Classify(err)
	body := gin.H{"error": err.Error(), "kind": string(kind)}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	if kind == orchestrator.KindValidationFailed && pack != nil {
		body["pack"] = pack
	}
	c.JSON(StatusFor(kind), body)
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(kind orchestrator.Kind) int {
	switch kind {
	case orchestrator.KindNone:
		return http.StatusOK
	case orchestrator.KindValidation:
		return http.StatusUnprocessableEntity
	case orchestrator.KindGenerationUnavailable:
		return http.StatusServiceUnavailable
	case orchestrator.KindProvidersUnreachable:
		return http.StatusBadGateway
	case orchestrator.KindValidationFailed:
		return http.StatusConflict
	case orchestrator.KindCancelled:
		return StatusClientClosedRequest
	}
	return http.StatusInternalServerError
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
