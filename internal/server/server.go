// Package server exposes the calculator as a local web page and JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAddr     = "127.0.0.1:8087"
	shutdownTimeout = 5 * time.Second
)

// Calculator is the part of calculator.Service the server drives.
type Calculator interface {
	Catalog() *catalog.Catalog
	FillDescription(in calculator.SeriesInput) calculator.SeriesInput
	Series(ctx context.Context, in calculator.SeriesInput) (calculator.Outcome, error)
	Direct(ctx context.Context, in calculator.DirectInput) (calculator.Outcome, error)
	Margin(ctx context.Context) rate.Rate
	SaveMargin(ctx context.Context, m rate.Rate) error
	ResetMargin(ctx context.Context) error
}

// Config controls the server runtime behavior.
type Config struct {
	Addr          string
	Logger        *zap.Logger
	LookupTimeout time.Duration
	Now           func() time.Time
}

// Status is served at /api/v1/status.
type Status struct {
	StartedAt      time.Time `json:"started_at"`
	Addr           string    `json:"addr"`
	Requests       int64     `json:"requests"`
	Evaluations    int64     `json:"evaluations"`
	LookupFailures int64     `json:"lookup_failures"`
	LastError      string    `json:"last_error,omitempty"`
	LastErrorAt    time.Time `json:"last_error_at,omitzero"`
	Margin         string    `json:"margin"`
	CatalogSize    int       `json:"catalog_size"`
}

// Server serves the calculator over HTTP.
type Server struct {
	cfg    Config
	calc   Calculator
	logger *zap.Logger
	router *gin.Engine

	mu             sync.RWMutex
	startedAt      time.Time
	requests       int64
	evaluations    int64
	lookupFailures int64
	lastError      string
	lastErrorAt    time.Time
}

// New builds the router. It does not start listening; see Run.
func New(calc Calculator, cfg Config) (*Server, error) {
	if calc == nil {
		return nil, errors.New("server: calculator is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 15 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		cfg:       cfg,
		calc:      calc,
		logger:    cfg.Logger,
		startedAt: cfg.Now(),
	}

	tmpl, err := template.New("pages").Funcs(pageFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.requestLogger())
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", s.handlePage)
	router.POST("/", s.handlePageSubmit)
	s.registerAPI(router.Group("/api/v1"))

	s.router = router
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

func (s *Server) countRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

// recordEvaluation tracks a finished submission. Lookup failures keep the
// last error for /api/v1/status.
func (s *Server) recordEvaluation(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var verr *calculator.ValidationError
	switch {
	case err == nil:
		s.evaluations++
	case errors.As(err, &verr):
	default:
		s.lookupFailures++
		s.lastError = err.Error()
		s.lastErrorAt = s.cfg.Now()
	}
}

func (s *Server) snapshotStatus(ctx context.Context) Status {
	m := s.calc.Margin(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:      s.startedAt,
		Addr:           s.cfg.Addr,
		Requests:       s.requests,
		Evaluations:    s.evaluations,
		LookupFailures: s.lookupFailures,
		LastError:      s.lastError,
		LastErrorAt:    s.lastErrorAt,
		Margin:         m.String(),
		CatalogSize:    s.calc.Catalog().Len(),
	}
}
