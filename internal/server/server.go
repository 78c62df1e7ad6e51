package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/NikBel3476/evacuation-gui-iced/internal/config"
	"github.com/NikBel3476/evacuation-gui-iced/internal/metrics"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

// Server serves one loaded building and its simulation result to a
// front-end renderer.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New creates a server for the given building and time series.
func New(cfg *config.Config, b *bim.Building, s *timeline.TimeSeries, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           NewHandler(cfg, b, s, logger),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler returns the routed API without binding a listener.
func NewHandler(cfg *config.Config, b *bim.Building, s *timeline.TimeSeries, logger *zap.Logger) http.Handler {
	a := &api{cfg: cfg, building: b, series: s, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", a.handleIndex)
	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/building", a.handleBuilding)
		r.Get("/validation", a.handleValidation)
		r.Get("/summary", a.handleSummary)
		r.Get("/frame", a.handleFrame)
		r.Get("/levels/{level}/visible", a.handleVisible)
		r.Get("/levels/{level}/fit", a.handleFit)
		r.Get("/levels/{level}/hit", a.handleHit)
	})
	return r
}

// Run listens and serves until Shutdown is called.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("evacview server listening", zap.String("addr", ln.Addr().String()))

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting up to 10 seconds for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Int64("duration_ms", time.Since(start).Milliseconds()),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
