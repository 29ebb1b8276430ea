// Package server is a demo analysis backend. It answers POST /validate with
// the built-in example report so the client can run without the hosted API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

// maxBody caps request bodies; ideas are short free text.
const maxBody = 1 << 20

type Server struct {
	log        *zap.Logger
	example    func() api.ValidationResult
	router     chi.Router
	httpServer *http.Server
}

type Option func(*Server)

// WithExample replaces the report served for every idea.
func WithExample(fn func() api.ValidationResult) Option {
	return func(s *Server) { s.example = fn }
}

func New(log *zap.Logger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{log: log, example: report.Example}
	for _, o := range opts {
		o(s)
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/validate", s.handleValidate)
	return r
}

// Router returns the http.Handler with registered routes.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("dur", time.Since(start)),
		)
	})
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req api.ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.StartupIdea) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "startup_idea must not be empty"})
		return
	}
	res := s.example().Complete()
	res.StartupIdea = req.StartupIdea
	s.log.Debug("served example report", zap.Int("idea_len", len(req.StartupIdea)))
	writeJSON(w, http.StatusOK, res)
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.httpServer.Addr = addr
	s.log.Info("demo backend listening", zap.String("addr", addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves on addr until ctx is done, then drains connections for up to
// grace.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Start(addr) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
			return err
		}
		return nil
	})
	return g.Wait()
}
