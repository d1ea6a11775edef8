// Package server exposes the dashboard over HTTP for an external front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/logging"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/KaramelBytes/voltrack-cli/internal/study"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// Config wires the server to a study.
type Config struct {
	Study   *study.Study
	Load    table.LoadOptions
	Options dashboard.Options
	Columns dashboard.Columns
}

// Server serves dashboard results as JSON. Every request re-reads the study
// files so edits on disk show up without a restart.
type Server struct {
	cfg Config
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.dashboard)
		r.Get("/study", s.study)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{Status: "ok"})
}

func (s *Server) study(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Study == nil {
		respondError(w, http.StatusNotFound, "no_study", "no study configured", nil)
		return
	}
	respondJSON(w, http.StatusOK, &APIResponse{Status: "ok", Data: s.cfg.Study})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Study == nil {
		respondError(w, http.StatusNotFound, "no_study", "no study configured", nil)
		return
	}
	opt, err := overrideOptions(s.cfg.Options, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_parameter", err.Error(), nil)
		return
	}
	ds, warns := s.cfg.Study.LoadTables(s.cfg.Load)
	d := dashboard.Build(ds, opt, s.cfg.Columns)
	d.Warnings = append(warns, d.Warnings...)
	respondJSON(w, http.StatusOK, &APIResponse{Status: "ok", Data: d})
}

// overrideOptions applies the reference_year, collapse_threshold,
// encode_ordinals and date_order query parameters.
func overrideOptions(opt dashboard.Options, r *http.Request) (dashboard.Options, error) {
	q := r.URL.Query()
	if v := q.Get("reference_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y <= 0 {
			return opt, fmt.Errorf("invalid reference_year: %q", v)
		}
		opt.ReferenceYear = y
	}
	if v := q.Get("collapse_threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opt, fmt.Errorf("invalid collapse_threshold: %q", v)
		}
		opt.CollapseThreshold = n
	}
	if v := q.Get("encode_ordinals"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opt, fmt.Errorf("invalid encode_ordinals: %q", v)
		}
		opt.EncodeOrdinals = b
	}
	if v := q.Get("date_order"); v != "" {
		order, err := stats.ParseDateOrder(v)
		if err != nil {
			return opt, err
		}
		opt.DateOrder = order
	}
	return opt, nil
}

func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h := fnv.New32a()
	_, _ = h.Write(data)
	w.Header().Set("ETag", strconv.Quote(strconv.FormatUint(uint64(h.Sum32()), 16)))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("api error")
	}
	respondJSON(w, status, &APIResponse{Status: "error", Error: &APIError{Code: code, Message: message}})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
