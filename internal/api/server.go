package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"rivaas.dev/logging"

	"github.com/atharv3903/borderroute/internal/dataset"
	"github.com/atharv3903/borderroute/internal/model"
	"github.com/atharv3903/borderroute/internal/routing"
)

type Server struct {
	Mux     *http.ServeMux
	Handler http.Handler
	Svc     *routing.Service
	Log     *logging.Logger
	Timeout time.Duration
}

func New(svc *routing.Service, log *logging.Logger, timeout time.Duration) *Server {
	s := &Server{
		Mux:     http.NewServeMux(),
		Svc:     svc,
		Log:     log,
		Timeout: timeout,
	}

	s.routes()
	s.Handler = s.withRequestID(s.withTimeout(s.withAccessLog(s.Mux)))
	return s
}

func (s *Server) routes() {
	s.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	s.Mux.HandleFunc("GET /routing/{origin}/{destination}", s.handleRoute)
	s.Mux.HandleFunc("GET /countries", s.handleCountries)
	s.Mux.HandleFunc("GET /countries/{code}", s.handleCountry)
	s.Mux.Handle("GET /metrics", promhttp.Handler())

	s.Mux.HandleFunc("GET /debug/cache_stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Svc.Stats())
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	origin := r.PathValue("origin")
	destination := r.PathValue("destination")

	route, err := s.Svc.Route(r.Context(), origin, destination)
	if route.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RouteResponse{Route: route.Path})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	list, err := s.Svc.Countries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	code := routing.Normalize(r.PathValue("code"))

	list, err := s.Svc.Countries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, c := range list {
		if c.Code == code {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	err = &routing.UnknownCountryError{Code: code}
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case routing.IsClientError(err):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, dataset.ErrLoad):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.Log.LogError(err, "request failed", "path", r.URL.Path, "status", status)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
