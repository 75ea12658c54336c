// Package web serves the calculator over HTTP: an HTML page with the input
// form, the results and a comparison chart, plus a JSON API. Every response
// is recomputed from the request parameters; the server keeps no state
// between requests.
package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
)

// Server holds the read-only dependencies shared by all handlers.
type Server struct {
	table   *carbon.LocationTable
	logger  zerolog.Logger
	metrics *Metrics
	page    *template.Template
	now     func() time.Time
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the collectors the server records into.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock overrides the time source used to date reports.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithVersion sets the version shown in the page footer.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server for the given reference table.
func New(table *carbon.LocationTable, opts ...Option) *Server {
	s := &Server{
		table:   table,
		logger:  zerolog.Nop(),
		now:     time.Now,
		version: "dev",
		page:    template.Must(template.New("page").Parse(pageHTML)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

// Handler returns the routed handler for all endpoints.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.loggingMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/calc", s.handleCalc).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/estimate", s.handleEstimateQuery).Methods(http.MethodGet)
	api.HandleFunc("/estimate", s.handleEstimateJSON).Methods(http.MethodPost)
	api.HandleFunc("/locations", s.handleLocations).Methods(http.MethodGet)

	return r
}
