package web

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/input"
	"github.com/rshade/hpc-carbon-estimator/internal/report"
)

const maxBodyBytes = 1 << 20

// LocationsResponse is the body of GET /api/v1/locations.
type LocationsResponse struct {
	Default   string                     `json:"default"`
	Locations []carbon.LocationIntensity `json:"locations"`
}

func (s *Server) handleEstimateQuery(w http.ResponseWriter, r *http.Request) {
	sc, err := input.FromValues(s.table, r.URL.Query())
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.estimate(w, r, sc)
}

func (s *Server) handleEstimateJSON(w http.ResponseWriter, r *http.Request) {
	sc := input.DefaultScenario(s.table)

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decoding request body: %w", err))
		return
	}
	s.estimate(w, r, sc)
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request, sc carbon.Scenario) {
	sc, adjustments := input.Normalize(sc)

	a, err := carbon.Assess(s.table, sc)
	if err != nil {
		s.metrics.observeValidationFailure(err)
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	s.metrics.observeAssessment(a)

	s.writeJSON(w, r, http.StatusOK, report.NewDocument(a, report.Options{
		Adjustments: adjustments,
		Now:         s.now(),
	}))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, LocationsResponse{
		Default:   s.table.Default(),
		Locations: s.table.Entries(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	s.logger.Warn().
		Err(err).
		Str("request_id", id).
		Int("status", status).
		Msg("request failed")

	doc := report.NewErrorDocument(err, id)
	if status == http.StatusBadRequest {
		// Parse errors have no friendlier wording than the error itself.
		doc.Message = ""
	}
	s.writeJSON(w, r, status, doc)
}
