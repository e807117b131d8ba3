// Package server provides the HTTP handlers plannerd exposes: POST /plans
// grounds a YAML problem document and runs A*, GET /health reports
// liveness.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
	"github.com/iamthegreatdestroyer/classical-planner/internal/problemfile"
	"github.com/iamthegreatdestroyer/classical-planner/pkg/planner"
)

// Handler provides the HTTP handlers for the planning endpoints.
type Handler struct {
	cfg *config.PlanningConfig
	log zerolog.Logger
}

// NewHandler builds a Handler, selecting heuristics from planner.Heuristics
// by name.
func NewHandler(cfg *config.PlanningConfig, log zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, log: log}
}

// planResponse is the JSON shape returned by POST /plans.
type planResponse struct {
	RequestID string   `json:"request_id"`
	Plan      []string `json:"plan"`
	Cost      int      `json:"cost"`
	Expanded  int      `json:"states_expanded"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// errorResponse is the JSON shape returned on failure.
type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// Plans handles POST /plans. The request body is a YAML problem document
// (internal/problemfile.Parse); the optional "heuristic" query parameter
// selects a named heuristic from planner.Heuristics (default "monotone").
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := h.log.With().Str("request_id", requestID).Logger()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to read request body")
		writeError(w, requestID, "failed to read request body", http.StatusBadRequest)
		return
	}

	p, err := problemfile.Parse(body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse problem document")
		writeError(w, requestID, err.Error(), http.StatusBadRequest)
		return
	}

	heuristicName := r.URL.Query().Get("heuristic")
	if heuristicName == "" {
		heuristicName = h.cfg.DefaultHeuristic
	}
	heur, err := planner.Heuristics.Get(heuristicName)
	if err != nil {
		log.Warn().Err(err).Str("heuristic", heuristicName).Msg("unknown heuristic")
		writeError(w, requestID, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info().Str("heuristic", heuristicName).Msg("planning request received")

	plan, stats, err := planner.Plan(p, planner.WithHeuristic(heur))
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		writeError(w, requestID, "search failed", http.StatusInternalServerError)
		return
	}

	resp := planResponse{
		RequestID: requestID,
		Plan:      planner.Render(plan),
		Cost:      planner.Cost(plan),
		Expanded:  stats.Expanded,
		ElapsedMS: stats.Elapsed.Milliseconds(),
	}
	if plan == nil {
		log.Info().Msg("goal unreachable")
	} else {
		log.Info().Int("plan_len", len(plan)).Msg("plan found")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "plannerd",
	})
}

func writeError(w http.ResponseWriter, requestID, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{RequestID: requestID, Error: message})
}
