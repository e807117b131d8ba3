package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
)

func setupTestHandler() (*Handler, *chi.Mux) {
	cfg := &config.PlanningConfig{DefaultHeuristic: "monotone"}
	handler := NewHandler(cfg, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/health", handler.Health)
	r.Post("/plans", handler.Plans)

	return handler, r
}

const sellProblemYAML = `
objects:
  product: [apples, oranges]
schemas:
  - name: sell
    parameters:
      - {type: product, name: p}
    preconditions:
      - numeric: "quantity(p) > 0"
    effects:
      - num_sub: {fluent: "quantity(p)", value: "1"}
      - num_add: {fluent: account, value: "price(p)"}
init:
  assignments:
    - {fluent: account, value: 0}
    - {fluent: "quantity(apples)", value: 10}
    - {fluent: "quantity(oranges)", value: 10}
    - {fluent: "price(apples)", value: 3}
    - {fluent: "price(oranges)", value: 5}
goal:
  numeric:
    - "account == 13"
`

func TestHealthReportsHealthy(t *testing.T) {
	_, r := setupTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestPlansGroundsAndSolvesAYAMLProblem(t *testing.T) {
	_, r := setupTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(sellProblemYAML))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp planResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Len(t, resp.Plan, resp.Cost)
	assert.Equal(t, 3, resp.Cost, "expected the optimal 3-step plan, got %v", resp.Plan)
}

func TestPlansRejectsMalformedBody(t *testing.T) {
	_, r := setupTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString("not: [valid"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
}

func TestPlansRejectsUnknownHeuristic(t *testing.T) {
	_, r := setupTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/plans?heuristic=nonexistent", bytes.NewBufferString(sellProblemYAML))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
