package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qualis/internal/engine"
	"github.com/wonny/qualis/internal/scoringconfig"
	"github.com/wonny/qualis/internal/service"
	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/logger"
)

// newTestHandler builds a handler with no provider, store, or cache:
// enough to exercise request validation and not-found paths.
func newTestHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	analyzer := engine.NewAnalyzer(scoringconfig.Default(), log)
	analysis := service.NewAnalysis(nil, analyzer, nil, nil, nil, log)
	return NewAnalysisHandler(analysis, nil, nil, log)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestAnalyze_MissingTicker(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"refresh":true}`))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticker")
}

func TestGetReport_NotFound(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/UNKNOWN", nil)
	req = mux.SetURLVars(req, map[string]string{"ticker": "UNKNOWN"})
	rec := httptest.NewRecorder()
	h.GetReport(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN")
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/ACME/history?limit=zero", nil)
	req = mux.SetURLVars(req, map[string]string{"ticker": "ACME"})
	rec := httptest.NewRecorder()
	h.GetHistory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistory_NoDatabase(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/ACME/history", nil)
	req = mux.SetURLVars(req, map[string]string{"ticker": "ACME"})
	rec := httptest.NewRecorder()
	h.GetHistory(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
