package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/service"
	"github.com/wonny/qualis/internal/store"
	"github.com/wonny/qualis/pkg/logger"
	"github.com/wonny/qualis/pkg/redis"
)

// AnalysisHandler handles analysis API endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	analysis *service.Analysis
	reports  *store.ReportRepository
	limiter  *redis.RateLimiter // nil disables rate limiting
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis *service.Analysis, reports *store.ReportRepository, limiter *redis.RateLimiter, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		reports:  reports,
		limiter:  limiter,
		logger:   log,
	}
}

// AnalyzeRequest represents an analysis request
type AnalyzeRequest struct {
	Ticker  string `json:"ticker"`
	Refresh bool   `json:"refresh"` // force a provider fetch even when data is stored
}

// Analyze scores one ticker and returns the report
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Field 'ticker' is required")
		return
	}

	if h.limiter != nil {
		allowed, remaining, err := h.limiter.Allow(ctx, redis.AnalyzeRateLimit)
		if err != nil {
			h.logger.WithError(err).Warn("Rate limit check failed, allowing request")
		} else if !allowed {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			respondError(w, http.StatusTooManyRequests, "Too many analysis requests")
			return
		}
	}

	report, err := h.analysis.AnalyzeTicker(ctx, req.Ticker, req.Refresh)
	if err != nil {
		h.respondAnalysisError(w, req.Ticker, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetReport returns the latest report for a ticker
// GET /api/reports/{ticker}
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	report, err := h.analysis.LatestReport(ctx, ticker)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No report for ticker "+ticker)
			return
		}
		h.logger.WithError(err).Error("Failed to get report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetHistory returns stored reports for a ticker, newest first
// GET /api/reports/{ticker}/history?limit=N
func (h *AnalysisHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	if h.reports == nil {
		respondError(w, http.StatusServiceUnavailable, "Report history requires a database")
		return
	}

	history, err := h.reports.History(ctx, ticker, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get report history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report history")
		return
	}
	if len(history) == 0 {
		respondError(w, http.StatusNotFound, "No reports for ticker "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// respondAnalysisError maps analysis failures to HTTP statuses: bad input
// is the caller's problem, everything else is ours.
func (h *AnalysisHandler) respondAnalysisError(w http.ResponseWriter, ticker string, err error) {
	var invalid *contracts.InvalidRecordError
	switch {
	case errors.Is(err, contracts.ErrInsufficientSeries):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &invalid):
		respondError(w, http.StatusUnprocessableEntity, invalid.Error())
	default:
		h.logger.WithError(err).WithField("ticker", ticker).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
