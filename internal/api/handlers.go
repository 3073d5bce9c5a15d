// Package api exposes HTTP handlers for the analytics service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"example.com/fitanalytics/internal/auth"
	"example.com/fitanalytics/internal/domain"
	"example.com/fitanalytics/internal/models"
)

const defaultHistoryDays = 30

// Analytics is the service surface served over HTTP.
type Analytics interface {
	AddWorkoutData(ctx context.Context, rec domain.WorkoutRecord) (domain.WorkoutRecord, error)
	GetWorkoutHistory(days int) []domain.WorkoutRecord
	Clear(ctx context.Context)
	Predict(kind domain.PredictionKind) (domain.Prediction, error)
	PredictNutrition(workoutType domain.ActivityType, intensity int) (domain.Prediction, error)
	AnalyzeUserPatterns(ctx context.Context) []domain.UserPattern
	TrainModels(ctx context.Context) error
	GetAnalyticsSummary() domain.AnalyticsSummary
}

// Handler coordinates HTTP requests with the analytics service.
type Handler struct {
	service Analytics
	auth    auth.Middleware
}

// NewHandler builds a Handler. Scope checks follow authn's config.
func NewHandler(service Analytics, authn auth.Middleware) *Handler {
	return &Handler{service: service, auth: authn}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/predictions/", h.auth.RequireScope(auth.ScopeRead, h.prediction))
	mux.HandleFunc("/v1/patterns", h.auth.RequireScope(auth.ScopeRead, h.patterns))
	mux.HandleFunc("/v1/models/train", h.auth.RequireScope(auth.ScopeWrite, h.train))
	mux.HandleFunc("/v1/analytics/summary", h.auth.RequireScope(auth.ScopeRead, h.summary))
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.auth.RequireScope(auth.ScopeWrite, h.addWorkout)(w, r)
	case http.MethodGet:
		h.auth.RequireScope(auth.ScopeRead, h.history)(w, r)
	case http.MethodDelete:
		h.auth.RequireScope(auth.ScopeWrite, h.clear)(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) addWorkout(w http.ResponseWriter, r *http.Request) {
	var rec domain.WorkoutRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	stored, err := h.service.AddWorkoutData(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	items := h.service.GetWorkoutHistory(days)
	writeJSON(w, http.StatusOK, HistoryResponse{Days: days, Items: items})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) prediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/predictions/"), "/")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing prediction kind")
		return
	}
	kind := domain.PredictionKind(strings.ReplaceAll(raw, "-", "_"))

	var (
		pred domain.Prediction
		err  error
	)
	if kind == domain.KindNutrition {
		pred, err = h.nutrition(r)
	} else {
		pred, err = h.service.Predict(kind)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (h *Handler) nutrition(r *http.Request) (domain.Prediction, error) {
	query := r.URL.Query()
	workoutType := domain.ActivityType(query.Get("workout_type"))
	intensity, err := strconv.Atoi(query.Get("intensity"))
	if err != nil {
		return domain.Prediction{}, &domain.ValidationError{Field: "intensity", Reason: "must be an integer"}
	}
	return h.service.PredictNutrition(workoutType, intensity)
}

func (h *Handler) patterns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, PatternsResponse{Patterns: h.service.AnalyzeUserPatterns(r.Context())})
}

func (h *Handler) train(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if err := h.service.TrainModels(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.GetAnalyticsSummary())
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, h.service.GetAnalyticsSummary())
}

// HistoryResponse packages GET /v1/workouts results.
type HistoryResponse struct {
	Days  int                    `json:"days"`
	Items []domain.WorkoutRecord `json:"items"`
}

// PatternsResponse packages GET /v1/patterns results.
type PatternsResponse struct {
	Patterns []domain.UserPattern `json:"patterns"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Error())
	case errors.Is(err, domain.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, models.ErrTrainingTimedOut):
		writeError(w, http.StatusGatewayTimeout, "training_timeout", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
