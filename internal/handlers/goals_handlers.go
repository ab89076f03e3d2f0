package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/handlers/dto"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/category"
)

func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	g, err := h.goals.GetGoals(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "get_goals")
		return
	}
	responseWithBody(w, http.StatusOK, g)
}

func (h *Handler) SaveGoals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}
	var request dto.GoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	userID, ok := resolveUserID(w, r, request.UserID)
	if !ok {
		return
	}

	g, err := h.goals.SaveGoals(r.Context(), userID, request.QuarterGoals, request.YearGoals)
	if err != nil {
		handleServiceError(w, r, err, "save_goals")
		return
	}

	logger.Info("HTTP_OUT: goals saved",
		zap.String("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, g)
}

func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}
	var request dto.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	userID, ok := resolveUserID(w, r, request.UserID)
	if !ok {
		return
	}

	categories := make([]*category.Category, 0, len(request.Categories))
	for _, c := range request.Categories {
		categories = append(categories, c.ToCategory())
	}

	g, created, err := h.goals.Onboard(r.Context(), userID, request.QuarterGoals, request.YearGoals, categories)
	if err != nil {
		handleServiceError(w, r, err, "onboarding")
		return
	}

	logger.Info("HTTP_OUT: onboarding finished",
		zap.String("user_id", userID),
		zap.Int("categories_created", len(created)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("goals", g),
		toPayload("categories", created))
}
