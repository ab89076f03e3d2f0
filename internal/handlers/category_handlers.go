package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/handlers/dto"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "list_categories")
		return
	}
	responseWithBody(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}
	var request dto.CategoryRequest
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
	request.UserID = userID

	created, err := h.categories.CreateCategory(r.Context(), request.ToCategory())
	if err != nil {
		handleServiceError(w, r, err, "create_category")
		return
	}

	logger.Info("HTTP_OUT: category created",
		zap.String("category_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var request dto.CategoryRequest
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

	updated, err := h.categories.UpdateCategory(r.Context(), userID, id, request.ToCategory())
	if err != nil {
		handleServiceError(w, r, err, "update_category")
		return
	}

	logger.Info("HTTP_OUT: category updated",
		zap.String("category_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, updated)
}
