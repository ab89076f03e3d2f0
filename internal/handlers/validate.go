package handlers

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/middleware"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// requireJSON rejects bodies that are not declared as JSON.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}
	logger.Warn("HTTP: wrong content type",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: invalid id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	if id == uuid.Nil {
		logger.Warn("HTTP: invalid id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id must not be empty")
		return uuid.Nil, false
	}
	return id, true
}

// resolveUserID picks the acting user. With auth enabled the token subject wins and a
// different requested id is forbidden; otherwise the requested id is trusted.
func resolveUserID(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	principal, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return requested, true
	}
	if requested != "" && requested != principal {
		logger.Warn("HTTP: user mismatch",
			zap.String("token_user", principal),
			zap.String("requested_user", requested),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusForbidden, msgForbidden)
		return "", false
	}
	return principal, true
}
