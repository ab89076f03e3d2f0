package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/service"
)

const (
	msgMissingFields      = "Missing required fields"
	msgCategoriesFetch    = "Failed to fetch categories"
	msgTasksSave          = "Failed to save tasks"
	msgInternal           = "Internal server error"
	msgForbidden          = "Forbidden"
	msgInvalidBody        = "Invalid request body"
	msgCalendarNotEnabled = "Google Calendar is not configured"
	msgInvalidState       = "Invalid OAuth state"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// handleServiceError answers with the business error if there is one, otherwise a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: service error", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusInternalServerError, msgInternal)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeCalendarFailed:
		return http.StatusBadGateway
	case service.CodeCategoriesFetchFailed, service.CodeTasksSaveFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ingestionErrorMessage maps an ingestion failure to its fixed public message.
func ingestionErrorMessage(err error) (int, string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case service.CodeValidation:
			return http.StatusBadRequest, msgMissingFields
		case service.CodeCategoriesFetchFailed:
			return http.StatusInternalServerError, msgCategoriesFetch
		case service.CodeTasksSaveFailed:
			return http.StatusInternalServerError, msgTasksSave
		}
	}
	return http.StatusInternalServerError, msgInternal
}
