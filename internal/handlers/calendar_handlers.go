package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/handlers/dto"
	"github.com/jryandunlap/brain-dump/internal/logger"
)

func (h *Handler) calendarEnabled(w http.ResponseWriter) bool {
	if h.calendar == nil {
		responseWithError(w, http.StatusServiceUnavailable, msgCalendarNotEnabled)
		return false
	}
	return true
}

// GoogleConnect redirects the user to Google's consent screen.
func (h *Handler) GoogleConnect(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	if !h.calendarEnabled(w) {
		return
	}

	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	if userID == "" {
		responseWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	consentURL, err := h.calendar.AuthCodeURL(userID)
	if err != nil {
		handleServiceError(w, r, err, "google_connect")
		return
	}
	http.Redirect(w, r, consentURL, http.StatusFound)
}

// GoogleAuth is the OAuth redirect target. Google's redirect carries no bearer
// token, so the route is public and the signed state identifies the user.
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	if !h.calendarEnabled(w) {
		return
	}

	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		logger.Warn("HTTP: google consent denied", zap.String("error", errParam))
		responseWithError(w, http.StatusBadRequest, errParam)
		return
	}
	code, state := query.Get("code"), query.Get("state")
	if code == "" || state == "" {
		responseWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	userID, err := h.calendar.UserFromState(state)
	if err != nil {
		logger.Warn("HTTP: rejected oauth state",
			zap.String("client_ip", r.RemoteAddr),
			zap.Error(err))
		responseWithError(w, http.StatusBadRequest, msgInvalidState)
		return
	}

	tok, err := h.calendar.Exchange(r.Context(), userID, code)
	if err != nil {
		handleServiceError(w, r, err, "google_auth")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("connected", true),
		toPayload("expiry", tok.Expiry))
}

// GoogleRefresh returns a fresh access token, either for a connected user or for
// a refresh token supplied by the client.
func (h *Handler) GoogleRefresh(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	if !h.calendarEnabled(w) {
		return
	}

	var request dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	var accessToken string
	switch {
	case request.RefreshToken != "":
		tok, err := h.calendar.RefreshWithToken(r.Context(), request.RefreshToken)
		if err != nil {
			logger.Error("HTTP: google refresh failed", err)
			responseWithError(w, http.StatusBadGateway, "Failed to refresh token")
			return
		}
		accessToken = tok.AccessToken
	default:
		userID, ok := resolveUserID(w, r, request.UserID)
		if !ok {
			return
		}
		if userID == "" {
			responseWithError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		tok, err := h.calendar.Refresh(r.Context(), userID)
		if err != nil {
			logger.Error("HTTP: google refresh failed", err, zap.String("user_id", userID))
			responseWithError(w, http.StatusBadGateway, "Failed to refresh token")
			return
		}
		accessToken = tok.AccessToken
	}

	responseWithJSON(w, http.StatusOK, toPayload("access_token", accessToken))
}
