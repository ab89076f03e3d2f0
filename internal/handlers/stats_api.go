package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/middleware"
	"github.com/jryandunlap/brain-dump/internal/stats"
)

type StatsInput struct {
	UserID string `query:"userId" doc:"Owner of the tasks; ignored in favour of the token subject when auth is on"`
	Frenzy bool   `query:"frenzy" doc:"Only rank tasks of five minutes or less"`
}

type StatsOutput struct {
	Body stats.Summary
}

// RegisterStatsAPI adds the read-only dashboard operation to the huma API.
func (h *Handler) RegisterStatsAPI(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Dashboard statistics",
		Description: "Streak, weekly completions, quick wins, points and the top five pending tasks.",
		Tags:        []string{"stats"},
	}, h.getStats)
}

func (h *Handler) getStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	start := time.Now()

	userID := input.UserID
	if principal, ok := middleware.UserIDFromContext(ctx); ok {
		if userID != "" && userID != principal {
			return nil, huma.Error403Forbidden(msgForbidden)
		}
		userID = principal
	}
	if userID == "" {
		return nil, huma.Error400BadRequest(msgMissingFields)
	}

	tasks, err := h.tasks.ListTasks(ctx, userID)
	if err != nil {
		logger.Error("HTTP: failed to load tasks for stats", err, zap.String("user_id", userID))
		return nil, huma.Error500InternalServerError(msgInternal)
	}

	summary := stats.Compute(tasks, time.Now(), input.Frenzy)
	logger.Info("HTTP_OUT: stats computed",
		zap.String("user_id", userID),
		zap.Int("tasks", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	return &StatsOutput{Body: summary}, nil
}
