package handlers

import (
	"github.com/go-chi/chi/v5"
)

// OAuthCallbackPath is reached by Google's redirect, which carries no bearer token.
const OAuthCallbackPath = "/api/google-auth"

// RegisterRoutes mounts the JSON endpoints. The stats operation lives in RegisterStatsAPI.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/api/brain-dump", h.BrainDump)

	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks/{id}/complete", h.CompleteTask)
	r.Post("/api/tasks/{id}/schedule", h.ScheduleTask)
	r.Post("/api/tasks/{id}/unschedule", h.UnscheduleTask)
	r.Post("/api/tasks/{id}/skip", h.SkipTask)
	r.Put("/api/tasks/{id}/priority", h.UpdatePriority)
	r.Delete("/api/tasks/{id}", h.DeleteTask)

	r.Get("/api/categories", h.ListCategories)
	r.Post("/api/categories", h.CreateCategory)
	r.Put("/api/categories/{id}", h.UpdateCategory)

	r.Get("/api/goals", h.GetGoals)
	r.Put("/api/goals", h.SaveGoals)
	r.Post("/api/onboarding", h.Onboarding)

	r.Get("/api/google-connect", h.GoogleConnect)
	r.Get(OAuthCallbackPath, h.GoogleAuth)
	r.Post("/api/google-refresh", h.GoogleRefresh)
}
