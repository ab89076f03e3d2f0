package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/handlers/dto"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

const serviceName = "brain-dump"

type Handler struct {
	tasks      TaskService
	categories CategoryService
	goals      GoalsService
	calendar   CalendarAuth
}

// NewHandler wires the HTTP layer. calendar may be nil when Google is not configured.
func NewHandler(tasks TaskService, categories CategoryService, goals GoalsService, calendar CalendarAuth) *Handler {
	return &Handler{
		tasks:      tasks,
		categories: categories,
		goals:      goals,
		calendar:   calendar,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := h.tasks.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName))
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
		toPayload("time", time.Now().UTC()))
}

// BrainDump ingests free text and answers {tasks, count}. Failures use fixed messages only.
func (h *Handler) BrainDump(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.BrainDumpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Error("HTTP: failed to read JSON", err,
			zap.String("operation", "brain_dump"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Int("http_status", http.StatusInternalServerError))
		responseWithError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if request.DumpText == "" || request.UserID == "" {
		logger.Warn("HTTP: validation error",
			zap.Bool("has_dump_text", request.DumpText != ""),
			zap.Bool("has_user_id", request.UserID != ""),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	userID, ok := resolveUserID(w, r, request.UserID)
	if !ok {
		return
	}

	tasks, err := h.tasks.IngestBrainDump(r.Context(), userID, request.DumpText)
	if err != nil {
		code, message := ingestionErrorMessage(err)
		logger.Error("HTTP: brain dump failed", err,
			zap.String("operation", "brain_dump"),
			zap.String("user_id", userID),
			zap.Int("http_status", code),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, code, message)
		return
	}

	logger.Info("HTTP_OUT: brain dump processed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.BrainDumpResponse{
		Tasks: dto.FromTaskList(tasks),
		Count: len(tasks),
	})
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

type taskAction func(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error)

// mutateTask runs one of the body-less task transitions.
func (h *Handler) mutateTask(w http.ResponseWriter, r *http.Request, operation string, action taskAction) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	updated, err := action(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("operation", operation),
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, "complete_task", h.tasks.CompleteTask)
}

func (h *Handler) UnscheduleTask(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, "unschedule_task", h.tasks.UnscheduleTask)
}

func (h *Handler) SkipTask(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, "skip_task", h.tasks.SkipTask)
}

func (h *Handler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var request dto.PriorityRequest
	if !requireJSON(w, r) {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Priority == nil {
		logger.Warn("HTTP: validation error",
			zap.String("field", "priority"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "priority is required")
		return
	}

	h.mutateTask(w, r, "update_priority", func(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
		return h.tasks.UpdatePriority(ctx, userID, id, *request.Priority)
	})
}

// parseSlot reads the requested wall-clock slot in the given zone, or the server's zone.
func parseSlot(request dto.ScheduleRequest) (time.Time, error) {
	loc := time.Local
	if request.TimeZone != "" {
		l, err := time.LoadLocation(request.TimeZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown time zone %q", request.TimeZone)
		}
		loc = l
	}
	return time.ParseInLocation("2006-01-02 15:04", request.Date+" "+request.Time, loc)
}

func (h *Handler) ScheduleTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}

	var request dto.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if request.Date == "" || request.Time == "" {
		responseWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	when, err := parseSlot(request)
	if err != nil {
		logger.Warn("HTTP: invalid schedule slot",
			zap.Error(err),
			zap.String("date", request.Date),
			zap.String("time", request.Time))
		responseWithError(w, http.StatusBadRequest, "invalid date or time")
		return
	}

	userID, ok := resolveUserID(w, r, request.UserID)
	if !ok {
		return
	}

	updated, err := h.tasks.ScheduleTask(r.Context(), userID, id, when)
	if err != nil {
		handleServiceError(w, r, err, "schedule_task")
		return
	}

	logger.Info("HTTP_OUT: task scheduled",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	userID, ok := resolveUserID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
