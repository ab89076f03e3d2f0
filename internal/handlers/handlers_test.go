package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jryandunlap/brain-dump/internal/calendar"
	"github.com/jryandunlap/brain-dump/internal/handlers"
	"github.com/jryandunlap/brain-dump/internal/handlers/dto"
	"github.com/jryandunlap/brain-dump/internal/middleware"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
	"github.com/jryandunlap/brain-dump/internal/service"
)

type fixture struct {
	tasks      *MockTaskService
	categories *MockCategoryService
	goals      *MockGoalsService
	calendar   *MockCalendar
	router     http.Handler
}

func newFixture(withCalendar bool) *fixture {
	f := &fixture{
		tasks:      new(MockTaskService),
		categories: new(MockCategoryService),
		goals:      new(MockGoalsService),
		calendar:   new(MockCalendar),
	}

	var cal handlers.CalendarAuth
	if withCalendar {
		cal = f.calendar
	}
	h := handlers.NewHandler(f.tasks, f.categories, f.goals, cal)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	f.router = r
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.tasks.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.goals.AssertExpectations(t)
	f.calendar.AssertExpectations(t)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	msg, _ := body["error"].(string)
	return msg
}

func TestHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("database down"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			tt.setupMock(f.tasks)

			w := f.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "brain-dump")
			f.assertExpectations(t)
		})
	}
}

func TestHandler_BrainDump(t *testing.T) {
	extracted := []*task.Task{
		{UUID: uuid.New(), UserID: "user-1", Title: "Call dentist", Urgency: task.UrgencyMedium, Priority: 65, Status: task.StatusPending},
		{UUID: uuid.New(), UserID: "user-1", Title: "Draft Q3 plan", Urgency: task.UrgencyHigh, Priority: 80, Status: task.StatusPending},
	}

	tests := []struct {
		name            string
		requestBody     string
		setupMock       func(*MockTaskService)
		expectedStatus  int
		expectedMessage string
		expectedCount   int
	}{
		{
			name:        "success",
			requestBody: `{"dumpText":"call dentist, plan Q3","userId":"user-1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("IngestBrainDump", mock.Anything, "user-1", "call dentist, plan Q3").Return(extracted, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:        "success - nothing extracted",
			requestBody: `{"dumpText":"hmm","userId":"user-1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("IngestBrainDump", mock.Anything, "user-1", "hmm").Return([]*task.Task{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:            "error - missing dump text",
			requestBody:     `{"userId":"user-1"}`,
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing required fields",
		},
		{
			name:            "error - missing user id",
			requestBody:     `{"dumpText":"call dentist"}`,
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing required fields",
		},
		{
			name:            "error - malformed body",
			requestBody:     `{"dumpText":`,
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
		{
			name:            "error - body is not an object",
			requestBody:     `["buy milk"]`,
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
		{
			name:        "error - categories unavailable",
			requestBody: `{"dumpText":"x","userId":"user-1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("IngestBrainDump", mock.Anything, "user-1", "x").
					Return(nil, service.NewBusinessError(service.CodeCategoriesFetchFailed, "db").Wrap(errors.New("conn reset")))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to fetch categories",
		},
		{
			name:        "error - tasks not saved",
			requestBody: `{"dumpText":"x","userId":"user-1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("IngestBrainDump", mock.Anything, "user-1", "x").
					Return(nil, service.NewBusinessError(service.CodeTasksSaveFailed, "db"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to save tasks",
		},
		{
			name:        "error - model call failed",
			requestBody: `{"dumpText":"x","userId":"user-1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("IngestBrainDump", mock.Anything, "user-1", "x").
					Return(nil, errors.New("anthropic api error (529): overloaded"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			tt.setupMock(f.tasks)

			w := f.serve(jsonRequest(http.MethodPost, "/api/brain-dump", tt.requestBody))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response dto.BrainDumpResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedCount, response.Count)
				assert.Len(t, response.Tasks, tt.expectedCount)
			} else {
				assert.Equal(t, tt.expectedMessage, errorMessage(t, w))
			}
			if len(f.tasks.ExpectedCalls) == 0 {
				f.tasks.AssertNotCalled(t, "IngestBrainDump", mock.Anything, mock.Anything, mock.Anything)
			}
			f.assertExpectations(t)
		})
	}
}

func TestHandler_BrainDump_TokenSubjectMismatch(t *testing.T) {
	f := newFixture(false)

	req := jsonRequest(http.MethodPost, "/api/brain-dump", `{"dumpText":"x","userId":"someone-else"}`)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	w := f.serve(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorMessage(t, w))
	f.tasks.AssertNotCalled(t, "IngestBrainDump", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ListTasks(t *testing.T) {
	t.Run("token subject is used when no user is given", func(t *testing.T) {
		f := newFixture(false)
		f.tasks.On("ListTasks", mock.Anything, "user-1").
			Return([]*task.Task{{UUID: uuid.New(), UserID: "user-1", Title: "A"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
		w := f.serve(req)

		require.Equal(t, http.StatusOK, w.Code)
		var response []dto.TaskResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, "A", response[0].Title)
		f.assertExpectations(t)
	})

	t.Run("service failure is a generic 500", func(t *testing.T) {
		f := newFixture(false)
		f.tasks.On("ListTasks", mock.Anything, "user-1").Return(nil, errors.New("boom"))

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/tasks?userId=user-1", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", errorMessage(t, w))
	})
}

func TestHandler_TaskTransitions(t *testing.T) {
	taskID := uuid.New()
	done := &task.Task{UUID: taskID, UserID: "user-1", Title: "Call dentist", Status: task.StatusDone}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:   "complete",
			method: http.MethodPost,
			path:   "/api/tasks/" + taskID.String() + "/complete?userId=user-1",
			setupMock: func(m *MockTaskService) {
				m.On("CompleteTask", mock.Anything, "user-1", taskID).Return(done, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "skip",
			method: http.MethodPost,
			path:   "/api/tasks/" + taskID.String() + "/skip",
			setupMock: func(m *MockTaskService) {
				m.On("SkipTask", mock.Anything, "", taskID).Return(done, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "unschedule not found",
			method: http.MethodPost,
			path:   "/api/tasks/" + taskID.String() + "/unschedule",
			setupMock: func(m *MockTaskService) {
				m.On("UnscheduleTask", mock.Anything, "", taskID).
					Return(nil, service.NewNotFound("task", taskID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			method:         http.MethodPost,
			path:           "/api/tasks/not-a-uuid/complete",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "priority",
			method: http.MethodPut,
			path:   "/api/tasks/" + taskID.String() + "/priority",
			body:   `{"priority":42}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdatePriority", mock.Anything, "", taskID, 42).Return(done, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "priority missing",
			method:         http.MethodPut,
			path:           "/api/tasks/" + taskID.String() + "/priority",
			body:           `{}`,
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/api/tasks/" + taskID.String(),
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, "", taskID).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			tt.setupMock(f.tasks)

			w := f.serve(jsonRequest(tt.method, tt.path, tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response dto.TaskResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, taskID, response.UUID)
			}
			f.assertExpectations(t)
		})
	}
}

func TestHandler_ScheduleTask(t *testing.T) {
	taskID := uuid.New()
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	want := time.Date(2026, 10, 20, 9, 30, 0, 0, berlin)

	t.Run("slot is parsed in the requested zone", func(t *testing.T) {
		f := newFixture(false)
		f.tasks.On("ScheduleTask", mock.Anything, "user-1", taskID, mock.MatchedBy(func(when time.Time) bool {
			return when.Equal(want)
		})).Return(&task.Task{UUID: taskID, Status: task.StatusScheduled}, nil)

		w := f.serve(jsonRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/schedule",
			`{"userId":"user-1","date":"2026-10-20","time":"09:30","timeZone":"Europe/Berlin"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		f.assertExpectations(t)
	})

	t.Run("calendar failure is a bad gateway", func(t *testing.T) {
		f := newFixture(false)
		f.tasks.On("ScheduleTask", mock.Anything, "user-1", taskID, mock.Anything).
			Return(nil, service.NewBusinessError(service.CodeCalendarFailed, "Failed to schedule task"))

		w := f.serve(jsonRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/schedule",
			`{"userId":"user-1","date":"2026-10-20","time":"09:30"}`))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	badBodies := map[string]string{
		"missing time":   `{"userId":"user-1","date":"2026-10-20"}`,
		"invalid date":   `{"userId":"user-1","date":"20/10/2026","time":"09:30"}`,
		"unknown zone":   `{"userId":"user-1","date":"2026-10-20","time":"09:30","timeZone":"Mars/Olympus"}`,
		"malformed json": `{"userId":`,
	}
	for name, body := range badBodies {
		t.Run(name, func(t *testing.T) {
			f := newFixture(false)

			w := f.serve(jsonRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/schedule", body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			f.tasks.AssertNotCalled(t, "ScheduleTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("wrong content type", func(t *testing.T) {
		f := newFixture(false)
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/schedule",
			bytes.NewBufferString(`{"date":"2026-10-20","time":"09:30"}`))
		req.Header.Set("Content-Type", "text/plain")

		w := f.serve(req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestHandler_Categories(t *testing.T) {
	t.Run("create returns 201", func(t *testing.T) {
		f := newFixture(false)
		f.categories.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *category.Category) bool {
			return c.UserID == "user-1" && c.Name == "Health"
		})).Return(&category.Category{UUID: uuid.New(), UserID: "user-1", Name: "Health"}, nil)

		w := f.serve(jsonRequest(http.MethodPost, "/api/categories", `{"userId":"user-1","name":"Health","priority":2}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		f.assertExpectations(t)
	})

	t.Run("create validation error", func(t *testing.T) {
		f := newFixture(false)
		f.categories.On("CreateCategory", mock.Anything, mock.Anything).
			Return(nil, service.NewValidationError("name", "required"))

		w := f.serve(jsonRequest(http.MethodPost, "/api/categories", `{"userId":"user-1"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update forwards the id", func(t *testing.T) {
		f := newFixture(false)
		id := uuid.New()
		f.categories.On("UpdateCategory", mock.Anything, "user-1", id, mock.Anything).
			Return(&category.Category{UUID: id, Name: "Work"}, nil)

		w := f.serve(jsonRequest(http.MethodPut, "/api/categories/"+id.String(), `{"userId":"user-1","name":"Work"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		f.assertExpectations(t)
	})
}

func TestHandler_Goals(t *testing.T) {
	quarter := "Ship v2"

	t.Run("get not found", func(t *testing.T) {
		f := newFixture(false)
		f.goals.On("GetGoals", mock.Anything, "user-1").Return(nil, service.NewNotFound("goals", "user-1"))

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/goals?userId=user-1", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("save", func(t *testing.T) {
		f := newFixture(false)
		f.goals.On("SaveGoals", mock.Anything, "user-1", &quarter, (*string)(nil)).
			Return(&goals.Goals{UserID: "user-1", QuarterGoals: &quarter}, nil)

		w := f.serve(jsonRequest(http.MethodPut, "/api/goals", `{"userId":"user-1","quarterGoals":"Ship v2"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		f.assertExpectations(t)
	})

	t.Run("onboarding returns goals and created categories", func(t *testing.T) {
		f := newFixture(false)
		created := []*category.Category{{UUID: uuid.New(), Name: "Work"}}
		f.goals.On("Onboard", mock.Anything, "user-1", &quarter, (*string)(nil), mock.MatchedBy(func(c []*category.Category) bool {
			return len(c) == 1 && c[0].Name == "Work"
		})).Return(&goals.Goals{UserID: "user-1"}, created, nil)

		w := f.serve(jsonRequest(http.MethodPost, "/api/onboarding",
			`{"userId":"user-1","quarterGoals":"Ship v2","categories":[{"name":"Work"}]}`))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Contains(t, body, "goals")
		assert.Contains(t, body, "categories")
		f.assertExpectations(t)
	})
}

func TestHandler_Google(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(false)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/google-connect?userId=user-1", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("connect redirects to consent", func(t *testing.T) {
		f := newFixture(true)
		f.calendar.On("AuthCodeURL", "user-1").Return("https://accounts.example/consent?state=signed", nil)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/google-connect?userId=user-1", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://accounts.example/consent?state=signed", w.Header().Get("Location"))
		f.assertExpectations(t)
	})

	t.Run("callback exchanges the code for the user in state", func(t *testing.T) {
		f := newFixture(true)
		f.calendar.On("UserFromState", "signed").Return("user-1", nil)
		f.calendar.On("Exchange", mock.Anything, "user-1", "auth-code").
			Return(&oauth2.Token{AccessToken: "at", Expiry: time.Now().Add(time.Hour)}, nil)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/google-auth?code=auth-code&state=signed", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		f.assertExpectations(t)
	})

	t.Run("callback with forged state", func(t *testing.T) {
		f := newFixture(true)
		f.calendar.On("UserFromState", "user-2").Return("", calendar.ErrInvalidState)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/google-auth?code=auth-code&state=user-2", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid OAuth state")
		f.calendar.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refresh with client token", func(t *testing.T) {
		f := newFixture(true)
		f.calendar.On("RefreshWithToken", mock.Anything, "rt").Return(&oauth2.Token{AccessToken: "fresh"}, nil)

		w := f.serve(jsonRequest(http.MethodPost, "/api/google-refresh", `{"refreshToken":"rt"}`))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "fresh", body["access_token"])
	})

	t.Run("refresh for user failing", func(t *testing.T) {
		f := newFixture(true)
		f.calendar.On("Refresh", mock.Anything, "user-1").Return(nil, errors.New("invalid_grant"))

		w := f.serve(jsonRequest(http.MethodPost, "/api/google-refresh", `{"userId":"user-1"}`))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
