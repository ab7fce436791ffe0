package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"podstudio/internal/middleware"
	"podstudio/internal/models"
	"podstudio/internal/realtime"
	"podstudio/internal/test"
)

var episodeColumns = []string{
	"id", "workspace_id", "title", "description", "content", "current_status",
	"audio_url", "audio_size_bytes", "duration_seconds", "created_by",
	"published_at", "created_at", "updated_at",
}

func episodeRows(id int, status models.WorkflowStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(episodeColumns).
		AddRow(id, 1, "Episode One", nil, []byte(`{}`), status, nil, nil, nil, int64(1), nil, now, now)
}

func newTestHandlers() *Handlers {
	return New(&test.MockTaskEnqueuer{}, realtime.NewHub())
}

func authedRequest(method, target, body string, user *models.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)
	return req.WithContext(ctx)
}

func newRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/episodes/{id}/status", h.RequestTransition).Methods(http.MethodPost)
	r.HandleFunc("/api/episodes/{id}/workflow", h.GetWorkflow).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications", h.GetNotifications).Methods(http.MethodGet)
	return r
}

func TestRequestTransitionHandler(t *testing.T) {
	user := &models.User{ID: 7, DisplayName: "Eve"}

	t.Run("applies allowed transition", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
			WithArgs(1).WillReturnRows(episodeRows(1, models.StatusInReview))
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(1, 1, int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("editor"))
		mock.ExpectExec(`UPDATE episodes`).
			WithArgs(models.StatusApproved, 1, models.StatusInReview).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO workflow_states`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "episode_id", "status", "changed_by", "notes", "created_at"}).
				AddRow(1, 1, models.StatusApproved, int64(7), nil, time.Now()))
		mock.ExpectQuery(`FROM episode_collaborators`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "episode_id", "user_id", "role", "created_at"}))

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/episodes/1/status", `{"target":"approved"}`, user)
		newRouter(newTestHandlers()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var state models.WorkflowState
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
		assert.Equal(t, models.StatusApproved, state.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects disallowed transition with 422", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
			WithArgs(1).WillReturnRows(episodeRows(1, models.StatusPublished))

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/episodes/1/status", `{"target":"draft"}`, user)
		newRouter(newTestHandlers()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects insufficient role with 403", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
			WithArgs(1).WillReturnRows(episodeRows(1, models.StatusInReview))
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(1, 1, int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("va"))

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/episodes/1/status", `{"target":"approved"}`, user)
		newRouter(newTestHandlers()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps concurrent transition to 409", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
			WithArgs(1).WillReturnRows(episodeRows(1, models.StatusInReview))
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(1, 1, int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("editor"))
		mock.ExpectExec(`UPDATE episodes`).
			WithArgs(models.StatusApproved, 1, models.StatusInReview).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/episodes/1/status", `{"target":"approved"}`, user)
		newRouter(newTestHandlers()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetWorkflowHandler(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE id = \$1`).
		WithArgs(1).WillReturnRows(episodeRows(1, models.StatusNeedsChanges))
	mock.ExpectQuery(`FROM workflow_states`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "episode_id", "status", "changed_by", "notes", "created_at"}).
			AddRow(2, 1, models.StatusNeedsChanges, int64(3), "tighten the intro", time.Now()).
			AddRow(1, 1, models.StatusInReview, int64(7), nil, time.Now()))

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/episodes/1/workflow", "", &models.User{ID: 7})
	newRouter(newTestHandlers()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		CurrentStatus  models.WorkflowStatus   `json:"current_status"`
		AllowedTargets []models.WorkflowStatus `json:"allowed_targets"`
		Progress       struct {
			StepIndex int  `json:"step_index"`
			Detour    bool `json:"detour"`
		} `json:"progress"`
		History []models.WorkflowState `json:"history"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, models.StatusNeedsChanges, view.CurrentStatus)
	assert.ElementsMatch(t, []models.WorkflowStatus{models.StatusDraft, models.StatusInReview}, view.AllowedTargets)
	assert.True(t, view.Progress.Detour)
	assert.Equal(t, 1, view.Progress.StepIndex)
	assert.Len(t, view.History, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotificationsHandler(t *testing.T) {
	_, mock := test.NewMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`FROM notifications`).
		WithArgs(int64(7), 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "title", "message", "data", "read", "created_at"}).
			AddRow(3, int64(7), models.NotificationCommentAdded, "New comment", "Ann commented", []byte(`{}`), false, now).
			AddRow(2, int64(7), models.NotificationStatusChanged, "Episode status changed", "moved", []byte(`{}`), false, now).
			AddRow(1, int64(7), models.NotificationStatusChanged, "Episode status changed", "moved", []byte(`{}`), true, now))

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/notifications", "", &models.User{ID: 7})
	newRouter(newTestHandlers()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Len(t, view.Notifications, 3)
	assert.Equal(t, 2, view.UnreadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
