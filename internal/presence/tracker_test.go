package presence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podstudio/internal/models"
	"podstudio/internal/realtime"
	"podstudio/internal/test"
)

func TestHeartbeatUpsertsAndPublishes(t *testing.T) {
	_, mock := test.NewMockDB(t)
	publisher := &test.MockPublisher{}
	tracker := NewTracker(publisher)

	cursor := &models.CursorPosition{Section: "show_notes", Position: 120}
	mock.ExpectExec(`INSERT INTO user_presence`).
		WithArgs(int64(7), 1, cursor).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := tracker.Heartbeat(7, 1, cursor)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"episode:1"}, publisher.Topics())
	assert.Equal(t, []realtime.Event{{Table: "user_presence", Action: realtime.ActionUpdate, EpisodeID: 1}}, publisher.Events())
}

func TestDepartMarksInactive(t *testing.T) {
	_, mock := test.NewMockDB(t)
	publisher := &test.MockPublisher{}
	tracker := NewTracker(publisher)

	mock.ExpectExec(`UPDATE user_presence SET is_active = FALSE`).
		WithArgs(int64(7), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tracker.Depart(7, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"episode:1"}, publisher.Topics())
}

func TestDepartSwallowsStoreFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)
	publisher := &test.MockPublisher{}
	tracker := NewTracker(publisher)

	mock.ExpectExec(`UPDATE user_presence SET is_active = FALSE`).
		WithArgs(int64(7), 1).
		WillReturnError(assert.AnError)

	// Departure is best effort: no panic, no event.
	tracker.Depart(7, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, publisher.Topics())
}

func TestActiveOthersExcludesSelf(t *testing.T) {
	_, mock := test.NewMockDB(t)
	tracker := NewTracker(&test.MockPublisher{})

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "episode_id", "cursor_position", "last_seen", "is_active",
		"author_id", "author_display_name", "author_avatar_url",
	}).AddRow(1, int64(3), 1, nil, now, true, int64(3), "Bea", nil)

	mock.ExpectQuery(`FROM user_presence p`).
		WithArgs(1, int64(7)).
		WillReturnRows(rows)

	active, err := tracker.ActiveOthers(1, 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	if assert.Len(t, active, 1) {
		assert.Equal(t, int64(3), active[0].UserID)
		assert.Equal(t, "Bea", active[0].Author.DisplayName)
		assert.True(t, active[0].Live(now))
	}
}

func TestAttachDepartsWhenDone(t *testing.T) {
	_, mock := test.NewMockDB(t)
	publisher := &test.MockPublisher{}
	tracker := NewTracker(publisher)

	mock.ExpectExec(`INSERT INTO user_presence`).
		WithArgs(int64(7), 1, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE user_presence SET is_active = FALSE`).
		WithArgs(int64(7), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		tracker.Attach(7, 1, done)
		close(finished)
	}()

	// The initial heartbeat lands immediately; closing done triggers the
	// departure without waiting for a tick.
	time.Sleep(20 * time.Millisecond)
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Attach did not return after done closed")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"episode:1", "episode:1"}, publisher.Topics())
}
