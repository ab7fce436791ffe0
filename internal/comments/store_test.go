package comments

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podstudio/internal/models"
	"podstudio/internal/test"
)

func newStore() (*Store, *test.MockTaskEnqueuer, *test.MockPublisher) {
	enqueuer := &test.MockTaskEnqueuer{}
	publisher := &test.MockPublisher{}
	return NewStore(enqueuer, publisher), enqueuer, publisher
}

func intPtr(i int) *int { return &i }

func TestThreadComments(t *testing.T) {
	top := &models.Comment{ID: 1}
	reply := &models.Comment{ID: 2, ParentID: intPtr(1)}
	other := &models.Comment{ID: 3}

	threaded := ThreadComments([]*models.Comment{top, reply, other})

	assert.Len(t, threaded, 2)
	assert.Equal(t, 1, threaded[0].ID)
	assert.Equal(t, 3, threaded[1].ID)
	// The reply hangs off its parent and is absent from the top level.
	assert.Len(t, threaded[0].Replies, 1)
	assert.Equal(t, 2, threaded[0].Replies[0].ID)
}

func TestThreadCommentsSingleLevelOnly(t *testing.T) {
	top := &models.Comment{ID: 1}
	reply := &models.Comment{ID: 2, ParentID: intPtr(1)}
	grandchild := &models.Comment{ID: 3, ParentID: intPtr(2)}

	threaded := ThreadComments([]*models.Comment{top, reply, grandchild})

	// Only direct children of top-level comments are lifted; the reply to a
	// reply keeps its parent link but does not appear in any replies slice.
	assert.Len(t, threaded, 1)
	assert.Len(t, threaded[0].Replies, 1)
	assert.Empty(t, threaded[0].Replies[0].Replies)
}

func TestCommentAnchoring(t *testing.T) {
	comment := &models.Comment{
		TextSelection: &models.TextSelection{
			Section: "show_notes",
			Start:   10,
			End:     21,
			Text:    "great guest",
		},
	}

	t.Run("anchored while selection text survives", func(t *testing.T) {
		assert.True(t, comment.AnchoredTo("show_notes", "We had a great guest this week"))
	})

	t.Run("drops out once the text is edited away", func(t *testing.T) {
		assert.False(t, comment.AnchoredTo("show_notes", "We had a wonderful visitor this week"))
	})

	t.Run("never anchors to a different section", func(t *testing.T) {
		assert.False(t, comment.AnchoredTo("transcript", "a great guest"))
	})

	t.Run("unanchored comments match nothing", func(t *testing.T) {
		plain := &models.Comment{}
		assert.False(t, plain.AnchoredTo("show_notes", "anything"))
	})
}

func TestCommentsForSection(t *testing.T) {
	anchored := &models.Comment{ID: 1, TextSelection: &models.TextSelection{Section: "show_notes", Text: "intro"}}
	edited := &models.Comment{ID: 2, TextSelection: &models.TextSelection{Section: "show_notes", Text: "removed bit"}}
	elsewhere := &models.Comment{ID: 3, TextSelection: &models.TextSelection{Section: "transcript", Text: "intro"}}

	visible := CommentsForSection([]*models.Comment{anchored, edited, elsewhere}, "show_notes", "the intro music")

	assert.Len(t, visible, 1)
	assert.Equal(t, 1, visible[0].ID)
}

var commentColumns = []string{
	"id", "episode_id", "user_id", "parent_id", "content", "text_selection",
	"status", "priority", "created_at", "updated_at",
}

func TestAddReactionUpsert(t *testing.T) {
	_, mock := test.NewMockDB(t)
	store, _, publisher := newStore()

	now := time.Now()
	commentRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(commentColumns).
			AddRow(10, 1, int64(2), nil, "nice", nil, models.CommentOpen, models.PriorityMedium, now, now)
	}
	reactionColumns := []string{"id", "comment_id", "user_id", "emoji", "created_at"}

	mock.ExpectQuery(`FROM episode_comments WHERE id = \$1`).
		WithArgs(10).WillReturnRows(commentRow())
	mock.ExpectQuery(`INSERT INTO episode_reactions`).
		WithArgs(10, int64(5), "🔥").
		WillReturnRows(sqlmock.NewRows(reactionColumns).AddRow(1, 10, int64(5), "🔥", now))

	first, err := store.AddReaction(10, 5, "🔥")
	assert.NoError(t, err)
	assert.Equal(t, "🔥", first.Emoji)

	// Same user reacts again: the upsert replaces the row, same id.
	mock.ExpectQuery(`FROM episode_comments WHERE id = \$1`).
		WithArgs(10).WillReturnRows(commentRow())
	mock.ExpectQuery(`INSERT INTO episode_reactions`).
		WithArgs(10, int64(5), "👍").
		WillReturnRows(sqlmock.NewRows(reactionColumns).AddRow(1, 10, int64(5), "👍", now))

	second, err := store.AddReaction(10, 5, "👍")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "👍", second.Emoji)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"episode:1", "episode:1"}, publisher.Topics())
}

func TestAddCommentFanOut(t *testing.T) {
	_, mock := test.NewMockDB(t)
	store, enqueuer, publisher := newStore()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO episode_comments`).
		WithArgs(1, int64(2), "looks good", nil, nil, models.PriorityMedium).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(10, 1, int64(2), nil, "looks good", nil, models.CommentOpen, models.PriorityMedium, now, now))
	mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "telegram_username", "display_name", "avatar_url", "created_at", "updated_at"}).
			AddRow(int64(2), "ann", "Ann", nil, now, now))

	collaborators := sqlmock.NewRows([]string{"id", "episode_id", "user_id", "role", "created_at"}).
		AddRow(1, 1, int64(2), nil, now).
		AddRow(2, 1, int64(3), nil, now)
	mock.ExpectQuery(`FROM episode_collaborators`).WithArgs(1).WillReturnRows(collaborators)

	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "title", "message", "data", "read", "created_at"}).
			AddRow(1, int64(3), models.NotificationCommentAdded, "New comment", "msg", []byte(`{}`), false, now))

	comment, err := store.AddComment(1, 2, "looks good", nil, nil, "")

	assert.NoError(t, err)
	assert.Equal(t, "Ann", comment.Author.DisplayName)
	assert.Equal(t, models.PriorityMedium, comment.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
	// One notification for the other collaborator, none for the author.
	assert.Len(t, enqueuer.EnqueuedTasks, 1)
	assert.Equal(t, []string{"user:3", "episode:1"}, publisher.Topics())
}

func TestAddCommentRejectsBadPriority(t *testing.T) {
	test.NewMockDB(t)
	store, enqueuer, _ := newStore()

	_, err := store.AddComment(1, 2, "hey", nil, nil, models.CommentPriority("urgent"))

	assert.ErrorIs(t, err, ErrInvalidPriority)
	assert.Empty(t, enqueuer.EnqueuedTasks)
}

func TestUpdateStatusRejectsBadStatus(t *testing.T) {
	test.NewMockDB(t)
	store, _, publisher := newStore()

	err := store.UpdateStatus(10, models.CommentStatus("done"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, publisher.Events())
}
