package autosave

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"podstudio/internal/models"
	"podstudio/internal/test"
)

type savedCall struct {
	episodeID   int
	snapshot    string
	changedBy   int64
	description string
}

type saveRecorder struct {
	mu    sync.Mutex
	calls []savedCall
}

func (r *saveRecorder) save(episodeID int, snapshot string, changedBy int64, description *string) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc := ""
	if description != nil {
		desc = *description
	}
	r.calls = append(r.calls, savedCall{episodeID, snapshot, changedBy, desc})
	return &models.Version{EpisodeID: episodeID, VersionNumber: len(r.calls)}, nil
}

func (r *saveRecorder) snapshot() []savedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]savedCall(nil), r.calls...)
}

const testDelay = 60 * time.Millisecond

func newTestCoordinator() (*Coordinator, *saveRecorder, *test.MockPublisher) {
	recorder := &saveRecorder{}
	publisher := &test.MockPublisher{}
	c := NewCoordinator(publisher, WithDelay(testDelay), WithSaveFunc(recorder.save))
	return c, recorder, publisher
}

func TestDebounceCoalescesBurst(t *testing.T) {
	c, recorder, publisher := newTestCoordinator()
	defer c.Close()

	// Three changes inside the window: one save, holding the last content.
	c.Record(1, 7, models.Sections{"show_notes": "v1"}, nil)
	time.Sleep(testDelay / 3)
	c.Record(1, 7, models.Sections{"show_notes": "v2"}, nil)
	time.Sleep(testDelay / 3)
	c.Record(1, 7, models.Sections{"show_notes": "v3"}, nil)

	time.Sleep(testDelay / 2)
	assert.Empty(t, recorder.snapshot(), "save fired before the window elapsed")

	time.Sleep(testDelay)
	calls := recorder.snapshot()
	if assert.Len(t, calls, 1) {
		assert.Equal(t, 1, calls[0].episodeID)
		assert.Equal(t, `{"show_notes":"v3"}`, calls[0].snapshot)
		assert.Equal(t, int64(7), calls[0].changedBy)
		assert.Equal(t, "Auto-save", calls[0].description)
	}
	assert.Equal(t, []string{"episode:1"}, publisher.Topics())
}

func TestIdenticalContentIsNoOp(t *testing.T) {
	c, recorder, _ := newTestCoordinator()
	defer c.Close()

	content := models.Sections{"show_notes": "same"}
	c.Record(1, 7, content, nil)
	// Identical re-records must not reschedule: the save still fires one
	// delay after the first change.
	time.Sleep(testDelay * 2 / 3)
	c.Record(1, 7, content, nil)
	c.Record(1, 7, content, nil)

	time.Sleep(testDelay)
	assert.Len(t, recorder.snapshot(), 1)

	// After the save, the same content never schedules again.
	c.Record(1, 7, content, nil)
	time.Sleep(testDelay * 2)
	assert.Len(t, recorder.snapshot(), 1)
}

func TestChangedContentSavesAgain(t *testing.T) {
	c, recorder, _ := newTestCoordinator()
	defer c.Close()

	c.Record(1, 7, models.Sections{"show_notes": "one"}, nil)
	time.Sleep(testDelay * 2)
	c.Record(1, 7, models.Sections{"show_notes": "two"}, nil)
	time.Sleep(testDelay * 2)

	calls := recorder.snapshot()
	if assert.Len(t, calls, 2) {
		assert.Equal(t, `{"show_notes":"one"}`, calls[0].snapshot)
		assert.Equal(t, `{"show_notes":"two"}`, calls[1].snapshot)
	}
}

func TestContinuousEditingNeverSaves(t *testing.T) {
	recorder := &saveRecorder{}
	c := NewCoordinator(&test.MockPublisher{}, WithDelay(2*time.Millisecond), WithSaveFunc(recorder.save))
	defer c.Close()

	// Changes arriving far faster than the window keep resetting the timer;
	// even when a timer expires right as a Record takes the lock, the losing
	// fire must stand down instead of snapshotting the fresh content.
	deadline := time.Now().Add(200 * time.Millisecond)
	for i := 0; time.Now().Before(deadline); i++ {
		c.Record(1, 7, models.Sections{"show_notes": string(rune('a' + i%26))}, nil)
	}
	assert.Empty(t, recorder.snapshot(), "saved while changes were still arriving")

	// Once the stream pauses, exactly one save with the final content.
	time.Sleep(20 * time.Millisecond)
	calls := recorder.snapshot()
	if assert.Len(t, calls, 1) {
		assert.Equal(t, 1, calls[0].episodeID)
	}
}

func TestEpisodesDebounceIndependently(t *testing.T) {
	c, recorder, _ := newTestCoordinator()
	defer c.Close()

	c.Record(1, 7, models.Sections{"show_notes": "a"}, nil)
	c.Record(2, 8, models.Sections{"show_notes": "b"}, nil)
	time.Sleep(testDelay * 2)

	calls := recorder.snapshot()
	assert.Len(t, calls, 2)
}

func TestCancelDropsPendingSave(t *testing.T) {
	c, recorder, _ := newTestCoordinator()
	defer c.Close()

	c.Record(1, 7, models.Sections{"show_notes": "draft"}, nil)
	c.Cancel(1)
	time.Sleep(testDelay * 2)

	assert.Empty(t, recorder.snapshot())
}

func TestCustomDescription(t *testing.T) {
	c, recorder, _ := newTestCoordinator()
	defer c.Close()

	desc := "Imported transcript"
	c.Record(1, 7, models.Sections{"transcript": "..."}, &desc)
	time.Sleep(testDelay * 2)

	calls := recorder.snapshot()
	if assert.Len(t, calls, 1) {
		assert.Equal(t, "Imported transcript", calls[0].description)
	}
}
