// Package autosave debounces content changes into version history snapshots.
package autosave

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"podstudio/internal/db"
	"podstudio/internal/models"
	"podstudio/internal/realtime"
)

// DefaultDelay is how long after the last change a save fires.
const DefaultDelay = 3 * time.Second

// SaveFunc persists one snapshot. The production implementation inserts a
// version_history row; tests substitute their own.
type SaveFunc func(episodeID int, snapshot string, changedBy int64, description *string) (*models.Version, error)

// Coordinator debounces per-episode content changes. A save is scheduled
// delay after the last change and the timer restarts on every new change, so
// a continuously edited episode saves only once activity pauses.
type Coordinator struct {
	delay     time.Duration
	save      SaveFunc
	publisher realtime.Publisher

	mu      sync.Mutex
	pending map[int]*pendingSave
}

type pendingSave struct {
	timer *time.Timer
	// gen increments on every schedule or cancel; a fire whose generation
	// no longer matches lost to a newer change and must not save.
	gen        uint64
	serialized string
	lastSaved  string
	changedBy  int64
	desc       *string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay overrides the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.delay = d }
}

// WithSaveFunc overrides how snapshots are persisted.
func WithSaveFunc(fn SaveFunc) Option {
	return func(c *Coordinator) { c.save = fn }
}

func NewCoordinator(publisher realtime.Publisher, opts ...Option) *Coordinator {
	c := &Coordinator{
		delay:     DefaultDelay,
		publisher: publisher,
		pending:   make(map[int]*pendingSave),
	}
	c.save = func(episodeID int, snapshot string, changedBy int64, description *string) (*models.Version, error) {
		return db.InsertVersion(episodeID, snapshot, changedBy, description)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record registers a content change for the episode. Identical content is a
// no-op: if the serialized form matches the pending snapshot or the last one
// saved, nothing is scheduled and any running timer is left alone.
func (c *Coordinator) Record(episodeID int, userID int64, content models.Sections, description *string) {
	raw, err := json.Marshal(content)
	if err != nil {
		log.Printf("Failed to serialize content for episode %d: %v", episodeID, err)
		return
	}
	serialized := string(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pending[episodeID]
	if p == nil {
		p = &pendingSave{}
		c.pending[episodeID] = p
	}
	if serialized == p.lastSaved || (p.timer != nil && serialized == p.serialized) {
		return
	}

	p.serialized = serialized
	p.changedBy = userID
	p.desc = description

	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(c.delay, func() { c.fire(episodeID, gen) })
}

func (c *Coordinator) fire(episodeID int, gen uint64) {
	c.mu.Lock()
	p := c.pending[episodeID]
	// A stale generation means Record or Cancel ran after this timer
	// expired but before it took the lock; the newer change owns the
	// debounce window now.
	if p == nil || p.gen != gen || p.timer == nil {
		c.mu.Unlock()
		return
	}
	p.timer = nil
	snapshot := p.serialized
	if snapshot == p.lastSaved {
		c.mu.Unlock()
		return
	}
	changedBy := p.changedBy
	desc := p.desc
	if desc == nil {
		auto := "Auto-save"
		desc = &auto
	}
	c.mu.Unlock()

	version, err := c.save(episodeID, snapshot, changedBy, desc)
	if err != nil {
		// No automatic retry: the next content change re-triggers the
		// debounce cycle.
		log.Printf("Auto-save failed for episode %d: %v", episodeID, err)
		return
	}

	c.mu.Lock()
	p.lastSaved = snapshot
	c.mu.Unlock()

	log.Printf("Auto-saved episode %d as version %d", episodeID, version.VersionNumber)
	c.publisher.Publish(realtime.EpisodeTopic(episodeID), realtime.Event{
		Table:     "version_history",
		Action:    realtime.ActionInsert,
		EpisodeID: episodeID,
	})
}

// Cancel drops any pending save for the episode without firing it.
func (c *Coordinator) Cancel(episodeID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.pending[episodeID]; p != nil && p.timer != nil {
		p.timer.Stop()
		p.timer = nil
		p.gen++
		p.serialized = p.lastSaved
	}
}

// Close cancels every pending timer. Pending content is dropped, matching
// the unmount behavior of the editor.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pending {
		if p.timer != nil {
			p.timer.Stop()
			p.timer = nil
			p.gen++
		}
	}
}
