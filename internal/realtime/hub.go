// Package realtime pushes row-change events to connected clients. Events
// carry no payload beyond what changed; clients are expected to re-fetch the
// affected collection, which keeps every client rendering from authoritative
// reads at the cost of a full reload per event.
package realtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event describes one row-level change on a subscribed topic.
type Event struct {
	Table     string `json:"table"`
	Action    string `json:"action"`
	EpisodeID int    `json:"episode_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// EpisodeTopic is the channel all collaborators on an episode listen on.
func EpisodeTopic(episodeID int) string {
	return fmt.Sprintf("episode:%d", episodeID)
}

// UserTopic is a user's private channel, used for notification pushes.
func UserTopic(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Publisher is the write side of the hub. It's implemented by Hub, and can
// be mocked for testing.
type Publisher interface {
	Publish(topic string, ev Event)
}

// Hub fans events out to subscribers by topic. Slow subscribers have events
// dropped rather than blocking publishers; a dropped event is harmless
// because the next event triggers the same re-fetch.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[string]chan Event)}
}

// Subscription is one client's registration on a set of topics. Events arrive
// on C until Close.
type Subscription struct {
	ID     string
	C      chan Event
	topics []string
	hub    *Hub
	once   sync.Once
}

const subscriptionBuffer = 16

// Subscribe registers a new client on the given topics.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		C:      make(chan Event, subscriptionBuffer),
		topics: topics,
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[string]chan Event)
		}
		h.subscribers[topic][sub.ID] = sub.C
	}
	return sub
}

// Close removes the subscription from the hub. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		for _, topic := range s.topics {
			delete(s.hub.subscribers[topic], s.ID)
			if len(s.hub.subscribers[topic]) == 0 {
				delete(s.hub.subscribers, topic)
			}
		}
	})
}

// Publish delivers the event to every subscriber on the topic without
// blocking.
func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers[topic] {
		select {
		case ch <- ev:
		default:
			// Subscriber is not draining; drop.
		}
	}
}

// SubscriberCount reports how many clients listen on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
