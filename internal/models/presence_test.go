package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPresenceLiveness(t *testing.T) {
	now := time.Now()

	t.Run("recent heartbeat is live", func(t *testing.T) {
		p := UserPresence{IsActive: true, LastSeen: now.Add(-4 * time.Minute)}
		assert.True(t, p.Live(now))
	})

	t.Run("stale heartbeat is not live even when active", func(t *testing.T) {
		p := UserPresence{IsActive: true, LastSeen: now.Add(-6 * time.Minute)}
		assert.False(t, p.Live(now))
	})

	t.Run("departed client is not live regardless of heartbeat", func(t *testing.T) {
		p := UserPresence{IsActive: false, LastSeen: now}
		assert.False(t, p.Live(now))
	})
}
