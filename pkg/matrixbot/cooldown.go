package matrixbot

import (
	"sync"
	"time"
)

type cooldownKey struct {
	sender  string
	command string
}

// Cooldown ignores repeated invocations of a command by the same user within
// a window. A slot is reserved when an invocation starts, so concurrent
// invocations can't slip past one that is still running.
type Cooldown struct {
	window time.Duration

	mu   sync.Mutex
	last map[cooldownKey]time.Time
}

// NewCooldown creates a cooldown tracker. A zero window disables it.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window, last: make(map[cooldownKey]time.Time)}
}

// Reserve reports whether sender may run command at now, and if so takes
// the slot until the window passes or Release is called.
func (c *Cooldown) Reserve(sender, command string, now time.Time) bool {
	if c == nil || c.window <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cooldownKey{sender, command}
	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	for other, at := range c.last {
		if now.Sub(at) >= c.window {
			delete(c.last, other)
		}
	}
	c.last[key] = now
	return true
}

// Release gives back a slot taken at reservedAt, for invocations that
// shouldn't count.
func (c *Cooldown) Release(sender, command string, reservedAt time.Time) {
	if c == nil || c.window <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cooldownKey{sender, command}
	if at, ok := c.last[key]; ok && at.Equal(reservedAt) {
		delete(c.last, key)
	}
}
