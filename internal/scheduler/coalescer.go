package scheduler

import (
	"sync"
	"time"

	"hsv-range-finder/internal/logger"
)

// Coalescer turns bursts of changes into a single run of action. A periodic
// tick looks for changes made since the previous tick and, when it sees one,
// re-arms the action a quiet period later. The action therefore runs once,
// a quiet period after the tick that observed the last change of a burst.
type Coalescer struct {
	clock  Clock
	tick   time.Duration
	quiet  time.Duration
	action func()
	logger logger.Logger

	mu      sync.Mutex
	dirty   bool
	pending bool
	running bool
	ticker  Timer
	armed   Timer
}

func NewCoalescer(clock Clock, tick, quiet time.Duration, action func(), log logger.Logger) *Coalescer {
	return &Coalescer{
		clock:  clock,
		tick:   tick,
		quiet:  quiet,
		action: action,
		logger: log,
	}
}

// MarkDirty records that the inputs of the action changed.
func (c *Coalescer) MarkDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirty = true
	c.pending = true
}

func (c *Coalescer) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dirty
}

// Tick is the periodic check. It is exported so the clock-driven loop and
// tests share one code path.
func (c *Coalescer) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending {
		return
	}
	c.pending = false

	if c.armed != nil {
		c.armed.Stop()
	}
	c.armed = c.clock.AfterFunc(c.quiet, c.fire)
}

func (c *Coalescer) fire() {
	c.mu.Lock()
	c.armed = nil
	c.dirty = false
	c.mu.Unlock()

	c.action()
}

// Flush cancels any armed action and runs it now.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	if c.armed != nil {
		c.armed.Stop()
		c.armed = nil
	}
	c.dirty = false
	c.pending = false
	c.mu.Unlock()

	c.action()
}

func (c *Coalescer) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.scheduleTick()

	c.logger.Debug("Coalescer", "started", map[string]interface{}{
		"tick":  c.tick,
		"quiet": c.quiet,
	})
}

// scheduleTick must be called with mu held.
func (c *Coalescer) scheduleTick() {
	c.ticker = c.clock.AfterFunc(c.tick, func() {
		c.Tick()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.running {
			c.scheduleTick()
		}
	})
}

// Stop cancels the tick and any armed action. Safe to call repeatedly.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = false
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.armed != nil {
		c.armed.Stop()
		c.armed = nil
	}
}

func (c *Coalescer) Shutdown() {
	c.Stop()
	c.logger.Info("Coalescer", "stopped", nil)
}
