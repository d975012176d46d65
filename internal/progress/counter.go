package progress

import (
	"sync"
	"time"
)

// Counter records what a run reported. It is safe for concurrent use.
type Counter struct {
	mu        sync.RWMutex
	starts    int
	total     int
	current   int
	startTime time.Time
	elapsed   time.Duration
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Start(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.starts++
	c.total = total
	c.current = 0
	c.startTime = time.Now()
	c.elapsed = 0
}

func (c *Counter) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current++
	c.elapsed = time.Since(c.startTime)
}

// Starts returns how many times Start was called.
func (c *Counter) Starts() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.starts
}

// Total returns the last announced total.
func (c *Counter) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// Current returns the number of Advance calls since the last Start.
func (c *Counter) Current() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Complete reports whether Start was called once and Advance exactly Total times.
func (c *Counter) Complete() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.starts == 1 && c.current == c.total
}

// PercentComplete returns the completion percentage.
func (c *Counter) PercentComplete() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.total == 0 {
		return 0
	}
	return float64(c.current) / float64(c.total) * 100.0
}

// Elapsed returns the time between Start and the latest Advance.
func (c *Counter) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}
