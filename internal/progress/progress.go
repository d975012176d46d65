// Package progress defines how long-running algorithms report coarse
// progress, plus the reporters the CLI and the tests plug into them.
//
// An algorithm calls Start exactly once with the number of steps it will take
// and then Advance exactly that many times. Median blur calls Advance from its
// worker goroutines, so every stateful reporter here guards its state.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Reporter receives progress from one algorithm run.
type Reporter interface {
	// Start announces the total number of steps. Called once, before any Advance.
	Start(total int)

	// Advance marks one step as completed.
	Advance()
}

type nop struct{}

func (nop) Start(int) {}
func (nop) Advance()  {}

// Nop discards all progress. Pipelines hand it to their sub-stages.
var Nop Reporter = nop{}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop
	}
	return r
}

// Console draws a progress bar on a terminal.
type Console struct {
	writer         io.Writer
	prefix         string
	width          int
	updateInterval time.Duration
	showETA        bool

	mu         sync.Mutex
	total      int
	current    int
	startTime  time.Time
	lastUpdate time.Time
}

// NewConsole creates a console reporter writing to w (stderr when nil).
func NewConsole(w io.Writer, prefix string) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{
		writer:         w,
		prefix:         prefix,
		width:          40,
		updateInterval: 100 * time.Millisecond,
		showETA:        true,
	}
}

// WithWidth sets the bar width in characters.
func (c *Console) WithWidth(width int) *Console {
	c.width = width
	return c
}

// WithUpdateInterval sets the minimum delay between redraws.
func (c *Console) WithUpdateInterval(interval time.Duration) *Console {
	c.updateInterval = interval
	return c
}

// WithETA toggles the remaining-time estimate.
func (c *Console) WithETA(show bool) *Console {
	c.showETA = show
	return c
}

func (c *Console) Start(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = total
	c.current = 0
	c.startTime = time.Now()
	c.lastUpdate = c.startTime
	c.draw(c.startTime)
	if total == 0 {
		c.finish()
	}
}

func (c *Console) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current++
	now := time.Now()
	done := c.current >= c.total
	if !done && now.Sub(c.lastUpdate) < c.updateInterval {
		return
	}
	c.lastUpdate = now
	c.draw(now)
	if done {
		c.finish()
	}
}

func (c *Console) finish() {
	elapsed := time.Since(c.startTime)
	_, _ = fmt.Fprintf(c.writer, "\n%sdone in %v\n", c.prefix, elapsed.Round(time.Millisecond))
}

func (c *Console) draw(now time.Time) {
	if c.total <= 0 {
		_, _ = fmt.Fprintf(c.writer, "\r%s[%s] 0/0", c.prefix, strings.Repeat("░", c.width))
		return
	}
	current := min(c.current, c.total)
	percent := float64(current) / float64(c.total) * 100.0
	filled := c.width * current / c.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", c.width-filled)
	status := fmt.Sprintf("\r%s[%s] %d/%d (%.1f%%)", c.prefix, bar, current, c.total, percent)

	elapsed := now.Sub(c.startTime)
	if c.showETA && current > 0 && current < c.total && elapsed > 0 {
		remaining := elapsed.Seconds() * float64(c.total-current) / float64(current)
		status += fmt.Sprintf(" ETA: %v", (time.Duration(remaining) * time.Second).Round(time.Second))
	}
	_, _ = fmt.Fprint(c.writer, status)
}

// Log reports progress as structured log records.
type Log struct {
	logger   *slog.Logger
	level    slog.Level
	name     string
	interval int

	mu        sync.Mutex
	total     int
	current   int
	lastLog   int
	startTime time.Time
}

// NewLog creates a reporter that logs under the given algorithm name.
func NewLog(logger *slog.Logger, level slog.Level, name string) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: level, name: name, interval: 1}
}

// WithInterval logs every n steps instead of every step.
func (l *Log) WithInterval(n int) *Log {
	if n < 1 {
		n = 1
	}
	l.interval = n
	return l
}

func (l *Log) Start(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = total
	l.current = 0
	l.lastLog = 0
	l.startTime = time.Now()
	l.logger.Log(context.Background(), l.level, "algorithm started", "algorithm", l.name, "steps", total)
}

func (l *Log) Advance() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current++
	if l.current-l.lastLog < l.interval && l.current < l.total {
		return
	}
	l.lastLog = l.current
	elapsed := time.Since(l.startTime).Round(time.Millisecond)
	if l.current >= l.total {
		l.logger.Log(context.Background(), l.level, "algorithm finished",
			"algorithm", l.name, "steps", l.total, "elapsed", elapsed)
		return
	}
	l.logger.Log(context.Background(), l.level, "algorithm progress",
		"algorithm", l.name, "step", l.current, "steps", l.total, "elapsed", elapsed)
}

// Multi fans every call out to several reporters.
type Multi struct {
	reporters []Reporter
}

// NewMulti combines reporters; nil entries are skipped.
func NewMulti(reporters ...Reporter) *Multi {
	m := &Multi{}
	for _, r := range reporters {
		m.Add(r)
	}
	return m
}

// Add appends another reporter.
func (m *Multi) Add(r Reporter) {
	if r != nil {
		m.reporters = append(m.reporters, r)
	}
}

func (m *Multi) Start(total int) {
	for _, r := range m.reporters {
		r.Start(total)
	}
}

func (m *Multi) Advance() {
	for _, r := range m.reporters {
		r.Advance()
	}
}

// Throttled rescales a run onto at most maxSteps steps of the wrapped
// reporter. The wrapped reporter still sees Start(n) followed by exactly n
// Advance calls.
type Throttled struct {
	wrapped  Reporter
	maxSteps int

	mu        sync.Mutex
	total     int
	steps     int
	done      int
	forwarded int
}

// NewThrottled wraps r. A maxSteps below 1 is treated as 1.
func NewThrottled(r Reporter, maxSteps int) *Throttled {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Throttled{wrapped: OrNop(r), maxSteps: maxSteps}
}

func (t *Throttled) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.steps = min(total, t.maxSteps)
	t.done = 0
	t.forwarded = 0
	t.wrapped.Start(t.steps)
}

func (t *Throttled) Advance() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done >= t.total {
		return
	}
	t.done++
	target := t.done * t.steps / t.total
	for t.forwarded < target {
		t.forwarded++
		t.wrapped.Advance()
	}
}
