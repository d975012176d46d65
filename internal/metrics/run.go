package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MeKo-Tech/rasterlab/internal/progress"
)

// Run times a single algorithm invocation.
type Run struct {
	rec       *Recorder
	algorithm string
	pixels    int
	start     time.Time
	duration  time.Duration
}

// StartRun starts timing algorithm over an image of the given pixel count.
// A nil recorder yields a Run that only measures time.
func (r *Recorder) StartRun(algorithm string, pixels int) *Run {
	return &Run{rec: r, algorithm: algorithm, pixels: pixels, start: time.Now()}
}

// Reporter wraps next so that every progress step is also counted.
func (run *Run) Reporter(next progress.Reporter) progress.Reporter {
	next = progress.OrNop(next)
	if run.rec == nil {
		return next
	}
	return &countingReporter{next: next, steps: run.rec.progressSteps.WithLabelValues(run.algorithm)}
}

// Stop records the run outcome and returns the elapsed time.
func (run *Run) Stop(err error) time.Duration {
	run.duration = time.Since(run.start)
	if run.rec != nil {
		run.rec.Observe(run.algorithm, run.pixels, run.duration, err)
	}
	return run.duration
}

// Duration returns the recorded duration (only valid after Stop).
func (run *Run) Duration() time.Duration { return run.duration }

func (run *Run) String() string {
	return fmt.Sprintf("%s: %v", run.algorithm, run.duration)
}

type countingReporter struct {
	next  progress.Reporter
	steps prometheus.Counter
}

func (c *countingReporter) Start(total int) { c.next.Start(total) }

func (c *countingReporter) Advance() {
	c.steps.Inc()
	c.next.Advance()
}
