// Package metrics instruments algorithm runs with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder owns the collectors of one registry.
type Recorder struct {
	gatherer prometheus.Gatherer

	runsTotal       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	pixelsProcessed *prometheus.CounterVec
	progressSteps   *prometheus.CounterVec
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	return newRecorder(reg, reg)
}

func newRecorder(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		gatherer: g,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rasterlab_algorithm_runs_total",
				Help: "Total number of algorithm runs",
			},
			[]string{"algorithm", "status"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rasterlab_algorithm_duration_seconds",
				Help:    "Algorithm run duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"algorithm"},
		),
		pixelsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rasterlab_pixels_processed_total",
				Help: "Number of source pixels handed to successful runs",
			},
			[]string{"algorithm"},
		),
		progressSteps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rasterlab_progress_steps_total",
				Help: "Progress steps reported by algorithms",
			},
			[]string{"algorithm"},
		),
	}
}

// Observe records one finished run.
func (r *Recorder) Observe(algorithm string, pixels int, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.runsTotal.WithLabelValues(algorithm, status).Inc()
	r.runDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if err == nil {
		r.pixelsProcessed.WithLabelValues(algorithm).Add(float64(pixels))
	}
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
