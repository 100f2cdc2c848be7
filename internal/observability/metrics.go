package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CalibrationCollector bundles Prometheus metrics for the calibration
// engine. It satisfies core.MetricsRecorder so the selector and resolver
// can drive the counters directly.
type CalibrationCollector struct {
	gatherer prometheus.Gatherer

	Selections          *prometheus.CounterVec
	SelectionDurations  *prometheus.HistogramVec
	Resolutions         *prometheus.CounterVec
	ResolutionDurations *prometheus.HistogramVec
	Warnings            *prometheus.CounterVec
}

// NewCalibrationCollector registers the engine metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewCalibrationCollector(reg prometheus.Registerer) (*CalibrationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calibration_selections_total",
		Help: "Total number of calibration block selections, labeled by inspection code.",
	}, []string{"code"})
	selections, err := registerCounterVec(reg, selections, "calibration_selections_total")
	if err != nil {
		return nil, err
	}

	selectionDurations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calibration_selection_duration_seconds",
		Help:    "Selector latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}, []string{"code"})
	selectionDurations, err = registerHistogramVec(reg, selectionDurations, "calibration_selection_duration_seconds")
	if err != nil {
		return nil, err
	}

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "block_resolutions_total",
		Help: "Total number of ring-segment block resolutions, labeled by template id and compliance outcome.",
	}, []string{"template_id", "compliant"})
	resolutions, err = registerCounterVec(reg, resolutions, "block_resolutions_total")
	if err != nil {
		return nil, err
	}

	resolutionDurations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "block_resolution_duration_seconds",
		Help:    "Resolver latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}, []string{"template_id"})
	resolutionDurations, err = registerHistogramVec(reg, resolutionDurations, "block_resolution_duration_seconds")
	if err != nil {
		return nil, err
	}

	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resolution_warnings_total",
		Help: "Warnings raised by the engine, labeled by level and code.",
	}, []string{"level", "code"})
	warnings, err = registerCounterVec(reg, warnings, "resolution_warnings_total")
	if err != nil {
		return nil, err
	}

	return &CalibrationCollector{
		gatherer:            gatherer,
		Selections:          selections,
		SelectionDurations:  selectionDurations,
		Resolutions:         resolutions,
		ResolutionDurations: resolutionDurations,
		Warnings:            warnings,
	}, nil
}

// RecordSelection counts one selector call and observes its duration.
func (c *CalibrationCollector) RecordSelection(code string, seconds float64) {
	if c == nil {
		return
	}
	if c.Selections != nil {
		c.Selections.WithLabelValues(code).Inc()
	}
	if c.SelectionDurations != nil {
		c.SelectionDurations.WithLabelValues(code).Observe(seconds)
	}
}

// RecordResolution counts one resolver call and observes its duration.
func (c *CalibrationCollector) RecordResolution(templateID string, compliant bool, seconds float64) {
	if c == nil {
		return
	}
	if c.Resolutions != nil {
		c.Resolutions.WithLabelValues(templateID, fmt.Sprintf("%t", compliant)).Inc()
	}
	if c.ResolutionDurations != nil {
		c.ResolutionDurations.WithLabelValues(templateID).Observe(seconds)
	}
}

// RecordWarning counts one emitted warning.
func (c *CalibrationCollector) RecordWarning(level, code string) {
	if c == nil || c.Warnings == nil {
		return
	}
	c.Warnings.WithLabelValues(level, code).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CalibrationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
