package metrics

import (
	"fmt"

	"github.com/dshills/commitgate/internal/lint"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "commitgate"

// Recorder holds the verdict collectors on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	verdicts    *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "verdicts_total",
				Help:      "Commit messages validated, by outcome and result",
			},
			[]string{"outcome", "result"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "violations_total",
				Help:      "Rule violations reported, by kind",
			},
			[]string{"kind"},
		),
	}
	r.registry.MustRegister(r.verdicts, r.diagnostics)
	return r
}

// Observe counts one verdict.
func (r *Recorder) Observe(v lint.Verdict) {
	r.verdicts.WithLabelValues(string(v.Outcome), Result(v)).Inc()
	for _, d := range v.Diagnostics {
		if d.Kind.IsViolation() {
			r.diagnostics.WithLabelValues(string(d.Kind)).Inc()
		}
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current values to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// Result maps a verdict to "accepted", "warned", or "rejected".
func Result(v lint.Verdict) string {
	switch {
	case !v.Accepted:
		return "rejected"
	case v.Warned:
		return "warned"
	default:
		return "accepted"
	}
}
