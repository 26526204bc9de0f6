package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrRegistration is returned when a metric cannot be registered.
var ErrRegistration = errors.New("metrics registration failed")

// Rule outcome label values.
const (
	OutcomePassed  = "passed"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Collector records validation outcomes as Prometheus metrics. It implements
// validator.Observer.
//
// Metrics:
//   - <ns>_validation_rules_total{rule,outcome}: validator invocations
//   - <ns>_validation_executions_total{result}: executions by valid/invalid
//   - <ns>_validation_failures_total: failing fields reported
//   - <ns>_validation_duration_seconds: execution latency
type Collector struct {
	rules      *prometheus.CounterVec
	executions *prometheus.CounterVec
	failures   prometheus.Counter
	duration   prometheus.Histogram
}

// NewCollector creates the validation metrics and registers them with reg.
// An empty namespace defaults to "rulekit".
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = "rulekit"
	}

	c := &Collector{
		rules: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "rules_total",
				Help:      "Validator invocations by rule and outcome.",
			},
			[]string{"rule", "outcome"},
		),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "executions_total",
				Help:      "Rule map executions by result.",
			},
			[]string{"result"},
		),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Failing fields reported by executions.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "duration_seconds",
			Help:      "Duration of rule map executions in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~262ms
		}),
	}

	for _, m := range []prometheus.Collector{c.rules, c.executions, c.failures, c.duration} {
		if err := reg.Register(m); err != nil {
			return nil, errors.Join(ErrRegistration, err)
		}
	}
	return c, nil
}

func (c *Collector) RuleChecked(rule string, passed bool) {
	outcome := OutcomeFailed
	if passed {
		outcome = OutcomePassed
	}
	c.rules.WithLabelValues(rule, outcome).Inc()
}

func (c *Collector) RuleSkipped(rule string) {
	c.rules.WithLabelValues(rule, OutcomeSkipped).Inc()
}

func (c *Collector) Executed(failures int, d time.Duration) {
	result := "valid"
	if failures > 0 {
		result = "invalid"
	}
	c.executions.WithLabelValues(result).Inc()
	c.failures.Add(float64(failures))
	c.duration.Observe(d.Seconds())
}
