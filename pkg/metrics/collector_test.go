package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/metrics"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

func TestCollector_ObservesEngine(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector("test", reg)
	require.NoError(t, err)

	engine := validator.NewEngine(
		validator.WithRegistry(validator.NewDefaultRegistry()),
		validator.WithObserver(collector),
	)

	rules := validator.RuleMap{
		"email":    {validator.NewRule(validator.RequiredRule), validator.NewRule(validator.EmailRule)},
		"nickname": {validator.NewRule("slug"), validator.NewRule(validator.RequiredRule)},
	}

	errs := engine.Execute(validator.Policy{Exhaustive: true}, rules, map[string]any{
		"email":    "nope",
		"nickname": "jo",
	})
	require.Len(t, errs, 1)

	errs = engine.Execute(validator.Policy{}, rules, map[string]any{
		"email":    "jo@example.com",
		"nickname": "jo",
	})
	require.Empty(t, errs)

	expected := `
# HELP test_validation_rules_total Validator invocations by rule and outcome.
# TYPE test_validation_rules_total counter
test_validation_rules_total{outcome="failed",rule="email"} 1
test_validation_rules_total{outcome="passed",rule="email"} 1
test_validation_rules_total{outcome="passed",rule="required"} 4
test_validation_rules_total{outcome="skipped",rule="slug"} 2
# HELP test_validation_executions_total Rule map executions by result.
# TYPE test_validation_executions_total counter
test_validation_executions_total{result="invalid"} 1
test_validation_executions_total{result="valid"} 1
# HELP test_validation_failures_total Failing fields reported by executions.
# TYPE test_validation_failures_total counter
test_validation_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"test_validation_rules_total",
		"test_validation_executions_total",
		"test_validation_failures_total",
	))

	count, err := testutil.GatherAndCount(reg, "test_validation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := metrics.NewCollector("", reg)
	require.NoError(t, err)

	_, err = metrics.NewCollector("", reg)
	assert.ErrorIs(t, err, metrics.ErrRegistration)
}
