// Package metrics exports validation outcomes to Prometheus.
//
// Collector implements validator.Observer; attach it to an engine with
// validator.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	collector, err := metrics.NewCollector(cfg.MetricsNamespace, reg)
//	if err != nil {
//	    return err
//	}
//	engine := validator.NewEngine(validator.WithObserver(collector))
//
// Rules naming an unregistered validator are counted with the "skipped"
// outcome.
package metrics
