// Package logger provides a context-aware wrapper around Go's slog package
// with functional options, attribute helpers for validation events and a
// factory that builds the application logger from config.Config.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the configured
// Format, attaches static attributes and wraps the handler with
// LogHandlerDecorator, which runs the registered ContextExtractor callbacks
// before delegating each record.
//
// Attribute helpers (Validator, Field, Rule, Passed, Shape, Failures, Error,
// Duration) keep attribute keys consistent across the validation engine, the
// repository layer and the CLI.
//
// # Usage
//
//	cfg := config.MustLoad[config.Config]()
//	log, closeLog, err := logger.FromConfig(cfg, "rulecheck")
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
//	engine := validator.NewEngine(validator.WithLogger(log))
//
// # Configuration
//
//   - WithEnvironment: development (debug, text), staging and production (info, json).
//   - WithFormat / WithTextFormatter / WithJSONFormatter: output format.
//   - WithLevel: minimum level.
//   - WithAttr: static attributes.
//   - WithContextExtractors / WithContextValue: attributes pulled from context.
//     OperationExtractor logs the name stored by ContextWithOperation.
//
// FromConfig applies WithEnvironment for APP_ENV, then LOG_LEVEL and
// LOG_FORMAT, and sends output to LOG_FILE when set.
//
// # Error Handling
//
// Error and Errors produce attributes only for non-nil errors:
//
//	log.Info("registration finished", logger.Error(err))
package logger
