// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Load parses the environment into any struct annotated with `env` tags
//     and caches the result per type, so each type is parsed once per process.
//   - LoadEnv reads additional `.env` files; the default `.env` is read
//     automatically on the first Load.
//   - MustLoad and MustLoadEnv panic on failure for startup wiring.
//   - ResetCache forgets cached types, mainly for tests.
//
// Config is the shared process configuration: environment, logging and
// validation settings.
//
// # Usage
//
//	var cfg config.Config
//	config.MustLoad(&cfg)
//
//	log, closeLog, err := logger.FromConfig(cfg, "rulecheck")
//
// # Environment
//
//	APP_ENV                   development | staging | production (default development)
//	LOG_LEVEL                 debug | info | warn | error
//	LOG_FORMAT                text | json
//	LOG_FILE                  append logs to this file instead of stdout
//	VALIDATION_MESSAGES_PATH  message catalog used to localize failures
//	VALIDATION_LANG           language of localized failures (default en)
//	VALIDATION_CACHE_SIZE     struct types kept by the resolver cache (default 256)
//	METRICS_NAMESPACE         Prometheus metric namespace (default rulekit)
//
// # Error Handling
//
// Parse failures are joined with ErrParsingConfig and are not cached, so a
// later Load can succeed once the environment is fixed.
package config
