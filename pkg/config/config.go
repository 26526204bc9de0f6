package config

// Config holds the process-level settings shared by the rulekit packages.
// Database settings live in pg.Config and are loaded separately.
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	LogFile   string `env:"LOG_FILE"`

	// MessagesPath points to a YAML or JSON message catalog used to localize
	// validation failures. Empty disables localization.
	MessagesPath string `env:"VALIDATION_MESSAGES_PATH"`
	Lang         string `env:"VALIDATION_LANG" envDefault:"en"`
	CacheSize    int    `env:"VALIDATION_CACHE_SIZE" envDefault:"256"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"rulekit"`
}
