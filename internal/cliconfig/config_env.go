package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (EGNYTE_*).
// Explicitly set flags win over the environment.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("domain", os.Getenv("EGNYTE_DOMAIN"), &cfg.Domain)
	s.setString("token", os.Getenv("EGNYTE_TOKEN"), &cfg.Token)
	s.setString("base-url", os.Getenv("EGNYTE_BASE_URL"), &cfg.BaseURL)
	s.setString("log-level", os.Getenv("EGNYTE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("EGNYTE_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	return s.setDuration("debounce", os.Getenv("EGNYTE_WATCH_DEBOUNCE"), &cfg.WatchDebounce)
}
