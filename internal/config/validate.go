package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.RescheduleServiceURL == "" {
		return errors.New("RESCHEDULE_SERVICE_URL environment variable is required")
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	return cfg.Redis.Validate()
}
