package config

import "os"

const databaseURLEnv = "DATABASE_URL"

type DatabaseConfig struct {
	// DSN is a Postgres connection string.
	DSN string
}

func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		DSN: os.Getenv(databaseURLEnv),
	}
}

func (c *DatabaseConfig) Validate() error {
	if c == nil || c.DSN == "" {
		return ErrDatabaseURLMissing
	}
	return nil
}
