package config

import "errors"

var (
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
	ErrDatabaseURLMissing = errors.New("DATABASE_URL is required")
	ErrInvalidUTCOffset   = errors.New("BUSINESS_UTC_OFFSET_HOURS must be an integer between -12 and 14")
	ErrInvalidSlotTime    = errors.New("DEFAULT_SLOT_TIME must be in HH:MM format")
)
