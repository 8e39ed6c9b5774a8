package config

import (
	"os"
	"strconv"
)

const (
	queueBatchSizeEnv   = "QUEUE_BATCH_SIZE"
	queueMaxAttemptsEnv = "QUEUE_MAX_ATTEMPTS"
	queueCronEnv        = "QUEUE_CRON"

	defaultQueueBatchSize   = 10
	defaultQueueMaxAttempts = 3
)

type QueueConfig struct {
	BatchSize   int
	MaxAttempts int
	// Cron optionally enables an internal trigger for the queue processor
	// (e.g. "*/5 * * * *"). Empty means the external scheduler owns the
	// cadence and only the HTTP endpoint fires runs.
	Cron string
}

func LoadQueueConfig() *QueueConfig {
	batchSize := defaultQueueBatchSize
	if v := os.Getenv(queueBatchSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	maxAttempts := defaultQueueMaxAttempts
	if v := os.Getenv(queueMaxAttemptsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAttempts = parsed
		}
	}

	return &QueueConfig{
		BatchSize:   batchSize,
		MaxAttempts: maxAttempts,
		Cron:        os.Getenv(queueCronEnv),
	}
}
