package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/logging"
	"github.com/comercial-bex/criativo-flow-sub009/internal/observability/metrics"
)

type GinConfig struct {
	Logger      *slog.Logger
	HTTPMetrics *metrics.HTTPMetrics
	SkipPaths   []string
}

// Gin logs each request and records HTTP metrics. Paths in SkipPaths
// (health probes) are passed through untouched.
func Gin(cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()

			return
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, path, status, duration)
		}

		if cfg.Logger != nil {
			cfg.Logger.InfoContext(ctx, "request completed",
				slog.String("request_id", requestID),
				slog.String("method", c.Request.Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		}
	}
}

// PanicRecoveryGin converts panics into 500 responses with a log record
// instead of gin's default stderr dump.
func PanicRecoveryGin(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", recovered),
				slog.String("path", c.Request.URL.Path),
			)
		}
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	})
}
