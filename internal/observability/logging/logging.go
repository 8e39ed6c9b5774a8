package logging

import (
	"context"
	"log/slog"
	"os"
)

// Environment selects the log output format: human-readable text in dev,
// JSON everywhere else.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "production"
)

// Module labels log records with the emitting component.
type Module string

func (m Module) Attr() slog.Attr {
	return slog.String("module", string(m))
}

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// NewLogger builds the process-wide logger.
func NewLogger(level slog.Level, env Environment, svc ServiceInfo) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == EnvDev {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", svc.Name),
		slog.String("version", svc.Version),
	)
	return logger
}

type requestIDKey struct{}

// WithRequestID stores the request id for downstream log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the stored request id, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
