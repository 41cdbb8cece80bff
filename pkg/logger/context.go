package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey struct{}

// FromContext returns the request-scoped logger, or the global logger when none is bound.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
		return logger
	}
	return GetLogger()
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromEcho returns the logger bound to the request behind c. Handlers and services downstream
// read the same logger through FromContext(c.Request().Context()).
func FromEcho(c echo.Context) *zap.Logger {
	return FromContext(c.Request().Context())
}

// Bind makes logger the request-scoped logger for the rest of the middleware chain.
func Bind(c echo.Context, logger *zap.Logger) {
	c.SetRequest(c.Request().WithContext(WithContext(c.Request().Context(), logger)))
}

// With adds fields to the request-scoped logger, binds the result and returns it.
func With(c echo.Context, fields ...zap.Field) *zap.Logger {
	logger := FromEcho(c).With(fields...)
	Bind(c, logger)
	return logger
}
