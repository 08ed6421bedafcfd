package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys used to store request metadata.
const (
	ContextKeyOwnerID   = "owner_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)

// OwnerFromContext returns the authenticated owner id.
func OwnerFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextKeyOwnerID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// LoggerFromContext returns the request-scoped logger, or the global one.
func LoggerFromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(ContextKeyLogger).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}
