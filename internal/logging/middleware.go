package logging

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDHeader         = "X-Request-ID"
	RequestIDContextKey     = "request_id"
	AuthStatusContextKey    = "auth_status"
	AuthErrorContextKey     = "auth_error"
	AuthTokenHashContextKey = "auth_token_hash"
	OperationIDContextKey   = "operation_id"
)

// RequestLoggingMiddleware tags every request with an X-Request-ID and writes one
// access log line once the handler returns.
func RequestLoggingMiddleware(logger *Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := req.URL.Path

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				req.Header.Set(RequestIDHeader, requestID)
			}
			c.Response().Header().Set(RequestIDHeader, requestID)
			c.Set(RequestIDContextKey, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			if !shouldLogRequest(path) {
				return nil
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", req.Method),
				zap.String("path", path),
				zap.Int("status", c.Response().Status),
				zap.Int64("response_size", c.Response().Size),
				zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
				zap.String("source_ip", c.RealIP()),
				zap.String("user_agent", req.UserAgent()),
			}
			if authStatus, ok := c.Get(AuthStatusContextKey).(string); ok {
				fields = append(fields, zap.String("auth_status", authStatus))
			}
			if authError, ok := c.Get(AuthErrorContextKey).(string); ok {
				fields = append(fields, zap.String("auth_error", authError))
			}
			if tokenHash, ok := c.Get(AuthTokenHashContextKey).(string); ok {
				fields = append(fields, zap.String("token_hash", tokenHash))
			}
			if operationID, ok := c.Get(OperationIDContextKey).(string); ok {
				fields = append(fields, zap.String("operation_id", operationID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			if c.Response().Status >= 500 {
				logger.Error("Request failed", fields...)
			} else {
				logger.Info("Request handled", fields...)
			}

			return nil
		}
	}
}

func shouldLogRequest(path string) bool {
	return path != "/health" && path != "/api/health"
}
