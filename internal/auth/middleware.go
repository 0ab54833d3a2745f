package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/szmslab/quickzip/internal/common"
	"github.com/szmslab/quickzip/internal/logging"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenMiddleware rejects requests whose bearer token does not match accessToken.
// An unset accessToken rejects every request.
func TokenMiddleware(accessToken string, logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sourceIP := c.RealIP()

			if accessToken == "" {
				SetAuthFailure(c, "Access token not configured")
				logger.Warn("Authentication failed - token not configured",
					zap.String("source_ip", sourceIP))
				return common.SendInternalError(c, "Access token not configured")
			}

			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				SetAuthFailure(c, "Bearer token required")
				logger.Warn("Authentication failed - missing bearer token",
					zap.String("source_ip", sourceIP))
				return common.SendUnauthorized(c, "Bearer token required")
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(accessToken)) != 1 {
				SetAuthFailure(c, "Invalid token")
				logger.Warn("Authentication failed - invalid token",
					zap.String("source_ip", sourceIP),
					zap.String("token_hash", HashToken(token)))
				return common.SendUnauthorized(c, "Invalid token")
			}

			SetAuthSuccess(c, token)
			logger.Debug("Authentication successful",
				zap.String("source_ip", sourceIP),
				zap.String("token_hash", HashToken(token)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

func SetAuthSuccess(c echo.Context, token string) {
	c.Set(logging.AuthStatusContextKey, "success")
	if token != "" {
		c.Set(logging.AuthTokenHashContextKey, HashToken(token))
	}
}

func SetAuthFailure(c echo.Context, reason string) {
	c.Set(logging.AuthStatusContextKey, "failed")
	c.Set(logging.AuthErrorContextKey, reason)
}

// HashToken returns a short, log-safe fingerprint of token.
func HashToken(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])[:16]
}
