package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factcheck/internal/service"
)

type apiError struct {
	status  int
	code    string
	message string
}

// classify traduce errores de servicio al cuerpo {error, code}.
func classify(err error) apiError {
	switch {
	case errors.Is(err, service.ErrCredentialMissing):
		return apiError{http.StatusUnauthorized, "TOKEN_MISSING", "Access token required"}
	case errors.Is(err, service.ErrCredentialExpired), errors.Is(err, service.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired"}
	case errors.Is(err, service.ErrCredentialRevoked), errors.Is(err, service.ErrTokenRevoked):
		return apiError{http.StatusUnauthorized, "TOKEN_REVOKED", "Token revoked"}
	case errors.Is(err, service.ErrCredentialInvalid), errors.Is(err, service.ErrTokenInvalid):
		return apiError{http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token"}
	case errors.Is(err, service.ErrUserNotFound):
		return apiError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	case errors.Is(err, service.ErrEmailTaken):
		return apiError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
	case errors.Is(err, service.ErrInvalidEmail):
		return apiError{http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email"}
	case errors.Is(err, service.ErrWeakPassword):
		return apiError{http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 8 characters"}
	case errors.Is(err, service.ErrInvalidURL):
		return apiError{http.StatusBadRequest, "INVALID_URL", "A valid http(s) URL is required"}
	case errors.Is(err, service.ErrRateLimited):
		return apiError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusGatewayTimeout, "TIMEOUT", "Request timed out"}
	default:
		return apiError{http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"}
	}
}

// writeError responde con el status y code del error; los 5xx se loguean.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", e.code),
			zap.Error(err),
		)
	} else if e.status == http.StatusUnauthorized {
		logger.Debug("unauthorized", zap.String("path", c.Request.URL.Path), zap.String("code", e.code))
	}
	c.AbortWithStatusJSON(e.status, gin.H{"error": e.message, "code": e.code})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code": "VALIDATION_ERROR"})
}
