package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factcheck/internal/domain"
	"factcheck/internal/service"
)

const identityKey = "identity"

// AuthRequired exige un bearer token valido y guarda la identidad en el contexto.
func AuthRequired(logger *zap.Logger, authn *service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authn.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth adjunta la identidad si hay una credencial valida; nunca rechaza.
func OptionalAuth(authn *service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := authn.AuthenticateOptional(c.Request.Context(), c.GetHeader("Authorization")); identity != nil {
			c.Set(identityKey, *identity)
		}
		c.Next()
	}
}

// GetIdentity obtiene la identidad autenticada desde el contexto.
func GetIdentity(c *gin.Context) (domain.IdentityContext, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return domain.IdentityContext{}, false
	}
	identity, ok := val.(domain.IdentityContext)
	return identity, ok
}
