package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factcheck/internal/service"
)

// AuthHandler expone el proveedor de identidad local.
type AuthHandler struct {
	logger     *zap.Logger
	identities *service.IdentityService
}

// NewAuthHandler crea una instancia de AuthHandler.
func NewAuthHandler(logger *zap.Logger, identities *service.IdentityService) *AuthHandler {
	return &AuthHandler{logger: logger, identities: identities}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		badRequest(c, "invalid request")
		return
	}

	cred, err := h.identities.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": cred.ID})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		badRequest(c, "invalid request")
		return
	}

	res, err := h.identities.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     res.Token.Token,
		"expiresIn": res.Token.ExpiresIn,
		"user":      res.Credential,
	})
}

// Logout maneja POST /auth/logout. Requiere AuthRequired.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := service.BearerToken(c.GetHeader("Authorization"))
	if err := h.identities.Logout(c.Request.Context(), token); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session maneja GET /auth/session con autenticacion opcional.
func (h *AuthHandler) Session(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": identity})
}
