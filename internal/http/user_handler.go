package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factcheck/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger    *zap.Logger
	profiles  *service.ProfileService
	dashboard *service.DashboardService
	now       func() time.Time
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, profiles *service.ProfileService, dashboard *service.DashboardService) *UserHandler {
	return &UserHandler{
		logger:    logger,
		profiles:  profiles,
		dashboard: dashboard,
		now:       time.Now,
	}
}

// GetProfile maneja GET /users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, _ := GetIdentity(c)
	user, err := h.profiles.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile maneja PUT /users/profile. Solo se tocan los campos presentes.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Bio       *string `json:"bio"`
		Avatar    *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		badRequest(c, "invalid request")
		return
	}

	identity, _ := GetIdentity(c)
	user, err := h.profiles.UpdateProfile(c.Request.Context(), identity.UserID, service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"success": true,
		"data":    gin.H{"user": user},
	})
}

// GetDashboard maneja GET /users/dashboard.
func (h *UserHandler) GetDashboard(c *gin.Context) {
	identity, _ := GetIdentity(c)
	snapshot, err := h.dashboard.BuildDashboard(c.Request.Context(), identity.UserID, h.now())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dashboard data retrieved successfully",
		"data":    snapshot,
	})
}
