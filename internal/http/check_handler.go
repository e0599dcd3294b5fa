package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factcheck/internal/service"
)

// CheckHandler expone el envio de links y el historial.
type CheckHandler struct {
	logger *zap.Logger
	checks *service.CheckService
}

// NewCheckHandler crea una instancia de CheckHandler.
func NewCheckHandler(logger *zap.Logger, checks *service.CheckService) *CheckHandler {
	return &CheckHandler{logger: logger, checks: checks}
}

// CheckLink maneja POST /links/check.
func (h *CheckHandler) CheckLink(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid check request", zap.Error(err))
		badRequest(c, "invalid request")
		return
	}

	identity, _ := GetIdentity(c)
	check, err := h.checks.Submit(c.Request.Context(), identity.UserID, req.URL)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// History maneja GET /links/history?page=&limit=.
func (h *CheckHandler) History(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 0)

	identity, _ := GetIdentity(c)
	links, err := h.checks.History(c.Request.Context(), identity.UserID, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
		"pagination": gin.H{
			"page":  page,
			"limit": service.HistoryLimit(limit),
			"total": len(links),
		},
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
