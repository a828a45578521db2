package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

// SetLogLevelRequest changes one channel's level at runtime.
type SetLogLevelRequest struct {
	Channel string `json:"channel" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// LogHandlers exposes runtime log level control to operators
type LogHandlers struct {
	logger *logging.ChanneledLogger
}

// NewLogHandlers creates log handlers
func NewLogHandlers(logger *logging.ChanneledLogger) *LogHandlers {
	return &LogHandlers{logger: logger}
}

// GetLogLevels returns the current level of every channel
func (h *LogHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// SetLogLevel changes a channel's level
func (h *LogHandlers) SetLogLevel(c *gin.Context) {
	var req SetLogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	level, err := logging.ParseLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.System().Info("Log level changed", "channel", req.Channel, "level", level.String())
	c.JSON(http.StatusOK, gin.H{"success": true, "levels": h.logger.GetChannelLevels()})
}
