package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/response"
	"user-crud-service/pkg/logger"
)

// Pinger reports whether the store can hand out a working connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceInfo is the payload of the root descriptor.
type ServiceInfo struct {
	Message  string `json:"message"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// SystemHandler serves the descriptor and health endpoints
type SystemHandler struct {
	info   ServiceInfo
	pinger Pinger
	log    *zap.Logger
}

// NewSystemHandler creates a new SystemHandler instance
func NewSystemHandler(info ServiceInfo, pinger Pinger, log *zap.Logger) *SystemHandler {
	if info.Message == "" {
		info.Message = "user CRUD API is running"
	}
	return &SystemHandler{
		info:   info,
		pinger: pinger,
		log:    log,
	}
}

// Index handles GET /
func (h *SystemHandler) Index(c *gin.Context) {
	response.Success(c, http.StatusOK, h.info)
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("health check failed", zap.Error(err))
		response.Fail(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.info.Service,
	})
}
