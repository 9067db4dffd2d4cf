package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	healthsvc "projectpulse/internal/service/health"
)

type HealthHandler struct {
	svc    *healthsvc.Service
	logger *zap.Logger
}

func NewHealthHandler(svc *healthsvc.Service, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{svc: svc, logger: logger}
}

// GetProjectHealth serves GET /projects/:id/health.
func (h *HealthHandler) GetProjectHealth(c *gin.Context) {
	idStr := c.Param("id")
	projectID, err := strconv.Atoi(idStr)
	if err != nil {
		h.logger.Warn("GetProjectHealth: invalid project id",
			zap.String("project_id", idStr),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	snap, err := h.svc.ProjectSnapshot(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("GetProjectHealth: failed to compute snapshot",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute project health"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetRollup serves GET /health/rollup?ids=1,2,3.
func (h *HealthHandler) GetRollup(c *gin.Context) {
	idsRaw := c.Query("ids")
	if idsRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids required"})
		return
	}

	var ids []int
	for _, part := range strings.Split(idsRaw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			h.logger.Warn("GetRollup: invalid project id", zap.String("ids", idsRaw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ids"})
			return
		}
		ids = append(ids, id)
	}

	cards, err := h.svc.Rollup(c.Request.Context(), ids)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("GetRollup: failed to build rollup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build rollup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": cards})
}
