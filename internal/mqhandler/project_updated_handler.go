package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"projectpulse/internal/cache"
	"projectpulse/pkg/metrics"
	"projectpulse/pkg/mq"
	"projectpulse/pkg/util"
)

const handlerName = "project_updated"

// ProjectUpdatedHandler drops cached health snapshots when a project or
// its issues/milestones change, so the next dashboard request recomputes.
type ProjectUpdatedHandler struct {
	cache   *cache.SnapshotCache
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewProjectUpdatedHandler(snapshotCache *cache.SnapshotCache, deduper *util.Deduper, logger *zap.Logger) *ProjectUpdatedHandler {
	return &ProjectUpdatedHandler{
		cache:   snapshotCache,
		deduper: deduper,
		logger:  logger,
	}
}

func (h *ProjectUpdatedHandler) Handle(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.RoutingKeyProjectUpdated, mq.RoutingKeyProjectUpdated+".q", time.Since(start))
	}()

	var payload mq.ProjectUpdatedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// malformed payloads never become processable, drop instead of requeue
		h.logger.Error("Invalid project.updated payload, dropping", zap.Error(err))
		return nil
	}

	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, handlerName, payload.ProjectID) {
		return nil
	}

	if err := h.cache.InvalidateProject(ctx, payload.ProjectID); err != nil {
		return fmt.Errorf("failed to invalidate snapshots for project %d: %w", payload.ProjectID, err)
	}

	h.logger.Info("Invalidated cached snapshots",
		zap.Int("project_id", payload.ProjectID),
	)
	return nil
}
