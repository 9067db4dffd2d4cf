// Package health wires the scoring engine to storage, cache and the event
// bus. This is the only place a clock is read; the engine itself takes the
// resulting instant as an argument.
package health

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"projectpulse/internal/cache"
	enginepkg "projectpulse/internal/health"
	"projectpulse/internal/model"
	"projectpulse/pkg/logger"
	"projectpulse/pkg/metrics"
	"projectpulse/pkg/mq"
)

// ProjectStore loads the project record.
type ProjectStore interface {
	FindByID(ctx context.Context, id int) (*model.Project, error)
}

// IssueStore loads a project's issues.
type IssueStore interface {
	FindByProjectID(ctx context.Context, projectID int) ([]model.Issue, error)
}

// MilestoneStore loads a project's milestones.
type MilestoneStore interface {
	FindByProjectID(ctx context.Context, projectID int) ([]model.Milestone, error)
}

// SnapshotCache holds computed snapshots keyed by content and time bucket.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*model.Snapshot, bool)
	Set(ctx context.Context, key string, snap model.Snapshot)
}

// Publisher emits events onto the topic exchange.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// RollupCard is the condensed per-project row on the portfolio dashboard.
type RollupCard struct {
	ProjectID int     `json:"project_id"`
	Name      string  `json:"name"`
	Stage     string  `json:"stage"`
	RiskScore float64 `json:"risk_score"`
	Headline  string  `json:"headline"`
}

type Service struct {
	projects   ProjectStore
	issues     IssueStore
	milestones MilestoneStore
	cache      SnapshotCache
	publisher  Publisher
	engine     *enginepkg.Engine
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	projects ProjectStore,
	issues IssueStore,
	milestones MilestoneStore,
	snapshotCache SnapshotCache,
	publisher Publisher,
	engine *enginepkg.Engine,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:   projects,
		issues:     issues,
		milestones: milestones,
		cache:      snapshotCache,
		publisher:  publisher,
		engine:     engine,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Tests freeze it.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// ProjectSnapshot loads a project's records and returns its health
// snapshot, serving from cache when the inputs and time bucket match a
// previous computation.
func (s *Service) ProjectSnapshot(ctx context.Context, projectID int) (*model.Snapshot, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", projectID, err)
	}

	issues, err := s.issues.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issues for project %d: %w", projectID, err)
	}

	milestones, err := s.milestones.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones for project %d: %w", projectID, err)
	}

	now := s.now()
	key := cache.Key(projectID, cache.ContentHash(*project, issues, milestones), now)
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, key); ok {
			return snap, nil
		}
	}

	start := time.Now()
	snap := s.engine.ComputeSnapshot(*project, issues, milestones, now)
	metrics.RecordSnapshotCompute(snap.Overall.Stage, time.Since(start))

	if s.cache != nil {
		s.cache.Set(ctx, key, snap)
	}

	if s.publisher != nil {
		payload := mq.HealthComputedPayload{
			ProjectID:  projectID,
			Stage:      snap.Overall.Stage,
			RiskScore:  snap.Overall.Metrics.RiskScore,
			ComputedAt: now,
		}
		if err := s.publisher.Publish(mq.RoutingKeyHealthComputed, payload); err != nil {
			// events are advisory, the snapshot is still good
			s.logger.Warn("Failed to publish health computed event",
				zap.Int("project_id", projectID),
				zap.Error(err),
			)
		}
	}

	logger.WithTrace(ctx, s.logger).Info("Computed project health snapshot",
		zap.Int("project_id", projectID),
		zap.String("stage", snap.Overall.Stage),
		zap.Float64("risk_score", snap.Overall.Metrics.RiskScore),
	)

	return &snap, nil
}

// Rollup returns one condensed card per requested project.
func (s *Service) Rollup(ctx context.Context, projectIDs []int) ([]RollupCard, error) {
	cards := make([]RollupCard, 0, len(projectIDs))
	for _, id := range projectIDs {
		snap, err := s.ProjectSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		headline := ""
		if len(snap.Overall.Insights) > 0 {
			headline = snap.Overall.Insights[0]
		}
		cards = append(cards, RollupCard{
			ProjectID: id,
			Name:      snap.Overall.Name,
			Stage:     snap.Overall.Stage,
			RiskScore: snap.Overall.Metrics.RiskScore,
			Headline:  headline,
		})
	}
	return cards, nil
}
