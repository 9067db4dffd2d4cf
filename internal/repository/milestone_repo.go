package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projectpulse/internal/model"
	"projectpulse/pkg/metrics"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) (int, error) {
	r.logger.Debug("Inserting milestone",
		zap.Int("project_id", m.ProjectID),
		zap.String("name", m.Name),
		zap.Int("phase_order", m.PhaseOrder),
	)

	query := `
        INSERT INTO milestones (project_id, name, status, phase_order,
                                planned_start_date, planned_end_date,
                                actual_start_date, actual_end_date,
                                progress, story_point, completed_story_point)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `
	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		m.ProjectID,
		m.Name,
		m.Status,
		m.PhaseOrder,
		m.PlannedStartDate,
		m.PlannedEndDate,
		m.ActualStartDate,
		m.ActualEndDate,
		m.Progress,
		m.StoryPoint,
		m.CompletedStoryPoint,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "milestones", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Milestone inserted successfully",
		zap.Int("id", m.ID),
		zap.Int("project_id", m.ProjectID),
	)
	return m.ID, nil
}

func (r *MilestoneRepository) FindByProjectID(ctx context.Context, projectID int) ([]model.Milestone, error) {
	query := `
        SELECT id, project_id, name, status, phase_order,
               planned_start_date, planned_end_date,
               actual_start_date, actual_end_date,
               progress, story_point, completed_story_point,
               created_at, updated_at
        FROM milestones
        WHERE project_id = $1
        ORDER BY phase_order ASC
    `

	start := time.Now()
	rows, err := r.db.Query(ctx, query, projectID)
	metrics.RecordDBQueryDuration("select", "milestones", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to find milestones", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Name,
			&m.Status,
			&m.PhaseOrder,
			&m.PlannedStartDate,
			&m.PlannedEndDate,
			&m.ActualStartDate,
			&m.ActualEndDate,
			&m.Progress,
			&m.StoryPoint,
			&m.CompletedStoryPoint,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		milestones = append(milestones, m)
	}

	return milestones, nil
}

func (r *MilestoneRepository) UpdateProgress(ctx context.Context, id, progress, completedStoryPoint int) error {
	query := `
        UPDATE milestones
        SET progress = $2, completed_story_point = $3, updated_at = NOW()
        WHERE id = $1
    `

	start := time.Now()
	_, err := r.db.Exec(ctx, query, id, progress, completedStoryPoint)
	metrics.RecordDBQueryDuration("update", "milestones", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update milestone progress",
			zap.Int("id", id),
			zap.Int("progress", progress),
			zap.Error(err),
		)
		return err
	}

	return nil
}
