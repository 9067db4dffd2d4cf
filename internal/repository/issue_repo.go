package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projectpulse/internal/model"
	"projectpulse/pkg/metrics"
)

type IssueRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIssueRepository(db *pgxpool.Pool, logger *zap.Logger) *IssueRepository {
	return &IssueRepository{
		db:     db,
		logger: logger,
	}
}

func (r *IssueRepository) Insert(ctx context.Context, is *model.Issue) (int, error) {
	r.logger.Debug("Inserting issue",
		zap.Int("project_id", is.ProjectID),
		zap.String("name", is.Name),
		zap.String("role", string(is.Role)),
	)

	query := `
        INSERT INTO issues (project_id, name, role, status, planned_start_date,
                            planned_end_date, actual_start_date, actual_end_date, progress)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `
	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		is.ProjectID,
		is.Name,
		is.Role,
		is.Status,
		is.PlannedStartDate,
		is.PlannedEndDate,
		is.ActualStartDate,
		is.ActualEndDate,
		is.Progress,
	).Scan(&is.ID, &is.CreatedAt, &is.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "issues", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert issue", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Issue inserted successfully",
		zap.Int("id", is.ID),
		zap.Int("project_id", is.ProjectID),
	)
	return is.ID, nil
}

func (r *IssueRepository) FindByProjectID(ctx context.Context, projectID int) ([]model.Issue, error) {
	query := `
        SELECT id, project_id, name, role, status, planned_start_date,
               planned_end_date, actual_start_date, actual_end_date, progress,
               created_at, updated_at
        FROM issues
        WHERE project_id = $1
        ORDER BY created_at ASC
    `

	start := time.Now()
	rows, err := r.db.Query(ctx, query, projectID)
	metrics.RecordDBQueryDuration("select", "issues", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to find issues", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		var is model.Issue
		if err := rows.Scan(
			&is.ID,
			&is.ProjectID,
			&is.Name,
			&is.Role,
			&is.Status,
			&is.PlannedStartDate,
			&is.PlannedEndDate,
			&is.ActualStartDate,
			&is.ActualEndDate,
			&is.Progress,
			&is.CreatedAt,
			&is.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan issue", zap.Error(err))
			return nil, err
		}
		issues = append(issues, is)
	}

	return issues, nil
}

func (r *IssueRepository) UpdateStatus(ctx context.Context, id int, status model.IssueStatus) error {
	query := `
        UPDATE issues
        SET status = $2, updated_at = NOW()
        WHERE id = $1
    `

	start := time.Now()
	_, err := r.db.Exec(ctx, query, id, status)
	metrics.RecordDBQueryDuration("update", "issues", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update issue status",
			zap.Int("id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *IssueRepository) UpdateProgress(ctx context.Context, id, progress int) error {
	query := `
        UPDATE issues
        SET progress = $2, updated_at = NOW()
        WHERE id = $1
    `

	start := time.Now()
	_, err := r.db.Exec(ctx, query, id, progress)
	metrics.RecordDBQueryDuration("update", "issues", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update issue progress",
			zap.Int("id", id),
			zap.Int("progress", progress),
			zap.Error(err),
		)
		return err
	}

	return nil
}
