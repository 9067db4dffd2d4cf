package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projectpulse/internal/model"
	"projectpulse/pkg/metrics"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int, error) {
	r.logger.Debug("Inserting project",
		zap.String("name", p.Name),
		zap.String("status", string(p.Status)),
	)

	query := `
        INSERT INTO projects (name, status, progress, due_date)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Status,
		p.Progress,
		p.DueDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "projects", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("id", p.ID),
		zap.String("name", p.Name),
	)
	return p.ID, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	query := `
        SELECT id, name, status, progress, due_date, created_at, updated_at
        FROM projects
        WHERE id = $1
    `

	start := time.Now()
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Status,
		&p.Progress,
		&p.DueDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	metrics.RecordDBQueryDuration("select", "projects", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to find project", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *ProjectRepository) UpdateProgress(ctx context.Context, id, progress int) error {
	query := `
        UPDATE projects
        SET progress = $2, updated_at = NOW()
        WHERE id = $1
    `

	start := time.Now()
	_, err := r.db.Exec(ctx, query, id, progress)
	metrics.RecordDBQueryDuration("update", "projects", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update project progress",
			zap.Int("id", id),
			zap.Int("progress", progress),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int, status model.ProjectStatus) error {
	query := `
        UPDATE projects
        SET status = $2, updated_at = NOW()
        WHERE id = $1
    `

	start := time.Now()
	_, err := r.db.Exec(ctx, query, id, status)
	metrics.RecordDBQueryDuration("update", "projects", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update project status",
			zap.Int("id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	return nil
}
