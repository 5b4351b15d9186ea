package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

const progressColumns = `id, user_id, module_id, completed, completed_at, updated_at`

type progressRepository struct {
	db DB
}

// NewProgressRepository returns a Postgres-backed implementation of ProgressRepository.
func NewProgressRepository(db DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	records := make([]domain.Progress, 0)
	for rows.Next() {
		record, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, storeError(rows.Err(), nil)
}

func (r *progressRepository) GetByID(ctx context.Context, id string) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE id = $1`
	return scanProgress(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *progressRepository) Upsert(ctx context.Context, progress *domain.Progress) error {
	if progress == nil || progress.UserID == "" || progress.ModuleID == "" {
		return domain.ErrInvalidPayload
	}
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO progress (id, user_id, module_id, completed, completed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, module_id) DO UPDATE
	SET completed = EXCLUDED.completed,
		completed_at = CASE WHEN EXCLUDED.completed
			THEN COALESCE(progress.completed_at, EXCLUDED.completed_at) END,
		updated_at = NOW()
	RETURNING id, completed_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		progress.ID,
		progress.UserID,
		progress.ModuleID,
		progress.Completed,
		progress.CompletedAt,
	).Scan(&progress.ID, &progress.CompletedAt, &progress.UpdatedAt)
	return storeError(err, nil)
}

func (r *progressRepository) Update(ctx context.Context, progress *domain.Progress) error {
	if progress == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE progress
	SET completed = $2,
		completed_at = CASE WHEN $2::boolean THEN COALESCE(completed_at, $3) END,
		updated_at = NOW()
	WHERE id = $1
	RETURNING completed_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		progress.ID,
		progress.Completed,
		progress.CompletedAt,
	).Scan(&progress.CompletedAt, &progress.UpdatedAt)
	return storeError(err, domain.ErrProgressNotFound)
}

func (r *progressRepository) CourseSummary(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	const query = `
	SELECT COUNT(m.id), COUNT(p.id) FILTER (WHERE p.completed)
	FROM modules m
	LEFT JOIN progress p ON p.module_id = m.id AND p.user_id = $1
	WHERE m.course_id = $2 AND m.archived = FALSE
	`

	summary := &domain.CourseProgress{CourseID: courseID}
	if err := conn(ctx, r.db).QueryRow(ctx, query, userID, courseID).Scan(&summary.TotalModules, &summary.CompletedModules); err != nil {
		return nil, storeError(err, nil)
	}
	return summary, nil
}

func scanProgress(row scanner) (*domain.Progress, error) {
	var (
		record      domain.Progress
		completedAt *time.Time
	)
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.ModuleID,
		&record.Completed,
		&completedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, storeError(err, nil)
	}
	record.CompletedAt = completedAt
	return &record, nil
}
