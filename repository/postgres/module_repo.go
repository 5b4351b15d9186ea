package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

const moduleColumns = `id, course_id, title, duration, video_link, pdf_link, order_number, archived, created_at, updated_at`

type moduleRepository struct {
	db DB
}

// NewModuleRepository returns a Postgres-backed implementation of ModuleRepository.
func NewModuleRepository(db DB) repository.ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE course_id = $1 AND archived = FALSE ORDER BY order_number, created_at`
	rows, err := conn(ctx, r.db).Query(ctx, query, courseID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	modules := make([]domain.Module, 0)
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, *module)
	}
	return modules, storeError(rows.Err(), nil)
}

func (r *moduleRepository) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1 AND archived = FALSE`
	return scanModule(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *moduleRepository) Create(ctx context.Context, module *domain.Module) error {
	if module == nil {
		return domain.ErrInvalidPayload
	}
	if module.ID == "" {
		module.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO modules (id, course_id, title, duration, video_link, pdf_link, order_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		module.ID,
		module.CourseID,
		module.Title,
		module.Duration,
		module.VideoLink,
		module.PDFLink,
		module.OrderNumber,
	).Scan(&module.CreatedAt, &module.UpdatedAt)
	return storeError(err, nil)
}

func (r *moduleRepository) Update(ctx context.Context, module *domain.Module) error {
	if module == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE modules
	SET title = $2,
		duration = $3,
		video_link = $4,
		pdf_link = $5,
		order_number = $6,
		updated_at = NOW()
	WHERE id = $1 AND archived = FALSE
	RETURNING course_id, created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		module.ID,
		module.Title,
		module.Duration,
		module.VideoLink,
		module.PDFLink,
		module.OrderNumber,
	).Scan(&module.CourseID, &module.CreatedAt, &module.UpdatedAt)
	return storeError(err, domain.ErrModuleNotFound)
}

func (r *moduleRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE modules SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND archived = FALSE`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return storeError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrModuleNotFound
	}
	return nil
}

// Reorder expects to run inside a transaction so a missing module leaves the order untouched.
func (r *moduleRepository) Reorder(ctx context.Context, items []domain.OrderItem) error {
	const query = `UPDATE modules SET order_number = $2, updated_at = NOW() WHERE id = $1 AND archived = FALSE`
	q := conn(ctx, r.db)
	for _, item := range items {
		tag, err := q.Exec(ctx, query, item.ID, item.OrderNumber)
		if err != nil {
			return storeError(err, nil)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrModuleNotFound
		}
	}
	return nil
}

func scanModule(row scanner) (*domain.Module, error) {
	var module domain.Module
	if err := row.Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Duration,
		&module.VideoLink,
		&module.PDFLink,
		&module.OrderNumber,
		&module.Archived,
		&module.CreatedAt,
		&module.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, storeError(err, nil)
	}
	return &module, nil
}
