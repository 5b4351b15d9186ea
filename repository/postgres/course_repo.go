package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

const courseColumns = `id, title, description, outline, course_type, order_number, archived, created_at, updated_at`

type courseRepository struct {
	db DB
}

// NewCourseRepository returns a Postgres-backed implementation of CourseRepository.
func NewCourseRepository(db DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE archived = FALSE ORDER BY order_number, created_at`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, storeError(rows.Err(), nil)
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND archived = FALSE`
	return scanCourse(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	if course == nil {
		return domain.ErrInvalidPayload
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO courses (id, title, description, outline, course_type, order_number)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Outline,
		string(course.CourseType),
		course.OrderNumber,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	return storeError(err, nil)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE courses
	SET title = $2,
		description = $3,
		outline = $4,
		course_type = $5,
		order_number = $6,
		updated_at = NOW()
	WHERE id = $1 AND archived = FALSE
	RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Outline,
		string(course.CourseType),
		course.OrderNumber,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	return storeError(err, domain.ErrCourseNotFound)
}

func (r *courseRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE courses SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND archived = FALSE`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return storeError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row scanner) (*domain.Course, error) {
	var (
		course     domain.Course
		courseType string
	)
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Outline,
		&courseType,
		&course.OrderNumber,
		&course.Archived,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, storeError(err, nil)
	}
	course.CourseType = domain.CourseType(courseType)
	return &course, nil
}
