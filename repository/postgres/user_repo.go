package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

const userColumns = `id, full_name, email, password_hash, role, status, mentorship_access, batch, reason, last_login_at, created_at, updated_at`

type userRepository struct {
	db DB
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1 AND status <> 'archived'`
	return scanUser(conn(ctx, r.db).QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, full_name, email, password_hash, role, status, mentorship_access, batch, reason)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		string(user.Status),
		user.MentorshipAccess,
		user.Batch,
		user.Reason,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return storeError(err, nil)
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE status <> 'archived'
	  AND ($1 = '' OR status = $1)
	  AND ($2::boolean IS NULL OR mentorship_access = $2)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`

	var mentorship any
	if filter.Mentorship != nil {
		mentorship = *filter.Mentorship
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, string(filter.Status), mentorship, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, storeError(rows.Err(), nil)
}

func (r *userRepository) ApplyTransition(ctx context.Context, id string, t domain.Transition) (*domain.User, error) {
	from := allowedFrom(t)
	if len(from) == 0 {
		return nil, domain.Invalid("unknown transition " + string(t))
	}

	var set string
	switch t {
	case domain.TransitionApprove:
		set = `status = 'approved'`
	case domain.TransitionArchive:
		set = `status = 'archived'`
	case domain.TransitionGrantMentor:
		set = `mentorship_access = TRUE`
	case domain.TransitionRevokeMentor:
		set = `mentorship_access = FALSE`
	}

	query := `
	UPDATE users SET ` + set + `, updated_at = NOW()
	WHERE id = $1 AND status = ANY($2)
	RETURNING ` + userColumns

	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, id, from))
	if !errors.Is(err, domain.ErrUserNotFound) {
		return user, err
	}

	// The guard failed: tell a missing user apart from one in a terminal state.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsArchived() {
		return current, domain.ErrAlreadyArchived
	}
	return current, domain.Invalid("transition " + string(t) + " not allowed from " + string(current.Status))
}

func (r *userRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2 WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		return storeError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = 'admin' AND status <> 'archived'`
	var count int
	if err := conn(ctx, r.db).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, storeError(err, nil)
	}
	return count, nil
}

// allowedFrom renders the guard of t as a text array parameter.
func allowedFrom(t domain.Transition) []string {
	statuses := domain.AllowedFrom(t)
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user         domain.User
		role, status string
		lastLogin    *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&role,
		&status,
		&user.MentorshipAccess,
		&user.Batch,
		&user.Reason,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err, nil)
	}

	user.Role = domain.Role(role)
	user.Status = domain.Status(status)
	user.LastLoginAt = lastLogin
	return &user, nil
}
