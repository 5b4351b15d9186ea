package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

type contentRepository struct {
	db DB
}

// NewContentRepository returns a Postgres-backed implementation of ContentRepository.
func NewContentRepository(db DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

// archiveRow flips the archived flag of one live row in table.
func (r *contentRepository) archiveRow(ctx context.Context, table, id string) error {
	query := `UPDATE ` + table + ` SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND archived = FALSE`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return storeError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

const announcementColumns = `id, title, content, image_url, archived, created_at, updated_at`

func (r *contentRepository) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE archived = FALSE ORDER BY created_at DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	items := make([]domain.Announcement, 0)
	for rows.Next() {
		item, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, storeError(rows.Err(), nil)
}

func (r *contentRepository) GetAnnouncement(ctx context.Context, id string) (*domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1 AND archived = FALSE`
	return scanAnnouncement(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *contentRepository) SaveAnnouncement(ctx context.Context, item *domain.Announcement) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO announcements (id, title, content, image_url)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		content = EXCLUDED.content,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
	WHERE announcements.archived = FALSE
	RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, item.ID, item.Title, item.Content, item.ImageURL).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	return storeError(err, domain.ErrContentNotFound)
}

func (r *contentRepository) ArchiveAnnouncement(ctx context.Context, id string) error {
	return r.archiveRow(ctx, "announcements", id)
}

const leaderColumns = `id, name, position, photo_url, order_number, archived, created_at, updated_at`

func (r *contentRepository) ListLeadership(ctx context.Context) ([]domain.LeadershipMember, error) {
	query := `SELECT ` + leaderColumns + ` FROM leadership_members WHERE archived = FALSE ORDER BY order_number, created_at`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	items := make([]domain.LeadershipMember, 0)
	for rows.Next() {
		item, err := scanLeader(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, storeError(rows.Err(), nil)
}

func (r *contentRepository) GetLeader(ctx context.Context, id string) (*domain.LeadershipMember, error) {
	query := `SELECT ` + leaderColumns + ` FROM leadership_members WHERE id = $1 AND archived = FALSE`
	return scanLeader(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *contentRepository) SaveLeader(ctx context.Context, item *domain.LeadershipMember) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO leadership_members (id, name, position, photo_url, order_number)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		position = EXCLUDED.position,
		photo_url = EXCLUDED.photo_url,
		order_number = EXCLUDED.order_number,
		updated_at = NOW()
	WHERE leadership_members.archived = FALSE
	RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, item.ID, item.Name, item.Position, item.PhotoURL, item.OrderNumber).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	return storeError(err, domain.ErrContentNotFound)
}

func (r *contentRepository) ArchiveLeader(ctx context.Context, id string) error {
	return r.archiveRow(ctx, "leadership_members", id)
}

func (r *contentRepository) ReorderLeadership(ctx context.Context, items []domain.OrderItem) error {
	const query = `UPDATE leadership_members SET order_number = $2, updated_at = NOW() WHERE id = $1 AND archived = FALSE`
	q := conn(ctx, r.db)
	for _, item := range items {
		tag, err := q.Exec(ctx, query, item.ID, item.OrderNumber)
		if err != nil {
			return storeError(err, nil)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrContentNotFound
		}
	}
	return nil
}

const successEventColumns = `id, title, description, image_url, event_date, archived, created_at, updated_at`

func (r *contentRepository) ListSuccessEvents(ctx context.Context) ([]domain.SuccessEvent, error) {
	query := `SELECT ` + successEventColumns + ` FROM success_events WHERE archived = FALSE ORDER BY event_date DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	items := make([]domain.SuccessEvent, 0)
	for rows.Next() {
		item, err := scanSuccessEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, storeError(rows.Err(), nil)
}

func (r *contentRepository) GetSuccessEvent(ctx context.Context, id string) (*domain.SuccessEvent, error) {
	query := `SELECT ` + successEventColumns + ` FROM success_events WHERE id = $1 AND archived = FALSE`
	return scanSuccessEvent(conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *contentRepository) SaveSuccessEvent(ctx context.Context, item *domain.SuccessEvent) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO success_events (id, title, description, image_url, event_date)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		image_url = EXCLUDED.image_url,
		event_date = EXCLUDED.event_date,
		updated_at = NOW()
	WHERE success_events.archived = FALSE
	RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, item.ID, item.Title, item.Description, item.ImageURL, item.Date).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	return storeError(err, domain.ErrContentNotFound)
}

func (r *contentRepository) ArchiveSuccessEvent(ctx context.Context, id string) error {
	return r.archiveRow(ctx, "success_events", id)
}

func (r *contentRepository) ListHomepage(ctx context.Context) ([]domain.HomepageSection, error) {
	const query = `SELECT section, content, updated_at FROM homepage_sections ORDER BY section`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	sections := make([]domain.HomepageSection, 0)
	for rows.Next() {
		var section domain.HomepageSection
		if err := rows.Scan(&section.Section, &section.Content, &section.UpdatedAt); err != nil {
			return nil, storeError(err, nil)
		}
		sections = append(sections, section)
	}
	return sections, storeError(rows.Err(), nil)
}

func (r *contentRepository) UpsertHomepage(ctx context.Context, section *domain.HomepageSection) error {
	if section == nil || section.Section == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO homepage_sections (section, content)
	VALUES ($1, $2)
	ON CONFLICT (section) DO UPDATE
	SET content = EXCLUDED.content,
		updated_at = NOW()
	RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, section.Section, section.Content).Scan(&section.UpdatedAt)
	return storeError(err, nil)
}

func (r *contentRepository) GetCoach(ctx context.Context) (*domain.CoachInfo, error) {
	const query = `SELECT name, bio, achievements, image_url, updated_at FROM coach_info WHERE id = 1`
	var info domain.CoachInfo
	err := conn(ctx, r.db).QueryRow(ctx, query).Scan(&info.Name, &info.Bio, &info.Achievements, &info.ImageURL, &info.UpdatedAt)
	if err != nil {
		return nil, storeError(err, domain.ErrContentNotFound)
	}
	return &info, nil
}

func (r *contentRepository) ReplaceCoach(ctx context.Context, info *domain.CoachInfo) error {
	if info == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO coach_info (id, name, bio, achievements, image_url)
	VALUES (1, $1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		bio = EXCLUDED.bio,
		achievements = EXCLUDED.achievements,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
	RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, info.Name, info.Bio, info.Achievements, info.ImageURL).Scan(&info.UpdatedAt)
	return storeError(err, nil)
}

func scanAnnouncement(row scanner) (*domain.Announcement, error) {
	var item domain.Announcement
	if err := row.Scan(&item.ID, &item.Title, &item.Content, &item.ImageURL, &item.Archived, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, scanContentError(err)
	}
	return &item, nil
}

func scanLeader(row scanner) (*domain.LeadershipMember, error) {
	var item domain.LeadershipMember
	if err := row.Scan(&item.ID, &item.Name, &item.Position, &item.PhotoURL, &item.OrderNumber, &item.Archived, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, scanContentError(err)
	}
	return &item, nil
}

func scanSuccessEvent(row scanner) (*domain.SuccessEvent, error) {
	var item domain.SuccessEvent
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.ImageURL, &item.Date, &item.Archived, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, scanContentError(err)
	}
	return &item, nil
}

func scanContentError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrContentNotFound
	}
	return storeError(err, nil)
}
