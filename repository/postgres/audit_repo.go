package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

type auditRepository struct {
	db DB
}

// NewAuditRepository creates a Postgres-backed AuditRepository implementation.
func NewAuditRepository(db DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Touch()

	const query = `
	INSERT INTO audit_events (id, actor_id, entity_kind, entity_id, name, payload, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var payload []byte
	if len(event.Payload) > 0 {
		payload = []byte(event.Payload)
	}

	_, err := conn(ctx, r.db).Exec(ctx, query,
		event.ID,
		event.ActorID,
		event.EntityKind,
		event.EntityID,
		event.Name,
		payload,
		marshalMap(event.Metadata),
		event.CreatedAt,
	)
	return storeError(err, nil)
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	const query = `
	SELECT id, actor_id, entity_kind, entity_id, name, payload, metadata, created_at
	FROM audit_events
	ORDER BY created_at DESC
	LIMIT $1
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	events := make([]domain.AuditEvent, 0)
	for rows.Next() {
		var (
			event    domain.AuditEvent
			payload  []byte
			metadata []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.ActorID,
			&event.EntityKind,
			&event.EntityID,
			&event.Name,
			&payload,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, storeError(err, nil)
		}
		if len(payload) > 0 {
			event.Payload = make(json.RawMessage, len(payload))
			copy(event.Payload, payload)
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &event.Metadata)
		}
		events = append(events, event)
	}
	return events, storeError(rows.Err(), nil)
}
