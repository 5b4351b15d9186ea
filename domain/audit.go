package domain

import (
	"encoding/json"
	"time"
)

// AuditEvent records one administrative change applied to an entity.
type AuditEvent struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	EntityKind string            `json:"entity_kind"`
	EntityID   string            `json:"entity_id"`
	Name       string            `json:"name"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Touch stamps the event if the caller did not.
func (e *AuditEvent) Touch() {
	if e == nil {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}
