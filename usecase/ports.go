// Package usecase holds the application services of the portal, one subpackage per area.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/httpcontext"
)

// Gate is the access check every use case runs before touching a store.
type Gate interface {
	Authorize(ctx context.Context, caller policy.Caller, action policy.Action, res policy.Resource) error
	Allows(ctx context.Context, caller policy.Caller, action policy.Action, res policy.Resource) bool
	FilterCourses(caller policy.Caller, courses []domain.Course) []domain.Course
}

// IdentityCache drops cached caller snapshots after a user record changes.
type IdentityCache interface {
	Invalidate(userID string)
}

// Actor names the caller on audit events.
func Actor(caller policy.Caller) string {
	if caller.IsAnonymous() {
		return "anonymous"
	}
	return caller.ID
}

// AuditEvent builds the audit record of one administrative change made by caller.
func AuditEvent(ctx context.Context, caller policy.Caller, kind, id, name string, payload any) *domain.AuditEvent {
	event := &domain.AuditEvent{
		ActorID:    Actor(caller),
		EntityKind: kind,
		EntityID:   id,
		Name:       name,
		Metadata:   httpcontext.Metadata(ctx),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.Payload = raw
		}
	}
	return event
}
