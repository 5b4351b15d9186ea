package repository

import (
	"context"

	"github.com/fastygo/clubportal/domain"
)

// ContentRepository stores the public site content. Lists exclude archived rows.
type ContentRepository interface {
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (*domain.Announcement, error)
	SaveAnnouncement(ctx context.Context, item *domain.Announcement) error
	ArchiveAnnouncement(ctx context.Context, id string) error

	ListLeadership(ctx context.Context) ([]domain.LeadershipMember, error)
	GetLeader(ctx context.Context, id string) (*domain.LeadershipMember, error)
	SaveLeader(ctx context.Context, item *domain.LeadershipMember) error
	ArchiveLeader(ctx context.Context, id string) error
	ReorderLeadership(ctx context.Context, items []domain.OrderItem) error

	ListSuccessEvents(ctx context.Context) ([]domain.SuccessEvent, error)
	GetSuccessEvent(ctx context.Context, id string) (*domain.SuccessEvent, error)
	SaveSuccessEvent(ctx context.Context, item *domain.SuccessEvent) error
	ArchiveSuccessEvent(ctx context.Context, id string) error

	ListHomepage(ctx context.Context) ([]domain.HomepageSection, error)
	UpsertHomepage(ctx context.Context, section *domain.HomepageSection) error

	GetCoach(ctx context.Context) (*domain.CoachInfo, error)
	ReplaceCoach(ctx context.Context, info *domain.CoachInfo) error
}
