// Package content manages the public site: announcements, leadership, success events, homepage
// copy and the coach profile.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

type AnnouncementInput struct {
	Title    string
	Content  string
	ImageURL string
}

type LeaderInput struct {
	Name        string
	Position    string
	PhotoURL    string
	OrderNumber int
}

type SuccessEventInput struct {
	Title       string
	Description string
	ImageURL    string
	Date        time.Time
}

type CoachInput struct {
	Name         string
	Bio          string
	Achievements string
	ImageURL     string
}

type UseCase struct {
	tx      repository.TxManager
	content repository.ContentRepository
	audit   repository.AuditRepository
	gate    usecase.Gate
	logger  *zap.Logger

	// rich keeps formatting markup in long-form fields; plain strips every tag.
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func New(tx repository.TxManager, content repository.ContentRepository, audit repository.AuditRepository, gate usecase.Gate, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tx:      tx,
		content: content,
		audit:   audit,
		gate:    gate,
		logger:  logger,
		rich:    bluemonday.UGCPolicy(),
		plain:   bluemonday.StrictPolicy(),
	}
}

func (uc *UseCase) read(ctx context.Context, caller policy.Caller) error {
	return uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryPublicContent})
}

// write authorizes an administrative change and runs fn together with its audit record.
func (uc *UseCase) write(ctx context.Context, caller policy.Caller, action policy.Action, kind, name string, fn func(ctx context.Context) (string, any, error)) error {
	if err := uc.gate.Authorize(ctx, caller, action, policy.Resource{Category: policy.CategoryPublicContent}); err != nil {
		return err
	}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, payload, err := fn(ctx)
		if err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, kind, id, name, payload))
	})
	if err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("content changed", zap.String("event", name))
	return nil
}

func (uc *UseCase) text(s string) string { return strings.TrimSpace(uc.plain.Sanitize(s)) }

func (uc *UseCase) html(s string) string { return strings.TrimSpace(uc.rich.Sanitize(s)) }

func (uc *UseCase) url(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "/") {
		return s
	}
	return ""
}

// Announcements

func (uc *UseCase) ListAnnouncements(ctx context.Context, caller policy.Caller) ([]domain.Announcement, error) {
	if err := uc.read(ctx, caller); err != nil {
		return nil, err
	}
	return uc.content.ListAnnouncements(ctx)
}

func (uc *UseCase) CreateAnnouncement(ctx context.Context, caller policy.Caller, in AnnouncementInput) (*domain.Announcement, error) {
	item := &domain.Announcement{}
	err := uc.write(ctx, caller, policy.ActionCreate, "announcement", "announcement.create", func(ctx context.Context) (string, any, error) {
		if err := uc.applyAnnouncement(item, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveAnnouncement(ctx, item); err != nil {
			return "", nil, err
		}
		return item.ID, item, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) UpdateAnnouncement(ctx context.Context, caller policy.Caller, id string, in AnnouncementInput) (*domain.Announcement, error) {
	var item *domain.Announcement
	err := uc.write(ctx, caller, policy.ActionUpdate, "announcement", "announcement.update", func(ctx context.Context) (string, any, error) {
		current, err := uc.content.GetAnnouncement(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if err := uc.applyAnnouncement(current, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveAnnouncement(ctx, current); err != nil {
			return "", nil, err
		}
		item = current
		return id, current, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) ArchiveAnnouncement(ctx context.Context, caller policy.Caller, id string) error {
	return uc.write(ctx, caller, policy.ActionArchive, "announcement", "announcement.archive", func(ctx context.Context) (string, any, error) {
		return id, nil, uc.content.ArchiveAnnouncement(ctx, id)
	})
}

func (uc *UseCase) applyAnnouncement(item *domain.Announcement, in AnnouncementInput) error {
	item.Title = uc.text(in.Title)
	item.Content = uc.html(in.Content)
	item.ImageURL = uc.url(in.ImageURL)
	if item.Title == "" || item.Content == "" {
		return domain.Invalid("announcement title and content are required")
	}
	return nil
}

// Leadership

func (uc *UseCase) ListLeadership(ctx context.Context, caller policy.Caller) ([]domain.LeadershipMember, error) {
	if err := uc.read(ctx, caller); err != nil {
		return nil, err
	}
	return uc.content.ListLeadership(ctx)
}

func (uc *UseCase) CreateLeader(ctx context.Context, caller policy.Caller, in LeaderInput) (*domain.LeadershipMember, error) {
	item := &domain.LeadershipMember{}
	err := uc.write(ctx, caller, policy.ActionCreate, "leader", "leader.create", func(ctx context.Context) (string, any, error) {
		if err := uc.applyLeader(item, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveLeader(ctx, item); err != nil {
			return "", nil, err
		}
		return item.ID, item, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) UpdateLeader(ctx context.Context, caller policy.Caller, id string, in LeaderInput) (*domain.LeadershipMember, error) {
	var item *domain.LeadershipMember
	err := uc.write(ctx, caller, policy.ActionUpdate, "leader", "leader.update", func(ctx context.Context) (string, any, error) {
		current, err := uc.content.GetLeader(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if err := uc.applyLeader(current, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveLeader(ctx, current); err != nil {
			return "", nil, err
		}
		item = current
		return id, current, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) ArchiveLeader(ctx context.Context, caller policy.Caller, id string) error {
	return uc.write(ctx, caller, policy.ActionArchive, "leader", "leader.archive", func(ctx context.Context) (string, any, error) {
		return id, nil, uc.content.ArchiveLeader(ctx, id)
	})
}

// ReorderLeadership applies every move or none.
func (uc *UseCase) ReorderLeadership(ctx context.Context, caller policy.Caller, items []domain.OrderItem) error {
	return uc.write(ctx, caller, policy.ActionUpdate, "leader", "leader.reorder", func(ctx context.Context) (string, any, error) {
		if len(items) == 0 {
			return "", nil, domain.Invalid("at least one item is required")
		}
		for _, item := range items {
			if item.ID == "" || item.OrderNumber < 0 {
				return "", nil, domain.Invalid("every item needs an id and a non-negative order")
			}
		}
		return "", items, uc.content.ReorderLeadership(ctx, items)
	})
}

func (uc *UseCase) applyLeader(item *domain.LeadershipMember, in LeaderInput) error {
	item.Name = uc.text(in.Name)
	item.Position = uc.text(in.Position)
	item.PhotoURL = uc.url(in.PhotoURL)
	item.OrderNumber = in.OrderNumber
	if item.Name == "" || item.Position == "" {
		return domain.Invalid("leader name and position are required")
	}
	if item.OrderNumber < 0 {
		return domain.Invalid("order_number must not be negative")
	}
	return nil
}

// Success events

func (uc *UseCase) ListSuccessEvents(ctx context.Context, caller policy.Caller) ([]domain.SuccessEvent, error) {
	if err := uc.read(ctx, caller); err != nil {
		return nil, err
	}
	return uc.content.ListSuccessEvents(ctx)
}

func (uc *UseCase) CreateSuccessEvent(ctx context.Context, caller policy.Caller, in SuccessEventInput) (*domain.SuccessEvent, error) {
	item := &domain.SuccessEvent{}
	err := uc.write(ctx, caller, policy.ActionCreate, "success_event", "success_event.create", func(ctx context.Context) (string, any, error) {
		if err := uc.applySuccessEvent(item, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveSuccessEvent(ctx, item); err != nil {
			return "", nil, err
		}
		return item.ID, item, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) UpdateSuccessEvent(ctx context.Context, caller policy.Caller, id string, in SuccessEventInput) (*domain.SuccessEvent, error) {
	var item *domain.SuccessEvent
	err := uc.write(ctx, caller, policy.ActionUpdate, "success_event", "success_event.update", func(ctx context.Context) (string, any, error) {
		current, err := uc.content.GetSuccessEvent(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if err := uc.applySuccessEvent(current, in); err != nil {
			return "", nil, err
		}
		if err := uc.content.SaveSuccessEvent(ctx, current); err != nil {
			return "", nil, err
		}
		item = current
		return id, current, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) ArchiveSuccessEvent(ctx context.Context, caller policy.Caller, id string) error {
	return uc.write(ctx, caller, policy.ActionArchive, "success_event", "success_event.archive", func(ctx context.Context) (string, any, error) {
		return id, nil, uc.content.ArchiveSuccessEvent(ctx, id)
	})
}

func (uc *UseCase) applySuccessEvent(item *domain.SuccessEvent, in SuccessEventInput) error {
	item.Title = uc.text(in.Title)
	item.Description = uc.html(in.Description)
	item.ImageURL = uc.url(in.ImageURL)
	item.Date = in.Date.UTC()
	if item.Title == "" || in.Date.IsZero() {
		return domain.Invalid("success event title and date are required")
	}
	return nil
}

// Homepage

func (uc *UseCase) ListHomepage(ctx context.Context, caller policy.Caller) ([]domain.HomepageSection, error) {
	if err := uc.read(ctx, caller); err != nil {
		return nil, err
	}
	return uc.content.ListHomepage(ctx)
}

// UpsertHomepage replaces the copy of one section, creating the section if needed.
func (uc *UseCase) UpsertHomepage(ctx context.Context, caller policy.Caller, section, body string) (*domain.HomepageSection, error) {
	item := &domain.HomepageSection{}
	err := uc.write(ctx, caller, policy.ActionUpdate, "homepage", "homepage.update", func(ctx context.Context) (string, any, error) {
		item.Section = strings.ToLower(strings.TrimSpace(section))
		item.Content = uc.html(body)
		if item.Section == "" {
			return "", nil, domain.Invalid("section is required")
		}
		if err := uc.content.UpsertHomepage(ctx, item); err != nil {
			return "", nil, err
		}
		return item.Section, item, nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Coach

func (uc *UseCase) GetCoach(ctx context.Context, caller policy.Caller) (*domain.CoachInfo, error) {
	if err := uc.read(ctx, caller); err != nil {
		return nil, err
	}
	return uc.content.GetCoach(ctx)
}

func (uc *UseCase) ReplaceCoach(ctx context.Context, caller policy.Caller, in CoachInput) (*domain.CoachInfo, error) {
	info := &domain.CoachInfo{}
	err := uc.write(ctx, caller, policy.ActionUpdate, "coach", "coach.replace", func(ctx context.Context) (string, any, error) {
		info.Name = uc.text(in.Name)
		info.Bio = uc.html(in.Bio)
		info.Achievements = uc.html(in.Achievements)
		info.ImageURL = uc.url(in.ImageURL)
		if info.Name == "" {
			return "", nil, domain.Invalid("coach name is required")
		}
		if err := uc.content.ReplaceCoach(ctx, info); err != nil {
			return "", nil, err
		}
		return "coach", info, nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}
