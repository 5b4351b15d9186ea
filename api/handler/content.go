package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	contentUC "github.com/fastygo/clubportal/usecase/content"
)

type ContentHandler struct {
	baseHandler
	uc *contentUC.UseCase
}

func NewContentHandler(uc *contentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// respond writes data or the error; status applies to success only.
func (h *ContentHandler) respond(stdCtx context.Context, ctx *fasthttp.RequestCtx, status int, run func() (any, error)) {
	data, err := run()
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, status, data)
}

// @Summary Announcements
// @Tags content
// @Router /api/announcements [get]
func (h *ContentHandler) ListAnnouncements(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) { return h.uc.ListAnnouncements(stdCtx, caller) })
}

// @Router /api/admin/announcements [post]
func (h *ContentHandler) CreateAnnouncement(ctx *fasthttp.RequestCtx) {
	var req transport.AnnouncementRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusCreated, func() (any, error) {
		return h.uc.CreateAnnouncement(stdCtx, caller, announcementInput(req))
	})
}

// @Router /api/admin/announcements/{id} [put]
func (h *ContentHandler) UpdateAnnouncement(ctx *fasthttp.RequestCtx) {
	var req transport.AnnouncementRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return h.uc.UpdateAnnouncement(stdCtx, caller, pathParam(ctx, "id"), announcementInput(req))
	})
}

// @Router /api/admin/announcements/{id}/archive [patch]
func (h *ContentHandler) ArchiveAnnouncement(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		id := pathParam(ctx, "id")
		return archived(id), h.uc.ArchiveAnnouncement(stdCtx, caller, id)
	})
}

// @Summary Leadership roster
// @Tags content
// @Router /api/leadership [get]
func (h *ContentHandler) ListLeadership(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) { return h.uc.ListLeadership(stdCtx, caller) })
}

// @Router /api/admin/leadership [post]
func (h *ContentHandler) CreateLeader(ctx *fasthttp.RequestCtx) {
	var req transport.LeaderRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusCreated, func() (any, error) {
		return h.uc.CreateLeader(stdCtx, caller, leaderInput(req))
	})
}

// @Router /api/admin/leadership/{id} [put]
func (h *ContentHandler) UpdateLeader(ctx *fasthttp.RequestCtx) {
	var req transport.LeaderRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return h.uc.UpdateLeader(stdCtx, caller, pathParam(ctx, "id"), leaderInput(req))
	})
}

// @Router /api/admin/leadership/{id}/archive [patch]
func (h *ContentHandler) ArchiveLeader(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		id := pathParam(ctx, "id")
		return archived(id), h.uc.ArchiveLeader(stdCtx, caller, id)
	})
}

// @Router /api/admin/leadership/reorder [post]
func (h *ContentHandler) ReorderLeadership(ctx *fasthttp.RequestCtx) {
	var req transport.ReorderRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return map[string]int{"updated": len(req.Items)}, h.uc.ReorderLeadership(stdCtx, caller, req.Items)
	})
}

// @Summary Success timeline
// @Tags content
// @Router /api/success-events [get]
func (h *ContentHandler) ListSuccessEvents(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) { return h.uc.ListSuccessEvents(stdCtx, caller) })
}

// @Router /api/admin/success-events [post]
func (h *ContentHandler) CreateSuccessEvent(ctx *fasthttp.RequestCtx) {
	in, ok := h.successEventInput(ctx)
	if !ok {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusCreated, func() (any, error) {
		return h.uc.CreateSuccessEvent(stdCtx, caller, in)
	})
}

// @Router /api/admin/success-events/{id} [put]
func (h *ContentHandler) UpdateSuccessEvent(ctx *fasthttp.RequestCtx) {
	in, ok := h.successEventInput(ctx)
	if !ok {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return h.uc.UpdateSuccessEvent(stdCtx, caller, pathParam(ctx, "id"), in)
	})
}

// @Router /api/admin/success-events/{id}/archive [patch]
func (h *ContentHandler) ArchiveSuccessEvent(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		id := pathParam(ctx, "id")
		return archived(id), h.uc.ArchiveSuccessEvent(stdCtx, caller, id)
	})
}

// @Summary Homepage copy
// @Tags content
// @Router /api/homepage-content [get]
func (h *ContentHandler) ListHomepage(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) { return h.uc.ListHomepage(stdCtx, caller) })
}

// @Router /api/admin/homepage-content [put]
func (h *ContentHandler) UpsertHomepage(ctx *fasthttp.RequestCtx) {
	var req transport.HomepageRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return h.uc.UpsertHomepage(stdCtx, caller, req.Section, req.Content)
	})
}

// @Summary Coach profile
// @Tags content
// @Router /api/coach-info [get]
func (h *ContentHandler) GetCoach(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) { return h.uc.GetCoach(stdCtx, caller) })
}

// @Router /api/admin/coach-info [put]
func (h *ContentHandler) ReplaceCoach(ctx *fasthttp.RequestCtx) {
	var req transport.CoachRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	h.respond(stdCtx, ctx, http.StatusOK, func() (any, error) {
		return h.uc.ReplaceCoach(stdCtx, caller, contentUC.CoachInput{
			Name:         req.Name,
			Bio:          req.Bio,
			Achievements: req.Achievements,
			ImageURL:     req.ImageURL,
		})
	})
}

func (h *ContentHandler) successEventInput(ctx *fasthttp.RequestCtx) (contentUC.SuccessEventInput, bool) {
	var req transport.SuccessEventRequest
	if !h.decode(ctx, &req) {
		return contentUC.SuccessEventInput{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		transport.WriteError(ctx, err)
		return contentUC.SuccessEventInput{}, false
	}
	return contentUC.SuccessEventInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Date:        date,
	}, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid("date must be RFC 3339 or YYYY-MM-DD")
}

func archived(id string) map[string]string {
	return map[string]string{"id": id}
}

func announcementInput(req transport.AnnouncementRequest) contentUC.AnnouncementInput {
	return contentUC.AnnouncementInput{Title: req.Title, Content: req.Content, ImageURL: req.ImageURL}
}

func leaderInput(req transport.LeaderRequest) contentUC.LeaderInput {
	return contentUC.LeaderInput{
		Name:        req.Name,
		Position:    req.Position,
		PhotoURL:    req.PhotoURL,
		OrderNumber: req.OrderNumber,
	}
}
