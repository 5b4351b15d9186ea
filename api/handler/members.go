package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	membersUC "github.com/fastygo/clubportal/usecase/members"
)

type MembersHandler struct {
	baseHandler
	uc *membersUC.UseCase
}

func NewMembersHandler(uc *membersUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MembersHandler {
	return &MembersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List members
// @Tags admin
// @Router /api/admin/users [get]
func (h *MembersHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := domain.UserFilter{
		Status: domain.Status(args.Peek("status")),
		Limit:  parseInt(string(args.Peek("limit")), 50),
		Offset: parseInt(string(args.Peek("offset")), 0),
	}
	if raw := string(args.Peek("mentorship")); raw != "" {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			transport.WriteError(ctx, domain.Invalid("mentorship must be true or false"))
			return
		}
		filter.Mentorship = &flag
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.List(stdCtx, caller, filter)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(users, transport.Page{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Count:  len(users),
	}))
}

// @Summary Approve a pending member
// @Tags admin
// @Router /api/admin/users/{id}/approve [patch]
func (h *MembersHandler) Approve(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Approve(stdCtx, caller, pathParam(ctx, "id"))
	h.respondTransition(stdCtx, ctx, result, err)
}

// @Summary Grant or revoke mentorship access
// @Tags admin
// @Router /api/admin/users/{id}/mentorship [patch]
func (h *MembersHandler) SetMentorship(ctx *fasthttp.RequestCtx) {
	var req transport.MentorshipRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.SetMentorship(stdCtx, caller, pathParam(ctx, "id"), *req.Grant)
	h.respondTransition(stdCtx, ctx, result, err)
}

// @Summary Archive a member
// @Tags admin
// @Router /api/admin/users/{id}/archive [patch]
func (h *MembersHandler) Archive(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Archive(stdCtx, caller, pathParam(ctx, "id"))
	h.respondTransition(stdCtx, ctx, result, err)
}

// @Summary Recent administrative actions
// @Tags admin
// @Router /api/admin/audit [get]
func (h *MembersHandler) Audit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.Audit(stdCtx, caller, parseInt(string(ctx.QueryArgs().Peek("limit")), 50))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

// respondTransition reports an archive of an already archived account as a success carrying
// the already_archived code.
func (h *MembersHandler) respondTransition(stdCtx context.Context, ctx *fasthttp.RequestCtx, result *membersUC.Result, err error) {
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	payload := transport.NewSuccess(result, nil)
	if !result.Changed && result.User.IsArchived() {
		payload = payload.WithCode(domain.ReasonAlreadyArchived)
	}
	h.respondJSON(ctx, http.StatusOK, payload)
}
