package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	progressUC "github.com/fastygo/clubportal/usecase/progress"
)

type ProgressHandler struct {
	baseHandler
	uc *progressUC.UseCase
}

func NewProgressHandler(uc *progressUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Caller's progress records
// @Tags progress
// @Router /api/progress [get]
func (h *ProgressHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	records, err := h.uc.List(stdCtx, caller)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, records)
}

// @Summary Mark a module
// @Tags progress
// @Router /api/progress [post]
func (h *ProgressHandler) Mark(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	if !h.signedIn(ctx, caller) {
		return
	}

	var req transport.ProgressRequest
	if !h.decode(ctx, &req) {
		return
	}

	record, err := h.uc.Mark(stdCtx, caller, req.ModuleID, req.Completed)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, record)
}

// @Summary Update an owned record
// @Tags progress
// @Router /api/progress/{id} [put]
func (h *ProgressHandler) Update(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()
	if !h.signedIn(ctx, caller) {
		return
	}

	var req transport.ProgressUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	record, err := h.uc.Update(stdCtx, caller, pathParam(ctx, "id"), req.Completed)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, record)
}

// @Summary Completion of one course
// @Tags progress
// @Router /api/progress/courses/{id} [get]
func (h *ProgressHandler) CourseSummary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.CourseSummary(stdCtx, caller, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}
