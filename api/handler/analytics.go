package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/pkg/httpcontext"
	analyticsUC "github.com/fastygo/clubportal/usecase/analytics"
)

type AnalyticsHandler struct {
	baseHandler
	uc *analyticsUC.UseCase
}

func NewAnalyticsHandler(uc *analyticsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Live dashboard figures
// @Tags admin
// @Router /api/admin/analytics [get]
func (h *AnalyticsHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, caller)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Recorded snapshots
// @Tags admin
// @Router /api/admin/analytics/history [get]
func (h *AnalyticsHandler) History(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	history, err := h.uc.History(stdCtx, caller, parseInt(string(ctx.QueryArgs().Peek("limit")), 0))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, history)
}
