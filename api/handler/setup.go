package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	setupUC "github.com/fastygo/clubportal/usecase/setup"
)

type SetupHandler struct {
	baseHandler
	uc *setupUC.UseCase
}

func NewSetupHandler(uc *setupUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SetupHandler {
	return &SetupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Report whether the first administrator exists
// @Tags setup
// @Router /api/setup/status [get]
func (h *SetupHandler) Status(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	complete, err := h.uc.Status(stdCtx, caller)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"is_setup_complete": complete})
}

// @Summary Create the first administrator
// @Tags setup
// @Router /api/setup/initialize [post]
func (h *SetupHandler) Initialize(ctx *fasthttp.RequestCtx) {
	var req transport.InitializeRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	resp, err := h.uc.Initialize(stdCtx, caller, setupUC.InitializeInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, resp)
}
