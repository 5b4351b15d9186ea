package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	authUC "github.com/fastygo/clubportal/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a pending member
// @Tags auth
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, _ := h.requestContext(ctx)
	defer cancel()

	resp, err := h.uc.Signup(stdCtx, authUC.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Batch:    req.Batch,
		Reason:   req.Reason,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, resp)
}

// @Summary Sign in
// @Tags auth
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, _ := h.requestContext(ctx)
	defer cancel()

	resp, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Sign out the current session
// @Tags auth
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, _ := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, httpcontext.SessionID(ctx)); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"logged_out": true})
}

// @Summary Extend the current session
// @Tags auth
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	resp, err := h.uc.Refresh(stdCtx, caller, httpcontext.SessionID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}
