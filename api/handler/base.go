package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	"github.com/fastygo/clubportal/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

// requestContext returns the request's stdlib context and the caller resolved by the identity
// middleware.
func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc, policy.Caller) {
	caller := gate.CallerFrom(ctx)
	if h.adapter != nil {
		stdCtx, cancel := h.adapter.Attach(ctx, caller.ID)
		return stdCtx, cancel, caller
	}
	stdCtx, cancel := context.WithCancel(context.Background())
	return stdCtx, cancel, caller
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	transport.WriteJSON(ctx, status, payload)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error) {
	if status, _ := transport.StatusOf(err); status >= http.StatusInternalServerError {
		logger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		)
	}
	transport.WriteError(ctx, err)
}

// signedIn answers 401 for anonymous callers so missing credentials win over a malformed body.
func (h baseHandler) signedIn(ctx *fasthttp.RequestCtx, caller policy.Caller) bool {
	if caller.IsAnonymous() {
		transport.WriteError(ctx, domain.ErrUnauthorized)
		return false
	}
	return true
}

// decode parses the JSON body into dst and answers 400 on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst any) bool {
	if err := transport.Decode(ctx.PostBody(), dst); err != nil {
		transport.WriteError(ctx, err)
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
