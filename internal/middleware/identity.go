// Package middleware holds the fasthttp wrappers applied around every route.
package middleware

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	"github.com/fastygo/clubportal/pkg/logger"
	authUC "github.com/fastygo/clubportal/usecase/auth"
)

// Resolver turns a bearer token into the request's identity.
type Resolver interface {
	Resolve(ctx context.Context, bearer string) (authUC.Identity, error)
}

// Identify resolves the caller of every request. Missing or invalid tokens leave the request
// anonymous; only an unreachable identity store fails it.
func Identify(resolver Resolver, adapter *httpcontext.Adapter, log *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			bearer := extractToken(ctx)
			if bearer != "" {
				stdCtx, cancel := adapter.Attach(ctx, "")
				identity, err := resolver.Resolve(stdCtx, bearer)
				if err != nil {
					logger.WithRequestID(stdCtx, log).Warn("identity store unavailable", zap.Error(err))
					cancel()
					transport.WriteError(ctx, err)
					return
				}
				cancel()
				gate.WithCaller(ctx, identity.Caller)
				httpcontext.SetSessionID(ctx, identity.SessionID)
			}
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
