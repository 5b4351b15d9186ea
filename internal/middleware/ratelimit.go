package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/pkg/httpcontext"
)

// RateLimiter throttles a route per client address.
type RateLimiter struct {
	limiter *limiter.Limiter
	name    string
	logger  *zap.Logger
}

// NewRateLimiter parses a "<limit>-<period>" rate such as "10-M" over store.
func NewRateLimiter(store limiter.Store, name, formatted string, logger *zap.Logger) (*RateLimiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{limiter: limiter.New(store, rate), name: name, logger: logger}, nil
}

// Wrap answers 429 once the client exhausted its quota. A failing store lets the request through.
func (l *RateLimiter) Wrap(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	if l == nil {
		return next
	}
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		lctx, err := l.limiter.Get(stdCtx, l.name+":"+httpcontext.ClientIP(ctx))
		cancel()
		if err != nil {
			l.logger.Warn("rate limiter store failed", zap.String("limiter", l.name), zap.Error(err))
			next(ctx)
			return
		}

		ctx.Response.Header.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		ctx.Response.Header.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		ctx.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		if lctx.Reached {
			transport.WriteJSON(ctx, fasthttp.StatusTooManyRequests, transport.NewError("rate_limited", "too many requests", nil))
			return
		}
		next(ctx)
	}
}
