package middleware

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request under its route pattern rather than the raw path.
func Metrics(observer RequestObserver) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if observer == nil {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			route, _ := ctx.UserValue(router.MatchedRoutePathParam).(string)
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveRequest(string(ctx.Method()), route, ctx.Response.StatusCode(), time.Since(start))
		}
	}
}
