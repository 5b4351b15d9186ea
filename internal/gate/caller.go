package gate

import (
	"github.com/valyala/fasthttp"

	"github.com/fastygo/clubportal/internal/policy"
)

const callerKey = "gate.caller"

// WithCaller stores the resolved caller on the request.
func WithCaller(ctx *fasthttp.RequestCtx, caller policy.Caller) {
	ctx.SetUserValue(callerKey, caller)
}

// CallerFrom returns the caller resolved for this request, or Anonymous.
func CallerFrom(ctx *fasthttp.RequestCtx) policy.Caller {
	if ctx == nil {
		return policy.Anonymous
	}
	if caller, ok := ctx.UserValue(callerKey).(policy.Caller); ok {
		return caller
	}
	return policy.Anonymous
}
