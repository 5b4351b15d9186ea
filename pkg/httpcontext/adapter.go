package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/clubportal/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const HeaderRequestID = "X-Request-ID"

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context bounded by the adapter timeout and carrying the request ID, the
// caller ID and client metadata. The request ID is echoed on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx, userID string) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	stdCtx = appLogger.ContextWithUserID(stdCtx, userID)
	if ctx == nil {
		return stdCtx, cancel
	}
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if ip := ClientIP(ctx); ip != "" {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, ip)
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the inbound X-Request-ID or a stable generated one for this request.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(HeaderRequestID).(string); ok && id != "" {
		return id
	}
	id := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(HeaderRequestID, id)
	return id
}

// ClientIP returns the remote address without the port.
func ClientIP(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	if ip := ctx.RemoteIP(); ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	return ""
}

// Metadata returns the client metadata stored by Attach, suitable for audit events.
func Metadata(ctx context.Context) map[string]string {
	meta := make(map[string]string, 3)
	if ctx == nil {
		return meta
	}
	if v, ok := ctx.Value(KeyRemoteAddr).(string); ok && v != "" {
		meta["ip"] = v
	}
	if v, ok := ctx.Value(KeyUserAgent).(string); ok && v != "" {
		meta["user_agent"] = v
	}
	if v := appLogger.RequestID(ctx); v != "" {
		meta["request_id"] = v
	}
	return meta
}

const keySessionID = "httpcontext.session_id"

// SetSessionID remembers the session behind the request's bearer token.
func SetSessionID(ctx *fasthttp.RequestCtx, id string) {
	if ctx != nil && id != "" {
		ctx.SetUserValue(keySessionID, id)
	}
}

// SessionID returns the session stored by SetSessionID, or an empty string.
func SessionID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.UserValue(keySessionID).(string)
	return id
}
