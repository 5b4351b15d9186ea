package httpcontext

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/clubportal/pkg/logger"
)

func TestAdapter_Attach(t *testing.T) {
	var reqCtx fasthttp.RequestCtx
	reqCtx.Request.Header.Set(HeaderRequestID, "req-42")
	reqCtx.Request.Header.SetUserAgent("curl/8")
	reqCtx.SetRemoteAddr(&net.TCPAddr{IP: net.ParseIP("10.0.0.7"), Port: 5555})

	ctx, cancel := NewAdapter(time.Second).Attach(&reqCtx, "u1")
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
	assert.Equal(t, "req-42", appLogger.RequestID(ctx))
	assert.Equal(t, "req-42", string(reqCtx.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, map[string]string{"ip": "10.0.0.7", "user_agent": "curl/8", "request_id": "req-42"}, Metadata(ctx))
}

func TestRequestID_GeneratedOncePerRequest(t *testing.T) {
	var reqCtx fasthttp.RequestCtx
	first := RequestID(&reqCtx)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(&reqCtx))
}
