package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/clubportal/domain"
)

// StatusOf maps an error to its HTTP status and the reason code exposed to clients.
func StatusOf(err error) (int, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, domain.ReasonInternal
	}

	reason := dErr.Reason
	switch dErr.Code {
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized, reason
	case domain.ErrCodeForbidden:
		return http.StatusForbidden, reason
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest, reason
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, reason
	case domain.ErrCodeConflict:
		return http.StatusConflict, reason
	case domain.ErrCodeUnavailable:
		return http.StatusServiceUnavailable, reason
	default:
		return http.StatusInternalServerError, domain.ReasonInternal
	}
}

// WriteError renders err as an error envelope.
func WriteError(ctx *fasthttp.RequestCtx, err error) {
	status, code := StatusOf(err)
	message := "internal error"
	var dErr *domain.Error
	if status != http.StatusInternalServerError && errors.As(err, &dErr) {
		message = dErr.Message
	}
	WriteJSON(ctx, status, NewError(code, message, nil))
}

// WriteJSON renders an envelope with the given status.
func WriteJSON(ctx *fasthttp.RequestCtx, status int, payload Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
