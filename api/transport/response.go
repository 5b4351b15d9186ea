package transport

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every response body. Code carries the reason of an error, or a signal such as
// already_archived on a success that changed nothing.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  any    `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// Page describes the slice of a listing returned in Data.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func NewSuccess(data, meta any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

// NewError builds an error envelope; err is usually the caller-facing message.
func NewError(code string, err, meta any) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: err, Meta: meta}
}

// WithCode returns a copy of e tagged with code.
func (e Envelope) WithCode(code string) Envelope {
	e.Code = code
	return e
}
