package wire

import "strconv"

// ContentTypeNone is the sentinel used when a handler's response carries no
// body and therefore no Content-Type.
const ContentTypeNone = "none"

// Well-known response content types offered by action handlers.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Response is a mutable record under construction by an action handler. It
// is frozen by Finalize immediately before serialization.
type Response struct {
	Status  int
	Reason  string
	Headers Headers
	Body    []byte

	// ContentType is the content type chosen by the negotiator, or
	// ContentTypeNone when the handler has no body to return.
	ContentType string

	// Connection is the connection-status intent communicated to the
	// session manager: "keep-alive" or "close".
	Connection string
}

// NewResponse starts a response with the canonical reason phrase for status.
func NewResponse(status int) *Response {
	return &Response{
		Status:      status,
		Reason:      ReasonPhrase(status),
		Headers:     Headers{},
		ContentType: ContentTypeNone,
		Connection:  "keep-alive",
	}
}

// SetBody attaches a body and its content type.
func (r *Response) SetBody(contentType string, body []byte) *Response {
	r.ContentType = contentType
	r.Body = body
	return r
}

// Finalize enforces the response invariants: Content-Length matches the
// body length (0 when there is no body), Content-Type is present iff the
// body is non-empty and the content type is not "none", and
// Server/Connection are always present.
func (r *Response) Finalize(serverName string) *Response {
	r.Headers.Set("Server", serverName)
	r.Headers.Set("Connection", r.Connection)
	if len(r.Body) > 0 {
		r.Headers.Set("Content-Length", strconv.Itoa(len(r.Body)))
		if r.ContentType != "" && r.ContentType != ContentTypeNone {
			r.Headers.Set("Content-Type", r.ContentType)
		}
	} else {
		r.Headers.Set("Content-Length", "0")
	}
	return r
}
