// Package handler implements one handler per (method, action) pair.
// Each handler declares its accepted request content types and its ordered
// response offerings, negotiates both via pkg/negotiate, resolves the
// identifier from the matched URL placeholders, invokes pkg/store, and
// builds the wire.Response envelope.
package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

// errorEnvelope is the JSON body written for every failed request,
// regardless of the handler's own response offerings: errors are always
// serialized as JSON.
type errorEnvelope struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// ErrorResponse builds the standard JSON error envelope from err.
func ErrorResponse(err error) *wire.Response {
	status := ferrors.StatusOf(err)
	kind, _ := ferrors.KindOf(err)
	body, _ := json.Marshal(errorEnvelope{
		Status: status,
		Error:  kind.String(),
		Reason: err.Error(),
	})
	return wire.NewResponse(status).SetBody(wire.ContentTypeJSON, body)
}

// identifierFromParams builds a store.Identifier from the matched URL
// placeholders. Exactly one of "id" or "name" is expected. A non-numeric
// id is a 404, not a 400 — the segment looked like an id slot but didn't
// parse as one.
func identifierFromParams(params map[string]string) (store.Identifier, error) {
	if raw, ok := params["id"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Identifier{}, ferrors.URLError(404, "invalid id "+strconv.Quote(raw))
		}
		return store.ByID(id), nil
	}
	if name, ok := params["name"]; ok {
		return store.ByName(name), nil
	}
	return store.Identifier{}, ferrors.URLError(400, "request carries neither id nor name")
}

// contentDisposition builds the "attachment; filename=\"<name>\"" header
// value used by upload (request) and download (response).
func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

// parseContentDisposition extracts name from an "attachment;
// filename=\"<name>\"" header value.
func parseContentDisposition(header string) (string, bool) {
	const marker = "filename="
	idx := strings.Index(header, marker)
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(header[idx+len(marker):])
	name = strings.Trim(name, `"`)
	if name == "" {
		return "", false
	}
	return name, true
}

// marshalEntries renders the success-response shape for view/list: the list
// itself, not wrapped in a status envelope.
func marshalEntries(entries []*store.Entry) ([]byte, error) {
	return json.Marshal(entries)
}

// statusEnvelope is the JSON/text success shape shared by upload, rename,
// override and delete: a status code, a fixed human message, and an
// optional extra info string (upload's "was given a unique identifier").
type statusEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Info    string `json:"info,omitempty"`
}

// buildStatusResponse negotiates responseType against offered and renders
// the status envelope as JSON, as a plain-text line, or as an empty "none"
// body, per the handler's ordered offer list.
func buildStatusResponse(status int, message, info string, headers wire.Headers, offered []string) (*wire.Response, error) {
	responseType, err := negotiate.SelectResponse(headers, offered)
	if err != nil {
		return nil, err
	}

	resp := wire.NewResponse(status)
	switch responseType {
	case wire.ContentTypeJSON:
		body, merr := json.Marshal(statusEnvelope{Status: status, Message: message, Info: info})
		if merr != nil {
			return nil, ferrors.StoreError(500, "failed to marshal response body")
		}
		resp.SetBody(wire.ContentTypeJSON, body)
	case wire.ContentTypeText:
		line := fmt.Sprintf("%d %s", status, message)
		if info != "" {
			line += "\n" + info
		}
		resp.SetBody(wire.ContentTypeText, []byte(line))
	default:
		// wire.ContentTypeNone: no body.
	}
	return resp, nil
}
