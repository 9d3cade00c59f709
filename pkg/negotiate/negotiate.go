// Package negotiate implements validating a request's Content-Type
// against a handler's accepted set, and choosing a response content type
// from a handler's offer list against the request's Accept header.
package negotiate

import (
	"strings"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

// Any is the marker meaning "accept every request content type".
const Any = "*"

// Binary media types accepted by upload/override handlers.
var BinaryMedia = []string{
	"application/octet-stream",
	"image/jpeg",
	"image/png",
	"image/gif",
	"audio/mpeg",
	"video/mp4",
}

// CheckRequest validates the request's Content-Type against accepted. An
// accepted set containing Any always passes.
func CheckRequest(headers wire.Headers, accepted []string) error {
	for _, a := range accepted {
		if a == Any {
			return nil
		}
	}
	ct, present := headers.Get("Content-Type")
	if !present {
		return nil
	}
	for _, a := range accepted {
		if a == ct {
			return nil
		}
	}
	return ferrors.MediaError(415, "unsupported request content type "+ct)
}

// SelectResponse picks the first offered type present in the request's
// Accept header. A missing Accept header, or an Accept list containing
// "*/*", both select the first offered type. Priority weights (q=) are
// intentionally ignored.
func SelectResponse(headers wire.Headers, offered []string) (string, error) {
	if len(offered) == 0 {
		return wire.ContentTypeNone, nil
	}
	accept, present := headers.Get("Accept")
	if !present {
		return offered[0], nil
	}
	wanted := splitAccept(accept)
	for _, w := range wanted {
		if w == "*/*" {
			return offered[0], nil
		}
	}
	for _, o := range offered {
		if o == wire.ContentTypeNone {
			// "none" is a standing fallback offer: a handler that lists it
			// can always satisfy negotiation with an empty body.
			return wire.ContentTypeNone, nil
		}
		for _, w := range wanted {
			if w == o {
				return o, nil
			}
		}
	}
	return "", ferrors.MediaError(406, "no acceptable response content type")
}

func splitAccept(accept string) []string {
	parts := strings.Split(accept, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}
