package handler

import (
	"context"
	"fmt"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

var uploadOffers = []string{wire.ContentTypeJSON, wire.ContentTypeText, wire.ContentTypeNone}

// Upload implements POST .../upload. The file name comes from
// Content-Disposition, not the URL — any filename-looking URL segment is
// treated as informational only.
type Upload struct {
	Store *store.Store
}

func (h *Upload) Serve(ctx context.Context, req *wire.Request, _ map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, negotiate.BinaryMedia); err != nil {
		return nil, err
	}

	disposition, ok := req.Headers.Get("Content-Disposition")
	if !ok {
		return nil, ferrors.URLError(400, "missing Content-Disposition header")
	}
	name, ok := parseContentDisposition(disposition)
	if !ok {
		return nil, ferrors.URLError(400, "cannot parse file name from Content-Disposition")
	}

	if !req.HasBody() {
		return nil, ferrors.ParseError(411, "missing Content-Length")
	}
	if len(req.Body) == 0 {
		return nil, ferrors.StoreError(400, "empty body")
	}

	id, err := h.Store.Add(ctx, name, req.Body)
	if err != nil {
		return nil, err
	}

	info := fmt.Sprintf("%q was given a unique identifier #%d", name, id)
	return buildStatusResponse(201, "File saved on the server", info, req.Headers, uploadOffers)
}
