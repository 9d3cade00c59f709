package handler

import (
	"context"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

var overrideOffers = []string{wire.ContentTypeJSON, wire.ContentTypeText, wire.ContentTypeNone}

// Override implements PUT .../name/{name}?action=override and the id-based
// equivalent. Same body rules as Upload: the request body replaces the
// file's contents in place, without renaming it.
type Override struct {
	Store *store.Store
}

func (h *Override) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, negotiate.BinaryMedia); err != nil {
		return nil, err
	}

	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}

	if !req.HasBody() {
		return nil, ferrors.ParseError(411, "missing Content-Length")
	}
	if len(req.Body) == 0 {
		return nil, ferrors.StoreError(400, "empty body")
	}

	if _, err := h.Store.Override(ctx, identifier, req.Body); err != nil {
		return nil, err
	}

	return buildStatusResponse(200, "File overridden successfully", "", req.Headers, overrideOffers)
}
