package handler

import (
	"context"

	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

var deleteOffers = []string{wire.ContentTypeJSON, wire.ContentTypeText, wire.ContentTypeNone}

// Delete implements DELETE .../name/{name} and DELETE .../id/{id}.
type Delete struct {
	Store *store.Store
}

func (h *Delete) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, []string{negotiate.Any}); err != nil {
		return nil, err
	}

	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}

	if _, err := h.Store.Delete(ctx, identifier); err != nil {
		return nil, err
	}

	return buildStatusResponse(200, "File deleted successfully", "", req.Headers, deleteOffers)
}
