package handler

import (
	"context"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

var renameOffers = []string{wire.ContentTypeJSON, wire.ContentTypeText, wire.ContentTypeNone}

// Rename implements PUT .../name/{name}?action=update-name&value={value}
// and the id-based equivalent.
type Rename struct {
	Store *store.Store
}

func (h *Rename) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, []string{negotiate.Any}); err != nil {
		return nil, err
	}

	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}
	newName, ok := params["value"]
	if !ok || newName == "" {
		return nil, ferrors.URLError(400, "missing value query parameter")
	}

	current, err := h.Store.View(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if store.TypeTag(current.Name) != store.TypeTag(newName) {
		return nil, ferrors.StoreError(400, "renamed file must keep the same file-type tag")
	}

	if _, err := h.Store.Rename(ctx, identifier, newName); err != nil {
		return nil, err
	}

	return buildStatusResponse(200, "File updated successfully", "", req.Headers, renameOffers)
}
