package handler

import (
	"context"

	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

// Download implements GET .../name/{name}?action=download and
// GET .../id/{id}?action=download.
type Download struct {
	Store *store.Store
}

func (h *Download) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, []string{negotiate.Any}); err != nil {
		return nil, err
	}

	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}

	body, name, err := h.Store.Get(ctx, identifier)
	if err != nil {
		return nil, err
	}

	responseType, err := negotiate.SelectResponse(req.Headers, negotiate.BinaryMedia)
	if err != nil {
		return nil, err
	}

	resp := wire.NewResponse(200).SetBody(responseType, body)
	resp.Headers.Set("Content-Disposition", contentDisposition(name))
	return resp, nil
}
