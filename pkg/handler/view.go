package handler

import (
	"context"

	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

var viewOffers = []string{wire.ContentTypeJSON, wire.ContentTypeText}

// View implements GET .../name/{name}?action=view, GET .../id/{id}?action=view
// and GET .../query/{query}?action=view. All three sub-shapes return a list:
// name/id return a single-element list, query returns the filtered list.
type View struct {
	Store *store.Store
}

func (h *View) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	if err := negotiate.CheckRequest(req.Headers, []string{negotiate.Any}); err != nil {
		return nil, err
	}

	var entries []*store.Entry
	if query, ok := params["query"]; ok {
		list, err := h.Store.List(ctx, query)
		if err != nil {
			return nil, err
		}
		entries = list
	} else {
		identifier, err := identifierFromParams(params)
		if err != nil {
			return nil, err
		}
		entry, err := h.Store.View(ctx, identifier)
		if err != nil {
			return nil, err
		}
		entries = []*store.Entry{entry}
	}

	responseType, err := negotiate.SelectResponse(req.Headers, viewOffers)
	if err != nil {
		return nil, err
	}

	body, merr := marshalEntries(entries)
	if merr != nil {
		return nil, merr
	}

	resp := wire.NewResponse(200)
	if responseType == wire.ContentTypeText {
		resp.SetBody(wire.ContentTypeText, body)
	} else {
		resp.SetBody(wire.ContentTypeJSON, body)
	}
	return resp, nil
}
