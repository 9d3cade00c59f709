// Package router implements a registry keyed by endpoint root, mapping
// each (method, template) pair to a handler, and the dispatch logic
// that picks the first matching template.
//
// The registry favors polymorphism over a fixed dispatcher: each endpoint
// root carries its own template table, service instance and close
// function, rather than a fixed set of cases hand-coded into the
// dispatcher.
package router

import (
	"context"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	urlmatch "github.com/mutablelogic/go-filebox/pkg/urlmatch"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

// Handler executes one action against a request and returns a response.
type Handler interface {
	Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error)

func (f HandlerFunc) Serve(ctx context.Context, req *wire.Request, params map[string]string) (*wire.Response, error) {
	return f(ctx, req, params)
}

// template pairs a URL template with the handler it dispatches to.
type template struct {
	pattern string
	handler Handler
}

// Endpoint is one registered root: its method->template table and a close
// function invoked at shutdown to flush the endpoint's backing store.
type Endpoint struct {
	Root    string
	methods map[string][]template

	// Close is called once during listener shutdown, e.g. to flush the
	// endpoint's backing store. Nil is a valid no-op.
	Close func(ctx context.Context) error
}

// NewEndpoint returns an empty endpoint rooted at root.
func NewEndpoint(root string) *Endpoint {
	return &Endpoint{Root: root, methods: map[string][]template{}}
}

// Handle registers a template for method. Templates are matched in
// registration order; the first match wins.
func (e *Endpoint) Handle(method, pattern string, h Handler) {
	e.methods[method] = append(e.methods[method], template{pattern: pattern, handler: h})
}

// Registry maps endpoint roots to their Endpoint record.
type Registry struct {
	endpoints map[string]*Endpoint
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{endpoints: map[string]*Endpoint{}}
}

// Register adds ep to the registry, keyed by its root.
func (r *Registry) Register(ep *Endpoint) {
	r.endpoints[ep.Root] = ep
}

// Endpoints returns every registered endpoint, for shutdown iteration.
func (r *Registry) Endpoints() []*Endpoint {
	result := make([]*Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	return result
}

// Dispatch resolves root/method/path+query against the registry and invokes
// the first matching handler. A root absent from the registry, or a method
// absent from that root's table, is 404/405 respectively; an unmatched
// template is 404.
func (r *Registry) Dispatch(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	ep, ok := r.endpoints[req.Root]
	if !ok {
		return nil, ferrors.URLError(404, "unrecognized endpoint "+req.Root)
	}

	templates, ok := ep.methods[req.Method]
	if !ok {
		return nil, ferrors.URLError(405, req.Method+" not allowed on "+req.Root)
	}

	target := req.Path
	if req.HasQuery {
		target += "?" + req.Query
	}

	for _, t := range templates {
		if !urlmatch.Match(t.pattern, target) {
			continue
		}
		params, _ := urlmatch.Extract(t.pattern, target)
		return t.handler.Serve(ctx, req, params)
	}
	return nil, ferrors.URLError(404, "no template matches "+target)
}
