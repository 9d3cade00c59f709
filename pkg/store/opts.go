package store

import (
	server "github.com/mutablelogic/go-server"
	trace "go.opentelemetry.io/otel/trace"
)

// opts mirrors the functional-options pattern of pkg/manager/opts.go in the
// go-filer lineage.
type opts struct {
	dir          string
	metadataPath string
	keys         metadataKeys
	codec        Codec
	logger       server.Logger
	tracer       trace.Tracer
}

// Opt configures a Store at construction time.
type Opt func(*opts) error

func applyOpts(o []Opt) (opts, error) {
	result := opts{
		keys:  metadataKeys{ID: "currentId", Data: "data"},
		codec: DefaultCodec,
	}
	for _, fn := range o {
		if err := fn(&result); err != nil {
			return opts{}, err
		}
	}
	return result, nil
}

// WithDir sets the managed directory holding file bytes.
func WithDir(dir string) Opt {
	return func(o *opts) error { o.dir = dir; return nil }
}

// WithMetadataPath sets the path to the metadata file flushed on shutdown.
func WithMetadataPath(path string) Opt {
	return func(o *opts) error { o.metadataPath = path; return nil }
}

// WithMetadataKeys overrides the metadata file's top-level field names.
func WithMetadataKeys(idKey, dataKey string) Opt {
	return func(o *opts) error { o.keys = metadataKeys{ID: idKey, Data: dataKey}; return nil }
}

// WithCodec overrides the default stdlib JSON codec.
func WithCodec(c Codec) Opt {
	return func(o *opts) error { o.codec = c; return nil }
}

// WithLogger attaches the logging facility sink.
func WithLogger(l server.Logger) Opt {
	return func(o *opts) error { o.logger = l; return nil }
}

// WithTracer attaches an OTel tracer; a nil tracer leaves spans as no-ops.
func WithTracer(t trace.Tracer) Opt {
	return func(o *opts) error { o.tracer = t; return nil }
}
