package recipebook

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// DefaultNamespace is the storage namespace recipes are kept under.
const DefaultNamespace = "recipes"

// Option configures a Registry (functional options pattern).
type Option func(*Registry)

// WithNamespace sets the storage namespace. Empty keeps DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(r *Registry) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithFormat sets the record format used for every storage call.
func WithFormat(format Format) Option {
	return func(r *Registry) {
		if format.Valid() {
			r.format = format
		}
	}
}

// WithLogger sets the logger for failure diagnostics and timings. If l is nil, the default is left unchanged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the operation recorder (e.g. observability.Metrics).
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithTracer sets the tracer used to open one span per operation.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithStrictCreate makes Create fail with ErrAlreadyExists when the slug of the
// name is already taken. By default Create overwrites (last write wins).
func WithStrictCreate(strict bool) Option {
	return func(r *Registry) {
		r.strictCreate = strict
	}
}
