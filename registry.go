package recipebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Operation names used for logs, spans and OperationError.Op.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
	OpList   = "list"
)

// Registry persists recipes through a Storage and derives their stats on read.
// It holds no cache: every call goes to the store, so a Registry is safe for
// concurrent use as long as the Storage is. Concurrent writers to one id resolve
// as last-writer-wins.
type Registry struct {
	store        Storage
	catalog      DatasetCatalog
	namespace    string
	format       Format
	logger       *slog.Logger
	recorder     Recorder
	tracer       trace.Tracer
	strictCreate bool
}

// New creates a Registry over store, resolving prompt counts with catalog.
// Panics if store is nil. A nil catalog yields zero prompt counts.
func New(store Storage, catalog DatasetCatalog, opts ...Option) *Registry {
	if store == nil {
		panic("recipebook: Storage must not be nil")
	}
	r := &Registry{
		store:     store,
		catalog:   catalog,
		namespace: DefaultNamespace,
		format:    FormatJSON,
		logger:    slog.New(slog.DiscardHandler),
		recorder:  nopRecorder{},
		tracer:    noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Namespace returns the storage namespace of the registry.
func (r *Registry) Namespace() string { return r.namespace }

// Create stores a new recipe and returns its id, the lowercase slug of f.Name.
// f.ID is ignored. Without WithStrictCreate an existing record with the same id is overwritten.
func (r *Registry) Create(ctx context.Context, f Fields) (string, error) {
	ctx, done := r.begin(ctx, OpCreate, f.Name)
	id, err := r.create(ctx, f)
	return id, done(err)
}

func (r *Registry) create(ctx context.Context, f Fields) (string, error) {
	if err := ValidateFields(f); err != nil {
		return "", r.opErr(OpCreate, "", ErrCreate, err)
	}
	id := Slugify(f.Name)
	if err := ValidateID(id); err != nil {
		return "", r.opErr(OpCreate, id, ErrCreate, err)
	}
	if r.strictCreate {
		exists, err := r.store.ObjectExists(ctx, r.namespace, id, r.format)
		if err != nil {
			return "", r.opErr(OpCreate, id, ErrCreate, err)
		}
		if exists {
			return "", r.opErr(OpCreate, id, ErrCreate, ErrAlreadyExists)
		}
	}
	f.ID = id
	if err := r.store.CreateObject(ctx, r.namespace, id, f.Payload(), r.format); err != nil {
		return "", r.opErr(OpCreate, id, ErrCreate, err)
	}
	return id, nil
}

// Load returns the recipe with the given id. An empty id or a missing record fails with ErrNotFound.
func (r *Registry) Load(ctx context.Context, id string) (*Recipe, error) {
	if id == "" {
		_, done := r.begin(ctx, OpRead, "")
		return nil, done(r.opErr(OpRead, "", ErrNotFound, errors.New("recipe id is empty")))
	}
	return r.Read(ctx, id)
}

// Read fetches the stored record and derives its stats, querying the catalog
// for the recipe's own datasets. A missing record fails with ErrNotFound; any
// other failure with ErrRead.
func (r *Registry) Read(ctx context.Context, id string) (*Recipe, error) {
	ctx, done := r.begin(ctx, OpRead, id)
	rec, err := r.readRecipe(ctx, id, nil)
	if err != nil {
		kind := ErrRead
		if errors.Is(err, ErrObjectNotFound) {
			kind = ErrNotFound
		}
		return nil, done(r.opErr(OpRead, id, kind, err))
	}
	return rec, done(nil)
}

// readRecipe is the shared read path. counts == nil selects the per-recipe catalog
// lookup; ListAll passes the map it computed once for the whole listing.
func (r *Registry) readRecipe(ctx context.Context, id string, counts map[string]int) (*Recipe, error) {
	payload, err := r.store.ReadObject(ctx, r.namespace, id, r.format)
	if err != nil {
		return nil, fmt.Errorf("unable to get results for %s: %w", id, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("unable to get results for %s: %w", id, ErrObjectNotFound)
	}
	f, err := FieldsFromPayload(payload)
	if err != nil {
		return nil, err
	}
	st, err := DeriveStats(ctx, f, counts, r.catalog)
	if err != nil {
		return nil, err
	}
	return &Recipe{Fields: f, Stats: st}, nil
}

// Update overwrites the record at f.ID with f. Stats are recomputed on the next read.
func (r *Registry) Update(ctx context.Context, f Fields) error {
	ctx, done := r.begin(ctx, OpUpdate, f.ID)
	if err := ValidateID(f.ID); err != nil {
		return done(r.opErr(OpUpdate, f.ID, ErrUpdate, err))
	}
	if err := ValidateFields(f); err != nil {
		return done(r.opErr(OpUpdate, f.ID, ErrUpdate, err))
	}
	if err := r.store.CreateObject(ctx, r.namespace, f.ID, f.Payload(), r.format); err != nil {
		return done(r.opErr(OpUpdate, f.ID, ErrUpdate, err))
	}
	return done(nil)
}

// Delete removes the record. A missing record fails with ErrDelete wrapping ErrObjectNotFound.
func (r *Registry) Delete(ctx context.Context, id string) error {
	ctx, done := r.begin(ctx, OpDelete, id)
	if err := r.store.DeleteObject(ctx, r.namespace, id, r.format); err != nil {
		return done(r.opErr(OpDelete, id, ErrDelete, err))
	}
	return done(nil)
}

// Exists reports whether a record with the given id is stored.
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.ObjectExists(ctx, r.namespace, id, r.format)
}

// ListAll returns every stored recipe with its id, in store enumeration order.
// The dataset catalog is scanned once for the whole listing. Keys containing "__"
// are internal records and are skipped. One unreadable record fails the whole
// listing with ErrList; there are no partial results.
func (r *Registry) ListAll(ctx context.Context) ([]string, []*Recipe, error) {
	ctx, done := r.begin(ctx, OpList, "")
	ids, recs, err := r.listAll(ctx)
	return ids, recs, done(err)
}

func (r *Registry) listAll(ctx context.Context) ([]string, []*Recipe, error) {
	counts, err := DatasetPromptCounts(ctx, r.catalog)
	if err != nil {
		return nil, nil, r.opErr(OpList, "", ErrList, err)
	}
	keys, err := r.store.GetObjects(ctx, r.namespace, r.format)
	if err != nil {
		return nil, nil, r.opErr(OpList, "", ErrList, err)
	}
	ids := make([]string, 0, len(keys))
	recs := make([]*Recipe, 0, len(keys))
	for _, key := range keys {
		if IsReservedKey(key) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, r.opErr(OpList, "", ErrList, err)
		}
		id := KeyStem(key)
		rec, err := r.readRecipe(ctx, id, counts)
		if err != nil {
			return nil, nil, r.opErr(OpList, id, ErrList, err)
		}
		ids = append(ids, rec.ID)
		recs = append(recs, rec)
	}
	return ids, recs, nil
}

func (r *Registry) opErr(op, id string, kind, err error) error {
	return &OperationError{Op: op, ID: id, Kind: kind, Err: err}
}

// begin opens a span and returns a finisher that records the outcome, logs a
// diagnostic on failure and returns err unchanged.
func (r *Registry) begin(ctx context.Context, op, subject string) (context.Context, func(error) error) {
	ctx, span := r.tracer.Start(ctx, "recipebook."+op,
		trace.WithAttributes(
			attribute.String("recipebook.namespace", r.namespace),
			attribute.String("recipebook.subject", subject),
		))
	start := time.Now()
	return ctx, func(err error) error {
		elapsed := time.Since(start)
		r.recorder.ObserveOperation(op, elapsed, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.logFailure(ctx, op, subject, err)
		} else {
			r.logger.DebugContext(ctx, "recipe operation completed",
				"op", op, "subject", subject, "duration", elapsed)
		}
		span.End()
		return err
	}
}

func (r *Registry) logFailure(ctx context.Context, op, subject string, err error) {
	r.logger.ErrorContext(ctx, "recipe operation failed",
		"op", op, "namespace", r.namespace, "subject", subject, "err", err)
}
