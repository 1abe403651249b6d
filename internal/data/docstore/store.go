// Package docstore is the document database collaborator used by the review and
// watchlist repositories. Backends store schema-flexible documents in named
// collections, answer equality filters with an optional single-field ordering and
// report a missing or still-building composite index as ErrIndexNotReady.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrIndexNotReady is returned by Find when an ordered query has no usable
	// composite index yet.
	ErrIndexNotReady = errors.New("docstore: index not ready")

	// ErrNotFound is returned by Update when no document has the given id.
	ErrNotFound = errors.New("docstore: document not found")
)

type serverTimestamp struct{}

// ServerTimestamp used as a field value is replaced by the store's own clock
// when the document is written.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Fields holds the top-level fields of a document.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Document is a stored record with its store-assigned id.
type Document struct {
	ID     string
	Fields Fields
}

type Operator int

const (
	OpEqual Operator = iota
	// OpMissing matches a field that is absent, null or an empty string.
	OpMissing
)

type Filter struct {
	Field string
	Op    Operator
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

func Missing(field string) Filter {
	return Filter{Field: field, Op: OpMissing}
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Order struct {
	Field     string
	Direction Direction
}

type Query struct {
	Filters []Filter
	OrderBy *Order
}

// Index returns the composite index an ordered query needs. ok is false for
// queries without an ordering.
func (q Query) Index(collection string) (IndexSpec, bool) {
	if q.OrderBy == nil {
		return IndexSpec{}, false
	}

	spec := IndexSpec{Collection: collection, Order: *q.OrderBy}
	for _, f := range q.Filters {
		if f.Op == OpEqual {
			spec.Equals = append(spec.Equals, f.Field)
		}
	}
	return spec, true
}

// IndexSpec describes a composite index: equality fields followed by one
// ordered field.
type IndexSpec struct {
	Collection string
	Equals     []string
	Order      Order
}

// Name follows the MongoDB naming scheme prefixed with the collection, e.g.
// reviews_movieId_1_createdAt_-1.
func (s IndexSpec) Name() string {
	parts := []string{s.Collection}
	for _, f := range s.Equals {
		parts = append(parts, f, "1")
	}
	dir := "1"
	if s.Order.Direction == Desc {
		dir = "-1"
	}
	parts = append(parts, s.Order.Field, dir)
	return strings.Join(parts, "_")
}

// Store is implemented by the Mongo, Postgres and in-memory backends.
type Store interface {
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error

	// EnsureIndexes starts building the given indexes. Builds may still be
	// running when it returns.
	EnsureIndexes(ctx context.Context, specs []IndexSpec) error
	Close(ctx context.Context) error
}

func validateCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("docstore: empty collection name")
	}
	return nil
}

func spanAttrs(collection string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("db.collection", collection))
}

// endSpan records err on span and ends it. ErrIndexNotReady only selects the
// fallback tier and is recorded as an event.
func endSpan(span trace.Span, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrIndexNotReady):
		span.AddEvent("index not ready")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
