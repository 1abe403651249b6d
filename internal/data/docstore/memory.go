package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const memoryTracerID = "docstore-memory"

// Operation names accepted by Memory.FailOn.
const (
	OpFind   = "find"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type memoryCollection struct {
	docs  map[string]Fields
	order []string
}

// Memory is an in-process Store. Indexes declared through EnsureIndexes are
// ready immediately unless the store was built with WithPendingIndexes.
type Memory struct {
	sync.RWMutex
	collections map[string]*memoryCollection
	indexes     map[string]bool
	pending     bool
	now         func() time.Time
	failures    map[string]error
}

type MemoryOption func(*Memory)

// WithClock replaces the store clock used for ServerTimestamp fields.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithPendingIndexes keeps declared indexes in the building state until
// FinishIndexBuilds is called.
func WithPendingIndexes() MemoryOption {
	return func(m *Memory) { m.pending = true }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		collections: map[string]*memoryCollection{},
		indexes:     map[string]bool{},
		now:         time.Now,
		failures:    map[string]error{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailOn makes every op on collection return err until ClearFailures.
func (m *Memory) FailOn(op, collection string, err error) {
	m.Lock()
	defer m.Unlock()
	m.failures[op+"/"+collection] = err
}

func (m *Memory) ClearFailures() {
	m.Lock()
	defer m.Unlock()
	m.failures = map[string]error{}
}

// FinishIndexBuilds marks every declared index as ready.
func (m *Memory) FinishIndexBuilds() {
	m.Lock()
	defer m.Unlock()
	for name := range m.indexes {
		m.indexes[name] = true
	}
	m.pending = false
}

// Len returns the number of documents in collection.
func (m *Memory) Len(collection string) int {
	m.RLock()
	defer m.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return 0
	}
	return len(c.docs)
}

func (m *Memory) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	m.Lock()
	defer m.Unlock()

	for _, spec := range specs {
		if _, ok := m.indexes[spec.Name()]; !ok {
			m.indexes[spec.Name()] = !m.pending
		}
	}
	return nil
}

func (m *Memory) Find(ctx context.Context, collection string, q Query) (_ []Document, err error) {
	_, span := otel.Tracer(memoryTracerID).Start(ctx, "Memory/Find", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	m.RLock()
	defer m.RUnlock()

	if err := m.failures[OpFind+"/"+collection]; err != nil {
		return nil, err
	}
	if spec, ok := q.Index(collection); ok && !m.indexes[spec.Name()] {
		return nil, fmt.Errorf("query on %s needs index %s: %w", collection, spec.Name(), ErrIndexNotReady)
	}

	docs := []Document{}
	c, ok := m.collections[collection]
	if !ok {
		return docs, nil
	}
	for _, id := range c.order {
		fields := c.docs[id]
		if matches(fields, q.Filters) {
			docs = append(docs, Document{ID: id, Fields: fields.Clone()})
		}
	}

	if q.OrderBy != nil {
		sortByOrder(docs, *q.OrderBy)
	}
	return docs, nil
}

func (m *Memory) Create(ctx context.Context, collection string, fields Fields) (_ string, err error) {
	_, span := otel.Tracer(memoryTracerID).Start(ctx, "Memory/Create", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return "", err
	}

	m.Lock()
	defer m.Unlock()

	if err := m.failures[OpCreate+"/"+collection]; err != nil {
		return "", err
	}

	c, ok := m.collections[collection]
	if !ok {
		c = &memoryCollection{docs: map[string]Fields{}}
		m.collections[collection] = c
	}

	id := uuid.NewString()
	c.docs[id] = m.resolve(fields)
	c.order = append(c.order, id)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Fields) (err error) {
	_, span := otel.Tracer(memoryTracerID).Start(ctx, "Memory/Update", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	if err := m.failures[OpUpdate+"/"+collection]; err != nil {
		return err
	}

	c, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	current, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}

	updated := current.Clone()
	for k, v := range m.resolve(fields) {
		updated[k] = v
	}
	c.docs[id] = updated
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) (err error) {
	_, span := otel.Tracer(memoryTracerID).Start(ctx, "Memory/Delete", spanAttrs(collection))
	defer func() { endSpan(span, err) }()

	if err := validateCollection(collection); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	if err := m.failures[OpDelete+"/"+collection]; err != nil {
		return err
	}

	c, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}

// resolve copies fields, replacing ServerTimestamp with the store clock.
func (m *Memory) resolve(fields Fields) Fields {
	out := make(Fields, len(fields))
	now := m.now().UTC()
	for k, v := range fields {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

func matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		v, present := fields[f.Field]
		switch f.Op {
		case OpEqual:
			if !present || !valuesEqual(v, f.Value) {
				return false
			}
		case OpMissing:
			if present && !isEmpty(v) {
				return false
			}
		}
	}
	return true
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *string:
		return x == nil || *x == ""
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if fa, ok := numeric(a); ok {
		fb, ok := numeric(b)
		return ok && fa == fb
	}
	return a == b
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// sortByOrder mirrors an index scan: documents missing the field come last.
func sortByOrder(docs []Document, order Order) {
	sort.SliceStable(docs, func(i, j int) bool {
		vi, iok := docs[i].Fields[order.Field]
		vj, jok := docs[j].Fields[order.Field]
		if !iok || vi == nil {
			return false
		}
		if !jok || vj == nil {
			return true
		}
		c := compare(vi, vj)
		if order.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) int {
	if ta, ok := TimeValue(a); ok {
		if tb, ok := TimeValue(b); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
