package docstore

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Tier identifies which query path served an ordered read.
type Tier string

const (
	TierIndexed  Tier = "indexed"
	TierFallback Tier = "fallback"
)

// FindNewestFirst runs q ordered descending on orderField. When the store has no
// usable index for it, the same filters are queried without ordering and the
// result is sorted locally. Any other failure is returned as is.
func FindNewestFirst(ctx context.Context, store Store, collection string, filters []Filter, orderField string) ([]Document, Tier, error) {
	q := Query{Filters: filters, OrderBy: &Order{Field: orderField, Direction: Desc}}

	docs, err := store.Find(ctx, collection, q)
	if err == nil {
		return docs, TierIndexed, nil
	}
	if !errors.Is(err, ErrIndexNotReady) {
		return nil, TierIndexed, err
	}

	docs, err = store.Find(ctx, collection, Query{Filters: filters})
	if err != nil {
		return nil, TierFallback, err
	}
	SortNewestFirst(docs, orderField)
	return docs, TierFallback, nil
}

// SortNewestFirst sorts docs descending on the time field. Documents without the
// field go after all documents that have it; ties keep their fetch order.
func SortNewestFirst(docs []Document, field string) {
	sort.SliceStable(docs, func(i, j int) bool {
		ti, iok := TimeValue(docs[i].Fields[field])
		tj, jok := TimeValue(docs[j].Fields[field])
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok:
			return true
		default:
			return false
		}
	})
}

// TimeValue reads the time kinds the backends hand back: time.Time, *time.Time
// and RFC 3339 strings from JSON documents.
func TimeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
