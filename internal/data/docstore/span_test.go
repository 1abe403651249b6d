package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestMemorySpansRecordFailures(t *testing.T) {
	recorder := recordSpans(t)
	store := NewMemory()
	ctx := context.Background()

	boom := errors.New("disk on fire")
	store.FailOn(OpCreate, "reviews", boom)
	_, err := store.Create(ctx, "reviews", Fields{"movieId": 1})
	require.ErrorIs(t, err, boom)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Memory/Create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "disk on fire", spans[0].Status().Description)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestMemorySpansTreatIndexNotReadyAsEvent(t *testing.T) {
	recorder := recordSpans(t)
	store := NewMemory(WithPendingIndexes())
	ctx := context.Background()
	require.NoError(t, store.EnsureIndexes(ctx, []IndexSpec{reviewsByMovie}))

	_, err := store.Find(ctx, "reviews", Query{
		Filters: []Filter{Eq("movieId", 1)},
		OrderBy: &reviewsByMovie.Order,
	})
	require.ErrorIs(t, err, ErrIndexNotReady)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "index not ready", spans[0].Events()[0].Name)
}

func TestMemorySpansCarryCollection(t *testing.T) {
	recorder := recordSpans(t)
	store := NewMemory()

	require.NoError(t, store.Delete(context.Background(), "watchlist", "missing"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("db.collection", "watchlist"))
}
