package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/observability"
	"github.com/couchcryptid/salary-map/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLoader struct {
	mu       sync.Mutex
	failures int
	batches  [][]app.Event
	attempts int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []app.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.batches = append(m.batches, append([]app.Event(nil), events...))
	return nil
}

func (m *mockLoader) loaded() []app.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []app.Event
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeEvents(names ...string) []app.Event {
	at := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	events := make([]app.Event, len(names))
	for i, n := range names {
		events[i] = app.Event{Kind: app.EventComparisonAdded, University: n, OccurredAt: at}
	}
	return events
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(16, metrics)
	ldr := &mockLoader{}
	events := makeEvents("Purdue University", "Stanford University", "Cornell University")
	require.NoError(t, queue.Publish(context.Background(), events))

	p := pipeline.New(queue, ldr, discardLogger(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))

	if diff := cmp.Diff(events, ldr.loaded()); diff != "" {
		t.Fatalf("loaded events mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, ldr.batches, 1, "queued events are loaded as one batch")
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.EventsPublished))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ForwarderRunning))
}

func TestPipeline_Run_RespectsBatchSize(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(16, metrics)
	ldr := &mockLoader{}
	require.NoError(t, queue.Publish(context.Background(), makeEvents("a", "b", "c", "d", "e")))

	p := pipeline.New(queue, ldr, discardLogger(), metrics, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))

	require.Len(t, ldr.batches, 3)
	assert.Len(t, ldr.batches[0], 2)
	assert.Len(t, ldr.batches[2], 1)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{}

	p := pipeline.New(pipeline.NewQueue(4, metrics), ldr, discardLogger(), metrics, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Zero(t, ldr.attempts)
}

func TestPipeline_Run_RetriesFailedBatch(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(16, metrics)
	ldr := &mockLoader{failures: 1}
	events := makeEvents("Purdue University")
	require.NoError(t, queue.Publish(context.Background(), events))

	p := pipeline.New(queue, ldr, discardLogger(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx))

	assert.Equal(t, 2, ldr.attempts)
	assert.Equal(t, events, ldr.loaded())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventPublishErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished))
}

func TestPipeline_Flush(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(16, metrics)
	ldr := &mockLoader{}
	events := makeEvents("a", "b", "c")
	require.NoError(t, queue.Publish(context.Background(), events))

	p := pipeline.New(queue, ldr, discardLogger(), metrics, 2)

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, events, ldr.loaded())
	assert.Zero(t, queue.Len())
}

func TestPipeline_FlushKeepsRetainedBatch(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(16, metrics)
	ldr := &mockLoader{failures: 1}
	require.NoError(t, queue.Publish(context.Background(), makeEvents("a")))

	p := pipeline.New(queue, ldr, discardLogger(), metrics, 10)

	err := p.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush 1 events")

	// The failed batch is retried on the next flush.
	require.NoError(t, p.Flush(context.Background()))
	assert.Len(t, ldr.loaded(), 1)
}

func TestQueue_PublishDropsWhenFull(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	queue := pipeline.NewQueue(2, metrics)

	err := queue.Publish(context.Background(), makeEvents("a", "b", "c"))

	require.ErrorIs(t, err, pipeline.ErrQueueFull)
	assert.Equal(t, 2, queue.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsDropped))
}

func TestQueue_ExtractBatchWaitsForEvents(t *testing.T) {
	queue := pipeline.NewQueue(4, observability.NewMetricsForTesting())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	batch, err := queue.ExtractBatch(ctx, 10)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, batch)
	assert.Empty(t, queue.DrainBatch(10))
}
