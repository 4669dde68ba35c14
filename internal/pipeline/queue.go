package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/observability"
)

// ErrQueueFull is returned by Publish when events had to be dropped.
var ErrQueueFull = errors.New("event queue full")

// DefaultQueueCapacity bounds the events buffered between the store and the
// forwarding loop.
const DefaultQueueCapacity = 1024

// Queue is a bounded in-memory buffer between app.Store and Pipeline. It
// implements app.EventPublisher and BatchExtractor.
type Queue struct {
	events  chan app.Event
	metrics *observability.Metrics
}

// NewQueue creates a queue holding at most capacity events.
func NewQueue(capacity int, metrics *observability.Metrics) *Queue {
	return &Queue{
		events:  make(chan app.Event, capacity),
		metrics: metrics,
	}
}

// Publish enqueues events without blocking. Events that do not fit are
// dropped and counted.
func (q *Queue) Publish(_ context.Context, events []app.Event) error {
	dropped := 0
	for _, e := range events {
		select {
		case q.events <- e:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		q.metrics.EventsDropped.Add(float64(dropped))
		return fmt.Errorf("%w: dropped %d of %d events", ErrQueueFull, dropped, len(events))
	}
	return nil
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.events) }

// ExtractBatch waits for the first event, then takes whatever else is
// already queued up to batchSize.
func (q *Queue) ExtractBatch(ctx context.Context, batchSize int) ([]app.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case e := <-q.events:
		batch := make([]app.Event, 0, batchSize)
		batch = append(batch, e)
		return q.fill(batch, batchSize), nil
	}
}

// DrainBatch takes up to batchSize queued events without waiting.
func (q *Queue) DrainBatch(batchSize int) []app.Event {
	return q.fill(nil, batchSize)
}

func (q *Queue) fill(batch []app.Event, batchSize int) []app.Event {
	for len(batch) < batchSize {
		select {
		case e := <-q.events:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}
