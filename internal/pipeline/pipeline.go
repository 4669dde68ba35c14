// Package pipeline forwards interaction events from the in-process queue to
// the external event sink in batches, retrying failed writes with backoff.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor hands out queued events.
type BatchExtractor interface {
	// ExtractBatch blocks until at least one event is available, then returns
	// up to batchSize events.
	ExtractBatch(ctx context.Context, batchSize int) ([]app.Event, error)
	// DrainBatch returns up to batchSize queued events without blocking.
	DrainBatch(batchSize int) []app.Event
}

// BatchLoader writes multiple events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []app.Event) error
}

// Pipeline orchestrates the extract-load loop. Run and Flush must not be
// called concurrently.
type Pipeline struct {
	extractor BatchExtractor
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int

	// pending holds a batch whose load failed; it is retried before any new
	// events are extracted so ordering is preserved.
	pending []app.Event
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Run executes the batch forwarding loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("event forwarder started", "batch_size", p.batchSize)
	p.metrics.ForwarderRunning.Set(1)
	defer p.metrics.ForwarderRunning.Set(0)

	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("event forwarder stopping", "reason", ctx.Err(), "pending", len(p.pending))
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// Flush loads any retained batch and everything still queued, stopping at
// the first failure. It is meant for shutdown, after Run has returned.
func (p *Pipeline) Flush(ctx context.Context) error {
	flushed := 0
	for {
		if len(p.pending) == 0 {
			p.pending = p.extractor.DrainBatch(p.batchSize)
			if len(p.pending) == 0 {
				if flushed > 0 {
					p.logger.Info("flushed queued events", "count", flushed)
				}
				return nil
			}
		}
		if err := p.load(ctx, p.pending); err != nil {
			return fmt.Errorf("flush %d events: %w", len(p.pending), err)
		}
		flushed += len(p.pending)
		p.pending = nil
	}
}

// processBatch runs one extract-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	if len(p.pending) == 0 {
		batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			p.logger.Error("extract batch failed", "error", err)
			return p.backoffOrStop(ctx, backoff)
		}
		if len(batch) == 0 {
			return ctx.Err() == nil
		}
		p.pending = batch
	}

	if err := p.load(ctx, p.pending); err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(p.pending))
		return p.backoffOrStop(ctx, backoff)
	}

	p.pending = nil
	*backoff = initialBackoff
	return true
}

func (p *Pipeline) load(ctx context.Context, batch []app.Event) error {
	p.metrics.EventBatchSize.Observe(float64(len(batch)))
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.metrics.EventPublishErrors.Inc()
		return err
	}
	p.metrics.EventsPublished.Add(float64(len(batch)))
	return nil
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}
