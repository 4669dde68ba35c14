package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/observability"
	"github.com/couchcryptid/salary-map/internal/table"
)

// EventPublisher forwards state-change events to an external sink. Publish
// is called after the state lock is released and should not block for long.
type EventPublisher interface {
	Publish(ctx context.Context, events []Event) error
}

// Store serializes access to a State so that concurrent transports still
// see a single writer: each Dispatch runs to completion before the next.
type Store struct {
	mu        sync.Mutex
	state     *State
	publisher EventPublisher
	geocoder  domain.Geocoder
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewStore wraps state. publisher and geocoder may be nil to disable event
// publishing and place lookups respectively.
func NewStore(state *State, publisher EventPublisher, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Store {
	metrics.UniversitiesLoaded.Set(float64(state.Dataset().Len()))
	metrics.ComparisonSize.Set(0)
	return &Store{
		state:     state,
		publisher: publisher,
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports ready once a non-empty dataset is loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.state.Dataset().Len() == 0 {
		return errors.New("dataset is empty")
	}
	return nil
}

// Dispatch applies cmd and returns the re-rendered view model.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (ViewModel, error) {
	s.mu.Lock()
	events, err := s.state.Update(cmd)
	if err != nil {
		s.mu.Unlock()
		s.metrics.Commands.WithLabelValues("unknown", "rejected").Inc()
		return ViewModel{}, err
	}
	selected, hasSelection := s.state.Selected()
	s.metrics.ComparisonSize.Set(float64(s.state.ComparisonSize()))
	s.mu.Unlock()

	outcome := "noop"
	if len(events) > 0 {
		outcome = "applied"
	}
	s.metrics.Commands.WithLabelValues(string(cmd.Kind), outcome).Inc()
	s.logger.Debug("command dispatched", "kind", cmd.Kind, "name", cmd.Name, "events", len(events))

	// Place lookups may hit the network, so they run outside the lock and
	// are dropped if the selection changed meanwhile.
	if hasSelection && hasEvent(events, EventSelectionChanged) {
		if place := domain.DescribeCampus(ctx, selected, s.geocoder, s.logger); place != "" {
			s.mu.Lock()
			s.state.SetSelectedPlace(selected.Name, place)
			s.mu.Unlock()
		}
	}

	s.publish(ctx, events)
	return s.Snapshot(), nil
}

// Snapshot renders the current view model.
func (s *Store) Snapshot() ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Render()
}

// TableRow renders a single table row.
func (s *Store) TableRow(name string) (table.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TableRow(name)
}

func (s *Store) publish(ctx context.Context, events []Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events); err != nil {
		s.logger.Warn("publish events failed", "error", err, "count", len(events))
	}
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
