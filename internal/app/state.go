// Package app holds the application state and the single update function
// through which every user interaction mutates it.
//
// Views never change state directly: a transport turns a click into a
// Command, State.Update applies it, and State.Render produces a fresh view
// model from the result.
package app

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/salary-map/internal/compare"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/table"
)

// State is the whole mutable UI model. It is not safe for concurrent use;
// see Store.
type State struct {
	dataset    *domain.Dataset
	comparison *compare.Set
	table      *table.View
	selected   *domain.University
	place      string
	panelOpen  bool
}

// NewState creates the initial state: empty comparison, default sort,
// nothing selected.
func NewState(ds *domain.Dataset) *State {
	return &State{
		dataset:    ds,
		comparison: compare.NewSet(),
		table:      table.New(ds),
	}
}

// Dataset returns the dataset the state was built from.
func (s *State) Dataset() *domain.Dataset { return s.dataset }

// Selected returns the selected university, if any.
func (s *State) Selected() (domain.University, bool) {
	if s.selected == nil {
		return domain.University{}, false
	}
	return *s.selected, true
}

// SetSelectedPlace attaches a location line to the current selection. It is
// ignored when name is no longer the selected university.
func (s *State) SetSelectedPlace(name, place string) {
	if s.selected != nil && s.selected.Name == name {
		s.place = place
	}
}

// InComparison reports comparison membership by name.
func (s *State) InComparison(name string) bool {
	return s.comparison.Contains(name)
}

// ComparisonSize returns the number of compared universities.
func (s *State) ComparisonSize() int { return s.comparison.Len() }

// Update applies cmd and returns the resulting events. Unknown names,
// out-of-range indexes and unknown columns are silent no-ops.
func (s *State) Update(cmd Command) ([]Event, error) {
	switch cmd.Kind {
	case CmdSelect:
		return s.selectUniversity(cmd.Name), nil
	case CmdDismiss:
		return s.dismiss(), nil
	case CmdAddSelected:
		if s.selected == nil {
			return nil, nil
		}
		return s.add(*s.selected), nil
	case CmdAdd:
		u, ok := s.dataset.Lookup(cmd.Name)
		if !ok {
			return nil, nil
		}
		return s.add(u), nil
	case CmdRemove:
		removed, ok := s.comparison.RemoveAt(cmd.Index)
		if !ok {
			return nil, nil
		}
		return []Event{newEvent(EventComparisonRemoved, removed.Name, "")}, nil
	case CmdToggle:
		member, changed := s.comparison.Toggle(s.dataset, cmd.Name)
		if !changed {
			return nil, nil
		}
		if member {
			return []Event{newEvent(EventComparisonAdded, cmd.Name, "")}, nil
		}
		return []Event{newEvent(EventComparisonRemoved, cmd.Name, "")}, nil
	case CmdClear:
		if n := s.comparison.Clear(); n > 0 {
			return []Event{newEvent(EventComparisonCleared, "", strconv.Itoa(n))}, nil
		}
		return nil, nil
	case CmdSort:
		if !s.table.SortBy(table.Column(cmd.Column)) {
			return nil, nil
		}
		st := s.table.Sort()
		return []Event{newEvent(EventTableSorted, "", string(st.Column)+":"+string(st.Direction))}, nil
	case CmdTogglePanel:
		s.panelOpen = !s.panelOpen
		return []Event{newEvent(EventPanelToggled, "", strconv.FormatBool(s.panelOpen))}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}

// selectUniversity replaces any previous selection.
func (s *State) selectUniversity(name string) []Event {
	u, ok := s.dataset.Lookup(name)
	if !ok {
		return nil
	}
	s.selected = &u
	s.place = ""
	return []Event{newEvent(EventSelectionChanged, u.Name, "")}
}

func (s *State) dismiss() []Event {
	if s.selected == nil {
		return nil
	}
	name := s.selected.Name
	s.selected = nil
	s.place = ""
	return []Event{newEvent(EventSelectionCleared, name, "")}
}

func (s *State) add(u domain.University) []Event {
	if !s.comparison.Add(u) {
		return nil
	}
	return []Event{newEvent(EventComparisonAdded, u.Name, "")}
}

func newEvent(kind EventKind, university, detail string) Event {
	return Event{Kind: kind, University: university, Detail: detail, OccurredAt: domain.Now()}
}

// TableRow renders one table row with its current membership, without
// re-deriving the table.
func (s *State) TableRow(name string) (table.Row, bool) {
	return s.table.Row(name, s.InComparison)
}

// Render builds the full view model from the current state.
func (s *State) Render() ViewModel {
	vm := ViewModel{
		Sort:  s.table.Sort(),
		Table: s.table.Rows(s.InComparison),
		Comparison: ComparisonPanel{
			Open:        s.panelOpen,
			ButtonLabel: fmt.Sprintf("Show Comparison (%d)", s.comparison.Len()),
			Entries:     renderEntries(s.comparison.Entries()),
		},
	}
	if stats, ok := s.comparison.Statistics(); ok {
		vm.Comparison.Stats = renderStats(stats)
	}
	if s.selected != nil {
		d := mapview.NewDetail(*s.selected, s.place)
		vm.Detail = &d
	}
	return vm
}
