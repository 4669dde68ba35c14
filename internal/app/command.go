package app

import (
	"errors"
	"time"
)

// ErrUnknownCommand is returned by Update for a Kind it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind names a user interaction.
type CommandKind string

const (
	// CmdSelect opens the detail panel for Name (marker or row click).
	CmdSelect CommandKind = "select"
	// CmdDismiss closes the detail panel (map background click).
	CmdDismiss CommandKind = "dismiss"
	// CmdAddSelected adds the currently selected university to the comparison.
	CmdAddSelected CommandKind = "add_selected"
	// CmdAdd adds Name to the comparison.
	CmdAdd CommandKind = "add"
	// CmdRemove removes the comparison entry at Index.
	CmdRemove CommandKind = "remove"
	// CmdToggle flips comparison membership of Name (table button).
	CmdToggle CommandKind = "toggle"
	// CmdClear empties the comparison.
	CmdClear CommandKind = "clear"
	// CmdSort sorts the table by Column.
	CmdSort CommandKind = "sort"
	// CmdTogglePanel shows or hides the comparison panel.
	CmdTogglePanel CommandKind = "toggle_panel"
)

// Command is a single interaction dispatched to State.Update. Only the
// fields relevant to Kind are read.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Name   string      `json:"name,omitempty"`
	Index  int         `json:"index,omitempty"`
	Column string      `json:"column,omitempty"`
}

// EventKind names a state change.
type EventKind string

const (
	EventComparisonAdded   EventKind = "comparison.added"
	EventComparisonRemoved EventKind = "comparison.removed"
	EventComparisonCleared EventKind = "comparison.cleared"
	EventSelectionChanged  EventKind = "selection.changed"
	EventSelectionCleared  EventKind = "selection.cleared"
	EventTableSorted       EventKind = "table.sorted"
	EventPanelToggled      EventKind = "panel.toggled"
)

// Event records one state change produced by Update. Commands that turn out
// to be no-ops produce no events.
type Event struct {
	Kind       EventKind `json:"kind"`
	University string    `json:"university,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
