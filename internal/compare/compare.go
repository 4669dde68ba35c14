// Package compare holds the user-curated comparison set: frozen salary
// snapshots of selected universities plus summary statistics over them.
package compare

import (
	"time"

	"github.com/couchcryptid/salary-map/internal/domain"
)

// Entry is a snapshot of a university taken when it was added. Later
// changes to the source record are not reflected.
type Entry struct {
	Name       string    `json:"name"`
	CSSalary   int       `json:"cs_salary"`
	EngSalary  int       `json:"eng_salary"`
	Graduates  int       `json:"graduates"`
	IsCanadian bool      `json:"is_canadian,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// Statistics summarizes the set. Averages are unweighted means; minimum and
// maximum are taken independently per salary type.
type Statistics struct {
	AvgCS  float64 `json:"avg_cs"`
	AvgEng float64 `json:"avg_eng"`
	MinCS  int     `json:"min_cs"`
	MaxCS  int     `json:"max_cs"`
	MinEng int     `json:"min_eng"`
	MaxEng int     `json:"max_eng"`
}

// Set is an ordered collection of entries, unique by name.
type Set struct {
	entries []Entry
}

// NewSet returns an empty comparison set.
func NewSet() *Set {
	return &Set{}
}

// snapshot freezes a record into an Entry using the shared estimator.
func snapshot(u domain.University) Entry {
	return Entry{
		Name:       u.Name,
		CSSalary:   u.Salary,
		EngSalary:  domain.EstimateEngineeringSalary(u),
		Graduates:  u.Graduates,
		IsCanadian: u.IsCanadian,
		AddedAt:    domain.Now(),
	}
}

// Add appends a snapshot of u unless an entry with the same name exists.
// It reports whether the set changed.
func (s *Set) Add(u domain.University) bool {
	if s.IndexOf(u.Name) >= 0 {
		return false
	}
	s.entries = append(s.entries, snapshot(u))
	return true
}

// RemoveAt deletes the entry at index i. Out-of-range indexes are ignored.
// It returns the removed entry and whether anything was removed.
func (s *Set) RemoveAt(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return removed, true
}

// Toggle adds the named university when absent and removes it when present.
// Names not in the dataset are ignored. It returns whether the university
// is in the set afterwards and whether anything changed.
func (s *Set) Toggle(ds *domain.Dataset, name string) (member, changed bool) {
	u, ok := ds.Lookup(name)
	if !ok {
		return s.Contains(name), false
	}
	if i := s.IndexOf(name); i >= 0 {
		s.RemoveAt(i)
		return false, true
	}
	s.entries = append(s.entries, snapshot(u))
	return true, true
}

// Clear empties the set and returns how many entries were dropped.
func (s *Set) Clear() int {
	n := len(s.entries)
	s.entries = nil
	return n
}

// IndexOf returns the position of the named entry, or -1.
func (s *Set) IndexOf(name string) int {
	for i := range s.entries {
		if s.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Contains reports whether the named university is in the set.
func (s *Set) Contains(name string) bool {
	return s.IndexOf(name) >= 0
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in insertion order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Statistics computes summary figures. ok is false for an empty set.
func (s *Set) Statistics() (stats Statistics, ok bool) {
	if len(s.entries) == 0 {
		return Statistics{}, false
	}

	first := s.entries[0]
	stats = Statistics{
		MinCS: first.CSSalary, MaxCS: first.CSSalary,
		MinEng: first.EngSalary, MaxEng: first.EngSalary,
	}

	var sumCS, sumEng float64
	for _, e := range s.entries {
		sumCS += float64(e.CSSalary)
		sumEng += float64(e.EngSalary)
		stats.MinCS = min(stats.MinCS, e.CSSalary)
		stats.MaxCS = max(stats.MaxCS, e.CSSalary)
		stats.MinEng = min(stats.MinEng, e.EngSalary)
		stats.MaxEng = max(stats.MaxEng, e.EngSalary)
	}

	n := float64(len(s.entries))
	stats.AvgCS = sumCS / n
	stats.AvgEng = sumEng / n
	return stats, true
}
