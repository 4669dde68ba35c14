package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateName is returned when two records in a dataset share a name.
var ErrDuplicateName = errors.New("duplicate university name")

// University is a single institution as supplied by the data file.
type University struct {
	Name       string  `json:"name"`
	Salary     int     `json:"salary"`              // CS starting salary, USD
	EngSalary  *int    `json:"engSalary,omitempty"` // authoritative Engineering figure, if known
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Graduates  int     `json:"graduates"`
	IsCanadian bool    `json:"isCanadian,omitempty"`
}

// HasCoordinates reports whether the record carries a usable position.
func (u University) HasCoordinates() bool {
	return u.Lat != 0 || u.Lng != 0
}

// Dataset is the fixed, ordered set of universities. It is never mutated
// after construction.
type Dataset struct {
	records []University
	byName  map[string]int
}

// NewDataset validates records and indexes them by name. Names must be
// non-empty and unique; CS salaries must be positive.
func NewDataset(records []University) (*Dataset, error) {
	ds := &Dataset{
		records: make([]University, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	copy(ds.records, records)

	for i, u := range ds.records {
		if strings.TrimSpace(u.Name) == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
		if u.Salary <= 0 {
			return nil, fmt.Errorf("record %d (%s): salary must be positive, got %d", i, u.Name, u.Salary)
		}
		if _, ok := ds.byName[u.Name]; ok {
			return nil, fmt.Errorf("record %d: %w: %q", i, ErrDuplicateName, u.Name)
		}
		ds.byName[u.Name] = i
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// All returns a copy of the records in their original order.
func (d *Dataset) All() []University {
	out := make([]University, len(d.records))
	copy(out, d.records)
	return out
}

// Lookup finds a record by exact name.
func (d *Dataset) Lookup(name string) (University, bool) {
	i, ok := d.byName[name]
	if !ok {
		return University{}, false
	}
	return d.records[i], true
}
