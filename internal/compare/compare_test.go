package compare_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/salary-map/internal/compare"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := domain.NewDataset([]domain.University{
		{Name: "Purdue University", Salary: 95000, Graduates: 850},
		{Name: "Stanford University", Salary: 145000, Graduates: 310},
		{Name: "University of Waterloo", Salary: 98000, Graduates: 1500, IsCanadian: true},
		{Name: "Alpha", Salary: 100000, EngSalary: intPtr(90000)},
		{Name: "Beta", Salary: 140000, EngSalary: intPtr(126000)},
	})
	require.NoError(t, err)
	return ds
}

func mustLookup(t *testing.T, ds *domain.Dataset, name string) domain.University {
	t.Helper()
	u, ok := ds.Lookup(name)
	require.True(t, ok, name)
	return u
}

func TestSet_AddSnapshotsRecord(t *testing.T) {
	freezeClock(t)
	ds := testDataset(t)
	s := compare.NewSet()

	require.True(t, s.Add(mustLookup(t, ds, "University of Waterloo")))

	want := []compare.Entry{{
		Name:       "University of Waterloo",
		CSSalary:   98000,
		EngSalary:  90160,
		Graduates:  1500,
		IsCanadian: true,
		AddedAt:    frozen,
	}}
	if diff := cmp.Diff(want, s.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	u := mustLookup(t, ds, "Purdue University")

	assert.True(t, s.Add(u))
	assert.False(t, s.Add(u))
	assert.Equal(t, 1, s.Len())
}

func TestSet_SnapshotIsFrozen(t *testing.T) {
	s := compare.NewSet()
	u := domain.University{Name: "Purdue University", Salary: 95000}
	s.Add(u)

	u.Salary = 1
	assert.Equal(t, 95000, s.Entries()[0].CSSalary)

	entries := s.Entries()
	entries[0].CSSalary = 2
	assert.Equal(t, 95000, s.Entries()[0].CSSalary)
}

func TestSet_RemoveAt(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	s.Add(mustLookup(t, ds, "Purdue University"))
	s.Add(mustLookup(t, ds, "Stanford University"))
	s.Add(mustLookup(t, ds, "Alpha"))

	removed, ok := s.RemoveAt(1)
	require.True(t, ok)
	assert.Equal(t, "Stanford University", removed.Name)
	assert.Equal(t, []string{"Purdue University", "Alpha"}, names(s))

	for _, i := range []int{-1, 2, 99} {
		_, ok := s.RemoveAt(i)
		assert.False(t, ok, "index %d", i)
	}
	assert.Equal(t, 2, s.Len())
}

func TestSet_ToggleIsInvolution(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	s.Add(mustLookup(t, ds, "Purdue University"))
	before := s.Entries()

	member, changed := s.Toggle(ds, "Stanford University")
	assert.True(t, member)
	assert.True(t, changed)

	member, changed = s.Toggle(ds, "Stanford University")
	assert.False(t, member)
	assert.True(t, changed)

	assert.Equal(t, before, s.Entries())
}

func TestSet_ToggleRemovesExisting(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	s.Add(mustLookup(t, ds, "Purdue University"))

	member, changed := s.Toggle(ds, "Purdue University")
	assert.False(t, member)
	assert.True(t, changed)
	assert.Zero(t, s.Len())
}

func TestSet_ToggleUnknownName(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()

	member, changed := s.Toggle(ds, "Hogwarts")
	assert.False(t, member)
	assert.False(t, changed)
	assert.Zero(t, s.Len())
}

func TestSet_Clear(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	s.Add(mustLookup(t, ds, "Purdue University"))
	s.Add(mustLookup(t, ds, "Alpha"))

	assert.Equal(t, 2, s.Clear())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Clear())
}

func TestSet_Statistics(t *testing.T) {
	ds := testDataset(t)
	s := compare.NewSet()
	s.Add(mustLookup(t, ds, "Alpha"))
	s.Add(mustLookup(t, ds, "Beta"))

	stats, ok := s.Statistics()
	require.True(t, ok)

	assert.Equal(t, compare.Statistics{
		AvgCS:  120000,
		AvgEng: 108000,
		MinCS:  100000,
		MaxCS:  140000,
		MinEng: 90000,
		MaxEng: 126000,
	}, stats)
}

func TestSet_StatisticsIndependentExtremes(t *testing.T) {
	s := compare.NewSet()
	s.Add(domain.University{Name: "High CS", Salary: 150000, EngSalary: intPtr(90000)})
	s.Add(domain.University{Name: "High Eng", Salary: 120000, EngSalary: intPtr(118000)})

	stats, ok := s.Statistics()
	require.True(t, ok)
	assert.Equal(t, 150000, stats.MaxCS)
	assert.Equal(t, 118000, stats.MaxEng)
	assert.Equal(t, 120000, stats.MinCS)
	assert.Equal(t, 90000, stats.MinEng)
}

func TestSet_StatisticsEmpty(t *testing.T) {
	_, ok := compare.NewSet().Statistics()
	assert.False(t, ok)
}

func names(s *compare.Set) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Name)
	}
	return out
}
