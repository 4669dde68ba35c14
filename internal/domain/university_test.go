package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset([]University{
		{Name: "Purdue University", Salary: 95000, Lat: 40.42, Lng: -86.92},
		{Name: "Stanford University", Salary: 145000},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())

	u, ok := ds.Lookup("Stanford University")
	require.True(t, ok)
	assert.Equal(t, 145000, u.Salary)

	_, ok = ds.Lookup("stanford university")
	assert.False(t, ok, "lookup is exact")
}

func TestNewDataset_DuplicateName(t *testing.T) {
	_, err := NewDataset([]University{
		{Name: "Purdue University", Salary: 95000},
		{Name: "Purdue University", Salary: 96000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestNewDataset_Validation(t *testing.T) {
	_, err := NewDataset([]University{{Name: " ", Salary: 95000}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, err = NewDataset([]University{{Name: "Nowhere", Salary: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salary must be positive")
}

func TestDataset_AllIsACopy(t *testing.T) {
	src := []University{{Name: "Purdue University", Salary: 95000}}
	ds, err := NewDataset(src)
	require.NoError(t, err)

	src[0].Salary = 1
	all := ds.All()
	all[0].Salary = 2

	u, _ := ds.Lookup("Purdue University")
	assert.Equal(t, 95000, u.Salary)
}
