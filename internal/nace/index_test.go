package nace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, level int, code, en string) Record {
	t.Helper()
	rec, err := NewRecord(level, code, Titles{EN: en})
	require.NoError(t, err)
	return rec
}

func TestBuildIndex_Sample(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	idx := BuildIndex(res.Records)
	assert.Equal(t, 5, idx.Len())

	rec, ok := idx.ByIDWithoutDots("0111")
	require.True(t, ok)
	assert.Equal(t, "01.11", rec.Code)
	assert.Equal(t, 4, rec.Level)

	assert.Equal(t, []string{"01.111", "01.112"}, idx.Children("01.11"))
	assert.Equal(t, []string{"01.11"}, idx.Children("01.1"))
	assert.Equal(t, []string{"01.1"}, idx.Children("01"))
	assert.Empty(t, idx.Children("01.111"))
	assert.NotNil(t, idx.Children("does-not-exist"))
}

func TestBuildIndex_DanglingParent(t *testing.T) {
	records := []Record{
		mustRecord(t, 2, "01", "top"),
		mustRecord(t, 4, "01.11", "orphan, 01.1 is missing"),
		mustRecord(t, 5, "01.111", "grandchild"),
	}
	idx := BuildIndex(records)

	assert.Empty(t, idx.Children("01"))
	assert.Empty(t, idx.Children("01.1"))
	assert.Equal(t, []string{"01.111"}, idx.Children("01.11"))
}

func TestBuildIndex_DuplicatesLastWriteWins(t *testing.T) {
	records := []Record{
		mustRecord(t, 2, "01", "first"),
		mustRecord(t, 2, "01", "second"),
	}
	idx := BuildIndex(records)

	rec, ok := idx.ByCode("01")
	require.True(t, ok)
	assert.Equal(t, "second", rec.Titles.EN)

	rec, ok = idx.ByIDWithoutDots("01")
	require.True(t, ok)
	assert.Equal(t, "second", rec.Titles.EN)
}

func TestBuildIndex_ChildrenIsACopy(t *testing.T) {
	records := []Record{
		mustRecord(t, 2, "01", "top"),
		mustRecord(t, 3, "01.1", "child"),
	}
	idx := BuildIndex(records)

	children := idx.Children("01")
	children[0] = "mutated"
	assert.Equal(t, []string{"01.1"}, idx.Children("01"))
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Equal(t, 0, idx.Len())
	_, ok := idx.ByIDWithoutDots("0111")
	assert.False(t, ok)
}
