package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satfiles/satfiles/internal/catalog"
)

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSortsEntries(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Time: day(3), File: "c.dat"},
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "b.dat"},
	})
	require.Equal(t, 3, c.Len())
	require.Equal(t, []string{"a.dat", "b.dat", "c.dat"}, c.Files())

	first, ok := c.First()
	require.True(t, ok)
	require.Equal(t, "a.dat", first.File)
	last, ok := c.Last()
	require.True(t, ok)
	require.True(t, last.Time.Equal(day(3)))
}

func TestNewStableForEqualTimes(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Time: day(1), File: "first.dat"},
		{Time: day(1), File: "second.dat"},
	})
	require.Equal(t, []string{"first.dat", "second.dat"}, c.Files())
}

func TestAtAndSliceBounds(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "b.dat"},
		{Time: day(3), File: "c.dat"},
	})

	e, err := c.At(1)
	require.NoError(t, err)
	require.Equal(t, "b.dat", e.File)

	_, err = c.At(3)
	require.ErrorIs(t, err, catalog.ErrOutOfRange)
	_, err = c.At(-1)
	require.ErrorIs(t, err, catalog.ErrOutOfRange)

	span, err := c.Slice(0, 2)
	require.NoError(t, err)
	require.Len(t, span, 3)

	_, err = c.Slice(0, 3)
	require.ErrorIs(t, err, catalog.ErrOutOfRange)

	span, err = c.Slice(2, 1)
	require.NoError(t, err)
	require.Empty(t, span)
}

func TestTimeRangeExcludesStop(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "b.dat"},
		{Time: day(3), File: "c.dat"},
	})

	got := c.TimeRange(day(1), day(3))
	require.Len(t, got, 2)
	require.Equal(t, "a.dat", got[0].File)
	require.Equal(t, "b.dat", got[1].File)

	// A stop between entries keeps everything before it.
	got = c.TimeRange(day(1), day(2).Add(12*time.Hour))
	require.Len(t, got, 2)

	// Ranges beyond the catalog are empty, not an error.
	require.Empty(t, c.TimeRange(day(10), day(20)))
}

func TestTimeRangeReversedIsEmpty(t *testing.T) {
	c := catalog.New([]catalog.Entry{
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "b.dat"},
		{Time: day(3), File: "c.dat"},
	})

	require.Empty(t, c.TimeRange(day(3), day(1)))
	// Equal bounds select nothing: the start entry is dropped by the
	// exclusive stop.
	require.Empty(t, c.TimeRange(day(2), day(2)))
}

func TestIndexOfAndEqual(t *testing.T) {
	entries := []catalog.Entry{
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "b.dat"},
	}
	c := catalog.New(entries)

	i, ok := c.IndexOf("b.dat")
	require.True(t, ok)
	require.Equal(t, 1, i)
	_, ok = c.IndexOf("missing.dat")
	require.False(t, ok)

	require.True(t, c.Equal(catalog.New(entries)))
	require.False(t, c.Equal(catalog.Empty()))
	require.False(t, c.Equal(catalog.New([]catalog.Entry{
		{Time: day(1), File: "a.dat"},
		{Time: day(2), File: "other.dat"},
	})))
}
