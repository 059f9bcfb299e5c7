package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satfiles/satfiles/internal/catalog"
	"github.com/satfiles/satfiles/internal/fileformat"
)

func mustCompile(t *testing.T, tmpl string) *fileformat.Grammar {
	t.Helper()
	g, err := fileformat.Compile(tmpl, false)
	require.NoError(t, err)
	return g
}

func TestBuildKeepsHighestVersion(t *testing.T) {
	g := mustCompile(t, "inst_{year:4d}{month:02d}{day:02d}_v{version:02d}.dat")
	files := []string{
		"inst_20200101_v01.dat",
		"inst_20200101_v02.dat",
		"inst_20200102_v01.dat",
	}
	records, issues := fileformat.ParseFixedWidth(files, g)
	require.Empty(t, issues)

	entries, issues := catalog.Build(records, g, 0)
	require.Empty(t, issues)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Time.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "inst_20200101_v02.dat", entries[0].File)
	require.Equal(t, "inst_20200102_v01.dat", entries[1].File)
}

func TestBuildVersionTieBreaks(t *testing.T) {
	g := mustCompile(t, "inst_{year:4d}{month:02d}{day:02d}_v{version:02d}r{revision:02d}c{cycle:02d}.dat")
	files := []string{
		"inst_20200101_v02r01c05.dat",
		"inst_20200101_v02r03c01.dat",
		"inst_20200101_v02r03c02.dat",
		"inst_20200101_v01r09c09.dat",
	}
	records, issues := fileformat.ParseFixedWidth(files, g)
	require.Empty(t, issues)

	entries, _ := catalog.Build(records, g, 0)
	require.Len(t, entries, 1)
	require.Equal(t, "inst_20200101_v02r03c02.dat", entries[0].File)
}

func TestBuildDuplicateWithoutVersionKeepsFirst(t *testing.T) {
	g := mustCompile(t, "a_{year:4d}{month:02d}{day:02d}_{hour:02d}.dat")
	files := []string{
		"a_20200101_00.dat",
		"b_20200101_00.dat",
	}
	records, issues := fileformat.ParseFixedWidth(files, g)
	require.Empty(t, issues)

	entries, issues := catalog.Build(records, g, 0)
	require.Len(t, entries, 1)
	require.Equal(t, "a_20200101_00.dat", entries[0].File)
	require.Len(t, issues, 1)
	require.Equal(t, "b_20200101_00.dat", issues[0].File)
}

func TestBuildTwoDigitYearBreak(t *testing.T) {
	g := mustCompile(t, "inst_{year:02d}{month:02d}{day:02d}.dat")
	records, issues := fileformat.ParseFixedWidth([]string{
		"inst_950102.dat",
		"inst_050102.dat",
	}, g)
	require.Empty(t, issues)

	entries, _ := catalog.Build(records, g, 70)
	require.Len(t, entries, 2)
	require.Equal(t, 1995, entries[0].Time.Year())
	require.Equal(t, "inst_950102.dat", entries[0].File)
	require.Equal(t, 2005, entries[1].Time.Year())
}

func TestBuildDefaultsAndClockFields(t *testing.T) {
	g := mustCompile(t, "m_{year:4d}{month:02d}_{hour:02d}{minute:02d}{second:02d}.dat")
	records, issues := fileformat.ParseFixedWidth([]string{"m_202006_132415.dat"}, g)
	require.Empty(t, issues)

	entries, _ := catalog.Build(records, g, 0)
	require.Len(t, entries, 1)
	want := time.Date(2020, 6, 1, 13, 24, 15, 0, time.UTC)
	require.True(t, entries[0].Time.Equal(want), "got %v", entries[0].Time)
}

func TestBuildDropsRecordsWithoutYear(t *testing.T) {
	g := mustCompile(t, "inst_{month:02d}{day:02d}.dat")
	records, _ := fileformat.ParseFixedWidth([]string{"inst_0101.dat", "inst_0202.dat"}, g)
	entries, issues := catalog.Build(records, g, 0)
	require.Empty(t, entries)
	require.Len(t, issues, 2)
	require.Contains(t, issues[0].Reason, "year or month")
}

func TestBuildSkipsImpossibleDates(t *testing.T) {
	g := mustCompile(t, "inst_{year:4d}{month:02d}{day:02d}.dat")
	records, issues := fileformat.ParseFixedWidth([]string{
		"inst_20200230.dat",
		"inst_20201301.dat",
		"inst_20200115.dat",
	}, g)
	require.Empty(t, issues)

	entries, issues := catalog.Build(records, g, 0)
	require.Len(t, entries, 1)
	require.Equal(t, "inst_20200115.dat", entries[0].File)
	require.Len(t, issues, 2)
}
