package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/satfiles/satfiles/internal/dataset"
	"github.com/satfiles/satfiles/internal/inventory"
)

func testLogger() dataset.Logger {
	return zap.NewNop().Sugar()
}

func TestFindSelectors(t *testing.T) {
	defs := []dataset.Definition{
		{Platform: "plat", Name: "inst"},
		{Platform: "plat", Name: "inst", Tag: "clean"},
		{Platform: "plat", Name: "inst", Tag: "clean", InstID: "a"},
	}

	d, err := dataset.Find(defs, "plat/inst")
	require.NoError(t, err)
	require.Empty(t, d.Tag)

	d, err = dataset.Find(defs, "plat/inst/clean")
	require.NoError(t, err)
	require.Equal(t, "clean", d.Tag)
	require.Empty(t, d.InstID)

	d, err = dataset.Find(defs, "plat/inst/clean/a")
	require.NoError(t, err)
	require.Equal(t, "a", d.InstID)

	_, err = dataset.Find(defs, "other/inst")
	require.ErrorContains(t, err, "no dataset")

	_, err = dataset.Find(defs, "justoneword")
	require.ErrorContains(t, err, "bad dataset selector")
}

func TestDefinitionValidate(t *testing.T) {
	require.NoError(t, dataset.Definition{}.Validate())
	require.NoError(t, dataset.Definition{
		Platform: "p", Name: "n", FileFormat: "f_{year:4d}.dat",
	}.Validate())
	require.NoError(t, dataset.Definition{
		Platform:  "p",
		Name:      "n",
		Simulated: &dataset.SimulatedConfig{Start: "2020-01-01", Stop: "2020-01-05"},
	}.Validate())

	err := dataset.Definition{Platform: "p"}.Validate()
	require.ErrorContains(t, err, "name is required")

	err = dataset.Definition{Platform: "p", Name: "n"}.Validate()
	require.ErrorContains(t, err, "file_format is required")

	err = dataset.Definition{
		Platform:  "p",
		Name:      "n",
		Simulated: &dataset.SimulatedConfig{Start: "January 1", Stop: "2020-01-05"},
	}.Validate()
	require.ErrorContains(t, err, "bad simulated start date")

	err = dataset.Definition{
		Platform:  "p",
		Name:      "n",
		Simulated: &dataset.SimulatedConfig{Start: "2020-01-05", Stop: "2020-01-01"},
	}.Validate()
	require.ErrorContains(t, err, "precedes")
}

func TestOpenSimulated(t *testing.T) {
	def := dataset.Definition{
		Platform: "sim",
		Name:     "test",
		Simulated: &dataset.SimulatedConfig{
			Start: "2020-01-01",
			Stop:  "2020-01-05",
		},
	}
	ds, err := dataset.Open(testLogger(), def, t.TempDir(),
		inventory.DefaultOptions().WithHomePath(t.TempDir()))
	require.NoError(t, err)

	c := ds.Files().Snapshot()
	require.Equal(t, 5, c.Len())
	first, _ := c.First()
	require.Equal(t, "2020-01-01.nofile", first.File)
	require.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), first.Time)

	start, ok := ds.Files().StartDate()
	require.True(t, ok)
	require.Equal(t, first.Time, start)
}

func TestOpenSearchesDataPath(t *testing.T) {
	dataDir := t.TempDir()
	dataPath := filepath.Join(dataDir, "plat", "inst")
	require.NoError(t, os.MkdirAll(dataPath, 0o755))
	for _, name := range []string{"inst_20200101.dat", "inst_20200102.dat"} {
		require.NoError(t, os.WriteFile(filepath.Join(dataPath, name), []byte("x"), 0o644))
	}

	def := dataset.Definition{
		Platform:   "plat",
		Name:       "inst",
		FileFormat: "inst_{year:4d}{month:02d}{day:02d}.dat",
	}
	ds, err := dataset.Open(testLogger(), def, dataDir,
		inventory.DefaultOptions().WithHomePath(t.TempDir()))
	require.NoError(t, err)
	require.Equal(t, []string{"inst_20200101.dat", "inst_20200102.dat"}, ds.Files().Snapshot().Files())
}

func TestCloseReleasesInventory(t *testing.T) {
	def := dataset.Definition{
		Platform:  "sim",
		Name:      "test",
		Simulated: &dataset.SimulatedConfig{Start: "2020-01-01", Stop: "2020-01-02"},
	}
	ds, err := dataset.Open(testLogger(), def, t.TempDir(),
		inventory.DefaultOptions().WithHomePath(t.TempDir()))
	require.NoError(t, err)

	ds.Close()
	require.ErrorIs(t, ds.Files().Refresh(), inventory.ErrOwnerReleased)
	require.Equal(t, 2, ds.Files().Snapshot().Len(), "the catalog outlives the owner")
}
