package dataset

import (
	"fmt"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
	"github.com/satfiles/satfiles/internal/inventory"
)

type Logger interface {
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
}

// Dataset is the owning context for one instrument data product. It holds
// the definition, implements the discovery contract its inventory calls
// back into, and owns the inventory's lifetime.
type Dataset struct {
	lg  Logger
	def Definition
	inv *inventory.Inventory
}

// Open validates def, builds the inventory and runs the initial load or
// discovery. The returned dataset owns the inventory until Close.
func Open(lg Logger, def Definition, dataDir string, opts *inventory.Options) (*Dataset, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = inventory.DefaultOptions()
	}
	if def.DirectoryFormat != "" {
		opts.WithDirectoryFormat(def.DirectoryFormat)
	}
	opts.WithFileFormat(def.FileFormat)

	ds := &Dataset{lg: lg, def: def}
	inv, err := inventory.New(lg, ds, dataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", def.Label(), err)
	}
	ds.inv = inv
	return ds, nil
}

// Files returns the dataset's inventory.
func (ds *Dataset) Files() *inventory.Inventory {
	return ds.inv
}

// Definition returns the definition the dataset was opened with.
func (ds *Dataset) Definition() Definition {
	return ds.def
}

// Close releases the inventory's back reference to this dataset. The
// inventory keeps serving its catalog afterwards.
func (ds *Dataset) Close() {
	ds.inv.ReleaseOwner()
}

func (ds *Dataset) Platform() string   { return ds.def.Platform }
func (ds *Dataset) Name() string       { return ds.def.Name }
func (ds *Dataset) Tag() string        { return ds.def.Tag }
func (ds *Dataset) InstID() string     { return ds.def.InstID }
func (ds *Dataset) MultiFileDay() bool { return ds.def.MultiFileDay }

// NormalizeTime truncates t to midnight. Catalog date bounds are reported
// per day regardless of the time encoded in filenames.
func (ds *Dataset) NormalizeTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ListFiles is the discovery routine the inventory calls on refresh.
// Simulated datasets synthesize one file per day over their configured
// range; everything else searches dataPath for names matching fileFormat.
func (ds *Dataset) ListFiles(tag, instID, dataPath, fileFormat string) ([]catalog.Entry, error) {
	if ds.def.Simulated != nil {
		return ds.simulatedEntries()
	}

	entries, issues, err := inventory.FromOS(dataPath, fileFormat, ds.def.TwoDigitYearBreak, ds.def.Delimiter)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		ds.lg.Warnw("skipping file with unparseable name",
			"dataset", ds.def.Label(), "file", issue.File, "reason", issue.Reason)
	}
	return entries, nil
}

func (ds *Dataset) simulatedEntries() ([]catalog.Entry, error) {
	start, stop, err := ds.def.Simulated.dates()
	if err != nil {
		return nil, err
	}
	var entries []catalog.Entry
	for d := start; !d.After(stop); d = d.AddDate(0, 0, 1) {
		entries = append(entries, catalog.Entry{
			Time: d,
			File: d.Format(dateLayout) + ".nofile",
		})
	}
	return entries, nil
}
