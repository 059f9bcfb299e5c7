package inventory

import (
	"fmt"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
	"github.com/satfiles/satfiles/internal/store"
)

// GetNew refreshes the catalog and returns the entries absent from the
// catalog as persisted before the call. Comparison is by filename, so
// files whose timestamps were reparsed do not reappear, and a second call
// with no filesystem change in between returns nothing.
func (inv *Inventory) GetNew() ([]catalog.Entry, error) {
	baseline, err := inv.backend.Load(store.SlotCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored catalog: %w", err)
	}
	if err := inv.Refresh(); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, baseline.Len())
	for _, f := range baseline.Files() {
		known[f] = struct{}{}
	}
	var fresh []catalog.Entry
	for _, e := range inv.Snapshot().Entries() {
		if _, ok := known[e.File]; !ok {
			fresh = append(fresh, e)
		}
	}
	return fresh, nil
}

// Previous returns the catalog that was current before the most recent
// persisted change.
func (inv *Inventory) Previous() (*catalog.Catalog, error) {
	return inv.backend.Load(store.SlotPrevious)
}

// GetIndex returns the catalog position of file. A miss triggers one
// refresh before retrying, so files that appeared since the last refresh
// are still found.
func (inv *Inventory) GetIndex(file string) (int, error) {
	if i, ok := inv.Snapshot().IndexOf(file); ok {
		return i, nil
	}
	if err := inv.Refresh(); err != nil {
		return 0, err
	}
	c := inv.Snapshot()
	if i, ok := c.IndexOf(file); ok {
		return i, nil
	}
	if first, ok := c.First(); ok {
		return 0, fmt.Errorf("%w: %s (example of a known file: %s)", ErrNotFound, file, first.File)
	}
	return 0, fmt.Errorf("%w: %s (catalog is empty)", ErrNotFound, file)
}

// At returns the catalog entry at position i.
func (inv *Inventory) At(i int) (catalog.Entry, error) {
	return inv.Snapshot().At(i)
}

// Slice returns the entries between positions i and j inclusive.
func (inv *Inventory) Slice(i, j int) ([]catalog.Entry, error) {
	return inv.Snapshot().Slice(i, j)
}

// TimeRange returns the entries with start <= time < stop.
func (inv *Inventory) TimeRange(start, stop time.Time) []catalog.Entry {
	return inv.Snapshot().TimeRange(start, stop)
}

// FileRange returns the entries spanning the start filename through the
// stop filename inclusive.
func (inv *Inventory) FileRange(start, stop string) ([]catalog.Entry, error) {
	i, err := inv.GetIndex(start)
	if err != nil {
		return nil, err
	}
	j, err := inv.GetIndex(stop)
	if err != nil {
		return nil, err
	}
	return inv.Slice(i, j)
}

// FileRanges concatenates the entries of each start/stop filename pair.
// The two lists must have equal length.
func (inv *Inventory) FileRanges(starts, stops []string) ([]catalog.Entry, error) {
	if len(starts) != len(stops) {
		return nil, fmt.Errorf("mismatched range bounds: %d starts, %d stops", len(starts), len(stops))
	}
	var out []catalog.Entry
	for k := range starts {
		span, err := inv.FileRange(starts[k], stops[k])
		if err != nil {
			return nil, err
		}
		out = append(out, span...)
	}
	return out, nil
}
