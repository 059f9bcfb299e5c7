package usage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
)

// Stats aggregates a catalog against the files actually on disk.
type Stats struct {
	TotalFiles int
	TotalSize  int64
	OnDisk     int
	Missing    int
	Empty      int
	Years      []YearStats
}

// YearStats holds per-calendar-year totals.
type YearStats struct {
	Year  int
	Files int
	Size  int64
}

// FileStatus is one catalog entry resolved against the disk.
type FileStatus struct {
	Entry   catalog.Entry
	Size    int64
	Missing bool
	Empty   bool
}

// ProgressFunc reports aggregation progress.
type ProgressFunc func(done, total int)

// Reporter computes usage statistics for catalog entries under one data
// path.
type Reporter struct {
	dataPath string
	progress ProgressFunc
}

// NewReporter creates a reporter rooted at dataPath.
func NewReporter(dataPath string) *Reporter {
	return &Reporter{dataPath: dataPath}
}

// SetProgressFunc sets a callback for aggregation progress updates.
func (r *Reporter) SetProgressFunc(f ProgressFunc) {
	r.progress = f
}

// Compute stats every entry's file and aggregates counts, sizes and
// per-year totals. Missing and empty files are tallied, not treated as
// errors.
func (r *Reporter) Compute(ctx context.Context, entries []catalog.Entry) (*Stats, error) {
	stats, _, err := r.compute(ctx, entries, false)
	return stats, err
}

// ComputeDetailed is Compute plus the per-entry file status backing the
// totals, in catalog order.
func (r *Reporter) ComputeDetailed(ctx context.Context, entries []catalog.Entry) (*Stats, []FileStatus, error) {
	return r.compute(ctx, entries, true)
}

func (r *Reporter) compute(ctx context.Context, entries []catalog.Entry, detailed bool) (*Stats, []FileStatus, error) {
	stats := &Stats{TotalFiles: len(entries)}
	byYear := make(map[int]*YearStats)
	var files []FileStatus
	if detailed {
		files = make([]FileStatus, 0, len(entries))
	}

	lastUpdate := time.Now()
	for i, e := range entries {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		ys := byYear[e.Time.Year()]
		if ys == nil {
			ys = &YearStats{Year: e.Time.Year()}
			byYear[e.Time.Year()] = ys
		}
		ys.Files++

		status := FileStatus{Entry: e}
		info, err := os.Stat(filepath.Join(r.dataPath, e.File))
		switch {
		case err != nil:
			status.Missing = true
			stats.Missing++
		case info.Size() == 0:
			status.Empty = true
			stats.OnDisk++
			stats.Empty++
		default:
			status.Size = info.Size()
			stats.OnDisk++
			stats.TotalSize += info.Size()
			ys.Size += info.Size()
		}
		if detailed {
			files = append(files, status)
		}

		if r.progress != nil {
			done := i + 1
			if done == len(entries) || done%256 == 0 {
				now := time.Now()
				if done == len(entries) || now.Sub(lastUpdate) > 200*time.Millisecond {
					r.progress(done, len(entries))
					lastUpdate = now
				}
			}
		}
	}

	years := make([]YearStats, 0, len(byYear))
	for _, ys := range byYear {
		years = append(years, *ys)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	stats.Years = years
	return stats, files, nil
}
