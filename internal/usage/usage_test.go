package usage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
)

func TestComputeTallies(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a_2019.dat"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b_2020.dat"), []byte("123"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "c_2020.dat"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	entries := []catalog.Entry{
		{Time: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), File: "a_2019.dat"},
		{Time: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), File: "b_2020.dat"},
		{Time: time.Date(2020, 6, 2, 0, 0, 0, 0, time.UTC), File: "c_2020.dat"},
		{Time: time.Date(2020, 6, 3, 0, 0, 0, 0, time.UTC), File: "gone.dat"},
	}

	stats, err := NewReporter(dir).Compute(context.Background(), entries)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if stats.TotalFiles != 4 {
		t.Errorf("expected 4 total files, got %d", stats.TotalFiles)
	}
	if stats.OnDisk != 3 {
		t.Errorf("expected 3 files on disk, got %d", stats.OnDisk)
	}
	if stats.Missing != 1 {
		t.Errorf("expected 1 missing file, got %d", stats.Missing)
	}
	if stats.Empty != 1 {
		t.Errorf("expected 1 empty file, got %d", stats.Empty)
	}
	if stats.TotalSize != 8 {
		t.Errorf("expected total size 8, got %d", stats.TotalSize)
	}

	if len(stats.Years) != 2 {
		t.Fatalf("expected 2 year buckets, got %d", len(stats.Years))
	}
	if stats.Years[0].Year != 2019 || stats.Years[0].Files != 1 || stats.Years[0].Size != 5 {
		t.Errorf("unexpected 2019 bucket: %+v", stats.Years[0])
	}
	if stats.Years[1].Year != 2020 || stats.Years[1].Files != 3 || stats.Years[1].Size != 3 {
		t.Errorf("unexpected 2020 bucket: %+v", stats.Years[1])
	}
}

func TestComputeDetailedStatuses(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "full.dat"), []byte("1234"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.dat"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	entries := []catalog.Entry{
		{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), File: "full.dat"},
		{Time: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), File: "empty.dat"},
		{Time: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), File: "gone.dat"},
	}

	stats, files, err := NewReporter(dir).ComputeDetailed(context.Background(), entries)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if stats.OnDisk != 2 || stats.Missing != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(files))
	}
	if files[0].Size != 4 || files[0].Missing || files[0].Empty {
		t.Errorf("unexpected status for full.dat: %+v", files[0])
	}
	if !files[1].Empty {
		t.Errorf("expected empty.dat to be flagged empty: %+v", files[1])
	}
	if !files[2].Missing {
		t.Errorf("expected gone.dat to be flagged missing: %+v", files[2])
	}
}

func TestComputeEmptyCatalog(t *testing.T) {
	stats, err := NewReporter(t.TempDir()).Compute(context.Background(), nil)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if stats.TotalFiles != 0 || len(stats.Years) != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}

func TestComputeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []catalog.Entry{
		{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), File: "a.dat"},
	}
	if _, err := NewReporter(t.TempDir()).Compute(ctx, entries); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestComputeReportsProgress(t *testing.T) {
	entries := make([]catalog.Entry, 10)
	for i := range entries {
		entries[i] = catalog.Entry{
			Time: time.Date(2020, 1, i+1, 0, 0, 0, 0, time.UTC),
			File: "missing.dat",
		}
	}

	r := NewReporter(t.TempDir())
	var last int
	r.SetProgressFunc(func(done, total int) {
		last = done
		if total != len(entries) {
			t.Errorf("expected total %d, got %d", len(entries), total)
		}
	})
	if _, err := r.Compute(context.Background(), entries); err != nil {
		t.Fatal(err)
	}
	if last != len(entries) {
		t.Errorf("expected a final progress report at %d, got %d", len(entries), last)
	}
}
