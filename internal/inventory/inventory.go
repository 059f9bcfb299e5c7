package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
	"github.com/satfiles/satfiles/internal/pathutil"
	"github.com/satfiles/satfiles/internal/store"
)

var (
	// ErrNoDataDir reports that no data root directory is configured.
	ErrNoDataDir = errors.New("no data directory configured")

	// ErrOwnerReleased reports that the owning dataset has been released
	// and an operation needing it cannot proceed.
	ErrOwnerReleased = errors.New("owning dataset has been released")

	// ErrNotFound reports a filename missing from the catalog.
	ErrNotFound = errors.New("file not found in catalog")
)

type Logger interface {
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
}

// StoredFileBase returns the persistence base name derived from the
// dataset identity fields. The text backend appends ".txt", the SQLite
// backend ".db".
func StoredFileBase(platform, name, tag, instID string) string {
	return strings.Join([]string{platform, name, tag, instID, "stored_file_info"}, "_")
}

// Owner is the capability contract an Inventory requires from the dataset
// that owns it: identity fields for paths and persistence names, the
// duplicate-timestamp policy, time normalization for the date range, and
// the file-discovery routine. The inventory's reference to its owner is
// non-owning; after ReleaseOwner, operations that need the owner fail with
// ErrOwnerReleased instead of crashing.
type Owner interface {
	Platform() string
	Name() string
	Tag() string
	InstID() string
	MultiFileDay() bool
	NormalizeTime(t time.Time) time.Time
	ListFiles(tag, instID, dataPath, fileFormat string) ([]catalog.Entry, error)
}

// snapshot bundles a catalog with its normalized date bounds so readers
// always observe the three together.
type snapshot struct {
	cat   *catalog.Catalog
	start time.Time
	stop  time.Time
}

// Inventory owns the authoritative time-ordered file catalog for one
// dataset configuration. It persists the catalog across runs, detects new
// files relative to the previously stored state and serves time- and
// position-based lookups. All mutation funnels through attach, which swaps
// in a fresh immutable snapshot.
type Inventory struct {
	lg    Logger
	owner Owner

	platform string
	name     string
	tag      string
	instID   string
	label    string

	homePath        string
	dataPath        string
	directoryFormat string
	fileFormat      string
	storedFileName  string

	updateFiles      bool
	writeToDisk      bool
	ignoreEmptyFiles bool

	backend store.Backend
	snap    atomic.Pointer[snapshot]
}

// New builds the inventory for owner under the configured data root. It
// fails fast when dataDir is empty. A previously stored catalog is adopted
// when present; otherwise a discovery refresh runs and its result is
// persisted. Datasets with an empty platform skip both steps and start with
// an empty catalog.
func New(lg Logger, owner Owner, dataDir string, opts *Options) (*Inventory, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: set data_dir in the config file or SATFILES_DATA_DIR", ErrNoDataDir)
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	inv := &Inventory{
		lg:               lg,
		owner:            owner,
		platform:         owner.Platform(),
		name:             owner.Name(),
		tag:              owner.Tag(),
		instID:           owner.InstID(),
		directoryFormat:  opts.DirectoryFormat,
		fileFormat:       opts.FileFormat,
		updateFiles:      opts.UpdateFiles,
		writeToDisk:      opts.WriteToDisk,
		ignoreEmptyFiles: opts.IgnoreEmptyFiles,
	}
	inv.label = strings.Join(strings.Fields(strings.Join(
		[]string{inv.platform, inv.name, inv.tag, inv.instID}, " ")), " ")
	inv.storedFileName = StoredFileBase(inv.platform, inv.name, inv.tag, inv.instID) + ".txt"

	inv.homePath = opts.HomePath
	if inv.homePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		inv.homePath = filepath.Join(home, ".satfiles")
	}

	sub := strings.NewReplacer(
		"{platform}", inv.platform,
		"{name}", inv.name,
		"{tag}", inv.tag,
		"{inst_id}", inv.instID,
	).Replace(inv.directoryFormat)
	inv.dataPath = pathutil.EnsureTrailingSep(filepath.Join(dataDir, sub))

	inv.backend = opts.Backend
	if inv.backend == nil {
		if opts.WriteToDisk {
			inv.backend = store.NewTextStore(inv.homePath, inv.storedFileName)
		} else {
			inv.backend = store.NewMemoryStore()
		}
	}

	inv.snap.Store(&snapshot{cat: catalog.Empty()})

	// A blank platform marks a bare dataset shell with nothing to index.
	if inv.platform == "" {
		return inv, nil
	}

	loaded, err := inv.backend.Load(store.SlotCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored catalog: %w", err)
	}
	if loaded.Len() > 0 {
		inv.attach(loaded.Entries())
		if inv.updateFiles {
			if err := inv.Refresh(); err != nil {
				return nil, err
			}
		}
	} else {
		if err := inv.Refresh(); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// Snapshot returns the current immutable catalog.
func (inv *Inventory) Snapshot() *catalog.Catalog {
	return inv.snap.Load().cat
}

// DataPath returns the search directory, always with a trailing separator.
func (inv *Inventory) DataPath() string {
	return inv.dataPath
}

// StoredFileName returns the persistence name derived from the dataset
// identity.
func (inv *Inventory) StoredFileName() string {
	return inv.storedFileName
}

// StartDate returns the normalized time of the first catalog entry.
func (inv *Inventory) StartDate() (time.Time, bool) {
	s := inv.snap.Load()
	return s.start, s.cat.Len() > 0
}

// StopDate returns the normalized time of the last catalog entry.
func (inv *Inventory) StopDate() (time.Time, bool) {
	s := inv.snap.Load()
	return s.stop, s.cat.Len() > 0
}

// ReleaseOwner drops the back reference to the owning dataset. The
// inventory keeps serving its current catalog; operations that need the
// owner fail with ErrOwnerReleased afterwards.
func (inv *Inventory) ReleaseOwner() {
	inv.owner = nil
}

// Refresh runs the owner's file-discovery routine, adopts the result and
// persists it.
func (inv *Inventory) Refresh() error {
	if inv.owner == nil {
		return fmt.Errorf("refresh %s: %w", inv.label, ErrOwnerReleased)
	}
	inv.lg.Infow("searching for local files", "dataset", inv.label, "path", inv.dataPath)

	entries, err := inv.owner.ListFiles(inv.owner.Tag(), inv.owner.InstID(), inv.dataPath, inv.fileFormat)
	if err != nil {
		return fmt.Errorf("failed to list files for %s: %w", inv.label, err)
	}
	for i := range entries {
		entries[i].File = pathutil.StripDirPrefix(entries[i].File, inv.dataPath)
	}

	if len(entries) > 0 {
		inv.lg.Infow("found local files", "dataset", inv.label, "count", len(entries))
	} else {
		inv.lg.Warnw("no files matched the supplied template, check the data directory setting",
			"dataset", inv.label, "path", inv.dataPath)
	}

	inv.attach(entries)
	return inv.storeCurrent()
}

// attach adopts entries as the new catalog. It enforces timestamp
// uniqueness unless the owner permits multiple files per day, applies
// empty-file filtering, recomputes the date bounds and swaps the snapshot.
// It is the sole mutator of the catalog and date range.
func (inv *Inventory) attach(entries []catalog.Entry) {
	if len(entries) > 0 && !inv.multiFileDay() {
		entries = inv.dropDuplicateTimes(entries)
	}

	c := catalog.New(entries)
	if inv.ignoreEmptyFiles {
		c = inv.filterEmptyFiles(c)
	}

	snap := &snapshot{cat: c}
	if first, ok := c.First(); ok {
		last, _ := c.Last()
		snap.start = inv.normalizeTime(first.Time)
		snap.stop = inv.normalizeTime(last.Time)
	}
	inv.snap.Store(snap)
}

// dropDuplicateTimes keeps the first entry seen for each timestamp and
// logs what was dropped. Duplicates can always reach this point through a
// stored catalog or a custom list routine, so this warns and never fails.
func (inv *Inventory) dropDuplicateTimes(entries []catalog.Entry) []catalog.Entry {
	seen := make(map[int64]struct{}, len(entries))
	kept := entries[:0:0]
	var dropped []string
	for _, e := range entries {
		key := e.Time.UnixNano()
		if _, ok := seen[key]; ok {
			dropped = append(dropped, e.File)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, e)
	}
	if len(dropped) > 0 {
		inv.lg.Warnw("duplicate datetimes in file information, keeping the first file of each",
			"dataset", inv.label, "dropped", dropped)
	}
	return kept
}

// filterEmptyFiles removes entries whose files are missing from disk or
// have zero size.
func (inv *Inventory) filterEmptyFiles(c *catalog.Catalog) *catalog.Catalog {
	entries := c.Entries()
	kept := entries[:0:0]
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(inv.dataPath, e.File))
		if err == nil && info.Size() > 0 {
			kept = append(kept, e)
		}
	}
	if n := len(entries) - len(kept); n > 0 {
		inv.lg.Infow("removing empty files from file list", "dataset", inv.label, "count", n)
		return catalog.New(kept)
	}
	return c
}

// storeCurrent persists the attached catalog. When it differs from the
// stored one, the stored catalog rotates into the previous slot first;
// identical catalogs are left untouched.
func (inv *Inventory) storeCurrent() error {
	stored, err := inv.backend.Load(store.SlotCurrent)
	if err != nil {
		return fmt.Errorf("failed to load stored catalog: %w", err)
	}
	cur := inv.Snapshot()
	if stored.Equal(cur) {
		return nil
	}
	if err := inv.backend.Store(store.SlotPrevious, stored); err != nil {
		return fmt.Errorf("failed to store previous catalog: %w", err)
	}
	if err := inv.backend.Store(store.SlotCurrent, cur); err != nil {
		return fmt.Errorf("failed to store current catalog: %w", err)
	}
	return nil
}

func (inv *Inventory) multiFileDay() bool {
	return inv.owner != nil && inv.owner.MultiFileDay()
}

func (inv *Inventory) normalizeTime(t time.Time) time.Time {
	if inv.owner != nil {
		return inv.owner.NormalizeTime(t)
	}
	return t
}

// String reports the file count and date range.
func (inv *Inventory) String() string {
	c := inv.Snapshot()
	var b strings.Builder
	b.WriteString("Local File Statistics\n")
	b.WriteString("---------------------\n")
	fmt.Fprintf(&b, "Number of files: %d\n", c.Len())
	if first, ok := c.First(); ok {
		last, _ := c.Last()
		fmt.Fprintf(&b, "Date Range: %s --- %s",
			first.Time.Format("02 January 2006"), last.Time.Format("02 January 2006"))
	}
	return b.String()
}

// Describe reports the inventory configuration and owner state. A released
// owner yields a placeholder rather than an error.
func (inv *Inventory) Describe() string {
	ownerDesc := "dataset(released)"
	if inv.owner != nil {
		ownerDesc = inv.label
	}
	return fmt.Sprintf("Inventory(%s, directory_format=%q, file_format=%q, write_to_disk=%t, ignore_empty_files=%t) -> %d local files",
		ownerDesc, inv.directoryFormat, inv.fileFormat, inv.writeToDisk,
		inv.ignoreEmptyFiles, inv.Snapshot().Len())
}
