package inventory

import (
	"path/filepath"

	"github.com/satfiles/satfiles/internal/store"
)

// Options configures an Inventory.
type Options struct {
	// DirectoryFormat is the subdirectory template under the data root.
	// Placeholders {platform}, {name}, {tag} and {inst_id} are filled from
	// the owning dataset.
	DirectoryFormat string

	// FileFormat overrides the dataset's filename template. Empty means the
	// dataset's list routine supplies its own.
	FileFormat string

	// UpdateFiles triggers a refresh right after a stored catalog loads.
	UpdateFiles bool

	// WriteToDisk selects the on-disk text backend. When false the catalog
	// slots live in process memory only, which avoids clobbering the shared
	// catalog file when several processes use one dataset.
	WriteToDisk bool

	// IgnoreEmptyFiles drops catalog entries whose files are missing or
	// zero bytes on disk.
	IgnoreEmptyFiles bool

	// HomePath overrides the per-user directory holding stored catalogs.
	HomePath string

	// Backend overrides the storage backend chosen from WriteToDisk.
	Backend store.Backend
}

// DefaultOptions returns the standard inventory configuration.
func DefaultOptions() *Options {
	return &Options{
		DirectoryFormat: filepath.Join("{platform}", "{name}", "{tag}"),
		WriteToDisk:     true,
	}
}

// WithDirectoryFormat sets the subdirectory template.
func (o *Options) WithDirectoryFormat(format string) *Options {
	if format != "" {
		o.DirectoryFormat = format
	}
	return o
}

// WithFileFormat sets the filename template override.
func (o *Options) WithFileFormat(format string) *Options {
	o.FileFormat = format
	return o
}

// WithUpdateFiles sets whether construction refreshes a loaded catalog.
func (o *Options) WithUpdateFiles(update bool) *Options {
	o.UpdateFiles = update
	return o
}

// WithWriteToDisk selects between the disk and memory backends.
func (o *Options) WithWriteToDisk(write bool) *Options {
	o.WriteToDisk = write
	return o
}

// WithIgnoreEmptyFiles sets empty-file filtering.
func (o *Options) WithIgnoreEmptyFiles(ignore bool) *Options {
	o.IgnoreEmptyFiles = ignore
	return o
}

// WithHomePath sets the directory for stored catalogs.
func (o *Options) WithHomePath(path string) *Options {
	o.HomePath = path
	return o
}

// WithBackend sets an explicit storage backend.
func (o *Options) WithBackend(b store.Backend) *Options {
	o.Backend = b
	return o
}
