package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// EnsureTrailingSep normalizes path and appends the OS path separator.
// Data directories are always handled in this form so that stripping a
// directory prefix from a file path never leaves a leading separator.
func EnsureTrailingSep(path string) string {
	if path == "" {
		return path
	}
	return Normalize(path) + string(filepath.Separator)
}

// StripDirPrefix removes everything through the last occurrence of dir
// from path, returning a dir-relative path. The dir argument must carry a
// trailing separator. Paths not containing dir come back unchanged.
func StripDirPrefix(path, dir string) string {
	if dir == "" {
		return path
	}
	if i := strings.LastIndex(path, dir); i >= 0 {
		return path[i+len(dir):]
	}
	return path
}
