package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrOutOfRange reports a positional lookup outside the catalog bounds.
var ErrOutOfRange = errors.New("requested index outside catalog bounds")

// Entry is one catalog row: the time a file's data begins and the file
// path relative to the dataset's data directory.
type Entry struct {
	Time time.Time
	File string
}

// Catalog is an immutable, time-ordered snapshot of the files known for
// one dataset. Mutation happens by building a new Catalog and swapping it
// in; readers holding a snapshot never observe later changes.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from entries, copying and sorting them by time.
// The sort is stable, so entries sharing a timestamp keep their order.
func New(entries []Entry) *Catalog {
	c := &Catalog{entries: make([]Entry, len(entries))}
	copy(c.entries, entries)
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Time.Before(c.entries[j].Time)
	})
	return c
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at position i.
func (c *Catalog) At(i int) (Entry, error) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, fmt.Errorf("%w: index %d of %d entries", ErrOutOfRange, i, len(c.entries))
	}
	return c.entries[i], nil
}

// First returns the earliest entry, if any.
func (c *Catalog) First() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[0], true
}

// Last returns the latest entry, if any.
func (c *Catalog) Last() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// IndexOf returns the position of file in the catalog.
func (c *Catalog) IndexOf(file string) (int, bool) {
	for i := range c.entries {
		if c.entries[i].File == file {
			return i, true
		}
	}
	return 0, false
}

// Slice returns the entries from position i through j, inclusive of both
// ends. A reversed range yields an empty result rather than an error.
func (c *Catalog) Slice(i, j int) ([]Entry, error) {
	if i < 0 || j >= len(c.entries) {
		return nil, fmt.Errorf("%w: range [%d:%d] of %d entries", ErrOutOfRange, i, j, len(c.entries))
	}
	if i > j {
		return nil, nil
	}
	out := make([]Entry, j-i+1)
	copy(out, c.entries[i:j+1])
	return out, nil
}

// TimeRange returns the entries with start <= Time < stop. The stop bound
// is resolved inclusively first, then the final entry is dropped when its
// time reaches stop, so a file starting exactly at stop is excluded. A
// reversed range yields an empty result rather than an error.
func (c *Catalog) TimeRange(start, stop time.Time) []Entry {
	i := sort.Search(len(c.entries), func(k int) bool {
		return !c.entries[k].Time.Before(start)
	})
	j := sort.Search(len(c.entries), func(k int) bool {
		return c.entries[k].Time.After(stop)
	})
	if j < i {
		j = i
	}
	span := c.entries[i:j]
	if len(span) > 0 && !span[len(span)-1].Time.Before(stop) {
		span = span[:len(span)-1]
	}
	out := make([]Entry, len(span))
	copy(out, span)
	return out
}

// Entries returns a copy of all entries in time order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Files returns all filenames in time order.
func (c *Catalog) Files() []string {
	out := make([]string, len(c.entries))
	for i := range c.entries {
		out[i] = c.entries[i].File
	}
	return out
}

// Equal reports whether two catalogs hold identical entries.
func (c *Catalog) Equal(other *Catalog) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := range c.entries {
		if c.entries[i].File != other.entries[i].File ||
			!c.entries[i].Time.Equal(other.entries[i].Time) {
			return false
		}
	}
	return true
}
