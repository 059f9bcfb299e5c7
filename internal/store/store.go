package store

import "github.com/satfiles/satfiles/internal/catalog"

// Slot identifies one of the two persisted catalog copies. The current
// slot holds the last stored catalog; the previous slot holds the one it
// replaced, which is what new-file detection diffs against.
type Slot uint8

const (
	SlotCurrent  Slot = 0
	SlotPrevious Slot = 1
)

func (s Slot) String() string {
	switch s {
	case SlotCurrent:
		return "current"
	case SlotPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Backend persists catalogs across refresh cycles. Loading a slot that was
// never stored yields an empty catalog, not an error. Implementations are
// not safe for concurrent use by multiple processes unless stated.
type Backend interface {
	Load(slot Slot) (*catalog.Catalog, error)
	Store(slot Slot, c *catalog.Catalog) error
}

// timeLayout is the on-disk timestamp format, microsecond precision.
const timeLayout = "2006-01-02 15:04:05.000000"
