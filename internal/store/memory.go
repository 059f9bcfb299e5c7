package store

import "github.com/satfiles/satfiles/internal/catalog"

// MemoryStore keeps both slots in process memory. It exists for callers
// that must not touch the shared on-disk catalog, such as one process of
// several querying the same dataset.
type MemoryStore struct {
	slots [2]*catalog.Catalog
}

// NewMemoryStore creates an in-memory backend with both slots empty.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(slot Slot) (*catalog.Catalog, error) {
	if c := s.slots[slot]; c != nil {
		return c, nil
	}
	return catalog.Empty(), nil
}

func (s *MemoryStore) Store(slot Slot, c *catalog.Catalog) error {
	s.slots[slot] = c
	return nil
}
