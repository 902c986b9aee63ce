package genealogy

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// IDSet is a compressed set of individual identifiers.
// It wraps a 64-bit Roaring bitmap; identifiers must be positive.
type IDSet struct {
	bm *roaring64.Bitmap
}

// NewIDSet creates a set holding ids.
func NewIDSet(ids ...ID) *IDSet {
	s := &IDSet{bm: roaring64.New()}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id.
func (s *IDSet) Add(id ID) {
	s.bm.Add(uint64(id))
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id ID) bool {
	return s.bm.Contains(uint64(id))
}

// Len returns the number of identifiers.
func (s *IDSet) Len() int {
	return int(s.bm.GetCardinality())
}

// IsEmpty reports whether the set has no identifiers.
func (s *IDSet) IsEmpty() bool {
	return s.bm.IsEmpty()
}

// Slice returns the identifiers in ascending order.
func (s *IDSet) Slice() []ID {
	raw := s.bm.ToArray()
	out := make([]ID, len(raw))
	for i, v := range raw {
		out[i] = ID(v)
	}
	return out
}

// Union adds every identifier of other to s.
func (s *IDSet) Union(other *IDSet) {
	s.bm.Or(other.bm)
}

// IsSubsetOf reports whether every identifier of s is in other.
func (s *IDSet) IsSubsetOf(other *IDSet) bool {
	diff := s.bm.Clone()
	diff.AndNot(other.bm)
	return diff.IsEmpty()
}

// Equal reports whether both sets hold the same identifiers.
func (s *IDSet) Equal(other *IDSet) bool {
	return s.bm.Equals(other.bm)
}
