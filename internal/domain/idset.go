package domain

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

// IDSet is an unordered set of identifiers. The zero value is an empty set
// that must be initialized with NewIDSet before Add is called.
type IDSet map[uuid.UUID]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was absent.
func (s IDSet) Add(id uuid.UUID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s IDSet) Remove(id uuid.UUID) bool {
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	return true
}

// Has reports whether id is in the set.
func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members in a stable order.
func (s IDSet) Slice() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// Clone returns an independent copy of s.
func (s IDSet) Clone() IDSet {
	return NewIDSet(s.Slice()...)
}

// MarshalJSON encodes the set as a sorted array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes an array of identifiers.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
