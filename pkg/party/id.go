// Package party defines identifiers for protocol participants.
package party

import (
	"sort"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/gg18/pkg/math/curve"
)

// ID uniquely identifies a participant in a protocol execution.
// The byte content of an ID doubles as the party's Shamir evaluation
// point, so an ID must not be empty and must not decode to 0 mod q.
type ID string

// Scalar returns the Shamir evaluation point associated with this ID,
// obtained by interpreting the ID bytes as a big-endian integer mod q.
func (id ID) Scalar(group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes([]byte(id)))
}

// Domain implements hash.WriterToWithDomain.
func (id ID) Domain() string { return "Party ID" }

// Bytes returns the raw bytes of the ID.
func (id ID) Bytes() []byte { return []byte(id) }

// IDSlice is a sorted set of party IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of the given IDs.
func NewIDSlice(ids []ID) IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of parties.
func (ids IDSlice) Len() int { return len(ids) }

// Contains reports whether every given ID is present.
func (ids IDSlice) Contains(queried ...ID) bool {
	for _, id := range queried {
		if ids.search(id) < 0 {
			return false
		}
	}
	return true
}

// GetIndex returns the position of id in the sorted slice, or -1.
func (ids IDSlice) GetIndex(id ID) int { return ids.search(id) }

// Valid reports whether the slice is sorted and free of duplicates and
// empty IDs.
func (ids IDSlice) Valid() bool {
	for i := range ids {
		if ids[i] == "" {
			return false
		}
		if i > 0 && ids[i-1] >= ids[i] {
			return false
		}
	}
	return true
}

// Remove returns a copy of ids without the given ID.
func (ids IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(ids))
	for _, other := range ids {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// Copy returns a fresh copy of the slice.
func (ids IDSlice) Copy() IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	return out
}

func (ids IDSlice) search(id ID) int {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return i
	}
	return -1
}
