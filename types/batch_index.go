package types

import (
	"sort"
	"strconv"
	"strings"
)

/**
 * DynamicBatchIndex locates one element inside a nested batch: one
 * non-negative integer per nesting level, outermost first. An index that
 * is a prefix of another identifies the batch element the other is
 * nested inside.
 *
 * Treat values as immutable once constructed.
 */
type DynamicBatchIndex []int

func NewDynamicBatchIndex(elements ...int) DynamicBatchIndex {
	idx := make(DynamicBatchIndex, len(elements))
	copy(idx, elements)
	return idx
}

func (d DynamicBatchIndex) Depth() int {
	return len(d)
}

/**
 * Key returns the canonical string form, e.g. "0.2.1". Equality of keys
 * is equality of indices, which makes the key usable as a map key.
 */
func (d DynamicBatchIndex) Key() string {
	parts := make([]string, len(d))
	for i, e := range d {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ".")
}

func (d DynamicBatchIndex) Equal(other DynamicBatchIndex) bool {
	return d.Compare(other) == 0
}

// Compare orders indices lexicographically, level by level.
func (d DynamicBatchIndex) Compare(other DynamicBatchIndex) int {
	for i := 0; i < len(d) && i < len(other); i++ {
		if d[i] != other[i] {
			if d[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(d) < len(other):
		return -1
	case len(d) > len(other):
		return 1
	default:
		return 0
	}
}

// IsPrefixOf reports whether the element other identifies is nested
// inside the batch element d identifies.
func (d DynamicBatchIndex) IsPrefixOf(other DynamicBatchIndex) bool {
	if len(d) > len(other) {
		return false
	}
	for i, e := range d {
		if other[i] != e {
			return false
		}
	}
	return true
}

/**
 * BatchIndexSet is a set of DynamicBatchIndex keyed by canonical key.
 */
type BatchIndexSet map[string]DynamicBatchIndex

func NewBatchIndexSet(indices ...DynamicBatchIndex) BatchIndexSet {
	s := make(BatchIndexSet, len(indices))
	for _, idx := range indices {
		s.Add(idx)
	}
	return s
}

func (s BatchIndexSet) Add(idx DynamicBatchIndex) {
	s[idx.Key()] = idx
}

func (s BatchIndexSet) Has(idx DynamicBatchIndex) bool {
	_, exists := s[idx.Key()]
	return exists
}

func (s BatchIndexSet) Len() int {
	return len(s)
}

func (s BatchIndexSet) Clone() BatchIndexSet {
	cloned := make(BatchIndexSet, len(s))
	for key, idx := range s {
		cloned[key] = idx
	}
	return cloned
}

func (s BatchIndexSet) Intersect(other BatchIndexSet) BatchIndexSet {
	out := make(BatchIndexSet)
	for key, idx := range s {
		if _, exists := other[key]; exists {
			out[key] = idx
		}
	}
	return out
}

// Indices exports the members in lexicographic order.
func (s BatchIndexSet) Indices() []DynamicBatchIndex {
	out := make([]DynamicBatchIndex, 0, len(s))
	for _, idx := range s {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Compare(out[j]) < 0
	})
	return out
}
