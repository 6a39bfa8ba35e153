package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/visionrun/workflow/types"
)

func TestDynamicBatchIndexKey(t *testing.T) {
	assert.Equal(t, "", types.NewDynamicBatchIndex().Key())
	assert.Equal(t, "0", types.NewDynamicBatchIndex(0).Key())
	assert.Equal(t, "0.2.1", types.NewDynamicBatchIndex(0, 2, 1).Key())

	a := types.NewDynamicBatchIndex(1, 2)
	b := types.NewDynamicBatchIndex(1, 2)
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equal(b))
}

func TestDynamicBatchIndexCompare(t *testing.T) {
	assert.Equal(t, 0, types.NewDynamicBatchIndex(1, 2).Compare(types.NewDynamicBatchIndex(1, 2)))
	assert.Equal(t, -1, types.NewDynamicBatchIndex(0, 9).Compare(types.NewDynamicBatchIndex(1)))
	assert.Equal(t, 1, types.NewDynamicBatchIndex(2).Compare(types.NewDynamicBatchIndex(1, 9, 9)))
	// a prefix sorts before anything nested inside it
	assert.Equal(t, -1, types.NewDynamicBatchIndex(1).Compare(types.NewDynamicBatchIndex(1, 0)))
	assert.Equal(t, 1, types.NewDynamicBatchIndex(1, 0).Compare(types.NewDynamicBatchIndex(1)))
}

func TestDynamicBatchIndexIsPrefixOf(t *testing.T) {
	outer := types.NewDynamicBatchIndex(1)
	inner := types.NewDynamicBatchIndex(1, 3)
	assert.True(t, outer.IsPrefixOf(inner))
	assert.True(t, outer.IsPrefixOf(outer))
	assert.False(t, inner.IsPrefixOf(outer))
	assert.False(t, types.NewDynamicBatchIndex(2).IsPrefixOf(inner))
}

func TestBatchIndexSet(t *testing.T) {
	s := types.NewBatchIndexSet(
		types.NewDynamicBatchIndex(0),
		types.NewDynamicBatchIndex(2),
	)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(types.NewDynamicBatchIndex(0)))
	assert.False(t, s.Has(types.NewDynamicBatchIndex(1)))

	s.Add(types.NewDynamicBatchIndex(2))
	assert.Equal(t, 2, s.Len())

	other := types.NewBatchIndexSet(
		types.NewDynamicBatchIndex(2),
		types.NewDynamicBatchIndex(3),
	)
	intersected := s.Intersect(other)
	assert.Equal(t, 1, intersected.Len())
	assert.True(t, intersected.Has(types.NewDynamicBatchIndex(2)))

	cloned := s.Clone()
	cloned.Add(types.NewDynamicBatchIndex(7))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, cloned.Len())
}

func TestBatchIndexSetIndicesOrdered(t *testing.T) {
	s := types.NewBatchIndexSet(
		types.NewDynamicBatchIndex(1, 0),
		types.NewDynamicBatchIndex(0, 2),
		types.NewDynamicBatchIndex(0),
	)
	indices := s.Indices()
	assert.Equal(t, 3, len(indices))
	assert.Equal(t, "0", indices[0].Key())
	assert.Equal(t, "0.2", indices[1].Key())
	assert.Equal(t, "1.0", indices[2].Key())
}
