package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/visionrun/workflow/types"
)

func TestScalarMask(t *testing.T) {
	enabled := types.ScalarMask(true)
	assert.False(t, enabled.IsBatchOriented())
	assert.True(t, enabled.Enabled())
	assert.Nil(t, enabled.Subset())
	assert.False(t, enabled.SuppressesAll())

	disabled := types.ScalarMask(false)
	assert.False(t, disabled.Enabled())
	assert.True(t, disabled.SuppressesAll())
}

func TestBatchSubsetMask(t *testing.T) {
	subset := types.NewBatchIndexSet(
		types.NewDynamicBatchIndex(0),
		types.NewDynamicBatchIndex(2),
	)
	mask := types.BatchSubsetMask(subset)
	assert.True(t, mask.IsBatchOriented())
	assert.False(t, mask.Enabled())
	assert.Equal(t, 2, mask.Subset().Len())
	assert.False(t, mask.SuppressesAll())

	empty := types.BatchSubsetMask(nil)
	assert.True(t, empty.IsBatchOriented())
	assert.Equal(t, 0, empty.Subset().Len())
	assert.True(t, empty.SuppressesAll())
}
