package runtime

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/visionrun/workflow/types"
)

func TestBranchingManagerNonBatchMask(t *testing.T) {
	manager := NewBranchingManager()

	assert.False(t, manager.IsExecutionBranchRegistered("cond1"))
	assert.Nil(t, manager.RegisterNonBatchMask("cond1", true))
	assert.True(t, manager.IsExecutionBranchRegistered("cond1"))

	mask, err := manager.GetMask("cond1")
	assert.Nil(t, err)
	assert.False(t, mask.IsBatchOriented())
	assert.True(t, mask.Enabled())

	batchOriented, err := manager.IsExecutionBranchBatchOriented("cond1")
	assert.Nil(t, err)
	assert.False(t, batchOriented)
}

func TestBranchingManagerBatchOrientedMask(t *testing.T) {
	manager := NewBranchingManager()

	indices := types.NewBatchIndexSet(
		types.NewDynamicBatchIndex(0),
		types.NewDynamicBatchIndex(2),
	)
	assert.Nil(t, manager.RegisterBatchOrientedMask("cond1", indices))

	mask, err := manager.GetMask("cond1")
	assert.Nil(t, err)
	assert.True(t, mask.IsBatchOriented())
	assert.Equal(t, 2, mask.Subset().Len())
	assert.True(t, mask.Subset().Has(types.NewDynamicBatchIndex(0)))
	assert.True(t, mask.Subset().Has(types.NewDynamicBatchIndex(2)))
	assert.False(t, mask.Subset().Has(types.NewDynamicBatchIndex(1)))

	batchOriented, err := manager.IsExecutionBranchBatchOriented("cond1")
	assert.Nil(t, err)
	assert.True(t, batchOriented)
}

func TestBranchingManagerDuplicateRegistration(t *testing.T) {
	manager := NewBranchingManager()

	assert.Nil(t, manager.RegisterNonBatchMask("cond1", false))

	err := manager.RegisterNonBatchMask("cond1", true)
	assert.True(t, errors.IsAlreadyExists(err))
	// the batch-oriented register path hits the same one-shot rule
	err = manager.RegisterBatchOrientedMask("cond1", types.NewBatchIndexSet())
	assert.True(t, errors.IsAlreadyExists(err))

	// the first registration is untouched
	mask, err := manager.GetMask("cond1")
	assert.Nil(t, err)
	assert.False(t, mask.Enabled())
}

func TestBranchingManagerUnknownBranch(t *testing.T) {
	manager := NewBranchingManager()

	_, err := manager.GetMask("never")
	assert.True(t, errors.IsNotFound(err))

	_, err = manager.IsExecutionBranchBatchOriented("never")
	assert.True(t, errors.IsNotFound(err))

	assert.False(t, manager.IsExecutionBranchRegistered("never"))
}

func TestBranchingManagerEmptySubset(t *testing.T) {
	manager := NewBranchingManager()

	assert.Nil(t, manager.RegisterBatchOrientedMask("cond1", types.NewBatchIndexSet()))

	mask, err := manager.GetMask("cond1")
	assert.Nil(t, err)
	assert.True(t, mask.IsBatchOriented())
	assert.Equal(t, 0, mask.Subset().Len())
	assert.True(t, mask.SuppressesAll())
}
