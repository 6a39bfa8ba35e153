package runtime

import (
	"github.com/juju/errors"
	"github.com/visionrun/workflow/types"
)

/**
 * BranchingManager is the per-run registry of execution-branch masks.
 * A branch's mask is computed exactly once, when its producing step
 * completes, and registration is one-shot: re-registering a branch is a
 * runtime invariant violation in the caller, reported with an
 * already-exists error. Querying a branch that never registered is
 * reported with a not-found error; there is no safe default for "has
 * this branch run yet", silently substituting one would duplicate or
 * drop batch elements downstream.
 *
 * The manager carries no internal locking. Registration of a mask
 * happens-before every query of it because a consumer step cannot be in
 * a ready wave until the producing step's wave has fully retired; the
 * dependency graph, not synchronization, is the ordering guarantee.
 * Only the driving executor may call the register operations.
 */
type BranchingManager struct {
	masks map[string]types.Mask
}

func NewBranchingManager() *BranchingManager {
	return &BranchingManager{masks: make(map[string]types.Mask)}
}

/**
 * RegisterBatchOrientedMask stores a BatchSubset mask: only the listed
 * elements may continue past the branch.
 */
func (m *BranchingManager) RegisterBatchOrientedMask(executionBranch string, indices types.BatchIndexSet) error {
	if _, exists := m.masks[executionBranch]; exists {
		return errors.AlreadyExistsf("mask for execution branch: %s", executionBranch)
	}
	m.masks[executionBranch] = types.BatchSubsetMask(indices)
	return nil
}

// RegisterNonBatchMask stores a Scalar whole-branch enable/disable mask.
func (m *BranchingManager) RegisterNonBatchMask(executionBranch string, enabled bool) error {
	if _, exists := m.masks[executionBranch]; exists {
		return errors.AlreadyExistsf("mask for execution branch: %s", executionBranch)
	}
	m.masks[executionBranch] = types.ScalarMask(enabled)
	return nil
}

func (m *BranchingManager) GetMask(executionBranch string) (types.Mask, error) {
	mask, exists := m.masks[executionBranch]
	if !exists {
		return types.Mask{}, errors.NotFoundf("mask for execution branch: %s", executionBranch)
	}
	return mask, nil
}

func (m *BranchingManager) IsExecutionBranchBatchOriented(executionBranch string) (bool, error) {
	mask, exists := m.masks[executionBranch]
	if !exists {
		return false, errors.NotFoundf("mask for execution branch: %s", executionBranch)
	}
	return mask.IsBatchOriented(), nil
}

func (m *BranchingManager) IsExecutionBranchRegistered(executionBranch string) bool {
	_, exists := m.masks[executionBranch]
	return exists
}
