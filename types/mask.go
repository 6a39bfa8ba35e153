package types

type maskKind int32

const (
	scalarMask maskKind = 1
	batchMask  maskKind = 2
)

/**
 * Mask is the gating decision attached to one named execution branch.
 * Two cases exist:
 *   - Scalar: branch-wide enable/disable, for conditions that are not
 *     batch dependent.
 *   - BatchSubset: only the listed batch elements may continue past the
 *     branch; every other element is implicitly suppressed.
 *
 * Branch orientation is derived from the stored case, there is no
 * separate orientation flag to keep in sync.
 */
type Mask struct {
	kind    maskKind
	enabled bool
	subset  BatchIndexSet
}

func ScalarMask(enabled bool) Mask {
	return Mask{kind: scalarMask, enabled: enabled}
}

func BatchSubsetMask(subset BatchIndexSet) Mask {
	if subset == nil {
		subset = NewBatchIndexSet()
	}
	return Mask{kind: batchMask, subset: subset}
}

func (m Mask) IsBatchOriented() bool {
	return m.kind == batchMask
}

// Enabled is the whole-branch decision of a Scalar mask. It is false
// for BatchSubset masks; use Subset for those.
func (m Mask) Enabled() bool {
	return m.kind == scalarMask && m.enabled
}

// Subset is the element subset of a BatchSubset mask, nil for Scalar.
func (m Mask) Subset() BatchIndexSet {
	if m.kind != batchMask {
		return nil
	}
	return m.subset
}

// SuppressesAll reports whether no element at all may continue past the
// branch: a disabled Scalar mask or an empty BatchSubset.
func (m Mask) SuppressesAll() bool {
	if m.kind == scalarMask {
		return !m.enabled
	}
	return m.subset.Len() == 0
}
