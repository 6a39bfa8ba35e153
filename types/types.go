package types

import (
	"context"
)

type StatusType int32

const (
	None      StatusType = 0
	Pending   StatusType = 1
	Running   StatusType = 2
	Discarded StatusType = 3
	Failed    StatusType = 5
	Finished  StatusType = 10
)

type Version string

type Context interface {
	context.Context

	GetRequestID() string

	/**
	 * ActiveBatchIndices is the set of batch elements the running step
	 * may process: the intersection of every batch-oriented mask on the
	 * step's execution-branch stack. The bool is false when no
	 * batch-oriented gating applies to the step.
	 */
	ActiveBatchIndices() (BatchIndexSet, bool)
}
