package runtime

import (
	"github.com/visionrun/workflow/types"
)

/**
 * StepExecutionCoordinator hands out the waves of one run, in order,
 * filtering out steps the executor has discarded along the way.
 *
 * The coordinator is single-writer: only the driving executor may call
 * GetStepsToExecuteNext, and not before the previous wave has fully
 * retired. It holds a private snapshot of the graph, so mutating the
 * source graph mid-run has no effect.
 *
 * A cyclic input graph is an unchecked precondition violation; the
 * compiler guarantees acyclicity before a graph reaches this point.
 */
type StepExecutionCoordinator struct {
	snapshot *graphSnapshot

	discardedSteps   map[string]bool
	executionOrder   [][]string
	executionPointer int
}

func NewStepExecutionCoordinator(graph types.ExecutionGraph) *StepExecutionCoordinator {
	return newCoordinatorFromSnapshot(snapshotGraph(graph))
}

func newCoordinatorFromSnapshot(snap *graphSnapshot) *StepExecutionCoordinator {
	return &StepExecutionCoordinator{
		snapshot:       snap,
		discardedSteps: make(map[string]bool),
	}
}

/**
 * GetStepsToExecuteNext consumes one wave per call: it merges the newly
 * discarded steps into the running discard set (discarding is
 * monotonic, a discarded step stays discarded), skips waves left with
 * no runnable step, and returns the non-discarded steps of the first
 * wave that has any. A nil return is the terminal sentinel: the
 * schedule is exhausted and stays exhausted on further calls.
 *
 * Discard names that match no step are inert, so the executor may
 * report names for steps that were compiled away.
 */
func (c *StepExecutionCoordinator) GetStepsToExecuteNext(stepsToDiscard []string) []string {
	if c.executionOrder == nil {
		c.executionOrder = establishExecutionOrder(c.snapshot)
		c.executionPointer = 0
	}
	for _, step := range stepsToDiscard {
		c.discardedSteps[step] = true
	}

	for c.executionPointer < len(c.executionOrder) {
		wave := c.executionOrder[c.executionPointer]
		c.executionPointer++

		candidateSteps := make([]string, 0, len(wave))
		for _, step := range wave {
			if !c.discardedSteps[step] {
				candidateSteps = append(candidateSteps, step)
			}
		}
		if len(candidateSteps) == 0 {
			continue
		}
		return candidateSteps
	}
	return nil
}
