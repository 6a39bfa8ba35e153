package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/visionrun/workflow/types"
	"github.com/visionrun/workflow/utils"
)

/**
 * waveRunner drives one run: it pulls waves from the coordinator, runs
 * the steps of a wave (on the engine's worker pool or inline), then
 * applies the outcomes from the driving goroutine. Mask registration
 * and discard bookkeeping only ever happen between waves on that single
 * goroutine, which is what keeps the coordinator and the branching
 * manager free of internal locking.
 */
type waveRunner struct {
	engine   *engine
	pipeline *pipelineEntity

	snapshot    *graphSnapshot
	coordinator *StepExecutionCoordinator
	branches    *BranchingManager

	requestID string

	mu      sync.Mutex
	results map[string]types.Data
	states  map[string]types.StatusType
	lastErr error
}

type stepOutcome struct {
	step   string
	output types.Data
	err    error

	// set when the step produced a branch gating decision
	branch string
	mask   *types.Mask
}

func newWaveRunner(e *engine, pipeline *pipelineEntity, requestID string) *waveRunner {
	snap := snapshotGraph(pipeline.graph)
	r := &waveRunner{
		engine:      e,
		pipeline:    pipeline,
		snapshot:    snap,
		coordinator: newCoordinatorFromSnapshot(snap),
		branches:    NewBranchingManager(),
		requestID:   requestID,
		results:     make(map[string]types.Data),
		states:      make(map[string]types.StatusType),
	}
	for _, step := range snap.stepNames() {
		r.states[step] = types.Pending
	}
	return r
}

func (r *waveRunner) run(ctx context.Context, params types.Data) (*types.RunStatus, error) {
	rctx := newRunContext(ctx, r.engine.store, r.requestID)

	var stepsToDiscard []string
	for waveIndex := 0; ; waveIndex++ {
		wave := r.coordinator.GetStepsToExecuteNext(stepsToDiscard)
		if wave == nil {
			break
		}
		log.Debugf("%s wave %d: %v", r.requestID, waveIndex, wave)

		outcomes := r.runWave(rctx, waveIndex, wave, params)
		var err error
		stepsToDiscard, err = r.applyOutcomes(outcomes)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return r.exportStatus(), nil
}

func (r *waveRunner) runWave(rctx *runContext, waveIndex int, wave []string, params types.Data) []*stepOutcome {
	outcomes := make([]*stepOutcome, len(wave))
	if !r.engine.asyncFlag {
		for i, step := range wave {
			outcomes[i] = r.runStep(rctx, waveIndex, step, params)
		}
		return outcomes
	}

	var wg sync.WaitGroup
	for i, step := range wave {
		i, step := i, step
		wg.Add(1)
		r.engine.wp.Submit(func() {
			defer wg.Done()
			outcomes[i] = r.runStep(rctx, waveIndex, step, params)
		})
	}
	wg.Wait()
	return outcomes
}

func (r *waveRunner) runStep(rctx *runContext, waveIndex int, step string, params types.Data) *stepOutcome {
	input := r.collectInput(step, params)
	stepCtx := rctx
	if indices, gated := r.activeIndicesFor(step); gated {
		stepCtx = rctx.withActiveIndices(indices)
	}

	r.setState(step, types.Running)
	record := &types.StepTraceRecord{
		Step:      step,
		Wave:      waveIndex,
		StartTime: time.Now(),
		Input:     input,
	}

	outcome := r.invokeHandler(stepCtx, step, input)

	record.EndTime = time.Now()
	record.Output = outcome.output
	if outcome.err != nil {
		record.Error = errors.ErrorStack(outcome.err)
	}
	rctx.saveTraceRecord(record)
	return outcome
}

func (r *waveRunner) invokeHandler(stepCtx *runContext, step string, input types.Data) (outcome *stepOutcome) {
	outcome = &stepOutcome{step: step}
	defer func() {
		if rec := recover(); rec != nil {
			outcome.err = types.NewFatalErrorf("panic on %s: %v", step, rec)
		}
	}()

	if branchStep, isBranch := r.pipeline.branchSteps[step]; isBranch {
		mask, err := branchStep.handler(stepCtx, input)
		outcome.branch = branchStep.branch
		outcome.mask = &mask
		outcome.err = err
		return outcome
	}

	outcome.output, outcome.err = r.pipeline.handlers[step](stepCtx, input)
	return outcome
}

// collectInput merges the run parameters with the outputs of the step's
// direct step parents. Parents always completed in an earlier wave.
func (r *waveRunner) collectInput(step string, params types.Data) types.Data {
	input := params.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, parent := range r.snapshot.stepParents(step) {
		if output, exists := r.results[parent]; exists {
			input.Merge(output)
		}
	}
	return input
}

/**
 * activeIndicesFor intersects the batch-oriented masks on the step's
 * execution-branch stack. Scalar masks have no per-element content: a
 * disabled one already discarded the step, an enabled one lets every
 * element through. A branch whose producing step was discarded never
 * registered; its members were discarded with it, so the hole is inert.
 */
func (r *waveRunner) activeIndicesFor(step string) (types.BatchIndexSet, bool) {
	var active types.BatchIndexSet
	for _, branch := range r.snapshot.executionBranches(step) {
		if !r.branches.IsExecutionBranchRegistered(branch) {
			continue
		}
		batchOriented, _ := r.branches.IsExecutionBranchBatchOriented(branch)
		if !batchOriented {
			continue
		}
		mask, _ := r.branches.GetMask(branch)
		if active == nil {
			active = mask.Subset().Clone()
		} else {
			active = active.Intersect(mask.Subset())
		}
	}
	return active, active != nil
}

/**
 * applyOutcomes runs on the driving goroutine after the wave retired:
 * registers produced masks, records results, and derives the steps to
 * discard before the next wave — every transitive dependent of a failed
 * step, plus every member of a branch whose mask suppresses all
 * elements.
 */
func (r *waveRunner) applyOutcomes(outcomes []*stepOutcome) ([]string, error) {
	stepsToDiscard := make([]string, 0)
	for _, outcome := range outcomes {
		if outcome.err != nil {
			log.Errorf("%s step %s failed: %v", r.requestID, outcome.step, outcome.err)
			r.setState(outcome.step, types.Failed)
			r.setLastErr(outcome.err)
			stepsToDiscard = append(stepsToDiscard, r.snapshot.transitiveStepDependents(outcome.step)...)
			continue
		}

		r.setState(outcome.step, types.Finished)
		if outcome.mask != nil {
			if err := r.registerMask(outcome.branch, *outcome.mask); err != nil {
				return nil, errors.Trace(err)
			}
			if outcome.mask.SuppressesAll() {
				stepsToDiscard = append(stepsToDiscard, r.snapshot.stepsInBranch(outcome.branch)...)
			}
			continue
		}
		if outcome.output != nil {
			r.setResult(outcome.step, outcome.output)
		}
	}

	stepsToDiscard = utils.UniqueSlice(stepsToDiscard)
	for _, step := range stepsToDiscard {
		r.setState(step, types.Discarded)
	}
	return stepsToDiscard, nil
}

func (r *waveRunner) registerMask(branch string, mask types.Mask) error {
	if mask.IsBatchOriented() {
		return errors.Trace(r.branches.RegisterBatchOrientedMask(branch, mask.Subset()))
	}
	return errors.Trace(r.branches.RegisterNonBatchMask(branch, mask.Enabled()))
}

func (r *waveRunner) setState(step string, state types.StatusType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[step] = state
}

func (r *waveRunner) setResult(step string, output types.Data) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[step] = output
}

func (r *waveRunner) setLastErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
}

// exportStatus merges the outputs of the finished terminal steps; a run
// with any failed step reports Failed but still carries what survived.
func (r *waveRunner) exportStatus() *types.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := &types.RunStatus{
		Status:     types.Finished,
		StepStates: utils.CloneMap(r.states),
		Output:     types.Data{},
	}
	for _, step := range r.snapshot.terminalSteps() {
		if r.states[step] != types.Finished {
			continue
		}
		if output, exists := r.results[step]; exists {
			status.Output.Merge(output)
		}
	}
	if r.lastErr != nil {
		status.Status = types.Failed
		status.LastError = r.lastErr.Error()
	}
	return status
}
