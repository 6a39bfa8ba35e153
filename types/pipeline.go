package types

/**
 * Pipeline is the construction surface handed to a PipelineHandler while
 * a pipeline is being registered. It builds the execution graph and the
 * handler registry in one pass.
 *
 * Edges are data-dependency edges: Edge(a, b) means b consumes what a
 * produces, so b can never be scheduled before a's wave has retired.
 */
type Pipeline interface {
	/**
	 * Step declares an executable step node. Use InExecutionBranch to
	 * mark the step as gated by a named branch.
	 */
	Step(name string, handler StepHandler, options ...StepOption) error
	/**
	 * BranchStep declares a step whose handler produces the gating mask
	 * for the named execution branch. The mask is registered exactly
	 * once, when the step completes.
	 */
	BranchStep(name string, branch string, handler BranchHandler, options ...StepOption) error
	// Input declares a data node fed from the run parameters.
	Input(name string) error
	Edge(from, to string) error
}

type PipelineHandler func(p Pipeline) error
