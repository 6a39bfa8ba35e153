package types

import "context"

type Engine interface {
	RegisterPipeline(name string, handler PipelineHandler) error
	GetGraph(name string) (ExecutionGraph, bool)
	ListPipelineNames() ([]string, error)

	/**
	 * RenderPipeline returns the DOT string generated from the layered
	 * step graph of the named pipeline.
	 */
	RenderPipeline(name string) (string, error)

	/**
	 * Run executes the pipeline wave by wave until the schedule is
	 * exhausted and returns the aggregated run status. A failing step
	 * does not abort the run; its dependents are discarded and the rest
	 * of the graph keeps going.
	 */
	Run(ctx context.Context, pipelineName string, requestID string, params Data) (*RunStatus, error)

	/**
	 * RenderRun renders the pipeline with per-step coloring taken from
	 * the trace records of an earlier run.
	 */
	RenderRun(ctx context.Context, pipelineName string, requestID string) (string, error)

	Close(ctx context.Context) error
}

type RunStatus struct {
	Status    StatusType
	LastError string

	StepStates map[string]StatusType
	Output     Data
}
