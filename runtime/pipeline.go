package runtime

import (
	"github.com/juju/errors"
	"github.com/visionrun/workflow/types"
)

var (
	_ types.Pipeline = &pipelineEntity{}
)

type branchStepEntity struct {
	branch  string
	handler types.BranchHandler
}

/**
 * pipelineEntity couples the graph under construction with the handler
 * registry; both are filled in one registration pass.
 */
type pipelineEntity struct {
	name  string
	graph *GraphBuilder

	handlers    map[string]types.StepHandler
	branchSteps map[string]*branchStepEntity
}

func newPipelineEntity(name string) *pipelineEntity {
	return &pipelineEntity{
		name:        name,
		graph:       NewGraphBuilder(),
		handlers:    make(map[string]types.StepHandler),
		branchSteps: make(map[string]*branchStepEntity),
	}
}

func applyStepOptions(options []types.StepOption) *types.StepOptions {
	opts := &types.StepOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

func (p *pipelineEntity) Step(name string, handler types.StepHandler, options ...types.StepOption) error {
	if handler == nil {
		return errors.BadRequestf("step:%s handler is nil", name)
	}
	opts := applyStepOptions(options)
	if err := p.graph.AddStepNode(name, opts.ExecutionBranches...); err != nil {
		return errors.Trace(err)
	}
	p.handlers[name] = handler
	return nil
}

func (p *pipelineEntity) BranchStep(name string, branch string, handler types.BranchHandler, options ...types.StepOption) error {
	if handler == nil {
		return errors.BadRequestf("branch step:%s handler is nil", name)
	}
	if branch == "" {
		return errors.BadRequestf("branch step:%s has empty branch name", name)
	}
	for existing, bs := range p.branchSteps {
		if bs.branch == branch {
			return errors.AlreadyExistsf("branch %s already produced by step %s", branch, existing)
		}
	}
	opts := applyStepOptions(options)
	if err := p.graph.AddStepNode(name, opts.ExecutionBranches...); err != nil {
		return errors.Trace(err)
	}
	p.branchSteps[name] = &branchStepEntity{branch: branch, handler: handler}
	return nil
}

func (p *pipelineEntity) Input(name string) error {
	return errors.Trace(p.graph.AddDataNode(name))
}

func (p *pipelineEntity) Edge(from, to string) error {
	return errors.Trace(p.graph.AddEdge(from, to))
}
