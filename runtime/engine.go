package runtime

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	"github.com/visionrun/workflow/store"
	"github.com/visionrun/workflow/types"
)

var (
	_ types.Engine = &engine{}
)

func NewEngine(store store.Store, opts *types.EngineOptions) types.Engine {
	return newEngine(store, opts)
}

type engine struct {
	ctx    context.Context
	cancel context.CancelFunc

	running bool
	store   store.Store

	wp        *workerpool.WorkerPool
	asyncFlag bool

	pipelineMu sync.Mutex
	pipelines  map[string]*pipelineEntity
}

func newEngine(store store.Store, opts *types.EngineOptions) *engine {
	e := &engine{}
	e.ctx, e.cancel = context.WithCancel(opts.Ctx)
	e.store = store
	e.running = true
	e.wp = workerpool.New(opts.MaxStepConcurrency)
	e.asyncFlag = opts.StepRunAsync
	e.pipelines = make(map[string]*pipelineEntity)
	return e
}

func (e *engine) RegisterPipeline(name string, handler types.PipelineHandler) error {
	if !e.running {
		return errors.MethodNotAllowedf("not running")
	}
	entity := newPipelineEntity(name)
	if err := handler(entity); err != nil {
		return errors.Trace(err)
	}

	e.pipelineMu.Lock()
	defer e.pipelineMu.Unlock()
	if _, exists := e.pipelines[name]; exists {
		return errors.AlreadyExistsf("pipeline: %s", name)
	}
	e.pipelines[name] = entity
	return nil
}

func (e *engine) GetGraph(name string) (types.ExecutionGraph, bool) {
	entity, exists := e.getPipeline(name)
	if !exists {
		return nil, false
	}
	return entity.graph, true
}

func (e *engine) ListPipelineNames() ([]string, error) {
	e.pipelineMu.Lock()
	defer e.pipelineMu.Unlock()

	names := make([]string, 0, len(e.pipelines))
	for name := range e.pipelines {
		names = append(names, name)
	}
	return names, nil
}

func (e *engine) getPipeline(name string) (*pipelineEntity, bool) {
	e.pipelineMu.Lock()
	defer e.pipelineMu.Unlock()
	entity, exists := e.pipelines[name]
	return entity, exists
}

func (e *engine) Run(ctx context.Context, pipelineName string, requestID string, params types.Data) (*types.RunStatus, error) {
	if !e.running {
		return nil, errors.MethodNotAllowedf("not running")
	}
	entity, exists := e.getPipeline(pipelineName)
	if !exists {
		return nil, errors.NotFoundf("pipeline: %s", pipelineName)
	}
	if params == nil {
		params = types.Data{}
	}

	runner := newWaveRunner(e, entity, requestID)
	status, err := runner.run(ctx, params)
	return status, errors.Trace(err)
}

func (e *engine) RenderPipeline(name string) (string, error) {
	entity, exists := e.getPipeline(name)
	if !exists {
		return "", errors.NotFoundf("pipeline: %s", name)
	}
	snap := snapshotGraph(entity.graph)
	return renderDOT(name, snap, establishExecutionOrder(snap), nil)
}

func (e *engine) RenderRun(ctx context.Context, pipelineName string, requestID string) (string, error) {
	entity, exists := e.getPipeline(pipelineName)
	if !exists {
		return "", errors.NotFoundf("pipeline: %s", pipelineName)
	}
	records, err := loadTraceRecords(ctx, e.store, requestID)
	if err != nil {
		return "", errors.Trace(err)
	}
	snap := snapshotGraph(entity.graph)
	return renderDOT(pipelineName, snap, establishExecutionOrder(snap), records)
}

func (e *engine) Close(ctx context.Context) error {
	if !e.running {
		return nil
	}
	e.cancel()
	e.running = false
	e.wp.StopWait()
	return nil
}
