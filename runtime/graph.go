package runtime

import (
	"sort"
	"sync"

	"github.com/juju/errors"
	"github.com/visionrun/workflow/types"
)

var (
	_ types.ExecutionGraph = &GraphBuilder{}
)

/**
 * GraphBuilder is the mutable construction side of an execution graph,
 * used by the pipeline compiler (and by tests) to declare nodes and
 * data-dependency edges. The result satisfies types.ExecutionGraph.
 *
 * Node category is fixed at declaration and edges are refused when they
 * would close a cycle, so a finished builder always satisfies the graph
 * invariants the scheduler assumes.
 */
type GraphBuilder struct {
	mu sync.Mutex

	category map[string]types.NodeCategory
	pred     map[string][]string
	succ     map[string][]string
	branches map[string][]string
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		category: make(map[string]types.NodeCategory),
		pred:     make(map[string][]string),
		succ:     make(map[string][]string),
		branches: make(map[string][]string),
	}
}

func (b *GraphBuilder) AddStepNode(name string, executionBranches ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.addNode(name, types.StepNode); err != nil {
		return errors.Trace(err)
	}
	if len(executionBranches) > 0 {
		b.branches[name] = append([]string{}, executionBranches...)
	}
	return nil
}

func (b *GraphBuilder) AddDataNode(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return errors.Trace(b.addNode(name, types.DataNode))
}

func (b *GraphBuilder) addNode(name string, category types.NodeCategory) error {
	if _, exists := b.category[name]; exists {
		return errors.AlreadyExistsf("node: %s", name)
	}
	b.category[name] = category
	return nil
}

func (b *GraphBuilder) AddEdge(from, to string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.category[from]; !exists {
		return errors.NotFoundf("from: %v", from)
	}
	if _, exists := b.category[to]; !exists {
		return errors.NotFoundf("to: %v", to)
	}
	for _, succ := range b.succ[from] {
		if succ == to {
			return errors.AlreadyExistsf("edge %s -> %s", from, to)
		}
	}
	if b.reachable(to, from) {
		return errors.Forbiddenf("edge %s -> %s would close a cycle", from, to)
	}

	b.succ[from] = append(b.succ[from], to)
	b.pred[to] = append(b.pred[to], from)
	return nil
}

func (b *GraphBuilder) reachable(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, succ := range b.succ[node] {
			if succ == to {
				return true
			}
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return false
}

func (b *GraphBuilder) Nodes(category types.NodeCategory) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	nodes := make([]string, 0, len(b.category))
	for name, cat := range b.category {
		if cat == category {
			nodes = append(nodes, name)
		}
	}
	sort.Strings(nodes)
	return nodes
}

func (b *GraphBuilder) Category(node string) (types.NodeCategory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	category, exists := b.category[node]
	return category, exists
}

func (b *GraphBuilder) Predecessors(node string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string{}, b.pred[node]...)
}

func (b *GraphBuilder) Successors(node string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string{}, b.succ[node]...)
}

func (b *GraphBuilder) ExecutionBranches(step string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string{}, b.branches[step]...)
}

/**
 * graphSnapshot is the immutable adjacency copy taken from an
 * ExecutionGraph when a coordinator is constructed. Mutation of the
 * source graph after the snapshot cannot be observed mid-run.
 */
type graphSnapshot struct {
	category map[string]types.NodeCategory
	pred     map[string][]string
	succ     map[string][]string
	branches map[string][]string
}

func snapshotGraph(graph types.ExecutionGraph) *graphSnapshot {
	snap := &graphSnapshot{
		category: make(map[string]types.NodeCategory),
		pred:     make(map[string][]string),
		succ:     make(map[string][]string),
		branches: make(map[string][]string),
	}
	for _, category := range []types.NodeCategory{types.StepNode, types.DataNode} {
		for _, node := range graph.Nodes(category) {
			snap.category[node] = category
			snap.pred[node] = graph.Predecessors(node)
			snap.succ[node] = graph.Successors(node)
			if category == types.StepNode {
				if branches := graph.ExecutionBranches(node); len(branches) > 0 {
					snap.branches[node] = branches
				}
			}
		}
	}
	return snap
}

func (s *graphSnapshot) isStep(node string) bool {
	return s.category[node] == types.StepNode
}

func (s *graphSnapshot) stepNames() []string {
	steps := make([]string, 0, len(s.category))
	for node, category := range s.category {
		if category == types.StepNode {
			steps = append(steps, node)
		}
	}
	sort.Strings(steps)
	return steps
}

func (s *graphSnapshot) predecessors(node string) []string {
	return s.pred[node]
}

func (s *graphSnapshot) successors(node string) []string {
	return s.succ[node]
}

func (s *graphSnapshot) executionBranches(step string) []string {
	return s.branches[step]
}

func (s *graphSnapshot) stepsInBranch(branch string) []string {
	members := make([]string, 0)
	for step, branches := range s.branches {
		for _, b := range branches {
			if b == branch {
				members = append(members, step)
				break
			}
		}
	}
	sort.Strings(members)
	return members
}

// stepParents are the direct Step-node predecessors of a step.
func (s *graphSnapshot) stepParents(step string) []string {
	parents := make([]string, 0)
	for _, pred := range s.pred[step] {
		if s.isStep(pred) {
			parents = append(parents, pred)
		}
	}
	return parents
}

/**
 * transitiveStepDependents walks successors, through data nodes, and
 * collects every step downstream of the given one.
 */
func (s *graphSnapshot) transitiveStepDependents(step string) []string {
	dependents := make([]string, 0)
	visited := map[string]bool{step: true}
	queue := []string{step}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, succ := range s.succ[node] {
			if visited[succ] {
				continue
			}
			visited[succ] = true
			if s.isStep(succ) {
				dependents = append(dependents, succ)
			}
			queue = append(queue, succ)
		}
	}
	sort.Strings(dependents)
	return dependents
}

// terminalSteps are the steps with no step downstream of them.
func (s *graphSnapshot) terminalSteps() []string {
	terminal := make([]string, 0)
	for _, step := range s.stepNames() {
		if len(s.transitiveStepDependents(step)) == 0 {
			terminal = append(terminal, step)
		}
	}
	return terminal
}
