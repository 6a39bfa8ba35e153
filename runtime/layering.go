package runtime

import (
	"sort"

	"github.com/visionrun/workflow/utils"
)

/**
 * SuperStartNode is the synthetic root of the steps-flow graph. The
 * compiler is responsible for keeping user step names out of this
 * namespace; the layering engine does not re-check.
 */
const SuperStartNode = "<start>"

/**
 * establishExecutionOrder turns the snapshotted execution graph into an
 * ordered list of waves: groups of steps at equal longest-path distance
 * from the synthetic root. Steps within a wave are mutually independent;
 * their order inside the wave carries no meaning (sorted only to keep
 * output deterministic).
 */
func establishExecutionOrder(snap *graphSnapshot) [][]string {
	flow := constructStepsFlowGraph(snap)
	distances := assignMaxDistancesFromStart(flow, SuperStartNode)
	return groupNodesBySortedDistance(distances, SuperStartNode)
}

type stepsFlowGraph struct {
	succ map[string][]string
}

func (g *stepsFlowGraph) addEdge(from, to string) {
	g.succ[from] = append(g.succ[from], to)
}

/**
 * constructStepsFlowGraph collapses the execution graph to step-to-step
 * adjacency rooted at SuperStartNode: a step predecessor contributes a
 * direct edge, any other predecessor contributes an edge from the root,
 * and a step with no predecessor at all hangs off the root as well.
 */
func constructStepsFlowGraph(snap *graphSnapshot) *stepsFlowGraph {
	flow := &stepsFlowGraph{succ: map[string][]string{SuperStartNode: nil}}
	for _, step := range snap.stepNames() {
		hasPredecessors := false
		for _, pred := range snap.predecessors(step) {
			startNode := SuperStartNode
			if snap.isStep(pred) {
				startNode = pred
			}
			flow.addEdge(startNode, step)
			hasPredecessors = true
		}
		if !hasPredecessors {
			flow.addEdge(SuperStartNode, step)
		}
	}
	for node := range flow.succ {
		flow.succ[node] = utils.UniqueSlice(flow.succ[node])
	}
	return flow
}

/**
 * assignMaxDistancesFromStart relaxes distances over the acyclic flow
 * graph: every node ends at the maximum over its incoming edges of the
 * source distance plus one. The maximum, not the minimum, is what
 * places a step strictly after every transitive step dependency.
 */
func assignMaxDistancesFromStart(flow *stepsFlowGraph, startNode string) map[string]int {
	distances := map[string]int{startNode: 0}
	queue := []string{startNode}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, succ := range flow.succ[node] {
			candidate := distances[node] + 1
			if current, exists := distances[succ]; !exists || candidate > current {
				distances[succ] = candidate
				queue = append(queue, succ)
			}
		}
	}
	return distances
}

func groupNodesBySortedDistance(distances map[string]int, excludedNode string) [][]string {
	groups := make(map[int][]string)
	for node, distance := range distances {
		if node == excludedNode {
			continue
		}
		groups[distance] = append(groups[distance], node)
	}

	sortedDistances := make([]int, 0, len(groups))
	for distance := range groups {
		sortedDistances = append(sortedDistances, distance)
	}
	sort.Ints(sortedDistances)

	order := make([][]string, 0, len(groups))
	for _, distance := range sortedDistances {
		group := groups[distance]
		sort.Strings(group)
		order = append(order, group)
	}
	return order
}
