package types

type NodeCategory int32

const (
	StepNode NodeCategory = 1
	DataNode NodeCategory = 2
)

/**
 * ExecutionGraph is the read-only view of a compiled pipeline that the
 * scheduling core consumes. Nodes are either executable steps or data
 * values flowing between them; edges are data-dependency edges.
 *
 * The graph is built once by the compiler and must be acyclic with every
 * edge endpoint present as a node. The scheduler never mutates it and
 * snapshots it before use, so mutation of the source graph after a run
 * has started cannot be observed mid-run.
 */
type ExecutionGraph interface {
	Nodes(category NodeCategory) []string
	Category(node string) (NodeCategory, bool)

	Predecessors(node string) []string
	Successors(node string) []string

	/**
	 * ExecutionBranches returns the stack of named execution branches
	 * a step belongs to, outermost first. Empty for unconditional steps.
	 */
	ExecutionBranches(step string) []string
}
