package runtime

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/visionrun/workflow/types"
)

func TestGraphBuilderNodes(t *testing.T) {
	g := NewGraphBuilder()
	assert.Nil(t, g.AddStepNode("detect"))
	assert.Nil(t, g.AddStepNode("crop", "cond1"))
	assert.Nil(t, g.AddDataNode("image"))

	assert.Equal(t, []string{"crop", "detect"}, g.Nodes(types.StepNode))
	assert.Equal(t, []string{"image"}, g.Nodes(types.DataNode))

	category, exists := g.Category("detect")
	assert.True(t, exists)
	assert.Equal(t, types.StepNode, category)
	category, exists = g.Category("image")
	assert.True(t, exists)
	assert.Equal(t, types.DataNode, category)
	_, exists = g.Category("ghost")
	assert.False(t, exists)

	assert.Equal(t, []string{"cond1"}, g.ExecutionBranches("crop"))
	assert.Equal(t, []string{}, g.ExecutionBranches("detect"))
}

func TestGraphBuilderDuplicateNode(t *testing.T) {
	g := NewGraphBuilder()
	assert.Nil(t, g.AddStepNode("detect"))
	assert.True(t, errors.IsAlreadyExists(g.AddStepNode("detect")))
	// node category is fixed at declaration
	assert.True(t, errors.IsAlreadyExists(g.AddDataNode("detect")))
}

func TestGraphBuilderEdgeEndpoints(t *testing.T) {
	g := NewGraphBuilder()
	assert.Nil(t, g.AddStepNode("detect"))

	assert.True(t, errors.IsNotFound(g.AddEdge("ghost", "detect")))
	assert.True(t, errors.IsNotFound(g.AddEdge("detect", "ghost")))

	assert.Nil(t, g.AddStepNode("crop"))
	assert.Nil(t, g.AddEdge("detect", "crop"))
	assert.True(t, errors.IsAlreadyExists(g.AddEdge("detect", "crop")))

	assert.Equal(t, []string{"crop"}, g.Successors("detect"))
	assert.Equal(t, []string{"detect"}, g.Predecessors("crop"))
}

func TestGraphBuilderRefusesCycles(t *testing.T) {
	g := NewGraphBuilder()
	assert.Nil(t, g.AddStepNode("a"))
	assert.Nil(t, g.AddStepNode("b"))
	assert.Nil(t, g.AddStepNode("c"))
	assert.Nil(t, g.AddEdge("a", "b"))
	assert.Nil(t, g.AddEdge("b", "c"))

	assert.NotNil(t, g.AddEdge("c", "a"))
	assert.NotNil(t, g.AddEdge("a", "a"))
}

func TestGraphSnapshotDependents(t *testing.T) {
	g := mustBuildGraph(t,
		[]string{"detect", "crop", "classify", "count"},
		[]string{"image", "crops"},
		[][2]string{
			{"image", "detect"},
			{"detect", "crop"},
			{"detect", "count"},
			{"crop", "crops"},
			{"crops", "classify"},
		})
	snap := snapshotGraph(g)

	// dependents are collected through intervening data nodes too
	assert.Equal(t, []string{"classify", "count", "crop"}, snap.transitiveStepDependents("detect"))
	assert.Equal(t, []string{"classify"}, snap.transitiveStepDependents("crop"))
	assert.Equal(t, []string{}, snap.transitiveStepDependents("classify"))

	assert.Equal(t, []string{"classify", "count"}, snap.terminalSteps())
	assert.Equal(t, []string{"detect"}, snap.stepParents("crop"))
}

func TestGraphSnapshotBranchMembers(t *testing.T) {
	g := NewGraphBuilder()
	assert.Nil(t, g.AddStepNode("cond"))
	assert.Nil(t, g.AddStepNode("crop", "cond1"))
	assert.Nil(t, g.AddStepNode("classify", "cond1", "cond2"))
	snap := snapshotGraph(g)

	assert.Equal(t, []string{"classify", "crop"}, snap.stepsInBranch("cond1"))
	assert.Equal(t, []string{"classify"}, snap.stepsInBranch("cond2"))
	assert.Equal(t, []string{}, snap.stepsInBranch("cond3"))
}
