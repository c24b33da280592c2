package topology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/n8n-timings/internal/models"
)

func sampleDefinition() models.WorkflowDefinition {
	return models.WorkflowDefinition{
		Nodes: []models.WorkflowNode{
			{ID: "n1", Name: "Trigger", Type: "n8n-nodes-base.manualTrigger", Position: []float64{0, 0}},
			{ID: "n2", Name: "HTTP Request", Type: "n8n-nodes-base.httpRequest"},
			{ID: "n3"},
			{Name: "Wait"},
			{ID: "n1", Name: "Duplicate"},
		},
		Connections: []models.Connection{
			{Source: "Trigger", Targets: []string{"HTTP Request", "HTTP Request", "Ghost"}},
			{Source: "n2", Targets: []string{"n3", "Wait"}},
			{Source: "Nobody", Targets: []string{"n1"}},
			{Source: "Wait", Targets: []string{"n2"}},
		},
	}
}

func TestExtract(t *testing.T) {
	topo := Extract(sampleDefinition())
	require.Equal(t, 4, topo.Len())

	var ids []string
	for _, n := range topo.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"n1", "n2", "n3", "Wait"}, ids)

	n1, ok := topo.Node("n1")
	require.True(t, ok)
	assert.Equal(t, "Trigger", n1.DisplayName)
	assert.Equal(t, "n8n-nodes-base.manualTrigger", n1.NodeType)
	assert.Equal(t, []string{"n2"}, n1.Outgoing)

	n2, _ := topo.Node("n2")
	assert.Equal(t, []string{"n3", "Wait"}, n2.Outgoing)

	n3, _ := topo.Node("n3")
	assert.Equal(t, "n3", n3.DisplayName)
	assert.Empty(t, n3.Outgoing)

	wait, ok := topo.Node("Wait")
	require.True(t, ok)
	assert.Equal(t, []string{"n2"}, wait.Outgoing)

	assert.Equal(t, 4, topo.Edges())
}

func TestExtractEmpty(t *testing.T) {
	topo := Extract(models.WorkflowDefinition{})
	assert.Equal(t, 0, topo.Len())
	assert.Empty(t, topo.Nodes())
	assert.Equal(t, 0, topo.Edges())

	_, ok := topo.Lookup("anything")
	assert.False(t, ok)

	var nilTopo *Topology
	_, ok = nilTopo.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, nilTopo.Len())
}

func TestLookupPrefersID(t *testing.T) {
	topo := Extract(models.WorkflowDefinition{Nodes: []models.WorkflowNode{
		{ID: "a", Name: "b"},
		{ID: "b", Name: "c"},
	}})

	n, ok := topo.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	n, ok = topo.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)
}

func TestDOT(t *testing.T) {
	topo := Extract(sampleDefinition())

	analysis := &models.ExecutionAnalysis{WorkflowName: "Sync"}
	analysis.AddNodeStats(&models.NodeStats{NodeName: "Trigger", Count: 1, SuccessCount: 1, TotalSeconds: 0.01})
	analysis.AddNodeStats(&models.NodeStats{NodeName: "HTTP Request", Count: 2, SuccessCount: 1, ErrorCount: 1, TotalSeconds: 1.35})
	analysis.AddNodeStats(&models.NodeStats{NodeName: "Orphan", Count: 1})

	dot := DOT(topo, analysis)

	assert.True(t, strings.HasPrefix(dot, "digraph D {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `n_n1 [label="Trigger\n1 runs, 0.01s" shape="box" style="filled" fillcolor="green"]`)
	assert.Contains(t, dot, `n_n2 [label="HTTP Request\n2 runs, 1.35s" shape="box" style="filled" fillcolor="red"]`)
	assert.Contains(t, dot, `n_n3 [label="n3" shape="box" style="filled" fillcolor="white"]`)
	assert.Contains(t, dot, `n_Orphan [label="Orphan\n1 runs, 0.00s" shape="box" style="dashed,filled" fillcolor="yellow"]`)
	assert.Contains(t, dot, "n_n1 -> n_n2\n")
	assert.Contains(t, dot, "n_Wait -> n_n2\n")
	assert.Contains(t, dot, `label="Sync"`)
}

func TestDOTWithoutAnalysis(t *testing.T) {
	dot := DOT(Extract(sampleDefinition()), nil)
	assert.NotContains(t, dot, "n_HTTP_Request")
	assert.NotContains(t, dot, "fillcolor")
	assert.Contains(t, dot, `n_n2 [label="HTTP Request" shape="box"]`)
}
