package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/n8n-timings/internal/models"
)

func nodeNames(rd models.RunData) []string {
	var names []string
	for _, n := range rd {
		names = append(names, n.Name)
	}
	return names
}

func TestParseFileJSON(t *testing.T) {
	doc, err := ParseFile("testdata/execution.json")
	require.NoError(t, err)

	assert.Equal(t, "4821", doc.ID)
	assert.Equal(t, "wf-17", doc.WorkflowID)
	assert.Equal(t, "Sync Contacts", doc.WorkflowName)
	assert.Equal(t, "success", doc.Status)
	assert.Equal(t, "2024-03-01T10:00:00.000Z", doc.StartedAt)
	assert.Equal(t, "2024-03-01T10:00:00.000Z", doc.CreatedAt)
	assert.True(t, doc.HasRunDataSection)

	assert.Equal(t, []string{"Manual Trigger", "Split In Batches", "HTTP Request", "Wait"}, nodeNames(doc.RunData))
	assert.Equal(t, 7, doc.RunData.Attempts())

	http := doc.RunData[2]
	require.Len(t, http.Attempts, 2)
	assert.Equal(t, json.Number("1709287200020"), http.Attempts[0].StartTime)
	assert.Equal(t, 250.0, http.Attempts[0].ExecutionTime)
	assert.Equal(t, "error", http.Attempts[1].ExecutionStatus)
	assert.Equal(t, 5, http.Attempts[1].ExecutionIndex)

	wait := doc.RunData[3]
	assert.Nil(t, wait.Attempts[1].StartTime)

	require.Len(t, doc.Workflow.Nodes, 4)
	assert.Equal(t, "", doc.Workflow.Nodes[3].ID)
	assert.Equal(t, "Wait", doc.Workflow.Nodes[3].Name)
	assert.Equal(t, []float64{400, 0}, doc.Workflow.Nodes[2].Position)

	require.Len(t, doc.Workflow.Connections, 4)
	assert.Equal(t, "Split In Batches", doc.Workflow.Connections[1].Source)
	assert.Equal(t, []string{"HTTP Request"}, doc.Workflow.Connections[1].Targets)
	assert.Equal(t, []string{"Wait", "Ghost"}, doc.Workflow.Connections[2].Targets)
}

func TestParseFileYAML(t *testing.T) {
	doc, err := ParseFile("testdata/execution.yaml")
	require.NoError(t, err)

	assert.Equal(t, "4821", doc.ID)
	assert.Equal(t, []string{"Zeta", "Alpha"}, nodeNames(doc.RunData))
	assert.Equal(t, int64(1709287200000), doc.RunData[0].Attempts[0].StartTime)
	assert.Equal(t, 20.0, doc.RunData[1].Attempts[0].ExecutionTime)
	assert.Equal(t, "success", doc.RunData[0].Attempts[0].ExecutionStatus)
	assert.Equal(t, 1, doc.RunData[1].Attempts[0].ExecutionIndex)
	assert.Equal(t, []string{"n3"}, doc.Workflow.Connections[0].Targets)
}

func TestParseFileUnsupported(t *testing.T) {
	_, err := ParseFile("testdata/execution.csv")
	require.Error(t, err)
}

func TestMissingPathsDegrade(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty object", input: `{}`},
		{name: "no run data", input: `{"id": 7, "data": {"resultData": {}}}`},
		{name: "null data", input: `{"id": 7, "data": null}`},
		{name: "run data is a string", input: `{"data": {"resultData": {"runData": "oops"}}}`},
		{name: "top level array", input: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSONExecution(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.False(t, doc.HasRunDataSection)
			assert.Empty(t, doc.RunData)
			assert.Equal(t, "Unknown", doc.WorkflowName)
			assert.Equal(t, "unknown", doc.Status)
		})
	}
}

func TestRawAttemptDefaults(t *testing.T) {
	doc, err := ParseJSONExecution(strings.NewReader(`{
		"data": {"resultData": {"runData": {
			"A": [{}, {"startTime": 5, "executionTime": "slow"}, "not an attempt", {"startTime": 6, "executionTime": true}],
			"B": {"not": "a list"}
		}}}
	}`))
	require.NoError(t, err)
	require.True(t, doc.HasRunDataSection)
	require.Len(t, doc.RunData, 1)

	attempts := doc.RunData[0].Attempts
	require.Len(t, attempts, 3)

	assert.Nil(t, attempts[0].StartTime)
	assert.Equal(t, 0.0, attempts[0].ExecutionTime)
	assert.True(t, attempts[0].ExecutionTimeValid)
	assert.Equal(t, "unknown", attempts[0].ExecutionStatus)
	assert.Equal(t, 0, attempts[0].ExecutionIndex)

	assert.False(t, attempts[1].ExecutionTimeValid)
	assert.False(t, attempts[2].ExecutionTimeValid)
	assert.Zero(t, attempts[2].ExecutionTime)
}

func TestRunDataKeepsDocumentOrder(t *testing.T) {
	doc, err := ParseJSONExecution(strings.NewReader(`{"data": {"resultData": {"runData": {
		"zeta": [], "alpha": [], "mid": [], "alpha": [{"executionTime": 1}]
	}}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, nodeNames(doc.RunData))
	assert.Len(t, doc.RunData[1].Attempts, 1)
}

func TestParseJSONSyntaxError(t *testing.T) {
	_, err := ParseJSONExecution(strings.NewReader(`{"id": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON execution")
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/nope.json")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.NotSupported))
}
