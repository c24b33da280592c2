package models

// ExecutionDocument is an execution record after boundary validation. Every
// field is defaulted when the source document lacks it.
type ExecutionDocument struct {
	ID           string
	WorkflowID   string
	WorkflowName string
	Status       string
	StartedAt    any
	StoppedAt    any
	CreatedAt    string
	Workflow     WorkflowDefinition
	RunData      RunData
	// HasRunDataSection is false when data.resultData.runData is absent or not a mapping.
	HasRunDataSection bool
}

// WorkflowDefinition is the static part of a workflow: its nodes and the
// directed connections between them.
type WorkflowDefinition struct {
	Nodes       []WorkflowNode
	Connections []Connection
}

type WorkflowNode struct {
	ID       string
	Name     string
	Type     string
	Position []float64
}

// Connection lists the targets reachable from one source node, in document order.
type Connection struct {
	Source  string
	Targets []string
}

// RunData holds the per-node attempt lists in the order the nodes appear in
// the source document.
type RunData []NodeRuns

type NodeRuns struct {
	Name     string
	Attempts []RawAttempt
}

// RawAttempt is one entry of a node's run list with defaults applied.
type RawAttempt struct {
	// StartTime is the raw start value (epoch milliseconds or an ISO string), nil when absent.
	StartTime any
	// ExecutionTime is in milliseconds. ExecutionTimeValid is false when the raw value was not numeric.
	ExecutionTime      float64
	ExecutionTimeValid bool
	ExecutionStatus    string
	ExecutionIndex     int
}

// Attempts returns the total number of raw attempts across all nodes.
func (r RunData) Attempts() int {
	n := 0
	for _, node := range r {
		n += len(node.Attempts)
	}
	return n
}
