package models

import (
	"strings"

	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

type AttemptStatus string

const (
	StatusSuccess AttemptStatus = "success"
	StatusError   AttemptStatus = "error"
	StatusUnknown AttemptStatus = "unknown"
)

// ParseAttemptStatus normalises a raw execution status. Values other than
// success and error are kept verbatim so they show up in reports.
func ParseAttemptStatus(s string) AttemptStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusUnknown
	}
	return AttemptStatus(s)
}

// RunAttempt is one recorded execution of a node. Start and duration are
// either both defined or both undefined.
type RunAttempt struct {
	nodeName string
	start    timeutils.Instant
	duration float64
	timed    bool
	status   AttemptStatus
	index    int
}

// NewRunAttempt builds an attempt without timing information.
func NewRunAttempt(nodeName string, status AttemptStatus, index int) RunAttempt {
	return RunAttempt{nodeName: nodeName, status: status, index: index}
}

// NewTimedRunAttempt builds an attempt with a start instant and a duration in seconds.
func NewTimedRunAttempt(nodeName string, start timeutils.Instant, seconds float64, status AttemptStatus, index int) RunAttempt {
	return RunAttempt{nodeName: nodeName, start: start, duration: seconds, timed: true, status: status, index: index}
}

func (a RunAttempt) NodeName() string      { return a.nodeName }
func (a RunAttempt) Status() AttemptStatus { return a.status }
func (a RunAttempt) SequenceIndex() int    { return a.index }
func (a RunAttempt) Timed() bool           { return a.timed }

// Start returns the start instant and whether it is defined.
func (a RunAttempt) Start() (timeutils.Instant, bool) {
	return a.start, a.timed
}

// Duration returns the duration in seconds and whether it is defined.
func (a RunAttempt) Duration() (float64, bool) {
	return a.duration, a.timed
}

// NodeStats aggregates all attempts of one node.
type NodeStats struct {
	NodeName       string
	Count          int
	TotalSeconds   float64
	AverageSeconds float64
	MinSeconds     float64
	MaxSeconds     float64
	SuccessCount   int
	ErrorCount     int
	SuccessRatePct float64
	Attempts       []RunAttempt
}

// ExecutionAnalysis is the result of one analysis pass over an execution record.
type ExecutionAnalysis struct {
	ExecutionID     string
	WorkflowID      string
	WorkflowName    string
	Status          string
	CreatedAt       string
	Start           timeutils.Instant
	End             timeutils.Instant
	DurationSeconds float64
	HasDuration     bool

	// Attempts is the flattened list in run-data order.
	Attempts      []RunAttempt
	TotalNodes    int
	TotalAttempts int
	HasRunData    bool

	Workflow WorkflowDefinition
	Issues   []error

	order []string
	stats map[string]*NodeStats
}

// AddNodeStats appends stats for a node not seen before. Stats for an
// already known node replace the previous value in place.
func (a *ExecutionAnalysis) AddNodeStats(s *NodeStats) {
	if a.stats == nil {
		a.stats = make(map[string]*NodeStats)
	}
	if _, exists := a.stats[s.NodeName]; !exists {
		a.order = append(a.order, s.NodeName)
	}
	a.stats[s.NodeName] = s
	a.TotalNodes = len(a.order)
}

// NodeStats returns the stats of every node in first-seen order.
func (a *ExecutionAnalysis) NodeStats() []*NodeStats {
	out := make([]*NodeStats, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.stats[name])
	}
	return out
}

// NodeNames returns the node names in first-seen order.
func (a *ExecutionAnalysis) NodeNames() []string {
	return append([]string(nil), a.order...)
}

// Stats looks up a node by name.
func (a *ExecutionAnalysis) Stats(name string) (*NodeStats, bool) {
	s, ok := a.stats[name]
	return s, ok
}

// Empty reports whether the analysis has no node data at all.
func (a *ExecutionAnalysis) Empty() bool {
	return a == nil || len(a.order) == 0
}

// TopologyNode is one node of the static workflow graph.
type TopologyNode struct {
	ID          string
	DisplayName string
	NodeType    string
	Position    []float64
	Outgoing    []string
}

// TimelineInterval places one attempt on the execution's relative time axis.
type TimelineInterval struct {
	NodeName             string
	RelativeStartSeconds float64
	DurationSeconds      float64
	Status               AttemptStatus
}

// End is the relative second at which the interval finishes.
func (t TimelineInterval) End() float64 {
	return t.RelativeStartSeconds + t.DurationSeconds
}

// Filter returns a copy holding only the nodes keep accepts, with attempts
// and totals narrowed to match. The receiver is not modified.
func (a *ExecutionAnalysis) Filter(keep func(*NodeStats) (bool, error)) (*ExecutionAnalysis, error) {
	out := *a
	out.order, out.stats, out.Attempts = nil, nil, nil
	out.TotalNodes, out.TotalAttempts = 0, 0

	for _, s := range a.NodeStats() {
		ok, err := keep(s)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out.AddNodeStats(s)
		out.TotalAttempts += s.Count
	}
	for _, attempt := range a.Attempts {
		if _, ok := out.stats[attempt.NodeName()]; ok {
			out.Attempts = append(out.Attempts, attempt)
		}
	}
	return &out, nil
}
