package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/juju/errors"
	"go.jetify.com/typeid"
	"gopkg.in/yaml.v3"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", errors.NotValidf("output format %q", s)
}

// Document is the exported form of an analysis.
type Document struct {
	ReportID        string         `json:"report_id" yaml:"report_id"`
	ExecutionID     string         `json:"execution_id" yaml:"execution_id"`
	WorkflowID      string         `json:"workflow_id" yaml:"workflow_id"`
	WorkflowName    string         `json:"workflow_name" yaml:"workflow_name"`
	Status          string         `json:"status" yaml:"status"`
	CreatedAt       string         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	StartTime       string         `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime         string         `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	DurationSeconds *float64       `json:"duration_seconds" yaml:"duration_seconds"`
	TotalNodes      int            `json:"total_nodes" yaml:"total_nodes"`
	TotalAttempts   int            `json:"total_node_executions" yaml:"total_node_executions"`
	HasDetailedData bool           `json:"has_detailed_data" yaml:"has_detailed_data"`
	Nodes           []NodeDocument `json:"nodes" yaml:"nodes"`
	Timeline        []TimelineRow  `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Issues          []string       `json:"issues,omitempty" yaml:"issues,omitempty"`
}

type NodeDocument struct {
	Name           string            `json:"name" yaml:"name"`
	Executions     int               `json:"total_executions" yaml:"total_executions"`
	TotalSeconds   float64           `json:"total_time" yaml:"total_time"`
	AverageSeconds float64           `json:"average_time" yaml:"average_time"`
	MinSeconds     float64           `json:"min_time" yaml:"min_time"`
	MaxSeconds     float64           `json:"max_time" yaml:"max_time"`
	SuccessCount   int               `json:"success_count" yaml:"success_count"`
	ErrorCount     int               `json:"error_count" yaml:"error_count"`
	SuccessRatePct float64           `json:"success_rate" yaml:"success_rate"`
	Attempts       []AttemptDocument `json:"executions" yaml:"executions"`
}

type AttemptDocument struct {
	Index           int      `json:"index" yaml:"index"`
	StartTime       string   `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	DurationSeconds *float64 `json:"duration" yaml:"duration"`
	Status          string   `json:"status" yaml:"status"`
}

type TimelineRow struct {
	Node      string             `json:"node" yaml:"node"`
	Label     string             `json:"label" yaml:"label"`
	NodeType  string             `json:"node_type,omitempty" yaml:"node_type,omitempty"`
	Intervals []IntervalDocument `json:"intervals" yaml:"intervals"`
}

type IntervalDocument struct {
	Start    float64 `json:"start" yaml:"start"`
	Duration float64 `json:"duration" yaml:"duration"`
	Status   string  `json:"status" yaml:"status"`
}

// NewReportID returns a fresh report_ prefixed type id.
func NewReportID() (string, error) {
	id, err := typeid.WithPrefix("report")
	if err != nil {
		return "", errors.Trace(err)
	}
	return id.String(), nil
}

// Build converts an analysis and its timeline into an export document.
func Build(a *models.ExecutionAnalysis, tl analysis.Timeline) (*Document, error) {
	if a == nil {
		return nil, errors.NotValidf("nil analysis")
	}
	id, err := NewReportID()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ReportID:        id,
		ExecutionID:     a.ExecutionID,
		WorkflowID:      a.WorkflowID,
		WorkflowName:    a.WorkflowName,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		StartTime:       rfc3339(a.Start),
		EndTime:         rfc3339(a.End),
		TotalNodes:      a.TotalNodes,
		TotalAttempts:   a.TotalAttempts,
		HasDetailedData: a.HasRunData,
		Nodes:           []NodeDocument{},
	}
	if a.HasDuration {
		d := a.DurationSeconds
		doc.DurationSeconds = &d
	}

	for _, s := range a.NodeStats() {
		node := NodeDocument{
			Name:           s.NodeName,
			Executions:     s.Count,
			TotalSeconds:   s.TotalSeconds,
			AverageSeconds: s.AverageSeconds,
			MinSeconds:     s.MinSeconds,
			MaxSeconds:     s.MaxSeconds,
			SuccessCount:   s.SuccessCount,
			ErrorCount:     s.ErrorCount,
			SuccessRatePct: s.SuccessRatePct,
		}
		for _, attempt := range s.Attempts {
			ad := AttemptDocument{Index: attempt.SequenceIndex(), Status: string(attempt.Status())}
			if start, ok := attempt.Start(); ok {
				ad.StartTime = rfc3339(start)
			}
			if d, ok := attempt.Duration(); ok {
				ad.DurationSeconds = &d
			}
			node.Attempts = append(node.Attempts, ad)
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, row := range tl.Rows {
		tr := TimelineRow{Node: row.NodeName, Label: row.Label, NodeType: row.NodeType}
		for _, iv := range row.Intervals {
			tr.Intervals = append(tr.Intervals, IntervalDocument{
				Start:    iv.RelativeStartSeconds,
				Duration: iv.DurationSeconds,
				Status:   string(iv.Status),
			})
		}
		doc.Timeline = append(doc.Timeline, tr)
	}

	for _, issue := range a.Issues {
		doc.Issues = append(doc.Issues, issue.Error())
	}
	return doc, nil
}

// Export writes the analysis as JSON or YAML.
func Export(w io.Writer, format Format, a *models.ExecutionAnalysis, tl analysis.Timeline) error {
	doc, err := Build(a, tl)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Trace(enc.Encode(doc))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Trace(err)
		}
		return errors.Trace(enc.Close())
	}
	return errors.NotSupportedf("export format %q", format)
}

// rfc3339 formats aware instants with their offset and naive ones without.
func rfc3339(i timeutils.Instant) string {
	if !i.Defined() {
		return ""
	}
	if i.IsNaive() {
		return i.Format("2006-01-02T15:04:05.999999999")
	}
	return i.Format(time.RFC3339Nano)
}
