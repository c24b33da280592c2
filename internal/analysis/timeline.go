package analysis

import (
	"sort"

	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
	"github.com/imishinist/n8n-timings/internal/topology"
)

// SpanMargin pads the visible timeline span, in seconds.
const SpanMargin = 0.5

// Timeline is the hierarchical view of an execution: one row per node with
// its timed attempts placed relative to the execution start.
type Timeline struct {
	Reference timeutils.Instant
	Rows      []TimelineRow
	// Origin is the smallest relative start, or 0 when no interval starts earlier.
	Origin float64
	// Span is the latest interval end plus SpanMargin, never less than
	// SpanMargin.
	Span float64
}

type TimelineRow struct {
	NodeName  string
	Label     string
	NodeType  string
	Intervals []models.TimelineInterval
}

// Intervals returns the intervals of a node, if it has a row.
func (t Timeline) Intervals(nodeName string) ([]models.TimelineInterval, bool) {
	for _, row := range t.Rows {
		if row.NodeName == nodeName {
			return row.Intervals, true
		}
	}
	return nil, false
}

func (t Timeline) Empty() bool {
	return len(t.Rows) == 0
}

// BuildTimeline places every timed attempt on the execution's relative time
// axis. Rows are ordered by their first interval; nodes without a timed
// attempt get no row. The topology only supplies labels and node types.
func BuildTimeline(a *models.ExecutionAnalysis, topo *topology.Topology) Timeline {
	var tl Timeline
	if a.Empty() {
		return tl
	}

	tl.Reference = reference(a)
	if !tl.Reference.Defined() {
		return tl
	}

	for _, stats := range a.NodeStats() {
		var timed []models.RunAttempt
		for _, attempt := range stats.Attempts {
			if attempt.Timed() {
				timed = append(timed, attempt)
			}
		}
		if len(timed) == 0 {
			continue
		}

		sort.SliceStable(timed, func(i, j int) bool {
			si, _ := timed[i].Start()
			sj, _ := timed[j].Start()
			return si.Before(sj)
		})

		row := TimelineRow{NodeName: stats.NodeName, Label: stats.NodeName}
		if node, ok := topo.Lookup(stats.NodeName); ok {
			row.Label = node.DisplayName
			row.NodeType = node.NodeType
		}

		for _, attempt := range timed {
			start, _ := attempt.Start()
			duration, _ := attempt.Duration()
			interval := models.TimelineInterval{
				NodeName:             stats.NodeName,
				RelativeStartSeconds: start.Seconds(tl.Reference),
				DurationSeconds:      duration,
				Status:               attempt.Status(),
			}
			row.Intervals = append(row.Intervals, interval)

			if interval.RelativeStartSeconds < tl.Origin {
				tl.Origin = interval.RelativeStartSeconds
			}
			if interval.End() > tl.Span {
				tl.Span = interval.End()
			}
		}
		tl.Rows = append(tl.Rows, row)
	}

	if len(tl.Rows) > 0 {
		tl.Span += SpanMargin
	}

	sort.SliceStable(tl.Rows, func(i, j int) bool {
		return tl.Rows[i].Intervals[0].RelativeStartSeconds < tl.Rows[j].Intervals[0].RelativeStartSeconds
	})

	return tl
}

// reference is the execution start, or the earliest start among the attempts
// the rows are built from when the execution carries none.
func reference(a *models.ExecutionAnalysis) timeutils.Instant {
	if a.Start.Defined() {
		return a.Start
	}
	var earliest timeutils.Instant
	for _, stats := range a.NodeStats() {
		for _, attempt := range stats.Attempts {
			start, ok := attempt.Start()
			if !ok {
				continue
			}
			if !earliest.Defined() || start.Before(earliest) {
				earliest = start
			}
		}
	}
	return earliest
}
