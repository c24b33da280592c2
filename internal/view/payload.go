package view

import (
	"fmt"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/models"
)

type Bar struct {
	Label string
	Value float64
}

// Payload is everything a renderer needs to draw one view. It never refers
// back to the machine that produced it.
type Payload struct {
	View  ID
	Kind  Kind
	Index int
	Total int
	Title string
	Unit  string
	Color string
	Info  string

	Bars     []Bar
	Timeline *analysis.Timeline

	// Empty is set when there is nothing to draw; renderers show a
	// "no data" notice instead of an empty chart.
	Empty bool
}

// Data is the analysis output the views are built from.
type Data struct {
	Analysis *models.ExecutionAnalysis
	Timeline analysis.Timeline
}

func buildPayload(def Definition, index, total int, data Data) Payload {
	p := Payload{
		View:  def.ID,
		Kind:  def.Kind,
		Index: index,
		Total: total,
		Title: fmt.Sprintf("%s (Plot %d/%d)", def.Title, index+1, total),
		Unit:  def.Unit,
		Color: def.Color,
		Info:  info(data.Analysis),
	}

	if def.Kind == KindTimeline {
		tl := data.Timeline
		p.Timeline = &tl
		p.Empty = tl.Empty()
		return p
	}

	if data.Analysis.Empty() {
		p.Empty = true
		return p
	}
	for _, stats := range data.Analysis.NodeStats() {
		p.Bars = append(p.Bars, Bar{Label: stats.NodeName, Value: barValue(def.ID, stats)})
	}
	return p
}

func barValue(id ID, stats *models.NodeStats) float64 {
	switch id {
	case TotalTime:
		return stats.TotalSeconds
	case AverageTime:
		return stats.AverageSeconds
	case Count:
		return float64(stats.Count)
	case SuccessRate:
		return stats.SuccessRatePct
	}
	return 0
}

func info(a *models.ExecutionAnalysis) string {
	if a == nil {
		return "Execution N/A"
	}
	return fmt.Sprintf("Execution %s | %s | %d nodes", a.ExecutionID, a.WorkflowName, a.TotalNodes)
}
