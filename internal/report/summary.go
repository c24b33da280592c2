package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
	"github.com/mattn/go-runewidth"

	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

const (
	rule     = "================================================================================"
	thinRule = "--------------------------------------------------------------------------------"
)

// WriteSummary writes the execution summary: a metadata header, one table
// row per node and a per-node breakdown of every attempt.
func WriteSummary(w io.Writer, a *models.ExecutionAnalysis) error {
	sw := &summaryWriter{w: w}

	if a == nil {
		sw.line("No analysis data available")
		return sw.err
	}

	sw.line("")
	sw.line(rule)
	sw.line("LOOPED NODE EXECUTION SUMMARY")
	sw.line(rule)
	sw.line("Execution ID: %s", a.ExecutionID)
	sw.line("Workflow: %s", a.WorkflowName)
	sw.line("Workflow ID: %s", a.WorkflowID)
	sw.line("Status: %s", a.Status)
	sw.line("Start Time: %s", instant(a.Start))
	sw.line("End Time: %s", instant(a.End))
	if a.HasDuration {
		sw.line("Total Duration: %.2f seconds", a.DurationSeconds)
	} else {
		sw.line("Duration: N/A")
	}
	sw.line("Total Node Executions: %d", a.TotalAttempts)
	sw.line("Unique Nodes: %d", a.TotalNodes)
	sw.line(rule)

	if a.Empty() {
		sw.line("")
		sw.line("No node data available")
		return sw.err
	}

	sw.line("")
	sw.line("%s | %s | %s | %s | %s | %s | %s",
		pad("Node Name", 30), pad("Executions", 10), pad("Total Time", 12),
		pad("Avg Time", 10), pad("Min", 8), pad("Max", 8), pad("Success Rate", 12))
	sw.line(thinRule)
	for _, s := range a.NodeStats() {
		sw.line("%s | %-10d | %-12.2fs | %-10.2fs | %-8.2fs | %-8.2fs | %-12.1f%%",
			pad(s.NodeName, 30), s.Count, s.TotalSeconds, s.AverageSeconds,
			s.MinSeconds, s.MaxSeconds, s.SuccessRatePct)
	}
	sw.line(rule)

	for _, s := range a.NodeStats() {
		sw.line("")
		sw.line("%s", s.NodeName)
		sw.line(thinRule[:50])
		sw.line("Total Executions: %d", s.Count)
		sw.line("Total Time (summed): %.2f seconds", s.TotalSeconds)
		sw.line("Average Time: %.2f seconds", s.AverageSeconds)
		sw.line("Min Time: %.2f seconds", s.MinSeconds)
		sw.line("Max Time: %.2f seconds", s.MaxSeconds)
		sw.line("Success Rate: %.1f%%", s.SuccessRatePct)
		sw.line("")
		sw.line("Individual Executions:")
		for i, attempt := range s.Attempts {
			sw.line("  %d. Duration: %s at %s (Status: %s)",
				i+1, attemptDuration(attempt), attemptStart(attempt), attempt.Status())
		}
	}

	return sw.err
}

type summaryWriter struct {
	w   io.Writer
	err error
}

func (sw *summaryWriter) line(format string, args ...any) {
	if sw.err != nil {
		return
	}
	_, err := fmt.Fprintf(sw.w, format+"\n", args...)
	sw.err = errors.Trace(err)
}

// pad left-aligns s in a column of the given display width. Longer values are
// kept whole.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func instant(i timeutils.Instant) string {
	if !i.Defined() {
		return "N/A"
	}
	return i.String()
}

func attemptDuration(a models.RunAttempt) string {
	d, ok := a.Duration()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.3fs", d)
}

func attemptStart(a models.RunAttempt) string {
	start, ok := a.Start()
	if !ok {
		return "N/A"
	}
	return start.Format("15:04:05.000")
}

// Issues writes one line per absorbed condition, if any.
func Issues(w io.Writer, a *models.ExecutionAnalysis) error {
	if a == nil || len(a.Issues) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("\nWarnings:\n")
	for _, issue := range a.Issues {
		sb.WriteString("  - ")
		sb.WriteString(issue.Error())
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return errors.Trace(err)
}
