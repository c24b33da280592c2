package analysis

import (
	"io"
	"log/slog"

	"github.com/juju/errors"

	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

// Analyzer turns execution documents into ExecutionAnalysis values. It holds
// no state between passes.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer returns an Analyzer that traces its work on logger at debug
// level. A nil logger discards output.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{logger: logger}
}

// Analyze runs one full pass. It never fails: absent or malformed input
// yields a degraded analysis with the conditions listed in Issues.
func (an *Analyzer) Analyze(doc *models.ExecutionDocument) *models.ExecutionAnalysis {
	if doc == nil {
		doc = &models.ExecutionDocument{}
	}

	result := &models.ExecutionAnalysis{
		ExecutionID:  doc.ID,
		WorkflowID:   doc.WorkflowID,
		WorkflowName: doc.WorkflowName,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
		Workflow:     doc.Workflow,
	}

	result.Start = an.executionInstant(result, "startedAt", doc.StartedAt)
	result.End = an.executionInstant(result, "stoppedAt", doc.StoppedAt)
	if result.Start.Defined() && result.End.Defined() {
		result.DurationSeconds = result.End.Seconds(result.Start)
		result.HasDuration = true
	}

	if !doc.HasRunDataSection {
		result.Issues = append(result.Issues, errors.Annotatef(models.ErrMissingDataSection,
			"execution %s", doc.ID))
		an.logger.Debug("no runData section in execution", "execution_id", doc.ID)
	}

	for _, node := range doc.RunData {
		an.logger.Debug("processing node", "node", node.Name, "attempts", len(node.Attempts))
	}

	attempts, issues := Flatten(doc.RunData)
	for _, issue := range issues {
		an.logger.Debug("attempt timing dropped", "error", issue)
	}
	result.Issues = append(result.Issues, issues...)
	result.Attempts = attempts
	result.TotalAttempts = len(attempts)
	result.HasRunData = len(attempts) > 0

	for _, stats := range Aggregate(attempts) {
		an.logger.Debug("node summary",
			"node", stats.NodeName,
			"count", stats.Count,
			"total_seconds", stats.TotalSeconds,
			"success_rate", stats.SuccessRatePct)
		result.AddNodeStats(stats)
	}

	if result.Empty() {
		result.Issues = append(result.Issues, errors.Annotatef(models.ErrEmptyAnalysis,
			"execution %s", doc.ID))
	}

	return result
}

func (an *Analyzer) executionInstant(result *models.ExecutionAnalysis, field string, raw any) timeutils.Instant {
	if missingStart(raw) {
		return timeutils.Instant{}
	}
	inst, err := timeutils.Normalize(raw)
	if err != nil {
		result.Issues = append(result.Issues, errors.Annotatef(models.ErrMalformedTimestamp,
			"%s: %v", field, err))
		an.logger.Debug("unparseable execution timestamp", "field", field, "value", raw)
		return timeutils.Instant{}
	}
	return inst
}
