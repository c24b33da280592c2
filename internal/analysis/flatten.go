package analysis

import (
	"math"

	"github.com/juju/errors"
	"github.com/spf13/cast"

	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

// Flatten walks run data in node order, then list order, and returns one
// RunAttempt per raw entry. Attempts whose timing cannot be established keep
// their status and index but carry no start or duration; the reasons are
// returned as issues wrapping models.ErrMalformedTimestamp.
func Flatten(runData models.RunData) ([]models.RunAttempt, []error) {
	attempts := make([]models.RunAttempt, 0, runData.Attempts())
	var issues []error

	for _, node := range runData {
		for i, raw := range node.Attempts {
			attempt, err := flattenAttempt(node.Name, raw)
			if err != nil {
				issues = append(issues, errors.Annotatef(models.ErrMalformedTimestamp,
					"node %q attempt %d: %v", node.Name, i, err))
			}
			attempts = append(attempts, attempt)
		}
	}

	return attempts, issues
}

func flattenAttempt(nodeName string, raw models.RawAttempt) (models.RunAttempt, error) {
	status := models.ParseAttemptStatus(raw.ExecutionStatus)
	untimed := models.NewRunAttempt(nodeName, status, raw.ExecutionIndex)

	if missingStart(raw.StartTime) {
		return untimed, nil
	}

	start, err := timeutils.Normalize(raw.StartTime)
	if err != nil {
		return untimed, err
	}

	ms := raw.ExecutionTime
	if !raw.ExecutionTimeValid || ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return untimed, errors.NotValidf("execution time %v", ms)
	}

	return models.NewTimedRunAttempt(nodeName, start, ms/1000.0, status, raw.ExecutionIndex), nil
}

// missingStart treats absent, empty and zero start values as "no start".
func missingStart(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	}
	f, err := cast.ToFloat64E(v)
	return err == nil && f == 0
}
