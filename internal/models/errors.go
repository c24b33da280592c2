package models

import "github.com/juju/errors"

// Conditions absorbed during analysis. They are recorded on
// ExecutionAnalysis.Issues and never abort a pass.
const (
	ErrMissingDataSection = errors.ConstError("missing run data section")
	ErrMalformedTimestamp = errors.ConstError("malformed timestamp")
	ErrEmptyAnalysis      = errors.ConstError("no node data")
)
