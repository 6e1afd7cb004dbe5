package errors

import (
	"encoding/json"
	"errors"
)

// Severity distinguishes a hard failure from an advisory note. Both share
// the same Report shape so a pipeline run can aggregate them uniformly
// (spec.md §7 "errors and warnings share one structured shape").
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Position is the source location a Report points at, mirroring
// solast.Pos without importing solast (errors sits below every other
// package in the dependency order).
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Report is the canonical structured diagnostic type. Every error builder
// across every phase returns a *Report, which can be wrapped as a
// ReportError to survive errors.As() unwrapping.
type Report struct {
	Schema   string         `json:"schema"` // Always "sol2move.diagnostic/v1"
	Code     string         `json:"code"`   // Phase-prefixed code (LFT003, XFM002, ...)
	Phase    string         `json:"phase"`  // "parse", "lift", "analyze", "transform", "specext", "print", "pipeline"
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Pos      *Position      `json:"pos,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic, sorted keys via
// encoding/json's default map ordering).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric creates a generic error report for failures that have no more
// specific code of their own.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:   "sol2move.diagnostic/v1",
		Code:     "RUNTIME",
		Phase:    phase,
		Severity: SeverityError,
		Message:  err.Error(),
		Data:     map[string]any{},
	}
}

// Fix is an optional suggested remediation attached to a Report.
type Fix struct {
	Description string `json:"description"`
	Patch       string `json:"patch,omitempty"`
}
