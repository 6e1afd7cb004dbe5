package pipeline

import (
	"context"
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/external"
)

// diagnosticReports normalizes a batch of external.Diagnostic values
// into Reports, folding each diagnostic's severity case-insensitively
// (spec.md §6) and falling back to code/phase when the diagnostic itself
// carries no more specific one.
func diagnosticReports(phase, code string, diags []external.Diagnostic) []*errors.Report {
	var out []*errors.Report
	for _, d := range diags {
		// errors.Severity only distinguishes error/warning; external's
		// three-level scale folds its "info" diagnostics down to warning
		// rather than inventing a third Report severity.
		sev := errors.SeverityWarning
		if external.NormalizeSeverity(d.Severity) == "error" {
			sev = errors.SeverityError
		}
		var pos *errors.Position
		if d.Line != 0 || d.Column != 0 || d.Source != "" {
			pos = &errors.Position{File: d.Source, Line: d.Line, Column: d.Column}
		}
		out = append(out, &errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     code,
			Phase:    phase,
			Severity: sev,
			Message:  d.Message,
			Pos:      pos,
		})
	}
	return out
}

// formatWithDeadline runs formatter.Format under the default compile
// timeout (spec.md §5's other named suspension point).
func formatWithDeadline(ctx context.Context, formatter external.TargetFormatter, source string) (string, error) {
	var result string
	err := external.WithDeadline(ctx, external.DefaultCompileTimeout, func(dctx context.Context) error {
		out, ferr := formatter.Format(dctx, source)
		result = out
		return ferr
	})
	return result, err
}

// validateModules runs validator over every printed module's text when
// configured, recording any reported invalidity as a PIP004 report; a
// nil validator is simply skipped (spec.md §6 "If unavailable, the
// pipeline still succeeds; validation is simply skipped").
func validateModules(ctx context.Context, validator external.TargetValidator, modules []Module, out *Output) {
	if validator == nil {
		return
	}
	for _, m := range modules {
		var result external.ValidationResult
		err := external.WithDeadline(ctx, external.DefaultCompileTimeout, func(dctx context.Context) error {
			r, verr := validator.Validate(dctx, m.Text)
			result = r
			return verr
		})
		if err != nil {
			out.record(&errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.PIP004,
				Phase:    "pipeline",
				Severity: errors.SeverityError,
				Message:  fmt.Sprintf("validating %s: %s", m.Name, err.Error()),
			})
			continue
		}
		if !result.Valid {
			out.record(diagnosticReports("pipeline", errors.PIP004, result.Errors)...)
		}
	}
}

// compileModules runs compiler.Compile over every printed module as one
// batch when configured, recording a compile-check failure as a PIP005
// report; a nil compiler is skipped entirely.
func compileModules(ctx context.Context, compiler external.TargetCompiler, addr, pkg string, modules []Module, out *Output) {
	if compiler == nil || len(modules) == 0 {
		return
	}
	batch := map[string]string{}
	for _, m := range modules {
		batch[m.Name] = m.Text
	}

	timeout := external.DefaultCompileTimeout
	if len(modules) > 8 {
		timeout = external.DefaultLargeCompileTimeout
	}

	var result external.CompileResult
	err := external.WithDeadline(ctx, timeout, func(dctx context.Context) error {
		r, cerr := compiler.Compile(dctx, batch, external.CompileOptions{Address: addr, PackageName: pkg, Timeout: timeout})
		result = r
		return cerr
	})
	if err != nil {
		out.record(&errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     errors.PIP005,
			Phase:    "pipeline",
			Severity: errors.SeverityError,
			Message:  err.Error(),
		})
		return
	}
	out.record(diagnosticReports("pipeline", errors.PIP005, result.Warnings)...)
	if !result.Success {
		out.record(diagnosticReports("pipeline", errors.PIP005, result.Errors)...)
	}
}
