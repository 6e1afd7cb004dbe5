// Package external defines this compiler's boundary contracts (spec.md
// §6): the Source parser it consumes, and the optional Target validator,
// compiler, and formatter it may hand emitted modules to. Every external
// call is wrapped with a deadline, since the coordinator's own work is
// synchronous and these are its only suspension points (spec.md §5).
package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

// Diagnostic is one error or warning reported across any external
// boundary, normalized to a common shape: source name, position,
// severity, and message.
type Diagnostic struct {
	Source   string
	Line     int
	Column   int
	Severity string
	Message  string
}

// NormalizeSeverity folds a tool-reported severity string onto this
// compiler's three-level scale, matching case-insensitively (spec.md §6
// "Severity strings are normalized case-insensitively").
func NormalizeSeverity(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error", "fatal":
		return "error"
	case "warning", "warn":
		return "warning"
	default:
		return "info"
	}
}

// SourceParser is the input boundary (spec.md §6 "Source parser
// contract"): it receives a text blob and returns a position-tagged
// Source AST, or a list of parse diagnostics. The core tolerates
// parse-recoverable errors; only the primary unit's failure aborts the
// whole transpile invocation (§7).
type SourceParser interface {
	Parse(ctx context.Context, name, source string) (*solast.File, []Diagnostic, error)
}

// ValidationResult is what TargetValidator.Validate reports: whether the
// printed Target text parses, plus a structural summary when it does.
type ValidationResult struct {
	Valid      bool
	Errors     []Diagnostic
	Structure  *Structure
}

// Structure summarizes a validated Target unit's top-level declarations —
// enough for the coordinator to sanity-check emitted names without a
// second full parse.
type Structure struct {
	Modules   []string
	Functions []string
	Structs   []string
}

// TargetValidator is the optional validation boundary (spec.md §6). When
// no validator is configured the pipeline still succeeds; validation is
// simply skipped (see NoopValidator).
type TargetValidator interface {
	Validate(ctx context.Context, source string) (ValidationResult, error)
}

// CompileOptions configures one TargetCompiler.Compile call.
type CompileOptions struct {
	Address     string
	PackageName string
	Timeout     time.Duration
}

// CompileResult is what TargetCompiler.Compile reports.
type CompileResult struct {
	Success  bool
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// TargetCompiler is the optional compile-check boundary (spec.md §6).
type TargetCompiler interface {
	Compile(ctx context.Context, modules map[string]string, opts CompileOptions) (CompileResult, error)
}

// TargetFormatter is the optional post-processing boundary (spec.md §6
// "format" option): it runs the external formatter over one printed
// module's text and returns the reformatted text.
type TargetFormatter interface {
	Format(ctx context.Context, source string) (string, error)
}

// Default timeouts for the two external suspension points spec.md §5
// names explicitly: a module-batch compile, and a large compilation.
const (
	DefaultCompileTimeout      = 60 * time.Second
	DefaultLargeCompileTimeout = 120 * time.Second
)

// WithDeadline wraps call with a context carrying timeout and runs it;
// on timeout it returns a diagnostic equivalent to a compile failure
// (spec.md §5 "on timeout the wrapper returns a diagnostic equivalent to
// a compile failure") rather than propagating context.DeadlineExceeded
// directly, so callers can treat every external-boundary failure alike.
func WithDeadline(ctx context.Context, timeout time.Duration, call func(context.Context) error) error {
	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- call(deadlineCtx) }()

	select {
	case err := <-done:
		return err
	case <-deadlineCtx.Done():
		return fmt.Errorf("external call exceeded %s: %w", timeout, deadlineCtx.Err())
	}
}

// NoopValidator is the TargetValidator used when no external syntax
// validator is configured: it reports every module valid without
// inspecting it, matching spec.md §6's "If unavailable, the pipeline
// still succeeds; validation is simply skipped."
type NoopValidator struct{}

func (NoopValidator) Validate(ctx context.Context, source string) (ValidationResult, error) {
	return ValidationResult{Valid: true}, nil
}

// NoopFormatter is the TargetFormatter used when no external formatter is
// configured: it returns source unchanged.
type NoopFormatter struct{}

func (NoopFormatter) Format(ctx context.Context, source string) (string, error) {
	return source, nil
}
