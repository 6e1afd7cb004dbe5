// Package pipeline implements the Pipeline Coordinator (spec.md §4.H):
// the single entry point that sequences Source parsing, semantic
// lowering, state-access analysis, AST transformation, optional
// specification extraction, printing, and optional external
// validation/compilation/formatting into one Transpile call.
package pipeline

import (
	"context"
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/external"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/lift"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/manifest"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/printer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/specext"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/xform"
)

// NamedSource is one Source unit handed to Transpile: a context source
// carries the same shape as the primary unit, differing only in how the
// coordinator uses it (spec.md §6 "context-sources[]": parsed only for
// cross-file library and constant resolution, never emitting modules of
// their own).
type NamedSource struct {
	Name   string
	Source string
}

// Options configures one Transpile invocation (spec.md §6's
// configuration surface).
type Options struct {
	ModuleAddress   string // e.g. "0x1" or a named-address alias
	PackageName     string
	ManifestVersion string

	ContextSources []NamedSource

	OptimizationLevel analyzer.OptimizationLevel
	CallStyle         printer.CallStyle
	IndexNotation     bool
	GenerateSpecs     bool
	GenerateManifest  bool
	Format            bool

	// TargetAsFungibleAsset/TargetAsDigitalAsset enable recognizing an
	// ERC-20/ERC-721-shaped contract and naming its primary resource
	// after the runtime's own token-standard vocabulary (spec.md §6).
	TargetAsFungibleAsset bool
	TargetAsDigitalAsset  bool

	Parser    external.SourceParser // required
	Validator external.TargetValidator
	Compiler  external.TargetCompiler
	Formatter external.TargetFormatter
}

// Module is one printed Target module ready to write to disk.
type Module struct {
	Name string
	Text string
}

// Output is Transpile's result: the emitted modules (if any), the
// rendered package manifest (when requested and at least one module was
// produced), and every diagnostic collected across every phase, split by
// severity (spec.md §7).
type Output struct {
	Success  bool
	Modules  []Module
	Manifest string
	Errors   []*errors.Report
	Warnings []*errors.Report
}

func (o *Output) record(reps ...*errors.Report) {
	for _, r := range reps {
		if r == nil {
			continue
		}
		if r.Severity == errors.SeverityWarning {
			o.Warnings = append(o.Warnings, r)
		} else {
			o.Errors = append(o.Errors, r)
		}
	}
}

// Transpile runs the full pipeline over one primary Source unit,
// producing zero or more Target modules.
//
// A failure while processing one contract degrades the run rather than
// aborting it (spec.md §4.H, error code errors.PIP001): that contract
// contributes an error report and is omitted from Modules, and the
// coordinator continues with the contract that follows it. Only a
// failure to parse the primary unit is fatal to the whole run.
func Transpile(ctx context.Context, primaryName, source string, opts Options) Output {
	var out Output

	if opts.Parser == nil {
		out.record(errors.NewGeneric("pipeline", fmt.Errorf("no SourceParser configured")))
		return out
	}

	primaryFile, diags, err := opts.Parser.Parse(ctx, primaryName, source)
	out.record(diagnosticReports("parse", errors.PAR001, diags)...)
	if err != nil {
		out.record(&errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     errors.PAR001,
			Phase:    "parse",
			Severity: errors.SeverityError,
			Message:  err.Error(),
		})
		return out
	}

	primaryNames := map[string]bool{}
	for _, c := range primaryFile.Contracts {
		primaryNames[c.Name] = true
	}

	files := []*solast.File{primaryFile}
	for _, ctxSrc := range opts.ContextSources {
		ctxFile, ctxDiags, ctxErr := opts.Parser.Parse(ctx, ctxSrc.Name, ctxSrc.Source)
		out.record(diagnosticReports("parse", errors.PAR001, ctxDiags)...)
		if ctxErr != nil {
			out.record(&errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.PAR001,
				Phase:    "parse",
				Severity: errors.SeverityWarning,
				Message:  fmt.Sprintf("context source %s: %s", ctxSrc.Name, ctxErr.Error()),
			})
			continue
		}
		files = append(files, ctxFile)
	}

	lifter := lift.New().WithTokenStandardDetection(opts.TargetAsFungibleAsset, opts.TargetAsDigitalAsset)
	contracts, liftReports := lifter.Lift(files)
	out.record(liftReports...)

	az := analyzer.New()
	ct := xform.NewContractTransformer(opts.ModuleAddress)

	shimUsed := false
	for _, c := range contracts {
		// Context-source contracts populate the lifter's base-contract
		// registry (for inheritance resolution against the primary
		// unit) but never emit a module of their own.
		if !primaryNames[c.SourceName] {
			continue
		}

		m, used, degradeReport := processContract(ctx, ct, az, c, opts)
		if degradeReport != nil {
			out.record(degradeReport)
			continue
		}
		if used {
			shimUsed = true
		}
		out.Modules = append(out.Modules, m)
	}

	if shimUsed {
		out.Modules = append(out.Modules, Module{Name: ir.RuntimeShimModule, Text: runtimeShimText(opts.ModuleAddress)})
	}

	validateModules(ctx, opts.Validator, out.Modules, &out)
	compileModules(ctx, opts.Compiler, opts.ModuleAddress, opts.PackageName, out.Modules, &out)

	if opts.GenerateManifest && len(out.Modules) > 0 {
		extra := map[string]string{}
		if shimUsed {
			extra[ir.RuntimeShimModule] = opts.ModuleAddress
		}
		version := opts.ManifestVersion
		if version == "" {
			version = "0.0.1"
		}
		rendered, merr := manifest.New(opts.PackageName, version, opts.ModuleAddress, extra).Render()
		if merr != nil {
			out.record(&errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.PIP003,
				Phase:    "pipeline",
				Severity: errors.SeverityError,
				Message:  merr.Error(),
			})
		} else {
			out.Manifest = rendered
		}
	}

	out.Success = len(out.Modules) > 0
	return out
}

// processContract runs analyze→transform→(specext)→print→(format) for
// one contract, recovering from any panic in that chain and converting
// it into a PIP001 degrade report instead of aborting the run — the
// same continue-on-failure posture internal/lift already applies per
// contract, extended across the remaining phases (spec.md §4.H).
func processContract(ctx context.Context, ct *xform.ContractTransformer, az *analyzer.Analyzer, c *ir.Contract, opts Options) (m Module, usesShim bool, degrade *errors.Report) {
	defer func() {
		if r := recover(); r != nil {
			degrade = &errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.PIP001,
				Phase:    "pipeline",
				Severity: errors.SeverityError,
				Message:  fmt.Sprintf("contract %s failed to transpile: %v", c.SourceName, r),
			}
		}
	}()

	plan, _ := az.Analyze(c, opts.OptimizationLevel)
	mod := ct.WithPlan(plan).Transform(c)

	if opts.GenerateSpecs {
		specext.Extract(&mod)
	}

	usesShim = moduleUsesShim(mod)

	text := printer.Print(mod, printer.Options{CallStyle: opts.CallStyle, IndexNotation: opts.IndexNotation})
	if opts.Format && opts.Formatter != nil {
		if formatted, ferr := formatWithDeadline(ctx, opts.Formatter, text); ferr == nil {
			text = formatted
		}
	}

	return Module{Name: mod.Name, Text: text}, usesShim, nil
}
