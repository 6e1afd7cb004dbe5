// Command sol2move converts Solidity-shaped Source contracts into
// Target (Aptos Move) modules (spec.md §6 "CLI surface").
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/external"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/pipeline"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/printer"
)

var (
	Version = "dev"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// sourceParser is the Source-parsing boundary (spec.md §6): this
// repository transforms an already-parsed Source AST and never parses
// Solidity text itself, so an embedder wires a concrete
// external.SourceParser in here (e.g. one backed by `solc`'s compact
// AST JSON output) before convert/explain can do real work.
var sourceParser external.SourceParser

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch flag.Arg(0) {
	case "convert":
		runConvert(flag.Args()[1:])
	case "explain":
		runExplain(flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("%s %s\n", bold("sol2move"), Version)
}

func printHelp() {
	fmt.Println(bold("sol2move") + " - Solidity-to-Move transpiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sol2move <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file.sol>   Transpile a Source file into Target modules\n", cyan("convert"))
	fmt.Printf("  %s <report.json>  Browse a prior convert run's diagnostics interactively\n", cyan("explain"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version               Print version information")
	fmt.Println("  --help                  Show this help message")
	fmt.Println()
	fmt.Println("convert flags:")
	fmt.Println("  -out <dir>              Output directory (default \"out\")")
	fmt.Println("  -config <file>          sol2move.yaml project config, applied before flags")
	fmt.Println("  -address <addr>         Module address (default \"0x1\")")
	fmt.Println("  -package <name>         Package name for the manifest")
	fmt.Println("  -optimization <level>   low | medium | high (default \"low\")")
	fmt.Println("  -call-style <style>     module | receiver (default \"module\")")
	fmt.Println("  -index-notation         Enable index notation in emitted code")
	fmt.Println("  -manifest               Emit a package manifest")
	fmt.Println("  -specs                  Include specification blocks")
	fmt.Println("  -format                 Post-process through the external formatter")
	fmt.Println("  -fungible-asset          Recognize ERC-20-shaped contracts")
	fmt.Println("  -digital-asset           Recognize ERC-721-shaped contracts")
	fmt.Println("  -context <file>         Additional context source; repeatable")
	fmt.Println("  -report <file>          Write the JSON diagnostic report to this path")
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	out := fs.String("out", "out", "output directory")
	configPath := fs.String("config", "", "sol2move.yaml project config path")
	address := fs.String("address", "0x1", "module address")
	pkg := fs.String("package", "", "package name")
	optLevel := fs.String("optimization", "low", "low | medium | high")
	callStyle := fs.String("call-style", "module", "module | receiver")
	indexNotation := fs.Bool("index-notation", false, "enable index notation")
	manifest := fs.Bool("manifest", false, "emit a package manifest")
	specs := fs.Bool("specs", false, "include specification blocks")
	format := fs.Bool("format", false, "post-process through the external formatter")
	fungibleAsset := fs.Bool("fungible-asset", false, "recognize ERC-20-shaped contracts")
	digitalAsset := fs.Bool("digital-asset", false, "recognize ERC-721-shaped contracts")
	reportPath := fs.String("report", "", "write the JSON diagnostic report to this path")
	var contextPaths stringList
	fs.Var(&contextPaths, "context", "additional context source file (repeatable)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing source file argument\n", red("Error"))
		fmt.Println("Usage: sol2move convert <file.sol> [flags]")
		os.Exit(1)
	}
	sourcePath := fs.Arg(0)

	if sourceParser == nil {
		fmt.Fprintf(os.Stderr, "%s: no Source parser configured; sol2move needs an external.SourceParser wired into cmd/sol2move to parse Solidity text\n", red("Error"))
		os.Exit(1)
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), sourcePath, err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		ModuleAddress:         *address,
		PackageName:           *pkg,
		OptimizationLevel:     parseLevel(*optLevel),
		CallStyle:             parseCallStyle(*callStyle),
		IndexNotation:         *indexNotation,
		GenerateManifest:      *manifest,
		GenerateSpecs:         *specs,
		Format:                *format,
		TargetAsFungibleAsset: *fungibleAsset,
		TargetAsDigitalAsset:  *digitalAsset,
		Parser:                sourceParser,
	}

	if *configPath != "" {
		cfg, cerr := pipeline.LoadProjectConfig(*configPath)
		if cerr != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), cerr)
			os.Exit(1)
		}
		cfg.ApplyTo(&opts)
		opts.Parser = sourceParser // config never names a parser
	}

	for _, p := range contextPaths {
		data, cerr := os.ReadFile(p)
		if cerr != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read context source %q: %v\n", red("Error"), p, cerr)
			os.Exit(1)
		}
		opts.ContextSources = append(opts.ContextSources, pipeline.NamedSource{Name: filepath.Base(p), Source: string(data)})
	}

	result := pipeline.Transpile(context.Background(), filepath.Base(sourcePath), string(content), opts)

	printDiagnostics(result.Errors, result.Warnings)

	if *reportPath != "" {
		if werr := writeReport(*reportPath, result); werr != nil {
			fmt.Fprintf(os.Stderr, "%s: writing report: %v\n", red("Error"), werr)
		}
	}

	if !result.Success {
		fmt.Fprintf(os.Stderr, "%s: transpile produced no modules\n", red("Error"))
		os.Exit(1)
	}

	if err := writeModules(*out, result); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	fmt.Printf("%s wrote %d module(s) to %s\n", green("✓"), len(result.Modules), *out)
}

func writeModules(outDir string, result pipeline.Output) error {
	sourcesDir := filepath.Join(outDir, "sources")
	if err := os.MkdirAll(sourcesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sourcesDir, err)
	}
	for _, m := range result.Modules {
		path := filepath.Join(sourcesDir, m.Name+".move")
		if err := os.WriteFile(path, []byte(m.Text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if result.Manifest != "" {
		path := filepath.Join(outDir, "Manifest.move")
		if err := os.WriteFile(path, []byte(result.Manifest), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func printDiagnostics(errs, warnings []*errors.Report) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n", yellow("warning"), w.Code, w.Message)
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n", red("error"), e.Code, e.Message)
	}
}

type reportDoc struct {
	Success  bool             `json:"success"`
	Modules  []string         `json:"modules"`
	Errors   []*errors.Report `json:"errors"`
	Warnings []*errors.Report `json:"warnings"`
}

func writeReport(path string, result pipeline.Output) error {
	var names []string
	for _, m := range result.Modules {
		names = append(names, m.Name)
	}
	doc := reportDoc{Success: result.Success, Modules: names, Errors: result.Errors, Warnings: result.Warnings}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func parseLevel(s string) analyzer.OptimizationLevel {
	switch strings.ToLower(s) {
	case "high":
		return analyzer.LevelHigh
	case "medium":
		return analyzer.LevelMedium
	default:
		return analyzer.LevelLow
	}
}

func parseCallStyle(s string) printer.CallStyle {
	if strings.ToLower(s) == "receiver" {
		return printer.CallStyleReceiver
	}
	return printer.CallStyleModuleQualified
}

// stringList accumulates repeated -context flag occurrences.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// runExplain loads a JSON diagnostic report written by a prior `convert
// -report` invocation and lets the user browse its errors and warnings
// interactively, mirroring the teacher's own liner-driven REPL loop.
func runExplain(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing report file argument\n", red("Error"))
		fmt.Println("Usage: sol2move explain <report.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read report %q: %v\n", red("Error"), args[0], err)
		os.Exit(1)
	}

	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "%s: parsing report: %v\n", red("Error"), err)
		os.Exit(1)
	}

	all := append(append([]*errors.Report{}, doc.Errors...), doc.Warnings...)
	if len(all) == 0 {
		fmt.Println(green("No diagnostics in this report."))
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range []string{"list", "show", "quit"} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Printf("%s %d diagnostic(s) loaded. Type %s for help.\n", bold("sol2move explain"), len(all), cyan("help"))
	explainLoop(line, os.Stdout, all)
}

func explainLoop(line *liner.State, out io.Writer, all []*errors.Report) {
	for {
		input, err := line.Prompt("explain> ")
		if err != nil {
			fmt.Fprintln(out, "")
			return
		}
		line.AppendHistory(input)
		input = strings.TrimSpace(input)
		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Fprintln(out, "Commands: list, show <n>, quit")
		case "list":
			for i, r := range all {
				fmt.Fprintf(out, "  [%d] %s %s: %s\n", i, severityLabel(r), r.Code, r.Message)
			}
		case "show":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Usage: show <n>")
				continue
			}
			idx := -1
			fmt.Sscanf(fields[1], "%d", &idx)
			if idx < 0 || idx >= len(all) {
				fmt.Fprintf(out, "no diagnostic #%s\n", fields[1])
				continue
			}
			r := all[idx]
			fmt.Fprintf(out, "code:     %s\n", r.Code)
			fmt.Fprintf(out, "phase:    %s\n", r.Phase)
			fmt.Fprintf(out, "severity: %s\n", r.Severity)
			fmt.Fprintf(out, "message:  %s\n", r.Message)
			if r.Pos != nil {
				fmt.Fprintf(out, "position: %s:%d:%d\n", r.Pos.File, r.Pos.Line, r.Pos.Column)
			}
			if info, ok := errors.GetErrorInfo(r.Code); ok {
				fmt.Fprintf(out, "about:    %s\n", info.Description)
			}
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(out, "unknown command %q; type help\n", fields[0])
		}
	}
}

func severityLabel(r *errors.Report) string {
	if r.Severity == errors.SeverityError {
		return red("error")
	}
	return yellow("warning")
}
