package pipeline

import (
	"fmt"
	"os"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/printer"
	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional `sol2move.yaml` project file (spec.md §6):
// everything in Options that has a reasonable textual encoding, for a
// user who'd rather commit a config file than repeat flags.
type ProjectConfig struct {
	ModuleAddress         string   `yaml:"module_address"`
	PackageName           string   `yaml:"package_name"`
	ManifestVersion       string   `yaml:"manifest_version"`
	ContextSources        []string `yaml:"context_sources"`
	OptimizationLevel     string   `yaml:"optimization_level"` // "low" | "medium" | "high"
	CallStyle             string   `yaml:"call_style"`         // "module" | "receiver"
	IndexNotation         bool     `yaml:"index_notation"`
	GenerateSpecs         bool     `yaml:"generate_specs"`
	GenerateManifest      bool     `yaml:"generate_manifest"`
	Format                bool     `yaml:"format"`
	TargetAsFungibleAsset bool     `yaml:"target_as_fungible_asset"`
	TargetAsDigitalAsset  bool     `yaml:"target_as_digital_asset"`
}

// LoadProjectConfig reads and parses a sol2move.yaml file at path,
// wrapping any failure as a PIP002 report (spec.md §7 "configuration
// loading").
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     errors.PIP002,
			Phase:    "pipeline",
			Severity: errors.SeverityError,
			Message:  fmt.Sprintf("reading %s: %s", path, err),
		})
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     errors.PIP002,
			Phase:    "pipeline",
			Severity: errors.SeverityError,
			Message:  fmt.Sprintf("parsing %s: %s", path, err),
		})
	}
	return &cfg, nil
}

// ApplyTo copies every field cfg names except ContextSources onto opts
// unconditionally; the caller decides precedence against flag-sourced
// Options by choosing whether to call this before or after setting those
// fields. cfg.ContextSources holds file paths, not their contents, and
// ApplyTo leaves opts.ContextSources unchanged.
func (cfg *ProjectConfig) ApplyTo(opts *Options) {
	opts.ModuleAddress = cfg.ModuleAddress
	opts.PackageName = cfg.PackageName
	opts.ManifestVersion = cfg.ManifestVersion
	opts.IndexNotation = cfg.IndexNotation
	opts.GenerateSpecs = cfg.GenerateSpecs
	opts.GenerateManifest = cfg.GenerateManifest
	opts.Format = cfg.Format
	opts.TargetAsFungibleAsset = cfg.TargetAsFungibleAsset
	opts.TargetAsDigitalAsset = cfg.TargetAsDigitalAsset
	opts.OptimizationLevel = parseOptimizationLevel(cfg.OptimizationLevel)
	opts.CallStyle = parseCallStyle(cfg.CallStyle)
}

func parseOptimizationLevel(s string) analyzer.OptimizationLevel {
	switch s {
	case "high":
		return analyzer.LevelHigh
	case "medium":
		return analyzer.LevelMedium
	default:
		return analyzer.LevelLow
	}
}

func parseCallStyle(s string) printer.CallStyle {
	if s == "receiver" {
		return printer.CallStyleReceiver
	}
	return printer.CallStyleModuleQualified
}
