// Package lift transforms a parsed Source file into canonical IR
// contracts (spec.md §4.B "Semantic Lowering"): it flattens inheritance,
// inlines modifiers, synthesizes constructors into initialize functions,
// and marks functions guarded by a recognized reentrancy modifier. It does
// not perform type harmonization or resource partitioning — those belong
// to internal/xform and internal/analyzer respectively.
package lift

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

// Lifter holds the state shared across a single Lift invocation: the
// registry of every contract declared across the input files, needed to
// resolve base-contract references during linearization.
type Lifter struct {
	byName         map[string]*solast.Contract
	detectFungible bool
	detectDigital  bool
}

// New creates a Lifter with an empty contract registry.
func New() *Lifter {
	return &Lifter{byName: make(map[string]*solast.Contract)}
}

// WithTokenStandardDetection enables recognizing ERC-20/ERC-721-shaped
// contracts (spec.md §6 target-as-fungible-asset/target-as-digital-asset):
// a contract whose merged function set matches the recognized shape gets
// ir.Contract.StandardTemplate set accordingly.
func (l *Lifter) WithTokenStandardDetection(fungible, digital bool) *Lifter {
	l.detectFungible = fungible
	l.detectDigital = digital
	return l
}

// fungibleAssetShape is the minimal ERC-20 function surface this lifter
// recognizes.
var fungibleAssetShape = []string{"transfer", "balanceOf", "totalSupply"}

// digitalAssetShape is the minimal ERC-721 function surface this lifter
// recognizes.
var digitalAssetShape = []string{"ownerOf", "transferFrom", "approve"}

func detectStandardTemplate(fns []*solast.FuncDecl, fungible, digital bool) string {
	if !fungible && !digital {
		return ""
	}
	names := map[string]bool{}
	for _, fn := range fns {
		names[fn.Name] = true
	}
	has := func(shape []string) bool {
		for _, n := range shape {
			if !names[n] {
				return false
			}
		}
		return true
	}
	if fungible && has(fungibleAssetShape) {
		return ir.TemplateFungibleAsset
	}
	if digital && has(digitalAssetShape) {
		return ir.TemplateDigitalAsset
	}
	return ""
}

// Lift lowers every concrete contract across files into an IR contract,
// skipping interfaces (with an LFT001 warning) and reporting any
// unrecoverable structural error as a Report. Warnings and errors are
// returned together; callers distinguish them via Report.Severity.
func (l *Lifter) Lift(files []*solast.File) ([]*ir.Contract, []*errors.Report) {
	var reports []*errors.Report

	for _, f := range files {
		for _, c := range f.Contracts {
			l.byName[c.Name] = c
		}
	}

	var out []*ir.Contract
	for _, f := range files {
		for _, c := range f.Contracts {
			if c.Kind == solast.KindInterface {
				reports = append(reports, &errors.Report{
					Schema:   "sol2move.diagnostic/v1",
					Code:     errors.LFT001,
					Phase:    "lift",
					Severity: errors.SeverityWarning,
					Message:  fmt.Sprintf("interface %s skipped: interfaces have no IR lowering", c.Name),
					Pos:      posOf(c.Pos),
				})
				continue
			}

			lifted, rs := l.liftContract(c)
			reports = append(reports, rs...)
			if lifted != nil {
				out = append(out, lifted)
			}
		}
	}

	reports = append(reports, moduleNameConflicts(out)...)

	return out, reports
}

// moduleNameConflicts reports an LFT003 for every lifted contract whose
// module name collides with another lifted contract's, or with the
// reserved runtime-shim module name (spec.md §4.B "Failure": two
// contracts mapping to the same module name, or a user module name
// equal to a reserved helper name, both fail as
// HelperModuleNameConflict).
func moduleNameConflicts(contracts []*ir.Contract) []*errors.Report {
	var reports []*errors.Report
	seen := map[string]string{} // module name -> first contract's source name
	for _, c := range contracts {
		if c.Name == ir.RuntimeShimModule {
			reports = append(reports, &errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.LFT003,
				Phase:    "lift",
				Severity: errors.SeverityError,
				Message:  fmt.Sprintf("contract %s renames to the reserved helper module name %q", c.SourceName, ir.RuntimeShimModule),
			})
			continue
		}
		if other, ok := seen[c.Name]; ok {
			reports = append(reports, &errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.LFT003,
				Phase:    "lift",
				Severity: errors.SeverityError,
				Message:  fmt.Sprintf("contracts %s and %s both rename to module %q", other, c.SourceName, c.Name),
			})
			continue
		}
		seen[c.Name] = c.SourceName
	}
	return reports
}

func posOf(p solast.Pos) *errors.Position {
	return &errors.Position{File: p.File, Line: p.Line, Column: p.Column}
}

func errLinearizeCycle(name string) error {
	return fmt.Errorf("inheritance cycle detected rooted at %s", name)
}

// liftContract flattens c's inheritance chain and lowers the merged member
// set into one IR contract.
func (l *Lifter) liftContract(c *solast.Contract) (*ir.Contract, []*errors.Report) {
	var reports []*errors.Report

	order, err := linearize(c, l.byName)
	if err != nil {
		reports = append(reports, &errors.Report{
			Schema:   "sol2move.diagnostic/v1",
			Code:     errors.LFT002,
			Phase:    "lift",
			Severity: errors.SeverityError,
			Message:  err.Error(),
			Pos:      posOf(c.Pos),
		})
		return nil, reports
	}

	mf := newMergedFlatten(order)

	out := &ir.Contract{
		Name:             moduleName(c.Name),
		SourceName:       c.Name,
		StandardTemplate: detectStandardTemplate(mf.functions, l.detectFungible, l.detectDigital),
	}

	for _, sv := range mf.stateVars {
		out.StateVars = append(out.StateVars, &ir.StateVar{
			Name: snakeCase(sv.Name),
			Type: liftType(sv.Type),
			Kind: liftVarKind(sv.Mutability),
			// Category defaults to general; internal/analyzer assigns the
			// real classification once every function body is visible.
			Category: ir.CategoryGeneral,
		})
	}

	for _, ev := range mf.events {
		var fields []ir.Param
		for _, p := range ev.Params {
			fields = append(fields, ir.Param{Name: snakeCase(p.Name), Type: liftType(p.Type)})
		}
		out.Events = append(out.Events, &ir.Event{Name: ev.Name, Fields: fields})
	}

	for _, sd := range mf.structs {
		var fields []ir.Param
		for _, p := range sd.Fields {
			fields = append(fields, ir.Param{Name: snakeCase(p.Name), Type: liftType(p.Type)})
		}
		out.Structs = append(out.Structs, ir.StructDef{Name: sd.Name, Fields: fields})
	}

	for _, ed := range mf.enums {
		out.Enums = append(out.Enums, ir.EnumDef{Name: ed.Name, Variants: ed.Members})
	}

	// Standard error codes occupy 1-255; first-seen custom error
	// declarations and require() messages are numbered from 256 up
	// (spec.md §4.B.4).
	for _, errDecl := range mf.errors {
		name := screamingSnake(errDecl.Name)
		if _, ok := out.FindErrorCode(name); !ok {
			out.ErrorCodes = append(out.ErrorCodes, ir.ErrorCode{Name: name, Value: out.NextErrorCodeValue()})
		}
	}

	l2 := newFuncLifter(out, mf.modifiers)

	for _, fn := range mf.functions {
		lowered, rs := l2.liftFunc(fn)
		reports = append(reports, rs...)
		if lowered != nil {
			out.Functions = append(out.Functions, lowered)
		}
	}

	return out, reports
}

// mergedFlatten is the result of folding a linearized base chain into one
// member table, most-derived contract's definitions winning on name
// collisions (spec.md §9 Open Question decision).
type mergedFlatten struct {
	stateVars []*solast.StateVar
	functions []*solast.FuncDecl
	modifiers map[string]*solast.ModifierDecl
	events    []*solast.EventDecl
	errors    []*solast.ErrorDecl
	structs   []*solast.StructDecl
	enums     []*solast.EnumDecl
}

func newMergedFlatten(order []*solast.Contract) *mergedFlatten {
	mf := &mergedFlatten{modifiers: make(map[string]*solast.ModifierDecl)}

	stateVarIdx := make(map[string]int)
	funcIdx := make(map[string]int)
	eventIdx := make(map[string]int)
	errorIdx := make(map[string]int)
	structIdx := make(map[string]int)
	enumIdx := make(map[string]int)
	ctorIdx := -1

	for _, c := range order {
		for _, m := range c.Members {
			switch member := m.(type) {
			case *solast.StateVar:
				if i, ok := stateVarIdx[member.Name]; ok {
					mf.stateVars[i] = member
				} else {
					stateVarIdx[member.Name] = len(mf.stateVars)
					mf.stateVars = append(mf.stateVars, member)
				}
			case *solast.FuncDecl:
				if member.IsConstructor {
					// Constructors are never inherited; only the
					// most-derived contract's constructor survives.
					if ctorIdx >= 0 {
						mf.functions[ctorIdx] = member
					} else {
						ctorIdx = len(mf.functions)
						mf.functions = append(mf.functions, member)
					}
					continue
				}
				if i, ok := funcIdx[member.Name]; ok {
					mf.functions[i] = member
				} else {
					funcIdx[member.Name] = len(mf.functions)
					mf.functions = append(mf.functions, member)
				}
			case *solast.ModifierDecl:
				mf.modifiers[member.Name] = member
			case *solast.EventDecl:
				if i, ok := eventIdx[member.Name]; ok {
					mf.events[i] = member
				} else {
					eventIdx[member.Name] = len(mf.events)
					mf.events = append(mf.events, member)
				}
			case *solast.ErrorDecl:
				if i, ok := errorIdx[member.Name]; ok {
					mf.errors[i] = member
				} else {
					errorIdx[member.Name] = len(mf.errors)
					mf.errors = append(mf.errors, member)
				}
			case *solast.StructDecl:
				if i, ok := structIdx[member.Name]; ok {
					mf.structs[i] = member
				} else {
					structIdx[member.Name] = len(mf.structs)
					mf.structs = append(mf.structs, member)
				}
			case *solast.EnumDecl:
				if i, ok := enumIdx[member.Name]; ok {
					mf.enums[i] = member
				} else {
					enumIdx[member.Name] = len(mf.enums)
					mf.enums = append(mf.enums, member)
				}
			}
		}
	}

	return mf
}

func liftVarKind(m solast.VarMutability) ir.VarKind {
	switch m {
	case solast.VarConstant:
		return ir.VarConstantKind
	case solast.VarImmutable:
		return ir.VarImmutableKind
	default:
		return ir.VarMutableKind
	}
}

func liftVisibility(v solast.Visibility) ir.Visibility {
	switch v {
	case solast.VisExternal:
		return ir.VisPublic
	case solast.VisPublic:
		return ir.VisPublic
	case solast.VisInternal:
		return ir.VisPackage
	default:
		return ir.VisPrivate
	}
}

// liftType lowers a Source type to its IR counterpart (spec.md §3's type
// mapping table). Struct and enum references are lowered to StructRef;
// the printer and analyzer disambiguate against the contract's own
// Structs/Enums tables when they need to.
func liftType(t solast.TypeName) ir.Type {
	switch ty := t.(type) {
	case *solast.ElementaryType:
		if width, ok := solast.IsUnsignedInt(ty.Name); ok {
			return ir.UintType{Width: width}
		}
		switch ty.Name {
		case "bool":
			return ir.BoolType{}
		case "address":
			return ir.AddressType{}
		case "string":
			return ir.StringType{}
		default:
			// bytesN and other fixed-width byte types lower to a vector
			// of u8; Target has no fixed-width byte-array primitive.
			return ir.VectorType{Elem: ir.UintType{Width: 8}}
		}
	case *solast.MappingType:
		return ir.TableType{Key: liftType(ty.Key), Value: liftType(ty.Value)}
	case *solast.ArrayType:
		return ir.VectorType{Elem: liftType(ty.Element)}
	case *solast.UserType:
		return ir.StructRef{Name: ty.Name}
	default:
		return ir.StructRef{Name: "unknown"}
	}
}
