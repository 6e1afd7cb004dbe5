// Package analyzer implements the State-Access Analyzer (spec.md §4.C):
// it classifies every mutable state variable by its write pattern,
// partitions variables into resource groups according to the requested
// optimization level, and builds a per-function access profile over
// those groups.
package analyzer

import (
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
)

// OptimizationLevel selects how finely the analyzer partitions state
// into resource groups (spec.md §4.C).
type OptimizationLevel int

const (
	LevelLow OptimizationLevel = iota
	LevelMedium
	LevelHigh
)

// Group is a named partition of mutable state variables that will become
// one Target resource struct.
type Group struct {
	Name    string
	Members []string
	Primary bool
}

// PerUserResource is a "high" optimization-level refinement: a
// user-keyed-mapping variable whose writes all key by the transaction
// sender, stored per-user instead of in a module-global map.
type PerUserResource struct {
	Name    string // synthesized resource struct name
	VarName string
}

// ResourcePlan is the analyzer's output: the partition of state into
// groups (and, at the high level, per-user resources) that the
// function/contract transformer consumes when resolving state access.
type ResourcePlan struct {
	Level           OptimizationLevel
	Groups          []Group
	PerUserResources []PerUserResource
}

// AccessProfile is one function's summarized resource footprint: the
// groups it reads and the groups it writes, used both to compute
// `acquires` clauses and the parallelization score.
type AccessProfile struct {
	Function string
	Reads    map[string]bool
	Writes   map[string]bool
}

// Analyzer classifies state variables and builds the resource plan for
// one contract. It carries no state of its own between calls.
type Analyzer struct{}

// New returns a ready-to-use Analyzer.
func New() *Analyzer { return &Analyzer{} }

// Analyze classifies every mutable state variable in c (mutating
// c.StateVars[i].Category in place — the canonical record lift leaves as
// CategoryGeneral pending this pass) and returns the resource plan and
// per-function access profiles for the requested level.
func (a *Analyzer) Analyze(c *ir.Contract, level OptimizationLevel) (*ResourcePlan, []AccessProfile) {
	writes := collectWrites(c)
	reads := collectReads(c)

	for _, sv := range c.StateVars {
		sv.Category = classify(sv, writes[sv.Name], reads[sv.Name])
	}

	plan := buildPlan(c, level)
	groupOf := GroupIndex(plan)
	profiles := buildProfiles(c, groupOf)

	return plan, profiles
}

// writeRecord captures one assignment's shape against a state variable,
// enough to decide its category per spec.md §3's criterion table.
type writeRecord struct {
	op          string
	guarded     bool // enclosing function has an admin guard
	constructor bool // enclosing function is the synthesized initializer
	keyIsSender bool // for collection writes: the key expression is msg.sender
}

func collectWrites(c *ir.Contract) map[string][]writeRecord {
	out := map[string][]writeRecord{}

	for _, fn := range c.Functions {
		guarded := fn.AdminGuardedBy != ""
		ctor := fn.Name == "initialize"
		walkStmts(fn.Body, func(s ir.Stmt) {
			a, ok := s.(ir.Assign)
			if !ok {
				return
			}
			switch target := a.Target.(type) {
			case ir.StateRef:
				out[target.Name] = append(out[target.Name], writeRecord{op: a.Op, guarded: guarded, constructor: ctor})
			case ir.CollectionRead:
				rec := writeRecord{op: a.Op, guarded: guarded, constructor: ctor}
				for _, k := range target.Keys {
					if _, isSender := k.(ir.Sender); isSender {
						rec.keyIsSender = true
					}
				}
				out[target.Collection] = append(out[target.Collection], rec)
			}
		})
	}
	return out
}

// collectReads reports, per variable name, whether it is read anywhere
// outside of being an assignment target (spec.md's event-trackable
// criterion: "never explicitly read elsewhere").
func collectReads(c *ir.Contract) map[string]bool {
	out := map[string]bool{}
	var walkExpr func(e ir.Expr)
	walkExpr = func(e ir.Expr) {
		switch v := e.(type) {
		case ir.StateRef:
			out[v.Name] = true
		case ir.CollectionRead:
			out[v.Collection] = true
			for _, k := range v.Keys {
				walkExpr(k)
			}
		case ir.BinOp:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case ir.UnOp:
			walkExpr(v.Operand)
		case ir.Cast:
			walkExpr(v.Value)
		case ir.FieldAccess:
			walkExpr(v.Base)
		case ir.Call:
			for _, arg := range v.Args {
				walkExpr(arg)
			}
		}
	}

	for _, fn := range c.Functions {
		walkStmts(fn.Body, func(s ir.Stmt) {
			switch v := s.(type) {
			case ir.Assign:
				// The target itself isn't a "read"; only a nested
				// collection key counts (e.g. `balances[other] = x`).
				if cr, ok := v.Target.(ir.CollectionRead); ok {
					for _, k := range cr.Keys {
						walkExpr(k)
					}
				}
				walkExpr(v.Value)
			case ir.Let:
				walkExpr(v.Value)
			case ir.If:
				walkExpr(v.Cond)
			case ir.Loop:
				if v.Cond != nil {
					walkExpr(v.Cond)
				}
			case ir.Return:
				for _, val := range v.Values {
					walkExpr(val)
				}
			case ir.Abort:
				if v.Cond != nil {
					walkExpr(*v.Cond)
				}
			case ir.EmitEvent:
				for _, val := range v.Args {
					walkExpr(val)
				}
			case ir.ExprStmt:
				walkExpr(v.Expr)
			}
		})
	}
	return out
}

// walkStmts visits every statement in body, recursing into If and Loop
// blocks, invoking visit on each in pre-order.
func walkStmts(body []ir.Stmt, visit func(ir.Stmt)) {
	for _, s := range body {
		visit(s)
		switch v := s.(type) {
		case ir.If:
			walkStmts(v.Then, visit)
			walkStmts(v.Else, visit)
		case ir.Loop:
			walkStmts(v.Init, visit)
			walkStmts(v.Body, visit)
			walkStmts(v.Post, visit)
		}
	}
}

// classify applies spec.md §3's Variable Classification table in this
// order: admin-config, then user-keyed-mapping, then
// event-trackable/aggregatable, defaulting to general.
func classify(sv *ir.StateVar, writes []writeRecord, read bool) ir.Category {
	if sv.Kind != ir.VarMutableKind {
		return ir.CategoryAdminConfig
	}
	if len(writes) == 0 {
		return ir.CategoryAdminConfig
	}

	allAdminOrCtor := true
	allCompound := true
	for _, w := range writes {
		if !w.guarded && !w.constructor {
			allAdminOrCtor = false
		}
		if w.op != "+=" && w.op != "-=" {
			allCompound = false
		}
	}
	if allAdminOrCtor {
		return ir.CategoryAdminConfig
	}

	// A collection type is a stronger structural signal than the
	// operator-pattern heuristics below, so a sender-keyed mapping is
	// classified as user-keyed-mapping even when every write happens to
	// use a compound operator too.
	if tbl, ok := sv.Type.(ir.TableType); ok {
		if _, isAddr := tbl.Key.(ir.AddressType); isAddr {
			senderKeyed, total := 0, 0
			for _, w := range writes {
				total++
				if w.keyIsSender {
					senderKeyed++
				}
			}
			if total > 0 && senderKeyed*2 >= total {
				return ir.CategoryUserKeyedMapping
			}
		}
	}

	if allCompound {
		if !read && nameSuggestsAccumulator(sv.Name) {
			return ir.CategoryEventTrackable
		}
		return ir.CategoryAggregatable
	}

	return ir.CategoryGeneral
}

func nameSuggestsAccumulator(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range []string{"fee", "accum", "accrued", "reward"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func allWritesKeySender(writes []writeRecord) bool {
	if len(writes) == 0 {
		return false
	}
	for _, w := range writes {
		if !w.keyIsSender {
			return false
		}
	}
	return true
}
