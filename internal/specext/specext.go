// Package specext implements the Specification Extractor (spec.md §4.F):
// it walks an already-printed-ready Target module and derives a
// module pragma plus aborts_if, modifies and invariant spec clauses from
// resource acquisition, assert-shaped conditionals, and narrow-integer
// struct fields. It derives no pre- or post-conditions.
package specext

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// uintMax gives the inclusive upper bound for every Target unsigned
// integer width narrower than the native u256, used to synthesize a
// struct field's range invariant.
var uintMax = map[string]string{
	"u8":   "255",
	"u16":  "65535",
	"u32":  "4294967295",
	"u64":  "18446744073709551615",
	"u128": "340282366920938463463374607431768211455",
}

// comparisonNegation gives the operator-level negation of a comparison,
// so an aborts_if clause derived from `assert!(a == b, code)` reads
// `aborts_if a != b with code` instead of `aborts_if !(a == b) with code`
// (spec.md §4.F).
var comparisonNegation = map[string]string{
	"==": "!=",
	"!=": "==",
	"<":  ">=",
	">=": "<",
	">":  "<=",
	"<=": ">",
}

// Extract appends the module's derived spec blocks to m.Specs. Call only
// when generate-specs is requested; Extract neither mutates the module's
// functions/structs nor requires a second printer pass.
func Extract(m *moveast.Module) {
	blocks := []moveast.SpecBlock{
		{
			Target:  m.Name,
			Kind:    moveast.SpecModule,
			Pragmas: []string{"aborts_if_is_partial = true"},
		},
	}

	for _, fn := range m.Functions {
		if sb, ok := functionSpec(m, fn); ok {
			blocks = append(blocks, sb)
		}
	}
	for _, s := range m.Structs {
		if sb, ok := structSpec(s); ok {
			blocks = append(blocks, sb)
		}
	}

	m.Specs = append(m.Specs, blocks...)
}

// functionSpec derives fn's aborts_if/modifies clauses: one pair per
// acquired group, plus one aborts_if per assert-shaped conditional abort
// found anywhere in the body, including inside nested if/loop blocks.
func functionSpec(m *moveast.Module, fn moveast.Function) (moveast.SpecBlock, bool) {
	sb := moveast.SpecBlock{Target: fn.Name, Kind: moveast.SpecFunction}

	mutated := mutablyBorrowedGroups(fn.Body)
	for _, g := range fn.Acquires {
		sb.AbortsIf = append(sb.AbortsIf, moveast.AbortsIf{Cond: fmt.Sprintf("!exists<%s>(@%s)", g, m.Address)})
		if mutated[g] {
			sb.Modifies = append(sb.Modifies, fmt.Sprintf("global<%s>(@%s)", g, m.Address))
		}
	}

	sb.AbortsIf = append(sb.AbortsIf, assertAbortsIn(fn.Body)...)

	if len(sb.AbortsIf) == 0 && len(sb.Modifies) == 0 {
		return moveast.SpecBlock{}, false
	}
	return sb, true
}

// assertAbortsIn finds every `if (cond) { abort(code); }` shape — the
// lowering of a Source assert/require — anywhere in body, including
// nested inside other if/loop blocks, and derives its aborts_if clause.
func assertAbortsIn(body []moveast.Stmt) []moveast.AbortsIf {
	var out []moveast.AbortsIf
	for _, s := range body {
		switch v := s.(type) {
		case moveast.IfStmt:
			if len(v.Else) == 0 && len(v.Then) == 1 {
				if ab, ok := v.Then[0].(moveast.AbortStmt); ok {
					out = append(out, moveast.AbortsIf{Cond: negatedCond(v.Cond), Code: renderExpr(ab.Code)})
					continue
				}
			}
			out = append(out, assertAbortsIn(v.Then)...)
			out = append(out, assertAbortsIn(v.Else)...)
		case moveast.LoopStmt:
			out = append(out, assertAbortsIn(v.Body)...)
		}
	}
	return out
}

// negatedCond renders cond's assert-source condition using operator-level
// negation rather than a literal `!(...)` wrap. internal/xform always
// builds the abort-guard's condition as `ir.UnOp{Op: "!", ...}` over the
// original asserted condition (internal/lift's require/assert lowering),
// so peeling that one negation back off recovers it.
func negatedCond(cond moveast.Expr) string {
	u, ok := cond.(*moveast.UnaryExpr)
	if !ok || u.Op != "!" {
		return "!(" + renderExpr(cond) + ")"
	}
	if b, ok := u.Operand.(*moveast.BinExpr); ok {
		if flipped, ok := comparisonNegation[b.Op]; ok {
			return renderExpr(b.Left) + " " + flipped + " " + renderExpr(b.Right)
		}
	}
	return "!(" + renderExpr(u.Operand) + ")"
}

// mutablyBorrowedGroups collects every resource-group name fn.Body takes
// a mutable borrow_global against, so functionSpec knows which acquired
// group also needs a `modifies global<G>(@addr)` clause.
func mutablyBorrowedGroups(body []moveast.Stmt) map[string]bool {
	out := map[string]bool{}
	var walkExpr func(e moveast.Expr)
	walkExpr = func(e moveast.Expr) {
		switch v := e.(type) {
		case *moveast.Borrow:
			if v.Kind == moveast.BorrowGlobal && v.Mutable {
				out[v.Type] = true
			}
			walkExpr(v.Base)
			if v.Key != nil {
				walkExpr(v.Key)
			}
		case *moveast.BinExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *moveast.UnaryExpr:
			walkExpr(v.Operand)
		case *moveast.CastExpr:
			walkExpr(v.Value)
		case *moveast.Deref:
			walkExpr(v.Value)
		case *moveast.FieldAccess:
			walkExpr(v.Base)
		case *moveast.Call:
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *moveast.StructLit:
			for _, f := range v.Fields {
				walkExpr(f.Value)
			}
		}
	}

	var walkStmt func(s moveast.Stmt)
	walkStmt = func(s moveast.Stmt) {
		switch v := s.(type) {
		case moveast.LetStmt:
			walkExpr(v.Value)
		case moveast.AssignStmt:
			walkExpr(v.Target)
			walkExpr(v.Value)
		case moveast.ExprStmt:
			walkExpr(v.Expr)
		case moveast.IfStmt:
			walkExpr(v.Cond)
			for _, s2 := range v.Then {
				walkStmt(s2)
			}
			for _, s2 := range v.Else {
				walkStmt(s2)
			}
		case moveast.LoopStmt:
			if v.Cond != nil {
				walkExpr(v.Cond)
			}
			for _, s2 := range v.Body {
				walkStmt(s2)
			}
		case moveast.ReturnStmt:
			for _, e := range v.Values {
				walkExpr(e)
			}
		case moveast.AbortStmt:
			walkExpr(v.Code)
		}
	}

	for _, s := range body {
		walkStmt(s)
	}
	return out
}

// structSpec emits one upper-bound invariant per narrower-than-u256
// unsigned field (spec.md §4.F).
func structSpec(s moveast.Struct) (moveast.SpecBlock, bool) {
	sb := moveast.SpecBlock{Target: s.Name, Kind: moveast.SpecStruct}
	for _, f := range s.Fields {
		if p, ok := f.Type.(moveast.PrimType); ok {
			if max, ok := uintMax[p.Name]; ok {
				sb.Invariants = append(sb.Invariants, fmt.Sprintf("%s <= %s", f.Name, max))
			}
		}
	}
	if len(sb.Invariants) == 0 {
		return moveast.SpecBlock{}, false
	}
	return sb, true
}

// renderExpr gives a minimal spec-syntax rendering of an expression —
// sufficient for the constructs internal/xform ever places inside an
// assert condition or abort code (identifiers, literals, field access,
// comparisons, casts); this package never renders full statement bodies,
// only the standalone sub-expressions a spec clause quotes.
func renderExpr(e moveast.Expr) string {
	switch v := e.(type) {
	case *moveast.Ident:
		return v.Name
	case *moveast.IntLit:
		return v.Value + v.Suffix
	case *moveast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	case *moveast.AddressLit:
		return "@" + v.Value
	case *moveast.BinExpr:
		return "(" + renderExpr(v.Left) + " " + v.Op + " " + renderExpr(v.Right) + ")"
	case *moveast.UnaryExpr:
		return v.Op + renderExpr(v.Operand)
	case *moveast.CastExpr:
		return "(" + renderExpr(v.Value) + " as " + v.To.String() + ")"
	case *moveast.FieldAccess:
		return renderExpr(v.Base) + "." + v.Field
	case *moveast.Borrow:
		if v.Kind == moveast.BorrowGlobal {
			return "global<" + v.Type + ">(" + renderExpr(v.Base) + ")"
		}
		return renderExpr(v.Base)
	case *moveast.Deref:
		return renderExpr(v.Value)
	case *moveast.Call:
		name := v.Func
		if v.Module != "" {
			name = v.Module + "::" + v.Func
		}
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = renderExpr(a)
		}
		s := name + "("
		for i, a := range args {
			if i > 0 {
				s += ", "
			}
			s += a
		}
		return s + ")"
	case *moveast.Unsupported:
		return "/* unsupported: " + v.Pattern + " */"
	}
	return ""
}
