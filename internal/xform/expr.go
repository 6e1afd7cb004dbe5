// Package xform rewrites canonical IR into the printable Target AST
// (spec.md §4.D "Expression Transformer" and §4.E "Function/Contract
// Transformer"): operand-width harmonization, cast collapsing,
// bitwise-not lowering, boolean-cast lowering, write-back injection, and
// the final conversion from ir.* nodes to moveast.* nodes carrying an
// inferred-type annotation.
package xform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
)

// ExprTransformer harmonizes and simplifies IR expressions in place
// before the function transformer converts them to Target AST.
type ExprTransformer struct{}

// NewExprTransformer returns a ready-to-use transformer. It carries no
// state of its own; every decision is local to the expression at hand.
func NewExprTransformer() *ExprTransformer { return &ExprTransformer{} }

// Transform recursively rewrites e into a Target-ready expression plus its
// inferred concrete type's pre-statements: width-harmonizing arithmetic and
// comparison operands, collapsing redundant casts, lowering bitwise-not to
// an XOR mask, lowering an integer-to-boolean cast to a `!= 0` comparison,
// and — for a two-key CollectionRead — originating the existence-check
// pre-statement a nested collection access requires before it runs
// (spec.md §4.D). The returned statements must run immediately before
// whatever statement encloses e.
func (x *ExprTransformer) Transform(e ir.Expr) (ir.Expr, []ir.Stmt) {
	switch v := e.(type) {
	case ir.BinOp:
		left, lpre := x.Transform(v.Left)
		right, rpre := x.Transform(v.Right)
		left, right, resultType := harmonize(v.Op, left, right)
		return ir.BinOp{Node: v.Node, Op: v.Op, Left: left, Right: right, Type: resultType}, append(lpre, rpre...)

	case ir.UnOp:
		operand, pre := x.Transform(v.Operand)
		if v.Op == "~" {
			return lowerBitwiseNot(v.Node, operand), pre
		}
		return ir.UnOp{Node: v.Node, Op: v.Op, Operand: operand, Type: v.Type}, pre

	case ir.Cast:
		value, pre := x.Transform(v.Value)
		return x.lowerCast(v.Node, value, v.To), pre

	case ir.CollectionRead:
		var keys []ir.Expr
		var pre []ir.Stmt
		for _, k := range v.Keys {
			tk, kpre := x.Transform(k)
			keys = append(keys, tk)
			pre = append(pre, kpre...)
		}
		if len(keys) == 2 {
			pre = append(pre, ir.EnsureNestedEntry{Node: v.Node, Collection: v.Collection, OuterKey: keys[0]})
		}
		return ir.CollectionRead{Node: v.Node, Collection: v.Collection, Keys: keys, Type: v.Type}, pre

	case ir.Call:
		var args []ir.Expr
		var pre []ir.Stmt
		for _, a := range v.Args {
			ta, apre := x.Transform(a)
			args = append(args, ta)
			pre = append(pre, apre...)
		}
		return ir.Call{Node: v.Node, Target: v.Target, Args: args, Type: v.Type}, pre

	case ir.FieldAccess:
		base, pre := x.Transform(v.Base)
		return ir.FieldAccess{Node: v.Node, Base: base, Field: v.Field, Type: v.Type}, pre

	default:
		// Var, StateRef, Lit, Sender, Unsupported carry no sub-expressions
		// to recurse into.
		return e, nil
	}
}

// lowerCast collapses `(x as T) as T` into a single cast and otherwise
// passes the cast through, with one exception: Target disallows casting
// an integer to bool directly, so that case lowers to `value != 0`
// instead (spec.md §4.D.5 "boolean cast lowering").
func (x *ExprTransformer) lowerCast(node ir.Node, value ir.Expr, to ir.Type) ir.Expr {
	if inner, ok := value.(ir.Cast); ok && inner.To.String() == to.String() {
		return inner
	}

	if _, toBool := to.(ir.BoolType); toBool {
		if width, ok := operandType(value).(ir.UintType); ok {
			zero := ir.Lit{Node: node, Type: width, Value: "0"}
			return ir.BinOp{Node: node, Op: "!=", Left: value, Right: zero, Type: ir.BoolType{}}
		}
	}

	return ir.Cast{Node: node, Value: value, To: to}
}

// lowerBitwiseNot rewrites `~x` to `x ^ mask`, where mask is all-ones at
// x's bit width — Target's bitwise-xor operator, unlike Source's `~`,
// requires an explicit right-hand operand (spec.md §4.D.4).
func lowerBitwiseNot(node ir.Node, operand ir.Expr) ir.Expr {
	width := 256
	if ut, ok := operandType(operand).(ir.UintType); ok {
		width = ut.Width
	}
	mask := ir.Lit{Node: node, Type: ir.UintType{Width: width}, Value: allOnesMask(width)}
	return ir.BinOp{Node: node, Op: "^", Left: operand, Right: mask, Type: ir.UintType{Width: width}}
}

func operandType(e ir.Expr) ir.Type {
	switch v := e.(type) {
	case ir.Var:
		return v.Type
	case ir.StateRef:
		return v.Type
	case ir.Lit:
		return v.Type
	case ir.BinOp:
		return v.Type
	case ir.UnOp:
		return v.Type
	case ir.Cast:
		return v.To
	case ir.CollectionRead:
		return v.Type
	case ir.FieldAccess:
		return v.Type
	case ir.Call:
		return v.Type
	default:
		return nil
	}
}

// allOnesMask returns the decimal string for 2^width - 1 without
// importing math/big, looked up from a fixed table of the widths
// 8, 16, 32, 64, 128 and 256; any other width yields "0".
func allOnesMask(width int) string {
	// value = 2^width - 1, computed digit-string style in base 10 via
	// repeated doubling-and-subtract-one is awkward; instead special-case
	// the widths Source actually declares (spec.md's elementary type
	// table tops out at uint256) with their known closed-form decimal
	// values.
	switch width {
	case 8:
		return "255"
	case 16:
		return "65535"
	case 32:
		return "4294967295"
	case 64:
		return "18446744073709551615"
	case 128:
		return "340282366920938463463374607431768211455"
	case 256:
		return "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	default:
		return "0"
	}
}

// annotateUntypedLiteral fills in an untyped numeric literal's width from
// the other operand's concrete type (spec.md §4.D.2 "an untyped numeric
// literal is annotated with the other side's width"). lift leaves a
// literal's Type nil when the Source value carries no evaluated type;
// annotating it (rather than casting it) is correct because an untyped
// literal has no width of its own to cast from.
func annotateUntypedLiteral(e ir.Expr, otherType ir.Type) ir.Expr {
	lit, ok := e.(ir.Lit)
	if !ok || lit.Type != nil {
		return e
	}
	width, ok := otherType.(ir.UintType)
	if !ok {
		return e
	}
	lit.Type = width
	return lit
}

// harmonize unifies the operand widths of a binary operator: when both
// sides are unsigned integers of different widths, the narrower operand
// is cast up to the wider, and the result type follows suit for
// arithmetic operators or becomes bool for comparisons (spec.md §4.D.1
// "operand width unification"). An untyped literal on either side is
// annotated with the other side's width before that comparison runs
// (spec.md §4.D.2).
func harmonize(op string, left, right ir.Expr) (ir.Expr, ir.Expr, ir.Type) {
	left = annotateUntypedLiteral(left, operandType(right))
	right = annotateUntypedLiteral(right, operandType(left))

	lt, lok := operandType(left).(ir.UintType)
	rt, rok := operandType(right).(ir.UintType)

	if lok && rok && lt.Width != rt.Width {
		if lt.Width < rt.Width {
			left = ir.Cast{Value: left, To: rt}
			lt = rt
		} else {
			right = ir.Cast{Value: right, To: lt}
		}
	}

	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return left, right, ir.BoolType{}
	default:
		if lok {
			return left, right, lt
		}
		return left, right, operandType(left)
	}
}
