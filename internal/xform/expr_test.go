package xform

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
)

func TestHarmonizeWidensNarrowerOperand(t *testing.T) {
	left := ir.Var{Name: "a", Type: ir.UintType{Width: 8}}
	right := ir.Var{Name: "b", Type: ir.UintType{Width: 64}}

	x := NewExprTransformer()
	got, _ := x.Transform(ir.BinOp{Op: "+", Left: left, Right: right})

	bin, ok := got.(ir.BinOp)
	if !ok {
		t.Fatalf("got %T, want ir.BinOp", got)
	}
	cast, ok := bin.Left.(ir.Cast)
	if !ok {
		t.Fatalf("Left = %T, want ir.Cast widening the u8 operand", bin.Left)
	}
	if cast.To.String() != "u64" {
		t.Errorf("cast target = %s, want u64", cast.To.String())
	}
	if bin.Type.String() != "u64" {
		t.Errorf("result type = %s, want u64", bin.Type.String())
	}
}

func TestHarmonizeComparisonResultIsBool(t *testing.T) {
	x := NewExprTransformer()
	got, _ := x.Transform(ir.BinOp{
		Op:    "<",
		Left:  ir.Var{Name: "a", Type: ir.UintType{Width: 64}},
		Right: ir.Var{Name: "b", Type: ir.UintType{Width: 64}},
	})
	bin := got.(ir.BinOp)
	if _, ok := bin.Type.(ir.BoolType); !ok {
		t.Errorf("result type = %T, want ir.BoolType", bin.Type)
	}
}

func TestCastCollapsesSameTarget(t *testing.T) {
	x := NewExprTransformer()
	inner := ir.Cast{Value: ir.Var{Name: "a", Type: ir.UintType{Width: 64}}, To: ir.UintType{Width: 256}}
	got, _ := x.Transform(ir.Cast{Value: inner, To: ir.UintType{Width: 256}})

	cast, ok := got.(ir.Cast)
	if !ok {
		t.Fatalf("got %T, want ir.Cast", got)
	}
	if _, nested := cast.Value.(ir.Cast); nested {
		t.Errorf("cast did not collapse: %+v", cast)
	}
}

func TestLowerBitwiseNotProducesXorMask(t *testing.T) {
	x := NewExprTransformer()
	got, _ := x.Transform(ir.UnOp{Op: "~", Operand: ir.Var{Name: "a", Type: ir.UintType{Width: 8}}})

	bin, ok := got.(ir.BinOp)
	if !ok {
		t.Fatalf("got %T, want ir.BinOp", got)
	}
	if bin.Op != "^" {
		t.Errorf("Op = %q, want ^", bin.Op)
	}
	mask, ok := bin.Right.(ir.Lit)
	if !ok || mask.Value != "255" {
		t.Errorf("Right = %+v, want Lit{Value: 255}", bin.Right)
	}
}

// TestHarmonizeAnnotatesUntypedLiteral covers spec.md §4.D.2: lift leaves
// a literal's Type nil when Source carried no evaluated type for it
// (e.g. the right-hand side of `balance += 100`); harmonize must still
// annotate it from the other operand rather than silently leaving it
// untyped.
func TestHarmonizeAnnotatesUntypedLiteral(t *testing.T) {
	x := NewExprTransformer()
	got, _ := x.Transform(ir.BinOp{
		Op:    "+",
		Left:  ir.Var{Name: "balance", Type: ir.UintType{Width: 64}},
		Right: ir.Lit{Value: "100"},
	})

	bin, ok := got.(ir.BinOp)
	if !ok {
		t.Fatalf("got %T, want ir.BinOp", got)
	}
	lit, ok := bin.Right.(ir.Lit)
	if !ok {
		t.Fatalf("Right = %T, want ir.Lit", bin.Right)
	}
	if lit.Type == nil || lit.Type.String() != "u64" {
		t.Errorf("Right.Type = %v, want u64 (annotated from the other operand)", lit.Type)
	}
	if bin.Type.String() != "u64" {
		t.Errorf("result type = %s, want u64", bin.Type.String())
	}
}

// TestTransformNestedCollectionReadEmitsEnsurePreStatement covers spec.md
// §4.D.6: reading (or writing) a two-key collection entry requires a
// pre-statement ensuring the outer entry holds an inner collection.
func TestTransformNestedCollectionReadEmitsEnsurePreStatement(t *testing.T) {
	x := NewExprTransformer()
	outer := ir.Var{Name: "owner", Type: ir.AddressType{}}
	inner := ir.Var{Name: "spender", Type: ir.AddressType{}}
	_, pre := x.Transform(ir.CollectionRead{Collection: "allowances", Keys: []ir.Expr{outer, inner}, Type: ir.UintType{Width: 256}})

	if len(pre) != 1 {
		t.Fatalf("len(pre) = %d, want 1", len(pre))
	}
	ensure, ok := pre[0].(ir.EnsureNestedEntry)
	if !ok {
		t.Fatalf("pre[0] = %T, want ir.EnsureNestedEntry", pre[0])
	}
	if ensure.Collection != "allowances" {
		t.Errorf("Collection = %q, want allowances", ensure.Collection)
	}
	if v, ok := ensure.OuterKey.(ir.Var); !ok || v.Name != "owner" {
		t.Errorf("OuterKey = %+v, want owner", ensure.OuterKey)
	}
}

// TestTransformFlatCollectionReadEmitsNoPreStatement covers the one-key
// case, which never needs the nested-entry guard.
func TestTransformFlatCollectionReadEmitsNoPreStatement(t *testing.T) {
	x := NewExprTransformer()
	_, pre := x.Transform(ir.CollectionRead{Collection: "balances", Keys: []ir.Expr{ir.Var{Name: "addr"}}, Type: ir.UintType{Width: 256}})
	if len(pre) != 0 {
		t.Errorf("len(pre) = %d, want 0 for a flat collection read", len(pre))
	}
}

func TestLowerBooleanCastBecomesNotEqualZero(t *testing.T) {
	x := NewExprTransformer()
	intExpr := ir.Var{Name: "a", Type: ir.UintType{Width: 8}}
	got, _ := x.Transform(ir.Cast{Value: intExpr, To: ir.BoolType{}})

	bin, ok := got.(ir.BinOp)
	if !ok {
		t.Fatalf("got %T, want ir.BinOp", got)
	}
	if bin.Op != "!=" {
		t.Errorf("Op = %q, want !=", bin.Op)
	}
	if _, ok := bin.Type.(ir.BoolType); !ok {
		t.Errorf("result type = %T, want ir.BoolType", bin.Type)
	}
	zero, ok := bin.Right.(ir.Lit)
	if !ok || zero.Value != "0" {
		t.Errorf("Right = %+v, want Lit{Value: 0}", bin.Right)
	}
}
