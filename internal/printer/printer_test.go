package printer

import (
	"strings"
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

func header(t moveast.Type) moveast.ExprHeader { return moveast.ExprHeader{InferredType: t} }

func counterModule() moveast.Module {
	u64 := moveast.PrimType{Name: "u64"}
	addr := &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: "0xCAFE"}

	borrowMut := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Mutable: true, Elem: moveast.StructType{Name: "Counter"}}),
		Kind:       moveast.BorrowGlobal,
		Mutable:    true,
		Type:       "Counter",
		Base:       addr,
	}
	field := &moveast.FieldAccess{ExprHeader: header(u64), Base: borrowMut, Field: "value"}

	fn := moveast.Function{
		Name:       "increment",
		Visibility: moveast.VisPublic,
		IsEntry:    true,
		Acquires:   []string{"Counter"},
		Body: []moveast.Stmt{
			moveast.AssignStmt{
				Target: field,
				Value: &moveast.BinExpr{
					ExprHeader: header(u64),
					Op:         "+",
					Left:       field,
					Right:      &moveast.IntLit{ExprHeader: header(u64), Value: "1", Suffix: "u64"},
				},
			},
		},
	}

	return moveast.Module{
		Address: "0xCAFE",
		Name:    "counter",
		Structs: []moveast.Struct{
			{
				Name:      "Counter",
				Abilities: []moveast.Ability{moveast.AbilityKey},
				Fields:    []moveast.StructField{{Name: "value", Type: u64}},
			},
		},
		Functions: []moveast.Function{fn},
	}
}

func TestPrintModuleIsDeterministic(t *testing.T) {
	m := counterModule()
	first := Print(m, Options{})
	for i := 0; i < 20; i++ {
		if got := Print(m, Options{}); got != first {
			t.Fatalf("iteration %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestPrintModuleHeaderAndStruct(t *testing.T) {
	out := Print(counterModule(), Options{})
	if !strings.Contains(out, "module 0xCAFE::counter {") {
		t.Errorf("missing module header:\n%s", out)
	}
	if !strings.Contains(out, "struct Counter has key {") {
		t.Errorf("missing struct decl:\n%s", out)
	}
	if !strings.Contains(out, "value: u64,") {
		t.Errorf("missing struct field:\n%s", out)
	}
}

func TestPrintEntryFunctionSignature(t *testing.T) {
	out := Print(counterModule(), Options{})
	if !strings.Contains(out, "public entry fun increment() acquires Counter {") {
		t.Errorf("unexpected signature:\n%s", out)
	}
}

func TestPrintGlobalBorrowModuleQualified(t *testing.T) {
	out := Print(counterModule(), Options{CallStyle: CallStyleModuleQualified, IndexNotation: false})
	if !strings.Contains(out, "borrow_global_mut<Counter>(@0xCAFE).value") {
		t.Errorf("expected module-qualified borrow_global_mut call:\n%s", out)
	}
}

func TestPrintGlobalBorrowIndexNotation(t *testing.T) {
	out := Print(counterModule(), Options{IndexNotation: true})
	if !strings.Contains(out, "Counter[@0xCAFE].value") {
		t.Errorf("expected bracket global-borrow form:\n%s", out)
	}
	if strings.Contains(out, "borrow_global") {
		t.Errorf("index-notation output should not mention borrow_global:\n%s", out)
	}
}

func TestPrintReceiverCallStyleRewritesAllowListedCall(t *testing.T) {
	u64 := moveast.PrimType{Name: "u64"}
	tbl := &moveast.Ident{ExprHeader: header(moveast.TableType{Key: moveast.PrimType{Name: "address"}, Value: u64}), Name: "balances"}
	borrow := &moveast.Borrow{ExprHeader: header(moveast.RefType{Elem: u64}), Kind: moveast.BorrowTable, Base: tbl, Key: &moveast.Ident{Name: "addr"}}
	contains := &moveast.Call{ExprHeader: header(moveast.PrimType{Name: "bool"}), Module: "table", Func: "contains", Args: []moveast.Expr{tbl, &moveast.Ident{Name: "addr"}}}

	m := moveast.Module{
		Address: "0xCAFE", Name: "vault",
		Functions: []moveast.Function{{
			Name: "check", Visibility: moveast.VisPrivate,
			Body: []moveast.Stmt{
				moveast.LetStmt{Name: "has", Value: contains},
				moveast.LetStmt{Name: "v", Value: borrow},
			},
		}},
	}

	out := Print(m, Options{CallStyle: CallStyleReceiver})
	if !strings.Contains(out, "balances.contains(addr)") {
		t.Errorf("expected receiver-style rewrite:\n%s", out)
	}
	if !strings.Contains(out, "balances.borrow(addr)") {
		t.Errorf("expected table borrow in receiver style:\n%s", out)
	}
}

func TestPrintModuleQualifiedTableBorrow(t *testing.T) {
	u64 := moveast.PrimType{Name: "u64"}
	tbl := &moveast.Ident{ExprHeader: header(moveast.TableType{Key: moveast.PrimType{Name: "address"}, Value: u64}), Name: "balances"}
	borrow := &moveast.Borrow{ExprHeader: header(moveast.RefType{Elem: u64}), Kind: moveast.BorrowTable, Base: tbl, Key: &moveast.Ident{Name: "addr"}}

	m := moveast.Module{
		Address: "0xCAFE", Name: "vault",
		Functions: []moveast.Function{{
			Name: "check", Visibility: moveast.VisPrivate,
			Body: []moveast.Stmt{moveast.LetStmt{Name: "v", Value: borrow}},
		}},
	}

	out := Print(m, Options{CallStyle: CallStyleModuleQualified})
	if !strings.Contains(out, "table::borrow(&balances, addr)") {
		t.Errorf("expected module-qualified table::borrow:\n%s", out)
	}
}

func TestPrintCastCollapsesOnMatchingSuffix(t *testing.T) {
	u8 := moveast.PrimType{Name: "u8"}
	cast := &moveast.CastExpr{ExprHeader: header(u8), Value: &moveast.IntLit{ExprHeader: header(u8), Value: "5", Suffix: "u8"}, To: u8}
	if got := (&printer{}).expr(cast); got != "5u8" {
		t.Errorf("expr(cast) = %q, want 5u8", got)
	}
}

func TestPrintCastKeptWhenSuffixDiffers(t *testing.T) {
	u8, u64 := moveast.PrimType{Name: "u8"}, moveast.PrimType{Name: "u64"}
	cast := &moveast.CastExpr{ExprHeader: header(u8), Value: &moveast.IntLit{ExprHeader: header(u64), Value: "5", Suffix: "u64"}, To: u8}
	if got := (&printer{}).expr(cast); got != "(5u64 as u8)" {
		t.Errorf("expr(cast) = %q, want (5u64 as u8)", got)
	}
}

func TestNormalizeNumericLiteralExpandsScientificNotation(t *testing.T) {
	if got := normalizeNumericLiteral("1e18"); got != "1000000000000000000" {
		t.Errorf("normalizeNumericLiteral(1e18) = %q", got)
	}
}

func TestNormalizeNumericLiteralStripsLeadingZeros(t *testing.T) {
	if got := normalizeNumericLiteral("007"); got != "7" {
		t.Errorf("normalizeNumericLiteral(007) = %q", got)
	}
	if got := normalizeNumericLiteral("0"); got != "0" {
		t.Errorf("normalizeNumericLiteral(0) = %q, want 0", got)
	}
}

func TestNormalizeNumericLiteralPassesHexThrough(t *testing.T) {
	if got := normalizeNumericLiteral("0x0F"); got != "0x0F" {
		t.Errorf("normalizeNumericLiteral(0x0F) = %q, want unchanged", got)
	}
}

func TestPrintFieldAccessParenthesizesDeref(t *testing.T) {
	u64 := moveast.PrimType{Name: "u64"}
	deref := &moveast.Deref{ExprHeader: header(moveast.StructType{Name: "Counter"}), Value: &moveast.Ident{Name: "c"}}
	fa := &moveast.FieldAccess{ExprHeader: header(u64), Base: deref, Field: "value"}
	if got := (&printer{}).expr(fa); got != "(*c).value" {
		t.Errorf("expr(fieldaccess) = %q, want (*c).value", got)
	}
}

func TestPrintIfStatementHasTrailingTerminator(t *testing.T) {
	m := moveast.Module{
		Address: "0xCAFE", Name: "m",
		Functions: []moveast.Function{{
			Name: "f", Visibility: moveast.VisPrivate,
			Body: []moveast.Stmt{
				moveast.IfStmt{
					Cond: &moveast.BoolLit{Value: true},
					Then: []moveast.Stmt{moveast.AbortStmt{Code: &moveast.IntLit{Value: "1"}}},
				},
			},
		}},
	}
	out := Print(m, Options{})
	if !strings.Contains(out, "};") {
		t.Errorf("expected if-statement trailing terminator:\n%s", out)
	}
}
