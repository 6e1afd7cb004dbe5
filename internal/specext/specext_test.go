package specext

import (
	"strings"
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

func withdrawModule() moveast.Module {
	u64 := moveast.PrimType{Name: "u64"}
	addr := &moveast.AddressLit{Value: "0xCAFE"}

	balanceField := &moveast.FieldAccess{
		Base: &moveast.Borrow{Kind: moveast.BorrowGlobal, Mutable: true, Type: "Vault", Base: addr},
		Field: "balance",
	}
	cond := &moveast.UnaryExpr{
		Op: "!",
		Operand: &moveast.BinExpr{
			Op:    ">=",
			Left:  balanceField,
			Right: &moveast.Ident{Name: "amount"},
		},
	}

	fn := moveast.Function{
		Name:     "withdraw",
		Acquires: []string{"Vault"},
		Body: []moveast.Stmt{
			moveast.IfStmt{
				Cond: cond,
				Then: []moveast.Stmt{moveast.AbortStmt{Code: &moveast.IntLit{Value: "1"}}},
			},
			moveast.AssignStmt{
				Target: balanceField,
				Value: &moveast.BinExpr{
					Op:    "-",
					Left:  balanceField,
					Right: &moveast.Ident{Name: "amount"},
				},
			},
		},
	}

	return moveast.Module{
		Address: "0xCAFE",
		Name:    "vault",
		Structs: []moveast.Struct{
			{Name: "Vault", Fields: []moveast.StructField{{Name: "balance", Type: u64}}},
		},
		Functions: []moveast.Function{fn},
	}
}

func TestExtractEmitsModulePragma(t *testing.T) {
	m := withdrawModule()
	Extract(&m)

	if len(m.Specs) == 0 || m.Specs[0].Kind != moveast.SpecModule {
		t.Fatalf("Specs[0] = %+v, want a module-level spec block first", m.Specs)
	}
	if len(m.Specs[0].Pragmas) != 1 || m.Specs[0].Pragmas[0] != "aborts_if_is_partial = true" {
		t.Errorf("Pragmas = %v, want [aborts_if_is_partial = true]", m.Specs[0].Pragmas)
	}
}

func findSpec(specs []moveast.SpecBlock, target string, kind moveast.SpecKind) *moveast.SpecBlock {
	for i := range specs {
		if specs[i].Target == target && specs[i].Kind == kind {
			return &specs[i]
		}
	}
	return nil
}

func TestExtractEmitsAcquiresAbortsIf(t *testing.T) {
	m := withdrawModule()
	Extract(&m)

	fnSpec := findSpec(m.Specs, "withdraw", moveast.SpecFunction)
	if fnSpec == nil {
		t.Fatal("no function spec for withdraw")
	}

	var sawExists bool
	for _, a := range fnSpec.AbortsIf {
		if a.Cond == "!exists<Vault>(@0xCAFE)" {
			sawExists = true
		}
	}
	if !sawExists {
		t.Errorf("AbortsIf = %+v, want !exists<Vault>(@0xCAFE)", fnSpec.AbortsIf)
	}
}

func TestExtractEmitsModifiesForMutableBorrow(t *testing.T) {
	m := withdrawModule()
	Extract(&m)

	fnSpec := findSpec(m.Specs, "withdraw", moveast.SpecFunction)
	if fnSpec == nil {
		t.Fatal("no function spec for withdraw")
	}
	if len(fnSpec.Modifies) != 1 || fnSpec.Modifies[0] != "global<Vault>(@0xCAFE)" {
		t.Errorf("Modifies = %v, want [global<Vault>(@0xCAFE)]", fnSpec.Modifies)
	}
}

func TestExtractNegatesAssertConditionAtOperatorLevel(t *testing.T) {
	m := withdrawModule()
	Extract(&m)

	fnSpec := findSpec(m.Specs, "withdraw", moveast.SpecFunction)
	if fnSpec == nil {
		t.Fatal("no function spec for withdraw")
	}

	var sawBalanceClause bool
	for _, a := range fnSpec.AbortsIf {
		if strings.Contains(a.Cond, "<") && strings.Contains(a.Cond, "balance") {
			sawBalanceClause = true
			if strings.Contains(a.Cond, "!(") {
				t.Errorf("AbortsIf clause %q should use operator-level negation, not a literal wrap", a.Cond)
			}
		}
	}
	if !sawBalanceClause {
		t.Errorf("AbortsIf = %+v, want a clause derived from the balance >= amount assert", fnSpec.AbortsIf)
	}
}

func TestExtractStructInvariantBoundsNarrowField(t *testing.T) {
	m := withdrawModule()
	Extract(&m)

	structSpec := findSpec(m.Specs, "Vault", moveast.SpecStruct)
	if structSpec == nil {
		t.Fatal("no struct spec for Vault")
	}
	if len(structSpec.Invariants) != 1 || structSpec.Invariants[0] != "balance <= 18446744073709551615" {
		t.Errorf("Invariants = %v, want [balance <= 18446744073709551615]", structSpec.Invariants)
	}
}
