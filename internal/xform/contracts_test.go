package xform

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

func counterContract() *ir.Contract {
	return &ir.Contract{
		Name:       "counter",
		SourceName: "Counter",
		StateVars: []*ir.StateVar{
			{Name: "count", Type: ir.UintType{Width: 256}, Kind: ir.VarMutableKind, Category: ir.CategoryGeneral},
		},
		Functions: []*ir.Function{
			{
				Name: "increment",
				Body: []ir.Stmt{
					ir.Assign{
						Target: ir.StateRef{Name: "count", Type: ir.UintType{Width: 256}},
						Op:     "+=",
						Value:  ir.Lit{Type: ir.UintType{Width: 256}, Value: "1"},
					},
				},
			},
		},
	}
}

func TestContractTransformerBuildsResourceStruct(t *testing.T) {
	mod := NewContractTransformer("0x1").Transform(counterContract())

	if len(mod.Structs) != 1 {
		t.Fatalf("len(Structs) = %d, want 1", len(mod.Structs))
	}
	if mod.Structs[0].Name != "GeneralStore" {
		t.Errorf("Structs[0].Name = %q, want GeneralStore", mod.Structs[0].Name)
	}
	if len(mod.Functions) != 1 || mod.Functions[0].Name != "increment" {
		t.Fatalf("Functions = %+v", mod.Functions)
	}
	if len(mod.Functions[0].Acquires) != 1 || mod.Functions[0].Acquires[0] != "GeneralStore" {
		t.Errorf("Acquires = %v, want [GeneralStore]", mod.Functions[0].Acquires)
	}
}

func TestContractTransformerInjectsReentrancyGuard(t *testing.T) {
	c := &ir.Contract{
		Name: "vault",
		Functions: []*ir.Function{
			{
				Name:  "withdraw",
				Flags: ir.FuncModifierFlags{NonReentrant: true},
				Body:  []ir.Stmt{ir.Return{}},
			},
		},
	}

	mod := NewContractTransformer("0x1").Transform(c)

	var guardStruct *moveast.Struct
	for i := range mod.Structs {
		if mod.Structs[i].Name == reentrancyGroup {
			guardStruct = &mod.Structs[i]
		}
	}
	if guardStruct == nil {
		t.Fatal("no ReentrancyGuard struct emitted")
	}

	fn := mod.Functions[0]
	if len(fn.Body) < 4 {
		t.Fatalf("len(Body) = %d, want at least 4 (guard, lock, unlock, return)", len(fn.Body))
	}
	if _, ok := fn.Body[0].(moveast.IfStmt); !ok {
		t.Errorf("Body[0] = %T, want moveast.IfStmt (the locked-check guard)", fn.Body[0])
	}
	found := false
	for _, a := range fn.Acquires {
		if a == reentrancyGroup {
			found = true
		}
	}
	if !found {
		t.Errorf("Acquires = %v, want to include %s", fn.Acquires, reentrancyGroup)
	}
}
