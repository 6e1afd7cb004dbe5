package xform

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// vaultContract declares a sender-keyed balances mapping whose only write
// keys by msg.sender, making it eligible for "high"-level per-user
// resource promotion (spec.md §4.C).
func vaultContract() *ir.Contract {
	balanceType := ir.TableType{Key: ir.AddressType{}, Value: ir.UintType{Width: 256}}
	return &ir.Contract{
		Name:       "vault",
		SourceName: "Vault",
		StateVars: []*ir.StateVar{
			{Name: "balances", Type: balanceType, Kind: ir.VarMutableKind, Category: ir.CategoryUserKeyedMapping},
		},
		Functions: []*ir.Function{
			{
				Name: "deposit",
				Body: []ir.Stmt{
					ir.Assign{
						Target: ir.CollectionRead{
							Collection: "balances",
							Keys:       []ir.Expr{ir.Sender{}},
							Type:       ir.UintType{Width: 256},
						},
						Op:    "+=",
						Value: ir.Lit{Type: ir.UintType{Width: 256}, Value: "1"},
					},
				},
			},
		},
	}
}

func TestContractTransformerPromotesPerUserResource(t *testing.T) {
	c := vaultContract()
	az := analyzer.New()
	plan, _ := az.Analyze(c, analyzer.LevelHigh)

	if len(plan.PerUserResources) != 1 || plan.PerUserResources[0].Name != "PerUserbalances" {
		t.Fatalf("plan.PerUserResources = %+v, want one PerUserbalances entry", plan.PerUserResources)
	}

	mod := NewContractTransformer("0x1").WithPlan(plan).Transform(c)

	var resourceStruct *moveast.Struct
	for i := range mod.Structs {
		if mod.Structs[i].Name == "PerUserbalances" {
			resourceStruct = &mod.Structs[i]
		}
	}
	if resourceStruct == nil {
		t.Fatalf("Structs = %+v, want a PerUserbalances resource", mod.Structs)
	}
	if len(resourceStruct.Fields) != 1 || resourceStruct.Fields[0].Name != "balances" {
		t.Errorf("PerUserbalances.Fields = %+v, want a single balances field", resourceStruct.Fields)
	}

	fn := mod.Functions[0]
	if len(fn.Acquires) != 1 || fn.Acquires[0] != "PerUserbalances" {
		t.Errorf("Acquires = %v, want [PerUserbalances]", fn.Acquires)
	}

	assign, ok := fn.Body[0].(moveast.AssignStmt)
	if !ok {
		t.Fatalf("Body[0] = %T, want moveast.AssignStmt", fn.Body[0])
	}
	field, ok := assign.Target.(*moveast.FieldAccess)
	if !ok {
		t.Fatalf("Target = %T, want *moveast.FieldAccess", assign.Target)
	}
	borrow, ok := field.Base.(*moveast.Borrow)
	if !ok {
		t.Fatalf("Base = %T, want *moveast.Borrow", field.Base)
	}
	if borrow.Kind != moveast.BorrowGlobal || borrow.Type != "PerUserbalances" {
		t.Errorf("Borrow = %+v, want a BorrowGlobal<PerUserbalances>", borrow)
	}
	if call, ok := borrow.Base.(*moveast.Call); !ok || call.Func != "address_of" {
		t.Errorf("Borrow.Base = %+v, want the sender's own address, not the module address", borrow.Base)
	}
}
