package lift

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"TotalSupply", "total_supply"},
		{"totalSupply", "total_supply"},
		{"_locked", "_locked"},
		{"count", "count"},
		{"URLFetcher", "url_fetcher"},
		{"balances$", "balances_storage_ref"},
		{"reentrancy$guard", "reentrancy_storage_refguard"},
	}
	for _, tt := range tests {
		if got := snakeCase(tt.in); got != tt.want {
			t.Errorf("snakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func uintType() *solast.ElementaryType { return &solast.ElementaryType{Name: "uint256"} }

// buildCounter mirrors spec.md's "Counter" scenario: a single mutable
// state variable incremented by a public function.
func buildCounter() *solast.File {
	contract := &solast.Contract{
		Name: "Counter",
		Kind: solast.KindContract,
		Members: []solast.Member{
			&solast.StateVar{Name: "count", Type: uintType(), Mutability: solast.VarMutable, Visibility: solast.VisInternal},
			&solast.FuncDecl{
				Name:       "increment",
				Visibility: solast.VisPublic,
				Mutability: solast.MutNonpayable,
				Body: []solast.Stmt{
					&solast.Assign{
						Target: &solast.Ident{Name: "count"},
						Op:     "+=",
						Value:  &solast.Literal{Kind: solast.IntLiteral, Value: "1"},
					},
				},
			},
		},
	}
	return &solast.File{Path: "counter.sol", Contracts: []*solast.Contract{contract}}
}

func TestLiftCounter(t *testing.T) {
	l := New()
	contracts, reports := l.Lift([]*solast.File{buildCounter()})

	for _, r := range reports {
		t.Errorf("unexpected report: %s: %s", r.Code, r.Message)
	}
	if len(contracts) != 1 {
		t.Fatalf("len(contracts) = %d, want 1", len(contracts))
	}

	c := contracts[0]
	if c.Name != "counter" {
		t.Errorf("Name = %q, want counter", c.Name)
	}
	if len(c.StateVars) != 1 || c.StateVars[0].Name != "count" {
		t.Fatalf("StateVars = %+v", c.StateVars)
	}
	if len(c.Functions) != 1 || c.Functions[0].Name != "increment" {
		t.Fatalf("Functions = %+v", c.Functions)
	}

	body := c.Functions[0].Body
	if len(body) != 1 {
		t.Fatalf("len(body) = %d, want 1", len(body))
	}
	assign, ok := body[0].(ir.Assign)
	if !ok {
		t.Fatalf("body[0] = %T, want ir.Assign", body[0])
	}
	if _, ok := assign.Target.(ir.StateRef); !ok {
		t.Errorf("Assign.Target = %T, want ir.StateRef (count is a state variable)", assign.Target)
	}
}

func TestLiftSkipsInterface(t *testing.T) {
	f := &solast.File{
		Path: "iface.sol",
		Contracts: []*solast.Contract{
			{Name: "IToken", Kind: solast.KindInterface},
		},
	}
	l := New()
	contracts, reports := l.Lift([]*solast.File{f})

	if len(contracts) != 0 {
		t.Errorf("len(contracts) = %d, want 0", len(contracts))
	}
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(reports))
	}
	if reports[0].Code != "LFT001" {
		t.Errorf("Code = %q, want LFT001", reports[0].Code)
	}
	if reports[0].Severity != errors.SeverityWarning {
		t.Errorf("Severity = %v, want warning", reports[0].Severity)
	}
}

func TestLiftReentrancyModifierSetsFlag(t *testing.T) {
	contract := &solast.Contract{
		Name: "Vault",
		Kind: solast.KindContract,
		Members: []solast.Member{
			&solast.StateVar{Name: "locked", Type: &solast.ElementaryType{Name: "bool"}, Mutability: solast.VarMutable},
			&solast.FuncDecl{
				Name:       "withdraw",
				Visibility: solast.VisPublic,
				Mutability: solast.MutNonpayable,
				Modifiers:  []solast.ModifierInvocation{{Name: "nonReentrant"}},
				Body:       []solast.Stmt{&solast.Return{}},
			},
		},
	}
	f := &solast.File{Path: "vault.sol", Contracts: []*solast.Contract{contract}}

	l := New()
	contracts, reports := l.Lift([]*solast.File{f})
	for _, r := range reports {
		t.Errorf("unexpected report: %s: %s", r.Code, r.Message)
	}

	fn := contracts[0].Functions[0]
	if !fn.Flags.NonReentrant {
		t.Errorf("Flags.NonReentrant = false, want true")
	}
}

func TestLiftAdminModifierRecordsGuard(t *testing.T) {
	contract := &solast.Contract{
		Name: "Config",
		Kind: solast.KindContract,
		Members: []solast.Member{
			&solast.StateVar{Name: "owner", Type: &solast.ElementaryType{Name: "address"}, Mutability: solast.VarImmutable},
			&solast.ModifierDecl{
				Name: "onlyOwner",
				Body: []solast.Stmt{
					&solast.Require{Cond: &solast.BinaryExpr{
						Op:   "==",
						Left: &solast.MemberExpr{Base: &solast.Ident{Name: "msg"}, Field: "sender"},
						Right: &solast.Ident{Name: "owner"},
					}},
					&solast.Placeholder{},
				},
			},
			&solast.FuncDecl{
				Name:       "setFee",
				Visibility: solast.VisPublic,
				Mutability: solast.MutNonpayable,
				Modifiers:  []solast.ModifierInvocation{{Name: "onlyOwner"}},
				Body:       []solast.Stmt{&solast.Return{}},
			},
		},
	}
	f := &solast.File{Path: "config.sol", Contracts: []*solast.Contract{contract}}

	l := New()
	contracts, reports := l.Lift([]*solast.File{f})
	for _, r := range reports {
		t.Errorf("unexpected report: %s: %s", r.Code, r.Message)
	}

	fn := contracts[0].Functions[0]
	if fn.AdminGuardedBy != "owner" {
		t.Errorf("AdminGuardedBy = %q, want owner", fn.AdminGuardedBy)
	}
	// The guard's require should have been inlined ahead of the return.
	if len(fn.Body) != 2 {
		t.Fatalf("len(Body) = %d, want 2 (inlined require + return)", len(fn.Body))
	}
	if _, ok := fn.Body[0].(ir.Abort); !ok {
		t.Errorf("Body[0] = %T, want ir.Abort", fn.Body[0])
	}
}
