package lift

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

// hashCallFile builds a single-function contract returning a call to one
// of Source's global hash builtins.
func hashCallFile(contractName, builtin string) *solast.File {
	contract := &solast.Contract{
		Name: contractName,
		Kind: solast.KindContract,
		Members: []solast.Member{
			&solast.FuncDecl{
				Name:       "hashIt",
				Visibility: solast.VisPublic,
				Mutability: solast.MutView,
				Body: []solast.Stmt{
					&solast.Return{Values: []solast.Expr{
						&solast.CallExpr{
							Callee: &solast.Ident{Name: builtin},
							Args:   []solast.Expr{&solast.Ident{Name: "data"}},
						},
					}},
				},
			},
		},
	}
	return &solast.File{Path: contractName + ".sol", Contracts: []*solast.Contract{contract}}
}

func TestLiftRoutesKeccak256ThroughRuntimeShim(t *testing.T) {
	contracts, reports := New().Lift([]*solast.File{hashCallFile("Hasher", "keccak256")})
	for _, r := range reports {
		t.Errorf("unexpected report: %s: %s", r.Code, r.Message)
	}

	call := returnCall(t, contracts)
	want := ir.RuntimeShimModule + ".keccak256"
	if call.Target != want {
		t.Errorf("Target = %q, want %q", call.Target, want)
	}
}

func TestLiftRoutesSha256ToShimSha2_256(t *testing.T) {
	contracts, _ := New().Lift([]*solast.File{hashCallFile("Hasher", "sha256")})
	call := returnCall(t, contracts)
	want := ir.RuntimeShimModule + ".sha2_256"
	if call.Target != want {
		t.Errorf("Target = %q, want %q", call.Target, want)
	}
}

func TestLiftMarksEcrecoverUnsupported(t *testing.T) {
	contracts, _ := New().Lift([]*solast.File{hashCallFile("Hasher", "ecrecover")})
	if len(contracts) != 1 || len(contracts[0].Functions) != 1 {
		t.Fatalf("unexpected lift shape: %+v", contracts)
	}
	body := contracts[0].Functions[0].Body
	ret, ok := body[0].(ir.Return)
	if !ok || len(ret.Values) != 1 {
		t.Fatalf("body[0] = %+v, want a one-value Return", body[0])
	}
	if _, ok := ret.Values[0].(ir.Unsupported); !ok {
		t.Errorf("Values[0] = %T, want ir.Unsupported", ret.Values[0])
	}
}

func returnCall(t *testing.T, contracts []*ir.Contract) ir.Call {
	t.Helper()
	if len(contracts) != 1 || len(contracts[0].Functions) != 1 {
		t.Fatalf("unexpected lift shape: %+v", contracts)
	}
	body := contracts[0].Functions[0].Body
	if len(body) != 1 {
		t.Fatalf("len(body) = %d, want 1", len(body))
	}
	ret, ok := body[0].(ir.Return)
	if !ok || len(ret.Values) != 1 {
		t.Fatalf("body[0] = %+v, want a one-value Return", body[0])
	}
	call, ok := ret.Values[0].(ir.Call)
	if !ok {
		t.Fatalf("Values[0] = %T, want ir.Call", ret.Values[0])
	}
	return call
}

func TestLiftReportsModuleNameConflictAgainstShim(t *testing.T) {
	f := hashCallFile("SolMoveRuntime", "keccak256")
	// "SolMoveRuntime" is deliberately not what moduleName snake-cases to
	// the reserved name; use the exact reserved identifier instead so the
	// conflict actually fires.
	f.Contracts[0].Name = "Sol2moveRuntime"
	_, reports := New().Lift([]*solast.File{f})

	var sawConflict bool
	for _, r := range reports {
		if r.Code == errors.LFT003 {
			sawConflict = true
		}
	}
	if !sawConflict {
		t.Errorf("reports = %+v, want an LFT003 conflict", reports)
	}
}

func TestLiftReportsModuleNameConflictBetweenContracts(t *testing.T) {
	a := hashCallFile("Token", "keccak256")
	b := hashCallFile("token", "sha256") // snake_cases to the same module name as "Token"
	_, reports := New().Lift([]*solast.File{a, b})

	var sawConflict bool
	for _, r := range reports {
		if r.Code == errors.LFT003 {
			sawConflict = true
		}
	}
	if !sawConflict {
		t.Errorf("reports = %+v, want an LFT003 conflict", reports)
	}
}
