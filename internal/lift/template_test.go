package lift

import (
	"testing"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

func stubFunc(name string) *solast.FuncDecl {
	return &solast.FuncDecl{Name: name, Visibility: solast.VisPublic, Body: []solast.Stmt{&solast.Return{}}}
}

func buildToken(methods ...string) *solast.File {
	contract := &solast.Contract{Name: "Token", Kind: solast.KindContract}
	for _, m := range methods {
		contract.Members = append(contract.Members, stubFunc(m))
	}
	return &solast.File{Path: "token.sol", Contracts: []*solast.Contract{contract}}
}

func TestWithTokenStandardDetectionRecognizesFungibleAsset(t *testing.T) {
	f := buildToken("transfer", "balanceOf", "totalSupply", "approve")
	contracts, reports := New().WithTokenStandardDetection(true, false).Lift([]*solast.File{f})

	if len(reports) != 0 {
		t.Fatalf("reports = %+v, want none", reports)
	}
	if len(contracts) != 1 || contracts[0].StandardTemplate != ir.TemplateFungibleAsset {
		t.Fatalf("StandardTemplate = %q, want %q", contracts[0].StandardTemplate, ir.TemplateFungibleAsset)
	}
}

func TestWithTokenStandardDetectionRecognizesDigitalAsset(t *testing.T) {
	f := buildToken("ownerOf", "transferFrom", "approve")
	contracts, _ := New().WithTokenStandardDetection(false, true).Lift([]*solast.File{f})

	if len(contracts) != 1 || contracts[0].StandardTemplate != ir.TemplateDigitalAsset {
		t.Fatalf("StandardTemplate = %q, want %q", contracts[0].StandardTemplate, ir.TemplateDigitalAsset)
	}
}

func TestWithTokenStandardDetectionDisabledLeavesTemplateEmpty(t *testing.T) {
	f := buildToken("transfer", "balanceOf", "totalSupply")
	contracts, _ := New().Lift([]*solast.File{f})

	if len(contracts) != 1 || contracts[0].StandardTemplate != "" {
		t.Fatalf("StandardTemplate = %q, want empty when detection is not enabled", contracts[0].StandardTemplate)
	}
}

func TestWithTokenStandardDetectionNoMatchLeavesTemplateEmpty(t *testing.T) {
	f := buildToken("increment")
	contracts, _ := New().WithTokenStandardDetection(true, true).Lift([]*solast.File{f})

	if len(contracts) != 1 || contracts[0].StandardTemplate != "" {
		t.Fatalf("StandardTemplate = %q, want empty for a non-token contract", contracts[0].StandardTemplate)
	}
}
