package pipeline

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// shimWrappers gives each ir.CryptoBuiltins target function a one-line
// body wrapping the Aptos framework function that actually implements
// it — the shim module exists only to give Source's global hash builtins
// a stable call target independent of which Move hash library backs them.
var shimWrappers = map[string]string{
	"keccak256": "aptos_std::aptos_hash::keccak256(data)",
	"sha2_256":  "std::hash::sha2_256(data)",
	"ripemd160": "aptos_std::aptos_hash::ripemd160(data)",
}

// runtimeShimText renders the fixed-form helper module a printed
// contract calls into for cryptographic builtin lowering (spec.md §4.A,
// §4.H): one function per ir.CryptoBuiltins entry, published at addr
// under ir.RuntimeShimModule.
func runtimeShimText(addr string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s::%s {\n", addr, ir.RuntimeShimModule)
	names := shimFunctionNames()
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "    public fun %s(data: vector<u8>): vector<u8> {\n", name)
		fmt.Fprintf(&b, "        %s\n", shimWrappers[name])
		b.WriteString("    }\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func shimFunctionNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, fn := range ir.CryptoBuiltins {
		if seen[fn] {
			continue
		}
		seen[fn] = true
		names = append(names, fn)
	}
	// Deterministic output: sort is overkill for three entries, but the
	// printer's own byte-identical-reprint invariant (spec.md §8) means
	// insertion order into a map must never leak into emitted text.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

// moduleUsesShim reports whether any function in mod calls into
// ir.RuntimeShimModule, the only trigger for including the shim module
// in a run's output (spec.md §4.H "runtime-shim inclusion gated on
// actual reference").
func moduleUsesShim(mod moveast.Module) bool {
	for _, fn := range mod.Functions {
		if stmtsUseShim(fn.Body) {
			return true
		}
	}
	return false
}

func stmtsUseShim(body []moveast.Stmt) bool {
	for _, s := range body {
		switch v := s.(type) {
		case moveast.LetStmt:
			if exprUsesShim(v.Value) {
				return true
			}
		case moveast.AssignStmt:
			if exprUsesShim(v.Target) || exprUsesShim(v.Value) {
				return true
			}
		case moveast.ExprStmt:
			if exprUsesShim(v.Expr) {
				return true
			}
		case moveast.IfStmt:
			if exprUsesShim(v.Cond) || stmtsUseShim(v.Then) || stmtsUseShim(v.Else) {
				return true
			}
		case moveast.LoopStmt:
			if (v.Cond != nil && exprUsesShim(v.Cond)) || stmtsUseShim(v.Body) {
				return true
			}
		case moveast.ReturnStmt:
			for _, e := range v.Values {
				if exprUsesShim(e) {
					return true
				}
			}
		case moveast.AbortStmt:
			if v.Code != nil && exprUsesShim(v.Code) {
				return true
			}
		}
	}
	return false
}

func exprUsesShim(e moveast.Expr) bool {
	switch v := e.(type) {
	case *moveast.Call:
		if v.Module == ir.RuntimeShimModule {
			return true
		}
		for _, a := range v.Args {
			if exprUsesShim(a) {
				return true
			}
		}
	case *moveast.BinExpr:
		return exprUsesShim(v.Left) || exprUsesShim(v.Right)
	case *moveast.UnaryExpr:
		return exprUsesShim(v.Operand)
	case *moveast.CastExpr:
		return exprUsesShim(v.Value)
	case *moveast.FieldAccess:
		return exprUsesShim(v.Base)
	case *moveast.Borrow:
		if exprUsesShim(v.Base) {
			return true
		}
		return v.Key != nil && exprUsesShim(v.Key)
	case *moveast.Deref:
		return exprUsesShim(v.Value)
	case *moveast.StructLit:
		for _, f := range v.Fields {
			if exprUsesShim(f.Value) {
				return true
			}
		}
	}
	return false
}
