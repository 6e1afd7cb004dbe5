// Package printer implements the Target Printer (spec.md §4.G): a
// deterministic concrete-syntax emitter over internal/moveast — the same
// AST always yields identical bytes, modulo the two rendering options it
// accepts.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// CallStyle selects how a standard-library call against a borrowed
// reference renders (spec.md §4.G).
type CallStyle int

const (
	CallStyleModuleQualified CallStyle = iota
	CallStyleReceiver
)

// Options configures one Print invocation. The zero value renders
// module-qualified calls with explicit borrow/index call syntax.
type Options struct {
	CallStyle     CallStyle
	IndexNotation bool
}

// receiverAllowList names the standard-library (module, function) pairs
// spec.md §4.G permits rewriting into receiver-call form. Anything absent
// from this set always renders module-qualified, regardless of CallStyle.
var receiverAllowList = map[string]bool{
	"vector.push_back":    true,
	"vector.pop_back":     true,
	"vector.length":       true,
	"vector.contains":     true,
	"vector.is_empty":     true,
	"vector.remove":       true,
	"vector.swap_remove":  true,
	"table.add":           true,
	"table.borrow_mut":    true,
	"table.contains":      true,
	"table.remove":        true,
	"table.upsert":        true,
	"option.is_some":      true,
	"option.is_none":      true,
	"option.extract":      true,
	"option.destroy_some": true,
	"string.length":       true,
	"string.append":       true,
	"string.sub_string":   true,
	"string.bytes":        true,
	"string.index_of":     true,
}

// printer accumulates emitted text for one module.
type printer struct {
	opts Options
	buf  strings.Builder
}

// Print renders m as Target concrete syntax under opts.
func Print(m moveast.Module, opts Options) string {
	p := &printer{opts: opts}
	p.module(m)
	return p.buf.String()
}

func (p *printer) writeLine(depth int, s string) {
	p.buf.WriteString(strings.Repeat("    ", depth))
	p.buf.WriteString(s)
	p.buf.WriteString("\n")
}

func (p *printer) module(m moveast.Module) {
	p.writeLine(0, fmt.Sprintf("module %s::%s {", m.Address, m.Name))

	for _, u := range m.Uses {
		line := fmt.Sprintf("use %s::%s", u.Address, u.Module)
		if u.Alias != "" {
			line += " as " + u.Alias
		}
		p.writeLine(1, line+";")
	}
	if len(m.Uses) > 0 {
		p.buf.WriteString("\n")
	}

	for _, c := range m.Consts {
		p.writeLine(1, fmt.Sprintf("const %s: %s = %s;", c.Name, c.Type.String(), c.Value))
	}
	if len(m.Consts) > 0 {
		p.buf.WriteString("\n")
	}

	for _, e := range m.Enums {
		p.writeLine(1, fmt.Sprintf("enum %s {", e.Name))
		p.writeLine(2, strings.Join(e.Variants, ", "))
		p.writeLine(1, "}")
		p.buf.WriteString("\n")
	}

	for _, s := range m.Structs {
		p.structDecl(s)
		p.buf.WriteString("\n")
	}

	for i, fn := range m.Functions {
		p.function(fn)
		if i != len(m.Functions)-1 {
			p.buf.WriteString("\n")
		}
	}

	for _, sb := range m.Specs {
		p.buf.WriteString("\n")
		p.specBlock(sb)
	}

	p.writeLine(0, "}")
}

func (p *printer) structDecl(s moveast.Struct) {
	abilities := make([]string, len(s.Abilities))
	for i, a := range s.Abilities {
		abilities[i] = a.String()
	}
	header := "struct " + s.Name
	if len(abilities) > 0 {
		header += " has " + strings.Join(abilities, ", ")
	}
	p.writeLine(1, header+" {")
	for _, f := range s.Fields {
		p.writeLine(2, fmt.Sprintf("%s: %s,", f.Name, f.Type.String()))
	}
	p.writeLine(1, "}")
}

func (p *printer) function(fn moveast.Function) {
	if fn.IsView {
		p.writeLine(1, "#[view]")
	}

	var parts []string
	if vis := fn.Visibility.String(); vis != "" {
		parts = append(parts, vis)
	}
	if fn.IsEntry {
		parts = append(parts, "entry")
	}
	if fn.IsInline {
		parts = append(parts, "inline")
	}
	parts = append(parts, "fun")

	params := make([]string, len(fn.Params))
	for i, prm := range fn.Params {
		params[i] = prm.Name + ": " + prm.Type.String()
	}

	sig := strings.Join(parts, " ") + " " + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if len(fn.Returns) == 1 {
		sig += ": " + fn.Returns[0].String()
	} else if len(fn.Returns) > 1 {
		rets := make([]string, len(fn.Returns))
		for i, r := range fn.Returns {
			rets[i] = r.String()
		}
		sig += ": (" + strings.Join(rets, ", ") + ")"
	}
	if len(fn.Acquires) > 0 {
		sig += " acquires " + strings.Join(fn.Acquires, ", ")
	}
	sig += " {"
	p.writeLine(1, sig)

	for _, s := range fn.Body {
		p.stmt(2, s)
	}
	p.writeLine(1, "}")
}

func (p *printer) stmt(depth int, s moveast.Stmt) {
	switch v := s.(type) {
	case moveast.LetStmt:
		line := "let " + v.Name
		if v.Type != nil {
			line += ": " + v.Type.String()
		}
		p.writeLine(depth, line+" = "+p.expr(v.Value)+";")

	case moveast.AssignStmt:
		p.writeLine(depth, p.expr(v.Target)+" = "+p.expr(v.Value)+";")

	case moveast.ExprStmt:
		p.writeLine(depth, p.expr(v.Expr)+";")

	case moveast.IfStmt:
		p.writeLine(depth, "if ("+p.expr(v.Cond)+") {")
		for _, s2 := range v.Then {
			p.stmt(depth+1, s2)
		}
		if len(v.Else) > 0 {
			p.writeLine(depth, "} else {")
			for _, s2 := range v.Else {
				p.stmt(depth+1, s2)
			}
		}
		// If-statements are expressions in Target grammar; used as a
		// statement in a sequence they require the trailing terminator.
		p.writeLine(depth, "};")

	case moveast.LoopStmt:
		p.writeLine(depth, "loop {")
		for _, s2 := range v.Body {
			p.stmt(depth+1, s2)
		}
		p.writeLine(depth, "};")

	case moveast.BreakStmt:
		p.writeLine(depth, "break;")

	case moveast.ContinueStmt:
		p.writeLine(depth, "continue;")

	case moveast.ReturnStmt:
		if len(v.Values) == 0 {
			p.writeLine(depth, "return;")
			return
		}
		vals := make([]string, len(v.Values))
		for i, e := range v.Values {
			vals[i] = p.expr(e)
		}
		p.writeLine(depth, "return "+strings.Join(vals, ", ")+";")

	case moveast.AbortStmt:
		p.writeLine(depth, "abort "+p.expr(v.Code)+";")
	}
}

func (p *printer) expr(e moveast.Expr) string {
	switch v := e.(type) {
	case *moveast.Ident:
		return v.Name

	case *moveast.IntLit:
		return normalizeNumericLiteral(v.Value) + v.Suffix

	case *moveast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"

	case *moveast.AddressLit:
		return "@" + v.Value

	case *moveast.BinExpr:
		return "(" + p.expr(v.Left) + " " + v.Op + " " + p.expr(v.Right) + ")"

	case *moveast.UnaryExpr:
		return v.Op + p.expr(v.Operand)

	case *moveast.CastExpr:
		return p.castExpr(v)

	case *moveast.Call:
		return p.callExpr(v)

	case *moveast.Borrow:
		return p.borrowExpr(v)

	case *moveast.Deref:
		return "*" + p.expr(v.Value)

	case *moveast.Ref:
		prefix := "&"
		if v.Mutable {
			prefix = "&mut "
		}
		return prefix + p.expr(v.Value)

	case *moveast.FieldAccess:
		return p.fieldAccess(v)

	case *moveast.StructLit:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Name + ": " + p.expr(f.Value)
		}
		return v.Struct + " { " + strings.Join(fields, ", ") + " }"

	case *moveast.Unsupported:
		return "/* unsupported: " + v.Pattern + " */"
	}
	return ""
}

// castExpr collapses a cast onto an already-matching-suffix integer
// literal, per spec.md §4.G's "cast-to-narrower type literals" rule.
func (p *printer) castExpr(v *moveast.CastExpr) string {
	if lit, ok := v.Value.(*moveast.IntLit); ok && lit.Suffix != "" && lit.Suffix == v.To.String() {
		return p.expr(lit)
	}
	return "(" + p.expr(v.Value) + " as " + v.To.String() + ")"
}

func (p *printer) callExpr(v *moveast.Call) string {
	key := strings.ToLower(v.Module) + "." + v.Func
	if p.opts.CallStyle == CallStyleReceiver && receiverAllowList[key] && len(v.Args) > 0 {
		recv := p.expr(stripBorrow(v.Args[0]))
		rest := make([]string, 0, len(v.Args)-1)
		for _, a := range v.Args[1:] {
			rest = append(rest, p.expr(a))
		}
		return recv + "." + v.Func + "(" + strings.Join(rest, ", ") + ")"
	}

	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = p.expr(a)
	}
	name := v.Func
	if v.Module != "" {
		name = v.Module + "::" + v.Func
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// stripBorrow unwraps a receiver call's first argument: `&x`/`&mut x`
// becomes `x` in receiver-call form, since the Target infers the borrow.
func stripBorrow(e moveast.Expr) moveast.Expr {
	if b, ok := e.(*moveast.Borrow); ok && b.Kind != moveast.BorrowGlobal {
		return b.Base
	}
	if r, ok := e.(*moveast.Ref); ok {
		return r.Value
	}
	return e
}

func (p *printer) borrowExpr(v *moveast.Borrow) string {
	switch v.Kind {
	case moveast.BorrowGlobal:
		if p.opts.IndexNotation {
			if v.Mutable {
				return "&mut " + v.Type + "[" + p.expr(v.Base) + "]"
			}
			return v.Type + "[" + p.expr(v.Base) + "]"
		}
		fn := "borrow_global"
		if v.Mutable {
			fn = "borrow_global_mut"
		}
		return fn + "<" + v.Type + ">(" + p.expr(v.Base) + ")"

	case moveast.BorrowVector:
		if p.opts.IndexNotation {
			if v.Mutable {
				return "&mut " + p.expr(v.Base) + "[" + p.expr(v.Key) + "]"
			}
			return p.expr(v.Base) + "[" + p.expr(v.Key) + "]"
		}
		fn := "borrow"
		if v.Mutable {
			fn = "borrow_mut"
		}
		if p.opts.CallStyle == CallStyleReceiver {
			return p.expr(v.Base) + "." + fn + "(" + p.expr(v.Key) + ")"
		}
		return "vector::" + fn + "(" + p.refExpr(v.Base, v.Mutable) + ", " + p.expr(v.Key) + ")"

	case moveast.BorrowTable:
		fn := "borrow"
		if v.Mutable {
			fn = "borrow_mut"
		}
		if p.opts.CallStyle == CallStyleReceiver {
			return p.expr(v.Base) + "." + fn + "(" + p.expr(v.Key) + ")"
		}
		return "table::" + fn + "(" + p.refExpr(v.Base, v.Mutable) + ", " + p.expr(v.Key) + ")"
	}
	return ""
}

// refExpr renders base's address-of form for a module-qualified stdlib
// call whose first parameter is a reference (`&t` / `&mut t`).
func (p *printer) refExpr(base moveast.Expr, mutable bool) string {
	prefix := "&"
	if mutable {
		prefix = "&mut "
	}
	return prefix + p.expr(base)
}

// fieldAccess parenthesizes the base when it's a Deref, matching the
// grammar's requirement that `*borrow_global<T>(a).field` be written
// `(*borrow_global<T>(a)).field` (spec.md §4.D.8).
func (p *printer) fieldAccess(v *moveast.FieldAccess) string {
	base := p.expr(v.Base)
	if _, ok := v.Base.(*moveast.Deref); ok {
		base = "(" + base + ")"
	}
	return base + "." + v.Field
}

func (p *printer) specBlock(sb moveast.SpecBlock) {
	kind := "module"
	switch sb.Kind {
	case moveast.SpecFunction:
		kind = "fun " + sb.Target
	case moveast.SpecStruct:
		kind = "struct " + sb.Target
	}
	p.writeLine(0, "spec "+kind+" {")
	for _, pr := range sb.Pragmas {
		p.writeLine(1, "pragma "+pr+";")
	}
	for _, pre := range sb.Preconditions {
		p.writeLine(1, "requires "+pre+";")
	}
	for _, a := range sb.AbortsIf {
		line := "aborts_if " + a.Cond
		if a.Code != "" {
			line += " with " + a.Code
		}
		p.writeLine(1, line+";")
	}
	for _, m := range sb.Modifies {
		p.writeLine(1, "modifies "+m+";")
	}
	for _, inv := range sb.Invariants {
		p.writeLine(1, "invariant "+inv+";")
	}
	for _, post := range sb.Postconditions {
		p.writeLine(1, "ensures "+post+";")
	}
	p.writeLine(0, "}")
}

// normalizeNumericLiteral expands scientific notation to a decimal digit
// string and strips leading zeros, per spec.md §4.G. Hex literals pass
// through unchanged.
func normalizeNumericLiteral(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "0x") {
		return raw
	}

	if idx := strings.IndexByte(lower, 'e'); idx >= 0 {
		mantissa := raw[:idx]
		expPart := strings.TrimPrefix(raw[idx+1:], "+")
		if exp, err := strconv.Atoi(expPart); err == nil && exp >= 0 {
			intPart, fracPart := mantissa, ""
			if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
				intPart, fracPart = mantissa[:dot], mantissa[dot+1:]
			}
			zerosNeeded := exp - len(fracPart)
			if zerosNeeded >= 0 {
				return stripLeadingZeros(intPart + fracPart + strings.Repeat("0", zerosNeeded))
			}
		}
		return raw
	}
	return stripLeadingZeros(raw)
}

func stripLeadingZeros(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	if neg {
		return "-" + trimmed
	}
	return trimmed
}
