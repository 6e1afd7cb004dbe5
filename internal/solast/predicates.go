package solast

// Structural predicates over Source types and expressions. These are the
// only operations solast exposes beyond plain field access (spec.md §4.A
// keeps the IR model "purely data... no operations beyond constructors and
// simple structural predicates"; solast follows the same discipline).

// IsElementary reports whether t is a built-in scalar type.
func IsElementary(t TypeName) bool {
	_, ok := t.(*ElementaryType)
	return ok
}

// IsMapping reports whether t is a mapping type.
func IsMapping(t TypeName) bool {
	_, ok := t.(*MappingType)
	return ok
}

// IsNestedMapping reports whether t is a mapping whose value is itself a
// mapping (spec.md's "Nested mapping" scenario).
func IsNestedMapping(t TypeName) bool {
	m, ok := t.(*MappingType)
	if !ok {
		return false
	}
	return IsMapping(m.Value)
}

// IsAddressKeyed reports whether a mapping's key type is `address`, i.e. it
// is eligible for the user-keyed-mapping classification (spec.md §3).
func IsAddressKeyed(t TypeName) bool {
	m, ok := t.(*MappingType)
	if !ok {
		return false
	}
	e, ok := m.Key.(*ElementaryType)
	return ok && e.Name == "address"
}

// IsCompoundAssign reports whether op is one of the compound assignment
// operators recognized by the aggregatable-variable classification.
func IsCompoundAssign(op string) bool {
	switch op {
	case "+=", "-=":
		return true
	default:
		return false
	}
}

// IsPlainAssign reports whether op is the plain `=` operator.
func IsPlainAssign(op string) bool { return op == "=" }

// IsMsgSender reports whether expr is the `msg.sender` member expression.
func IsMsgSender(expr Expr) bool {
	m, ok := expr.(*MemberExpr)
	if !ok || m.Field != "sender" {
		return false
	}
	id, ok := m.Base.(*Ident)
	return ok && id.Name == "msg"
}

// IsRequireSenderEquals reports whether stmt is `require(msg.sender == X)`
// (optionally with a message) and, if so, returns the name referenced on
// the other side of the comparison — the candidate admin variable.
func IsRequireSenderEquals(stmt Stmt) (adminVar string, ok bool) {
	req, isReq := stmt.(*Require)
	if !isReq {
		return "", false
	}
	bin, isBin := req.Cond.(*BinaryExpr)
	if !isBin || bin.Op != "==" {
		return "", false
	}
	if IsMsgSender(bin.Left) {
		if id, ok := bin.Right.(*Ident); ok {
			return id.Name, true
		}
	}
	if IsMsgSender(bin.Right) {
		if id, ok := bin.Left.(*Ident); ok {
			return id.Name, true
		}
	}
	return "", false
}

// IsUnsignedInt reports whether name is a `uintN` elementary type name and
// returns its bit width.
func IsUnsignedInt(name string) (width int, ok bool) {
	if len(name) < 4 || name[:4] != "uint" {
		return 0, false
	}
	if name == "uint" {
		return 256, true
	}
	n := 0
	for _, c := range name[4:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}
