package xform

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// FuncTransformer lowers one IR contract's functions into Target
// functions (spec.md §4.E "Function/Contract Transformer"): resolving
// state-variable reads/writes to resource borrows, lowering the
// generalized C-style IR loop into Target's condition-less `loop`, and
// inserting table write-backs before every return.
type FuncTransformer struct {
	contract   *ir.Contract
	contractID string // conventional module-owned address literal
	plan       *analyzer.ResourcePlan
	expr       *ExprTransformer

	// pending accumulates the Target pre-statements ExprTransformer.Transform
	// originates while converting the statement currently being processed
	// (spec.md §4.D.6's nested-collection existence check). convertStmt
	// saves/restores it around its own scope so a block's pre-statements
	// never bleed into an enclosing statement's.
	pending []moveast.Stmt
}

// NewFuncTransformer builds a transformer bound to one contract; addr is
// the literal (e.g. "0x1") the module's resources are published under.
// plan may be nil, in which case every state variable groups by category
// alone (see groupForName).
func NewFuncTransformer(c *ir.Contract, addr string, plan *analyzer.ResourcePlan) *FuncTransformer {
	return &FuncTransformer{contract: c, contractID: addr, plan: plan, expr: NewExprTransformer()}
}

// Transform lowers a single IR function to its Target counterpart.
func (f *FuncTransformer) Transform(fn *ir.Function) moveast.Function {
	var params, returns []moveast.Param
	for _, p := range fn.Params {
		params = append(params, moveast.Param{Name: p.Name, Type: convertType(p.Type)})
	}
	var returnTypes []moveast.Type
	for _, r := range fn.Returns {
		returnTypes = append(returnTypes, convertType(r.Type))
	}

	body := InjectWriteBacks(fn.Body)
	var stmts []moveast.Stmt
	for _, s := range body {
		stmts = append(stmts, f.convertStmt(s)...)
	}

	return moveast.Function{
		Name:       fn.Name,
		Visibility: convertVisibility(fn.Visibility),
		IsEntry:    fn.Visibility == ir.VisPublic && !fn.Flags.IsView && !fn.Flags.IsPure,
		IsView:     fn.Flags.IsView || fn.Flags.IsPure,
		Acquires:   acquiresFor(body, f.contract, f.plan),
		Params:     params,
		Returns:    returnTypes,
		Body:       stmts,
	}
}

func convertVisibility(v ir.Visibility) moveast.Visibility {
	switch v {
	case ir.VisPublic:
		return moveast.VisPublic
	case ir.VisFriend:
		return moveast.VisFriend
	case ir.VisPackage:
		return moveast.VisPackage
	default:
		return moveast.VisPrivate
	}
}

// acquiresFor collects the distinct resource groups any StateRef within
// body touches, in first-seen order, for the function's `acquires`
// clause. Groups are resolved the same way stateAccess resolves them, so
// the two never drift apart.
func acquiresFor(body []ir.Stmt, c *ir.Contract, plan *analyzer.ResourcePlan) []string {
	seen := map[string]bool{}
	var order []string
	var walkExpr func(e ir.Expr)
	var walkStmt func(s ir.Stmt)

	record := func(group string) {
		if !seen[group] {
			seen[group] = true
			order = append(order, group)
		}
	}

	walkExpr = func(e ir.Expr) {
		switch v := e.(type) {
		case ir.StateRef:
			record(groupForName(c, v.Name, plan))
		case ir.CollectionRead:
			record(groupForName(c, v.Collection, plan))
			for _, k := range v.Keys {
				walkExpr(k)
			}
		case ir.BinOp:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case ir.UnOp:
			walkExpr(v.Operand)
		case ir.Cast:
			walkExpr(v.Value)
		case ir.FieldAccess:
			walkExpr(v.Base)
		case ir.Call:
			for _, a := range v.Args {
				walkExpr(a)
			}
		}
	}

	walkStmt = func(s ir.Stmt) {
		switch v := s.(type) {
		case ir.Let:
			walkExpr(v.Value)
		case ir.Assign:
			walkExpr(v.Target)
			walkExpr(v.Value)
		case ir.If:
			walkExpr(v.Cond)
			for _, st := range v.Then {
				walkStmt(st)
			}
			for _, st := range v.Else {
				walkStmt(st)
			}
		case ir.Loop:
			for _, st := range v.Init {
				walkStmt(st)
			}
			if v.Cond != nil {
				walkExpr(v.Cond)
			}
			for _, st := range v.Body {
				walkStmt(st)
			}
			for _, st := range v.Post {
				walkStmt(st)
			}
		case ir.Return:
			for _, val := range v.Values {
				walkExpr(val)
			}
		case ir.Abort:
			if v.Cond != nil {
				walkExpr(*v.Cond)
			}
		case ir.EmitEvent:
			for _, a := range v.Args {
				walkExpr(a)
			}
		case ir.ExprStmt:
			walkExpr(v.Expr)
		}
	}

	for _, s := range body {
		walkStmt(s)
	}
	return order
}

// groupForName resolves the resource group a state variable belongs to.
// With a plan, this follows the analyzer's actual partition, including
// per-user promotion; without one every variable in a category shares
// one group named after that category.
func groupForName(c *ir.Contract, name string, plan *analyzer.ResourcePlan) string {
	if plan != nil {
		if pu := perUserFor(plan, name); pu != nil {
			return pu.Name
		}
		if g, ok := analyzer.GroupIndex(plan)[name]; ok {
			return g
		}
	}
	for _, sv := range c.StateVars {
		if sv.Name == name {
			return groupNameForCategory(c, sv.Category)
		}
	}
	return c.PrimaryGroupName()
}

// perUserFor reports the per-user resource name plan, which promoted
// the state variable name under the "high" optimization level.
func perUserFor(plan *analyzer.ResourcePlan, name string) *analyzer.PerUserResource {
	for i, pu := range plan.PerUserResources {
		if pu.VarName == name {
			return &plan.PerUserResources[i]
		}
	}
	return nil
}

func groupNameForCategory(c *ir.Contract, cat ir.Category) string {
	switch cat {
	case ir.CategoryAdminConfig:
		return "AdminConfig"
	case ir.CategoryAggregatable:
		return "Aggregatable"
	case ir.CategoryUserKeyedMapping:
		return "UserKeyedMapping"
	case ir.CategoryEventTrackable:
		return "EventTrackable"
	default:
		return c.PrimaryGroupName()
	}
}

func convertType(t ir.Type) moveast.Type {
	switch v := t.(type) {
	case ir.UintType:
		return moveast.PrimType{Name: v.String()}
	case ir.BoolType:
		return moveast.PrimType{Name: "bool"}
	case ir.AddressType:
		return moveast.PrimType{Name: "address"}
	case ir.StringType:
		return moveast.StructType{Name: "String"}
	case ir.VectorType:
		return moveast.VectorType{Elem: convertType(v.Elem)}
	case ir.TableType:
		return moveast.TableType{Key: convertType(v.Key), Value: convertType(v.Value)}
	case ir.StructRef:
		return moveast.StructType{Name: v.Name}
	case ir.EnumRef:
		return moveast.StructType{Name: v.Name}
	default:
		return moveast.PrimType{Name: "u64"}
	}
}

func header(t moveast.Type) moveast.ExprHeader { return moveast.ExprHeader{InferredType: t} }

func (f *FuncTransformer) convertExpr(e ir.Expr) moveast.Expr {
	transformed, pre := f.expr.Transform(e)
	for _, p := range pre {
		f.pending = append(f.pending, f.convertStmt(p)...)
	}
	e = transformed

	switch v := e.(type) {
	case ir.Var:
		return &moveast.Ident{ExprHeader: header(convertType(v.Type)), Name: v.Name}

	case ir.StateRef:
		return f.stateAccess(v.Name, convertType(v.Type), false)

	case ir.Lit:
		return f.convertLit(v)

	case ir.BinOp:
		return &moveast.BinExpr{ExprHeader: header(convertType(v.Type)), Op: v.Op, Left: f.convertExpr(v.Left), Right: f.convertExpr(v.Right)}

	case ir.UnOp:
		return &moveast.UnaryExpr{ExprHeader: header(convertType(v.Type)), Op: v.Op, Operand: f.convertExpr(v.Operand)}

	case ir.Cast:
		return &moveast.CastExpr{ExprHeader: header(convertType(v.To)), Value: f.convertExpr(v.Value), To: convertType(v.To)}

	case ir.CollectionRead:
		return f.collectionAccess(v, false)

	case ir.Call:
		return f.callExpr(v)

	case ir.FieldAccess:
		return &moveast.FieldAccess{ExprHeader: header(convertType(v.Type)), Base: f.convertExpr(v.Base), Field: v.Field}

	case ir.Sender:
		return &moveast.Call{
			ExprHeader: header(moveast.PrimType{Name: "address"}),
			Module:     "signer",
			Func:       "address_of",
			Args:       []moveast.Expr{&moveast.Ident{Name: "account"}},
		}

	case ir.Unsupported:
		return &moveast.Unsupported{Pattern: v.Pattern}

	default:
		return &moveast.Unsupported{Pattern: fmt.Sprintf("%T", e)}
	}
}

// convertLValue mirrors convertExpr but resolves StateRef/CollectionRead
// through a mutable borrow, for assignment targets.
func (f *FuncTransformer) convertLValue(e ir.Expr) moveast.Expr {
	switch v := e.(type) {
	case ir.StateRef:
		return f.stateAccess(v.Name, convertType(v.Type), true)
	case ir.CollectionRead:
		return f.collectionAccess(v, true)
	case ir.FieldAccess:
		return &moveast.FieldAccess{ExprHeader: header(convertType(v.Type)), Base: f.convertLValue(v.Base), Field: v.Field}
	default:
		return f.convertExpr(e)
	}
}

func (f *FuncTransformer) convertLit(v ir.Lit) moveast.Expr {
	switch v.Type.(type) {
	case ir.BoolType:
		return &moveast.BoolLit{ExprHeader: header(moveast.PrimType{Name: "bool"}), Value: v.Value == "true"}
	case ir.AddressType:
		return &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: v.Value}
	case ir.UintType:
		return &moveast.IntLit{ExprHeader: header(convertType(v.Type)), Value: v.Value, Suffix: v.Type.String()}
	default:
		return &moveast.Unsupported{ExprHeader: header(convertType(v.Type)), Pattern: "string-literal"}
	}
}

// stateAccess resolves a bare state-variable reference to
// `borrow_global[_mut]<Group>(@addr).field` (spec.md §4.C).
func (f *FuncTransformer) stateAccess(name string, fieldType moveast.Type, mutable bool) moveast.Expr {
	return f.fixedGroupAccess(groupForName(f.contract, name, f.plan), name, fieldType, mutable)
}

// fixedGroupAccess builds a `borrow_global[_mut]<Group>(@addr).field`
// expression against an explicit group, bypassing the state-variable
// name lookup stateAccess does. Used for synthesized fields — the
// reentrancy-guard flag — that have no corresponding declared state
// variable.
func (f *FuncTransformer) fixedGroupAccess(group, field string, fieldType moveast.Type, mutable bool) moveast.Expr {
	addr := &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: f.contractID}
	borrow := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Mutable: mutable, Elem: moveast.StructType{Name: group}}),
		Kind:       moveast.BorrowGlobal,
		Mutable:    mutable,
		Type:       group,
		Base:       addr,
	}
	return &moveast.FieldAccess{ExprHeader: header(fieldType), Base: borrow, Field: field}
}

// collectionAccess resolves a (possibly nested) table read to a chain of
// `table::borrow` calls rooted at the owning resource's table field,
// dereferenced for use as a value (spec.md §4.D.6, "nested mapping"
// scenario). Called with mutable=true from convertLValue when the
// assignment target is a field of an existing entry (not the entry
// itself, which collectionWriteStmt handles via upsert) — that path needs
// the raw reference, not a dereferenced value, so the result is left
// unwrapped.
func (f *FuncTransformer) collectionAccess(v ir.CollectionRead, mutable bool) moveast.Expr {
	group := groupForName(f.contract, v.Collection, f.plan)

	// A per-user-promoted mapping is published per-address rather than
	// under the module's own address, so its group resource borrows
	// against the first key (the sender that every write key matched)
	// instead of f.contractID; any remaining keys (a nested mapping)
	// still chain through table borrows off its single field.
	var base moveast.Expr
	remainingKeys := v.Keys
	if f.plan != nil && perUserFor(f.plan, v.Collection) != nil && len(v.Keys) > 0 {
		base = f.convertExpr(v.Keys[0])
		remainingKeys = v.Keys[1:]
	} else {
		base = &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: f.contractID}
	}

	resource := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Mutable: mutable, Elem: moveast.StructType{Name: group}}),
		Kind:       moveast.BorrowGlobal,
		Mutable:    mutable,
		Type:       group,
		Base:       base,
	}
	cur := moveast.Expr(&moveast.FieldAccess{ExprHeader: header(convertType(v.Type)), Base: resource, Field: v.Collection})

	for i, key := range remainingKeys {
		last := i == len(remainingKeys)-1
		cur = &moveast.Borrow{
			ExprHeader: header(convertType(v.Type)),
			Kind:       moveast.BorrowTable,
			Mutable:    mutable && last,
			Base:       cur,
			Key:        f.convertExpr(key),
		}
	}

	// table::borrow[_mut] returns a reference; a read needs the pointee,
	// not the reference itself (spec.md §4.D.6). A per-user-promoted
	// mapping with no remaining keys collapsed to a plain scalar field,
	// which Target's dot-projection already reads by value, so it is left
	// as-is.
	if !mutable && len(remainingKeys) > 0 {
		return &moveast.Deref{ExprHeader: header(convertType(v.Type)), Value: cur}
	}
	return cur
}

// collectionWriteStmt lowers a direct assignment to a (possibly nested)
// collection entry `C[k1]...[kn] = v`: the innermost key always upserts
// rather than borrowing mutably, so writing a brand-new key inserts
// instead of aborting (spec.md §4.D.6). Every key before the last is
// guarded by an existence-ensuring pre-statement and descended into via
// an explicit borrow_mut call. Assigning a single field of an
// already-existing entry (`structs[key].field = v`) does not go through
// here — convertLValue's ir.FieldAccess case still uses collectionAccess's
// mutable-borrow chain for that, since the entry must already exist.
func (f *FuncTransformer) collectionWriteStmt(cr ir.CollectionRead, value ir.Expr) []moveast.Stmt {
	group := groupForName(f.contract, cr.Collection, f.plan)

	var base moveast.Expr
	remainingKeys := cr.Keys
	if f.plan != nil && perUserFor(f.plan, cr.Collection) != nil && len(cr.Keys) > 0 {
		base = f.convertExpr(cr.Keys[0])
		remainingKeys = cr.Keys[1:]
	} else {
		base = &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: f.contractID}
	}

	resource := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Mutable: true, Elem: moveast.StructType{Name: group}}),
		Kind:       moveast.BorrowGlobal,
		Mutable:    true,
		Type:       group,
		Base:       base,
	}
	cur := moveast.Expr(&moveast.FieldAccess{ExprHeader: header(convertType(cr.Type)), Base: resource, Field: cr.Collection})

	if len(remainingKeys) == 0 {
		// Per-user promotion consumed every key: the mapping collapsed
		// into a scalar field on the per-address resource, not a table
		// entry, so a plain assignment is all that's needed.
		return []moveast.Stmt{moveast.AssignStmt{Target: cur, Value: f.convertExpr(value)}}
	}

	var stmts []moveast.Stmt
	descended := false
	for _, key := range remainingKeys[:len(remainingKeys)-1] {
		k := f.convertExpr(key)
		stmts = append(stmts, f.ensureNestedEntry(group, cr.Collection, base, k))
		cur = &moveast.Call{
			ExprHeader: header(convertType(cr.Type)),
			Module:     "table",
			Func:       "borrow_mut",
			Args:       []moveast.Expr{refArg(cur, descended), k},
		}
		descended = true
	}

	lastKey := f.convertExpr(remainingKeys[len(remainingKeys)-1])
	upsert := &moveast.Call{
		ExprHeader: header(moveast.PrimType{Name: "()"}),
		Module:     "table",
		Func:       "upsert",
		Args:       []moveast.Expr{refArg(cur, descended), lastKey, f.convertExpr(value)},
	}
	stmts = append(stmts, moveast.ExprStmt{Expr: upsert})
	return stmts
}

// desugarCompoundAssign rewrites a compound assignment (`x += v`) into the
// equivalent binary expression (`x + v`) a plain AssignStmt can hold;
// convertExpr's pass through ExprTransformer.Transform then harmonizes
// its operands exactly as it would for any other BinOp, so an untyped
// literal right-hand side (spec.md §4.D.2's `balance += 100` case) gets
// annotated there rather than needing a second code path. A plain "="
// assignment passes its value through unchanged.
func desugarCompoundAssign(v ir.Assign) ir.Expr {
	op := strings.TrimSuffix(v.Op, "=")
	if op == "" || v.Op == "=" {
		return v.Value
	}
	return ir.BinOp{Node: v.Node, Op: op, Left: v.Target, Right: v.Value}
}

// refArg wraps base in an explicit `&mut` unless it is already a
// reference-producing expression (the return of a table::borrow_mut
// call); wrapping that again would take a reference to a reference.
func refArg(base moveast.Expr, alreadyRef bool) moveast.Expr {
	if alreadyRef {
		return base
	}
	return &moveast.Ref{Mutable: true, Value: base}
}

// ensureNestedEntry builds the pre-statement spec.md §4.D.6 requires
// before descending into a nested collection entry: if collection[outerKey]
// is absent under base's resource, an empty inner collection is inserted
// there first.
func (f *FuncTransformer) ensureNestedEntry(group, collection string, base, outerKey moveast.Expr) moveast.Stmt {
	readRes := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Elem: moveast.StructType{Name: group}}),
		Kind:       moveast.BorrowGlobal,
		Type:       group,
		Base:       base,
	}
	outerRead := &moveast.FieldAccess{ExprHeader: header(moveast.StructType{Name: "Table"}), Base: readRes, Field: collection}
	contains := &moveast.Call{
		ExprHeader: header(moveast.PrimType{Name: "bool"}),
		Module:     "table",
		Func:       "contains",
		Args:       []moveast.Expr{&moveast.Ref{Value: outerRead}, outerKey},
	}

	writeRes := &moveast.Borrow{
		ExprHeader: header(moveast.RefType{Mutable: true, Elem: moveast.StructType{Name: group}}),
		Kind:       moveast.BorrowGlobal,
		Mutable:    true,
		Type:       group,
		Base:       base,
	}
	outerWrite := &moveast.FieldAccess{ExprHeader: header(moveast.StructType{Name: "Table"}), Base: writeRes, Field: collection}
	// table::new()'s <K, V> type arguments are left for the Target
	// compiler to infer from outerWrite's declared field type; this pass
	// does not track nested collection element types precisely enough to
	// supply them explicitly.
	newInner := &moveast.Call{ExprHeader: header(moveast.StructType{Name: "Table"}), Module: "table", Func: "new"}
	add := &moveast.Call{
		ExprHeader: header(moveast.PrimType{Name: "()"}),
		Module:     "table",
		Func:       "add",
		Args:       []moveast.Expr{&moveast.Ref{Mutable: true, Value: outerWrite}, outerKey, newInner},
	}
	return moveast.IfStmt{
		Cond: &moveast.UnaryExpr{ExprHeader: header(moveast.PrimType{Name: "bool"}), Op: "!", Operand: contains},
		Then: []moveast.Stmt{moveast.ExprStmt{Expr: add}},
	}
}

func (f *FuncTransformer) callExpr(v ir.Call) moveast.Expr {
	var args []moveast.Expr
	for _, a := range v.Args {
		args = append(args, f.convertExpr(a))
	}

	module, name := "", v.Target
	if idx := strings.LastIndex(v.Target, "."); idx >= 0 {
		module, name = v.Target[:idx], v.Target[idx+1:]
	}

	return &moveast.Call{ExprHeader: header(convertType(v.Type)), Module: module, Func: name, Args: args}
}

// convertStmt lowers one IR statement, then prepends any Target
// pre-statements convertExpr accumulated into f.pending while converting
// it (spec.md §4.D.6's nested-collection existence check). Saving and
// restoring f.pending around the switch keeps a nested block's
// pre-statements scoped to that block instead of leaking into whatever
// statement encloses it.
func (f *FuncTransformer) convertStmt(s ir.Stmt) []moveast.Stmt {
	saved := f.pending
	f.pending = nil

	var out []moveast.Stmt
	switch v := s.(type) {
	case ir.Let:
		var declType moveast.Type
		if v.Type != nil {
			declType = convertType(v.Type)
		}
		value := annotateUntypedLiteral(v.Value, v.Type)
		out = []moveast.Stmt{moveast.LetStmt{Name: v.Name, Type: declType, Value: f.convertExpr(value)}}

	case ir.Assign:
		value := desugarCompoundAssign(v)
		if cr, ok := v.Target.(ir.CollectionRead); ok {
			out = f.collectionWriteStmt(cr, annotateUntypedLiteral(value, cr.Type))
		} else {
			value = annotateUntypedLiteral(value, operandType(v.Target))
			out = []moveast.Stmt{moveast.AssignStmt{Target: f.convertLValue(v.Target), Value: f.convertExpr(value)}}
		}

	case ir.If:
		out = []moveast.Stmt{moveast.IfStmt{Cond: f.convertExpr(v.Cond), Then: f.convertStmtList(v.Then), Else: f.convertStmtList(v.Else)}}

	case ir.Loop:
		out = f.convertLoop(v)

	case ir.Return:
		var values []moveast.Expr
		for _, val := range v.Values {
			values = append(values, f.convertExpr(val))
		}
		out = []moveast.Stmt{moveast.ReturnStmt{Values: values}}

	case ir.Abort:
		code := &moveast.IntLit{ExprHeader: header(moveast.PrimType{Name: "u64"}), Value: itoaInt(v.Code.Value)}
		if v.Cond == nil {
			out = []moveast.Stmt{moveast.AbortStmt{Code: code}}
		} else {
			out = []moveast.Stmt{moveast.IfStmt{Cond: f.convertExpr(*v.Cond), Then: []moveast.Stmt{moveast.AbortStmt{Code: code}}}}
		}

	case ir.EmitEvent:
		var fields []moveast.FieldInit
		for i, a := range v.Args {
			fields = append(fields, moveast.FieldInit{Name: fmt.Sprintf("field%d", i), Value: f.convertExpr(a)})
		}
		emit := &moveast.Call{
			ExprHeader: header(moveast.PrimType{Name: "()"}),
			Module:     "event",
			Func:       "emit",
			Args:       []moveast.Expr{&moveast.StructLit{Struct: v.Event, Fields: fields}},
		}
		out = []moveast.Stmt{moveast.ExprStmt{Expr: emit}}

	case ir.ExprStmt:
		out = []moveast.Stmt{moveast.ExprStmt{Expr: f.convertExpr(v.Expr)}}

	case ir.EnsureNestedEntry:
		// A per-user-promoted mapping's first key collapses the table
		// into a flat per-address field; there is no real nested table
		// structure left to guard, so this step is a no-op.
		if f.plan != nil && perUserFor(f.plan, v.Collection) != nil {
			break
		}
		group := groupForName(f.contract, v.Collection, f.plan)
		base := &moveast.AddressLit{ExprHeader: header(moveast.PrimType{Name: "address"}), Value: f.contractID}
		out = []moveast.Stmt{f.ensureNestedEntry(group, v.Collection, base, f.convertExpr(v.OuterKey))}

	case ir.Unsupported:
		out = []moveast.Stmt{moveast.ExprStmt{Expr: &moveast.Unsupported{Pattern: v.Pattern}}}

	default:
		out = []moveast.Stmt{moveast.ExprStmt{Expr: &moveast.Unsupported{Pattern: fmt.Sprintf("%T", s)}}}
	}

	pre := f.pending
	f.pending = saved
	return append(pre, out...)
}

func (f *FuncTransformer) convertStmtList(list []ir.Stmt) []moveast.Stmt {
	var out []moveast.Stmt
	for _, s := range list {
		out = append(out, f.convertStmt(s)...)
	}
	return out
}

// convertLoop lowers IR's generalized C-style loop (Init/Cond/Post/Body)
// into Target's condition-less `loop`: Init runs once ahead of the loop,
// Cond becomes a negated guard-and-break at the top of the body, and Post
// runs at the bottom (spec.md §4.E "loop lowering").
func (f *FuncTransformer) convertLoop(l ir.Loop) []moveast.Stmt {
	var out []moveast.Stmt
	out = append(out, f.convertStmtList(l.Init)...)

	var body []moveast.Stmt
	if l.Cond != nil {
		// Cond is re-evaluated on every iteration, so any pre-statement it
		// originates (a nested-table existence check) must land inside the
		// loop body immediately before the guard, not hoisted above the
		// whole loop where it would only run once.
		saved := f.pending
		f.pending = nil
		condExpr := f.convertExpr(l.Cond)
		condPre := f.pending
		f.pending = saved

		guard := &moveast.UnaryExpr{ExprHeader: header(moveast.PrimType{Name: "bool"}), Op: "!", Operand: condExpr}
		body = append(body, condPre...)
		body = append(body, moveast.IfStmt{Cond: guard, Then: []moveast.Stmt{moveast.BreakStmt{}}})
	}
	body = append(body, f.convertStmtList(l.Body)...)
	body = append(body, f.convertStmtList(l.Post)...)

	out = append(out, moveast.LoopStmt{Body: body})
	return out
}

func itoaInt(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
