package lift

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/solast"
)

// funcLifter lowers one contract's functions, closing over the modifier
// table and the partially-built IR contract so a function can append a
// first-seen error code as it goes, and so
// identifier references can be resolved against the contract's own state
// variable set (state vars lower to StateRef, everything else to Var).
type funcLifter struct {
	contract  *ir.Contract
	modifiers map[string]*solast.ModifierDecl
	stateVars map[string]bool
}

func newFuncLifter(contract *ir.Contract, modifiers map[string]*solast.ModifierDecl) *funcLifter {
	stateVars := make(map[string]bool, len(contract.StateVars))
	for _, sv := range contract.StateVars {
		stateVars[sv.Name] = true
	}
	return &funcLifter{contract: contract, modifiers: modifiers, stateVars: stateVars}
}

// liftFunc lowers one Source function declaration: it resolves admin and
// reentrancy guards out of the applied modifiers, inlines every remaining
// modifier body around the function body, synthesizes "initialize" for a
// constructor, and lowers the resulting statement list to IR.
func (fl *funcLifter) liftFunc(fn *solast.FuncDecl) (*ir.Function, []*errors.Report) {
	var reports []*errors.Report

	name := snakeCase(fn.Name)
	if fn.IsConstructor {
		name = "initialize"
	}

	out := &ir.Function{
		Node:       ir.Node{OrigPos: fn.Pos.String()},
		Name:       name,
		Visibility: liftVisibility(fn.Visibility),
		Flags: ir.FuncModifierFlags{
			IsView:        fn.Mutability == solast.MutView,
			IsPure:        fn.Mutability == solast.MutPure,
			IsConstructor: fn.IsConstructor,
		},
	}

	for _, p := range fn.Params {
		out.Params = append(out.Params, ir.Param{Name: snakeCase(p.Name), Type: liftType(p.Type)})
	}
	for _, r := range fn.Returns {
		out.Returns = append(out.Returns, ir.Param{Name: snakeCase(r.Name), Type: liftType(r.Type)})
	}

	body := fn.Body
	for i := len(fn.Modifiers) - 1; i >= 0; i-- {
		inv := fn.Modifiers[i]

		if isReentrancyModifierName(inv.Name) {
			out.Flags.NonReentrant = true
			continue
		}

		decl, ok := fl.modifiers[inv.Name]
		if !ok {
			reports = append(reports, &errors.Report{
				Schema:   "sol2move.diagnostic/v1",
				Code:     errors.LFT004,
				Phase:    "lift",
				Severity: errors.SeverityError,
				Message:  "modifier " + inv.Name + " has no declaration in scope",
				Pos:      posOf(inv.Pos),
			})
			continue
		}

		if admin, ok := adminGuardVar(decl); ok {
			out.AdminGuardedBy = admin
		}

		body = inlineModifierBody(decl.Body, body)
	}

	out.Body = fl.liftStmtList(body)

	return out, reports
}

// adminGuardVar scans a modifier's body, prior to its placeholder, for a
// `require(msg.sender == X)` guard and returns X, the candidate
// admin-config variable (spec.md §4.C "admin-config" criterion).
func adminGuardVar(decl *solast.ModifierDecl) (string, bool) {
	for _, stmt := range decl.Body {
		if _, isPlaceholder := stmt.(*solast.Placeholder); isPlaceholder {
			return "", false
		}
		if name, ok := solast.IsRequireSenderEquals(stmt); ok {
			return snakeCase(name), true
		}
	}
	return "", false
}

// inlineModifierBody substitutes inner in place of modBody's Placeholder
// statement, recursing into If/For/While/Block bodies so a placeholder
// nested under a guard clause is still found.
func inlineModifierBody(modBody []solast.Stmt, inner []solast.Stmt) []solast.Stmt {
	var out []solast.Stmt
	for _, stmt := range modBody {
		out = append(out, inlineModifierStmt(stmt, inner)...)
	}
	return out
}

func inlineModifierStmt(stmt solast.Stmt, inner []solast.Stmt) []solast.Stmt {
	switch s := stmt.(type) {
	case *solast.Placeholder:
		return inner
	case *solast.Block:
		return []solast.Stmt{&solast.Block{Body: inlineModifierBody(s.Body, inner), Pos: s.Pos}}
	case *solast.If:
		return []solast.Stmt{&solast.If{
			Cond: s.Cond,
			Then: inlineModifierBody(s.Then, inner),
			Else: inlineModifierBody(s.Else, inner),
			Pos:  s.Pos,
		}}
	case *solast.For:
		return []solast.Stmt{&solast.For{
			Init: s.Init,
			Cond: s.Cond,
			Post: s.Post,
			Body: inlineModifierBody(s.Body, inner),
			Pos:  s.Pos,
		}}
	case *solast.While:
		return []solast.Stmt{&solast.While{
			Cond: s.Cond,
			Body: inlineModifierBody(s.Body, inner),
			Pos:  s.Pos,
		}}
	default:
		return []solast.Stmt{stmt}
	}
}

// liftStmtList lowers a Source statement list to IR, flattening Block
// statements (IR has no block-grouping node of its own).
func (fl *funcLifter) liftStmtList(stmts []solast.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range stmts {
		out = append(out, fl.liftStmt(s)...)
	}
	return out
}

func (fl *funcLifter) liftStmt(stmt solast.Stmt) []ir.Stmt {
	node := ir.Node{OrigPos: stmt.Position().String()}

	switch s := stmt.(type) {
	case *solast.Block:
		return fl.liftStmtList(s.Body)

	case *solast.ExprStmt:
		return []ir.Stmt{ir.ExprStmt{Node: node, Expr: fl.liftExpr(s.Expr)}}

	case *solast.VarDeclStmt:
		var out []ir.Stmt
		if len(s.Names) == 1 {
			var val ir.Expr
			if s.Value != nil {
				val = fl.liftExpr(s.Value)
			}
			var ty ir.Type
			if len(s.Types) > 0 && s.Types[0] != nil {
				ty = liftType(s.Types[0])
			}
			origin := fl.tableCopyOrigin(s.Value)
			out = append(out, ir.Let{Node: node, Name: snakeCase(s.Names[0]), Type: ty, Value: val, TableCopyOrigin: origin})
		} else {
			// Multi-target declaration from a tuple-returning call: bind
			// the call once, then project each result positionally.
			tmp := "$tuple"
			var val ir.Expr
			if s.Value != nil {
				val = fl.liftExpr(s.Value)
			}
			out = append(out, ir.Let{Node: node, Name: tmp, Value: val})
			for i, n := range s.Names {
				var ty ir.Type
				if i < len(s.Types) && s.Types[i] != nil {
					ty = liftType(s.Types[i])
				}
				out = append(out, ir.Let{
					Node: node,
					Name: snakeCase(n),
					Type: ty,
					Value: ir.Call{
						Node:   node,
						Target: "$tuple_index",
						Args:   []ir.Expr{ir.Var{Node: node, Name: tmp}, ir.Lit{Node: node, Value: itoaInt(i)}},
					},
				})
			}
		}
		return out

	case *solast.Assign:
		return []ir.Stmt{ir.Assign{Node: node, Target: fl.liftExpr(s.Target), Op: s.Op, Value: fl.liftExpr(s.Value)}}

	case *solast.If:
		return []ir.Stmt{ir.If{Node: node, Cond: fl.liftExpr(s.Cond), Then: fl.liftStmtList(s.Then), Else: fl.liftStmtList(s.Else)}}

	case *solast.For:
		var init []ir.Stmt
		if s.Init != nil {
			init = fl.liftStmt(s.Init)
		}
		var post []ir.Stmt
		if s.Post != nil {
			post = fl.liftStmt(s.Post)
		}
		var cond ir.Expr
		if s.Cond != nil {
			cond = fl.liftExpr(s.Cond)
		}
		return []ir.Stmt{ir.Loop{Node: node, Init: init, Cond: cond, Post: post, Body: fl.liftStmtList(s.Body)}}

	case *solast.While:
		return []ir.Stmt{ir.Loop{Node: node, Cond: fl.liftExpr(s.Cond), Body: fl.liftStmtList(s.Body)}}

	case *solast.Return:
		var vals []ir.Expr
		for _, v := range s.Values {
			vals = append(vals, fl.liftExpr(v))
		}
		return []ir.Stmt{ir.Return{Node: node, Values: vals}}

	case *solast.Require:
		cond := negate(fl.liftExpr(s.Cond))
		return []ir.Stmt{ir.Abort{Node: node, Cond: &cond, Code: fl.resolveErrorCode(s.Message)}}

	case *solast.Revert:
		name := s.CustomError
		if name == "" {
			name = s.Message
		}
		return []ir.Stmt{ir.Abort{Node: node, Code: fl.resolveErrorCode(name)}}

	case *solast.Emit:
		var args []ir.Expr
		for _, a := range s.Args {
			args = append(args, fl.liftExpr(a))
		}
		return []ir.Stmt{ir.EmitEvent{Node: node, Event: s.Event, Args: args}}

	case *solast.Placeholder:
		// A placeholder left over after modifier inlining (e.g. a modifier
		// with no matching invocation) lowers to nothing.
		return nil

	case *solast.InlineAssembly:
		return []ir.Stmt{ir.Unsupported{Node: node, Pattern: "inline-assembly"}}

	default:
		return []ir.Stmt{ir.Unsupported{Node: node, Pattern: "unknown-statement"}}
	}
}

// tableCopyOrigin reports, for a Let binding's initializer, whether value
// reads a state collection entry directly; if so it returns the
// TableCopyOrigin to attach to the new local so internal/xform's
// InjectWriteBacks can later inject a write-back at scope exit if the
// local (or one of its fields) is ever mutated (spec.md §4.D "Table-Copy
// write-back dataflow").
func (fl *funcLifter) tableCopyOrigin(value solast.Expr) *ir.TableCopyOrigin {
	idx, ok := value.(*solast.IndexExpr)
	if !ok {
		return nil
	}
	collection, keys, ok := collectionReadKeys(idx, fl)
	if !ok {
		return nil
	}
	return &ir.TableCopyOrigin{Collection: collection, Keys: keys}
}

// negate wraps an already-lowered condition in a logical-not, since
// `require(cond)` aborts when cond is false (spec.md §4.E.6).
func negate(cond ir.Expr) ir.Expr {
	return ir.UnOp{Op: "!", Operand: cond, Type: ir.BoolType{}}
}

// resolveErrorCode looks up message's error code in the contract's table,
// first-seen-registering it at the next 256-up slot if this is the first
// time this message has been observed (spec.md §4.B.4).
func (fl *funcLifter) resolveErrorCode(message string) ir.ErrorCode {
	name := screamingSnake(message)
	if code, ok := fl.contract.FindErrorCode(name); ok {
		return code
	}
	code := ir.ErrorCode{Name: name, Value: fl.contract.NextErrorCodeValue()}
	fl.contract.ErrorCodes = append(fl.contract.ErrorCodes, code)
	return code
}

func itoaInt(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// liftExpr lowers a Source expression to IR. Type fields carry the
// parser's best-effort EvaluatedType where available; internal/xform
// corrects and completes them during harmonization. Identifiers naming a
// state variable of the enclosing contract lower to StateRef rather than
// Var, so later passes never have to re-derive which names are storage.
func (fl *funcLifter) liftExpr(expr solast.Expr) ir.Expr {
	node := ir.Node{OrigPos: expr.Position().String()}
	var ty ir.Type
	if et := expr.EvaluatedType(); et != nil {
		ty = liftType(et)
	}

	switch e := expr.(type) {
	case *solast.Ident:
		name := snakeCase(e.Name)
		if fl.stateVars[name] {
			return ir.StateRef{Node: node, Name: name, Type: ty}
		}
		return ir.Var{Node: node, Name: name, Type: ty}

	case *solast.Literal:
		return ir.Lit{Node: node, Type: ty, Value: e.Value}

	case *solast.BinaryExpr:
		if solast.IsMsgSender(e) {
			return ir.Sender{Node: node}
		}
		return ir.BinOp{Node: node, Op: e.Op, Left: fl.liftExpr(e.Left), Right: fl.liftExpr(e.Right), Type: ty}

	case *solast.UnaryExpr:
		return ir.UnOp{Node: node, Op: e.Op, Operand: fl.liftExpr(e.Operand), Type: ty}

	case *solast.CastExpr:
		return ir.Cast{Node: node, Value: fl.liftExpr(e.Value), To: liftType(e.ToType)}

	case *solast.IndexExpr:
		if collection, keys, ok := collectionReadKeys(e, fl); ok {
			return ir.CollectionRead{Node: node, Collection: collection, Keys: keys, Type: ty}
		}
		return ir.Unsupported{Node: node, Pattern: "non-mapping-index"}

	case *solast.MemberExpr:
		if solast.IsMsgSender(e) {
			return ir.Sender{Node: node}
		}
		return ir.FieldAccess{Node: node, Base: fl.liftExpr(e.Base), Field: snakeCase(e.Field), Type: ty}

	case *solast.CallExpr:
		if e.DynamicDispatch {
			return ir.Unsupported{Node: node, Pattern: "dynamic-dispatch"}
		}
		if ident, ok := e.Callee.(*solast.Ident); ok && ident.Name == "ecrecover" {
			return ir.Unsupported{Node: node, Pattern: "ecrecover"}
		}
		var args []ir.Expr
		for _, a := range e.Args {
			args = append(args, fl.liftExpr(a))
		}
		return ir.Call{Node: node, Target: callTarget(e.Callee), Args: args, Type: ty}

	case *solast.NewExpr:
		var args []ir.Expr
		for _, a := range e.Args {
			args = append(args, fl.liftExpr(a))
		}
		return ir.Call{Node: node, Target: "new_" + snakeCase(e.Type.String()), Args: args, Type: ty}

	case *solast.TupleExpr:
		// A bare tuple expression outside a multi-assign lowers to its
		// first element; destructuring is handled at the VarDeclStmt level.
		if len(e.Elements) > 0 {
			return fl.liftExpr(e.Elements[0])
		}
		return ir.Unsupported{Node: node, Pattern: "empty-tuple"}

	case *solast.Conditional:
		// Target has no ternary operator. A Conditional lowers to an
		// unsupported marker wherever it appears; no later pass rewrites
		// it into an if/else.
		return ir.Unsupported{Node: node, Pattern: "ternary-conditional"}

	default:
		return ir.Unsupported{Node: node, Pattern: "unknown-expression"}
	}
}

// collectionReadKeys recognizes `state[k]` and `state[k1][k2]` index
// chains over an identifier, the two shapes spec.md §4.D.6 "Collection
// access lowering" names explicitly.
func collectionReadKeys(e *solast.IndexExpr, fl *funcLifter) (collection string, keys []ir.Expr, ok bool) {
	if outer, isIndex := e.Base.(*solast.IndexExpr); isIndex {
		if id, isIdent := outer.Base.(*solast.Ident); isIdent {
			return snakeCase(id.Name), []ir.Expr{fl.liftExpr(outer.Key), fl.liftExpr(e.Key)}, true
		}
		return "", nil, false
	}
	if id, isIdent := e.Base.(*solast.Ident); isIdent {
		return snakeCase(id.Name), []ir.Expr{fl.liftExpr(e.Key)}, true
	}
	return "", nil, false
}

// callTarget renders a callee expression as a flat target name. Plain
// identifiers lower to their snake_case form; member-style calls
// (`lib.helper(...)`) flatten to `lib_helper` pending module-qualification
// by the function transformer once resource groups are known.
func callTarget(callee solast.Expr) string {
	switch c := callee.(type) {
	case *solast.Ident:
		if shimFn, ok := ir.CryptoBuiltins[c.Name]; ok {
			return ir.RuntimeShimModule + "." + shimFn
		}
		return snakeCase(c.Name)
	case *solast.MemberExpr:
		if base, ok := c.Base.(*solast.Ident); ok {
			return snakeCase(base.Name) + "_" + snakeCase(c.Field)
		}
		return snakeCase(c.Field)
	default:
		return "$unknown_callee"
	}
}
