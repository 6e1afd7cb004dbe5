package xform

import "github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"

// InjectWriteBacks walks a function body and, for every local variable
// bound from a table-copy origin (spec.md §3 "Table-Copy Origin") that is
// subsequently mutated, appends a write-back assignment before each
// explicit return and at the end of the body (spec.md §4.E.7
// "write-back injection"). Mutation is detected one level deep: a direct
// reassignment of the local, or an assignment to one of its fields.
// Mutations nested inside an If or Loop are not tracked across the block
// boundary — the copy-mutate-write-back scenario spec.md names is a
// straight-line local, and deeper control flow is left for a future pass.
func InjectWriteBacks(body []ir.Stmt) []ir.Stmt {
	tracked := map[string]*ir.TableCopyOrigin{}
	var order []string // names in first-capture order, for deterministic write-back emission
	var out []ir.Stmt

	for _, stmt := range body {
		switch s := stmt.(type) {
		case ir.Let:
			out = append(out, s)
			if s.TableCopyOrigin != nil {
				if _, seen := tracked[s.Name]; !seen {
					order = append(order, s.Name)
				}
				tracked[s.Name] = s.TableCopyOrigin
			}

		case ir.Assign:
			markMutation(s, tracked)
			out = append(out, s)

		case ir.Return:
			out = append(out, writeBacksFor(tracked, order)...)
			out = append(out, s)

		default:
			out = append(out, s)
		}
	}

	if !endsInReturn(body) {
		out = append(out, writeBacksFor(tracked, order)...)
	}

	return out
}

func endsInReturn(body []ir.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(ir.Return)
	return ok
}

func markMutation(a ir.Assign, tracked map[string]*ir.TableCopyOrigin) {
	switch target := a.Target.(type) {
	case ir.Var:
		if origin, ok := tracked[target.Name]; ok {
			origin.Mutated = true
		}
	case ir.FieldAccess:
		if base, ok := target.Base.(ir.Var); ok {
			if origin, ok := tracked[base.Name]; ok {
				origin.Mutated = true
			}
		}
	}
}

// writeBacksFor emits one Assign per mutated tracked origin, writing the
// local variable's current value back into the collection entry it was
// copied from. order fixes emission to the origins' first-capture
// sequence (spec.md §4.E.4), since ranging tracked directly would make it
// nondeterministic.
func writeBacksFor(tracked map[string]*ir.TableCopyOrigin, order []string) []ir.Stmt {
	var stmts []ir.Stmt
	for _, name := range order {
		origin := tracked[name]
		if !origin.Mutated {
			continue
		}
		stmts = append(stmts, ir.Assign{
			Target: ir.CollectionRead{Collection: origin.Collection, Keys: origin.Keys},
			Op:     "=",
			Value:  ir.Var{Name: name},
		})
		origin.Mutated = false
	}
	return stmts
}
