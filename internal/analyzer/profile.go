package analyzer

import "github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"

// buildProfiles computes each function's read/write group footprint
// (spec.md §4.C "per-function profile") from a variable→group index.
func buildProfiles(c *ir.Contract, groupOf map[string]string) []AccessProfile {
	var profiles []AccessProfile
	for _, fn := range c.Functions {
		p := AccessProfile{Function: fn.Name, Reads: map[string]bool{}, Writes: map[string]bool{}}
		walkStmts(fn.Body, func(s ir.Stmt) {
			switch v := s.(type) {
			case ir.Assign:
				recordWrite(p, v.Target, groupOf)
				recordReads(p, v.Value, groupOf)
			case ir.Let:
				recordReads(p, v.Value, groupOf)
			case ir.If:
				recordReads(p, v.Cond, groupOf)
			case ir.Loop:
				if v.Cond != nil {
					recordReads(p, v.Cond, groupOf)
				}
			case ir.Return:
				for _, val := range v.Values {
					recordReads(p, val, groupOf)
				}
			case ir.Abort:
				if v.Cond != nil {
					recordReads(p, *v.Cond, groupOf)
				}
			case ir.EmitEvent:
				for _, val := range v.Args {
					recordReads(p, val, groupOf)
				}
			case ir.ExprStmt:
				recordReads(p, v.Expr, groupOf)
			}
		})
		// An admin-guarded function implicitly touches its guard's group
		// even if the guard's require was inlined as a bare Abort with no
		// surviving StateRef to the admin variable itself.
		if fn.AdminGuardedBy != "" {
			if g, ok := groupOf[fn.AdminGuardedBy]; ok {
				p.Reads[g] = true
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func recordWrite(p AccessProfile, target ir.Expr, groupOf map[string]string) {
	switch v := target.(type) {
	case ir.StateRef:
		if g, ok := groupOf[v.Name]; ok {
			p.Writes[g] = true
		}
	case ir.CollectionRead:
		if g, ok := groupOf[v.Collection]; ok {
			p.Writes[g] = true
		}
		for _, k := range v.Keys {
			recordReads(p, k, groupOf)
		}
	case ir.FieldAccess:
		recordWrite(p, v.Base, groupOf)
	}
}

func recordReads(p AccessProfile, e ir.Expr, groupOf map[string]string) {
	switch v := e.(type) {
	case ir.StateRef:
		if g, ok := groupOf[v.Name]; ok {
			p.Reads[g] = true
		}
	case ir.CollectionRead:
		if g, ok := groupOf[v.Collection]; ok {
			p.Reads[g] = true
		}
		for _, k := range v.Keys {
			recordReads(p, k, groupOf)
		}
	case ir.BinOp:
		recordReads(p, v.Left, groupOf)
		recordReads(p, v.Right, groupOf)
	case ir.UnOp:
		recordReads(p, v.Operand, groupOf)
	case ir.Cast:
		recordReads(p, v.Value, groupOf)
	case ir.FieldAccess:
		recordReads(p, v.Base, groupOf)
	case ir.Call:
		for _, arg := range v.Args {
			recordReads(p, arg, groupOf)
		}
	}
}
