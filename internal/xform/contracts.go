package xform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/analyzer"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/lift"
	"github.com/SeamMoney/aptos-move-transpiler-sub002/internal/moveast"
)

// reentrancyGroup names the synthesized resource holding the
// reentrancy-guard flag for contracts that need one.
const reentrancyGroup = "ReentrancyGuard"

// reentrancyAbortCode is the fixed error code an in-progress reentrant
// call aborts with; it sits outside the contract's own first-seen error
// namespace (spec.md §4.B.4 reserves 1-255 for such fixed codes).
const reentrancyAbortCode = "1"

// ContractTransformer lowers one IR contract into a Target module
// (spec.md §4.E): state variables become resource structs grouped by
// category, events and user structs carry across as Target structs,
// error codes become module constants, and every function is lowered via
// FuncTransformer with reentrancy guards materialized afterward.
type ContractTransformer struct {
	addr string
	plan *analyzer.ResourcePlan
}

// NewContractTransformer builds a transformer that publishes every
// resource under addr (e.g. "0x1" or a named address alias). Without a
// plan (see WithPlan) it falls back to one resource group per category;
// this differs from the analyzer's "low" plan, which puts every mutable
// variable in a single primary group.
func NewContractTransformer(addr string) *ContractTransformer {
	return &ContractTransformer{addr: addr}
}

// WithPlan attaches the analyzer's resource partition (spec.md §4.C),
// so resourceStructs and every state access resolve against ct's actual
// groups and per-user resources instead of the one-group-per-category
// default.
func (ct *ContractTransformer) WithPlan(plan *analyzer.ResourcePlan) *ContractTransformer {
	ct.plan = plan
	return ct
}

// Transform lowers c into a complete Target module.
func (ct *ContractTransformer) Transform(c *ir.Contract) moveast.Module {
	ft := NewFuncTransformer(c, ct.addr, ct.plan)

	mod := moveast.Module{
		Address: ct.addr,
		Name:    c.Name,
	}

	mod.Structs = append(mod.Structs, resourceStructs(c, ct.plan)...)

	needsGuard := usesReentrancyGuard(c)
	if needsGuard {
		mod.Structs = append(mod.Structs, moveast.Struct{
			Name:      reentrancyGroup,
			Abilities: []moveast.Ability{moveast.AbilityKey},
			Fields:    []moveast.StructField{{Name: lift.DefaultReentrancyField, Type: moveast.PrimType{Name: "bool"}}},
		})
	}

	for _, sd := range c.Structs {
		mod.Structs = append(mod.Structs, userStruct(sd))
	}
	for _, ed := range c.Enums {
		mod.Enums = append(mod.Enums, moveast.Enum{Name: ed.Name, Variants: ed.Variants})
	}
	for _, ev := range c.Events {
		mod.Structs = append(mod.Structs, eventStruct(ev))
	}
	for _, ec := range c.ErrorCodes {
		mod.Consts = append(mod.Consts, moveast.Const{Name: ec.Name, Type: moveast.PrimType{Name: "u64"}, Value: itoaInt(ec.Value)})
	}

	for _, fn := range c.Functions {
		lowered := ft.Transform(fn)
		if fn.Flags.NonReentrant {
			lowered.Body = injectReentrancyGuard(lowered.Body, ft)
			lowered.Acquires = appendUnique(lowered.Acquires, reentrancyGroup)
		}
		mod.Functions = append(mod.Functions, lowered)
	}

	return mod
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func usesReentrancyGuard(c *ir.Contract) bool {
	for _, fn := range c.Functions {
		if fn.Flags.NonReentrant {
			return true
		}
	}
	return false
}

// resourceStructs groups every state variable into resource structs. With
// a plan, groups follow the analyzer's actual partition (spec.md §4.C);
// without one every variable groups by category alone, one struct per
// category.
func resourceStructs(c *ir.Contract, plan *analyzer.ResourcePlan) []moveast.Struct {
	byName := map[string]*ir.StateVar{}
	for _, sv := range c.StateVars {
		byName[sv.Name] = sv
	}

	if plan == nil {
		fieldsByGroup := map[string][]moveast.StructField{}
		var order []string
		for _, sv := range c.StateVars {
			g := groupNameForCategory(c, sv.Category)
			if _, ok := fieldsByGroup[g]; !ok {
				order = append(order, g)
			}
			fieldsByGroup[g] = append(fieldsByGroup[g], moveast.StructField{Name: sv.Name, Type: convertType(sv.Type)})
		}

		var structs []moveast.Struct
		for _, g := range order {
			structs = append(structs, moveast.Struct{
				Name:      g,
				Abilities: []moveast.Ability{moveast.AbilityKey},
				Fields:    fieldsByGroup[g],
			})
		}
		return structs
	}

	var structs []moveast.Struct
	for _, g := range plan.Groups {
		var fields []moveast.StructField
		for _, name := range g.Members {
			if sv, ok := byName[name]; ok {
				fields = append(fields, moveast.StructField{Name: sv.Name, Type: convertType(sv.Type)})
			}
		}
		if len(fields) == 0 {
			continue
		}
		structs = append(structs, moveast.Struct{
			Name:      g.Name,
			Abilities: []moveast.Ability{moveast.AbilityKey},
			Fields:    fields,
		})
	}

	for _, pu := range plan.PerUserResources {
		sv, ok := byName[pu.VarName]
		if !ok {
			continue
		}
		fieldType := convertType(sv.Type)
		if tbl, ok := sv.Type.(ir.TableType); ok {
			fieldType = convertType(tbl.Value)
		}
		structs = append(structs, moveast.Struct{
			Name:      pu.Name,
			Abilities: []moveast.Ability{moveast.AbilityKey},
			Fields:    []moveast.StructField{{Name: pu.VarName, Type: fieldType}},
		})
	}
	return structs
}

func userStruct(sd ir.StructDef) moveast.Struct {
	var fields []moveast.StructField
	for _, p := range sd.Fields {
		fields = append(fields, moveast.StructField{Name: p.Name, Type: convertType(p.Type)})
	}
	return moveast.Struct{
		Name:      sd.Name,
		Abilities: []moveast.Ability{moveast.AbilityCopy, moveast.AbilityDrop, moveast.AbilityStore},
		Fields:    fields,
	}
}

func eventStruct(ev *ir.Event) moveast.Struct {
	var fields []moveast.StructField
	for _, p := range ev.Fields {
		fields = append(fields, moveast.StructField{Name: p.Name, Type: convertType(p.Type)})
	}
	return moveast.Struct{
		Name:      ev.Name,
		Abilities: []moveast.Ability{moveast.AbilityDrop, moveast.AbilityStore},
		Fields:    fields,
	}
}

// injectReentrancyGuard wraps a lowered function body with an
// assert-then-lock prologue and unlocks before every top-level return
// (spec.md §4.E "reentrancy guard injection"). lift only recognizes the
// modifier and sets the flag; materializing the guard's state and
// statements is this transformer's job. The flag is always
// lift.DefaultReentrancyField in the ReentrancyGuard resource; a field
// the contract declares itself (lift.ReentrancyFieldNames) is not reused.
//
// Only top-level returns are unlocked; a return nested inside an If or
// Loop leaves the guard set, matching the straight-line bodies the
// lifted withdraw-style functions this guards actually have.
func injectReentrancyGuard(body []moveast.Stmt, ft *FuncTransformer) []moveast.Stmt {
	boolT := moveast.PrimType{Name: "bool"}

	lockedRead := ft.fixedGroupAccess(reentrancyGroup, lift.DefaultReentrancyField, boolT, false)
	lock := moveast.AssignStmt{
		Target: ft.fixedGroupAccess(reentrancyGroup, lift.DefaultReentrancyField, boolT, true),
		Value:  &moveast.BoolLit{ExprHeader: header(boolT), Value: true},
	}
	unlock := moveast.AssignStmt{
		Target: ft.fixedGroupAccess(reentrancyGroup, lift.DefaultReentrancyField, boolT, true),
		Value:  &moveast.BoolLit{ExprHeader: header(boolT), Value: false},
	}
	guard := moveast.IfStmt{
		Cond: lockedRead,
		Then: []moveast.Stmt{moveast.AbortStmt{Code: &moveast.IntLit{ExprHeader: header(moveast.PrimType{Name: "u64"}), Value: reentrancyAbortCode}}},
	}

	out := []moveast.Stmt{guard, lock}
	out = append(out, unlockBeforeReturns(body, unlock)...)
	if !endsInMoveReturn(body) {
		out = append(out, unlock)
	}
	return out
}

func unlockBeforeReturns(body []moveast.Stmt, unlock moveast.AssignStmt) []moveast.Stmt {
	var out []moveast.Stmt
	for _, s := range body {
		if _, ok := s.(moveast.ReturnStmt); ok {
			out = append(out, unlock, s)
			continue
		}
		out = append(out, s)
	}
	return out
}

func endsInMoveReturn(body []moveast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(moveast.ReturnStmt)
	return ok
}
