package analyzer

import "github.com/SeamMoney/aptos-move-transpiler-sub002/internal/ir"

// groupName mirrors the per-category naming internal/xform's function
// transformer uses when it builds resource structs, so a plan computed
// here and the groups xform actually emits always agree on spelling.
// The general-category name follows c.PrimaryGroupName(), so a
// recognized token standard's resource carries the runtime's own name
// for it instead of the generic default.
func groupName(c *ir.Contract, cat ir.Category) string {
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

// buildPlan partitions c's mutable state variables into resource groups
// per spec.md §4.C's three optimization levels.
func buildPlan(c *ir.Contract, level OptimizationLevel) *ResourcePlan {
	if level == LevelLow {
		var members []string
		for _, sv := range c.StateVars {
			if sv.Kind == ir.VarMutableKind {
				members = append(members, sv.Name)
			}
		}
		return &ResourcePlan{
			Level:  LevelLow,
			Groups: []Group{{Name: c.PrimaryGroupName(), Members: members, Primary: true}},
		}
	}

	byCategory := map[ir.Category][]string{}

	for _, sv := range c.StateVars {
		if sv.Kind != ir.VarMutableKind {
			continue
		}
		byCategory[sv.Category] = append(byCategory[sv.Category], sv.Name)
	}

	var groups []Group
	order := []ir.Category{ir.CategoryAdminConfig, ir.CategoryAggregatable, ir.CategoryUserKeyedMapping, ir.CategoryEventTrackable}
	for _, cat := range order {
		members := byCategory[cat]
		if len(members) == 0 {
			continue
		}
		groups = append(groups, Group{Name: groupName(c, cat), Members: members})
	}
	groups = append(groups, Group{Name: c.PrimaryGroupName(), Members: byCategory[ir.CategoryGeneral], Primary: true})

	plan := &ResourcePlan{Level: level, Groups: groups}
	if level == LevelHigh {
		promoteUserKeyedToPerUser(c, plan)
	}
	return plan
}

// promoteUserKeyedToPerUser implements the "high" optimization level's
// refinement: any user-keyed-mapping variable whose writes all key by
// the transaction sender moves out of the shared UserKeyedMapping group
// into its own per-user resource (spec.md §4.C).
func promoteUserKeyedToPerUser(c *ir.Contract, plan *ResourcePlan) {
	writes := collectWrites(c)

	var groupIdx = -1
	for i, g := range plan.Groups {
		if g.Name == groupName(c, ir.CategoryUserKeyedMapping) {
			groupIdx = i
			break
		}
	}
	if groupIdx < 0 {
		return
	}

	var remaining []string
	for _, name := range plan.Groups[groupIdx].Members {
		if allWritesKeySender(writes[name]) {
			plan.PerUserResources = append(plan.PerUserResources, PerUserResource{
				Name:    "PerUser" + name,
				VarName: name,
			})
			continue
		}
		remaining = append(remaining, name)
	}

	if len(remaining) == 0 {
		plan.Groups = append(plan.Groups[:groupIdx], plan.Groups[groupIdx+1:]...)
		return
	}
	plan.Groups[groupIdx].Members = remaining
}

// GroupIndex builds a variable-name → group-name lookup from a plan,
// including per-user resources under their own synthesized names.
// internal/xform consumes this to resolve state access against the
// plan's actual partition instead of re-deriving one from category.
func GroupIndex(plan *ResourcePlan) map[string]string {
	idx := map[string]string{}
	for _, g := range plan.Groups {
		for _, m := range g.Members {
			idx[m] = g.Name
		}
	}
	for _, pu := range plan.PerUserResources {
		idx[pu.VarName] = pu.Name
	}
	return idx
}
