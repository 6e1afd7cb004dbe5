package lift

// ReentrancyFieldNames lists the state-field spellings recognized as a
// reentrancy-guard flag; isReentrancyFieldName tests against it. Neither
// the lifter nor the function transformer consults it: the lifter detects
// a guarded function through isReentrancyModifierName's own list of
// modifier spellings, and internal/xform always adds its own
// DefaultReentrancyField flag, without checking whether the contract
// already declares one of these fields.
//
// DefaultReentrancyField is the flag field internal/xform synthesizes in
// its ReentrancyGuard resource for a contract with a guarded function.
var ReentrancyFieldNames = []string{
	"locked",
	"_locked",
	"reentrancyGuard",
	"reentrancy_guard",
	"status",
	"_status",
}

const DefaultReentrancyField = "_reentrancy_status"

// isReentrancyModifierName reports whether name is one of the modifier
// spellings this compiler recognizes as a reentrancy guard.
func isReentrancyModifierName(name string) bool {
	switch name {
	case "nonReentrant", "noReentrancy", "nonReentrantGuard":
		return true
	default:
		return false
	}
}

// isReentrancyFieldName reports whether name is one of ReentrancyFieldNames.
func isReentrancyFieldName(name string) bool {
	for _, n := range ReentrancyFieldNames {
		if n == name {
			return true
		}
	}
	return false
}
