package lift

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser folds an individual rune run to lowercase using the same
// locale-aware casing package the rest of the toolchain reaches for
// whenever it needs more than ASCII-range case folding.
var lowerCaser = cases.Lower(language.Und)

// snakeCase converts a Source PascalCase or camelCase identifier
// ("TotalSupply", "_locked") to the snake_case spelling Target functions
// and fields use (spec.md §4.B "identifier renaming"). Leading
// underscores are preserved so that Solidity's "private by convention"
// marker survives translation.
func snakeCase(name string) string {
	if name == "" {
		return name
	}

	// "$" turns up in Source identifiers generated by some compiler
	// passes (e.g. Yul-lowered storage-reference locals) and is not a
	// valid Target identifier character (spec.md §4.B).
	name = strings.ReplaceAll(name, "$", "_storage_ref")

	leadingUnderscores := 0
	for leadingUnderscores < len(name) && name[leadingUnderscores] == '_' {
		leadingUnderscores++
	}
	body := name[leadingUnderscores:]

	var out strings.Builder
	runes := []rune(body)
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper && i > 0 {
			prev := runes[i-1]
			prevIsLower := prev >= 'a' && prev <= 'z' || (prev >= '0' && prev <= '9')
			nextIsLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevIsLower || (nextIsLower && prev >= 'A' && prev <= 'Z') {
				out.WriteByte('_')
			}
		}
		out.WriteRune(r)
	}

	return name[:leadingUnderscores] + lowerCaser.String(out.String())
}

// moduleName converts a Source contract name ("TokenVault") to the
// snake_case Target module name ("token_vault"), identical to snakeCase
// but exposed under its own name for call sites that are naming a module
// rather than a field or function (spec.md §4.B).
func moduleName(contractName string) string {
	return snakeCase(contractName)
}

// screamingSnake converts an identifier to SCREAMING_SNAKE_CASE, used for
// constant and error-code names ("E_UNAUTHORIZED").
func screamingSnake(name string) string {
	return strings.ToUpper(snakeCase(name))
}
