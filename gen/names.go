package gen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
)

// reservedParams are identifiers generated wrappers use themselves.
var reservedParams = map[string]bool{
	"ctx": true, "c": true, "va": true, "v": true, "err": true, "o": true, "s": true,
	"bind": true, "context": true, "math": true, "append": true,
	"bool": true, "int32": true, "uint32": true, "int64": true, "uint64": true,
	"float32": true, "float64": true, "string": true,
}

// constName keeps UPPER_CASE names and converts anything else with exportName.
func constName(name string) string {
	if isUpperSnake(name) {
		return sanitize(name)
	}
	return exportName(name)
}

// exportName turns snake_case into an exported CamelCase identifier.
func exportName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '.' || r == '-' }) {
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return sanitize(b.String())
}

// sanitize replaces characters Go does not allow in identifiers and
// prefixes names that start with a digit.
func sanitize(id string) string {
	id = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, id)
	if id == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(id)[0]) || id[0] == '_' {
		id = "X" + id
	}
	return id
}

func isUpperSnake(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '_':
		default:
			return false
		}
	}
	return hasLetter
}

// paramNames returns unique, non-reserved Go parameter names.
func paramNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		id := n
		if id == "" || (!token.IsIdentifier(id) && !token.IsKeyword(id)) {
			id = fmt.Sprintf("arg%d", i)
		}
		for token.IsKeyword(id) || reservedParams[id] || seen[id] {
			id += "_"
		}
		seen[id] = true
		out[i] = id
	}
	return out
}
