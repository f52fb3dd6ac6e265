package manifest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/broady/swaggen/ir"
)

// ParseType parses a type expression. Bare names refer to types in pkg.
func ParseType(expr, pkg string) (ir.TypeDescriptor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}
	if p, ok := ir.ParsePrimitive(expr); ok {
		return p, nil
	}

	switch {
	case strings.HasPrefix(expr, "*"):
		elem, err := ParseType(expr[1:], pkg)
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil

	case strings.HasPrefix(expr, "[]"):
		elem, err := ParseType(expr[2:], pkg)
		if err != nil {
			return nil, err
		}
		return ir.Slice(elem), nil

	case strings.HasPrefix(expr, "map["):
		end := closingBracket(expr, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in %q", expr)
		}
		key := strings.TrimSpace(expr[len("map["):end])
		if key != "string" {
			return nil, fmt.Errorf("map key must be string, got %q in %q", key, expr)
		}
		value, err := ParseType(expr[end+1:], pkg)
		if err != nil {
			return nil, err
		}
		return ir.Map(ir.String(), value), nil
	}

	if !isIdentifier(expr) {
		return nil, fmt.Errorf("invalid type expression %q", expr)
	}
	return ir.Ref(expr, pkg), nil
}

// closingBracket returns the index of the "]" matching the "[" at open.
func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return s != ""
}
