// Package naming holds the name transforms used when building definitions
// and flattened query parameters.
package naming

import (
	"strings"
	"unicode"

	"github.com/broady/swaggen/ir"
)

// CamelCase lowercases the leading run of upper-case letters, keeping the
// last one upper-case when it starts the next word:
// "ANumber" -> "aNumber", "URLValue" -> "urlValue", "ID" -> "id".
// Strings that do not start with an upper-case letter are returned unchanged.
func CamelCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	if !unicode.IsUpper(runes[0]) {
		return s
	}

	for i := 0; i < len(runes); i++ {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		hasNext := i+1 < len(runes)
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			if unicode.IsSpace(runes[i+1]) {
				runes[i] = unicode.ToLower(runes[i])
			}
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SchemaIDFunc computes a definition name from a type identity.
type SchemaIDFunc func(id ir.GoIdentifier) string

// ShortID uses the bare type name. Two types with the same name in
// different packages collide; use FullID to tell them apart.
func ShortID(id ir.GoIdentifier) string {
	return id.Name
}

// FullID qualifies the type name with its package path, using dots as
// separators so the result stays a valid JSON pointer segment:
// "example.com/api/v1".User -> "example.com.api.v1.User".
func FullID(id ir.GoIdentifier) string {
	if id.Package == "" {
		return id.Name
	}
	return strings.ReplaceAll(id.Package, "/", ".") + "." + id.Name
}

// SanitizeTypeName turns a reflected generic instantiation name such as
// "Page[example.com/api.User]" into an identifier ("Page_example_com_api_User").
func SanitizeTypeName(name string) string {
	if !strings.ContainsAny(name, "[]") {
		return name
	}
	r := strings.NewReplacer(
		".", "_",
		"/", "_",
		"[", "_",
		"]", "",
		",", "_",
		" ", "",
		"*", "Ptr",
	)
	return r.Replace(name)
}
