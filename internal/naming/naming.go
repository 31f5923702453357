// Package naming converts libcamera catalog identifiers between spellings.
//
// Catalog names are PascalCase (AeMeteringMode). The C header needs them as
// snake_case type names (ae_metering_mode), SCREAMING_SNAKE_CASE constants
// (AE_METERING_MODE) and prefixed control IDs
// (LIBCAMERA_CONTROL_ID_AE_METERING_MODE).
package naming

import (
	"errors"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ControlIDPrefix is prepended to every control and property ID constant.
const ControlIDPrefix = "LIBCAMERA_CONTROL_ID_"

const separator = '_'

// ToSnake converts ExampleName to example_name.
//
// A separator goes before an upper case rune that follows a lower case rune
// or precedes one. A run of digits always starts a new segment and is never
// split internally. Acronyms split only at their trailing edge: HTTPServer
// becomes http_server and Abc123Def becomes abc_123_def.
//
// ToSnake panics when s is empty or not valid UTF-8.
func ToSnake(s string) string {
	runes := mustRunes(s)

	var b strings.Builder
	b.Grow(len(runes) * 2)
	for i, r := range runes {
		if i > 0 && splitBefore(runes, i) {
			b.WriteRune(separator)
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ToShout converts ExampleName to EXAMPLE_NAME.
func ToShout(s string) string {
	return strings.ToUpper(ToSnake(s))
}

// ToEnumConstant converts ExampleName to LIBCAMERA_CONTROL_ID_EXAMPLE_NAME.
func ToEnumConstant(s string) string {
	return ControlIDPrefix + ToShout(s)
}

func splitBefore(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	if prev == separator || cur == separator {
		return false
	}

	split := false
	if unicode.IsUpper(cur) && unicode.IsLower(prev) {
		split = true
	}
	if unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		split = true
	}
	if unicode.IsDigit(prev) && !unicode.IsUpper(cur) {
		split = false
	}
	if unicode.IsDigit(cur) && !unicode.IsDigit(prev) {
		split = true
	}
	return split
}

func mustRunes(s string) []rune {
	if s == "" {
		panic("naming: empty identifier")
	}
	if !utf8.ValidString(s) {
		panic("naming: identifier " + strconv.Quote(s) + " is not valid UTF-8")
	}
	return []rune(s)
}

// IsIdentifier reports whether s is usable as a catalog name: an ASCII letter
// followed by ASCII letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == separator):
		default:
			return false
		}
	}
	return true
}

// ExportedIdentifier converts raw input into a public Go identifier. Catalog
// names that already are exported Go identifiers are returned unchanged.
func ExportedIdentifier(raw string) string {
	if token.IsIdentifier(raw) && token.IsExported(raw) {
		return raw
	}
	var b strings.Builder
	for _, seg := range strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	ident := b.String()
	if ident == "" {
		return "X"
	}
	if r, _ := utf8.DecodeRuneInString(ident); !unicode.IsLetter(r) {
		ident = "X" + ident
	}
	return ident
}

// UniqueName ensures returned identifier does not collide with previous values.
func UniqueName(base string, used map[string]int) (string, error) {
	if base == "" {
		base = "Value"
	}
	if used == nil {
		return "", errors.New("nil name map")
	}
	if _, exists := used[base]; !exists {
		used[base] = 1
		return base, nil
	}
	for i := used[base] + 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if _, exists := used[candidate]; !exists {
			used[base] = i
			used[candidate] = 1
			return candidate, nil
		}
	}
}
