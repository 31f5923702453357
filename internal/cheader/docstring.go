package cheader

import "strings"

// FormatDocstring renders text as a C block comment indented by indent
// spaces. Lines are copied verbatim; a single trailing newline in text does
// not produce an extra blank comment line.
func FormatDocstring(text string, indent int) string {
	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	line := func(s string) {
		b.WriteString(pad)
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("/**")
	for _, part := range parts {
		if part == "" {
			line(" *")
			continue
		}
		line(" * " + part)
	}
	line(" */")
	return b.String()
}
