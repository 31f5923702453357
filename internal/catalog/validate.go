package catalog

import (
	"fmt"

	"github.com/electwix/libcamera-cgen/internal/diagnostics"
	"github.com/electwix/libcamera-cgen/internal/naming"
)

// Validate checks the naming preconditions the generators rely on. Empty or
// non-identifier names are errors. Duplicate names are only warnings: the
// emitter does not deduplicate, so a duplicate yields a header the C compiler
// rejects, but the catalog itself is still well formed.
func Validate(category string, records []Record) *diagnostics.Collection {
	diags := diagnostics.NewCollection()
	seen := make(map[string]Position, len(records))

	for _, rec := range records {
		if !checkName(diags, category, rec.Name, rec.Pos) {
			continue
		}
		if prev, ok := seen[rec.Name]; ok {
			diags.Add(diagnostics.Warning(fmt.Sprintf("duplicate %s %q", category, rec.Name)).
				WithCode(diagnostics.CodeDuplicateRecord).
				At(rec.Pos.File, rec.Pos.Line, rec.Pos.Column).
				WithSource(source).
				WithRelated(prev.File, prev.Line, prev.Column, "previous definition").
				Build())
		} else {
			seen[rec.Name] = rec.Pos
		}

		if rec.Enum == nil {
			continue
		}
		values := make(map[string]Position, len(rec.Enum))
		for _, val := range rec.Enum {
			if !checkName(diags, category+" "+rec.Name+" value", val.Name, val.Pos) {
				continue
			}
			if prev, ok := values[val.Name]; ok {
				diags.Add(diagnostics.Warning(fmt.Sprintf("duplicate value %q in %s %q", val.Name, category, rec.Name)).
					WithCode(diagnostics.CodeDuplicateValue).
					At(val.Pos.File, val.Pos.Line, val.Pos.Column).
					WithSource(source).
					WithRelated(prev.File, prev.Line, prev.Column, "previous definition").
					Build())
				continue
			}
			values[val.Name] = val.Pos
		}
	}

	return diags
}

func checkName(diags *diagnostics.Collection, what, name string, pos Position) bool {
	switch {
	case name == "":
		diags.Add(diagnostics.Error(what+" has an empty name").
			WithCode(diagnostics.CodeEmptyName).
			At(pos.File, pos.Line, pos.Column).
			WithSource(source).
			Build())
		return false
	case !naming.IsIdentifier(name):
		diags.Add(diagnostics.Error(fmt.Sprintf("%s name %q is not an identifier", what, name)).
			WithCode(diagnostics.CodeInvalidName).
			At(pos.File, pos.Line, pos.Column).
			WithSource(source).
			WithNote("names must start with an ASCII letter and contain only letters, digits and underscores").
			Build())
		return false
	}
	return true
}
