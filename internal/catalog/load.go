package catalog

import (
	"embed"
	"path"

	"github.com/electwix/libcamera-cgen/internal/diagnostics"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Built-in catalog documents, used for a category when no files are configured.
const (
	BuiltinControls   = "data/control_ids.yaml"
	BuiltinProperties = "data/property_ids.yaml"
)

// Sources lists the catalog files for each category. An empty list selects
// the built-in document for that category.
type Sources struct {
	Controls   []string
	Properties []string
}

// Load decodes and validates both categories. The catalog is nil when any
// error diagnostic was reported.
func Load(src Sources) (*Catalog, *diagnostics.Collection) {
	diags := diagnostics.NewCollection()

	controls, controlDiags := loadCategory(src.Controls, BuiltinControls)
	diags.AddAll(controlDiags)
	properties, propertyDiags := loadCategory(src.Properties, BuiltinProperties)
	diags.AddAll(propertyDiags)

	if diags.HasErrors() {
		return nil, diags
	}

	diags.AddAll(Validate(CategoryControl, controls))
	diags.AddAll(Validate(CategoryProperty, properties))
	if diags.HasErrors() {
		return nil, diags
	}
	return New(controls, properties), diags
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, *diagnostics.Collection) {
	return Load(Sources{})
}

func loadCategory(paths []string, builtin string) ([]Record, *diagnostics.Collection) {
	if len(paths) > 0 {
		return LoadFiles(paths)
	}
	data, err := builtinFS.ReadFile(builtin)
	if err != nil {
		diags := diagnostics.NewCollection()
		diags.Add(malformed(builtin, 0, 0, err.Error()))
		return nil, diags
	}
	return Decode("builtin:"+path.Base(builtin), data)
}
