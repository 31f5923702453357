// Package cheader renders a libcamera control catalog as a C header: one ID
// enum per category plus a value enum for every control that enumerates its
// values.
package cheader

import (
	"fmt"
	"io"
	"strings"

	"github.com/electwix/libcamera-cgen/internal/catalog"
)

const (
	// GeneratedBy is the first line of every generated header.
	GeneratedBy = "/// Generated by libcamera-cgen"
	// GuardMacro is the include guard of the generated header.
	GuardMacro = "__LIBCAMERA_C_CONTROLS_GENERATED__"
)

// Write emits the complete header for p.
func Write(w io.Writer, p catalog.Provider) error {
	e := NewEmitter(w)
	e.printf("%s\n\n", GeneratedBy)
	e.printf("#ifndef %s\n", GuardMacro)
	e.printf("#define %s\n\n", GuardMacro)
	for _, cat := range catalog.Categories(p) {
		e.EmitCategory(cat.Records, cat.Name)
	}
	e.print("#endif\n")
	if err := e.Err(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// Generate returns the header for the given control and property records.
func Generate(controls, properties []catalog.Record) string {
	var b strings.Builder
	// strings.Builder writes never fail.
	_ = Write(&b, catalog.New(controls, properties))
	return b.String()
}
