package cheader

import (
	"fmt"
	"io"

	"github.com/electwix/libcamera-cgen/internal/catalog"
	"github.com/electwix/libcamera-cgen/internal/naming"
)

const docIndent = 4

// Emitter writes C enum declarations to w. The first write error is kept and
// every later write becomes a no-op, so callers check Err once at the end.
type Emitter struct {
	w   io.Writer
	err error
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Err returns the first write error, if any.
func (e *Emitter) Err() error {
	return e.err
}

// EmitCategory writes the ID enum for one category followed by a value enum
// for every record that carries an enumeration. IDs start at 1 and follow
// catalog order.
func (e *Emitter) EmitCategory(records []catalog.Record, category string) {
	e.printf("enum libcamera_%s_id {\n", category)
	for i, rec := range records {
		e.print(FormatDocstring(rec.Description, docIndent))
		e.printf("    %s = %d,\n", naming.ToEnumConstant(rec.Name), i+1)
	}
	e.print("};\n\n")

	for _, rec := range records {
		if !rec.HasEnum() {
			continue
		}
		e.print("/**\n")
		e.printf(" * \\brief Supported values for %s\n", naming.ToEnumConstant(rec.Name))
		e.print(" */\n")
		e.printf("enum libcamera_%s {\n", naming.ToSnake(rec.Name))
		for _, val := range rec.Enum {
			e.print(FormatDocstring(val.Description, docIndent))
			e.printf("    LIBCAMERA_%s = %d,\n", naming.ToShout(val.Name), val.Value)
		}
		e.print("};\n\n")
	}
}

func (e *Emitter) print(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *Emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
