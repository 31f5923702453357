// Package diagnostics describes problems found while loading a control
// catalog. Diagnostics carry a file location, a severity and a short code so
// the CLI can print them in the usual path:line:column form.
package diagnostics

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Severity indicates the seriousness of a diagnostic.
type Severity int

const (
	// SeverityInfo indicates an informational message.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a potential issue that doesn't prevent generation.
	SeverityWarning
	// SeverityError indicates a fatal issue that prevents generation.
	SeverityError
)

// Catalog diagnostic codes.
const (
	CodeMalformedCatalog = "C001"
	CodeEmptyName        = "C002"
	CodeInvalidName      = "C003"
	CodeDuplicateRecord  = "C004"
	CodeDuplicateValue   = "C005"
	CodeConfig           = "C100"
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location represents a position in a source file.
type Location struct {
	Path   string
	Line   int
	Column int
}

// RelatedInfo points at another location relevant to a diagnostic, such as a
// previous definition.
type RelatedInfo struct {
	Location Location
	Message  string
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string
	Location Location
	Notes    []string
	Related  []RelatedInfo
	// Source names the component that produced the diagnostic.
	Source string
}

// HasLocation returns true if the diagnostic has a valid location.
func (d Diagnostic) HasLocation() bool {
	return d.Location.Path != "" && d.Location.Line > 0
}

// IsError returns true if the diagnostic is an error.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Error implements the error interface for error-level diagnostics.
func (d Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s:%d:%d: [%s] %s: %s",
			d.Location.Path, d.Location.Line, d.Location.Column,
			d.Code, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Location.Path, d.Location.Line, d.Location.Column,
		d.Severity, d.Message)
}

// String returns a human-readable rendering including notes and related
// locations.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.HasLocation() {
		fmt.Fprintf(&b, "%s:%d:%d: ", d.Location.Path, d.Location.Line, d.Location.Column)
	} else if d.Location.Path != "" {
		fmt.Fprintf(&b, "%s: ", d.Location.Path)
	}
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)

	if d.Code != "" {
		fmt.Fprintf(&b, " [%s]", d.Code)
	}
	if d.Source != "" {
		fmt.Fprintf(&b, " (%s)", d.Source)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s", note)
	}
	for _, rel := range d.Related {
		fmt.Fprintf(&b, "\n  related: %s:%d:%d: %s",
			rel.Location.Path, rel.Location.Line, rel.Location.Column, rel.Message)
	}

	return b.String()
}

// Builder provides a fluent API for constructing diagnostics.
type Builder struct {
	diag Diagnostic
}

// NewBuilder creates a new diagnostic builder with the given severity and message.
func NewBuilder(severity Severity, message string) *Builder {
	return &Builder{diag: Diagnostic{Severity: severity, Message: message}}
}

// Error creates a builder for an error-level diagnostic.
func Error(message string) *Builder {
	return NewBuilder(SeverityError, message)
}

// Warning creates a builder for a warning-level diagnostic.
func Warning(message string) *Builder {
	return NewBuilder(SeverityWarning, message)
}

// WithCode sets the diagnostic code.
func (b *Builder) WithCode(code string) *Builder {
	b.diag.Code = code
	return b
}

// At sets the location.
func (b *Builder) At(path string, line, column int) *Builder {
	b.diag.Location = Location{Path: path, Line: line, Column: column}
	return b
}

// WithSource sets the source component.
func (b *Builder) WithSource(source string) *Builder {
	b.diag.Source = source
	return b
}

// WithNote adds an explanatory note.
func (b *Builder) WithNote(note string) *Builder {
	b.diag.Notes = append(b.diag.Notes, note)
	return b
}

// WithRelated adds a related location.
func (b *Builder) WithRelated(path string, line, column int, message string) *Builder {
	b.diag.Related = append(b.diag.Related, RelatedInfo{
		Location: Location{Path: path, Line: line, Column: column},
		Message:  message,
	})
	return b
}

// Build returns the constructed diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.diag
}

// Collection accumulates diagnostics in report order.
type Collection struct {
	diagnostics []Diagnostic
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a diagnostic.
func (c *Collection) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// AddAll appends every diagnostic of other.
func (c *Collection) AddAll(other *Collection) {
	if other == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, other.diagnostics...)
}

// HasErrors reports whether any error-level diagnostic was added.
func (c *Collection) HasErrors() bool {
	return slices.ContainsFunc(c.diagnostics, Diagnostic.IsError)
}

// FirstError returns the first error-level diagnostic.
func (c *Collection) FirstError() (Diagnostic, bool) {
	idx := slices.IndexFunc(c.diagnostics, Diagnostic.IsError)
	if idx < 0 {
		return Diagnostic{}, false
	}
	return c.diagnostics[idx], true
}

// Errors returns the error-level diagnostics.
func (c *Collection) Errors() []Diagnostic {
	return c.BySeverity(SeverityError)
}

// Warnings returns the warning-level diagnostics.
func (c *Collection) Warnings() []Diagnostic {
	return c.BySeverity(SeverityWarning)
}

// BySeverity returns the diagnostics with the given severity.
func (c *Collection) BySeverity(severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diagnostics {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// All returns a copy of every diagnostic.
func (c *Collection) All() []Diagnostic {
	return slices.Clone(c.diagnostics)
}

// Len returns the number of diagnostics.
func (c *Collection) Len() int {
	return len(c.diagnostics)
}

// SortByLocation orders diagnostics by path, line and column. The sort is
// stable so diagnostics at the same location keep report order.
func (c *Collection) SortByLocation() {
	slices.SortStableFunc(c.diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			strings.Compare(a.Location.Path, b.Location.Path),
			cmp.Compare(a.Location.Line, b.Location.Line),
			cmp.Compare(a.Location.Column, b.Location.Column),
		)
	})
}

// Write prints each diagnostic on its own line.
func Write(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
