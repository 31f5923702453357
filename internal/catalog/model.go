// Package catalog holds the libcamera control and property definitions the
// generators consume. Records are decoded from libcamera's YAML catalog
// format, validated, and exposed in catalog order through Provider.
package catalog

// Category names.
const (
	CategoryControl  = "control"
	CategoryProperty = "property"
)

// Position locates a definition in its source document.
type Position struct {
	File   string
	Line   int
	Column int
}

// ValueEntry is one named member of a record's value enumeration.
type ValueEntry struct {
	Name        string
	Description string
	Value       int64
	Pos         Position
}

// Record is a single control or property definition.
type Record struct {
	Name        string
	Description string
	// Enum lists the named values of the record. It is nil when the record has
	// no enumeration; an empty non-nil slice still produces an (empty) enum.
	Enum []ValueEntry

	// Metadata carried from the catalog and ignored by the C emitter.
	Type      string
	Size      []string
	Direction string
	Draft     bool

	Pos Position
}

// HasEnum reports whether the record carries a value enumeration.
func (r Record) HasEnum() bool {
	return r.Enum != nil
}

// Category is a named, ordered group of records sharing one ID enum.
type Category struct {
	Name    string
	Records []Record
}

// Provider supplies the ordered control and property records.
type Provider interface {
	Controls() []Record
	Properties() []Record
}

// Catalog is the in-memory Provider built by the loaders.
type Catalog struct {
	controls   []Record
	properties []Record
}

// New wraps already decoded records.
func New(controls, properties []Record) *Catalog {
	return &Catalog{controls: controls, properties: properties}
}

// Controls returns the control records in catalog order.
func (c *Catalog) Controls() []Record { return c.controls }

// Properties returns the property records in catalog order.
func (c *Catalog) Properties() []Record { return c.properties }

// Categories returns the categories of p in emission order.
func Categories(p Provider) []Category {
	return []Category{
		{Name: CategoryControl, Records: p.Controls()},
		{Name: CategoryProperty, Records: p.Properties()},
	}
}

var _ Provider = (*Catalog)(nil)
