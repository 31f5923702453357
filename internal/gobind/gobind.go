// Package gobind renders a libcamera control catalog as Go constants that
// mirror the generated C header: one ID type per category with IDs assigned
// in catalog order, and one value type per enumerated control.
package gobind

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/electwix/libcamera-cgen/internal/catalog"
	"github.com/electwix/libcamera-cgen/internal/naming"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// DefaultPackage is used when Options.Package is empty.
const DefaultPackage = "controls"

// Options configures the generated Go file.
type Options struct {
	Package string
	// Path is only used in error messages and by goimports.
	Path string
}

// Generator renders Go bindings from a catalog.
type Generator struct {
	tmpl *template.Template
	opts Options
}

// New parses the embedded templates.
func New(opts Options) (*Generator, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	if opts.Path == "" {
		opts.Path = "controls.go"
	}
	tmpl, err := template.New("gobind").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Generator{tmpl: tmpl, opts: opts}, nil
}

type fileModel struct {
	Package    string
	Categories []categoryModel
	Enums      []enumModel
}

type categoryModel struct {
	Name     string
	TypeName string
	NamesVar string
	IDs      []idModel
}

type idModel struct {
	Doc      []string
	Ident    string
	TypeName string
	Name     string
	ID       int
}

type enumModel struct {
	Owner    string
	TypeName string
	Values   []valueModel
}

type valueModel struct {
	Doc      []string
	Ident    string
	TypeName string
	Value    int64
}

// Generate returns gofmt-formatted Go source for p.
func (g *Generator) Generate(ctx context.Context, p catalog.Provider) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := g.buildModel(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "bindings.go.tmpl", model); err != nil {
		return nil, fmt.Errorf("render %s: %w", g.opts.Path, err)
	}
	formatted, err := imports.Process(g.opts.Path, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("goimports %s: %w", g.opts.Path, err)
	}
	return formatted, nil
}

func (g *Generator) buildModel(p catalog.Provider) (fileModel, error) {
	used := map[string]int{}
	reserve := func(base string) (string, error) {
		name, err := naming.UniqueName(base, used)
		if err != nil {
			return "", fmt.Errorf("allocate identifier %q: %w", base, err)
		}
		return name, nil
	}

	model := fileModel{Package: g.opts.Package}
	for _, cat := range catalog.Categories(p) {
		prefix := naming.ExportedIdentifier(cat.Name)
		typeName, err := reserve(prefix + "ID")
		if err != nil {
			return fileModel{}, err
		}
		namesVar, err := reserve(cat.Name + "Names")
		if err != nil {
			return fileModel{}, err
		}
		cm := categoryModel{Name: cat.Name, TypeName: typeName, NamesVar: namesVar}
		for i, rec := range cat.Records {
			ident, err := reserve(prefix + naming.ExportedIdentifier(rec.Name))
			if err != nil {
				return fileModel{}, err
			}
			cm.IDs = append(cm.IDs, idModel{
				Doc:      docLines(ident, rec.Description),
				Ident:    ident,
				TypeName: typeName,
				Name:     rec.Name,
				ID:       i + 1,
			})
		}
		model.Categories = append(model.Categories, cm)
	}

	for _, cat := range catalog.Categories(p) {
		for _, rec := range cat.Records {
			if !rec.HasEnum() {
				continue
			}
			typeName, err := reserve(naming.ExportedIdentifier(rec.Name) + "Value")
			if err != nil {
				return fileModel{}, err
			}
			em := enumModel{Owner: rec.Name, TypeName: typeName}
			for _, val := range rec.Enum {
				ident, err := reserve(naming.ExportedIdentifier(val.Name))
				if err != nil {
					return fileModel{}, err
				}
				em.Values = append(em.Values, valueModel{
					Doc:      docLines(ident, val.Description),
					Ident:    ident,
					TypeName: typeName,
					Value:    val.Value,
				})
			}
			model.Enums = append(model.Enums, em)
		}
	}
	return model, nil
}

// docLines turns a catalog description into line comments, leading with the
// identifier so the result reads as a Go doc comment.
func docLines(ident, description string) []string {
	text := strings.TrimSpace(description)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if i == 0 {
			line = ident + ": " + line
		}
		if line == "" {
			out = append(out, "//")
			continue
		}
		out = append(out, "// "+line)
	}
	return out
}
