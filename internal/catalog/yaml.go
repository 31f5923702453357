package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/electwix/libcamera-cgen/internal/diagnostics"
)

const source = "catalog"

// controlDef mirrors one entry of a libcamera control_ids/property_ids
// document:
//
//	controls:
//	  - AeMeteringMode:
//	      type: int32_t
//	      description: |
//	        Specify a metering mode for the AE algorithm to use.
//	      enum:
//	        - name: MeteringCentreWeighted
//	          value: 0
//	          description: Centre-weighted metering mode.
type controlDef struct {
	Type        string     `yaml:"type"`
	Direction   string     `yaml:"direction"`
	Description string     `yaml:"description"`
	Size        []any      `yaml:"size"`
	Draft       bool       `yaml:"draft"`
	Enum        []valueDef `yaml:"enum"`
}

type valueDef struct {
	Name        string `yaml:"name"`
	Value       int64  `yaml:"value"`
	Description string `yaml:"description"`
}

// Decode parses one catalog document. Records are returned in document
// order. Structural problems are reported as error diagnostics; the returned
// records are only meaningful when the collection has no errors.
func Decode(path string, data []byte) ([]Record, *diagnostics.Collection) {
	diags := diagnostics.NewCollection()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		diags.Add(malformed(path, 0, 0, err.Error()))
		return nil, diags
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		diags.Add(malformed(path, 1, 1, "empty catalog document"))
		return nil, diags
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		diags.Add(malformed(path, root.Line, root.Column, "catalog document must be a mapping"))
		return nil, diags
	}

	controls := mappingValue(root, "controls")
	if controls == nil {
		diags.Add(malformed(path, root.Line, root.Column, `missing "controls" list`))
		return nil, diags
	}
	if controls.Kind != yaml.SequenceNode {
		diags.Add(malformed(path, controls.Line, controls.Column, `"controls" must be a list`))
		return nil, diags
	}

	records := make([]Record, 0, len(controls.Content))
	for _, item := range controls.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			diags.Add(malformed(path, item.Line, item.Column, "each control must be a single-key mapping of name to definition"))
			continue
		}
		key, body := item.Content[0], item.Content[1]

		var def controlDef
		if err := body.Decode(&def); err != nil {
			diags.Add(malformed(path, body.Line, body.Column, fmt.Sprintf("control %q: %v", key.Value, err)))
			continue
		}

		rec := Record{
			Name:        key.Value,
			Description: def.Description,
			Type:        def.Type,
			Direction:   def.Direction,
			Draft:       def.Draft,
			Pos:         Position{File: path, Line: key.Line, Column: key.Column},
		}
		for _, dim := range def.Size {
			rec.Size = append(rec.Size, fmt.Sprint(dim))
		}
		if enumNode := mappingValue(body, "enum"); enumNode != nil && enumNode.Kind == yaml.SequenceNode {
			rec.Enum = make([]ValueEntry, 0, len(def.Enum))
			for i, val := range def.Enum {
				pos := Position{File: path, Line: enumNode.Line, Column: enumNode.Column}
				if i < len(enumNode.Content) {
					pos.Line, pos.Column = enumNode.Content[i].Line, enumNode.Content[i].Column
				}
				rec.Enum = append(rec.Enum, ValueEntry{
					Name:        val.Name,
					Description: val.Description,
					Value:       val.Value,
					Pos:         pos,
				})
			}
		}
		records = append(records, rec)
	}

	return records, diags
}

// LoadFiles decodes each file in order and concatenates the records.
func LoadFiles(paths []string) ([]Record, *diagnostics.Collection) {
	diags := diagnostics.NewCollection()
	var records []Record
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			diags.Add(malformed(path, 0, 0, fmt.Sprintf("read catalog: %v", err)))
			continue
		}
		recs, fileDiags := Decode(path, data)
		diags.AddAll(fileDiags)
		records = append(records, recs...)
	}
	return records, diags
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func malformed(path string, line, column int, message string) diagnostics.Diagnostic {
	return diagnostics.Error(message).
		WithCode(diagnostics.CodeMalformedCatalog).
		At(path, line, column).
		WithSource(source).
		Build()
}
