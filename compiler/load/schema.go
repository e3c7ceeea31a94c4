// Package load reads table-definition mappings from YAML or JSON files into
// schema snapshots, preserving declaration order of tables and fields.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/adminkit/schema"
)

// table is a table definition as it appears in a schema file.
type table struct {
	Label         string   `yaml:"label,omitempty"`
	DisplayFields []string `yaml:"displayFields,omitempty"`
	Fields        fields   `yaml:"fields"`
}

// fields is an order-preserving field mapping. set distinguishes an absent
// or null mapping from an empty one.
type fields struct {
	set  bool
	list []*schema.Field
}

// UnmarshalYAML decodes the mapping pair by pair to keep declaration order.
func (fs *fields) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", n.Line)
	}
	fs.set = true
	fs.list = make([]*schema.Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		f := &schema.Field{}
		if err := value.Decode(f); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
		f.Name = key.Value
		fs.list = append(fs.list, f)
	}
	return nil
}

// Parse decodes a schema document. JSON documents are accepted as well, since
// they are valid YAML.
func Parse(data []byte) (*schema.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return schema.New()
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return schema.New()
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse schema: line %d: top level must be a mapping of table names", root.Line)
	}
	tables := make([]*schema.Table, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var raw table
		if err := value.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse schema: table %q: %w", key.Value, err)
		}
		t := &schema.Table{
			Name:          key.Value,
			Label:         raw.Label,
			DisplayFields: raw.DisplayFields,
		}
		if raw.Fields.set {
			t.Fields = raw.Fields.list
		}
		tables = append(tables, t)
	}
	return schema.New(tables...)
}

// File loads the schema file at path.
func File(path string) (*schema.Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}
