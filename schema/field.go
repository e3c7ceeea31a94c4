package schema

import "strings"

// Storage types understood by the template synthesizer. Unknown types are
// accepted and rendered as bare values.
const (
	TypeText     = "text"
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeJSON     = "json"
)

// Presentation hints. A renderer overrides the storage type for display.
const (
	RendererImage     = "image"
	RendererURL       = "url"
	RendererEmail     = "email"
	RendererTelephone = "telephone"
	RendererMarkdown  = "markdown"
	RendererHTML      = "html"
	RendererColor     = "color"
)

// Field is the definition of one column of a table.
type Field struct {
	// Name of the field, the key of the table's field mapping.
	Name string `json:"-" yaml:"-" msgpack:"name" validate:"required,tmplkey"`
	// Type is the storage type.
	Type string `json:"type" yaml:"type" msgpack:"type" validate:"required"`
	// Renderer is an optional presentation hint overriding Type for display.
	Renderer string `json:"renderer,omitempty" yaml:"renderer,omitempty" msgpack:"renderer,omitempty"`
	// IsPrimary marks the primary-key field.
	IsPrimary bool `json:"isPrimary,omitempty" yaml:"isPrimary,omitempty" msgpack:"isPrimary,omitempty"`
	// Relation names the target table. Present iff the field is a foreign key.
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty" msgpack:"relation,omitempty"`
	// ForeignKey names the field on the target table the value points to.
	ForeignKey string `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty" msgpack:"foreignKey,omitempty"`
	// ArrayName names the inverse 1:N collection on records of the target table.
	ArrayName string `json:"arrayName,omitempty" yaml:"arrayName,omitempty" msgpack:"arrayName,omitempty" validate:"omitempty,tmplkey"`
	// Label is the human readable column header.
	Label string `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	// As is the relation payload key the resolved target record is exposed under.
	As string `json:"as,omitempty" yaml:"as,omitempty" msgpack:"as,omitempty" validate:"omitempty,tmplkey"`
}

// NewField returns a field definition with the given name and storage type.
func NewField(name, typ string) *Field {
	return &Field{Name: name, Type: typ}
}

// Primary marks the field as the primary key.
func (f *Field) Primary() *Field {
	f.IsPrimary = true
	return f
}

// RelatesTo makes the field a foreign key to the given table.
func (f *Field) RelatesTo(table string) *Field {
	f.Relation = table
	return f
}

// Key sets the field on the target table the foreign key points to.
func (f *Field) Key(name string) *Field {
	f.ForeignKey = name
	return f
}

// Array sets the name of the inverse collection on the target table.
func (f *Field) Array(name string) *Field {
	f.ArrayName = name
	return f
}

// Render sets the presentation hint.
func (f *Field) Render(renderer string) *Field {
	f.Renderer = renderer
	return f
}

// Labeled sets the column header.
func (f *Field) Labeled(label string) *Field {
	f.Label = label
	return f
}

// Alias sets the relation payload key of a foreign key.
func (f *Field) Alias(name string) *Field {
	f.As = name
	return f
}

// IsRelation reports whether the field is a foreign key.
func (f *Field) IsRelation() bool {
	return f.Relation != ""
}

// DisplayKind returns the renderer if set, the lower-cased type otherwise.
func (f *Field) DisplayKind() string {
	if f.Renderer != "" {
		return strings.ToLower(f.Renderer)
	}
	return strings.ToLower(f.Type)
}
