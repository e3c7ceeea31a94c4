package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/adminkit"
)

// Table is the definition of one table.
type Table struct {
	// Name is the unique table name.
	Name string `json:"-" yaml:"-" msgpack:"name" validate:"required,tmplkey"`
	// Label is the human readable title of the table.
	Label string `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	// DisplayFields compose the human readable label of a record.
	DisplayFields []string `json:"displayFields,omitempty" yaml:"displayFields,omitempty" msgpack:"displayFields,omitempty"`
	// Fields in declaration order. Nil means the definition carries no field
	// mapping at all, which is different from an empty mapping.
	Fields []*Field `json:"-" yaml:"-" msgpack:"fields" validate:"dive"`

	fields map[string]*Field
}

// NewTable returns a table definition with the given fields in order.
// Tables built this way always carry a field mapping.
func NewTable(name string, fields ...*Field) *Table {
	t := &Table{Name: name, Fields: make([]*Field, 0, len(fields))}
	t.Fields = append(t.Fields, fields...)
	return t
}

// WithDisplayFields sets the display fields of the table.
func (t *Table) WithDisplayFields(names ...string) *Table {
	t.DisplayFields = names
	return t
}

// WithLabel sets the human readable title of the table.
func (t *Table) WithLabel(label string) *Table {
	t.Label = label
	return t
}

// HasFields reports whether the definition carries a field mapping.
func (t *Table) HasFields() bool {
	return t.Fields != nil
}

// Field returns the field with the given name.
func (t *Table) Field(name string) (*Field, bool) {
	if t.fields != nil {
		f, ok := t.fields[name]
		return f, ok
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// PrimaryKey returns the first field marked as primary, or nil.
func (t *Table) PrimaryKey() *Field {
	for _, f := range t.Fields {
		if f.IsPrimary {
			return f
		}
	}
	return nil
}

func (t *Table) index() error {
	t.fields = make(map[string]*Field, len(t.Fields))
	for _, f := range t.Fields {
		if _, ok := t.fields[f.Name]; ok {
			return adminkit.NewSchemaIntegrityError(t.Name, f.Name, "field redeclared", nil)
		}
		t.fields[f.Name] = f
	}
	return nil
}

// Schema is an immutable, ordered table-definition mapping.
type Schema struct {
	// Tables in declaration order.
	Tables []*Table

	tables      map[string]*Table
	fingerprint string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("tmplkey", func(fl validator.FieldLevel) bool {
		return ValidKey(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// reserved holds the characters a mustache tag reads as a sigil, a
// delimiter or a dotted-name separator.
const reserved = "#^/!>&={}<."

// ValidKey reports whether name can be used verbatim inside a template
// tag: it is not empty and has no whitespace, sigils, braces or dots.
func ValidKey(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, reserved) &&
		strings.IndexFunc(name, unicode.IsSpace) < 0
}

// New builds a schema snapshot from the given tables. It fails with a
// SchemaIntegrityError on duplicate table or field names, on definitions
// missing a name or a type, and on table, field, alias or array names that
// are not valid template keys.
func New(tables ...*Table) (*Schema, error) {
	s := &Schema{
		Tables: tables,
		tables: make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		if t == nil {
			return nil, adminkit.NewSchemaIntegrityError("", "", "nil table definition", nil)
		}
		for _, f := range t.Fields {
			if f == nil {
				return nil, adminkit.NewSchemaIntegrityError(t.Name, "", "nil field definition", nil)
			}
		}
		if err := validate.Struct(t); err != nil {
			return nil, validationError(t, err)
		}
		if _, ok := s.tables[t.Name]; ok {
			return nil, adminkit.NewSchemaIntegrityError(t.Name, "", "table redeclared", nil)
		}
		if err := t.index(); err != nil {
			return nil, err
		}
		s.tables[t.Name] = t
	}
	buf, err := msgpack.Marshal(s.Tables)
	if err != nil {
		return nil, fmt.Errorf("adminkit: encode schema snapshot: %w", err)
	}
	sum := sha256.Sum256(buf)
	s.fingerprint = hex.EncodeToString(sum[:])
	return s, nil
}

// MustNew is like New but panics if the schema is invalid.
func MustNew(tables ...*Table) *Schema {
	s, err := New(tables...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Names returns the table names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Fingerprint identifies the content of the snapshot. Two schemas with
// identical definitions in identical order share a fingerprint.
func (s *Schema) Fingerprint() string {
	return s.fingerprint
}

func validationError(t *Table, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return adminkit.NewSchemaIntegrityError(t.Name, "", "invalid definition", err)
	}
	fe := verrs[0]
	field := ""
	if fe.StructNamespace() != "Table.Name" {
		field = fe.StructNamespace()
	}
	if fe.Tag() == "tmplkey" {
		return adminkit.NewSchemaIntegrityError(t.Name, field, fmt.Sprintf("%q cannot be used as a template key", fe.Value()), nil)
	}
	return adminkit.NewSchemaIntegrityError(t.Name, field, fmt.Sprintf("failed on the %q rule", fe.Tag()), nil)
}
