package graph

import (
	"fmt"
	"strings"

	"github.com/syssam/adminkit"
	"github.com/syssam/adminkit/schema"
)

type (
	// N1Relation is a foreign key declared on the table itself.
	N1Relation struct {
		// FieldName is the foreign-key field on the owning table.
		FieldName string
		// TargetTable is the table the field points to.
		TargetTable string
		// ForeignKey is the field on TargetTable the value points to.
		ForeignKey string
		// ArrayName is the inverse collection name on TargetTable records.
		ArrayName string
		// As is the relation payload key the resolved target record is exposed under.
		As string
	}

	// OneNRelation is a foreign key of another table pointing to the table.
	OneNRelation struct {
		// ArrayName is the collection name on the table's records.
		ArrayName string
		// RelatedTable holds the foreign-key field.
		RelatedTable string
		// ForeignKey is the field on the table the related records point to.
		ForeignKey string
		// FieldName is the foreign-key field on RelatedTable.
		FieldName string
	}

	// Relations is the relation graph of one table. Both lists follow schema
	// declaration order. Values handed out by a Memo are shared and must not
	// be modified.
	Relations struct {
		Table string
		N1    []*N1Relation
		OneN  []*OneNRelation
	}
)

// N1Of returns the N:1 relation declared by the given field.
func (r *Relations) N1Of(field string) (*N1Relation, bool) {
	for _, n := range r.N1 {
		if n.FieldName == field {
			return n, true
		}
	}
	return nil, false
}

// OneNOf returns the 1:N relation exposed under the given array name.
func (r *Relations) OneNOf(array string) (*OneNRelation, bool) {
	for _, n := range r.OneN {
		if n.ArrayName == array {
			return n, true
		}
	}
	return nil, false
}

// Empty reports whether the table has no relations in either direction.
func (r *Relations) Empty() bool {
	return len(r.N1) == 0 && len(r.OneN) == 0
}

// Source is implemented by Graph and Memo.
type Source interface {
	Schema() *schema.Schema
	RelationsOf(table string) (*Relations, error)
}

// Graph answers relation queries over one schema snapshot.
type Graph struct {
	schema *schema.Schema
}

var _ Source = (*Graph)(nil)

// New returns the graph of the given schema.
func New(s *schema.Schema) *Graph {
	return &Graph{schema: s}
}

// Schema returns the underlying snapshot.
func (g *Graph) Schema() *schema.Schema {
	return g.schema
}

// RelationsOf derives the relations of the given table. It fails with an
// UnknownTableError for tables absent from the schema and with a
// SchemaIntegrityError when a definition reached during derivation is
// malformed.
func (g *Graph) RelationsOf(table string) (*Relations, error) {
	t, ok := g.schema.Table(table)
	if !ok {
		return nil, adminkit.NewUnknownTableError(table)
	}
	if !t.HasFields() {
		return nil, missingFields(t)
	}
	n1, err := g.forward(t)
	if err != nil {
		return nil, err
	}
	oneN, err := g.inverse(t)
	if err != nil {
		return nil, err
	}
	return &Relations{Table: t.Name, N1: n1, OneN: oneN}, nil
}

// forward collects the foreign keys of t.
func (g *Graph) forward(t *schema.Table) ([]*N1Relation, error) {
	var rels []*N1Relation
	for _, f := range t.Fields {
		if !f.IsRelation() {
			continue
		}
		target, err := g.Target(t, f)
		if err != nil {
			return nil, err
		}
		fk, err := ForeignKey(target, f)
		if err != nil {
			return nil, adminkit.NewSchemaIntegrityError(t.Name, f.Name, "", err)
		}
		rels = append(rels, &N1Relation{
			FieldName:   f.Name,
			TargetTable: target.Name,
			ForeignKey:  fk,
			ArrayName:   ArrayName(t, f),
			As:          Alias(t, f),
		})
	}
	return rels, nil
}

// inverse scans every field of every table for foreign keys pointing to t.
func (g *Graph) inverse(t *schema.Table) ([]*OneNRelation, error) {
	var (
		rels  []*OneNRelation
		index = make(map[string]int)
	)
	for _, s := range g.schema.Tables {
		if !s.HasFields() {
			return nil, missingFields(s)
		}
		for _, f := range s.Fields {
			if f.Relation != t.Name {
				continue
			}
			fk, err := ForeignKey(t, f)
			if err != nil {
				return nil, adminkit.NewSchemaIntegrityError(s.Name, f.Name, "", err)
			}
			rel := &OneNRelation{
				ArrayName:    ArrayName(s, f),
				RelatedTable: s.Name,
				ForeignKey:   fk,
				FieldName:    f.Name,
			}
			// Last writer wins, first writer keeps the slot.
			if i, ok := index[rel.ArrayName]; ok {
				rels[i] = rel
				continue
			}
			index[rel.ArrayName] = len(rels)
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

// Target resolves the table a foreign key of owner points to.
func (g *Graph) Target(owner *schema.Table, f *schema.Field) (*schema.Table, error) {
	target, ok := g.schema.Table(f.Relation)
	if !ok {
		return nil, adminkit.NewSchemaIntegrityError(owner.Name, f.Name, fmt.Sprintf("relation to unknown table %q", f.Relation), nil)
	}
	if !target.HasFields() {
		return nil, missingFields(target)
	}
	return target, nil
}

// ForeignKey returns the field on target the foreign key f points to: the
// declared one, or the target's primary key. It is empty when neither exists.
func ForeignKey(target *schema.Table, f *schema.Field) (string, error) {
	if f.ForeignKey != "" {
		if _, ok := target.Field(f.ForeignKey); !ok {
			return "", fmt.Errorf("foreign key %q is not declared on %s", f.ForeignKey, target.Name)
		}
		return f.ForeignKey, nil
	}
	if pk := target.PrimaryKey(); pk != nil {
		return pk.Name, nil
	}
	return "", nil
}

// ArrayName returns the collection name under which records of owner are
// exposed on records of the table f points to.
func ArrayName(owner *schema.Table, f *schema.Field) string {
	if f.ArrayName != "" {
		return f.ArrayName
	}
	return DefaultArrayName(owner.Name)
}

// DefaultArrayName is the lower-cased table name plus "s".
func DefaultArrayName(table string) string {
	return strings.ToLower(table) + "s"
}

// Alias returns the relation payload key of the foreign key f: the declared
// one, or the field name without a trailing "Id", "ID" or "_id". When the
// stripped name is empty or names another field of owner, "Ref" is appended
// to the field name instead.
func Alias(owner *schema.Table, f *schema.Field) string {
	if f.As != "" {
		return f.As
	}
	name := f.Name
	for _, suffix := range []string{"_id", "Id", "ID"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if name == f.Name || name == "" {
		return f.Name + "Ref"
	}
	if _, ok := owner.Field(name); ok {
		return f.Name + "Ref"
	}
	return name
}

func missingFields(t *schema.Table) error {
	return adminkit.NewSchemaIntegrityError(t.Name, "", "missing fields mapping", nil)
}
