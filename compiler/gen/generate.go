package gen

import (
	"strconv"

	"github.com/syssam/adminkit"
	"github.com/syssam/adminkit/graph"
	"github.com/syssam/adminkit/schema"
)

// Generator synthesizes templates from one schema snapshot. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	src    graph.Source
	cfg    *Config
	system map[string]struct{}
	cache  adminkit.Cache
}

// New creates a generator over the given relation source.
func New(src graph.Source, opts ...Option) (*Generator, error) {
	if src == nil || src.Schema() == nil {
		return nil, NewConfigError("Source", nil, "relation source cannot be nil")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		src:    src,
		cfg:    cfg,
		system: make(map[string]struct{}, len(cfg.SystemFields)),
	}
	for _, name := range cfg.SystemFields {
		g.system[name] = struct{}{}
	}
	return g, nil
}

// Config returns the generation settings.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Schema returns the snapshot the generator works on.
func (g *Generator) Schema() *schema.Schema {
	return g.src.Schema()
}

// Cached returns a generator that looks templates up in c before
// synthesizing them and stores every result in c. Keys carry the schema
// fingerprint, so entries of other snapshots are never returned.
func (g *Generator) Cached(c adminkit.Cache) *Generator {
	cp := *g
	cp.cache = c
	return &cp
}

// Generate synthesizes the template of table for the given context, expanding
// nested N:1 relations up to maxDepth levels. It fails with an
// UnknownTableError for tables absent from the schema and with a
// SchemaIntegrityError for malformed definitions; nothing is returned on
// failure.
func (g *Generator) Generate(table string, ctx Context, maxDepth int) (string, error) {
	if !ctx.Valid() {
		return "", NewConfigError("context", string(ctx), "unsupported context; use section or page")
	}
	if maxDepth < 0 {
		return "", NewConfigError("maxDepth", maxDepth, "depth cannot be negative")
	}
	key := adminkit.CacheKey{
		Fingerprint: g.Schema().Fingerprint(),
		Table:       table,
		Context:     string(ctx),
		Depth:       maxDepth,
	}
	if g.cache != nil {
		if text, ok := g.cache.Get(key); ok {
			return text, nil
		}
	}
	text, err := g.generate(table, ctx, maxDepth)
	if err != nil {
		return "", err
	}
	if g.cache != nil {
		g.cache.Set(key, text)
	}
	return text, nil
}

func (g *Generator) generate(table string, ctx Context, maxDepth int) (string, error) {
	t, ok := g.Schema().Table(table)
	if !ok {
		return "", adminkit.NewUnknownTableError(table)
	}
	rels, err := g.src.RelationsOf(table)
	if err != nil {
		return "", err
	}
	b := &builder{}
	if g.cfg.Header != "" {
		b.line("{{! ", g.cfg.Header, " }}")
	}
	switch ctx {
	case ContextPage:
		b.line(`<h1 class="admin-title">`, tableLabel(t), `</h1>`)
	default:
		b.open(`<section class="admin-record" data-table="`, attr(t.Name), `">`)
		b.line(`<h2 class="admin-title">`, tableLabel(t), `</h2>`)
	}
	if err := g.writeFields(b, t, g.bodyFields(t), maxDepth); err != nil {
		return "", err
	}
	for _, rel := range rels.OneN {
		if err := g.writeCollection(b, rel, maxDepth); err != nil {
			return "", err
		}
	}
	if ctx == ContextSection {
		b.close(`</section>`)
	}
	return b.String(), nil
}

// writeFields emits a definition list of fields. Foreign keys are expanded
// while budget remains and rendered bare otherwise.
func (g *Generator) writeFields(b *builder, t *schema.Table, fields []*schema.Field, budget int) error {
	b.open(`<dl class="admin-fields" data-table="`, attr(t.Name), `">`)
	for _, f := range fields {
		b.line(`<dt>`, fieldLabel(f), `</dt>`)
		if !f.IsRelation() || budget == 0 {
			b.line(`<dd class="admin-field" data-field="`, attr(f.Name), `">`, Wrap(f), `</dd>`)
			continue
		}
		if err := g.writeRelation(b, t, f, budget); err != nil {
			return err
		}
	}
	b.close(`</dl>`)
	return nil
}

// writeRelation expands the foreign key f of t into a section over the
// related record listing the target's display fields with one level less of
// budget. The bare key value is shown when the relation was not loaded.
func (g *Generator) writeRelation(b *builder, t *schema.Table, f *schema.Field, budget int) error {
	rels, err := g.src.RelationsOf(t.Name)
	if err != nil {
		return err
	}
	rel, ok := rels.N1Of(f.Name)
	if !ok {
		return adminkit.NewSchemaIntegrityError(t.Name, f.Name, "foreign key missing from the relation graph", nil)
	}
	target, ok := g.Schema().Table(rel.TargetTable)
	if !ok {
		return adminkit.NewUnknownTableError(rel.TargetTable)
	}
	fields, err := g.displayFields(target)
	if err != nil {
		return err
	}
	as := rel.As
	b.open(`<dd class="admin-field admin-relation" data-field="`, attr(f.Name), `" data-relation="`, attr(as), `">`)
	b.line("{{#", as, "}}")
	if err := g.writeFields(b, target, fields, budget-1); err != nil {
		return err
	}
	b.line("{{/", as, "}}")
	b.line(inverted(as, variable(f.Name)))
	b.close(`</dd>`)
	return nil
}

// writeCollection emits the repeating block of a 1:N relation. Columns are
// the related table's scalar body fields, followed by one label column per
// foreign key of the related table when maxDepth allows expansion. Label
// columns never go deeper than one relation level.
func (g *Generator) writeCollection(b *builder, rel *graph.OneNRelation, maxDepth int) error {
	related, ok := g.Schema().Table(rel.RelatedTable)
	if !ok {
		return adminkit.NewUnknownTableError(rel.RelatedTable)
	}
	columns := g.columnFields(related)
	var refs []*graph.N1Relation
	if maxDepth > 0 {
		rels, err := g.src.RelationsOf(related.Name)
		if err != nil {
			return err
		}
		for _, n := range rels.N1 {
			if !g.isSystem(n.FieldName) {
				refs = append(refs, n)
			}
		}
	}
	cells := make([]string, 0, len(columns)+len(refs))
	b.open(`<div class="admin-collection" data-relation="`, attr(rel.ArrayName), `" data-table="`, attr(related.Name), `">`)
	b.line(`<h3 class="admin-title">`, attr(humanize(rel.ArrayName)), `</h3>`)
	b.open(`<table class="admin-table">`)
	b.open(`<thead>`)
	b.open(`<tr>`)
	for _, f := range columns {
		b.line(`<th data-field="`, attr(f.Name), `">`, fieldLabel(f), `</th>`)
		cells = append(cells, Wrap(f))
	}
	for _, n := range refs {
		f, _ := related.Field(n.FieldName)
		b.line(`<th data-field="`, attr(f.Name), `" data-relation="`, attr(n.As), `">`, fieldLabel(f), `</th>`)
		cell, err := g.labelCell(n)
		if err != nil {
			return err
		}
		cells = append(cells, cell)
	}
	b.close(`</tr>`)
	b.close(`</thead>`)
	b.open(`<tbody>`)
	b.line("{{#", rel.ArrayName, "}}")
	b.open(`<tr>`)
	for _, c := range cells {
		b.line(`<td>`, c, `</td>`)
	}
	b.close(`</tr>`)
	b.line("{{/", rel.ArrayName, "}}")
	b.line("{{^", rel.ArrayName, "}}")
	b.line(`<tr class="admin-empty"><td colspan="`, strconv.Itoa(max(len(cells), 1)), `">`, attr(g.cfg.EmptyText), `</td></tr>`)
	b.line("{{/", rel.ArrayName, "}}")
	b.close(`</tbody>`)
	b.close(`</table>`)
	b.close(`</div>`)
	return nil
}

// labelCell shows the label of the record an N:1 relation points to, or the
// bare key value when the relation was not loaded.
func (g *Generator) labelCell(n *graph.N1Relation) (string, error) {
	target, ok := g.Schema().Table(n.TargetTable)
	if !ok {
		return "", adminkit.NewUnknownTableError(n.TargetTable)
	}
	fields, err := g.labelFields(target)
	if err != nil {
		return "", err
	}
	var label string
	for i, f := range fields {
		if i > 0 {
			label += " "
		}
		label += variable(f.Name)
	}
	return section(n.As, label) + inverted(n.As, variable(n.FieldName)), nil
}

func undeclaredDisplayField(t *schema.Table, name string) error {
	return adminkit.NewSchemaIntegrityError(t.Name, name, "display field is not declared", nil)
}
