package gen

import (
	"sort"
	"strings"

	"github.com/syssam/adminkit/schema"
)

// Wrapper renders the value placeholder of the named field.
type Wrapper func(name string) string

// wrappers maps renderers and storage types to value markup. Renderers are
// looked up first, then types; anything else is a bare placeholder.
var wrappers = map[string]Wrapper{
	schema.RendererImage: func(n string) string {
		return section(n, `<img src="`+variable(n)+`" alt="">`)
	},
	schema.RendererURL: func(n string) string {
		return section(n, `<a href="`+variable(n)+`" target="_blank" rel="noopener noreferrer">`+variable(n)+`</a>`)
	},
	schema.RendererEmail: func(n string) string {
		return section(n, `<a href="mailto:`+variable(n)+`">`+variable(n)+`</a>`)
	},
	schema.RendererTelephone: func(n string) string {
		return section(n, `<a href="tel:`+variable(n)+`">`+variable(n)+`</a>`)
	},
	schema.RendererMarkdown: func(n string) string {
		return `<div class="admin-markdown" data-markdown>` + variable(n) + `</div>`
	},
	schema.RendererHTML: func(n string) string {
		return `<div class="admin-html">` + unescaped(n) + `</div>`
	},
	schema.RendererColor: func(n string) string {
		return section(n, `<span class="admin-color" style="background-color: `+variable(n)+`"></span> `+variable(n))
	},
	schema.TypeBoolean: func(n string) string {
		return section(n, "Yes") + inverted(n, "No")
	},
	schema.TypeDate: func(n string) string {
		return section(n, `<time datetime="`+variable(n)+`">`+variable(n)+`</time>`)
	},
	schema.TypeDateTime: func(n string) string {
		return section(n, `<time datetime="`+variable(n)+`">`+variable(n)+`</time>`)
	},
	schema.TypeJSON: func(n string) string {
		return `<pre class="admin-json">` + variable(n) + `</pre>`
	},
}

// Wrap returns the value markup of f. It is total: unknown renderers fall
// back to the type, unknown types to a bare placeholder.
func Wrap(f *schema.Field) string {
	if w, ok := wrappers[strings.ToLower(f.Renderer)]; ok {
		return w(f.Name)
	}
	if w, ok := wrappers[strings.ToLower(f.Type)]; ok {
		return w(f.Name)
	}
	return variable(f.Name)
}

// Wrappers returns the renderer and type names with dedicated markup, sorted.
func Wrappers() []string {
	names := make([]string, 0, len(wrappers))
	for k := range wrappers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Field selection
// =============================================================================

// bodyFields returns the fields of t shown in a record body: everything but
// primary keys and system fields, in declaration order.
func (g *Generator) bodyFields(t *schema.Table) []*schema.Field {
	fields := make([]*schema.Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.IsPrimary || g.isSystem(f.Name) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// columnFields returns the scalar columns of a 1:N block: body fields that
// are not foreign keys.
func (g *Generator) columnFields(t *schema.Table) []*schema.Field {
	var fields []*schema.Field
	for _, f := range g.bodyFields(t) {
		if !f.IsRelation() {
			fields = append(fields, f)
		}
	}
	return fields
}

// displayFields returns the fields listed by the sub-block of an expanded
// relation: the declared display fields that pass the body policy, or the
// body fields when none do.
func (g *Generator) displayFields(t *schema.Table) ([]*schema.Field, error) {
	declared, err := declaredDisplayFields(t)
	if err != nil {
		return nil, err
	}
	var fields []*schema.Field
	for _, f := range declared {
		if f.IsPrimary || g.isSystem(f.Name) {
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		fields = g.bodyFields(t)
	}
	return fields, nil
}

// labelFields returns the fields composing a record label of t: the declared
// display fields, else the first body scalar, else the primary key.
func (g *Generator) labelFields(t *schema.Table) ([]*schema.Field, error) {
	declared, err := declaredDisplayFields(t)
	if err != nil {
		return nil, err
	}
	if len(declared) > 0 {
		return declared, nil
	}
	if cols := g.columnFields(t); len(cols) > 0 {
		return cols[:1], nil
	}
	if pk := t.PrimaryKey(); pk != nil {
		return []*schema.Field{pk}, nil
	}
	return nil, nil
}

func declaredDisplayFields(t *schema.Table) ([]*schema.Field, error) {
	fields := make([]*schema.Field, 0, len(t.DisplayFields))
	for _, name := range t.DisplayFields {
		f, ok := t.Field(name)
		if !ok {
			return nil, undeclaredDisplayField(t, name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (g *Generator) isSystem(name string) bool {
	_, ok := g.system[name]
	return ok
}
