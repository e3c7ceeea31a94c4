package gen

import (
	"html"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/adminkit/schema"
)

// =============================================================================
// Labels
// =============================================================================

// humanize turns an identifier into a title: "OrganizationPerson" becomes
// "Organization Person", "created_at" becomes "Created At".
func humanize(name string) string {
	s := inflect.Underscore(name)
	if s == "" {
		return name
	}
	s = inflect.Humanize(s)
	// cases.Caser keeps state and is not safe for concurrent use.
	return cases.Title(language.English, cases.NoLower).String(s)
}

func tableLabel(t *schema.Table) string {
	if t.Label != "" {
		return html.EscapeString(t.Label)
	}
	return html.EscapeString(humanize(t.Name))
}

func fieldLabel(f *schema.Field) string {
	if f.Label != "" {
		return html.EscapeString(f.Label)
	}
	return html.EscapeString(humanize(f.Name))
}

// =============================================================================
// Mustache helpers
// =============================================================================

func variable(name string) string { return "{{" + name + "}}" }

func unescaped(name string) string { return "{{{" + name + "}}}" }

func section(name, body string) string {
	return "{{#" + name + "}}" + body + "{{/" + name + "}}"
}

func inverted(name, body string) string {
	return "{{^" + name + "}}" + body + "{{/" + name + "}}"
}

func containsDelim(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "}}")
}

// attr escapes a value for use inside a double-quoted HTML attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

// =============================================================================
// Output builder
// =============================================================================

// builder accumulates indented template lines.
type builder struct {
	sb    strings.Builder
	depth int
}

func (b *builder) line(parts ...string) {
	for i := 0; i < b.depth; i++ {
		b.sb.WriteString("  ")
	}
	for _, p := range parts {
		b.sb.WriteString(p)
	}
	b.sb.WriteByte('\n')
}

func (b *builder) open(parts ...string) {
	b.line(parts...)
	b.depth++
}

func (b *builder) close(parts ...string) {
	b.depth--
	b.line(parts...)
}

func (b *builder) String() string {
	return b.sb.String()
}
