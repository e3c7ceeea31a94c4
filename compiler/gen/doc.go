// Package gen synthesizes logic-less (mustache family) templates from the
// relation graph of a schema.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	schema file (YAML/JSON)
//	        ↓
//	   compiler/load → schema.Schema
//	        ↓
//	   graph.Graph / graph.Memo (N:1 and 1:N relations)
//	        ↓
//	   Generator.Generate(table, context, maxDepth)
//	        ↓
//	   template text (cached, or written by Writer)
//
// # Output
//
// A template renders one record of a table. Every displayable field becomes a
// placeholder wrapped according to its renderer or type:
//
//	<dt>Website</dt>
//	<dd class="admin-field" data-field="website">{{#website}}<a href="{{website}}" …>{{website}}</a>{{/website}}</dd>
//
// A foreign key is expanded into a section over the related record while the
// depth budget lasts, and rendered as its bare value once it is spent. Every
// 1:N relation of the top-level table becomes a repeating table block keyed by
// the relation's array name:
//
//	{{#member}}
//	<tr><td>{{role}}</td><td>{{#person}}{{firstName}} {{lastName}}{{/person}}…</td></tr>
//	{{/member}}
//
// The context only decides the wrapper markup: ContextSection wraps the record
// in a <section> container, ContextPage emits a page heading without one.
//
// # Determinism
//
// Fields are emitted in schema declaration order and output depends on nothing
// but the schema, so identical input always produces byte-identical output.
// That makes templates safe to cache per (fingerprint, table, context, depth):
//
//	g, err := gen.New(graph.NewMemo(graph.New(s)))
//	cached := g.Cached(gen.NewMemoryCache())
//	text, err := cached.Generate("Organization", gen.ContextSection, 1)
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	g, err := gen.New(src,
//	    gen.WithSystemFields("owner", "createdAt", "updatedAt"),
//	    gen.WithTarget("./templates"),
//	    gen.WithWorkers(4),
//	)
package gen
