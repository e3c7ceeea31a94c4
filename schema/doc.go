// Package schema holds the declarative table definitions the admin core is
// driven by.
//
// A Schema is an ordered set of Tables; a Table owns an ordered list of Fields.
// Declaration order is preserved everywhere because generated templates must be
// stable across regenerations:
//
//	s, err := schema.New(
//	    schema.NewTable("Organization",
//	        schema.NewField("id", schema.TypeInteger).Primary(),
//	        schema.NewField("name", schema.TypeText),
//	    ).WithDisplayFields("name"),
//	    schema.NewTable("OrganizationPerson",
//	        schema.NewField("id", schema.TypeInteger).Primary(),
//	        schema.NewField("orgId", schema.TypeInteger).
//	            RelatesTo("Organization").
//	            Array("member"),
//	    ),
//	)
//
// # Foreign keys
//
// A field is a foreign key iff its Relation names a target table. ForeignKey
// names the field on the target the value points to (default: the target's
// primary key) and ArrayName names the inverse collection exposed on target
// records.
//
// # Lifecycle
//
// A Schema is immutable once built. Reloading a schema means building a new
// Schema value; its Fingerprint changes whenever any definition changes, which
// is what template caches key on.
package schema
