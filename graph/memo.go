package graph

import (
	"sync"

	"github.com/syssam/adminkit/schema"
)

// Memo memoizes RelationsOf per table name. It is bound to the snapshot of
// the wrapped graph; build a new Memo when the schema is reloaded.
type Memo struct {
	g       *Graph
	entries sync.Map // table name -> memoEntry
}

type memoEntry struct {
	rels *Relations
	err  error
}

var _ Source = (*Memo)(nil)

// NewMemo returns a memoizing view of g. It is safe for concurrent use.
func NewMemo(g *Graph) *Memo {
	return &Memo{g: g}
}

// Schema returns the underlying snapshot.
func (m *Memo) Schema() *schema.Schema {
	return m.g.Schema()
}

// RelationsOf returns the memoized relations of the given table. Errors are
// memoized as well; derivation is deterministic for a snapshot.
func (m *Memo) RelationsOf(table string) (*Relations, error) {
	if v, ok := m.entries.Load(table); ok {
		e := v.(memoEntry)
		return e.rels, e.err
	}
	rels, err := m.g.RelationsOf(table)
	v, _ := m.entries.LoadOrStore(table, memoEntry{rels: rels, err: err})
	e := v.(memoEntry)
	return e.rels, e.err
}
