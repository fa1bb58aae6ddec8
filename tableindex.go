package ecscore

import "github.com/argus-labs/ecscore/internal/assert"

// TableIndex owns every table in the engine: a dense vector indexed by
// TableID (the empty-signature table always lives at index 0) and a map
// from signature hash to table, enforcing invariant 4 — at most one table
// per signature.
type TableIndex struct {
	tables []*Table
	byHash map[SignatureHash]*Table
}

// NewTableIndex returns a TableIndex pre-populated with the empty-signature
// table at TableID 0, the destination every freshly committed entity lands
// in.
func NewTableIndex() *TableIndex {
	idx := &TableIndex{
		byHash: make(map[SignatureHash]*Table),
	}
	empty := newTable(0, EmptySignature())
	idx.tables = append(idx.tables, empty)
	idx.byHash[empty.signature.Hash()] = empty
	return idx
}

// GetByID returns the table with the given id, or nil if id is out of
// range.
func (idx *TableIndex) GetByID(id TableID) *Table {
	if int(id) < 0 || int(id) >= len(idx.tables) {
		return nil
	}
	return idx.tables[id]
}

// GetBySignature returns the table matching sig exactly, or nil if none
// exists yet.
func (idx *TableIndex) GetBySignature(sig Signature) *Table {
	return idx.byHash[sig.Hash()]
}

// EmptyTable returns the shared empty-signature table.
func (idx *TableIndex) EmptyTable() *Table {
	return idx.tables[0]
}

// Iter calls fn once per table in identifier order, stopping at the first
// error fn returns.
func (idx *TableIndex) Iter(fn func(*Table) error) error {
	for _, t := range idx.tables {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

// ResolveWith returns the table reached from `from` by adding component c,
// using a three-tier lookup: the cached edge, then the signature-hash map,
// then a freshly created table. A freshly created table never has its
// inverse edge populated — that stays lazy until the first traversal in the
// other direction, avoiding a cold-start edge explosion.
func (idx *TableIndex) ResolveWith(from *Table, c ComponentID) *Table {
	if dst, ok := from.withEdge(c); ok {
		return dst
	}

	sig, err := from.signature.With(c)
	assert.That(err == nil, "resolveWith called with component %d already present", c)

	dst := idx.byHash[sig.Hash()]
	if dst == nil {
		dst = idx.createTable(sig)
	}
	from.setWithEdge(c, dst)
	return dst
}

// ResolveWithout is the symmetric counterpart of ResolveWith for component
// removal.
func (idx *TableIndex) ResolveWithout(from *Table, c ComponentID) *Table {
	if dst, ok := from.withoutEdge(c); ok {
		return dst
	}

	sig, err := from.signature.Without(c)
	assert.That(err == nil, "resolveWithout called with component %d absent", c)

	dst := idx.byHash[sig.Hash()]
	if dst == nil {
		dst = idx.createTable(sig)
	}
	from.setWithoutEdge(c, dst)
	return dst
}

// createTable registers a fresh table for sig in both the dense vector and
// the signature-hash map.
func (idx *TableIndex) createTable(sig Signature) *Table {
	id := TableID(len(idx.tables))
	t := newTable(id, sig)
	idx.tables = append(idx.tables, t)
	idx.byHash[sig.Hash()] = t
	return t
}
