package ecscore

import (
	"github.com/rotisserie/eris"

	"github.com/argus-labs/ecscore/internal/assert"
)

// noFreeRow marks the end of a table's free-row stack, or the absence of
// one entirely, both in freeHead and in a free cell's link.
const noFreeRow = -1

// Table is the column-major storage for one archetype. Its signature is
// fixed at construction and never mutates; rows are claimed from a free-row
// stack before the table grows, and a row that is freed rejoins that stack
// via an intrusive link stored directly in the id column.
type Table struct {
	id        TableID
	signature Signature

	// idColumn holds, for each row up to highWater, either the entity
	// occupying that row or, for a free row, the next row in the free-list
	// chain (noFreeRow terminates the chain).
	idColumn []int
	columns  []*column // parallel to signature.IDs()

	highWater int // largest row ever claimed; -1 if no row was ever claimed
	freeHead  int // top of the free-row stack, or noFreeRow

	withEdges    map[ComponentID]*Table
	withoutEdges map[ComponentID]*Table
}

// newTable returns an empty table for the given id and signature.
func newTable(id TableID, sig Signature) *Table {
	columns := make([]*column, sig.Len())
	for i := range columns {
		columns[i] = newColumn()
	}
	return &Table{
		id:           id,
		signature:    sig,
		highWater:    noFreeRow,
		freeHead:     noFreeRow,
		columns:      columns,
		withEdges:    make(map[ComponentID]*Table),
		withoutEdges: make(map[ComponentID]*Table),
	}
}

// ID returns the table's identifier.
func (t *Table) ID() TableID { return t.id }

// Signature returns the table's archetype key.
func (t *Table) Signature() Signature { return t.signature }

// columnIndex locates the column for component c, or -1 if c is not part of
// this table's signature.
func (t *Table) columnIndex(c ComponentID) int {
	return t.signature.IndexOf(c)
}

// add claims a row for entity e, popping the free-row stack if it is
// non-empty and otherwise extending every column by one row. It returns the
// claimed row.
func (t *Table) add(e Entity) int {
	var row int
	if t.freeHead != noFreeRow {
		row = t.freeHead
		t.freeHead = t.idColumn[row]
	} else {
		row = t.highWater + 1
		t.highWater = row
		t.idColumn = append(t.idColumn, 0)
		for _, col := range t.columns {
			col.extend()
		}
	}

	assert.That(row < len(t.idColumn), "claimed row %d outside id column of length %d", row, len(t.idColumn))
	t.idColumn[row] = int(e)
	for _, col := range t.columns {
		col.clear(row)
	}
	return row
}

// remove pushes row onto the free-row stack and clears every data column at
// that row back to the absent marker. It returns the entity that occupied
// the row.
func (t *Table) remove(row int) Entity {
	e := Entity(t.idColumn[row])
	t.idColumn[row] = t.freeHead
	t.freeHead = row
	for _, col := range t.columns {
		col.clear(row)
	}
	return e
}

// entityAt returns the entity occupying row. The caller is responsible for
// knowing the row is currently occupied.
func (t *Table) entityAt(row int) Entity {
	return Entity(t.idColumn[row])
}

// get reads the value of component c at row. It fails with ErrEmptyCell if
// the cell has not been written since the row was claimed, and panics via
// an internal assertion if c is not part of this table's signature — that
// is a bug in the caller, not a runtime condition.
func (t *Table) get(row int, c ComponentID) (any, error) {
	i := t.columnIndex(c)
	assert.That(i >= 0, "component %d not part of table %d's signature", c, t.id)
	return t.columns[i].get(row)
}

// set writes v for component c at row.
func (t *Table) set(row int, c ComponentID, v any) {
	i := t.columnIndex(c)
	assert.That(i >= 0, "component %d not part of table %d's signature", c, t.id)
	t.columns[i].set(row, v)
}

// withEdge returns the cached table reached by adding component c, and
// whether the edge is populated.
func (t *Table) withEdge(c ComponentID) (*Table, bool) {
	dst, ok := t.withEdges[c]
	return dst, ok
}

// withoutEdge returns the cached table reached by removing component c, and
// whether the edge is populated.
func (t *Table) withoutEdge(c ComponentID) (*Table, bool) {
	dst, ok := t.withoutEdges[c]
	return dst, ok
}

// setWithEdge populates the with-edge for c. It never populates the inverse
// edge on dst; that stays lazy, per the TableIndex's edge-population policy.
func (t *Table) setWithEdge(c ComponentID, dst *Table) {
	t.withEdges[c] = dst
}

// setWithoutEdge populates the without-edge for c.
func (t *Table) setWithoutEdge(c ComponentID, dst *Table) {
	t.withoutEdges[c] = dst
}

// freeRows returns the set of rows currently on the free-row stack. It is
// used by Range to skip unoccupied rows while descending from highWater.
//
// The source describes an iterator that tracks the free-list head cursor
// while descending so it never materialises the full free set; this port
// simplifies to a one-time walk into a set, trading a small amount of
// memory proportional to the free count for a much simpler Range
// implementation. Behaviour is identical: each occupied row is still
// visited exactly once per traversal.
func (t *Table) freeRows() map[int]struct{} {
	free := make(map[int]struct{}, 0)
	for row := t.freeHead; row != noFreeRow; row = t.idColumn[row] {
		free[row] = struct{}{}
	}
	return free
}

// Range calls fn once for every currently occupied row, in descending row
// order, stopping at the first error fn returns.
func (t *Table) Range(fn func(row int, e Entity) error) error {
	free := t.freeRows()
	for row := t.highWater; row >= 0; row-- {
		if _, isFree := free[row]; isFree {
			continue
		}
		if err := fn(row, t.entityAt(row)); err != nil {
			return eris.Wrap(err, "table range callback")
		}
	}
	return nil
}
