package ecscore

import "github.com/rotisserie/eris"

// absentMarker is the sentinel written into a cell that has never been
// written to. It is distinguishable from any real component value,
// including a stored nil, because it is a unique unexported type that no
// caller can construct or supply as v.
type absentMarker struct{}

// absent is the single instance of absentMarker every fresh cell holds.
var absent = absentMarker{}

// column is one component's storage within a table: a slice of opaque
// values, one per row, parallel to the table's id_column. Component values
// are heterogeneous, so the column stores them boxed in `any` rather than
// monomorphised per component type — the typed convenience layer in the
// separate `typed` package recovers static types at its boundary.
type column struct {
	values []any
}

// newColumn returns an empty column.
func newColumn() *column {
	return &column{}
}

// len returns the number of rows the column currently spans.
func (c *column) len() int {
	return len(c.values)
}

// extend grows the column by one row, initialised to the absent marker, to
// keep it parallel with the table's id_column after a row is claimed.
func (c *column) extend() {
	c.values = append(c.values, absent)
}

// growTo extends the column, if necessary, so that row is addressable.
func (c *column) growTo(row int) {
	for len(c.values) <= row {
		c.values = append(c.values, absent)
	}
}

// get returns the value stored at row. It fails with ErrEmptyCell if the
// cell was never written.
func (c *column) get(row int) (any, error) {
	v := c.values[row]
	if v == absent {
		return nil, eris.Wrapf(ErrEmptyCell, "row %d", row)
	}
	return v, nil
}

// set writes v at row.
func (c *column) set(row int, v any) {
	c.values[row] = v
}

// clear resets row to the absent marker, as done when a row is freed.
func (c *column) clear(row int) {
	c.values[row] = absent
}
