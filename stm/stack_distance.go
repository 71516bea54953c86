// Package stm implements the Spatial-Temporal Memory modeling method: a
// Stack Distance Count (SDC) table for tight reuse plus a Stride Pattern
// Count (SPC) history-indexed Markov model for strides, and the synthesizer
// that inverts both into a synthetic address/operation stream.
package stm

import (
	"math/bits"

	"github.com/mariobadr/statistical-simulation/reuse"
)

// Column is one cell of an SDC row: a tag, whether it has ever been
// populated, and the count of accesses observed under that tag.
type Column struct {
	Tag   uint64
	Valid bool
	Count uint64
}

// Row is one row of the SDC table.
type Row struct {
	Columns []Column
}

// SDCTable is the Stack Distance Count table: a tagged, cache-like
// structure that captures tight reuse distances.
type SDCTable struct {
	Rows []Row

	tree *reuse.Tree
	time uint64
}

// NewSDCTable creates a table with numRows rows (must be a power of two) and
// numCols columns.
func NewSDCTable(numRows, numCols int) *SDCTable {
	rows := make([]Row, numRows)
	for i := range rows {
		rows[i].Columns = make([]Column, numCols)
	}

	return &SDCTable{
		Rows: rows,
		tree: reuse.New(),
	}
}

func (t *SDCTable) indexBits() int {
	return bits.Len(uint(len(t.Rows))) - 1
}

// Update folds address into the table, returning true on a tag match: the
// selected cell was empty (and now holds this address' tag) or already held
// this address' tag. On a mismatch the cell's tag is replaced, its count is
// kept, and Update returns false.
func (t *SDCTable) Update(address uint64) bool {
	if len(t.Rows) == 0 {
		return false
	}

	indexBits := t.indexBits()
	tag := address >> uint(indexBits)
	rowIndex := address & ((1 << uint(indexBits)) - 1)

	row := &t.Rows[rowIndex]

	stackDistance := reuse.ComputeDistance(t.tree, address)
	reuse.Update(t.tree, address, t.time)
	t.time++

	columnIndex := len(row.Columns) - 1
	if stackDistance != reuse.Infinity && int(stackDistance) < columnIndex {
		columnIndex = int(stackDistance)
	}

	cell := &row.Columns[columnIndex]

	switch {
	case !cell.Valid:
		cell.Valid = true
		cell.Tag = tag
		cell.Count++
		return true
	case cell.Tag != tag:
		cell.Tag = tag
		return false
	default:
		cell.Count++
		return true
	}
}

// RowSize returns the number of rows in the table.
func (t *SDCTable) RowSize() int {
	return len(t.Rows)
}

// ColumnSize returns the number of columns in each row.
func (t *SDCTable) ColumnSize() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Columns)
}
