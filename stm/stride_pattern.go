package stm

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// HistorySequence maintains a fixed-length window of the most recent
// strides, newest first.
type HistorySequence struct {
	values []int64
}

// NewHistorySequence creates a zero-filled sequence of the given depth.
func NewHistorySequence(depth int) *HistorySequence {
	return &HistorySequence{values: make([]int64, depth)}
}

// Add pushes a new observation to the front, dropping the oldest one.
func (h *HistorySequence) Add(observation int64) {
	copy(h.values[1:], h.values[:len(h.values)-1])
	h.values[0] = observation
}

// Size returns the (fixed) length of the sequence.
func (h *HistorySequence) Size() int {
	return len(h.values)
}

// Clone returns an independent copy of h.
func (h *HistorySequence) Clone() *HistorySequence {
	values := make([]int64, len(h.values))
	copy(values, h.values)
	return &HistorySequence{values: values}
}

// Distance returns the Hamming distance between h and other: the number of
// positions at which the two sequences disagree.
func (h *HistorySequence) Distance(other *HistorySequence) int64 {
	var distance int64
	for i := range h.values {
		if h.values[i] != other.values[i] {
			distance++
		}
	}
	return distance
}

// GobEncode lets HistorySequence round-trip through gob despite values being
// unexported.
func (h *HistorySequence) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h.values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode is the counterpart to GobEncode.
func (h *HistorySequence) GobDecode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&h.values)
}

// hash returns a deterministic 64-bit digest of the sequence's contents,
// used to index into a HistoryTable.
func (h *HistorySequence) hash() uint64 {
	buf := make([]byte, 8*len(h.values))
	for i, v := range h.values {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return xxhash.Sum64(buf)
}

// HistoryRow is one row of a HistoryTable: the stride pattern that produced
// this row plus the observed frequency of each stride seen after it.
type HistoryRow struct {
	Pattern *HistorySequence
	Counts  map[int64]uint64
}

// HistoryTable maps a history hash to the row of stride counts observed
// after that history. Hash collisions keep one representative pattern and
// accumulate counts under it.
type HistoryTable struct {
	rows map[uint64]*HistoryRow
}

// GobEncode lets HistoryTable round-trip through gob despite rows being
// unexported.
func (t *HistoryTable) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode is the counterpart to GobEncode.
func (t *HistoryTable) GobDecode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&t.rows)
}

// NewHistoryTable creates an empty table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{rows: make(map[uint64]*HistoryRow)}
}

// Empty reports whether the table holds no rows.
func (t *HistoryTable) Empty() bool {
	return len(t.rows) == 0
}

// Size returns the number of rows in the table.
func (t *HistoryTable) Size() int {
	return len(t.rows)
}

// Increment records one more occurrence of observation following pattern,
// creating the row if it does not already exist.
func (t *HistoryTable) Increment(index uint64, observation int64, pattern *HistorySequence) {
	row, ok := t.rows[index]
	if !ok {
		row = &HistoryRow{Pattern: pattern.Clone(), Counts: make(map[int64]uint64)}
		t.rows[index] = row
	}
	row.Counts[observation]++
}

// sortedIndices returns the table's row keys in ascending order, so
// iteration order is deterministic.
func (t *HistoryTable) sortedIndices() []uint64 {
	indices := make([]uint64, 0, len(t.rows))
	for index := range t.rows {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}

func hasConverged(row *HistoryRow) bool {
	for _, count := range row.Counts {
		if count > 0 {
			return false
		}
	}
	return true
}

// SPCTable tracks, for every recently observed stride history, the
// distribution of strides that followed it.
type SPCTable struct {
	FirstRequest bool
	StartAddress uint64
	LastAddress  uint64

	Patterns *HistoryTable

	history *HistorySequence
}

// NewSPCTable creates a table that considers strideDepth strides of history
// at a time.
func NewSPCTable(strideDepth int) *SPCTable {
	return &SPCTable{
		FirstRequest: true,
		Patterns:     NewHistoryTable(),
		history:      NewHistorySequence(strideDepth),
	}
}

// StridePatternDepth returns the length of the history window.
func (s *SPCTable) StridePatternDepth() int {
	return s.history.Size()
}

// Update folds address into the table.
func (s *SPCTable) Update(address uint64) {
	if s.FirstRequest {
		s.FirstRequest = false
		s.LastAddress = address
		s.StartAddress = address
		return
	}

	stride := int64(address) - int64(s.LastAddress)
	s.LastAddress = address

	index := s.history.hash()
	s.Patterns.Increment(index, stride, s.history)

	s.history.Add(stride)
}
