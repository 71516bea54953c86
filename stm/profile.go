package stm

import "math"

// Operation identifies whether a request reads or writes memory.
type Operation int

const (
	Read Operation = iota
	Write
)

// Parameters configures the shape of an STM profile's tables.
type Parameters struct {
	// NumRows is the number of rows in the SDC table; must be a power of
	// two. The reference default is 128.
	NumRows int
	// NumCols is the number of reuse-distance columns tracked per SDC
	// row. The reference default is 2.
	NumCols int
	// StrideDepth is the length of stride history considered by the SPC
	// table. The reference default is 80.
	StrideDepth int
}

// DefaultParameters returns the reference paper's default table shape.
func DefaultParameters() Parameters {
	return Parameters{NumRows: 128, NumCols: 2, StrideDepth: 80}
}

// Profile builds a Spatial-Temporal Memory model incrementally from a
// stream of (address, operation) updates.
type Profile struct {
	SDC *SDCTable
	SPC *SPCTable

	SDCUpdateCount uint64
	ReadCount      uint64
	WriteCount     uint64

	MinAddress uint64
	MaxAddress uint64
}

// NewProfile creates a profile shaped by p.
func NewProfile(p Parameters) *Profile {
	return &Profile{
		SDC:        NewSDCTable(p.NumRows, p.NumCols),
		SPC:        NewSPCTable(p.StrideDepth),
		MinAddress: math.MaxUint64,
	}
}

// Update folds one (address, op) access into the profile.
func (p *Profile) Update(address uint64, op Operation) {
	if address < p.MinAddress {
		p.MinAddress = address
	}
	if address > p.MaxAddress {
		p.MaxAddress = address
	}

	if p.SDC.Update(address) {
		p.SDCUpdateCount++
	} else {
		p.SPC.Update(address)
	}

	switch op {
	case Read:
		p.ReadCount++
	case Write:
		p.WriteCount++
	}
}

// Count returns the total number of requests modelled.
func (p *Profile) Count() uint64 {
	return p.ReadCount + p.WriteCount
}
