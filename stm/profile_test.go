package stm

import (
	"math"
	"testing"
)

func TestProfileTagMatchIncrementsSDCUpdateCount(t *testing.T) {
	p := NewProfile(Parameters{NumRows: 4, NumCols: 2, StrideDepth: 4})

	// Populating a previously-untouched SDC cell counts as a tag match, so
	// even the very first access to an address increments SDCUpdateCount.
	p.Update(0, Read)
	p.Update(0, Read)
	p.Update(0, Read)

	if p.SDCUpdateCount != 3 {
		t.Fatalf("SDCUpdateCount = %d, want 3", p.SDCUpdateCount)
	}
	if p.SPC.Patterns.Size() != 0 {
		t.Fatalf("SPC should never have been touched: all three accesses tag-matched")
	}
}

func TestProfileTagMismatchFeedsSPC(t *testing.T) {
	p := NewProfile(Parameters{NumRows: 4, NumCols: 2, StrideDepth: 4})

	// 0, 4, and 8 all map to SDC row 0 but carry distinct tags (0, 1, 2),
	// and every cold-miss access clamps to the same (last) column, so
	// every access after the first is a tag mismatch that falls through
	// to the SPC.
	p.Update(0, Read)
	p.Update(4, Read)
	p.Update(8, Read)

	if p.SPC.FirstRequest {
		t.Fatalf("SPC should have observed at least one stride by now")
	}
	if p.SPC.Patterns.Size() == 0 {
		t.Fatalf("SPC pattern table should have recorded at least one stride")
	}
}

func TestProfileReadWriteCounts(t *testing.T) {
	p := NewProfile(Parameters{NumRows: 4, NumCols: 2, StrideDepth: 4})

	p.Update(0, Read)
	p.Update(8, Write)
	p.Update(16, Write)

	if p.ReadCount != 1 {
		t.Fatalf("ReadCount = %d, want 1", p.ReadCount)
	}
	if p.WriteCount != 2 {
		t.Fatalf("WriteCount = %d, want 2", p.WriteCount)
	}
	if p.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", p.Count())
	}
}

func TestProfileMinMaxAddress(t *testing.T) {
	p := NewProfile(Parameters{NumRows: 4, NumCols: 2, StrideDepth: 4})

	for _, addr := range []uint64{500, 10, 900, 3} {
		p.Update(addr, Read)
	}

	if p.MinAddress != 3 {
		t.Fatalf("MinAddress = %d, want 3", p.MinAddress)
	}
	if p.MaxAddress != 900 {
		t.Fatalf("MaxAddress = %d, want 900", p.MaxAddress)
	}
}

func TestNewProfileDefaultMinAddress(t *testing.T) {
	p := NewProfile(DefaultParameters())
	if p.MinAddress != math.MaxUint64 {
		t.Fatalf("MinAddress = %d, want MaxUint64", p.MinAddress)
	}
}
