package hrd

import (
	"math"
	"testing"

	"github.com/mariobadr/statistical-simulation/reuse"
)

func TestProfileSingleAddressRepeatedAccess(t *testing.T) {
	p := NewProfile([]uint64{64})

	for i := 0; i < 1000; i++ {
		p.Update(0, Read)
	}

	if got, want := p.Count(), uint64(1000); got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
	if got, want := p.UniqueAddresses(), 1; got != want {
		t.Fatalf("UniqueAddresses() = %d, want %d", got, want)
	}

	// The very first access is a cold miss; all 999 subsequent accesses hit
	// the same block at distance 0.
	if got := p.ReuseModel[0][reuse.Infinity]; got != 1 {
		t.Fatalf("cold-miss count = %d, want 1", got)
	}
	if got := p.ReuseModel[0][0]; got != 999 {
		t.Fatalf("distance-0 count = %d, want 999", got)
	}
}

func TestProfileCreditsOnlyFirstFiniteDistanceLayer(t *testing.T) {
	p := NewProfile([]uint64{8, 64})

	p.Update(0, Read) // cold miss both layers: block 0,0
	p.Update(8, Read) // layer0 block 1 (cold); layer1 block 0 (hit, dist 0)
	p.Update(0, Read) // layer0 block 0 (hit); layer1 already would hit too, but layer0 is credited first

	if p.ReuseModel[1][reuse.Infinity] != 1 {
		t.Fatalf("layer 1 should have exactly one cold miss (from the first access), got histogram %v", p.ReuseModel[1])
	}

	// Every layer's tree is still updated on every access, regardless of
	// which histogram was credited: layer 1's tree must reflect all 3
	// updates even though only 1 count landed in its histogram.
	if got := len(p.ReuseModel[1]); got == 0 {
		t.Fatalf("layer 1 histogram unexpectedly empty")
	}
}

func TestProfileOperationModeling(t *testing.T) {
	p := NewProfile([]uint64{64})

	p.Update(0, Read)  // invalid -> clean
	p.Update(0, Read)  // clean -> clean
	p.Update(0, Write) // clean -> dirty
	p.Update(0, Read)  // dirty -> dirty

	if got := p.OpsModel[Invalid][Read]; got != 1 {
		t.Fatalf("OpsModel[Invalid][Read] = %d, want 1", got)
	}
	if got := p.OpsModel[Clean][Read]; got != 1 {
		t.Fatalf("OpsModel[Clean][Read] = %d, want 1", got)
	}
	if got := p.OpsModel[Clean][Write]; got != 1 {
		t.Fatalf("OpsModel[Clean][Write] = %d, want 1", got)
	}
	if got := p.OpsModel[Dirty][Read]; got != 1 {
		t.Fatalf("OpsModel[Dirty][Read] = %d, want 1", got)
	}
}

func TestProfileMinMaxAddress(t *testing.T) {
	p := NewProfile([]uint64{64})

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

func TestProfileDefaultMinAddressIsMaxUint64BeforeAnyUpdate(t *testing.T) {
	p := NewProfile([]uint64{64})
	if p.MinAddress != math.MaxUint64 {
		t.Fatalf("MinAddress before any update = %d, want MaxUint64", p.MinAddress)
	}
}
