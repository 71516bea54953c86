// Package fixtures generates synthetic demo traces for exercising the
// modeling and synthesis packages without a real captured trace on hand.
// Address derivation follows the same hash-the-index trick used to spread
// synthetic account/storage keys across a keyspace: hashing a small integer
// produces an address with no easy-to-spot structure, which stresses a
// reuse-distance or stride model more honestly than a bare counter would.
package fixtures

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mariobadr/statistical-simulation/trace"
)

// AddressPool derives addresses from a bounded set of indices, hashed with
// Keccak256, with a configurable bias toward a "hot" subset — the same
// hot/cold split a working set shows in practice.
type AddressPool struct {
	coldRange  uint32
	hotRange   uint32
	hotBiasPct int
}

// NewAddressPool creates a pool of coldCount cold addresses and hotCount hot
// addresses; hotBiasPct of draws (0-100) land in the hot set.
func NewAddressPool(coldCount, hotCount uint32, hotBiasPct int) *AddressPool {
	if hotBiasPct < 0 {
		hotBiasPct = 0
	}
	if hotBiasPct > 100 {
		hotBiasPct = 100
	}
	return &AddressPool{coldRange: coldCount, hotRange: hotCount, hotBiasPct: hotBiasPct}
}

func hashIndex(index uint32) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], index)
	digest := crypto.Keccak256(buf[:])
	return binary.LittleEndian.Uint64(digest[:8])
}

// Address derives the address for draw, a value in [0, 100) used to decide
// hot-vs-cold and an index within the chosen range.
func (p *AddressPool) Address(draw int, index uint32) uint64 {
	if p.hotRange > 0 && draw%100 < p.hotBiasPct {
		return hashIndex(index % p.hotRange)
	}
	if p.coldRange == 0 {
		return hashIndex(index % max(p.hotRange, 1))
	}
	return hashIndex((index % p.coldRange) + p.hotRange)
}

// GenerateRequests produces a deterministic synthetic trace of count
// requests, ticks advancing by one per request, sizes fixed at size bytes,
// and a writeEveryN cadence of writes among otherwise-read operations.
func GenerateRequests(pool *AddressPool, count int, size uint32, writeEveryN int) []trace.Request {
	requests := make([]trace.Request, count)

	for i := 0; i < count; i++ {
		op := trace.Read
		if writeEveryN > 0 && (i+1)%writeEveryN == 0 {
			op = trace.Write
		}

		requests[i] = trace.Request{
			Tick:    uint64(i),
			Command: op,
			Address: pool.Address(i, uint32(i)),
			Size:    size,
		}
	}

	return requests
}
