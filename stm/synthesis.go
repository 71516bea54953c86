package stm

import (
	"math/rand"
	"sort"
)

func sortInt64s(values []int64) {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
}

func converge(value *uint64) {
	if *value > 0 {
		*value--
	}
}

// Synthesiser draws a synthetic stream of (address, operation) requests from
// a previously built Profile. It owns and mutates its profile: every draw
// decrements the sampled count toward convergence, so the profile is
// consumed over the course of synthesis.
type Synthesiser struct {
	rng *rand.Rand

	profile *Profile
	history *HistorySequence

	firstRequest bool
}

// NewSynthesiser builds a synthesiser over p, seeded deterministically by
// seed. p is subsequently owned by the synthesiser.
func NewSynthesiser(p *Profile, seed int64) *Synthesiser {
	return &Synthesiser{
		rng:          rand.New(rand.NewSource(seed)),
		profile:      p,
		history:      NewHistorySequence(p.SPC.StridePatternDepth()),
		firstRequest: true,
	}
}

func discreteDraw(rng *rand.Rand, weights []uint64) int {
	var total uint64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0
	}

	r := uint64(rng.Int63n(int64(total)))
	var cumulative uint64
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func generateSDCAddress(rng *rand.Rand, table *SDCTable) uint64 {
	rowWeights := make([]uint64, len(table.Rows))
	for i, row := range table.Rows {
		for _, col := range row.Columns {
			rowWeights[i] += col.Count
		}
	}
	rowIndex := discreteDraw(rng, rowWeights)

	row := &table.Rows[rowIndex]
	colWeights := make([]uint64, len(row.Columns))
	for i, col := range row.Columns {
		colWeights[i] = col.Count
	}
	colIndex := discreteDraw(rng, colWeights)

	cell := &row.Columns[colIndex]
	indexBits := table.indexBits()
	address := (cell.Tag << uint(indexBits)) | uint64(rowIndex)

	converge(&cell.Count)

	return address
}

func generateSPCStride(rng *rand.Rand, table *HistoryTable, history *HistorySequence) int64 {
	index := history.hash()

	row, ok := table.rows[index]
	if !ok {
		var minDistance int64 = -1
		var chosenIndex uint64

		for _, candidateIndex := range table.sortedIndices() {
			candidate := table.rows[candidateIndex]
			distance := history.Distance(candidate.Pattern)
			if minDistance < 0 || distance < minDistance {
				minDistance = distance
				chosenIndex = candidateIndex
			}
		}

		index = chosenIndex
		row = table.rows[index]
		*history = *row.Pattern.Clone()
	}

	strides := make([]int64, 0, len(row.Counts))
	for stride := range row.Counts {
		strides = append(strides, stride)
	}
	sortInt64s(strides)

	var stride int64
	if len(strides) == 1 {
		stride = strides[0]
	} else {
		counts := make([]uint64, len(strides))
		for i, s := range strides {
			counts[i] = row.Counts[s]
		}
		stride = strides[discreteDraw(rng, counts)]
	}

	history.Add(stride)

	count := row.Counts[stride]
	converge(&count)
	row.Counts[stride] = count

	if hasConverged(row) {
		delete(table.rows, index)
	}

	return stride
}

func generateAddress(rng *rand.Rand, p *Profile, history *HistorySequence) uint64 {
	sdcWeight := p.SDCUpdateCount
	spcWeight := p.Count() - p.SDCUpdateCount

	if discreteDraw(rng, []uint64{sdcWeight, spcWeight}) == 0 {
		converge(&p.SDCUpdateCount)
		return generateSDCAddress(rng, p.SDC)
	}

	if p.SPC.FirstRequest {
		p.SPC.FirstRequest = false
		return p.SPC.StartAddress
	}

	stride := generateSPCStride(rng, p.SPC.Patterns, history)
	address := p.SPC.LastAddress + uint64(stride)
	p.SPC.LastAddress = address

	return address
}

func keepInRange(address, min, max uint64) uint64 {
	if address > max || address < min {
		size := max - min
		address = ((address - size) % size) + min
	}
	return address
}

func generateOperation(rng *rand.Rand, reads, writes *uint64) Operation {
	if discreteDraw(rng, []uint64{*reads, *writes}) == 0 {
		converge(reads)
		return Read
	}
	converge(writes)
	return Write
}

// GenerateNextRequest draws the next synthesized (address, operation) pair.
func (s *Synthesiser) GenerateNextRequest() (uint64, Operation) {
	var address uint64

	if s.profile.SDC.RowSize() > 0 && s.firstRequest {
		s.firstRequest = false
		converge(&s.profile.SDCUpdateCount)
		address = generateSDCAddress(s.rng, s.profile.SDC)
	} else {
		address = generateAddress(s.rng, s.profile, s.history)
	}

	address = keepInRange(address, s.profile.MinAddress, s.profile.MaxAddress)
	op := generateOperation(s.rng, &s.profile.ReadCount, &s.profile.WriteCount)

	return address, op
}
