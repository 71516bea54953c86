package mocktails

import (
	"math"
	"sort"
)

// Scheme chooses whether a partition boundary is drawn through time or
// through address space.
type Scheme int

const (
	Temporal Scheme = iota
	Spatial
)

func (s Scheme) String() string {
	switch s {
	case Temporal:
		return "temporal"
	case Spatial:
		return "spatial"
	default:
		return "unknown"
	}
}

// Separator picks the specific rule used to draw partition boundaries
// within a Scheme.
type Separator int

const (
	Cycles Separator = iota
	Count
	Requests
	Bytes
	Contiguous
)

func (s Separator) String() string {
	switch s {
	case Cycles:
		return "cycles"
	case Count:
		return "count"
	case Requests:
		return "requests"
	case Bytes:
		return "bytes"
	case Contiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// Configuration describes one level of a partitioning hierarchy.
type Configuration struct {
	Scheme    Scheme
	Separator Separator
	Value     uint32
}

// DefaultConfiguration is the implicit monolithic root level: one partition
// holding every request.
func DefaultConfiguration() Configuration {
	return Configuration{Scheme: Temporal, Separator: Count, Value: 1}
}

// Partition holds a contiguous run of requests plus the metadata needed to
// split it further.
type Partition struct {
	Requests  []Request
	StartTime uint64
	Duration  uint64

	config Configuration
}

// NewPartition returns an empty partition configured for future splits.
func NewPartition(config Configuration) *Partition {
	return &Partition{config: config}
}

// Split divides parent's requests into children according to config,
// leaving parent's own Requests empty. The returned map is keyed by a
// partition id local to this split (not globally unique).
func Split(parent *Partition, config Configuration) map[uint32]*Partition {
	if len(parent.Requests) == 0 {
		return map[uint32]*Partition{}
	}

	var result map[uint32]*Partition

	switch config.Scheme {
	case Temporal:
		switch config.Separator {
		case Cycles:
			result = splitFixedTime(parent, config)
		case Count:
			result = splitFixedNumber(parent, config)
		case Requests:
			result = splitFixedRequests(parent, config)
		default:
			result = map[uint32]*Partition{}
		}
	case Spatial:
		switch config.Separator {
		case Bytes:
			result = splitFixedBytes(parent, config)
		case Contiguous:
			result = splitContiguous(parent, config)
		default:
			result = map[uint32]*Partition{}
		}
	default:
		result = map[uint32]*Partition{}
	}

	parent.Requests = nil

	return result
}

func splitFixedTime(p *Partition, config Configuration) map[uint32]*Partition {
	result := make(map[uint32]*Partition)
	resolution := uint64(config.Value)

	for _, req := range p.Requests {
		elapsed := req.Timestamp - p.StartTime
		id := uint32(elapsed / resolution)

		child, exists := result[id]
		if !exists {
			child = NewPartition(config)
			child.StartTime = p.StartTime + uint64(id)*resolution
			child.Duration = resolution
			result[id] = child
		}

		child.Requests = append(child.Requests, req)
	}

	return result
}

func splitFixedNumber(p *Partition, config Configuration) map[uint32]*Partition {
	resolution := uint64(math.Ceil((float64(p.Duration) + 1.0) / float64(config.Value)))
	if resolution == 0 {
		resolution = 1
	}

	cyclesConfig := config
	cyclesConfig.Separator = Cycles
	cyclesConfig.Value = uint32(resolution)

	return splitFixedTime(p, cyclesConfig)
}

func splitFixedRequests(p *Partition, config Configuration) map[uint32]*Partition {
	result := make(map[uint32]*Partition)
	chunkSize := int(config.Value)

	for start := 0; start < len(p.Requests); start += chunkSize {
		end := start + chunkSize
		if end > len(p.Requests) {
			end = len(p.Requests)
		}

		chunk := p.Requests[start:end]

		child := NewPartition(config)
		child.Requests = append(child.Requests, chunk...)
		child.StartTime = chunk[0].Timestamp
		child.Duration = chunk[len(chunk)-1].Timestamp - child.StartTime

		result[uint32(start/chunkSize)] = child
	}

	return result
}

func splitFixedBytes(p *Partition, config Configuration) map[uint32]*Partition {
	result := make(map[uint32]*Partition)
	blockSize := uint64(config.Value)

	for _, req := range p.Requests {
		id := uint32(req.Address / blockSize)

		child, exists := result[id]
		if !exists {
			child = NewPartition(config)
			child.StartTime = req.Timestamp
			result[id] = child
		}

		child.Duration = req.Timestamp - child.StartTime
		child.Requests = append(child.Requests, req)
	}

	return result
}

// getContiguousRanges groups a partition's touched address ranges,
// collapsing any that overlap or touch into a single range. The returned
// slice is sorted by Start ascending.
func getContiguousRanges(p *Partition) []AddressRange {
	byStart := make(map[uint64]AddressRange)

	for _, req := range p.Requests {
		start := req.Address
		if _, exists := byStart[start]; exists {
			continue
		}
		byStart[start] = AddressRange{Start: start, End: start + req.Size, Count: 1}
	}

	starts := make([]uint64, 0, len(byStart))
	for k := range byStart {
		starts = append(starts, k)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	if len(starts) == 0 {
		return nil
	}

	grouped := make([]AddressRange, 0, len(starts))
	current := byStart[starts[0]]

	for _, start := range starts[1:] {
		next := byStart[start]
		if next.Intersects(current) {
			current.Expand(next)
			current.Count++
		} else {
			grouped = append(grouped, current)
			current = next
		}
	}
	grouped = append(grouped, current)

	return grouped
}

// mergeContiguousSingletons folds consecutive singleton ranges into one
// range when they advance by a uniform stride, the same collapsing a
// strided scan over many one-off addresses undergoes in the address-range
// bookkeeping that feeds spatial/contiguous partitioning.
func mergeContiguousSingletons(ranges []AddressRange) []AddressRange {
	if len(ranges) == 0 {
		return ranges
	}

	result := make([]AddressRange, 0, len(ranges))

	i := 0
	for i < len(ranges) {
		if ranges[i].Count != 1 || i+1 >= len(ranges) {
			result = append(result, ranges[i])
			i++
			continue
		}

		merged := ranges[i]
		stride := calculateStride(ranges[i+1].Start, merged.End)

		j := i + 1
		for j < len(ranges) && ranges[j].Count == 1 && calculateStride(ranges[j].Start, merged.End) == stride {
			merged.Expand(ranges[j])
			merged.Count++
			j++
		}

		result = append(result, merged)
		i = j
	}

	return result
}

func splitContiguous(p *Partition, config Configuration) map[uint32]*Partition {
	ranges := mergeContiguousSingletons(getContiguousRanges(p))

	result := make(map[uint32]*Partition)

	for _, req := range p.Requests {
		for id, r := range ranges {
			if !r.Contains(req.Address) {
				continue
			}

			key := uint32(id)
			child, exists := result[key]
			if !exists {
				child = NewPartition(config)
				child.StartTime = req.Timestamp
				result[key] = child
			}

			child.Duration = req.Timestamp - child.StartTime
			child.Requests = append(child.Requests, req)
			break
		}
	}

	return result
}
