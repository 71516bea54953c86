package mocktails

import (
	hrdpkg "github.com/mariobadr/statistical-simulation/hrd"
	stmpkg "github.com/mariobadr/statistical-simulation/stm"
)

// Model wraps a leaf's underlying access model (U) with the request-count,
// timing, and size sequence models shared by every leaf kind.
type Model[U any] struct {
	RequestCount uint64
	StartTime    uint64

	SizeModel SequenceModel[uint64]
	TimeModel SequenceModel[uint64]

	Underlying *U
}

// SimpleModel is the leaf access model mocktails uses when it doesn't
// delegate to STM or HRD: a Markov chain over strides plus one over read/
// write operations.
type SimpleModel struct {
	StartAddress   uint64
	Footprint      AddressRange
	OperationModel SequenceModel[Operation]
	StrideModel    SequenceModel[int32]
}

func createModel[U any](requests []Request) Model[U] {
	var m Model[U]
	if len(requests) == 0 {
		return m
	}

	var timeSeq Sequence[uint64]
	var sizeSeq Sequence[uint64]

	lastTime := requests[0].Timestamp
	for i, req := range requests {
		sizeSeq.Add(req.Size)
		if i > 0 {
			timeSeq.Add(req.Timestamp - lastTime)
		}
		lastTime = req.Timestamp
	}

	m.RequestCount = uint64(len(requests))
	m.StartTime = requests[0].Timestamp
	m.SizeModel = sizeSeq.MakeModel()
	m.TimeModel = timeSeq.MakeModel()

	return m
}

// CreateSimpleModel builds a mocktails leaf model directly from requests,
// with no STM or HRD delegation.
func CreateSimpleModel(requests []Request) Model[SimpleModel] {
	m := createModel[SimpleModel](requests)
	if len(requests) == 0 {
		return m
	}

	underlying := &SimpleModel{Footprint: NewAddressRange()}

	var opSeq Sequence[Operation]
	var strideSeq Sequence[int32]

	lastAddress := requests[0].Address
	for i, req := range requests {
		opSeq.Add(req.Op)
		if i > 0 {
			strideSeq.Add(calculateStride(req.Address, lastAddress))
		}

		underlying.Footprint.Expand(AddressRange{Start: req.Address, End: req.Address + req.Size})

		lastAddress = req.Address
	}

	underlying.StartAddress = requests[0].Address
	underlying.OperationModel = opSeq.MakeModel()
	underlying.StrideModel = strideSeq.MakeModel()

	m.Underlying = underlying

	return m
}

func toSTMOperation(op Operation) stmpkg.Operation {
	if op == Read {
		return stmpkg.Read
	}
	return stmpkg.Write
}

func fromSTMOperation(op stmpkg.Operation) Operation {
	if op == stmpkg.Read {
		return Read
	}
	return Write
}

// CreateSTMModel builds a leaf model that delegates access modeling to an
// STM profile, the choice suited to a partition with a working set too
// irregular for the simple stride Markov chain to capture well.
func CreateSTMModel(requests []Request) Model[stmpkg.Profile] {
	m := createModel[stmpkg.Profile](requests)
	if len(requests) == 0 {
		return m
	}

	underlying := stmpkg.NewProfile(stmpkg.Parameters{NumRows: 32, NumCols: 2, StrideDepth: 8})
	for _, req := range requests {
		underlying.Update(req.Address, toSTMOperation(req.Op))
	}

	m.Underlying = underlying

	return m
}

func toHRDOperation(op Operation) hrdpkg.Operation {
	if op == Read {
		return hrdpkg.Read
	}
	return hrdpkg.Write
}

func fromHRDOperation(op hrdpkg.Operation) Operation {
	if op == hrdpkg.Read {
		return Read
	}
	return Write
}

// CreateHRDModel builds a leaf model that delegates access modeling to a
// single-layer HRD profile, the choice suited to a partition small enough
// that one block size captures its reuse behaviour.
func CreateHRDModel(requests []Request) Model[hrdpkg.Profile] {
	m := createModel[hrdpkg.Profile](requests)
	if len(requests) == 0 {
		return m
	}

	underlying := hrdpkg.NewProfile([]uint64{64})
	for _, req := range requests {
		underlying.Update(req.Address, toHRDOperation(req.Op))
	}

	m.Underlying = underlying

	return m
}
