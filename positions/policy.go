package positions

// Candidate references the four source chain columns of one 4-leg strategy:
// short call, long call, short put, long put.
type Candidate struct {
	ShortCall int
	LongCall  int
	ShortPut  int
	LongPut   int
}

// Policy decides which index 4-tuples are tried. The choice changes the
// candidate count by orders of magnitude, so it is explicit configuration,
// never an accident of loop bounds.
type Policy interface {
	Name() string
	Candidates(columns int) []Candidate
}

// NestedOffsetPolicy places each long leg at a bounded offset above its short
// leg: tuples (i, i+j, k, k+l) with i and k in [Start, Start+MaxRows), j and
// l in [1, MaxOffset], and both long indices inside the same window. Biases
// toward long legs near their short leg and keeps the candidate count at
// O(MaxRows^2) for a fixed MaxOffset.
type NestedOffsetPolicy struct {
	Start     int
	MaxRows   int
	MaxOffset int
}

func (p NestedOffsetPolicy) Name() string { return "nested-offset" }

func (p NestedOffsetPolicy) Candidates(columns int) []Candidate {
	end := p.Start + p.MaxRows
	if end > columns {
		end = columns
	}
	maxOffset := p.MaxOffset
	if maxOffset <= 0 {
		maxOffset = 1
	}

	var out []Candidate
	for i := p.Start; i < end; i++ {
		for j := 1; j <= maxOffset && i+j < end; j++ {
			for k := p.Start; k < end; k++ {
				for l := 1; l <= maxOffset && k+l < end; l++ {
					out = append(out, Candidate{
						ShortCall: i,
						LongCall:  i + j,
						ShortPut:  k,
						LongPut:   k + l,
					})
				}
			}
		}
	}
	return out
}

// IndependentPolicy ranges all four indices independently over [1, MaxRows).
// Simpler than NestedOffsetPolicy but O(MaxRows^4) and it permits degenerate
// legs such as buying and selling the same strike.
type IndependentPolicy struct {
	MaxRows int
}

func (p IndependentPolicy) Name() string { return "independent" }

func (p IndependentPolicy) Candidates(columns int) []Candidate {
	end := p.MaxRows
	if end > columns {
		end = columns
	}

	var out []Candidate
	for i := 1; i < end; i++ {
		for j := 1; j < end; j++ {
			for k := 1; k < end; k++ {
				for l := 1; l < end; l++ {
					out = append(out, Candidate{
						ShortCall: i,
						LongCall:  j,
						ShortPut:  k,
						LongPut:   l,
					})
				}
			}
		}
	}
	return out
}
