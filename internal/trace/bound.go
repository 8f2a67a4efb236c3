package trace

import "math"

// InfinityValue is the reserved bound value meaning "no bound". The
// matrix seeds every off-diagonal entry outside row and column zero to
// it before sparse overrides are applied.
const InfinityValue = math.MaxInt32 >> 1

// Bound is a clock-difference upper bound: a value and a strictness
// flag distinguishing < from <=.
type Bound struct {
	Value  int
	Strict bool
}

var (
	// Infinity is the absent bound.
	Infinity = Bound{Value: InfinityValue, Strict: true}

	// Zero is the bound (0, <=).
	Zero = Bound{}
)

// DecodeBound unpacks the trace encoding value*2 + strictBit. The shift
// is arithmetic, so negative bound values survive the round trip.
func DecodeBound(enc int) Bound {
	return Bound{Value: enc >> 1, Strict: enc&1 != 0}
}

// Encode packs the bound back into the trace encoding. Inverse of
// DecodeBound.
func (b Bound) Encode() int {
	enc := b.Value * 2
	if b.Strict {
		enc++
	}
	return enc
}
