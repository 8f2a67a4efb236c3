package trace

import (
	"fmt"
)

// State is one symbolic state: a per-process local-location vector, the
// integer variable values in model declaration order, and a square
// matrix of clock-difference bounds.
type State struct {
	Locations []int
	Variables []int

	bounds []Bound
	clocks int
}

// NewState returns a state with the given vector sizes. The bound
// matrix starts out unconstrained except for the diagonal and row and
// column zero, which are pinned to (0, <=); clock 0 is the fixed
// reference clock.
func NewState(processes, clocks, variables int) *State {
	s := &State{
		Locations: make([]int, processes),
		Variables: make([]int, variables),
		bounds:    make([]Bound, clocks*clocks),
		clocks:    clocks,
	}
	for i := range s.bounds {
		s.bounds[i] = Infinity
	}
	for i := 0; i < clocks; i++ {
		s.setBound(0, i, Zero)
		s.setBound(i, 0, Zero)
		s.setBound(i, i, Zero)
	}
	return s
}

// ClockCount returns the dimension of the bound matrix.
func (s *State) ClockCount() int { return s.clocks }

// Bound returns the upper bound on clock i minus clock j.
func (s *State) Bound(i, j int) Bound {
	return s.bounds[i*s.clocks+j]
}

// SetBound overrides the upper bound on clock i minus clock j.
func (s *State) SetBound(i, j int, b Bound) error {
	if i < 0 || i >= s.clocks || j < 0 || j >= s.clocks {
		return fmt.Errorf("clock pair (%d,%d) out of range for %d clocks", i, j, s.clocks)
	}
	s.setBound(i, j, b)
	return nil
}

func (s *State) setBound(i, j int, b Bound) {
	s.bounds[i*s.clocks+j] = b
}

// State decodes one symbolic state: the location vector, the sparse
// bound list, then the variable vector, each segment closed by a dot
// line. The sparse list has no count; a peek at the next non-blank byte
// decides whether another (i, j, bound) triple follows or the closing
// dot ends the list.
func (d *Decoder) State() (*State, error) {
	s := NewState(len(d.model.Processes), d.model.ClockCount(), d.model.VariableCount())

	for p := range s.Locations {
		v, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: location vector: %v", ErrMalformedState, err)
		}
		s.Locations[p] = v
	}
	if err := d.t.readDot(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	for {
		if err := d.t.skipWhitespace(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		b, err := d.t.peekByte()
		if err != nil || b == '.' {
			break
		}
		i, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: bound list: %v", ErrMalformedState, err)
		}
		j, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: bound list: %v", ErrMalformedState, err)
		}
		enc, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: bound list: %v", ErrMalformedState, err)
		}
		if err := d.t.readDot(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		if err := s.SetBound(i, j, DecodeBound(enc)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
	}
	if err := d.t.readDot(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	for v := range s.Variables {
		n, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: variable vector: %v", ErrMalformedState, err)
		}
		s.Variables[v] = n
	}
	if err := d.t.readDot(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return s, nil
}
