package trace

import "fmt"

// EdgeInstance is one fired edge: the owning process, the process-local
// edge index, and the select values chosen for this occurrence.
type EdgeInstance struct {
	Process int
	Edge    int
	Select  []int
}

// Transition is an ordered sequence of edge instances. A length above
// one means a cross-process synchronization.
type Transition struct {
	Edges []EdgeInstance
}

// Transition decodes one transition: (process, edge) pairs each with
// zero or more select values, closed by a dot line. An entry that ends
// at a line break without a ';' is in the legacy encoding, which counts
// edges from 1 instead of 0; the index is adjusted per entry. There is
// no version marker in the file, the trailing ';' is the only signal.
func (d *Decoder) Transition() (*Transition, error) {
	tr := &Transition{}
	for {
		if err := d.t.skipWhitespace(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTransition, err)
		}
		b, err := d.t.peekByte()
		if err != nil || b == '.' {
			break
		}

		proc, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: edge pair: %v", ErrMalformedTransition, err)
		}
		edge, err := d.t.readInt()
		if err != nil {
			return nil, fmt.Errorf("%w: edge pair: %v", ErrMalformedTransition, err)
		}
		inst := EdgeInstance{Process: proc, Edge: edge}

		if err := d.t.skipSpaces(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTransition, err)
		}
		for {
			b, err := d.t.peekByte()
			if err != nil {
				return nil, fmt.Errorf("%w: unexpected end of input in edge entry", ErrMalformedTransition)
			}
			if b == '\n' || b == ';' {
				break
			}
			v, err := d.t.readInt()
			if err != nil {
				return nil, fmt.Errorf("%w: select values: %v", ErrMalformedTransition, err)
			}
			inst.Select = append(inst.Select, v)
			if err := d.t.skipSpaces(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedTransition, err)
			}
		}
		b, err = d.t.readByte()
		if err != nil {
			return nil, fmt.Errorf("%w: unexpected end of input in edge entry", ErrMalformedTransition)
		}
		if b == '\n' {
			// Legacy encoding: edges numbered from 1.
			inst.Edge--
		}
		tr.Edges = append(tr.Edges, inst)
	}
	if err := d.t.readDot(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransition, err)
	}
	return tr, nil
}
