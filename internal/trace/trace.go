// Package trace decodes the XTR trace format against a loaded model.
// The format is a whitespace-separated token stream with dot-line
// terminators. All numbering in it is process local; the model supplies
// the vector sizes and, later, the names. Decoding is strictly
// sequential and all-or-nothing: the stream position after a failure is
// undefined and no recovery is attempted.
package trace

import (
	"fmt"
	"io"

	"xtrace/internal/model"
)

// Step pairs a transition with the state it produced.
type Step struct {
	Transition *Transition
	State      *State
}

// Trace is one symbolic execution trace: the initial state and the
// ordered steps leading away from it.
type Trace struct {
	Initial *State
	Steps   []Step
}

// Decoder reads states, transitions and whole traces off one stream.
// The model is borrowed read-only and must outlive the decoder.
type Decoder struct {
	model *model.Model
	t     *tokenReader
}

// NewDecoder returns a decoder for one XTR stream.
func NewDecoder(m *model.Model, r io.Reader) *Decoder {
	return &Decoder{model: m, t: newTokenReader(r)}
}

// Trace decodes a whole trace: one initial state, then (state,
// transition) pairs until the lone-dot trace terminator. The on-disk
// order within a step is state first, but the transition read in the
// same iteration is the one that produced that state, so the two are
// paired within the iteration, not across iterations.
func (d *Decoder) Trace() (*Trace, error) {
	initial, err := d.State()
	if err != nil {
		return nil, err
	}
	tr := &Trace{Initial: initial}
	for {
		if err := d.t.skipSpaces(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		b, err := d.t.peekByte()
		if err != nil {
			return nil, fmt.Errorf("%w: expecting a state or the trace terminator, got EOF", ErrMalformedState)
		}
		if b == '.' {
			d.t.readByte()
			break
		}
		state, err := d.State()
		if err != nil {
			return nil, err
		}
		transition, err := d.Transition()
		if err != nil {
			return nil, err
		}
		tr.Steps = append(tr.Steps, Step{Transition: transition, State: state})
	}
	return tr, nil
}
