// Package render projects a model and a decoded trace into the
// human-readable text format. It resolves every process-local index
// back to a name through the model and never mutates either input.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"xtrace/internal/model"
	"xtrace/internal/trace"
)

// Options selects which parts of a state get printed. The zero value
// prints nothing useful; use DefaultOptions for the standard output.
type Options struct {
	Variables bool
	Zones     bool
}

// DefaultOptions prints everything.
func DefaultOptions() Options {
	return Options{Variables: true, Zones: true}
}

// Renderer writes the text rendering of states, transitions and traces.
type Renderer struct {
	model *model.Model
	opts  Options
}

// New returns a renderer over the given model.
func New(m *model.Model, opts Options) *Renderer {
	return &Renderer{model: m, opts: opts}
}

// Trace writes the whole trace: the initial state, then each step as a
// transition/state pair under "Transition:" and "State:" headers.
func (r *Renderer) Trace(w io.Writer, tr *trace.Trace) error {
	if _, err := io.WriteString(w, "State: "); err != nil {
		return err
	}
	if err := r.State(w, tr.Initial); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, step := range tr.Steps {
		if _, err := io.WriteString(w, "\nTransition: "); err != nil {
			return err
		}
		if err := r.Transition(w, step.Transition); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n\nState: "); err != nil {
			return err
		}
		if err := r.State(w, step.State); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// State writes the location vector, the variable values and the clock
// constraints of one state. Only bounds below the infinity sentinel are
// printed.
func (r *Renderer) State(w io.Writer, s *trace.State) error {
	var b strings.Builder
	m := r.model

	if len(s.Locations) != len(m.Processes) {
		return fmt.Errorf("state has %d locations for %d processes", len(s.Locations), len(m.Processes))
	}
	for p := range m.Processes {
		proc := &m.Processes[p]
		local := s.Locations[p]
		if local < 0 || local >= len(proc.Locations) {
			return fmt.Errorf("process %s: location index %d out of range", proc.Name, local)
		}
		cell := proc.Locations[local]
		b.WriteString(proc.Name)
		b.WriteByte('.')
		b.WriteString(m.Layout[cell].Name)
		b.WriteByte(' ')
	}

	if len(s.Variables) != len(m.Variables) {
		return fmt.Errorf("state has %d variables for %d declared", len(s.Variables), len(m.Variables))
	}
	if s.ClockCount() != len(m.Clocks) {
		return fmt.Errorf("state has %d clocks for %d declared", s.ClockCount(), len(m.Clocks))
	}

	if r.opts.Variables {
		for v, name := range m.Variables {
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(s.Variables[v]))
			b.WriteByte(' ')
		}
	}

	if r.opts.Zones {
		n := s.ClockCount()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				bnd := s.Bound(i, j)
				if bnd.Value == trace.InfinityValue {
					continue
				}
				b.WriteString(m.Clocks[i])
				b.WriteByte('-')
				b.WriteString(m.Clocks[j])
				if bnd.Strict {
					b.WriteByte('<')
				} else {
					b.WriteString("<=")
				}
				b.WriteString(strconv.Itoa(bnd.Value))
				b.WriteByte(' ')
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Transition writes every edge instance of one transition: source and
// target locations, the select values if any, and the guard, sync and
// update expression texts. An expression key with no table entry prints
// as empty text.
func (r *Renderer) Transition(w io.Writer, tr *trace.Transition) error {
	var b strings.Builder
	m := r.model

	for _, inst := range tr.Edges {
		if inst.Process < 0 || inst.Process >= len(m.Processes) {
			return fmt.Errorf("edge instance: process %d out of range", inst.Process)
		}
		proc := &m.Processes[inst.Process]
		if inst.Edge < 0 || inst.Edge >= len(proc.Edges) {
			return fmt.Errorf("process %s: edge index %d out of range", proc.Name, inst.Edge)
		}
		edge := &m.Edges[proc.Edges[inst.Edge]]

		b.WriteString(proc.Name)
		b.WriteByte('.')
		b.WriteString(m.Layout[edge.Source].Name)
		b.WriteString(" -> ")
		b.WriteString(proc.Name)
		b.WriteByte('.')
		b.WriteString(m.Layout[edge.Target].Name)
		if len(inst.Select) > 0 {
			b.WriteString(" [")
			for i, v := range inst.Select {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Itoa(v))
			}
			b.WriteByte(']')
		}
		b.WriteString(" {")
		b.WriteString(m.Expression(edge.Guard))
		b.WriteString("; ")
		b.WriteString(m.Expression(edge.Sync))
		b.WriteString("; ")
		b.WriteString(m.Expression(edge.Update))
		b.WriteString(";} ")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
