// Package model loads the UPPAAL intermediate format into an immutable
// in-memory representation. The intermediate format numbers everything
// globally (position in the flat cell list); the trace format numbers
// clocks, variables, locations and edges per kind and per process. The
// derived name lists and per-process index lists built here are the
// bridge between the two schemes.
package model

// Process is one process of the system. Locations and Edges hold global
// cell/edge indices; their append order during load defines the local
// numbering the trace format refers to.
type Process struct {
	Name      string
	Initial   int
	Locations []int
	Edges     []int
}

// Edge is one syntactic edge. Source and Target are global cell indices
// of location cells; Guard, Sync and Update are expression table keys.
type Edge struct {
	Process int
	Source  int
	Target  int
	Guard   int
	Sync    int
	Update  int
}

// Model is the decoded intermediate format. It is built once by Load and
// read-only afterwards; decoders and renderers borrow it freely.
type Model struct {
	Layout       []Cell
	Instructions []int
	Processes    []Process
	Edges        []Edge
	Expressions  map[int]string

	// Clocks and Variables are the cell names in local-declaration
	// order, which equals the per-kind numbering used by the trace
	// format.
	Clocks    []string
	Variables []string
}

// Expression returns the expression text for a key. A missing key yields
// the empty string; edges routinely reference keys that were never
// emitted (no guard, no sync).
func (m *Model) Expression(key int) string {
	return m.Expressions[key]
}

// ClockCount returns the number of clocks, which is the dimension of the
// bound matrices in decoded states.
func (m *Model) ClockCount() int { return len(m.Clocks) }

// VariableCount returns the number of integer and meta variables.
func (m *Model) VariableCount() int { return len(m.Variables) }
