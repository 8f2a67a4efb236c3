package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Load decodes an intermediate-format model. Sections are introduced by
// bare header lines and run until an empty line, a line starting with
// whitespace, or end of input. Every successfully parsed layout record
// appends one cell; that append order is the global index all later
// sections refer to.
func Load(r io.Reader) (*Model, error) {
	m := &Model{Expressions: make(map[int]string)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		header := sc.Text()
		if header == "" {
			continue
		}
		var err error
		switch header {
		case "layout":
			err = m.readLayout(sc)
		case "instructions":
			err = m.readInstructions(sc)
		case "processes":
			err = m.readProcesses(sc)
		case "locations":
			err = m.readLocations(sc)
		case "edges":
			err = m.readEdges(sc)
		case "expressions":
			err = m.readExpressions(sc)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, header)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// nextRecord returns the next record line of the current section.
// Comment lines are skipped; an empty line, a line starting with
// whitespace, or end of input ends the section.
func nextRecord(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" || isSpace(line[0]) {
			return "", false
		}
		return line, true
	}
	return "", false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\v' || b == '\f'
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// firstWord mirrors the %s-style name fields of the original format: the
// name runs to the first whitespace, trailing content is ignored.
func firstWord(s string) string {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

func (m *Model) readLayout(sc *bufio.Scanner) error {
	for {
		line, ok := nextRecord(sc)
		if !ok {
			return nil
		}
		cell, err := parseLayoutLine(line)
		if err != nil {
			return err
		}
		switch cell.Data.(type) {
		case ClockData:
			m.Clocks = append(m.Clocks, cell.Name)
		case IntegerData, MetaData:
			m.Variables = append(m.Variables, cell.Name)
		}
		m.Layout = append(m.Layout, cell)
	}
}

// parseLayoutLine classifies one layout record. The record families are
// tried in the same priority order the format defines them; the flagged
// location forms are matched before the plain one, whose keyword they
// share as a prefix.
func parseLayoutLine(line string) (Cell, error) {
	bad := func() (Cell, error) {
		return Cell{}, fmt.Errorf("%w: layout: %q", ErrMalformedModel, line)
	}
	f := strings.Split(line, ":")
	if len(f) < 2 {
		return bad()
	}
	if _, ok := atoi(f[0]); !ok {
		return bad()
	}
	switch f[1] {
	case "clock":
		if len(f) < 4 {
			return bad()
		}
		nr, ok := atoi(f[2])
		if !ok {
			return bad()
		}
		return Cell{Name: firstWord(f[3]), Data: ClockData{Index: nr}}, nil
	case "const":
		if len(f) < 3 {
			return bad()
		}
		v, ok := atoi(f[2])
		if !ok {
			return bad()
		}
		return Cell{Data: ConstData{Value: v}}, nil
	case "var", "meta":
		if len(f) < 7 {
			return bad()
		}
		mn, ok1 := atoi(f[2])
		mx, ok2 := atoi(f[3])
		init, ok3 := atoi(f[4])
		nr, ok4 := atoi(f[5])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return bad()
		}
		name := firstWord(f[6])
		if f[1] == "var" {
			return Cell{Name: name, Data: IntegerData{Min: mn, Max: mx, Init: init, Index: nr}}, nil
		}
		return Cell{Name: name, Data: MetaData{Min: mn, Max: mx, Init: init, Index: nr}}, nil
	case "sys_meta":
		if len(f) < 5 {
			return bad()
		}
		mn, ok1 := atoi(f[2])
		mx, ok2 := atoi(f[3])
		if !ok1 || !ok2 {
			return bad()
		}
		return Cell{Name: firstWord(f[4]), Data: SysMetaData{Min: mn, Max: mx}}, nil
	case "location":
		if len(f) < 4 {
			return bad()
		}
		var flag LocationFlag
		switch f[2] {
		case "committed":
			flag = FlagCommitted
		case "urgent":
			flag = FlagUrgent
		case "":
			flag = FlagNone
		default:
			return bad()
		}
		return Cell{Name: firstWord(f[3]), Data: LocationData{Flag: flag, Process: -1, Invariant: -1}}, nil
	case "static":
		if len(f) < 5 {
			return bad()
		}
		mn, ok1 := atoi(f[2])
		mx, ok2 := atoi(f[3])
		if !ok1 || !ok2 {
			return bad()
		}
		return Cell{Name: firstWord(f[4]), Data: StaticData{Min: mn, Max: mx}}, nil
	case "cost":
		return Cell{Data: CostData{}}, nil
	default:
		return bad()
	}
}

func (m *Model) readInstructions(sc *bufio.Scanner) error {
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			return nil
		}
		if line[0] == '\t' {
			// Pretty-printed disassembly of the preceding record.
			continue
		}
		if isSpace(line[0]) {
			return nil
		}
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("%w: instructions: %q", ErrMalformedModel, line)
		}
		if _, ok := atoi(label); !ok {
			return fmt.Errorf("%w: instructions: %q", ErrMalformedModel, line)
		}
		words := strings.Fields(rest)
		if len(words) == 0 {
			return fmt.Errorf("%w: instructions: %q", ErrMalformedModel, line)
		}
		if len(words) > 4 {
			words = words[:4]
		}
		for _, w := range words {
			v, ok := atoi(w)
			if !ok {
				return fmt.Errorf("%w: instructions: %q", ErrMalformedModel, line)
			}
			m.Instructions = append(m.Instructions, v)
		}
	}
	return nil
}

func (m *Model) readProcesses(sc *bufio.Scanner) error {
	for {
		line, ok := nextRecord(sc)
		if !ok {
			return nil
		}
		f := strings.Split(line, ":")
		if len(f) < 3 {
			return fmt.Errorf("%w: processes: %q", ErrMalformedModel, line)
		}
		_, ok1 := atoi(f[0])
		initial, ok2 := atoi(f[1])
		if !ok1 || !ok2 {
			return fmt.Errorf("%w: processes: %q", ErrMalformedModel, line)
		}
		m.Processes = append(m.Processes, Process{Name: firstWord(f[2]), Initial: initial})
	}
}

func (m *Model) readLocations(sc *bufio.Scanner) error {
	for {
		line, ok := nextRecord(sc)
		if !ok {
			return nil
		}
		f := strings.Split(line, ":")
		if len(f) < 3 {
			return fmt.Errorf("%w: locations: %q", ErrMalformedModel, line)
		}
		index, ok1 := atoi(f[0])
		proc, ok2 := atoi(f[1])
		invariant, ok3 := atoi(f[2])
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf("%w: locations: %q", ErrMalformedModel, line)
		}
		if index < 0 || index >= len(m.Layout) {
			return fmt.Errorf("%w: locations: cell %d out of range", ErrInvalidReference, index)
		}
		loc, ok := m.Layout[index].Data.(LocationData)
		if !ok {
			return fmt.Errorf("%w: locations: cell %d is not a location", ErrInvalidReference, index)
		}
		if proc < 0 || proc >= len(m.Processes) {
			return fmt.Errorf("%w: locations: process %d out of range", ErrInvalidReference, proc)
		}
		loc.Process = proc
		loc.Invariant = invariant
		m.Layout[index].Data = loc
		p := &m.Processes[proc]
		p.Locations = append(p.Locations, index)
	}
}

func (m *Model) readEdges(sc *bufio.Scanner) error {
	for {
		line, ok := nextRecord(sc)
		if !ok {
			return nil
		}
		f := strings.Split(line, ":")
		if len(f) < 6 {
			return fmt.Errorf("%w: edges: %q", ErrMalformedModel, line)
		}
		var v [6]int
		for i := 0; i < 6; i++ {
			n, ok := atoi(f[i])
			if !ok {
				return fmt.Errorf("%w: edges: %q", ErrMalformedModel, line)
			}
			v[i] = n
		}
		proc := v[0]
		if proc < 0 || proc >= len(m.Processes) {
			return fmt.Errorf("%w: edges: process %d out of range", ErrInvalidReference, proc)
		}
		for _, cell := range [2]int{v[1], v[2]} {
			if cell < 0 || cell >= len(m.Layout) {
				return fmt.Errorf("%w: edges: cell %d out of range", ErrInvalidReference, cell)
			}
			if _, ok := m.Layout[cell].Data.(LocationData); !ok {
				return fmt.Errorf("%w: edges: cell %d is not a location", ErrInvalidReference, cell)
			}
		}
		p := &m.Processes[proc]
		p.Edges = append(p.Edges, len(m.Edges))
		m.Edges = append(m.Edges, Edge{
			Process: proc,
			Source:  v[1],
			Target:  v[2],
			Guard:   v[3],
			Sync:    v[4],
			Update:  v[5],
		})
	}
}

func (m *Model) readExpressions(sc *bufio.Scanner) error {
	for {
		line, ok := nextRecord(sc)
		if !ok {
			return nil
		}
		first := strings.IndexByte(line, ':')
		if first < 0 {
			return fmt.Errorf("%w: expressions: %q", ErrMalformedModel, line)
		}
		key, ok := atoi(line[:first])
		if !ok {
			return fmt.Errorf("%w: expressions: %q", ErrMalformedModel, line)
		}
		// The expression text starts after the third colon.
		pos := first
		for n := 1; n < 3; n++ {
			next := strings.IndexByte(line[pos+1:], ':')
			if next < 0 {
				return fmt.Errorf("%w: expressions: missing colon in %q", ErrMalformedModel, line)
			}
			pos += 1 + next
		}
		m.Expressions[key] = strings.TrimSpace(line[pos+1:])
	}
}
