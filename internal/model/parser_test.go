package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `layout
0:clock:0:t(0)
1:clock:1:x
2:var:-32768:32767:0:0:n
3:location::L0
4:location:committed:L1
5:location:urgent:L2
6:const:5
7:meta:0:10:0:1:m
8:sys_meta:0:1:sys
9:static:0:3:st
10:cost

instructions
0: 2 5 -1
	LOAD 2
	ADD
1: 7

processes
0:0:P
1:1:Q

locations
3:0:20
4:0:21
5:1:22

edges
0:3:4:30:31:32
1:5:5:33:34:35

expressions
30:1:1: x>1
31:1:1:go!
`

func TestLoadModel(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)

	t.Run("layout order is the global index", func(t *testing.T) {
		require.Len(t, m.Layout, 11)
		assert.Equal(t, "t(0)", m.Layout[0].Name)
		assert.Equal(t, ClockData{Index: 0}, m.Layout[0].Data)
		assert.Equal(t, ClockData{Index: 1}, m.Layout[1].Data)
		assert.Equal(t, IntegerData{Min: -32768, Max: 32767, Init: 0, Index: 0}, m.Layout[2].Data)
		assert.Equal(t, ConstData{Value: 5}, m.Layout[6].Data)
		assert.Equal(t, MetaData{Min: 0, Max: 10, Init: 0, Index: 1}, m.Layout[7].Data)
		assert.Equal(t, SysMetaData{Min: 0, Max: 1}, m.Layout[8].Data)
		assert.Equal(t, StaticData{Min: 0, Max: 3}, m.Layout[9].Data)
		assert.Equal(t, CostData{}, m.Layout[10].Data)
	})

	t.Run("location flags", func(t *testing.T) {
		assert.Equal(t, FlagNone, m.Layout[3].Data.(LocationData).Flag)
		assert.Equal(t, FlagCommitted, m.Layout[4].Data.(LocationData).Flag)
		assert.Equal(t, FlagUrgent, m.Layout[5].Data.(LocationData).Flag)
	})

	t.Run("two-phase location build", func(t *testing.T) {
		loc := m.Layout[3].Data.(LocationData)
		assert.Equal(t, 0, loc.Process)
		assert.Equal(t, 20, loc.Invariant)

		loc = m.Layout[5].Data.(LocationData)
		assert.Equal(t, 1, loc.Process)
		assert.Equal(t, 22, loc.Invariant)
	})

	t.Run("local location and edge numbering follow file order", func(t *testing.T) {
		require.Len(t, m.Processes, 2)
		assert.Equal(t, "P", m.Processes[0].Name)
		assert.Equal(t, []int{3, 4}, m.Processes[0].Locations)
		assert.Equal(t, []int{5}, m.Processes[1].Locations)
		assert.Equal(t, []int{0}, m.Processes[0].Edges)
		assert.Equal(t, []int{1}, m.Processes[1].Edges)

		require.Len(t, m.Edges, 2)
		assert.Equal(t, Edge{Process: 0, Source: 3, Target: 4, Guard: 30, Sync: 31, Update: 32}, m.Edges[0])
	})

	t.Run("instructions keep only the words", func(t *testing.T) {
		assert.Equal(t, []int{2, 5, -1, 7}, m.Instructions)
	})

	t.Run("expressions trimmed and keyed", func(t *testing.T) {
		assert.Equal(t, "x>1", m.Expression(30))
		assert.Equal(t, "go!", m.Expression(31))
		assert.Equal(t, "", m.Expression(99))
	})
}

func TestDerivedNameLists(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)

	assert.Equal(t, []string{"t(0)", "x"}, m.Clocks)
	assert.Equal(t, []string{"n", "m"}, m.Variables)

	// The k-th declared clock's local index equals its list position;
	// same for integer and meta variables.
	clockSeen, varSeen := 0, 0
	for _, cell := range m.Layout {
		switch data := cell.Data.(type) {
		case ClockData:
			assert.Equal(t, clockSeen, data.Index)
			assert.Equal(t, cell.Name, m.Clocks[clockSeen])
			clockSeen++
		case IntegerData:
			assert.Equal(t, varSeen, data.Index)
			assert.Equal(t, cell.Name, m.Variables[varSeen])
			varSeen++
		case MetaData:
			assert.Equal(t, varSeen, data.Index)
			assert.Equal(t, cell.Name, m.Variables[varSeen])
			varSeen++
		}
	}
	assert.Equal(t, m.ClockCount(), clockSeen)
	assert.Equal(t, m.VariableCount(), varSeen)
}

func TestUnknownSection(t *testing.T) {
	_, err := Load(strings.NewReader("foo\n0:clock:0:x\n"))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"layout bad keyword":       "layout\n0:widget:1:x\n",
		"layout missing fields":    "layout\n0:clock\n",
		"layout non-numeric index": "layout\nzero:clock:0:x\n",
		"layout bad flag":          "layout\n0:location:frozen:L0\n",
		"process missing name":     "processes\n0:0\n",
		"instructions no words":    "instructions\n0:\n",
		"instructions no label":    "instructions\nnope\n",
		"expression missing colon": "expressions\n3:1\n",
		"expression bad key":       "expressions\nkey:1:1:x>1\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrMalformedModel)
		})
	}
}

func TestInvalidReferences(t *testing.T) {
	const prefix = `layout
0:clock:0:t(0)
1:location::L0
2:var:0:1:0:0:n

processes
0:0:P

`
	cases := map[string]string{
		"location cell out of range": "locations\n9:0:1\n",
		"location cell not location": "locations\n2:0:1\n",
		"location process range":     "locations\n1:4:1\n",
		"edge process range":         "edges\n3:1:1:0:0:0\n",
		"edge source not a location": "edges\n0:2:1:0:0:0\n",
		"edge target out of range":   "edges\n0:1:9:0:0:0\n",
	}
	for name, section := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(prefix + section))
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestCommentsSkippedBetweenRecords(t *testing.T) {
	const input = `layout
# the reference clock
0:clock:0:t(0)
# a location
1:location::L0

processes
# one process
0:0:P
`
	m, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, m.Layout, 2)
	assert.Len(t, m.Processes, 1)
}

func TestSectionEndsOnIndentedLine(t *testing.T) {
	// A line starting with whitespace ends a section just like an
	// empty line does.
	const input = "layout\n0:clock:0:t(0)\n \nprocesses\n0:0:P\n"
	m, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, m.Layout, 1)
	assert.Len(t, m.Processes, 1)
}
