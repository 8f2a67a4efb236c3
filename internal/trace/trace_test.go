package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One initial state, two steps, trace terminator. States carry one
// location and one variable; the bound list stays empty.
const testTrace = `0
.
.
0
.
1
.
.
1
.
0 0;
.
0
.
.
2
.
0 1;
.
.
`

func TestDecodeTrace(t *testing.T) {
	m := loadTestModel(t)

	tr, err := NewDecoder(m, strings.NewReader(testTrace)).Trace()
	require.NoError(t, err)

	assert.Equal(t, []int{0}, tr.Initial.Locations)
	assert.Equal(t, []int{0}, tr.Initial.Variables)

	require.Len(t, tr.Steps, 2)

	// The state and transition of one on-disk iteration belong to the
	// same step: the transition produced that state.
	assert.Equal(t, []int{1}, tr.Steps[0].State.Locations)
	assert.Equal(t, []int{1}, tr.Steps[0].State.Variables)
	require.Len(t, tr.Steps[0].Transition.Edges, 1)
	assert.Equal(t, 0, tr.Steps[0].Transition.Edges[0].Edge)

	assert.Equal(t, []int{0}, tr.Steps[1].State.Locations)
	assert.Equal(t, []int{2}, tr.Steps[1].State.Variables)
	require.Len(t, tr.Steps[1].Transition.Edges, 1)
	assert.Equal(t, 1, tr.Steps[1].Transition.Edges[0].Edge)
}

func TestDecodeTraceInitialOnly(t *testing.T) {
	m := loadTestModel(t)

	tr, err := NewDecoder(m, strings.NewReader("0\n.\n.\n0\n.\n.\n")).Trace()
	require.NoError(t, err)
	assert.Empty(t, tr.Steps)
	assert.Equal(t, []int{0}, tr.Initial.Locations)
}

func TestDecodeTraceErrors(t *testing.T) {
	m := loadTestModel(t)

	t.Run("missing terminator", func(t *testing.T) {
		_, err := NewDecoder(m, strings.NewReader("0\n.\n.\n0\n.\n")).Trace()
		assert.ErrorIs(t, err, ErrMalformedState)
	})

	t.Run("codec failure aborts whole decode", func(t *testing.T) {
		// Valid initial state, then a broken second state.
		_, err := NewDecoder(m, strings.NewReader("0\n.\n.\n0\n.\nboom\n")).Trace()
		assert.ErrorIs(t, err, ErrMalformedState)
	})

	t.Run("broken transition", func(t *testing.T) {
		const in = "0\n.\n.\n0\n.\n1\n.\n.\n1\n.\n0 0 x;\n.\n.\n"
		_, err := NewDecoder(m, strings.NewReader(in)).Trace()
		assert.ErrorIs(t, err, ErrMalformedTransition)
	})
}
