package trace

import "errors"

var (
	// ErrMalformedState reports a grammar deviation while decoding a
	// symbolic state.
	ErrMalformedState = errors.New("malformed state")

	// ErrMalformedTransition reports a grammar deviation while
	// decoding a transition.
	ErrMalformedTransition = errors.New("malformed transition")
)
