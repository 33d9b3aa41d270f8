package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionErrorMatchesSentinel(t *testing.T) {
	err := &TransitionError{SerialNumber: "SN-1", Current: "new_sale", Attempted: "sale", Reason: "This router is already sold."}

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrRouterNotFound))
	assert.Equal(t, "This router is already sold.", err.Error())
}

func TestTransitionErrorFallbackMessage(t *testing.T) {
	err := &TransitionError{SerialNumber: "SN-1", Current: "collected", Attempted: "sale"}
	assert.Equal(t, "router SN-1 cannot go from collected to sale", err.Error())
}

func TestTransitionErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := &TransitionError{SerialNumber: "SN-1"}
	wrapped := errors.Join(errors.New("apply action"), inner)

	var terr *TransitionError
	assert.True(t, errors.As(wrapped, &terr))
	assert.True(t, errors.Is(wrapped, ErrInvalidTransition))
}
