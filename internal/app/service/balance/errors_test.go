package balance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsufficientBalanceError_Message(t *testing.T) {
	err := &InsufficientBalanceError{Available: 60000, Requested: 70000}
	require.Contains(t, err.Error(), "available 60000")
	require.Contains(t, err.Error(), "requested 70000")
}

func TestInsufficientBalanceError_IsWrapFriendly(t *testing.T) {
	inner := &InsufficientBalanceError{Available: 1, Requested: 2}
	wrapped := fmt.Errorf("debit failed: %w", inner)

	var target *InsufficientBalanceError
	require.True(t, errors.As(wrapped, &target))
	require.EqualValues(t, 1, target.Available)
	require.EqualValues(t, 2, target.Requested)
}
