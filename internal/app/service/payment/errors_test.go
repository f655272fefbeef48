package payment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreWrapFriendly(t *testing.T) {
	require.True(t, errors.Is(fmt.Errorf("create: %w", ErrInvalidAmount), ErrInvalidAmount))
	require.True(t, errors.Is(fmt.Errorf("lookup: %w", ErrPaymentNotFound), ErrPaymentNotFound))
	require.True(t, errors.Is(fmt.Errorf("%w: timeout", ErrCheckoutFailed), ErrCheckoutFailed))
}
