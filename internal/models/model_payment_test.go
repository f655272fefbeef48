package models

import (
	"testing"

	"github.com/andikar-ai/wordledger/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestPayment_Terminal(t *testing.T) {
	var nilPayment *Payment
	require.False(t, nilPayment.Terminal())
	require.False(t, (&Payment{Status: types.PaymentStatusPending}).Terminal())
	require.False(t, (&Payment{Status: types.PaymentStatusProcessing}).Terminal())
	require.False(t, (&Payment{Status: types.PaymentStatusCancelled}).Terminal())
	require.True(t, (&Payment{Status: types.PaymentStatusCompleted}).Terminal())
	require.True(t, (&Payment{Status: types.PaymentStatusFailed}).Terminal())
}
