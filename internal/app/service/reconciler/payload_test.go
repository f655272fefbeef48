package reconciler

import (
	"testing"

	"github.com/andikar-ai/wordledger/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestParsePayload_CanonicalShape(t *testing.T) {
	p := ParsePayload([]byte(`{"reference":"REF1","checkout_request_id":"CHK1","phone":"0712345678","amount":2500,"status":"success"}`))
	require.Equal(t, "REF1", p.Reference)
	require.Equal(t, "CHK1", p.CheckoutRequestID)
	require.Equal(t, "0712345678", p.Phone)
	require.True(t, p.HasAmount)
	require.EqualValues(t, 2500, p.Amount)
	require.Equal(t, types.PaymentOutcomeSuccess, p.Outcome())
}

func TestParsePayload_ProviderCasingAndStringAmount(t *testing.T) {
	p := ParsePayload([]byte(`{"Reference":"REF2","CheckoutRequestID":"ws_CO_9","Amount":"1500","Status":"Completed"}`))
	require.Equal(t, "REF2", p.Reference)
	require.Equal(t, "ws_CO_9", p.CheckoutRequestID)
	require.True(t, p.HasAmount)
	require.EqualValues(t, 1500, p.Amount)
	require.Equal(t, types.PaymentOutcomeSuccess, p.Outcome())
}

func TestParsePayload_ResultCode(t *testing.T) {
	ok := ParsePayload([]byte(`{"ResultCode":0,"CheckoutRequestID":"ws_CO_1"}`))
	require.Equal(t, types.PaymentOutcomeSuccess, ok.Outcome())

	declined := ParsePayload([]byte(`{"ResultCode":1032,"CheckoutRequestID":"ws_CO_1"}`))
	require.Equal(t, types.PaymentOutcomeFailure, declined.Outcome())
}

func TestParsePayload_FailureStatuses(t *testing.T) {
	for _, status := range []string{"failed", "cancelled", "error", ""} {
		p := ParsePayload([]byte(`{"reference":"R","status":"` + status + `"}`))
		require.Equal(t, types.PaymentOutcomeFailure, p.Outcome(), "status %q", status)
	}
}

func TestParsePayload_Garbage(t *testing.T) {
	p := ParsePayload([]byte(`not json at all`))
	require.False(t, p.HasCorrelation())
	require.False(t, p.HasAmount)
	require.Equal(t, types.PaymentOutcomeFailure, p.Outcome())
}

func TestParsePayload_MissingAmountIsNotZeroAmount(t *testing.T) {
	p := ParsePayload([]byte(`{"phone":"0712345678"}`))
	require.False(t, p.HasAmount)
}
