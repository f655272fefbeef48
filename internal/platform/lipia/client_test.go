package lipia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andikar-ai/wordledger/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{Lipia: config.LipiaConfig{APIBaseURL: srv.URL, PaymentURL: "https://pay.example.com", TimeoutSeconds: 5}}
	return NewHTTPClient(cfg, zap.NewNop().Sugar()), srv
}

func TestHTTPClient_InitiateCheckout_Success(t *testing.T) {
	var gotBody map[string]string
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/request/stk", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "callback received successfully",
			"data": map[string]string{
				"reference":         "REF123",
				"CheckoutRequestID": "ws_CO_123",
			},
		})
	})

	res, err := cli.InitiateCheckout(context.Background(), "254712345678", 1500)
	require.NoError(t, err)
	require.Equal(t, "REF123", res.Reference)
	require.Equal(t, "ws_CO_123", res.CheckoutRequestID)
	// phone is normalized to local form before hitting the aggregator
	require.Equal(t, "0712345678", gotBody["phone"])
	require.Equal(t, "1500", gotBody["amount"])
}

func TestHTTPClient_InitiateCheckout_RejectedByAggregator(t *testing.T) {
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "insufficient funds"})
	})

	_, err := cli.InitiateCheckout(context.Background(), "0712345678", 1500)
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient funds")
}

func TestHTTPClient_InitiateCheckout_MissingReference(t *testing.T) {
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok", "data": map[string]string{}})
	})

	_, err := cli.InitiateCheckout(context.Background(), "0712345678", 2500)
	require.Error(t, err)
}

func TestHTTPClient_PaymentURL(t *testing.T) {
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	require.Equal(t, "https://pay.example.com", cli.PaymentURL())
}

func TestNewClient_FallsBackToNoop(t *testing.T) {
	cli := NewClient(&config.Config{}, zap.NewNop().Sugar())
	res, err := cli.InitiateCheckout(context.Background(), "0712345678", 1500)
	require.NoError(t, err)
	require.NotEmpty(t, res.Reference)
	require.Equal(t, res.Reference, res.CheckoutRequestID)
}
