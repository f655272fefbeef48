package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/types"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuditor struct {
	synced []*models.CallbackRecord
	saved  []*models.CallbackRecord
}

func (a *stubAuditor) SaveSync(_ context.Context, rec *models.CallbackRecord) *models.CallbackRecord {
	rec.ID = "cb-1"
	a.synced = append(a.synced, rec)
	return rec
}

func (a *stubAuditor) Save(_ context.Context, rec *models.CallbackRecord) {
	a.saved = append(a.saved, rec)
}

type stubPayments struct {
	byCorrelation     func(reference, checkoutRequestID string) (*models.Payment, error)
	matchingPending   func(phone string, amount int64) (*models.Payment, error)
	markTerminal      func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error)
	markTerminalCalls int
}

func (s *stubPayments) GetPaymentByCorrelation(_ context.Context, reference, checkoutRequestID string) (*models.Payment, error) {
	if s.byCorrelation == nil {
		panic("GetPaymentByCorrelation not expected")
	}
	return s.byCorrelation(reference, checkoutRequestID)
}

func (s *stubPayments) FindMatchingPending(_ context.Context, phone string, amount int64) (*models.Payment, error) {
	if s.matchingPending == nil {
		panic("FindMatchingPending not expected")
	}
	return s.matchingPending(phone, amount)
}

func (s *stubPayments) MarkTerminal(_ context.Context, req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
	s.markTerminalCalls++
	if s.markTerminal == nil {
		panic("MarkTerminal not expected")
	}
	return s.markTerminal(req)
}

func (s *stubPayments) InitiatePurchase(_ context.Context, _ *payment.CreatePaymentRequest) (*payment.InitiatePurchaseResult, error) {
	panic("not used")
}
func (s *stubPayments) CreatePayment(_ context.Context, _ *payment.CreatePaymentRequest) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPayments) AttachProviderReference(_ context.Context, _, _, _ string) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPayments) GetPayment(_ context.Context, _ string) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPayments) ListUserPayments(_ context.Context, _ *payment.ListUserPaymentsRequest) ([]*models.Payment, error) {
	panic("not used")
}
func (s *stubPayments) PendingOlderThan(_ context.Context, _ time.Duration) ([]*models.Payment, error) {
	panic("not used")
}
func (s *stubPayments) CancelStalePayments(_ context.Context, _ time.Duration) (int64, error) {
	panic("not used")
}
func (s *stubPayments) ScanPayments(_ context.Context, _ *payment.ScanPaymentsRequest) (*payment.ScanPaymentsResponse, error) {
	panic("not used")
}

func newTestHandler(p *stubPayments) (*Handler, *stubAuditor) {
	audit := &stubAuditor{}
	return NewHandler(p, audit, zap.NewNop().Sugar()), audit
}

func completedPayment(id string) *models.Payment {
	return &models.Payment{ID: id, UserID: "u1", Status: types.PaymentStatusCompleted, WordsGranted: 60000}
}

func TestHandleCallback_MatchesByReferenceFirst(t *testing.T) {
	payments := &stubPayments{
		byCorrelation: func(reference, checkoutRequestID string) (*models.Payment, error) {
			require.Equal(t, "REF1", reference)
			return &models.Payment{ID: "p1", UserID: "u1", Status: types.PaymentStatusProcessing}, nil
		},
		// matchingPending left nil: reaching the phone+amount fallback while a
		// reference matched would panic the stub.
		markTerminal: func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			require.Equal(t, "p1", req.PaymentID)
			require.Equal(t, types.PaymentOutcomeSuccess, req.Outcome)
			return &payment.MarkTerminalResult{Payment: completedPayment("p1"), Transitioned: true}, nil
		},
	}
	h, audit := newTestHandler(payments)

	// an older pending payment with the same phone+amount exists, but the
	// reference must win
	res, err := h.HandleCallback(context.Background(), []byte(`{"reference":"REF1","phone":"0712345678","amount":2500,"status":"success"}`))
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.True(t, res.Transitioned)
	require.Equal(t, "p1", res.PaymentID)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
	require.Len(t, audit.synced, 1)
	require.Len(t, audit.saved, 1)
	require.Equal(t, types.CallbackRecordStatusProcessed, audit.saved[0].Status)
	require.True(t, audit.saved[0].Processed)
	require.Equal(t, "p1", *audit.saved[0].PaymentID)
}

func TestHandleCallback_FallsBackToPhoneAmount(t *testing.T) {
	payments := &stubPayments{
		matchingPending: func(phone string, amount int64) (*models.Payment, error) {
			require.Equal(t, "0712345678", phone)
			require.EqualValues(t, 1500, amount)
			return &models.Payment{ID: "p2", UserID: "u1", Status: types.PaymentStatusPending}, nil
		},
		markTerminal: func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			require.Equal(t, "p2", req.PaymentID)
			return &payment.MarkTerminalResult{Payment: completedPayment("p2"), Transitioned: true}, nil
		},
	}
	h, _ := newTestHandler(payments)

	res, err := h.HandleCallback(context.Background(), []byte(`{"phone":"0712345678","amount":1500,"status":"success"}`))
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Equal(t, "p2", res.PaymentID)
}

func TestHandleCallback_CorrelationMissThenPhoneAmount(t *testing.T) {
	payments := &stubPayments{
		byCorrelation: func(_, _ string) (*models.Payment, error) {
			return nil, payment.ErrPaymentNotFound
		},
		matchingPending: func(_ string, _ int64) (*models.Payment, error) {
			return &models.Payment{ID: "p3", UserID: "u1", Status: types.PaymentStatusPending}, nil
		},
		markTerminal: func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			return &payment.MarkTerminalResult{Payment: completedPayment("p3"), Transitioned: true}, nil
		},
	}
	h, _ := newTestHandler(payments)

	res, err := h.HandleCallback(context.Background(), []byte(`{"reference":"UNKNOWN","phone":"0712345678","amount":1500,"status":"success"}`))
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Equal(t, "p3", res.PaymentID)
}

func TestHandleCallback_UnmatchedIsNotAnError(t *testing.T) {
	payments := &stubPayments{
		byCorrelation: func(_, _ string) (*models.Payment, error) {
			return nil, payment.ErrPaymentNotFound
		},
	}
	h, audit := newTestHandler(payments)

	res, err := h.HandleCallback(context.Background(), []byte(`{"reference":"UNKNOWN","status":"success"}`))
	require.NoError(t, err)
	require.False(t, res.Matched)
	require.Zero(t, payments.markTerminalCalls)
	// the callback is still on record for manual investigation
	require.Len(t, audit.synced, 1)
	require.Len(t, audit.saved, 1)
	require.Equal(t, types.CallbackRecordStatusUnmatched, audit.saved[0].Status)
	require.False(t, audit.saved[0].Processed)
}

func TestHandleCallback_GarbageBodyIsAckedAndAudited(t *testing.T) {
	h, audit := newTestHandler(&stubPayments{})

	res, err := h.HandleCallback(context.Background(), []byte(`<xml/>`))
	require.NoError(t, err)
	require.False(t, res.Matched)
	require.Len(t, audit.synced, 1)
}

func TestHandleCallback_DuplicateDoesNotRecredit(t *testing.T) {
	payments := &stubPayments{
		byCorrelation: func(_, _ string) (*models.Payment, error) {
			return completedPayment("p1"), nil
		},
		markTerminal: func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			// already terminal: the state machine reports no transition
			return &payment.MarkTerminalResult{Payment: completedPayment("p1"), Transitioned: false}, nil
		},
	}
	h, _ := newTestHandler(payments)

	res, err := h.HandleCallback(context.Background(), []byte(`{"reference":"REF1","status":"success"}`))
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.False(t, res.Transitioned)
	require.Equal(t, types.PaymentStatusCompleted, res.Status)
}

func TestHandleCallback_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	payments := &stubPayments{
		byCorrelation: func(_, _ string) (*models.Payment, error) {
			return &models.Payment{ID: "p1", UserID: "u1", Status: types.PaymentStatusProcessing}, nil
		},
		markTerminal: func(_ *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			return nil, storeErr
		},
	}
	h, audit := newTestHandler(payments)

	_, err := h.HandleCallback(context.Background(), []byte(`{"reference":"REF1","status":"success"}`))
	require.Error(t, err)
	require.True(t, errors.Is(err, storeErr))
	require.Equal(t, types.CallbackRecordStatusHandleFailed, audit.saved[0].Status)
}

func TestHandleCallback_FailureOutcomeMarksFailed(t *testing.T) {
	payments := &stubPayments{
		byCorrelation: func(_, _ string) (*models.Payment, error) {
			return &models.Payment{ID: "p1", UserID: "u1", Status: types.PaymentStatusProcessing}, nil
		},
		markTerminal: func(req *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
			require.Equal(t, types.PaymentOutcomeFailure, req.Outcome)
			require.Equal(t, "insufficient funds", req.ErrorMessage)
			p := &models.Payment{ID: "p1", UserID: "u1", Status: types.PaymentStatusFailed}
			return &payment.MarkTerminalResult{Payment: p, Transitioned: true}, nil
		},
	}
	h, _ := newTestHandler(payments)

	res, err := h.HandleCallback(context.Background(), []byte(`{"reference":"REF1","status":"failed","message":"insufficient funds"}`))
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusFailed, res.Status)
}
