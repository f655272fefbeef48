package payment

import (
	"context"
	"time"

	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/types"
)

type CreatePaymentRequest struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Amount int64  `json:"amount"`
}

// InitiatePurchaseResult is what a caller gets back after the aggregator has
// been asked for an STK push.
type InitiatePurchaseResult struct {
	PaymentID         string `json:"payment_id"`
	Reference         string `json:"reference,omitempty"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
	WordsGranted      int64  `json:"words_granted"`
	PaymentURL        string `json:"payment_url,omitempty"`
}

// MarkTerminalRequest resolves a payment to completed or failed. Exactly one
// of PaymentID, Reference or CheckoutRequestID must identify the payment.
type MarkTerminalRequest struct {
	PaymentID         string
	Reference         string
	CheckoutRequestID string
	Outcome           types.PaymentOutcome
	ErrorMessage      string
	// Reason tags the status log entry (callback, sweep, ...).
	Reason types.PaymentChangeReason
}

// MarkTerminalResult reports whether this call performed the transition.
// Transitioned is false when the payment was already terminal; the balance is
// credited only by the call that transitioned.
type MarkTerminalResult struct {
	Payment      *models.Payment
	Transitioned bool
}

type ListUserPaymentsRequest struct {
	UserID string
	From   int
	Size   int
}

// Scan request/response for the admin listing pages.
type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// Manager is the payment state machine: it creates intents, walks them
// through pending -> processing -> completed|failed exactly once, and exposes
// the lookups the reconciler's matching chain needs.
type Manager interface {
	// InitiatePurchase creates a pending payment, asks the aggregator for a
	// checkout, and attaches the returned correlation ids.
	InitiatePurchase(ctx context.Context, req *CreatePaymentRequest) (*InitiatePurchaseResult, error)
	// CreatePayment inserts a pending payment with its word grant fixed from
	// the catalog. Rejects non-tier amounts with ErrInvalidAmount.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error)
	// AttachProviderReference stores correlation ids and moves
	// pending -> processing. A terminal payment is returned unchanged.
	AttachProviderReference(ctx context.Context, paymentID, reference, checkoutRequestID string) (*models.Payment, error)
	// MarkTerminal is the only path into completed/failed. Idempotent: a
	// payment that is already terminal is returned as-is with no side
	// effects, which is what prevents double-crediting on duplicate
	// callbacks.
	MarkTerminal(ctx context.Context, req *MarkTerminalRequest) (*MarkTerminalResult, error)

	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// GetPaymentByCorrelation looks up by reference first, then by checkout
	// request id.
	GetPaymentByCorrelation(ctx context.Context, reference, checkoutRequestID string) (*models.Payment, error)
	// FindMatchingPending returns the most recently created pending payment
	// with this exact phone and amount, or ErrPaymentNotFound.
	FindMatchingPending(ctx context.Context, phone string, amount int64) (*models.Payment, error)
	ListUserPayments(ctx context.Context, req *ListUserPaymentsRequest) ([]*models.Payment, error)

	// PendingOlderThan lists pending payments created more than age ago,
	// feeding the reconciliation sweep.
	PendingOlderThan(ctx context.Context, age time.Duration) ([]*models.Payment, error)
	// CancelStalePayments moves stale pending payments to cancelled and
	// returns how many rows moved.
	CancelStalePayments(ctx context.Context, age time.Duration) (int64, error)

	// ScanPayments implements paginated/admin listing with filters.
	ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error)
}
