package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andikar-ai/wordledger/internal/app/service/callbacklog"
	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/logctx"
	"github.com/andikar-ai/wordledger/pkg/metrics"
	"github.com/andikar-ai/wordledger/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Result summarizes what a callback did. Unmatched is a valid outcome, not an
// error: the provider must be acked either way.
type Result struct {
	Matched      bool                `json:"matched"`
	PaymentID    string              `json:"payment_id,omitempty"`
	Status       types.PaymentStatus `json:"status,omitempty"`
	Transitioned bool                `json:"transitioned"`
}

// Handler reconciles inbound provider callbacks against pending payments.
//
// The matching chain, first hit wins: exact reference, exact checkout request
// id, then the most recently created pending payment with the payload's
// phone+amount. The last step is a known weak point — it is ambiguous when a
// user has two pending payments for the same amount — and exists only for
// providers that omit correlation ids.
type Handler struct {
	payments payment.Manager
	audit    Auditor
	Logger   *zap.SugaredLogger
}

// Auditor persists CallbackRecord rows. Satisfied by callbacklog.Service.
type Auditor interface {
	SaveSync(ctx context.Context, rec *models.CallbackRecord) *models.CallbackRecord
	Save(ctx context.Context, rec *models.CallbackRecord)
}

func NewHandler(payments payment.Manager, audit Auditor, log *zap.SugaredLogger) *Handler {
	return &Handler{payments: payments, audit: audit, Logger: log}
}

// HandleCallback processes one raw callback body. The returned error is
// reserved for store-level failures while moving money state; everything else
// (unparseable body, no match) resolves successfully so the provider stops
// retrying.
func (h *Handler) HandleCallback(ctx context.Context, raw []byte) (*Result, error) {
	p := ParsePayload(raw)

	var traceID string
	if v, ok := ctx.Value("traceID").(string); ok {
		traceID = v
	}

	// Audit first, so even permanently unmatchable callbacks leave a trail.
	// A failed audit write logs and moves on.
	rec := h.audit.SaveSync(ctx, &models.CallbackRecord{
		TraceID:           traceID,
		Reference:         nilIfEmpty(p.Reference),
		CheckoutRequestID: nilIfEmpty(p.CheckoutRequestID),
		Status:            types.CallbackRecordStatusReceived,
		Data:              datatypes.JSON(p.Raw),
	})

	matched, err := h.match(ctx, p)
	if err != nil {
		h.finishRecord(ctx, rec, types.CallbackRecordStatusHandleFailed, nil, err)
		return nil, err
	}
	if matched == nil {
		logctx.FromCtx(ctx, h.Logger).Warnw("callback matched no payment",
			"reference", p.Reference, "checkout_request_id", p.CheckoutRequestID, "has_amount", p.HasAmount)
		metrics.CallbacksUnmatched.Inc()
		h.finishRecord(ctx, rec, types.CallbackRecordStatusUnmatched, nil, nil)
		return &Result{Matched: false}, nil
	}

	res, err := h.payments.MarkTerminal(ctx, &payment.MarkTerminalRequest{
		PaymentID:    matched.ID,
		Outcome:      p.Outcome(),
		ErrorMessage: p.Message,
		Reason:       types.PaymentChangeReasonCallback,
	})
	if err != nil {
		// Store failure mid-transition must surface so the provider retries.
		h.finishRecord(ctx, rec, types.CallbackRecordStatusHandleFailed, matched, err)
		return nil, fmt.Errorf("failed to resolve payment %s: %w", matched.ID, err)
	}

	h.finishRecord(ctx, rec, types.CallbackRecordStatusProcessed, res.Payment, nil)
	return &Result{
		Matched:      true,
		PaymentID:    res.Payment.ID,
		Status:       res.Payment.Status,
		Transitioned: res.Transitioned,
	}, nil
}

func (h *Handler) match(ctx context.Context, p *Payload) (*models.Payment, error) {
	if p.HasCorrelation() {
		row, err := h.payments.GetPaymentByCorrelation(ctx, p.Reference, p.CheckoutRequestID)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, err
		}
	}
	if p.Phone != "" && p.HasAmount {
		row, err := h.payments.FindMatchingPending(ctx, p.Phone, p.Amount)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (h *Handler) finishRecord(ctx context.Context, rec *models.CallbackRecord, status types.CallbackRecordStatus, matched *models.Payment, handleErr error) {
	if rec == nil {
		return
	}
	rec.Status = status
	rec.Processed = status == types.CallbackRecordStatusProcessed
	if matched != nil {
		rec.PaymentID = lo.ToPtr(matched.ID)
	}
	resMap := map[string]any{"payment": matched}
	if handleErr != nil {
		resMap["error"] = handleErr.Error()
	}
	resBytes, _ := json.Marshal(resMap)
	rec.Result = func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }()
	h.audit.Save(ctx, rec)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return lo.ToPtr(s)
}

var Module = fx.Options(
	fx.Provide(func(payments payment.Manager, audit *callbacklog.Service, log *zap.SugaredLogger) *Handler {
		return NewHandler(payments, audit, log)
	}),
)
