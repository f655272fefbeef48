package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andikar-ai/wordledger/internal/app/service/balance"
	"github.com/andikar-ai/wordledger/internal/app/service/catalog"
	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/internal/platform/lipia"
	"github.com/andikar-ai/wordledger/pkg/logctx"
	"github.com/andikar-ai/wordledger/pkg/metrics"
	"github.com/andikar-ai/wordledger/pkg/tool"
	"github.com/andikar-ai/wordledger/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var terminalStatuses = []types.PaymentStatus{
	types.PaymentStatusCompleted,
	types.PaymentStatusFailed,
}

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	catalog *catalog.Service
	balance balance.Manager
	lipia   lipia.Client
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cat *catalog.Service, bal balance.Manager, cli lipia.Client) Manager {
	return &Service{db: db, log: log, catalog: cat, balance: bal, lipia: cli}
}

func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error) {
	if req == nil || req.UserID == "" || req.Phone == "" {
		return nil, fmt.Errorf("user_id and phone are required")
	}
	if !s.catalog.ValidAmount(req.Amount) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, req.Amount)
	}

	row := &models.Payment{
		ID:           tool.GenerateUUIDV7(),
		UserID:       req.UserID,
		Phone:        lipia.NormalizePhone(req.Phone),
		Amount:       req.Amount,
		WordsGranted: s.catalog.WordsForAmount(req.Amount),
		Status:       types.PaymentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("payment created",
		"payment_id", row.ID, "user_id", row.UserID, "amount", row.Amount, "words", row.WordsGranted)
	return row, nil
}

func (s *Service) InitiatePurchase(ctx context.Context, req *CreatePaymentRequest) (*InitiatePurchaseResult, error) {
	row, err := s.CreatePayment(ctx, req)
	if err != nil {
		return nil, err
	}

	checkout, err := s.lipia.InitiateCheckout(ctx, row.Phone, row.Amount)
	if err != nil {
		// The intent stays on record as failed so support can see the
		// aggregator rejection.
		if _, mErr := s.MarkTerminal(ctx, &MarkTerminalRequest{
			PaymentID:    row.ID,
			Outcome:      types.PaymentOutcomeFailure,
			ErrorMessage: err.Error(),
			Reason:       types.PaymentChangeReasonInitError,
		}); mErr != nil {
			logctx.FromCtx(ctx, s.log).Errorw("failed to record checkout failure", "payment_id", row.ID, "error", mErr.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrCheckoutFailed, err.Error())
	}

	updated, err := s.AttachProviderReference(ctx, row.ID, checkout.Reference, checkout.CheckoutRequestID)
	if err != nil {
		return nil, err
	}

	return &InitiatePurchaseResult{
		PaymentID:         updated.ID,
		Reference:         lo.FromPtr(updated.Reference),
		CheckoutRequestID: lo.FromPtr(updated.CheckoutRequestID),
		WordsGranted:      updated.WordsGranted,
		PaymentURL:        s.lipia.PaymentURL(),
	}, nil
}

func (s *Service) AttachProviderReference(ctx context.Context, paymentID, reference, checkoutRequestID string) (*models.Payment, error) {
	row, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if row.Terminal() {
		// Late attach after a terminal transition changes nothing.
		return row, nil
	}

	updates := map[string]any{"status": types.PaymentStatusProcessing}
	if reference != "" {
		updates["reference"] = reference
	}
	if checkoutRequestID != "" {
		updates["checkout_request_id"] = checkoutRequestID
	}

	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status NOT IN ?", paymentID, terminalStatuses).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to attach provider reference: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.logStatusChange(ctx, s.db.WithContext(ctx), row, types.PaymentStatusProcessing, types.PaymentChangeReasonCheckout)
	}
	return s.GetPayment(ctx, paymentID)
}

func (s *Service) MarkTerminal(ctx context.Context, req *MarkTerminalRequest) (*MarkTerminalResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	target := types.PaymentStatusFailed
	if req.Outcome == types.PaymentOutcomeSuccess {
		target = types.PaymentStatusCompleted
	}

	result := &MarkTerminalResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.findForTerminal(ctx, tx, req)
		if err != nil {
			return err
		}
		if row.Terminal() {
			result.Payment = row
			return nil
		}

		updates := map[string]any{"status": target}
		if req.ErrorMessage != "" && target == types.PaymentStatusFailed {
			updates["error_message"] = req.ErrorMessage
		}
		if target == types.PaymentStatusCompleted {
			updates["payment_date"] = time.Now()
		}

		// The NOT IN guard is what makes duplicate callbacks safe: two
		// near-simultaneous calls cannot both see RowsAffected == 1.
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status NOT IN ?", row.ID, terminalStatuses).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update payment status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			reloaded, err := s.getPaymentTx(tx, row.ID)
			if err != nil {
				return err
			}
			result.Payment = reloaded
			return nil
		}

		if target == types.PaymentStatusCompleted {
			if err := s.balance.CreditTx(ctx, tx, row.UserID, row.WordsGranted); err != nil {
				return fmt.Errorf("failed to credit balance: %w", err)
			}
		}

		reloaded, err := s.getPaymentTx(tx, row.ID)
		if err != nil {
			return err
		}
		s.logStatusChange(ctx, tx, row, target, req.Reason)
		result.Payment = reloaded
		result.Transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Transitioned {
		metrics.PaymentsTerminal.WithLabelValues(string(req.Outcome)).Inc()
		if target == types.PaymentStatusCompleted {
			metrics.WordsCredited.Add(float64(result.Payment.WordsGranted))
		}
		logctx.FromCtx(ctx, s.log).Infow("payment resolved",
			"payment_id", result.Payment.ID, "status", target, "words", result.Payment.WordsGranted)
	}
	return result, nil
}

func (s *Service) findForTerminal(ctx context.Context, tx *gorm.DB, req *MarkTerminalRequest) (*models.Payment, error) {
	if req.PaymentID != "" {
		return s.getPaymentTx(tx, req.PaymentID)
	}
	var row models.Payment
	if req.Reference != "" {
		err := tx.Where("reference = ?", req.Reference).First(&row).Error
		if err == nil {
			return &row, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find payment by reference: %w", err)
		}
	}
	if req.CheckoutRequestID != "" {
		err := tx.Where("checkout_request_id = ?", req.CheckoutRequestID).First(&row).Error
		if err == nil {
			return &row, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find payment by checkout id: %w", err)
		}
	}
	return nil, ErrPaymentNotFound
}

func (s *Service) getPaymentTx(tx *gorm.DB, id string) (*models.Payment, error) {
	var row models.Payment
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &row, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return s.getPaymentTx(s.db.WithContext(ctx), id)
}

func (s *Service) GetPaymentByCorrelation(ctx context.Context, reference, checkoutRequestID string) (*models.Payment, error) {
	return s.findForTerminal(ctx, s.db.WithContext(ctx), &MarkTerminalRequest{
		Reference:         reference,
		CheckoutRequestID: checkoutRequestID,
	})
}

func (s *Service) FindMatchingPending(ctx context.Context, phone string, amount int64) (*models.Payment, error) {
	var row models.Payment
	err := s.db.WithContext(ctx).
		Where("phone = ? AND amount = ? AND status = ?", lipia.NormalizePhone(phone), amount, types.PaymentStatusPending).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find pending payment: %w", err)
	}
	return &row, nil
}

func (s *Service) ListUserPayments(ctx context.Context, req *ListUserPaymentsRequest) ([]*models.Payment, error) {
	if req == nil || req.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	size := req.Size
	if size <= 0 {
		size = 100
	}

	var rows []*models.Payment
	q := s.db.WithContext(ctx).
		Where("user_id = ?", req.UserID).
		Order("created_at DESC").
		Limit(size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return rows, nil
}

func (s *Service) PendingOlderThan(ctx context.Context, age time.Duration) ([]*models.Payment, error) {
	var rows []*models.Payment
	cutoff := time.Now().Add(-age)
	if err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", types.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale payments: %w", err)
	}
	return rows, nil
}

func (s *Service) CancelStalePayments(ctx context.Context, age time.Duration) (int64, error) {
	stale, err := s.PendingOlderThan(ctx, age)
	if err != nil {
		return 0, err
	}

	var cancelled int64
	for _, row := range stale {
		res := s.db.WithContext(ctx).Model(&models.Payment{}).
			Where("id = ? AND status = ?", row.ID, types.PaymentStatusPending).
			Update("status", types.PaymentStatusCancelled)
		if res.Error != nil {
			return cancelled, fmt.Errorf("failed to cancel payment %s: %w", row.ID, res.Error)
		}
		if res.RowsAffected > 0 {
			cancelled++
			s.logStatusChange(ctx, s.db.WithContext(ctx), row, types.PaymentStatusCancelled, types.PaymentChangeReasonSweep)
		}
	}

	if cancelled > 0 {
		logctx.FromCtx(ctx, s.log).Infow("stale payments cancelled", "count", cancelled, "older_than", age.String())
	}
	return cancelled, nil
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated/admin listing with filters
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []*models.Payment

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}

// logStatusChange writes the audit row. Failures only log; the transition
// itself is already committed or committing.
func (s *Service) logStatusChange(ctx context.Context, tx *gorm.DB, before *models.Payment, to types.PaymentStatus, reason types.PaymentChangeReason) {
	after := *before
	after.Status = to
	entry := &models.PaymentStatusLog{
		ID:         tool.GenerateUUIDV7(),
		UserID:     before.UserID,
		PaymentID:  before.ID,
		Reason:     reason,
		FromStatus: before.Status,
		ToStatus:   to,
		After:      datatypes.NewJSONType(&after),
	}
	if err := tx.Create(entry).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to write payment status log", "payment_id", before.ID, "error", err.Error())
	}
}
