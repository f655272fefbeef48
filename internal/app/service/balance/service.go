package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/logctx"
	"github.com/andikar-ai/wordledger/pkg/tool"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager is the per-user word ledger. Credit and Debit are single atomic
// updates: the insufficient-balance check and the subtraction happen in one
// guarded UPDATE so concurrent consumers can never drive the balance negative.
type Manager interface {
	// GetOrCreate returns the user's balance row, inserting a zeroed one on
	// first access.
	GetOrCreate(ctx context.Context, userID string) (*models.UserWordBalance, error)
	// Credit grants words: remaining += words, purchased += words.
	Credit(ctx context.Context, userID string, words int64) (*models.UserWordBalance, error)
	// CreditTx is Credit running inside an enclosing gorm transaction, used
	// when the grant must commit together with a payment state flip.
	CreditTx(ctx context.Context, tx *gorm.DB, userID string, words int64) error
	// Debit consumes words, failing with *InsufficientBalanceError when
	// remaining < words.
	Debit(ctx context.Context, userID string, words int64) (*models.UserWordBalance, error)
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) Manager {
	return &Service{db: db, log: log}
}

func (s *Service) GetOrCreate(ctx context.Context, userID string) (*models.UserWordBalance, error) {
	return s.getOrCreate(ctx, s.db.WithContext(ctx), userID)
}

func (s *Service) getOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.UserWordBalance, error) {
	var row models.UserWordBalance
	err := tx.Where("user_id = ?", userID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	// Two concurrent first accesses may both reach the insert; the unique
	// index on user_id plus DoNothing keeps exactly one row.
	fresh := &models.UserWordBalance{ID: tool.GenerateUUIDV7(), UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", err)
	}
	if err := tx.Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to reload balance: %w", err)
	}
	return &row, nil
}

func (s *Service) Credit(ctx context.Context, userID string, words int64) (*models.UserWordBalance, error) {
	if err := s.CreditTx(ctx, s.db.WithContext(ctx), userID, words); err != nil {
		return nil, err
	}
	return s.GetOrCreate(ctx, userID)
}

func (s *Service) CreditTx(ctx context.Context, tx *gorm.DB, userID string, words int64) error {
	if words < 0 {
		return fmt.Errorf("negative credit: %d", words)
	}
	if _, err := s.getOrCreate(ctx, tx, userID); err != nil {
		return err
	}

	res := tx.Model(&models.UserWordBalance{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"remaining_words":       gorm.Expr("remaining_words + ?", words),
			"total_words_purchased": gorm.Expr("total_words_purchased + ?", words),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", res.Error)
	}
	logctx.FromCtx(ctx, s.log).Infow("balance credited", "user_id", userID, "words", words)
	return nil
}

func (s *Service) Debit(ctx context.Context, userID string, words int64) (*models.UserWordBalance, error) {
	if words < 0 {
		return nil, fmt.Errorf("negative debit: %d", words)
	}
	row, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The remaining_words >= ? guard makes check and subtraction one atomic
	// statement; a stale read can only cause a harmless zero-row update.
	res := s.db.WithContext(ctx).Model(&models.UserWordBalance{}).
		Where("user_id = ? AND remaining_words >= ?", userID, words).
		Updates(map[string]any{
			"remaining_words":  gorm.Expr("remaining_words - ?", words),
			"total_words_used": gorm.Expr("total_words_used + ?", words),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Re-read for an accurate shortfall in the error body.
		if current, rerr := s.GetOrCreate(ctx, userID); rerr == nil {
			row = current
		}
		return nil, &InsufficientBalanceError{Available: row.RemainingWords, Requested: words}
	}

	logctx.FromCtx(ctx, s.log).Infow("balance debited", "user_id", userID, "words", words)
	return s.GetOrCreate(ctx, userID)
}

var Module = fx.Options(
	fx.Provide(NewService),
)
