package callbacklog

import (
	"context"

	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/logctx"
	"github.com/andikar-ai/wordledger/pkg/tool"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service persists CallbackRecord audit rows. Audit writes are never fatal:
// a failure is logged and the callback keeps being processed.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// SaveSync persists the record before the caller acks the provider. The
// record is returned with its id assigned; a write failure only logs.
func (s *Service) SaveSync(ctx context.Context, rec *models.CallbackRecord) *models.CallbackRecord {
	if rec == nil {
		return nil
	}
	if rec.ID == "" {
		rec.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to save callback record: %v", err)
	}
	return rec
}

// Save asynchronously persists a callback record update. Nil input is ignored.
func (s *Service) Save(ctx context.Context, rec *models.CallbackRecord) {
	go func() {
		if rec == nil {
			return
		}
		if rec.ID == "" {
			rec.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(rec).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save callback record: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
