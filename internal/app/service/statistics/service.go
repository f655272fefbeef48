package statistics

import (
	"context"
	"fmt"

	"github.com/andikar-ai/wordledger/pkg/types"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statistic types exposed to the admin dashboard.
type StatisticType string

const (
	// Daily purchase counts and gross KES collected
	StatisticTypeDailyPaymentCount StatisticType = "daily_payment_count"
	StatisticTypeDailyGrossAmount  StatisticType = "daily_gross_amount"
	StatisticTypeDailyWordsSold    StatisticType = "daily_words_sold"

	// Ledger-wide totals
	StatisticTypeLedgerTotals StatisticType = "ledger_totals"
)

type LedgerStatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []StatisticType       `json:"data_items"`
}

type LedgerStatisticResponseDataItem struct {
	Date   string `json:"date"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
}

type LedgerStatisticResponse struct {
	DataItems map[StatisticType][]LedgerStatisticResponseDataItem `json:"data_items"`
}

// filtersWhere composes a WHERE clause from the request filters.
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

// GetLedgerStatistics resolves each requested data item. Daily series only
// count completed payments: pending/failed rows never contribute revenue.
func (s *Service) GetLedgerStatistics(ctx context.Context, req *LedgerStatisticRequest) (*LedgerStatisticResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	items := req.DataItems
	if len(items) == 0 {
		items = []StatisticType{
			StatisticTypeDailyPaymentCount,
			StatisticTypeDailyGrossAmount,
			StatisticTypeDailyWordsSold,
			StatisticTypeLedgerTotals,
		}
	}

	res := &LedgerStatisticResponse{DataItems: map[StatisticType][]LedgerStatisticResponseDataItem{}}
	for _, item := range items {
		var (
			rows []LedgerStatisticResponseDataItem
			err  error
		)
		switch item {
		case StatisticTypeDailyPaymentCount:
			rows, err = s.getDailyPaymentSeries(ctx, req, "count(*) as value")
		case StatisticTypeDailyGrossAmount:
			rows, err = s.getDailyPaymentSeries(ctx, req, "sum(amount) as value")
		case StatisticTypeDailyWordsSold:
			rows, err = s.getDailyPaymentSeries(ctx, req, "sum(words_granted) as value")
		case StatisticTypeLedgerTotals:
			rows, err = s.getLedgerTotals(ctx)
		default:
			err = fmt.Errorf("unsupported statistic type: %s", item)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", item, err)
		}
		res.DataItems[item] = rows
	}
	return res, nil
}

func (s *Service) getDailyPaymentSeries(ctx context.Context, req *LedgerStatisticRequest, valueExpr string) ([]LedgerStatisticResponseDataItem, error) {
	var results []LedgerStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment").
		Select("TO_CHAR(payment_date, 'YYYY-MM-DD') as date, "+valueExpr).
		Where("status = ?", types.PaymentStatusCompleted).
		Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: req.Filters}}}).
		Group("TO_CHAR(payment_date, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// getLedgerTotals returns one row per counter across the whole balance table.
func (s *Service) getLedgerTotals(ctx context.Context) ([]LedgerStatisticResponseDataItem, error) {
	type totals struct {
		Purchased int64
		Used      int64
		Remaining int64
		Users     int64
	}
	var t totals
	err := s.db.WithContext(ctx).Table("user_word_balance").
		Select("coalesce(sum(total_words_purchased),0) as purchased, coalesce(sum(total_words_used),0) as used, coalesce(sum(remaining_words),0) as remaining, count(*) as users").
		Find(&t).Error
	if err != nil {
		return nil, err
	}
	return []LedgerStatisticResponseDataItem{
		{Label: "words_purchased", Value: t.Purchased},
		{Label: "words_used", Value: t.Used},
		{Label: "words_remaining", Value: t.Remaining},
		{Label: "users_with_balance", Value: t.Users},
	}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
