package models

import (
	"github.com/andikar-ai/wordledger/pkg/types"
	"time"
)

// Payment is one purchase attempt (a payment intent). A row is created before
// the aggregator is contacted and keeps its identity across every later
// callback, so the provider correlation ids are nullable until checkout
// succeeds.
type Payment struct {
	ID     string `gorm:"column:id;primary_key;type:uuid;index:idx_user_id_id,priority:2,sort:desc" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_id_id,priority:1" json:"user_id"`
	// Phone is the payer's number in local 0XXXXXXXXX form. Only used for
	// last-resort callback matching.
	Phone  string `gorm:"column:phone;type:varchar(32);not null;index:idx_phone_amount_status,priority:1" json:"phone"`
	Amount int64  `gorm:"column:amount;type:bigint;not null;index:idx_phone_amount_status,priority:2" json:"amount"`
	// WordsGranted is fixed at creation from the tier catalog and never
	// recomputed afterwards.
	WordsGranted int64               `gorm:"column:words_granted;type:bigint;not null" json:"words_granted"`
	Status       types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index:idx_phone_amount_status,priority:3" json:"status"`
	// Reference is the aggregator-assigned correlation id.
	Reference *string `gorm:"column:reference;type:varchar(128);index" json:"reference"`
	// CheckoutRequestID is the alternate correlation id from the STK push.
	CheckoutRequestID *string `gorm:"column:checkout_request_id;type:varchar(128);index" json:"checkout_request_id"`
	ErrorMessage      *string `gorm:"column:error_message;type:text" json:"error_message"`
	// PaymentDate is set exactly once, on the transition into completed.
	PaymentDate *time.Time `gorm:"column:payment_date;default:null" json:"payment_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payment"
}

func (p *Payment) Terminal() bool {
	return p != nil && p.Status.Terminal()
}
