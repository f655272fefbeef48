package models

import (
	"github.com/andikar-ai/wordledger/pkg/types"
	"time"

	"gorm.io/datatypes"
)

// PaymentStatusLog records each payment state transition.
// Use case: troubleshooting.
type PaymentStatusLog struct {
	ID        string `gorm:"column:id;primary_key;type:uuid;index:idx_user_id_id,priority:2,sort:desc"`
	UserID    string `gorm:"column:user_id;type:varchar(64);index:idx_user_id_id,priority:1;not null"`
	PaymentID string `gorm:"column:payment_id;type:uuid;not null;index"`
	// Reason is the change reason.
	Reason     types.PaymentChangeReason `gorm:"column:reason;type:varchar(64);not null"`
	FromStatus types.PaymentStatus       `gorm:"column:from_status;type:varchar(32);not null"`
	ToStatus   types.PaymentStatus       `gorm:"column:to_status;type:varchar(32);not null"`
	// After stores the payment row after the change in JSON format.
	After datatypes.JSONType[*Payment] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the callback trace id.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (PaymentStatusLog) TableName() string {
	return "payment_status_log"
}
