package models

import (
	"time"

	"github.com/andikar-ai/wordledger/pkg/types"

	"gorm.io/datatypes"
)

// CallbackRecord is the audit trail of every inbound provider callback,
// whether or not it matched a payment. It is never authoritative for balance
// state; once written it is only updated to link the matched payment.
type CallbackRecord struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TraceID string `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	// Reference and CheckoutRequestID are extracted from the payload as-is.
	Reference         *string `gorm:"column:reference;type:varchar(128)" json:"reference"`
	CheckoutRequestID *string `gorm:"column:checkout_request_id;type:varchar(128)" json:"checkout_request_id"`
	// PaymentID links the matched payment, nil while unmatched.
	PaymentID *string                    `gorm:"column:payment_id;type:uuid;index" json:"payment_id"`
	Processed bool                       `gorm:"column:processed;not null;default:false" json:"processed"`
	Status    types.CallbackRecordStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// Data holds the raw payload for manual investigation of unmatched
	// callbacks.
	Data      datatypes.JSON  `gorm:"column:data;type:jsonb" json:"data"`
	Result    *datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CallbackRecord) TableName() string { return "callback_record" }
