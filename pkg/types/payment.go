package types

// PaymentStatus is the lifecycle state of a purchase attempt.
// Transitions: pending -> processing -> completed|failed, pending -> cancelled.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// Terminal reports whether no further transitions are permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentOutcome is the result a provider callback resolves a payment to.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailure PaymentOutcome = "failure"
)

// CreditTier maps a fixed KES amount to the word grant it purchases.
type CreditTier struct {
	Amount int64 `json:"amount" mapstructure:"amount"`
	Words  int64 `json:"words" mapstructure:"words"`
}

// CallbackRecordStatus tracks how far an inbound provider callback got.
type CallbackRecordStatus string

const (
	CallbackRecordStatusReceived     CallbackRecordStatus = "received"
	CallbackRecordStatusProcessed    CallbackRecordStatus = "processed"
	CallbackRecordStatusUnmatched    CallbackRecordStatus = "unmatched"
	CallbackRecordStatusHandleFailed CallbackRecordStatus = "handle_failed"
)

// PaymentChangeReason records why a payment row changed state.
type PaymentChangeReason string

const (
	PaymentChangeReasonCheckout  PaymentChangeReason = "checkout"
	PaymentChangeReasonCallback  PaymentChangeReason = "callback"
	PaymentChangeReasonSweep     PaymentChangeReason = "sweep"
	PaymentChangeReasonInitError PaymentChangeReason = "init_error"
)
