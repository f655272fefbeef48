package payment

import "errors"

var (
	// ErrInvalidAmount rejects purchase requests whose amount is not one of
	// the fixed catalog tiers.
	ErrInvalidAmount = errors.New("amount is not a supported pricing tier")
	// ErrPaymentNotFound is returned on any lookup miss.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrCheckoutFailed wraps aggregator-side failures during purchase
	// initiation. The payment row is already marked failed when this
	// surfaces.
	ErrCheckoutFailed = errors.New("checkout initiation failed")
)
