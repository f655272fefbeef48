package balance

import "fmt"

// InsufficientBalanceError is returned when a debit asks for more words than
// the user has left. Available/Requested are surfaced to the client so it can
// show the shortfall.
type InsufficientBalanceError struct {
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient word balance: available %d, requested %d", e.Available, e.Requested)
}
