package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger counters, exposed on the same listener as the HTTP metrics.
var (
	PaymentsTerminal = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "ledger",
		Name:      "payments_terminal_total",
		Help:      "Payments resolved to a terminal state, by outcome.",
	}, []string{"outcome"})

	WordsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "ledger",
		Name:      "words_credited_total",
		Help:      "Words granted to user balances by completed payments.",
	})

	WordsDebited = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "ledger",
		Name:      "words_debited_total",
		Help:      "Words consumed from user balances.",
	})

	CallbacksUnmatched = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "ledger",
		Name:      "callbacks_unmatched_total",
		Help:      "Provider callbacks that matched no payment.",
	})
)
