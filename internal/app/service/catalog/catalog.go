package catalog

import (
	"sort"

	"github.com/andikar-ai/wordledger/pkg/config"
	"github.com/andikar-ai/wordledger/pkg/types"

	"go.uber.org/fx"
)

// Service is the static amount -> word-grant catalog. Tiers come from config
// and never change at runtime.
type Service struct {
	tiers []*types.CreditTier
}

func New(cfg *config.Config) *Service {
	tiers := make([]*types.CreditTier, len(cfg.CreditTiers))
	copy(tiers, cfg.CreditTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Amount < tiers[j].Amount })
	return &Service{tiers: tiers}
}

// ValidAmount reports whether amount is exactly one of the fixed tiers.
// Purchase creation is strict: anything else is rejected upstream.
func (s *Service) ValidAmount(amount int64) bool {
	for _, tier := range s.tiers {
		if tier.Amount == amount {
			return true
		}
	}
	return false
}

// WordsForAmount returns the grant for amount. Exact tiers win; a
// non-standard amount falls back to the nearest lower-or-equal tier, and
// anything below the smallest tier grants 0 words. The fallback is deliberate:
// historical rows may carry free-form amounts that still need a grant at
// completion time.
func (s *Service) WordsForAmount(amount int64) int64 {
	var words int64
	for _, tier := range s.tiers {
		if tier.Amount > amount {
			break
		}
		words = tier.Words
	}
	return words
}

// Tiers returns the catalog in ascending amount order.
func (s *Service) Tiers() []*types.CreditTier {
	out := make([]*types.CreditTier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

var Module = fx.Options(
	fx.Provide(New),
)
