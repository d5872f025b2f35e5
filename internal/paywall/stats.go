package paywall

import (
	"fmt"

	"paywall-go/internal/model"
)

// recordSubscription bumps the subscriber counter for a tier. Internal only:
// analytics mutations are driven by the lifecycle operations, never by
// callers directly.
func recordSubscription(st *model.StatsLedger, tier model.Tier) {
	switch tier {
	case model.TierFree:
		st.FreeSubscribers++
	case model.TierBasic:
		st.BasicSubscribers++
	case model.TierPremium:
		st.PremiumSubscribers++
	}
}

// recordRevenue accumulates owner proceeds (payment net of platform fee).
func recordRevenue(st *model.StatsLedger, amount uint64) {
	st.TotalRevenue += amount
}

// Stats returns a publication's private counters and per-article view
// counts. The capability must be bound to the stats ledger itself — a
// mismatched capability fails closed with no partial data.
func (s *Service) Stats(cap *model.OwnerCap, publicationID string) (*model.StatsLedger, map[string]int64, error) {
	stats, err := s.ledger.GetStats(publicationID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading stats: %w", err)
	}
	if stats == nil {
		return nil, nil, errMismatch(CodeNotFound, "stats ledger not found for publication %s", publicationID)
	}
	if err := requireCap(cap, stats.ID); err != nil {
		return nil, nil, err
	}

	views, err := s.ledger.GetArticleViews(publicationID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading article views: %w", err)
	}
	return stats, views, nil
}
