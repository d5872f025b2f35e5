package paywall

import (
	"fmt"
	"time"

	"paywall-go/internal/model"
)

// Subscribe mints a subscription pass for a publication tier.
//
// Free tier: the publication's free tier must be enabled and the payment must
// be exactly zero. Paid tiers: the payment must cover the publication's
// current price for the tier; the platform fee is extracted into the
// treasury and the remainder is forwarded to the publication owner.
func (s *Service) Subscribe(publicationID string, tier model.Tier, payment uint64, subscriber model.Identity) (*model.SubscriptionPass, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}
	if !tier.Known() {
		return nil, errValidation(CodeUnknownTier, "unknown tier %q", tier)
	}

	st, err := s.settleTierPayment(pub, tier, payment)
	if err != nil {
		return nil, err
	}

	stats, err := s.ledger.GetStats(pub.ID)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	recordSubscription(stats, tier)
	if st != nil {
		recordRevenue(stats, st.Amount)
	}

	now := s.clock.Now()
	pass := &model.SubscriptionPass{
		ID:            s.idgen.New(),
		PublicationID: pub.ID,
		Tier:          tier,
		Owner:         subscriber,
		Subscriber:    subscriber,
		SubscribedAt:  now,
		ExpiresAt:     now.Add(SubscriptionPeriod),
	}

	ev := s.newEvent(EventPassSubscribed, subscriber, pass.ID, payment, "tier="+string(tier))
	if err := s.ledger.CreatePass(pass, stats, st, ev); err != nil {
		return nil, fmt.Errorf("creating pass: %w", err)
	}

	s.logger.Info("subscribed", "pass", pass.ID, "publication", pub.ID, "tier", tier, "payment", payment)
	return pass, nil
}

// Renew extends a pass by one subscription period. The price is late-bound:
// the payment must cover the publication's *current* price for the pass's
// tier, not the price paid at the original subscription. A valid pass is
// extended from its existing expiry so no value is lost to early renewal; a
// lapsed pass gets a fresh window from now.
func (s *Service) Renew(passID, publicationID string, payment uint64) (*model.SubscriptionPass, error) {
	pass, err := s.Pass(passID)
	if err != nil {
		return nil, err
	}
	if pass.PublicationID != publicationID {
		return nil, errMismatch(CodeWrongPublication, "pass %s does not belong to publication %s", passID, publicationID)
	}
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}

	st, err := s.settleRenewalPayment(pub, pass.Tier, payment)
	if err != nil {
		return nil, err
	}

	stats, err := s.ledger.GetStats(pub.ID)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	if st != nil {
		recordRevenue(stats, st.Amount)
	}

	now := s.clock.Now()
	if now.Before(pass.ExpiresAt) {
		pass.ExpiresAt = pass.ExpiresAt.Add(SubscriptionPeriod)
	} else {
		pass.ExpiresAt = now.Add(SubscriptionPeriod)
	}

	ev := s.newEvent(EventPassRenewed, pass.Owner, pass.ID, payment, "tier="+string(pass.Tier))
	if err := s.ledger.RenewPass(pass, stats, st, ev); err != nil {
		return nil, fmt.Errorf("renewing pass: %w", err)
	}

	s.logger.Info("pass renewed", "pass", pass.ID, "expires_at", pass.ExpiresAt)
	return pass, nil
}

// Pass loads a subscription pass by ID.
func (s *Service) Pass(id string) (*model.SubscriptionPass, error) {
	pass, err := s.ledger.GetPass(id)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, errMismatch(CodeNotFound, "pass not found: %s", id)
	}
	return pass, nil
}

// TransferPass moves a pass to a new holder. Transfers are allowed at any
// time regardless of validity; the Subscriber field is untouched.
func (s *Service) TransferPass(passID string, from, to model.Identity) (*model.SubscriptionPass, error) {
	pass, err := s.Pass(passID)
	if err != nil {
		return nil, err
	}
	if pass.Owner != from {
		return nil, errUnauthorized(CodeNotOwner, "pass %s is not held by %s", passID, from)
	}

	pass.Owner = to
	ev := s.newEvent(EventPassTransferred, from, pass.ID, 0, "to="+string(to))
	if err := s.ledger.TransferPass(pass, ev); err != nil {
		return nil, fmt.Errorf("transferring pass: %w", err)
	}

	s.logger.Info("pass transferred", "pass", pass.ID, "to", to)
	return pass, nil
}

// settleTierPayment validates a subscribe payment against the publication's
// current tier price and splits it between the treasury and the owner.
// Returns nil for the zero-value free tier path.
func (s *Service) settleTierPayment(pub *model.Publication, tier model.Tier, payment uint64) (*Settlement, error) {
	if tier == model.TierFree {
		if !pub.FreeTierEnabled {
			return nil, errValidation(CodeFreeTierDisabled, "publication %s has no free tier", pub.ID)
		}
		if payment != 0 {
			return nil, errValidation(CodeFreePaymentNonZero, "free tier takes no payment, got %d", payment)
		}
		return nil, nil
	}

	price := pub.PriceFor(tier)
	if payment < price {
		return nil, errFunds(CodePaymentBelowPrice, "payment %d below tier price %d", payment, price)
	}

	treasury, err := s.ledger.GetTreasury()
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	remainder := CollectSubscriptionFee(treasury, payment)
	return &Settlement{Treasury: treasury, Payee: pub.Owner, Amount: remainder}, nil
}

// settleRenewalPayment is settleTierPayment without the free-tier flag
// check: an existing free pass stays renewable even if the publication later
// disables new free signups. Free renewals still take no payment, and the
// current price for the tier applies to paid ones.
func (s *Service) settleRenewalPayment(pub *model.Publication, tier model.Tier, payment uint64) (*Settlement, error) {
	if tier == model.TierFree {
		if payment != 0 {
			return nil, errValidation(CodeFreePaymentNonZero, "free tier takes no payment, got %d", payment)
		}
		return nil, nil
	}

	price := pub.PriceFor(tier)
	if payment < price {
		return nil, errFunds(CodePaymentBelowPrice, "payment %d below tier price %d", payment, price)
	}
	if payment == 0 {
		return nil, nil
	}

	treasury, err := s.ledger.GetTreasury()
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	remainder := CollectSubscriptionFee(treasury, payment)
	return &Settlement{Treasury: treasury, Payee: pub.Owner, Amount: remainder}, nil
}

// IsValid reports whether a pass is inside its validity window.
// Pure: reads nothing beyond its arguments.
func IsValid(pass *model.SubscriptionPass, now time.Time) bool {
	return now.Before(pass.ExpiresAt)
}

// HasTierAccess reports whether a pass grants access at the required tier:
// the pass must be valid and its tier must rank at or above the requirement.
// Monotonic in the required tier. Ownership of the pass object is what
// grants access — the historical Subscriber field is deliberately ignored.
func HasTierAccess(pass *model.SubscriptionPass, required model.Tier, now time.Time) bool {
	return IsValid(pass, now) && pass.Tier.Rank() >= required.Rank()
}
