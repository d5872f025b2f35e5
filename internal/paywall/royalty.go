package paywall

import (
	"fmt"

	"paywall-go/internal/model"
)

// AddRoyaltyRule attaches a royalty rule to a publication's resale venue.
// Capability-gated by the publication capability; the rate may go up to
// 10000 bps (a publisher may claim the full resale price).
func (s *Service) AddRoyaltyRule(cap *model.OwnerCap, publicationID string, amountBps, minAmount uint64) (*model.RoyaltyRule, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, pub.ID); err != nil {
		return nil, err
	}
	if amountBps > MaxRoyaltyBps {
		return nil, errValidation(CodeRoyaltyRateTooHigh, "royalty %d bps exceeds cap %d", amountBps, MaxRoyaltyBps)
	}

	rule := &model.RoyaltyRule{
		ID:            s.idgen.New(),
		PublicationID: pub.ID,
		AmountBps:     amountBps,
		MinAmount:     minAmount,
	}
	ev := s.newEvent(EventRoyaltyRuleAdded, cap.Owner, pub.ID, minAmount, fmt.Sprintf("bps=%d", amountBps))
	if err := s.ledger.CreateRoyaltyRule(rule, ev); err != nil {
		return nil, fmt.Errorf("creating royalty rule: %w", err)
	}

	s.logger.Info("royalty rule added", "publication", pub.ID, "bps", amountBps, "min", minAmount)
	return rule, nil
}

// CalculateRoyalty returns the royalty owed on a sale under a rule:
// max(salePrice*bps/10000, minimum). Pure query.
func CalculateRoyalty(rule *model.RoyaltyRule, salePrice uint64) uint64 {
	return RoyaltyDue(salePrice, rule.AmountBps, rule.MinAmount)
}

// FinalizeResale settles a secondary sale of a subscription pass. The
// royalty payment must equal the calculated royalty exactly — a sale cannot
// finalize without it — and ownership moves to the buyer in the same
// transaction as the royalty accrual. The pass's Subscriber field and
// validity window are untouched; expired passes resell like any other.
func (s *Service) FinalizeResale(passID string, salePrice, royaltyPayment uint64, seller, buyer model.Identity) (*model.SubscriptionPass, error) {
	pass, err := s.Pass(passID)
	if err != nil {
		return nil, err
	}
	if pass.Owner != seller {
		return nil, errUnauthorized(CodeNotOwner, "pass %s is not held by %s", passID, seller)
	}

	rule, err := s.ledger.GetRoyaltyRule(pass.PublicationID)
	if err != nil {
		return nil, fmt.Errorf("loading royalty rule: %w", err)
	}
	var due uint64
	if rule != nil {
		due = CalculateRoyalty(rule, salePrice)
	}
	if royaltyPayment < due {
		return nil, errFunds(CodeRoyaltyNotCovered, "royalty payment %d below required %d", royaltyPayment, due)
	}
	if royaltyPayment > due {
		return nil, errValidation(CodeRoyaltyOverpaid, "royalty payment %d exceeds required %d", royaltyPayment, due)
	}
	if rule != nil {
		rule.Accrued += royaltyPayment
	}

	pass.Owner = buyer
	ev := s.newEvent(EventPassResold, seller, pass.ID, salePrice,
		fmt.Sprintf("buyer=%s royalty=%d", buyer, royaltyPayment))
	if err := s.ledger.FinalizeResale(pass, rule, ev); err != nil {
		return nil, fmt.Errorf("finalizing resale: %w", err)
	}

	s.logger.Info("pass resold", "pass", pass.ID, "price", salePrice, "royalty", royaltyPayment, "buyer", buyer)
	return pass, nil
}

// WithdrawRoyalties pays accrued royalties out to the publication owner.
// Capability-gated by the publication capability. amount == 0 withdraws the
// full accrued balance.
func (s *Service) WithdrawRoyalties(cap *model.OwnerCap, publicationID string, amount uint64) (uint64, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return 0, err
	}
	if err := requireCap(cap, pub.ID); err != nil {
		return 0, err
	}

	rule, err := s.ledger.GetRoyaltyRule(pub.ID)
	if err != nil {
		return 0, fmt.Errorf("loading royalty rule: %w", err)
	}
	if rule == nil {
		return 0, errMismatch(CodeNoRoyaltyRule, "publication %s has no royalty rule", pub.ID)
	}

	if amount == 0 {
		amount = rule.Accrued
	}
	if amount > rule.Accrued {
		return 0, errFunds(CodeWithdrawExceeds, "withdrawal %d exceeds accrued royalties %d", amount, rule.Accrued)
	}

	rule.Accrued -= amount
	ev := s.newEvent(EventRoyaltiesWithdrawn, cap.Owner, pub.ID, amount, "to="+string(pub.Owner))
	if err := s.ledger.SettleRoyalties(rule, pub.Owner, amount, ev); err != nil {
		return 0, fmt.Errorf("withdrawing royalties: %w", err)
	}

	s.logger.Info("royalties withdrawn", "publication", pub.ID, "amount", amount)
	return amount, nil
}
