package paywall

import (
	"fmt"

	"paywall-go/internal/model"
)

// TreasurySubjectID is the capability subject for the singleton treasury.
// The admin capability minted at initialization is bound to it.
const TreasurySubjectID = "treasury"

// CollectSubscriptionFee extracts the platform fee from a subscription
// payment: the fee is deducted from the payment and accrued into the
// treasury state, and the remainder to forward is returned.
// fee + remainder == payment exactly. Pure (state, input) -> state'.
func CollectSubscriptionFee(t *model.Treasury, payment uint64) (remainder uint64) {
	fee, remainder := SplitFee(payment, t.SubscriptionFeeBps)
	t.Balance += fee
	t.TotalFeesCollected += fee
	return remainder
}

// CollectPayPerArticleFee extracts the platform fee from a read-token
// payment. Same arithmetic as CollectSubscriptionFee.
func CollectPayPerArticleFee(t *model.Treasury, payment uint64) (remainder uint64) {
	fee, remainder := SplitFee(payment, t.SubscriptionFeeBps)
	t.Balance += fee
	t.TotalFeesCollected += fee
	return remainder
}

// CalculateArticleDeposit returns the deposit owed for publishing against a
// publication with the given premium price. Pure query.
func CalculateArticleDeposit(t *model.Treasury, premiumPrice uint64) uint64 {
	return premiumPrice * t.ArticleDepositBps / BpsDenominator
}

// collectArticleDeposit consumes an entire deposit into the treasury.
// A zero deposit is a validation error — publishing against a zero-premium
// publication must skip this call, not pass zero.
func collectArticleDeposit(t *model.Treasury, amount uint64) error {
	if amount == 0 {
		return errValidation(CodeZeroDeposit, "article deposit is zero")
	}
	t.Balance += amount
	t.TotalDepositsCollected += amount
	return nil
}

// Treasury returns the current treasury state.
func (s *Service) Treasury() (*model.Treasury, error) {
	return s.ledger.GetTreasury()
}

// InitTreasuryAdmin mints the treasury's admin capability and hands it to
// the operator. The unique capability-per-subject constraint in the ledger
// makes this a once-only operation.
func (s *Service) InitTreasuryAdmin(operator model.Identity) (*model.OwnerCap, error) {
	cap := &model.OwnerCap{
		ID:        s.idgen.New(),
		SubjectID: TreasurySubjectID,
		Owner:     operator,
		CreatedAt: s.clock.Now(),
	}
	ev := s.newEvent(EventAdminCapIssued, operator, cap.ID, 0, "")
	if err := s.ledger.CreateCap(cap, ev); err != nil {
		return nil, fmt.Errorf("minting admin capability: %w", err)
	}

	s.logger.Info("treasury admin capability issued", "cap", cap.ID, "operator", operator)
	return cap, nil
}

// Withdraw pays out accumulated fees and deposits from the treasury to a
// recipient. Admin-capability-gated.
func (s *Service) Withdraw(adminCap *model.OwnerCap, amount uint64, recipient model.Identity) (*model.Treasury, error) {
	if err := requireCap(adminCap, TreasurySubjectID); err != nil {
		return nil, err
	}
	treasury, err := s.ledger.GetTreasury()
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	if amount > treasury.Balance {
		return nil, errFunds(CodeWithdrawExceeds, "withdrawal %d exceeds balance %d", amount, treasury.Balance)
	}

	treasury.Balance -= amount
	ev := s.newEvent(EventTreasuryWithdrawal, adminCap.Owner, TreasurySubjectID, amount, "to="+string(recipient))
	if err := s.ledger.SettleTreasury(treasury, recipient, amount, ev); err != nil {
		return nil, fmt.Errorf("withdrawing from treasury: %w", err)
	}

	s.logger.Info("treasury withdrawal", "amount", amount, "recipient", recipient)
	return treasury, nil
}

// UpdateFeeRates changes the subscription fee and article deposit rates.
// Admin-capability-gated; each rate is independently capped at 1000 bps.
func (s *Service) UpdateFeeRates(adminCap *model.OwnerCap, subscriptionBps, depositBps uint64) (*model.Treasury, error) {
	if err := requireCap(adminCap, TreasurySubjectID); err != nil {
		return nil, err
	}
	if subscriptionBps > MaxFeeBps {
		return nil, errValidation(CodeFeeRateTooHigh, "subscription fee %d bps exceeds cap %d", subscriptionBps, MaxFeeBps)
	}
	if depositBps > MaxFeeBps {
		return nil, errValidation(CodeFeeRateTooHigh, "article deposit %d bps exceeds cap %d", depositBps, MaxFeeBps)
	}

	treasury, err := s.ledger.GetTreasury()
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	treasury.SubscriptionFeeBps = subscriptionBps
	treasury.ArticleDepositBps = depositBps

	ev := s.newEvent(EventFeeRatesUpdated, adminCap.Owner, TreasurySubjectID, 0,
		fmt.Sprintf("subscription_bps=%d deposit_bps=%d", subscriptionBps, depositBps))
	if err := s.ledger.SettleTreasury(treasury, "", 0, ev); err != nil {
		return nil, fmt.Errorf("updating fee rates: %w", err)
	}

	s.logger.Info("fee rates updated", "subscription_bps", subscriptionBps, "deposit_bps", depositBps)
	return treasury, nil
}
