package paywall

import "paywall-go/internal/model"

// Audit event kinds. One event of the matching kind is written in the same
// transaction as every state-changing operation.
const (
	EventPublicationCreated = "publication.created"
	EventPricingUpdated     = "publication.pricing_updated"
	EventFreeTierToggled    = "publication.free_tier_toggled"

	EventArticlePublished   = "article.published"
	EventArticleArchived    = "article.archived"
	EventArticleUnarchived  = "article.unarchived"
	EventArticleMetaUpdated = "article.meta_updated"

	EventPassSubscribed  = "pass.subscribed"
	EventPassRenewed     = "pass.renewed"
	EventPassTransferred = "pass.transferred"
	EventPassResold      = "pass.resold"

	EventTokenIssued      = "token.issued"
	EventTokenConsumed    = "token.consumed"
	EventTokenTransferred = "token.transferred"

	EventTreasuryWithdrawal = "treasury.withdrawal"
	EventFeeRatesUpdated    = "treasury.fee_rates_updated"
	EventAdminCapIssued     = "treasury.admin_cap_issued"

	EventRoyaltyRuleAdded   = "royalty.rule_added"
	EventRoyaltiesWithdrawn = "royalty.withdrawn"

	EventCapTransferred = "cap.transferred"
)

// newEvent builds an audit event stamped with the engine clock.
func (s *Service) newEvent(kind string, actor model.Identity, subjectID string, amount uint64, note string) *model.Event {
	return &model.Event{
		Kind:      kind,
		Actor:     actor,
		SubjectID: subjectID,
		Amount:    amount,
		Note:      note,
		At:        s.clock.Now(),
	}
}
