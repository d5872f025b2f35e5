package paywall

import "paywall-go/internal/model"

// Settlement captures the monetary effect of one fee-bearing operation: the
// treasury state after fee extraction and the remainder owed to a payee.
// A nil Settlement (or a nil Treasury / empty Payee inside one) means the
// corresponding side had no effect, as with a free-tier subscription.
type Settlement struct {
	Treasury *model.Treasury // updated treasury state, nil if untouched
	Payee    model.Identity  // recipient of the remainder, "" if none
	Amount   uint64          // remainder credited to Payee
}

// Ledger is the persistent substrate for all engine state. Getters return
// (nil, nil) when the record does not exist. Every write method executes as
// one atomic transaction: either every row it names is updated and the event
// is appended, or nothing changes. The engine relies on this for its
// no-partial-mutation guarantee and performs no locking of its own.
type Ledger interface {
	// Publications

	GetPublication(id string) (*model.Publication, error)

	// CreatePublication persists a new publication together with its stats
	// ledger and both capabilities.
	CreatePublication(pub *model.Publication, stats *model.StatsLedger, pubCap, statsCap *model.OwnerCap, ev *model.Event) error

	// UpdatePublication rewrites a publication's mutable fields
	// (prices, free-tier flag, description).
	UpdatePublication(pub *model.Publication, ev *model.Event) error

	// Articles

	GetArticle(id string) (*model.Article, error)
	ListArticles(publicationID string) ([]*model.Article, error)

	// CreateArticle persists a new article, the publication with its bumped
	// article counter, and — when a deposit was collected — the updated
	// treasury. treasury may be nil.
	CreateArticle(article *model.Article, pub *model.Publication, treasury *model.Treasury, ev *model.Event) error

	// UpdateArticle rewrites an article's mutable fields (title, excerpt,
	// archived flag).
	UpdateArticle(article *model.Article, ev *model.Event) error

	// Capabilities

	GetCap(id string) (*model.OwnerCap, error)
	CreateCap(cap *model.OwnerCap, ev *model.Event) error
	TransferCap(cap *model.OwnerCap, ev *model.Event) error

	// Subscription passes

	GetPass(id string) (*model.SubscriptionPass, error)

	// CreatePass persists a new pass plus the stats and settlement effects
	// of the subscribe operation.
	CreatePass(pass *model.SubscriptionPass, stats *model.StatsLedger, st *Settlement, ev *model.Event) error

	// RenewPass persists a pass's extended expiry plus the stats and
	// settlement effects of the renewal.
	RenewPass(pass *model.SubscriptionPass, stats *model.StatsLedger, st *Settlement, ev *model.Event) error

	// TransferPass rewrites a pass's current owner. The subscriber column
	// is never touched.
	TransferPass(pass *model.SubscriptionPass, ev *model.Event) error

	// Read tokens

	GetReadToken(id string) (*model.ReadToken, error)

	// CreateReadToken persists a new token, the stats effects (revenue and
	// the view count for the token's article) and the settlement.
	CreateReadToken(token *model.ReadToken, stats *model.StatsLedger, st *Settlement, ev *model.Event) error

	// DeleteReadToken removes a consumed token.
	DeleteReadToken(id string, ev *model.Event) error

	// TransferReadToken rewrites a token's current owner.
	TransferReadToken(token *model.ReadToken, ev *model.Event) error

	// Treasury

	GetTreasury() (*model.Treasury, error)

	// SettleTreasury persists an updated treasury and, when payee is
	// non-empty, credits amount to it (withdrawals).
	SettleTreasury(treasury *model.Treasury, payee model.Identity, amount uint64, ev *model.Event) error

	// Royalties

	// GetRoyaltyRule returns the rule for a publication, or (nil, nil) when
	// the publication has none.
	GetRoyaltyRule(publicationID string) (*model.RoyaltyRule, error)
	CreateRoyaltyRule(rule *model.RoyaltyRule, ev *model.Event) error

	// FinalizeResale atomically moves pass ownership and accrues the
	// royalty. rule may be nil when the publication has no royalty rule.
	FinalizeResale(pass *model.SubscriptionPass, rule *model.RoyaltyRule, ev *model.Event) error

	// SettleRoyalties persists a rule's reduced accrual and credits the
	// withdrawn amount to the payee.
	SettleRoyalties(rule *model.RoyaltyRule, payee model.Identity, amount uint64, ev *model.Event) error

	// Stats

	GetStats(publicationID string) (*model.StatsLedger, error)
	GetArticleViews(publicationID string) (map[string]int64, error)

	// Balances and events

	GetBalance(owner model.Identity) (uint64, error)

	// ListEvents returns audit events newest first, at most limit entries.
	ListEvents(limit int) ([]*model.Event, error)

	// Close closes the underlying connection.
	Close() error
}
