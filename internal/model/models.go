package model

import "time"

// Identity is an opaque account identifier. The engine never interprets it;
// the ledger substrate is responsible for authenticating callers.
type Identity string

// Tier is an ordered access level. Free < Basic < Premium.
type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// Rank returns the ordering of a tier: Free=0, Basic=1, Premium=2.
// Unknown tiers rank below Free.
func (t Tier) Rank() int {
	switch t {
	case TierFree:
		return 0
	case TierBasic:
		return 1
	case TierPremium:
		return 2
	default:
		return -1
	}
}

// Known returns true if t is one of the three defined tiers.
func (t Tier) Known() bool { return t.Rank() >= 0 }

// ParseTier converts a raw string to a Tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Known()
}

// Publication is a content venue owned by a single identity.
// Prices are denominated in the ledger's smallest currency unit.
type Publication struct {
	ID              string
	Owner           Identity // receives subscription and read-token proceeds
	Name            string
	Description     string
	BasicPrice      uint64 // monthly price for the basic tier
	PremiumPrice    uint64 // monthly price for the premium tier; always >= BasicPrice
	FreeTierEnabled bool
	ArticleCount    int64 // incremented on publish, never decremented
	CreatedAt       time.Time
}

// PriceFor returns the current monthly price for a tier.
func (p *Publication) PriceFor(t Tier) uint64 {
	switch t {
	case TierBasic:
		return p.BasicPrice
	case TierPremium:
		return p.PremiumPrice
	default:
		return 0
	}
}

// OwnerCap is an ownership capability binding one identity to one resource.
// Every privileged operation on a resource must present the capability whose
// SubjectID equals the resource's ID. Capabilities are transferable but a
// resource only ever has one (subject_id is unique in the ledger).
type OwnerCap struct {
	ID        string
	SubjectID string // ID of the resource this capability controls
	Owner     Identity
	CreatedAt time.Time
}

// Article is a piece of protected content within a publication.
// RequiredTier, ContentHandle, KeyRef and PublishedAt are immutable after
// creation. Archiving is a soft-delete; articles are never removed.
type Article struct {
	ID            string
	PublicationID string
	Title         string
	Excerpt       string
	RequiredTier  Tier
	ContentHandle string // retrieval handle in the content store
	KeyRef        string // reference to the key sealing the blob, "" if unsealed
	PublishedAt   time.Time
	Archived      bool
}

// SubscriptionPass is a transferable, tier-tagged, time-boxed access
// credential. Owner is the current holder and is authoritative for access;
// Subscriber records who originally subscribed and is historical only —
// access decisions must never consult it. Expired passes carry no access
// value but remain valid, tradeable objects.
type SubscriptionPass struct {
	ID            string
	PublicationID string
	Tier          Tier
	Owner         Identity // current holder; moves on transfer and resale
	Subscriber    Identity // original subscriber; never changes
	SubscribedAt  time.Time
	ExpiresAt     time.Time // only ever moves forward
}

// ReadToken grants access to a single article for exactly 24 hours from
// issuance. Tokens are transferable, not renewable, and optionally
// consumable before expiry.
type ReadToken struct {
	ID        string
	ArticleID string
	Owner     Identity
	CreatedAt time.Time
	ExpiresAt time.Time // CreatedAt + 24h exactly
}

// Treasury is the singleton settlement account. Fee rates are expressed in
// basis points and each independently capped at 1000 (10%).
type Treasury struct {
	Balance                uint64
	SubscriptionFeeBps     uint64
	ArticleDepositBps      uint64
	TotalFeesCollected     uint64
	TotalDepositsCollected uint64
}

// RoyaltyRule is the mandatory payment hook on secondary transfers of
// subscription passes for one publication. The royalty due on a sale is
// max(salePrice*AmountBps/10000, MinAmount).
type RoyaltyRule struct {
	ID            string
	PublicationID string
	AmountBps     uint64 // <= 10000
	MinAmount     uint64 // absolute floor charged even on small sales
	Accrued       uint64 // royalties collected and not yet withdrawn
}

// StatsLedger holds private per-publication counters, readable only by the
// holder of its capability. Per-article view counts live in their own table
// and are fetched alongside.
type StatsLedger struct {
	ID                 string
	PublicationID      string
	FreeSubscribers    int64
	BasicSubscribers   int64
	PremiumSubscribers int64
	TotalRevenue       uint64 // cumulative owner proceeds, after platform fees
}

// Event is one entry in the audit stream. Every state-changing operation
// writes exactly one event in the same transaction as its mutation, with
// enough detail to reconstruct treasury and stats totals offline.
type Event struct {
	ID        int64 // auto-increment, assigned by the ledger
	Kind      string
	Actor     Identity
	SubjectID string
	Amount    uint64
	Note      string
	At        time.Time
}
