package paywall

import (
	"time"

	"paywall-go/internal/model"
)

// SubscriptionPeriod is the validity window granted by one subscription or
// renewal payment.
const SubscriptionPeriod = 30 * 24 * time.Hour

// ReadTokenTTL is the fixed validity window of a read token from issuance.
const ReadTokenTTL = 24 * time.Hour

// daysPerPeriod is the divisor for the pay-per-article price: one day of the
// monthly tier price, truncating.
const daysPerPeriod = 30

// Service is the orchestration layer for the access and settlement engine.
// Each exported method is one all-or-nothing unit of work: it validates its
// inputs, computes the new state as a pure function of the loaded state, and
// hands the whole mutation to the ledger as a single transaction. On any
// error nothing is persisted.
type Service struct {
	ledger Ledger
	store  ContentStore
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(ledger Ledger, store ContentStore, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		ledger: ledger,
		store:  store,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// History returns the most recent audit events, newest first.
func (s *Service) History(limit int) ([]*model.Event, error) {
	return s.ledger.ListEvents(limit)
}

// Balance returns the ledger balance credited to an identity.
func (s *Service) Balance(owner model.Identity) (uint64, error) {
	return s.ledger.GetBalance(owner)
}
