package paywall_test

import (
	"testing"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
	"paywall-go/internal/store"
	"paywall-go/internal/testutil"
)

// fixture wires a Service against an in-memory ledger and content store.
// The seeded treasury rates are 250 bps subscription fee, 100 bps deposit.
type fixture struct {
	svc   *paywall.Service
	clock *testutil.StubClock
	store *store.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ledger := testutil.NewTestLedger(t)
	clock := testutil.FixedClock()
	ms := store.NewMemoryStore("test")
	svc := paywall.NewService(ledger, ms, paywall.NewNopLogger(), clock, testutil.NewStubIDGenerator())

	return &fixture{svc: svc, clock: clock, store: ms}
}

func (f *fixture) createPub(t *testing.T, owner model.Identity, basic, premium uint64, freeTier bool) (*model.Publication, *model.OwnerCap, *model.OwnerCap) {
	t.Helper()

	pub, pubCap, statsCap, err := f.svc.CreatePublication(owner, "The Daily Ledger", "", basic, premium, freeTier)
	if err != nil {
		t.Fatalf("CreatePublication() error = %v", err)
	}
	return pub, pubCap, statsCap
}

func TestService_History(t *testing.T) {
	f := newFixture(t)
	f.createPub(t, "alice", 100, 200, false)

	events, err := f.svc.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("History() returned %d events, want 1", len(events))
	}
	if events[0].Kind != paywall.EventPublicationCreated {
		t.Errorf("event kind = %q, want %q", events[0].Kind, paywall.EventPublicationCreated)
	}
	if events[0].Actor != "alice" {
		t.Errorf("event actor = %q, want alice", events[0].Actor)
	}
}

func TestService_Balance(t *testing.T) {
	f := newFixture(t)

	balance, err := f.svc.Balance("nobody")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 0 {
		t.Errorf("Balance() = %d, want 0", balance)
	}
}
