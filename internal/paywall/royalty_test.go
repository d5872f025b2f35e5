package paywall_test

import (
	"errors"
	"testing"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
)

func TestCalculateRoyalty(t *testing.T) {
	rule := &model.RoyaltyRule{AmountBps: 1000, MinAmount: 1_000_000_000}

	// Percentage 500_000_000 is below the floor.
	if got := paywall.CalculateRoyalty(rule, 5_000_000_000); got != 1_000_000_000 {
		t.Errorf("royalty = %d, want the 1000000000 floor", got)
	}
	// Percentage 2_000_000_000 clears the floor.
	if got := paywall.CalculateRoyalty(rule, 20_000_000_000); got != 2_000_000_000 {
		t.Errorf("royalty = %d, want 2000000000", got)
	}
}

func TestService_AddRoyaltyRule(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 100, 200, false)

	t.Run("rejects rates above 10000 bps", func(t *testing.T) {
		_, err := f.svc.AddRoyaltyRule(pubCap, pub.ID, 10_001, 0)
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("requires the publication capability", func(t *testing.T) {
		_, otherCap, _ := f.createPub(t, "bob", 1, 1, false)
		_, err := f.svc.AddRoyaltyRule(otherCap, pub.ID, 1000, 0)
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("attaches the rule", func(t *testing.T) {
		rule, err := f.svc.AddRoyaltyRule(pubCap, pub.ID, 1000, 500)
		if err != nil {
			t.Fatalf("AddRoyaltyRule() error = %v", err)
		}
		if rule.PublicationID != pub.ID {
			t.Errorf("rule publication = %q, want %q", rule.PublicationID, pub.ID)
		}
	})
}

func TestService_FinalizeResale(t *testing.T) {
	newResaleFixture := func(t *testing.T) (*fixture, *model.Publication, *model.SubscriptionPass) {
		t.Helper()
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)
		if _, err := f.svc.AddRoyaltyRule(pubCap, pub.ID, 1000, 1_000_000_000); err != nil {
			t.Fatalf("AddRoyaltyRule() error = %v", err)
		}
		pass, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "bob")
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		return f, pub, pass
	}

	t.Run("requires the exact calculated royalty", func(t *testing.T) {
		f, _, pass := newResaleFixture(t)

		// Floor applies: max(5_000_000_000*1000/10000, 1_000_000_000) = 1_000_000_000.
		_, err := f.svc.FinalizeResale(pass.ID, 5_000_000_000, 999_999_999, "bob", "carol")
		if !errors.Is(err, paywall.ErrInsufficientFunds) {
			t.Fatalf("underpaid error = %v, want ErrInsufficientFunds", err)
		}

		_, err = f.svc.FinalizeResale(pass.ID, 5_000_000_000, 1_000_000_001, "bob", "carol")
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("overpaid error = %v, want ErrValidation", err)
		}

		sold, err := f.svc.FinalizeResale(pass.ID, 5_000_000_000, 1_000_000_000, "bob", "carol")
		if err != nil {
			t.Fatalf("FinalizeResale() error = %v", err)
		}
		if sold.Owner != "carol" {
			t.Errorf("owner = %s, want carol", sold.Owner)
		}
		if sold.Subscriber != "bob" {
			t.Errorf("subscriber = %s, want bob", sold.Subscriber)
		}
	})

	t.Run("only the holder may sell", func(t *testing.T) {
		f, _, pass := newResaleFixture(t)

		_, err := f.svc.FinalizeResale(pass.ID, 100, 1_000_000_000, "mallory", "eve")
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("no rule means no royalty due", func(t *testing.T) {
		f := newFixture(t)
		pub, _, _ := f.createPub(t, "alice", 1000, 2000, false)
		pass, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "bob")
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		if _, err := f.svc.FinalizeResale(pass.ID, 5_000_000_000, 0, "bob", "carol"); err != nil {
			t.Fatalf("ruleless resale error = %v", err)
		}
	})
}

func TestService_WithdrawRoyalties(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)
	if _, err := f.svc.AddRoyaltyRule(pubCap, pub.ID, 1000, 0); err != nil {
		t.Fatalf("AddRoyaltyRule() error = %v", err)
	}
	pass, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "bob")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Accrue 1_000_000 via one resale at 10_000_000.
	if _, err := f.svc.FinalizeResale(pass.ID, 10_000_000, 1_000_000, "bob", "carol"); err != nil {
		t.Fatalf("FinalizeResale() error = %v", err)
	}

	t.Run("cannot exceed the accrued balance", func(t *testing.T) {
		_, err := f.svc.WithdrawRoyalties(pubCap, pub.ID, 1_000_001)
		if !errors.Is(err, paywall.ErrInsufficientFunds) {
			t.Fatalf("error = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("zero amount withdraws everything to the owner", func(t *testing.T) {
		before, _ := f.svc.Balance("alice")

		paid, err := f.svc.WithdrawRoyalties(pubCap, pub.ID, 0)
		if err != nil {
			t.Fatalf("WithdrawRoyalties() error = %v", err)
		}
		if paid != 1_000_000 {
			t.Errorf("paid = %d, want 1000000", paid)
		}

		after, _ := f.svc.Balance("alice")
		if after-before != 1_000_000 {
			t.Errorf("owner credited %d, want 1000000", after-before)
		}
	})

	t.Run("no rule", func(t *testing.T) {
		pub2, cap2, _ := f.createPub(t, "dave", 1, 1, false)
		_, err := f.svc.WithdrawRoyalties(cap2, pub2.ID, 0)
		if !errors.Is(err, paywall.ErrStateMismatch) {
			t.Fatalf("error = %v, want ErrStateMismatch", err)
		}
	})
}
